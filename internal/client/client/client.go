package client

import (
	"context"

	"github.com/dmitrijs2005/useradmin/internal/client/models"
)

// Client is the contract of the user-management backend. Every method issues
// exactly one request; nothing is retried or cached.
type Client interface {
	Close() error
	SetToken(token string)
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	SearchUsers(ctx context.Context, keyword string) ([]models.User, error)
	GetUsersByDepartment(ctx context.Context, dept models.Department) ([]models.User, error)
	CreateUser(ctx context.Context, draft models.Draft) (*models.User, error)
	UpdateUser(ctx context.Context, email string, patch models.Patch) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}
