package session

import (
	"context"
	"time"
)

// Session is a persisted login.
type Session struct {
	Token   string
	Email   string
	Roles   []string
	SavedAt time.Time
}

// HasRole reports whether the session was granted role.
func (s *Session) HasRole(role string) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type Repository interface {
	// Load returns the stored session, or nil, nil when there is none.
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
}
