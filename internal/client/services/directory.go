package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/useradmin/internal/client/client"
	"github.com/dmitrijs2005/useradmin/internal/client/form"
	"github.com/dmitrijs2005/useradmin/internal/client/models"
	"github.com/dmitrijs2005/useradmin/internal/client/roster"
	"github.com/dmitrijs2005/useradmin/internal/logging"
)

// Mode selects how mutations reach the roster.
type Mode string

const (
	// ModeConfirmed changes the roster only after the backend answered.
	ModeConfirmed Mode = "confirmed"
	// ModeOptimistic changes the roster first and rolls back on failure.
	ModeOptimistic Mode = "optimistic"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeConfirmed, ModeOptimistic:
		return m, nil
	}
	return "", fmt.Errorf("unknown mutation mode %q (want %s or %s)", s, ModeConfirmed, ModeOptimistic)
}

// ErrProvisional is returned for records whose create is still in flight.
var ErrProvisional = errors.New("user is still being created")

type DirectoryService struct {
	client    client.Client
	store     *roster.Store
	validator *form.Validator
	mode      Mode
	log       logging.Logger
	now       func() time.Time
}

func NewDirectoryService(c client.Client, store *roster.Store, v *form.Validator, mode Mode, log logging.Logger) *DirectoryService {
	return &DirectoryService{client: c, store: store, validator: v, mode: mode, log: log, now: time.Now}
}

func (s *DirectoryService) Store() *roster.Store { return s.store }

func (s *DirectoryService) Mode() Mode { return s.mode }

// Refresh reloads the whole directory. A failure is logged and leaves the
// roster as it was.
func (s *DirectoryService) Refresh(ctx context.Context) error {
	if err := s.store.Load(ctx, s.client.ListUsers); err != nil {
		s.log.Warn(ctx, "roster refresh failed", "op", "list", "err", err)
		return err
	}
	s.log.Debug(ctx, "roster refreshed", "count", s.store.Len())
	return nil
}

// Search replaces the roster with the backend's search result for keyword.
func (s *DirectoryService) Search(ctx context.Context, keyword string) error {
	return s.replaceWith(ctx, "search", func(ctx context.Context) ([]models.User, error) {
		return s.client.SearchUsers(ctx, keyword)
	})
}

// ByDepartment replaces the roster with the members of dept.
func (s *DirectoryService) ByDepartment(ctx context.Context, dept models.Department) error {
	return s.replaceWith(ctx, "department", func(ctx context.Context) ([]models.User, error) {
		return s.client.GetUsersByDepartment(ctx, dept)
	})
}

func (s *DirectoryService) replaceWith(ctx context.Context, op string, fetch roster.FetchFunc) error {
	if err := s.store.Load(ctx, fetch); err != nil {
		s.log.Warn(ctx, "roster query failed", "op", op, "err", err)
		return err
	}
	return nil
}

// Get fetches one user from the backend.
func (s *DirectoryService) Get(ctx context.Context, id int64) (models.User, error) {
	if id < 0 {
		if u, ok := s.store.Get(id); ok {
			return u, nil
		}
		return models.User{}, fmt.Errorf("%w: %d", roster.ErrNotFound, id)
	}
	u, err := s.client.GetUser(ctx, id)
	if err != nil {
		s.log.Warn(ctx, "get user failed", "op", "get", "id", id, "err", err)
		return models.User{}, err
	}
	return *u, nil
}

// Create validates d and creates the user.
func (s *DirectoryService) Create(ctx context.Context, d models.Draft) (models.User, error) {
	if res := s.validator.Validate(d); !res.OK {
		return models.User{}, &form.ValidationError{Errors: res.Errors}
	}
	d = form.Normalize(d)

	if s.mode == ModeOptimistic {
		op, _ := s.store.BeginCreate(d)
		u, err := s.client.CreateUser(ctx, d)
		if err != nil {
			s.rollback(ctx, op, err)
			return models.User{}, err
		}
		if _, err := s.store.Confirm(op.ID, u); err != nil {
			s.log.Warn(ctx, "confirm failed", "op", "create", "id", u.ID, "err", err)
		}
		return *u, nil
	}

	u, err := s.client.CreateUser(ctx, d)
	if err != nil {
		s.log.Warn(ctx, "create user failed", "op", "create", "email", d.Email, "err", err)
		return models.User{}, err
	}
	if err := s.store.ApplyCreate(*u); err != nil {
		// the record already arrived through a reload
		s.log.Debug(ctx, "created user already in roster", "id", u.ID)
	}
	return *u, nil
}

// Update validates d and applies its mutable fields to user id. The backend
// addresses the user by email, which is taken from the roster.
func (s *DirectoryService) Update(ctx context.Context, id int64, d models.Draft) (models.User, error) {
	if id < 0 {
		return models.User{}, ErrProvisional
	}
	current, ok := s.store.Get(id)
	if !ok {
		return models.User{}, fmt.Errorf("%w: %d", roster.ErrNotFound, id)
	}
	if d.Email != "" && !strings.EqualFold(strings.TrimSpace(d.Email), current.Email) {
		return models.User{}, form.ErrEmailLocked
	}
	d.Email = current.Email

	if res := s.validator.Validate(d); !res.OK {
		return models.User{}, &form.ValidationError{Errors: res.Errors}
	}
	patch := form.Normalize(d).Patch()

	if s.mode == ModeOptimistic {
		op, err := s.store.BeginUpdate(id, patch)
		if err != nil {
			return models.User{}, err
		}
		u, err := s.client.UpdateUser(ctx, current.Email, patch)
		if err != nil {
			s.rollback(ctx, op, err)
			return models.User{}, err
		}
		if _, err := s.store.Confirm(op.ID, u); err != nil {
			s.log.Warn(ctx, "confirm failed", "op", "update", "id", id, "err", err)
		}
		got, _ := s.store.Get(id)
		return got, nil
	}

	u, err := s.client.UpdateUser(ctx, current.Email, patch)
	if err != nil {
		s.log.Warn(ctx, "update user failed", "op", "update", "id", id, "err", err)
		return models.User{}, err
	}
	at := s.now()
	if u.UpdatedAt != nil {
		at = u.UpdatedAt.Time
	}
	if err := s.store.ApplyUpdate(id, patch, at); err != nil {
		s.log.Warn(ctx, "updated user left the roster", "id", id, "err", err)
		return *u, nil
	}
	got, _ := s.store.Get(id)
	return got, nil
}

// Delete removes user id.
func (s *DirectoryService) Delete(ctx context.Context, id int64) error {
	if id < 0 {
		return ErrProvisional
	}

	if s.mode == ModeOptimistic {
		op, err := s.store.BeginDelete(id)
		if err == nil {
			if err := s.client.DeleteUser(ctx, id); err != nil {
				s.rollback(ctx, op, err)
				return err
			}
			if _, err := s.store.Confirm(op.ID, nil); err != nil {
				s.log.Warn(ctx, "confirm failed", "op", "delete", "id", id, "err", err)
			}
			return nil
		}
	}

	if err := s.client.DeleteUser(ctx, id); err != nil {
		s.log.Warn(ctx, "delete user failed", "op", "delete", "id", id, "err", err)
		return err
	}
	s.store.ApplyDelete(id)
	return nil
}

func (s *DirectoryService) rollback(ctx context.Context, op roster.Op, cause error) {
	s.log.Warn(ctx, "rolling back", "op", op.Kind.String(), "id", op.UserID, "err", cause)
	if _, err := s.store.Fail(op.ID); err != nil {
		s.log.Error(ctx, "rollback failed", "op", op.Kind.String(), "id", op.UserID, "err", err)
	}
}
