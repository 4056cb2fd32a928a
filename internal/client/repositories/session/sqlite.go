package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/useradmin/internal/common"
	"github.com/dmitrijs2005/useradmin/internal/dbx"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Load(ctx context.Context) (*Session, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value, updated_at FROM session`)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	var savedAt time.Time
	for rows.Next() {
		var key, value string
		var updatedAt time.Time
		if err := rows.Scan(&key, &value, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		values[key] = value
		if updatedAt.After(savedAt) {
			savedAt = updatedAt
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate session rows: %w", err)
	}

	token := values[common.SessionTokenKey]
	if token == "" {
		return nil, nil
	}

	s := &Session{Token: token, Email: values[common.SessionEmailKey], SavedAt: savedAt}
	if roles := values[common.SessionRolesKey]; roles != "" {
		s.Roles = strings.Split(roles, ",")
	}
	return s, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, s Session) error {
	if s.Token == "" {
		return errors.New("session token is empty")
	}
	at := s.SavedAt
	if at.IsZero() {
		at = time.Now()
	}
	at = at.UTC()

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := clearAll(ctx, tx); err != nil {
			return err
		}
		pairs := [][2]string{
			{common.SessionTokenKey, s.Token},
			{common.SessionEmailKey, s.Email},
			{common.SessionRolesKey, strings.Join(s.Roles, ",")},
		}
		for _, p := range pairs {
			if err := set(ctx, tx, p[0], p[1], at); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	return clearAll(ctx, r.db)
}

func set(ctx context.Context, db dbx.DBTX, key, value string, at time.Time) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO session (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, at)
	if err != nil {
		return fmt.Errorf("failed to set session[%s]: %w", key, err)
	}
	return nil
}

func clearAll(ctx context.Context, db dbx.DBTX) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM session`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
