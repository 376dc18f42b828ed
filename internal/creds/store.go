package creds

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when no credentials exist for the owner.
var ErrNotFound = errors.New("creds: not found")

const schema = `
CREATE TABLE IF NOT EXISTS credentials (
    owner_id      TEXT PRIMARY KEY,
    access_token  TEXT NOT NULL,
    refresh_token TEXT NOT NULL DEFAULT '',
    token_expiry  TEXT NOT NULL DEFAULT '',
    updated_at    TEXT NOT NULL
);
`

// Credentials holds a user's remote-storage tokens.
type Credentials struct {
	OwnerID      string    `db:"owner_id" json:"ownerId"`
	AccessToken  string    `db:"access_token" json:"accessToken"`
	RefreshToken string    `db:"refresh_token" json:"refreshToken,omitempty"`
	TokenExpiry  string    `db:"token_expiry" json:"tokenExpiry,omitempty"`
	UpdatedAt    time.Time `db:"-" json:"-"`
}

// Store persists per-owner credentials in SQLite.
type Store struct {
	db *sqlx.DB
}

// NewStore initializes the credentials table.
func NewStore(db *sqlx.DB) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("init credentials schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Set inserts or replaces the credentials for an owner.
func (s *Store) Set(ctx context.Context, c *Credentials) error {
	if c == nil || c.OwnerID == "" {
		return fmt.Errorf("creds: owner id required")
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO credentials (owner_id, access_token, refresh_token, token_expiry, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		c.OwnerID, c.AccessToken, c.RefreshToken, c.TokenExpiry, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("set credentials for %s: %w", c.OwnerID, err)
	}
	return nil
}

// Get returns the credentials for an owner, or ErrNotFound.
func (s *Store) Get(ctx context.Context, ownerID string) (*Credentials, error) {
	var c Credentials
	var updatedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT owner_id, access_token, refresh_token, token_expiry, updated_at
		 FROM credentials WHERE owner_id = ?`, ownerID,
	).Scan(&c.OwnerID, &c.AccessToken, &c.RefreshToken, &c.TokenExpiry, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get credentials for %s: %w", ownerID, err)
	}

	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		c.UpdatedAt = t
	}
	return &c, nil
}

// Delete removes the credentials for an owner. Idempotent.
func (s *Store) Delete(ctx context.Context, ownerID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE owner_id = ?`, ownerID); err != nil {
		return fmt.Errorf("delete credentials for %s: %w", ownerID, err)
	}
	return nil
}

// Token implements the storage client's TokenSource over the store.
func (s *Store) Token(ctx context.Context, ownerID string) (string, error) {
	c, err := s.Get(ctx, ownerID)
	if err != nil {
		return "", err
	}
	return c.AccessToken, nil
}
