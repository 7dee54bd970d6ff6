package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/oauth2"

	"github.com/tubeport/backend/internal/auth"
	"github.com/tubeport/backend/internal/db"
	"github.com/tubeport/backend/internal/models"
)

// PostgresSessionStore persists browser sessions to PostgreSQL so they
// survive a process restart. The credential bundle and cached profile are
// stored as JSONB documents.
type PostgresSessionStore struct {
	pool db.Pool
}

// NewPostgresSessionStore constructs a session store backed by PostgreSQL.
func NewPostgresSessionStore(pool db.Pool) *PostgresSessionStore {
	return &PostgresSessionStore{pool: pool}
}

// Save stores or updates a session record.
func (s *PostgresSessionStore) Save(ctx context.Context, session auth.Session) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	bundle, err := json.Marshal(session.Bundle)
	if err != nil {
		return fmt.Errorf("encode credential bundle: %w", err)
	}

	var profile []byte
	if session.Profile != nil {
		profile, err = json.Marshal(session.Profile)
		if err != nil {
			return fmt.Errorf("encode profile: %w", err)
		}
	}

	_, err = conn.Exec(ctx, `
        INSERT INTO sessions (id, bundle, profile, created_at, expires_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (id)
        DO UPDATE SET bundle = EXCLUDED.bundle, profile = EXCLUDED.profile, expires_at = EXCLUDED.expires_at
    `, session.ID, bundle, profile, session.CreatedAt.UTC(), session.ExpiresAt.UTC())
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	return nil
}

// Find loads a session by its identifier.
func (s *PostgresSessionStore) Find(ctx context.Context, id string) (auth.Session, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return auth.Session{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, bundle, profile, created_at, expires_at
        FROM sessions
        WHERE id = $1
    `, id)

	var session auth.Session
	var bundle, profile []byte
	var createdAt, expiresAt time.Time
	if err := row.Scan(&session.ID, &bundle, &profile, &createdAt, &expiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.Session{}, auth.ErrSessionNotFound
		}
		return auth.Session{}, fmt.Errorf("select session: %w", err)
	}

	if len(bundle) > 0 {
		var token oauth2.Token
		if err := json.Unmarshal(bundle, &token); err != nil {
			return auth.Session{}, fmt.Errorf("decode credential bundle: %w", err)
		}
		if token.AccessToken != "" || token.RefreshToken != "" {
			session.Bundle = &token
		}
	}

	if len(profile) > 0 {
		var p models.Profile
		if err := json.Unmarshal(profile, &p); err != nil {
			return auth.Session{}, fmt.Errorf("decode profile: %w", err)
		}
		session.Profile = &p
	}

	session.CreatedAt = createdAt.UTC()
	session.ExpiresAt = expiresAt.UTC()
	return session, nil
}

// Delete removes a session by its identifier.
func (s *PostgresSessionStore) Delete(ctx context.Context, id string) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM sessions
        WHERE id = $1
    `, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return auth.ErrSessionNotFound
	}

	return nil
}
