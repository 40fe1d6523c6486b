package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fkozlowski/webclip"
)

// Compile-time interface verification.
var _ webclip.SessionService = (*SessionService)(nil)

// SessionService implements webclip.SessionService using SQLite. A single
// session row survives process restarts so the user does not have to
// re-enter credentials on every launch.
type SessionService struct {
	db *DB
}

// NewSessionService creates a new SessionService.
func NewSessionService(db *DB) *SessionService {
	return &SessionService{db: db}
}

// Current returns the stored session, or ENOTFOUND when none is stored.
func (s *SessionService) Current(ctx context.Context) (*webclip.Session, error) {
	var session webclip.Session
	var authenticatedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT server_url, api_key, authenticated_at
		FROM session
		WHERE id = 1
	`).Scan(&session.ServerURL, &session.APIKey, &authenticatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, webclip.Errorf(webclip.ENOTFOUND, "no stored session")
	}
	if err != nil {
		return nil, err
	}

	session.AuthenticatedAt, err = parseRFC3339(authenticatedAt, "authenticated_at")
	if err != nil {
		return nil, err
	}

	return &session, nil
}

// Save stores the session, replacing any previous one.
func (s *SessionService) Save(ctx context.Context, session *webclip.Session) error {
	if err := session.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session (id, server_url, api_key, authenticated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			server_url = excluded.server_url,
			api_key = excluded.api_key,
			authenticated_at = excluded.authenticated_at
	`, session.ServerURL, session.APIKey, session.AuthenticatedAt.UTC().Format(time.RFC3339))

	return err
}

// Clear removes the stored session. Clearing an already-empty store is
// not an error.
func (s *SessionService) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM session WHERE id = 1")
	return err
}
