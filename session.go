package webclip

import (
	"context"
	"strings"
	"time"
)

// Session holds the verified credentials for the remote document server.
// A session is persisted only after CheckCredentials succeeds.
type Session struct {
	ServerURL       string    `json:"serverUrl"`
	APIKey          string    `json:"apiKey"`
	AuthenticatedAt time.Time `json:"authenticatedAt"`
}

// Validate returns an error if the session contains invalid fields.
func (s *Session) Validate() error {
	if strings.TrimSpace(s.ServerURL) == "" {
		return Errorf(EINVALID, "session server URL required")
	}
	if strings.TrimSpace(s.APIKey) == "" {
		return Errorf(EINVALID, "session API key required")
	}
	return nil
}

// SessionService persists the current session.
type SessionService interface {
	// Current returns the stored session.
	// Returns ENOTFOUND if no session has been saved.
	Current(ctx context.Context) (*Session, error)

	// Save stores the session, replacing any previous one.
	Save(ctx context.Context, session *Session) error

	// Clear removes the stored session.
	Clear(ctx context.Context) error
}
