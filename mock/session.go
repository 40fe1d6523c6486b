package mock

import (
	"context"

	"github.com/fkozlowski/webclip"
)

var _ webclip.SessionService = (*SessionService)(nil)

// SessionService is a mock implementation of webclip.SessionService.
type SessionService struct {
	CurrentFn func(ctx context.Context) (*webclip.Session, error)
	SaveFn    func(ctx context.Context, session *webclip.Session) error
	ClearFn   func(ctx context.Context) error
}

func (s *SessionService) Current(ctx context.Context) (*webclip.Session, error) {
	return s.CurrentFn(ctx)
}

func (s *SessionService) Save(ctx context.Context, session *webclip.Session) error {
	return s.SaveFn(ctx, session)
}

func (s *SessionService) Clear(ctx context.Context) error {
	return s.ClearFn(ctx)
}
