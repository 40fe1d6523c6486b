package mock

import (
	"context"

	"github.com/fkozlowski/webclip"
)

var _ webclip.Clipper = (*Clipper)(nil)

// Clipper is a mock implementation of webclip.Clipper.
type Clipper struct {
	AuthenticateFn func(ctx context.Context, serverURL, apiKey string) error
	DocumentsFn    func(ctx context.Context, page int) (*webclip.DocumentPage, error)
	ClipContentFn  func(ctx context.Context, target webclip.TargetDocument, content *webclip.CapturedContent, note string, source webclip.Source) (*webclip.ClipResult, error)
	ClipPDFFn      func(ctx context.Context, target webclip.TargetDocument, note string, source webclip.Source) (*webclip.ClipResult, error)
}

func (c *Clipper) Authenticate(ctx context.Context, serverURL, apiKey string) error {
	return c.AuthenticateFn(ctx, serverURL, apiKey)
}

func (c *Clipper) Documents(ctx context.Context, page int) (*webclip.DocumentPage, error) {
	return c.DocumentsFn(ctx, page)
}

func (c *Clipper) ClipContent(ctx context.Context, target webclip.TargetDocument, content *webclip.CapturedContent, note string, source webclip.Source) (*webclip.ClipResult, error) {
	return c.ClipContentFn(ctx, target, content, note, source)
}

func (c *Clipper) ClipPDF(ctx context.Context, target webclip.TargetDocument, note string, source webclip.Source) (*webclip.ClipResult, error) {
	return c.ClipPDFFn(ctx, target, note, source)
}
