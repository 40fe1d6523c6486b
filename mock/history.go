package mock

import (
	"context"

	"github.com/fkozlowski/webclip"
)

var _ webclip.HistoryService = (*HistoryService)(nil)

// HistoryService is a mock implementation of webclip.HistoryService.
type HistoryService struct {
	CreateClipFn func(ctx context.Context, clip *webclip.Clip) error
	FindClipsFn  func(ctx context.Context, filter webclip.ClipFilter) ([]*webclip.Clip, error)
}

func (s *HistoryService) CreateClip(ctx context.Context, clip *webclip.Clip) error {
	return s.CreateClipFn(ctx, clip)
}

func (s *HistoryService) FindClips(ctx context.Context, filter webclip.ClipFilter) ([]*webclip.Clip, error) {
	return s.FindClipsFn(ctx, filter)
}

var _ webclip.Converter = (*Converter)(nil)

// Converter is a mock implementation of webclip.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
