package mock

import (
	"context"

	"github.com/fkozlowski/webclip"
)

var _ webclip.Rasterizer = (*Rasterizer)(nil)

// Rasterizer is a mock implementation of webclip.Rasterizer.
type Rasterizer struct {
	CapturePageFn func(ctx context.Context, url string) (*webclip.PageImage, error)
	CloseFn       func() error
}

func (r *Rasterizer) CapturePage(ctx context.Context, url string) (*webclip.PageImage, error) {
	return r.CapturePageFn(ctx, url)
}

func (r *Rasterizer) Close() error {
	return r.CloseFn()
}

var _ webclip.PDFBuilder = (*PDFBuilder)(nil)

// PDFBuilder is a mock implementation of webclip.PDFBuilder.
type PDFBuilder struct {
	BuildFn func(img *webclip.PageImage) (*webclip.PDFDocument, error)
}

func (b *PDFBuilder) Build(img *webclip.PageImage) (*webclip.PDFDocument, error) {
	return b.BuildFn(img)
}
