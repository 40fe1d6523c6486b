package rod

import (
	"bytes"
	"context"
	"image/jpeg"

	"github.com/fkozlowski/webclip"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Rasterizer implements webclip.Rasterizer at compile time.
var _ webclip.Rasterizer = (*Rasterizer)(nil)

// DefaultQuality is the JPEG quality used for page captures.
const DefaultQuality = 80

// Rasterizer captures rendered pages as full-height raster images using
// Chrome browser automation.
type Rasterizer struct {
	browser *rod.Browser
	quality int
}

// Option configures a Rasterizer.
type Option func(*Rasterizer)

// WithQuality sets the JPEG quality of page captures.
// Defaults to DefaultQuality (80) if not specified.
func WithQuality(q int) Option {
	return func(r *Rasterizer) {
		r.quality = q
	}
}

// NewRasterizer creates a new Rasterizer that launches a headless Chrome
// browser. Close must be called when the Rasterizer is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewRasterizer(opts ...Option) (*Rasterizer, error) {
	r := &Rasterizer{quality: DefaultQuality}
	for _, opt := range opts {
		opt(r)
	}

	browser, err := launchBrowser()
	if err != nil {
		return nil, err
	}
	r.browser = browser
	return r, nil
}

// CapturePage renders the page and returns it as one JPEG covering the full
// scroll height. Any failure during capture or encoding is reported as EPDF
// with the triggering message, never raised.
func (r *Rasterizer) CapturePage(ctx context.Context, url string) (*webclip.PageImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, webclip.Errorf(webclip.EPDF, "page capture failed: %v", err)
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return nil, webclip.Errorf(webclip.EPDF, "page capture failed: %v", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, webclip.Errorf(webclip.EPDF, "page capture failed: %v", err)
	}

	quality := r.quality
	data, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: &quality,
	})
	if err != nil {
		return nil, webclip.Errorf(webclip.EPDF, "page capture failed: %v", err)
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, webclip.Errorf(webclip.EPDF, "page capture produced an unreadable image: %v", err)
	}

	return &webclip.PageImage{Data: data, Width: cfg.Width, Height: cfg.Height}, nil
}

// Close releases browser resources.
func (r *Rasterizer) Close() error {
	return r.browser.Close()
}
