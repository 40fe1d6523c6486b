// Package slog provides logging decorators for webclip services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fkozlowski/webclip"
)

// Ensure LoggingClipper implements webclip.Clipper.
var _ webclip.Clipper = (*LoggingClipper)(nil)

// LoggingClipper wraps a Clipper with operation logging.
type LoggingClipper struct {
	next   webclip.Clipper
	logger *slog.Logger
}

// NewLoggingClipper creates a new LoggingClipper.
func NewLoggingClipper(next webclip.Clipper, logger *slog.Logger) *LoggingClipper {
	return &LoggingClipper{next: next, logger: logger}
}

// Authenticate delegates to the wrapped clipper and logs the outcome. The
// API key is never logged.
func (c *LoggingClipper) Authenticate(ctx context.Context, serverURL, apiKey string) (err error) {
	defer func(begin time.Time) {
		c.logger.Info("authenticate",
			"server", serverURL,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Authenticate(ctx, serverURL, apiKey)
}

// Documents delegates to the wrapped clipper and logs the operation.
func (c *LoggingClipper) Documents(ctx context.Context, page int) (result *webclip.DocumentPage, err error) {
	defer func(begin time.Time) {
		count := 0
		if result != nil {
			count = len(result.Documents)
		}
		c.logger.Info("list documents",
			"page", page,
			"count", count,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Documents(ctx, page)
}

// ClipContent delegates to the wrapped clipper and logs the operation.
func (c *LoggingClipper) ClipContent(ctx context.Context, target webclip.TargetDocument, content *webclip.CapturedContent, note string, source webclip.Source) (result *webclip.ClipResult, err error) {
	defer func(begin time.Time) {
		c.logger.Info("clip content",
			"url", source.URL,
			"document", documentID(result),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.ClipContent(ctx, target, content, note, source)
}

// ClipPDF delegates to the wrapped clipper and logs the operation.
func (c *LoggingClipper) ClipPDF(ctx context.Context, target webclip.TargetDocument, note string, source webclip.Source) (result *webclip.ClipResult, err error) {
	defer func(begin time.Time) {
		c.logger.Info("clip pdf",
			"url", source.URL,
			"document", documentID(result),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.ClipPDF(ctx, target, note, source)
}

func documentID(result *webclip.ClipResult) int64 {
	if result == nil {
		return 0
	}
	return result.DocumentID
}
