package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fkozlowski/webclip"
	"github.com/fkozlowski/webclip/mock"
	webclipslog "github.com/fkozlowski/webclip/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingClipper_ClipContent(t *testing.T) {
	t.Parallel()

	t.Run("logs url, document, and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Clipper{
			ClipContentFn: func(ctx context.Context, target webclip.TargetDocument, content *webclip.CapturedContent, note string, source webclip.Source) (*webclip.ClipResult, error) {
				return &webclip.ClipResult{DocumentID: 42, GlobalID: "SD42"}, nil
			},
		}

		clipper := webclipslog.NewLoggingClipper(inner, logger)
		result, err := clipper.ClipContent(context.Background(),
			webclip.ExistingDocument{ID: 42},
			&webclip.CapturedContent{HTML: "<p>hi</p>"},
			"",
			webclip.Source{URL: "https://example.com/article", Title: "Article"},
		)

		require.NoError(t, err)
		assert.Equal(t, int64(42), result.DocumentID)
		output := buf.String()
		assert.Contains(t, output, "clip content")
		assert.Contains(t, output, "url=https://example.com/article")
		assert.Contains(t, output, "document=42")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Clipper{
			ClipContentFn: func(ctx context.Context, target webclip.TargetDocument, content *webclip.CapturedContent, note string, source webclip.Source) (*webclip.ClipResult, error) {
				return nil, webclip.Errorf(webclip.ETIMEOUT, "request timed out after 30s")
			},
		}

		clipper := webclipslog.NewLoggingClipper(inner, logger)
		_, err := clipper.ClipContent(context.Background(),
			webclip.ExistingDocument{ID: 42}, nil, "",
			webclip.Source{URL: "https://example.com", Title: "X"},
		)

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "clip content")
		assert.Contains(t, output, "request timed out")
	})
}

func TestLoggingClipper_Authenticate(t *testing.T) {
	t.Parallel()

	t.Run("never logs the api key", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Clipper{
			AuthenticateFn: func(ctx context.Context, serverURL, apiKey string) error { return nil },
		}

		clipper := webclipslog.NewLoggingClipper(inner, logger)
		err := clipper.Authenticate(context.Background(), "https://dms.example.com", "secret-key-value")

		require.NoError(t, err)
		output := buf.String()
		assert.Contains(t, output, "authenticate")
		assert.Contains(t, output, "server=https://dms.example.com")
		assert.NotContains(t, output, "secret-key-value")
	})
}

func TestLoggingDocumentService_AppendToDocument(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.DocumentService{
		AppendToDocumentFn: func(ctx context.Context, id int64, fragment string) error { return nil },
	}

	svc := webclipslog.NewLoggingDocumentService(inner, logger)
	err := svc.AppendToDocument(context.Background(), 7, "<p>hi</p>")

	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "append to document")
	assert.Contains(t, output, "id=7")
	assert.Contains(t, output, "bytes=9")
}
