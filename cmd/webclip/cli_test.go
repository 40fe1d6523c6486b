package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fkozlowski/webclip"
	main "github.com/fkozlowski/webclip/cmd/webclip"
	"github.com/fkozlowski/webclip/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDeps() (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: stderr,
	}, stdout, stderr
}

func TestAuthCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("confirms on success", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newTestDeps()
		deps.Clipper = &mock.Clipper{
			AuthenticateFn: func(ctx context.Context, serverURL, apiKey string) error {
				assert.Equal(t, "https://dms.example.com", serverURL)
				assert.Equal(t, "key", apiKey)
				return nil
			},
		}

		cmd := &main.AuthCmd{ServerURL: "https://dms.example.com", APIKey: "key"}
		require.NoError(t, cmd.Run(deps))
		assert.Contains(t, stdout.String(), "Authenticated against https://dms.example.com")
	})

	t.Run("prints user-facing message on rejection", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newTestDeps()
		deps.Clipper = &mock.Clipper{
			AuthenticateFn: func(ctx context.Context, serverURL, apiKey string) error {
				return webclip.Errorf(webclip.EINVALIDCREDENTIALS, "invalid API key")
			},
		}

		cmd := &main.AuthCmd{ServerURL: "https://dms.example.com", APIKey: "bad"}
		require.Error(t, cmd.Run(deps))
		assert.Contains(t, stderr.String(), "The server rejected your API key.")
	})
}

func TestListCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists documents with id, global id, and name", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newTestDeps()
		deps.Clipper = &mock.Clipper{
			DocumentsFn: func(ctx context.Context, page int) (*webclip.DocumentPage, error) {
				return &webclip.DocumentPage{
					Documents: []webclip.DocumentSummary{
						{ID: 42, GlobalID: "SD42", Name: "Notes"},
						{ID: 43, GlobalID: "SD43", Name: "Reading List"},
					},
					HasMore:   true,
					TotalHits: 120,
				}, nil
			},
		}

		cmd := &main.ListCmd{Page: 0}
		require.NoError(t, cmd.Run(deps))

		output := stdout.String()
		assert.Contains(t, output, "42  SD42  Notes")
		assert.Contains(t, output, "43  SD43  Reading List")
		assert.Contains(t, output, "--page 1")
	})

	t.Run("shows helpful message when empty", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newTestDeps()
		deps.Clipper = &mock.Clipper{
			DocumentsFn: func(ctx context.Context, page int) (*webclip.DocumentPage, error) {
				return &webclip.DocumentPage{}, nil
			},
		}

		cmd := &main.ListCmd{}
		require.NoError(t, cmd.Run(deps))
		assert.Contains(t, stdout.String(), "No documents found.")
	})
}

func TestClipCmd_Run(t *testing.T) {
	t.Parallel()

	pageHTML := "<html><head><title>An Article</title></head><body><p>hi</p></body></html>"

	t.Run("clips a fetched page", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newTestDeps()
		deps.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				assert.Equal(t, "https://x.com/article", url)
				return pageHTML, nil
			},
		}
		deps.Extractor = &mock.Extractor{
			ExtractFn: func(gotHTML, pageURL string, req webclip.CaptureRequest) (*webclip.CapturedContent, error) {
				assert.Equal(t, webclip.CaptureFullPage, req.Mode)
				return &webclip.CapturedContent{HTML: "<p>hi</p>", Text: "hi"}, nil
			},
		}
		deps.Clipper = &mock.Clipper{
			ClipContentFn: func(ctx context.Context, target webclip.TargetDocument, content *webclip.CapturedContent, note string, source webclip.Source) (*webclip.ClipResult, error) {
				assert.Equal(t, webclip.ExistingDocument{ID: 7, GlobalID: "SD7"}, target)
				assert.Equal(t, "An Article", source.Title)
				return &webclip.ClipResult{DocumentID: 7, GlobalID: "SD7"}, nil
			},
		}

		cmd := &main.ClipCmd{URL: "https://x.com/article", Mode: "page", Doc: 7, GlobalID: "SD7"}
		require.NoError(t, cmd.Run(deps))
		assert.Contains(t, stdout.String(), "Clipped to document 7 (SD7)")
	})

	t.Run("requires a target", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newTestDeps()

		cmd := &main.ClipCmd{URL: "https://x.com", Mode: "page"}
		require.Error(t, cmd.Run(deps))
		assert.NotEmpty(t, stderr.String())
	})

	t.Run("rejects both --doc and --new", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := newTestDeps()

		cmd := &main.ClipCmd{URL: "https://x.com", Mode: "page", Doc: 7, New: "Notes"}
		err := cmd.Run(deps)
		assert.Equal(t, webclip.EINVALID, webclip.ErrorCode(err))
	})

	t.Run("rejects pdf mode", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newTestDeps()

		cmd := &main.ClipCmd{URL: "https://x.com", Mode: "pdf", Doc: 7}
		require.Error(t, cmd.Run(deps))
		assert.Contains(t, stderr.String(), "pdf command")
	})

	t.Run("flags repeated clips", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newTestDeps()
		deps.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) { return pageHTML, nil },
		}
		deps.Extractor = &mock.Extractor{
			ExtractFn: func(gotHTML, pageURL string, req webclip.CaptureRequest) (*webclip.CapturedContent, error) {
				return &webclip.CapturedContent{HTML: "<p>hi</p>"}, nil
			},
		}
		deps.Clipper = &mock.Clipper{
			ClipContentFn: func(ctx context.Context, target webclip.TargetDocument, content *webclip.CapturedContent, note string, source webclip.Source) (*webclip.ClipResult, error) {
				return &webclip.ClipResult{DocumentID: 7, AlreadyClipped: true}, nil
			},
		}

		cmd := &main.ClipCmd{URL: "https://x.com", Mode: "page", Doc: 7}
		require.NoError(t, cmd.Run(deps))
		assert.Contains(t, stdout.String(), "clipped before")
	})
}

func TestPDFCmd_Run(t *testing.T) {
	t.Parallel()

	deps, stdout, _ := newTestDeps()
	deps.Fetcher = &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) (string, error) {
			return "<html><head><title>An Article</title></head><body></body></html>", nil
		},
	}
	deps.Clipper = &mock.Clipper{
		ClipPDFFn: func(ctx context.Context, target webclip.TargetDocument, note string, source webclip.Source) (*webclip.ClipResult, error) {
			assert.Equal(t, webclip.NewDocument{Title: "Notes"}, target)
			assert.Equal(t, "An Article", source.Title)
			return &webclip.ClipResult{DocumentID: 42, GlobalID: "SD42"}, nil
		},
	}

	cmd := &main.PDFCmd{URL: "https://x.com", New: "Notes"}
	require.NoError(t, cmd.Run(deps))
	assert.Contains(t, stdout.String(), "Clipped to document 42 (SD42)")
}

func TestHistoryCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists clips newest first", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newTestDeps()
		deps.History = &mock.HistoryService{
			FindClipsFn: func(ctx context.Context, filter webclip.ClipFilter) ([]*webclip.Clip, error) {
				assert.Equal(t, 20, filter.Limit)
				return []*webclip.Clip{
					{ID: "a", SourceURL: "https://x.com", SourceTitle: "X", DocumentID: 42, GlobalID: "SD42"},
				}, nil
			},
		}

		cmd := &main.HistoryCmd{Limit: 20}
		require.NoError(t, cmd.Run(deps))

		output := stdout.String()
		assert.Contains(t, output, "doc 42 (SD42)")
		assert.Contains(t, output, "X")
	})

	t.Run("filters by url", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newTestDeps()
		deps.History = &mock.HistoryService{
			FindClipsFn: func(ctx context.Context, filter webclip.ClipFilter) ([]*webclip.Clip, error) {
				require.NotNil(t, filter.SourceURL)
				assert.Equal(t, "https://x.com", *filter.SourceURL)
				return nil, nil
			},
		}

		cmd := &main.HistoryCmd{Limit: 20, URL: "https://x.com"}
		require.NoError(t, cmd.Run(deps))
		assert.Contains(t, stdout.String(), "No clips recorded yet.")
	})
}
