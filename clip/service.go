// Package clip provides the orchestration between captured content and the
// remote document service: target resolution, fragment assembly, request
// deduplication, and first-page caching.
package clip

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fkozlowski/webclip"
	"github.com/fkozlowski/webclip/bloom"
	"golang.org/x/sync/singleflight"
)

// Ensure Service implements webclip.Clipper at compile time.
var _ webclip.Clipper = (*Service)(nil)

// Service orchestrates clips against the remote document API.
//
// Operations sharing a dedup key are coalesced through a singleflight
// group: the popup may re-trigger a clip before the first completes
// (double-click, impatient retry), and the second caller must receive the
// first call's eventual result instead of a duplicate network sequence.
type Service struct {
	// Sessions holds the persisted credentials; every operation except
	// Authenticate fails fast without a stored session.
	Sessions webclip.SessionService

	// NewDocuments builds a document API client for a set of credentials.
	NewDocuments func(serverURL, apiKey string) webclip.DocumentService

	// Rasterizer and PDFs are required for ClipPDF only.
	Rasterizer webclip.Rasterizer
	PDFs       webclip.PDFBuilder

	// History, Converter, and Seen are optional; clips succeed without
	// them.
	History   webclip.HistoryService
	Converter webclip.Converter
	Seen      *bloom.Filter

	// Cache serves repeated first-page listings.
	Cache *Cache

	Logger *slog.Logger

	// Now is overridable for tests. Defaults to time.Now.
	Now func() time.Time

	group singleflight.Group
}

// Authenticate verifies the credentials against the server and persists
// them on success. Credentials are never stored unverified.
func (s *Service) Authenticate(ctx context.Context, serverURL, apiKey string) error {
	session := &webclip.Session{ServerURL: serverURL, APIKey: apiKey, AuthenticatedAt: s.now()}
	if err := session.Validate(); err != nil {
		return err
	}

	client := s.NewDocuments(serverURL, apiKey)
	if err := client.CheckCredentials(ctx); err != nil {
		return err
	}

	if err := s.Sessions.Save(ctx, session); err != nil {
		return err
	}
	if s.Cache != nil {
		s.Cache.Invalidate()
	}

	s.logger().Info("authenticated", "server", serverURL)
	return nil
}

// Documents lists one page of remote documents. Page 0 is served from the
// cache when fresh; concurrent calls for the same page share one fetch.
func (s *Service) Documents(ctx context.Context, page int) (*webclip.DocumentPage, error) {
	v, err, _ := s.group.Do(fmt.Sprintf("documents_%d", page), func() (any, error) {
		if page == 0 && s.Cache != nil {
			if cached, ok := s.Cache.Get(s.now()); ok {
				return cached, nil
			}
		}

		client, err := s.client(ctx)
		if err != nil {
			return nil, err
		}

		result, err := client.ListDocuments(ctx, page)
		if err != nil {
			return nil, err
		}

		if page == 0 && s.Cache != nil {
			s.Cache.Put(result, s.now())
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*webclip.DocumentPage), nil
}

// ClipContent appends captured content to the target document.
func (s *Service) ClipContent(ctx context.Context, target webclip.TargetDocument, content *webclip.CapturedContent, note string, source webclip.Source) (*webclip.ClipResult, error) {
	v, err, _ := s.group.Do("clipContent", func() (any, error) {
		return s.clipContent(ctx, target, content, note, source)
	})
	if err != nil {
		return nil, err
	}
	return v.(*webclip.ClipResult), nil
}

func (s *Service) clipContent(ctx context.Context, target webclip.TargetDocument, content *webclip.CapturedContent, note string, source webclip.Source) (*webclip.ClipResult, error) {
	if content == nil {
		return nil, webclip.Errorf(webclip.EINVALID, "captured content required")
	}

	client, err := s.client(ctx)
	if err != nil {
		return nil, err
	}

	docID, globalID, err := resolveTarget(ctx, client, target)
	if err != nil {
		return nil, err
	}

	fragment := BuildFragment(source, note, content.HTML, s.now())
	if err := client.AppendToDocument(ctx, docID, fragment); err != nil {
		return nil, err
	}

	return s.finishClip(ctx, source, content.HTML, docID, globalID), nil
}

// ClipPDF rasterizes the source page, uploads it, and appends an
// inline-attachment fragment to the target document.
func (s *Service) ClipPDF(ctx context.Context, target webclip.TargetDocument, note string, source webclip.Source) (*webclip.ClipResult, error) {
	v, err, _ := s.group.Do("clipPdf", func() (any, error) {
		return s.clipPDF(ctx, target, note, source)
	})
	if err != nil {
		return nil, err
	}
	return v.(*webclip.ClipResult), nil
}

func (s *Service) clipPDF(ctx context.Context, target webclip.TargetDocument, note string, source webclip.Source) (*webclip.ClipResult, error) {
	if s.Rasterizer == nil || s.PDFs == nil {
		return nil, webclip.Errorf(webclip.EPDF, "pdf capture is not configured")
	}

	client, err := s.client(ctx)
	if err != nil {
		return nil, err
	}

	img, err := s.Rasterizer.CapturePage(ctx, source.URL)
	if err != nil {
		return nil, err
	}
	doc, err := s.PDFs.Build(img)
	if err != nil {
		return nil, err
	}

	docID, globalID, err := resolveTarget(ctx, client, target)
	if err != nil {
		return nil, err
	}

	filename := pdfFilename(source.Title)
	fileID, err := client.UploadFile(ctx, bytes.NewReader(doc.Data), filename)
	if err != nil {
		return nil, err
	}

	marker := attachmentMarker(fileID, filename)
	fragment := BuildFragment(source, note, marker, s.now())
	if err := client.LinkFileToDocument(ctx, docID, fileID, fragment); err != nil {
		return nil, err
	}

	return s.finishClip(ctx, source, marker, docID, globalID), nil
}

// client returns a document API client for the stored session, or
// ENOTAUTHENTICATED when none is stored.
func (s *Service) client(ctx context.Context) (webclip.DocumentService, error) {
	session, err := s.Sessions.Current(ctx)
	if err != nil {
		if webclip.ErrorCode(err) == webclip.ENOTFOUND {
			return nil, webclip.Errorf(webclip.ENOTAUTHENTICATED, "not authenticated")
		}
		return nil, err
	}
	return s.NewDocuments(session.ServerURL, session.APIKey), nil
}

// resolveTarget creates the document when the target is new; otherwise the
// supplied ids are used directly. Existence is not checked here, the
// append's own fetch verifies it. Creation errors propagate untouched.
func resolveTarget(ctx context.Context, client webclip.DocumentService, target webclip.TargetDocument) (int64, string, error) {
	switch t := target.(type) {
	case webclip.NewDocument:
		created, err := client.CreateDocument(ctx, t.Title)
		if err != nil {
			return 0, "", err
		}
		return created.ID, created.GlobalID, nil
	case webclip.ExistingDocument:
		return t.ID, t.GlobalID, nil
	case nil:
		return 0, "", webclip.Errorf(webclip.EINVALID, "target document required")
	default:
		return 0, "", webclip.Errorf(webclip.EINVALID, "unknown target document type %T", target)
	}
}

// finishClip runs the post-append bookkeeping: the cache is invalidated
// unconditionally (the touched document may now be the most recently
// modified), the source URL is recorded, and history is written.
func (s *Service) finishClip(ctx context.Context, source webclip.Source, bodyHTML string, docID int64, globalID string) *webclip.ClipResult {
	if s.Cache != nil {
		s.Cache.Invalidate()
	}

	already := false
	if s.Seen != nil {
		already = s.Seen.Test(source.URL)
		s.Seen.Add(source.URL)
	}
	if already {
		s.logger().Info("source URL was clipped before", "url", source.URL)
	}

	s.recordHistory(ctx, source, bodyHTML, docID, globalID)

	return &webclip.ClipResult{DocumentID: docID, GlobalID: globalID, AlreadyClipped: already}
}

// recordHistory is best-effort: a history failure never fails the clip,
// but it is logged rather than swallowed.
func (s *Service) recordHistory(ctx context.Context, source webclip.Source, bodyHTML string, docID int64, globalID string) {
	if s.History == nil {
		return
	}

	markdown := ""
	if s.Converter != nil && bodyHTML != "" {
		if md, err := s.Converter.Convert(bodyHTML); err == nil {
			markdown = md
		}
	}

	clip := &webclip.Clip{
		SourceURL:   source.URL,
		SourceTitle: source.Title,
		DocumentID:  docID,
		GlobalID:    globalID,
		Markdown:    markdown,
	}
	if err := s.History.CreateClip(ctx, clip); err != nil {
		s.logger().Warn("recording clip history failed", "url", source.URL, "error", err)
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
