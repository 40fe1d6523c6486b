package slog

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fkozlowski/webclip"
)

// Ensure LoggingDocumentService implements webclip.DocumentService.
var _ webclip.DocumentService = (*LoggingDocumentService)(nil)

// LoggingDocumentService wraps a DocumentService with request logging.
type LoggingDocumentService struct {
	next   webclip.DocumentService
	logger *slog.Logger
}

// NewLoggingDocumentService creates a new LoggingDocumentService.
func NewLoggingDocumentService(next webclip.DocumentService, logger *slog.Logger) *LoggingDocumentService {
	return &LoggingDocumentService{next: next, logger: logger}
}

// CheckCredentials delegates to the wrapped service and logs the outcome.
func (s *LoggingDocumentService) CheckCredentials(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("check credentials",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CheckCredentials(ctx)
}

// ListDocuments delegates to the wrapped service and logs the operation.
func (s *LoggingDocumentService) ListDocuments(ctx context.Context, page int) (result *webclip.DocumentPage, err error) {
	defer func(begin time.Time) {
		hits := 0
		if result != nil {
			hits = result.TotalHits
		}
		s.logger.Info("list documents",
			"page", page,
			"totalHits", hits,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ListDocuments(ctx, page)
}

// CreateDocument delegates to the wrapped service and logs the operation.
func (s *LoggingDocumentService) CreateDocument(ctx context.Context, title string) (created *webclip.CreatedDocument, err error) {
	defer func(begin time.Time) {
		s.logger.Info("create document",
			"title", title,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateDocument(ctx, title)
}

// FindDocumentByID delegates to the wrapped service and logs the operation.
func (s *LoggingDocumentService) FindDocumentByID(ctx context.Context, id int64) (doc *webclip.RemoteDocument, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find document",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindDocumentByID(ctx, id)
}

// AppendToDocument delegates to the wrapped service and logs the operation.
func (s *LoggingDocumentService) AppendToDocument(ctx context.Context, id int64, fragment string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("append to document",
			"id", id,
			"bytes", len(fragment),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.AppendToDocument(ctx, id, fragment)
}

// UploadFile delegates to the wrapped service and logs the operation.
func (s *LoggingDocumentService) UploadFile(ctx context.Context, r io.Reader, filename string) (fileID string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("upload file",
			"filename", filename,
			"fileId", fileID,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.UploadFile(ctx, r, filename)
}

// LinkFileToDocument delegates to the wrapped service and logs the operation.
func (s *LoggingDocumentService) LinkFileToDocument(ctx context.Context, id int64, fileID, fragment string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("link file to document",
			"id", id,
			"fileId", fileID,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.LinkFileToDocument(ctx, id, fileID, fragment)
}
