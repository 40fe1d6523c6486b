package mock

import (
	"context"
	"io"

	"github.com/fkozlowski/webclip"
)

var _ webclip.DocumentService = (*DocumentService)(nil)

// DocumentService is a mock implementation of webclip.DocumentService.
type DocumentService struct {
	CheckCredentialsFn   func(ctx context.Context) error
	ListDocumentsFn      func(ctx context.Context, page int) (*webclip.DocumentPage, error)
	CreateDocumentFn     func(ctx context.Context, title string) (*webclip.CreatedDocument, error)
	FindDocumentByIDFn   func(ctx context.Context, id int64) (*webclip.RemoteDocument, error)
	AppendToDocumentFn   func(ctx context.Context, id int64, fragment string) error
	UploadFileFn         func(ctx context.Context, r io.Reader, filename string) (string, error)
	LinkFileToDocumentFn func(ctx context.Context, id int64, fileID, fragment string) error
}

func (s *DocumentService) CheckCredentials(ctx context.Context) error {
	return s.CheckCredentialsFn(ctx)
}

func (s *DocumentService) ListDocuments(ctx context.Context, page int) (*webclip.DocumentPage, error) {
	return s.ListDocumentsFn(ctx, page)
}

func (s *DocumentService) CreateDocument(ctx context.Context, title string) (*webclip.CreatedDocument, error) {
	return s.CreateDocumentFn(ctx, title)
}

func (s *DocumentService) FindDocumentByID(ctx context.Context, id int64) (*webclip.RemoteDocument, error) {
	return s.FindDocumentByIDFn(ctx, id)
}

func (s *DocumentService) AppendToDocument(ctx context.Context, id int64, fragment string) error {
	return s.AppendToDocumentFn(ctx, id, fragment)
}

func (s *DocumentService) UploadFile(ctx context.Context, r io.Reader, filename string) (string, error) {
	return s.UploadFileFn(ctx, r, filename)
}

func (s *DocumentService) LinkFileToDocument(ctx context.Context, id int64, fileID, fragment string) error {
	return s.LinkFileToDocumentFn(ctx, id, fileID, fragment)
}
