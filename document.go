package webclip

import (
	"context"
	"io"
)

// PageSize is the fixed number of documents per list page.
const PageSize = 50

// Field is a remote document's content slot.
type Field struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
}

// RemoteDocument is a document as stored by the remote API. Only documents
// with exactly one field are eligible for append.
type RemoteDocument struct {
	ID       int64   `json:"id"`
	GlobalID string  `json:"globalId"`
	Fields   []Field `json:"fields"`
}

// DocumentSummary is a list entry for a remote document.
type DocumentSummary struct {
	ID       int64  `json:"id"`
	GlobalID string `json:"globalId"`
	Name     string `json:"name"`
}

// DocumentPage is one page of a document listing, ordered by last-modified
// descending. Pages are 0-indexed.
type DocumentPage struct {
	Documents []DocumentSummary `json:"documents"`
	HasMore   bool              `json:"hasMore"`
	TotalHits int               `json:"totalHits"`
}

// CreatedDocument identifies a freshly created remote document.
type CreatedDocument struct {
	ID       int64  `json:"documentId"`
	GlobalID string `json:"globalId"`
}

// TargetDocument determines whether a clip creates a document before
// appending. It is a closed sum: NewDocument or ExistingDocument.
type TargetDocument interface {
	isTargetDocument()
}

// NewDocument targets a document that does not exist yet.
type NewDocument struct {
	Title string
}

// ExistingDocument targets a document by its remote identifiers. Existence
// is not checked up front; the append's own fetch verifies it.
type ExistingDocument struct {
	ID       int64
	GlobalID string
}

func (NewDocument) isTargetDocument()      {}
func (ExistingDocument) isTargetDocument() {}

// DocumentService provides typed operations against the remote document
// API. Every operation returns a coded error rather than raising; a
// timeout is reported as ETIMEOUT, never conflated with EUNAVAILABLE.
type DocumentService interface {
	// CheckCredentials probes the status endpoint with the configured
	// credentials. Returns EINVALIDCREDENTIALS on 401 and ENOTFOUND when
	// no API answers at the configured URL.
	CheckCredentials(ctx context.Context) error

	// ListDocuments fetches one page (PageSize entries) ordered by
	// last-modified descending.
	ListDocuments(ctx context.Context, page int) (*DocumentPage, error)

	// CreateDocument creates a document with one empty field and the
	// fixed clip tag.
	CreateDocument(ctx context.Context, title string) (*CreatedDocument, error)

	// FindDocumentByID retrieves a document including its fields.
	FindDocumentByID(ctx context.Context, id int64) (*RemoteDocument, error)

	// AppendToDocument fetches the document, verifies it has exactly one
	// field (EINELIGIBLE otherwise, without mutating), and writes the
	// existing content with the fragment appended back to the same field.
	// Last write wins; there is no concurrency token.
	AppendToDocument(ctx context.Context, id int64, fragment string) error

	// UploadFile uploads a file via multipart POST and returns the file id
	// extracted from the response.
	UploadFile(ctx context.Context, r io.Reader, filename string) (string, error)

	// LinkFileToDocument appends a fragment referencing an uploaded file,
	// under the same single-field eligibility constraint as
	// AppendToDocument.
	LinkFileToDocument(ctx context.Context, id int64, fileID, fragment string) error
}
