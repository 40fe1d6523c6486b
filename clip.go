package webclip

import "context"

// ClipResult is the outcome of a successful clip.
type ClipResult struct {
	DocumentID int64  `json:"documentId"`
	GlobalID   string `json:"globalId"`

	// AlreadyClipped flags that the source URL was probably clipped
	// before. Advisory only; repeat clips are never blocked.
	AlreadyClipped bool `json:"alreadyClipped,omitempty"`
}

// Clipper coordinates captured content with the remote document service.
//
// Operations sharing a dedup key (clipContent, clipPdf, documents_<page>)
// are coalesced: a second caller arriving while the first is in flight
// receives the same eventual result instead of issuing a duplicate network
// sequence. There are no retries; every failure surfaces to the caller.
type Clipper interface {
	// Authenticate verifies credentials against the server and persists
	// them on success. Re-authentication invalidates the document cache.
	Authenticate(ctx context.Context, serverURL, apiKey string) error

	// Documents lists one page of remote documents. Page 0 is served from
	// a 5-minute cache when fresh.
	Documents(ctx context.Context, page int) (*DocumentPage, error)

	// ClipContent appends captured content to the target document,
	// creating it first when the target is NewDocument. Fails fast with
	// ENOTAUTHENTICATED when no session is stored.
	ClipContent(ctx context.Context, target TargetDocument, content *CapturedContent, note string, source Source) (*ClipResult, error)

	// ClipPDF rasterizes the source page into a paginated PDF, uploads it,
	// and appends an inline-attachment fragment to the target document.
	ClipPDF(ctx context.Context, target TargetDocument, note string, source Source) (*ClipResult, error)
}
