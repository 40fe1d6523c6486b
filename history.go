package webclip

import (
	"context"
	"time"
)

// Clip records a successful clip for local history.
type Clip struct {
	ID          string    `json:"id"`
	SourceURL   string    `json:"sourceUrl"`
	SourceTitle string    `json:"sourceTitle"`
	DocumentID  int64     `json:"documentId"`
	GlobalID    string    `json:"globalId"`
	ContentHash string    `json:"contentHash"`
	Markdown    string    `json:"markdown"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Validate returns an error if the clip contains invalid fields.
func (c *Clip) Validate() error {
	if c.SourceURL == "" {
		return Errorf(EINVALID, "clip source URL required")
	}
	if c.DocumentID == 0 {
		return Errorf(EINVALID, "clip document ID required")
	}
	return nil
}

// ClipFilter represents a filter for FindClips.
type ClipFilter struct {
	SourceURL *string `json:"sourceUrl"`

	Limit int `json:"limit"`
}

// HistoryService persists clip history records.
type HistoryService interface {
	// CreateClip records a clip.
	CreateClip(ctx context.Context, clip *Clip) error

	// FindClips retrieves clips matching the filter, newest first.
	FindClips(ctx context.Context, filter ClipFilter) ([]*Clip, error)
}

// Converter transforms HTML content into Markdown, used to store a readable
// preview alongside clip history.
type Converter interface {
	Convert(html string) (string, error)
}
