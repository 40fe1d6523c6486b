package sqlite

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fkozlowski/webclip"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ webclip.HistoryService = (*HistoryService)(nil)

// HistoryService implements webclip.HistoryService using SQLite.
type HistoryService struct {
	db *DB
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(db *DB) *HistoryService {
	return &HistoryService{db: db}
}

// hashContent computes xxHash of content and returns a hex string.
func hashContent(content string) string {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, xxhash.Sum64String(content))
	return hex.EncodeToString(b)
}

// CreateClip records a clip. The ID, content hash, and creation time are
// assigned here, overwriting whatever the caller set.
func (s *HistoryService) CreateClip(ctx context.Context, clip *webclip.Clip) error {
	if err := clip.Validate(); err != nil {
		return err
	}

	clip.ID = uuid.New().String()
	clip.CreatedAt = time.Now().UTC()
	clip.ContentHash = hashContent(clip.Markdown)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO clips (id, source_url, source_title, document_id, global_id, content_hash, markdown, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, clip.ID, clip.SourceURL, clip.SourceTitle, clip.DocumentID, clip.GlobalID,
		clip.ContentHash, clip.Markdown, clip.CreatedAt.Format(time.RFC3339))

	return err
}

// FindClips retrieves clips matching the filter, newest first.
func (s *HistoryService) FindClips(ctx context.Context, filter webclip.ClipFilter) ([]*webclip.Clip, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, source_url, source_title, document_id, global_id, content_hash, markdown, created_at FROM clips WHERE 1=1`)

	if filter.SourceURL != nil {
		query.WriteString(" AND source_url = ?")
		args = append(args, *filter.SourceURL)
	}

	query.WriteString(" ORDER BY created_at DESC")

	if filter.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clips []*webclip.Clip
	for rows.Next() {
		var clip webclip.Clip
		var createdAt string

		if err := rows.Scan(&clip.ID, &clip.SourceURL, &clip.SourceTitle, &clip.DocumentID,
			&clip.GlobalID, &clip.ContentHash, &clip.Markdown, &createdAt); err != nil {
			return nil, err
		}

		clip.CreatedAt, err = parseRFC3339(createdAt, "created_at")
		if err != nil {
			return nil, err
		}

		clips = append(clips, &clip)
	}

	return clips, rows.Err()
}
