// Package versions persists immutable numbered snapshots of content items.
// The store is append-only: restore copies an old snapshot forward as a new
// version, history is never rewritten. The one destructive operation lives
// behind a separate Admin type so normal application code cannot reach it.
package versions

import (
	"context"
	"encoding/json"

	"pawfeed/models"
)

// CreateParams describes a snapshot to append. Content is an opaque blob;
// the store only requires that it is serializable.
type CreateParams struct {
	ContentType string          `json:"contentType"`
	ContentId   string          `json:"contentId"`
	Content     json.RawMessage `json:"content"`
	CreatedBy   string          `json:"createdBy,omitempty"`
	Comment     string          `json:"comment,omitempty"`
}

// Store is the append-only version history contract.
//
// Writes propagate errors to the caller; reads log failures and degrade to
// empty results so a transient history-read failure never breaks the page
// that asked for it.
type Store interface {
	// CreateVersion appends a snapshot numbered one past the current
	// maximum for the (contentType, contentId) pair, starting at 1.
	// Returns the new record's id. On error no version was created.
	CreateVersion(ctx context.Context, params CreateParams) (int64, error)

	// GetVersionHistory returns records newest-version-first, capped at
	// limit (50 when limit <= 0). Absent history and read failures both
	// yield an empty slice.
	GetVersionHistory(ctx context.Context, contentType, contentId string, limit int) []models.VersionRecord

	// GetVersion returns the exact version, or nil when absent or on error.
	GetVersion(ctx context.Context, contentType, contentId string, version int) *models.VersionRecord

	// RestoreVersion appends a copy of the target version's content with an
	// auto-generated comment. Returns false when the target does not exist;
	// an error means the copy-forward write failed.
	RestoreVersion(ctx context.Context, contentType, contentId string, version int, restoredBy string) (bool, error)
}

// AdminStore bulk-deletes the history of a content item. This violates the
// never-lost guarantee and exists for compliance cleanup only; keep
// references to it out of edit and restore flows.
type AdminStore interface {
	DeleteVersionHistory(ctx context.Context, contentType, contentId string) (int64, error)
}
