package driven

import (
	"context"

	"github.com/custodia-labs/sanctrack/internal/core/domain"
)

// SnapshotBlobStore persists the baseline snapshot as an opaque blob guarded by
// an optimistic version token. Implementations never retry a rejected write.
type SnapshotBlobStore interface {
	// Read returns the stored blob and its version token.
	// Returns domain.ErrNotFound when nothing has been stored yet.
	Read(ctx context.Context) ([]byte, domain.VersionToken, error)

	// Write replaces the stored blob if its current version equals expected.
	// An empty expected token means the blob must not exist yet.
	// Returns the new token, or domain.ErrVersionConflict on mismatch.
	Write(ctx context.Context, data []byte, expected domain.VersionToken) (domain.VersionToken, error)

	// Describe returns a human-readable location for logs and CLI output.
	Describe() string
}
