package memory

import (
	"context"
	"strconv"
	"sync"

	"github.com/custodia-labs/sanctrack/internal/core/domain"
	"github.com/custodia-labs/sanctrack/internal/core/ports/driven"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotBlobStore = (*SnapshotStore)(nil)

// SnapshotStore keeps the baseline in memory. Versions are a counter
// incremented on every successful write.
type SnapshotStore struct {
	mu      sync.Mutex
	data    []byte
	version uint64
}

// NewSnapshotStore creates an empty snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Read returns the stored bytes and their version.
func (s *SnapshotStore) Read(ctx context.Context) ([]byte, domain.VersionToken, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.version == 0 {
		return nil, "", domain.ErrNotFound
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, s.token(), nil
}

// Write replaces the stored bytes when the current version equals expected.
func (s *SnapshotStore) Write(
	ctx context.Context,
	data []byte,
	expected domain.VersionToken,
) (domain.VersionToken, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := domain.VersionToken("")
	if s.version > 0 {
		current = s.token()
	}
	if current != expected {
		return "", domain.ErrVersionConflict
	}

	s.data = make([]byte, len(data))
	copy(s.data, data)
	s.version++
	return s.token(), nil
}

// Describe names the store for logs.
func (s *SnapshotStore) Describe() string {
	return "memory"
}

func (s *SnapshotStore) token() domain.VersionToken {
	return domain.VersionToken(strconv.FormatUint(s.version, 10))
}
