package file

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/sanctrack/internal/core/domain"
	"github.com/custodia-labs/sanctrack/internal/core/ports/driven"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotBlobStore = (*SnapshotStore)(nil)

const (
	lockSuffix = ".lock"

	// staleLockAge is how old a lock file must be before it is broken.
	staleLockAge = 30 * time.Second

	lockPollInterval = 25 * time.Millisecond
)

// SnapshotStore keeps the snapshot in a single file.
type SnapshotStore struct {
	path string
}

// NewSnapshotStore creates a store for the snapshot at path.
// The parent directory is created if needed.
func NewSnapshotStore(path string) (*SnapshotStore, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: snapshot path is empty", domain.ErrBackendNotConfigured)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}
	return &SnapshotStore{path: path}, nil
}

// Read returns the file content and its digest token.
func (s *SnapshotStore) Read(ctx context.Context) ([]byte, domain.VersionToken, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, "", domain.ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("read snapshot: %w", err)
	}
	return data, digest(data), nil
}

// Write replaces the file if its digest still equals expected.
func (s *SnapshotStore) Write(
	ctx context.Context,
	data []byte,
	expected domain.VersionToken,
) (domain.VersionToken, error) {
	unlock, err := s.lock(ctx)
	if err != nil {
		return "", err
	}
	defer unlock()

	current, err := s.currentToken()
	if err != nil {
		return "", err
	}
	if current != expected {
		return "", fmt.Errorf("%w: expected %q, found %q", domain.ErrVersionConflict, expected, current)
	}

	if err := writeAtomic(s.path, data); err != nil {
		return "", err
	}
	return digest(data), nil
}

// Describe returns the snapshot path.
func (s *SnapshotStore) Describe() string {
	return "file " + s.path
}

// Path returns the snapshot file location.
func (s *SnapshotStore) Path() string {
	return s.path
}

// currentToken returns the token of the file on disk, empty if absent.
func (s *SnapshotStore) currentToken() (domain.VersionToken, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read snapshot: %w", err)
	}
	return digest(data), nil
}

// lock creates the lock file exclusively, waiting until it is free or ctx
// ends. Locks older than staleLockAge are broken with breakStaleLock.
func (s *SnapshotStore) lock(ctx context.Context) (func(), error) {
	lockPath := s.path + lockSuffix

	for {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
		if err == nil {
			_, _ = fmt.Fprintf(f, "%d\n", os.Getpid())
			_ = f.Close()
			return func() { _ = os.Remove(lockPath) }, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("acquire snapshot lock: %w", err)
		}

		if info, statErr := os.Stat(lockPath); statErr == nil && isStale(info) {
			if err := breakStaleLock(lockPath, info); err != nil {
				return nil, fmt.Errorf("break stale snapshot lock: %w", err)
			}
			continue
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("acquire snapshot lock: %w", ctx.Err())
		case <-time.After(lockPollInterval):
		}
	}
}

func isStale(info os.FileInfo) bool {
	return time.Since(info.ModTime()) > staleLockAge
}

// breakStaleLock removes the lock at lockPath only if it is still the stale
// file described by stale. The lock is first parked under a unique name so
// two writers cannot both remove it; if the parked file turns out to be a
// fresh lock taken by another writer, it is put back.
func breakStaleLock(lockPath string, stale os.FileInfo) error {
	parked := lockPath + ".stale-" + uuid.NewString()
	if err := os.Rename(lockPath, parked); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	info, err := os.Stat(parked)
	if err == nil && os.SameFile(stale, info) && isStale(info) {
		return os.Remove(parked)
	}

	if err := os.Link(parked, lockPath); err != nil {
		if errors.Is(err, os.ErrExist) {
			return os.Remove(parked)
		}
		return os.Rename(parked, lockPath)
	}
	return os.Remove(parked)
}

// writeAtomic writes data to a temp file in the same directory and renames
// it over path.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

func digest(data []byte) domain.VersionToken {
	sum := sha256.Sum256(data)
	return domain.VersionToken("sha256:" + hex.EncodeToString(sum[:]))
}
