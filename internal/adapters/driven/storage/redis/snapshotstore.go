// Package redis stores the baseline snapshot under a Redis key.
//
// The version token is the SHA-256 of the stored value. Writes WATCH the
// key, re-check the token and SET inside MULTI/EXEC, so a concurrent change
// aborts the transaction.
package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/sanctrack/internal/core/domain"
	"github.com/custodia-labs/sanctrack/internal/core/ports/driven"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotBlobStore = (*SnapshotStore)(nil)

// SnapshotStore keeps the snapshot as a single string value.
type SnapshotStore struct {
	client *redis.Client
	key    string
}

// NewClient parses url, connects and pings.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: redis needs a url", domain.ErrBackendNotConfigured)
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// NewSnapshotStore returns a store for key.
func NewSnapshotStore(client *redis.Client, key string) *SnapshotStore {
	if key == "" {
		key = domain.DefaultSnapshotKey
	}
	return &SnapshotStore{client: client, key: key}
}

// Read returns the value and its digest.
func (s *SnapshotStore) Read(ctx context.Context) ([]byte, domain.VersionToken, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, "", domain.ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("get %s: %w", s.key, err)
	}
	return data, digest(data), nil
}

// Write sets the value if its digest still equals expected.
func (s *SnapshotStore) Write(
	ctx context.Context,
	data []byte,
	expected domain.VersionToken,
) (domain.VersionToken, error) {
	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, s.key).Bytes()
		var token domain.VersionToken
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return fmt.Errorf("get %s: %w", s.key, err)
		default:
			token = digest(current)
		}

		if token != expected {
			return domain.ErrVersionConflict
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.key, data, 0)
			return nil
		})
		return err
	}

	err := s.client.Watch(ctx, txf, s.key)
	if errors.Is(err, redis.TxFailedErr) {
		return "", fmt.Errorf("%w: %s changed during write", domain.ErrVersionConflict, s.key)
	}
	if err != nil {
		return "", err
	}
	return digest(data), nil
}

// Describe names the key.
func (s *SnapshotStore) Describe() string {
	return "redis " + s.key
}

func digest(data []byte) domain.VersionToken {
	sum := sha256.Sum256(data)
	return domain.VersionToken("sha256:" + hex.EncodeToString(sum[:]))
}
