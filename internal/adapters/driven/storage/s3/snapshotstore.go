// Package s3 stores the baseline snapshot as an S3 object.
//
// The version token is the object's ETag. Writes send If-Match (or
// If-None-Match: * for the first write), so S3 rejects an upload whose
// precondition no longer holds. S3-compatible services such as MinIO work
// through a custom endpoint with path-style addressing.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/custodia-labs/sanctrack/internal/core/domain"
	"github.com/custodia-labs/sanctrack/internal/core/ports/driven"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotBlobStore = (*SnapshotStore)(nil)

// SnapshotStore keeps the snapshot in one S3 object.
type SnapshotStore struct {
	client *awss3.Client
	bucket string
	key    string
}

// NewSnapshotStore loads the default AWS configuration and returns a store
// for the configured object.
func NewSnapshotStore(ctx context.Context, settings domain.S3StoreSettings) (*SnapshotStore, error) {
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: s3 needs bucket and key", domain.ErrBackendNotConfigured)
	}

	var loadOpts []func(*config.LoadOptions) error
	if settings.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(settings.Region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if settings.Endpoint != "" {
			o.BaseEndpoint = aws.String(settings.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewSnapshotStoreWithClient(client, settings), nil
}

// NewSnapshotStoreWithClient returns a store using an existing client.
func NewSnapshotStoreWithClient(client *awss3.Client, settings domain.S3StoreSettings) *SnapshotStore {
	return &SnapshotStore{
		client: client,
		bucket: settings.Bucket,
		key:    settings.Key,
	}
}

// Read downloads the object and returns its ETag as the token.
func (s *SnapshotStore) Read(ctx context.Context) ([]byte, domain.VersionToken, error) {
	out, err := s.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, "", domain.ErrNotFound
		}
		return nil, "", fmt.Errorf("get s3://%s/%s: %w", s.bucket, s.key, err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return data, domain.VersionToken(aws.ToString(out.ETag)), nil
}

// Write uploads data conditioned on the object's ETag.
func (s *SnapshotStore) Write(
	ctx context.Context,
	data []byte,
	expected domain.VersionToken,
) (domain.VersionToken, error) {
	in := &awss3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	}
	if expected.IsZero() {
		in.IfNoneMatch = aws.String("*")
	} else {
		in.IfMatch = aws.String(expected.String())
	}

	out, err := s.client.PutObject(ctx, in)
	if err != nil {
		if isConflict(err) {
			return "", fmt.Errorf("%w: %v", domain.ErrVersionConflict, err)
		}
		return "", fmt.Errorf("put s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return domain.VersionToken(aws.ToString(out.ETag)), nil
}

// Describe returns the s3:// URL of the object.
func (s *SnapshotStore) Describe() string {
	return fmt.Sprintf("s3 s3://%s/%s", s.bucket, s.key)
}

func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}

// isConflict matches failed preconditions and the 409 S3 returns when two
// conditional writes race.
func isConflict(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "PreconditionFailed", "ConditionalRequestConflict":
			return true
		}
	}
	return false
}
