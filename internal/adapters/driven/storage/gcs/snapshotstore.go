// Package gcs stores the baseline snapshot as a Google Cloud Storage object.
//
// The version token is the object generation. Writes carry a generation
// precondition (or does-not-exist for the first write), so a concurrent
// writer makes the upload fail with 412 instead of overwriting.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/custodia-labs/sanctrack/internal/core/domain"
	"github.com/custodia-labs/sanctrack/internal/core/ports/driven"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotBlobStore = (*SnapshotStore)(nil)

const contentType = "application/json"

// SnapshotStore keeps the snapshot in one GCS object.
type SnapshotStore struct {
	client *storage.Client
	bucket string
	object string
}

// NewSnapshotStore creates a GCS client from settings and returns a store
// for the configured object. Close releases the client.
func NewSnapshotStore(ctx context.Context, settings domain.GCSStoreSettings) (*SnapshotStore, error) {
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: gcs needs bucket and object", domain.ErrBackendNotConfigured)
	}

	client, err := storage.NewClient(ctx, clientOptions(settings)...)
	if err != nil {
		return nil, fmt.Errorf("create GCS client: %w", err)
	}

	return &SnapshotStore{
		client: client,
		bucket: settings.Bucket,
		object: settings.Object,
	}, nil
}

func clientOptions(settings domain.GCSStoreSettings) []option.ClientOption {
	var opts []option.ClientOption
	if settings.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(settings.CredentialsFile))
	}
	if settings.Endpoint != "" {
		// Emulators accept unauthenticated requests.
		opts = append(opts, option.WithEndpoint(settings.Endpoint), option.WithoutAuthentication())
	}
	return opts
}

// Read downloads the object and returns its generation as the token.
func (s *SnapshotStore) Read(ctx context.Context) ([]byte, domain.VersionToken, error) {
	reader, err := s.handle().NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, "", domain.ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("open gs://%s/%s: %w", s.bucket, s.object, err)
	}
	defer func() { _ = reader.Close() }()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, "", fmt.Errorf("read gs://%s/%s: %w", s.bucket, s.object, err)
	}
	return data, generationToken(reader.Attrs.Generation), nil
}

// Write uploads data conditioned on the object's generation.
func (s *SnapshotStore) Write(
	ctx context.Context,
	data []byte,
	expected domain.VersionToken,
) (domain.VersionToken, error) {
	cond, err := writeConditions(expected)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := s.handle().If(cond).NewWriter(ctx)
	w.ContentType = contentType
	// One chunk keeps the upload a single request.
	w.ChunkSize = 0

	if _, err := w.Write(data); err != nil {
		cancel()
		_ = w.Close()
		return "", mapWriteError(err)
	}
	if err := w.Close(); err != nil {
		return "", mapWriteError(err)
	}

	return generationToken(w.Attrs().Generation), nil
}

// Describe returns the gs:// URL of the object.
func (s *SnapshotStore) Describe() string {
	return fmt.Sprintf("gcs gs://%s/%s", s.bucket, s.object)
}

// Close releases the GCS client.
func (s *SnapshotStore) Close() error {
	return s.client.Close()
}

func (s *SnapshotStore) handle() *storage.ObjectHandle {
	return s.client.Bucket(s.bucket).Object(s.object)
}

// writeConditions turns a token into a generation precondition.
func writeConditions(expected domain.VersionToken) (storage.Conditions, error) {
	if expected.IsZero() {
		return storage.Conditions{DoesNotExist: true}, nil
	}
	gen, err := strconv.ParseInt(expected.String(), 10, 64)
	if err != nil || gen <= 0 {
		return storage.Conditions{}, fmt.Errorf("%w: token %q is not a GCS generation",
			domain.ErrVersionConflict, expected)
	}
	return storage.Conditions{GenerationMatch: gen}, nil
}

// mapWriteError reports failed preconditions as version conflicts.
func mapWriteError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusPreconditionFailed {
		return fmt.Errorf("%w: %s", domain.ErrVersionConflict, apiErr.Message)
	}
	return fmt.Errorf("upload snapshot: %w", err)
}

func generationToken(gen int64) domain.VersionToken {
	return domain.VersionToken(strconv.FormatInt(gen, 10))
}
