package gcs

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/sanctrack/internal/core/domain"
)

func TestNewSnapshotStore_RequiresSettings(t *testing.T) {
	_, err := NewSnapshotStore(context.Background(), domain.GCSStoreSettings{Bucket: "b"})
	assert.ErrorIs(t, err, domain.ErrBackendNotConfigured)
}

func TestNewSnapshotStore_EmulatorEndpoint(t *testing.T) {
	store, err := NewSnapshotStore(context.Background(), domain.GCSStoreSettings{
		Bucket:   "sanctions",
		Object:   "baseline/previous.json",
		Endpoint: "http://127.0.0.1:4443/storage/v1/",
	})
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, "gcs gs://sanctions/baseline/previous.json", store.Describe())
}

func TestClientOptions(t *testing.T) {
	assert.Empty(t, clientOptions(domain.GCSStoreSettings{Bucket: "b", Object: "o"}))
	assert.Len(t, clientOptions(domain.GCSStoreSettings{CredentialsFile: "/tmp/key.json"}), 1)
	assert.Len(t, clientOptions(domain.GCSStoreSettings{Endpoint: "http://localhost:4443"}), 2)
}

func TestWriteConditions(t *testing.T) {
	tests := []struct {
		name     string
		token    domain.VersionToken
		want     storage.Conditions
		conflict bool
	}{
		{name: "create", token: "", want: storage.Conditions{DoesNotExist: true}},
		{name: "generation", token: "1712345678901234", want: storage.Conditions{GenerationMatch: 1712345678901234}},
		{name: "foreign token", token: "sha256:abc", conflict: true},
		{name: "zero generation", token: "0", conflict: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := writeConditions(tt.token)
			if tt.conflict {
				assert.ErrorIs(t, err, domain.ErrVersionConflict)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMapWriteError(t *testing.T) {
	t.Run("precondition failed", func(t *testing.T) {
		err := mapWriteError(&googleapi.Error{Code: http.StatusPreconditionFailed, Message: "conditionNotMet"})
		assert.ErrorIs(t, err, domain.ErrVersionConflict)
	})

	t.Run("other api error", func(t *testing.T) {
		apiErr := &googleapi.Error{Code: http.StatusForbidden, Message: "denied"}
		err := mapWriteError(apiErr)
		assert.NotErrorIs(t, err, domain.ErrVersionConflict)
		assert.ErrorIs(t, err, apiErr)
	})

	t.Run("transport error", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := mapWriteError(cause)
		assert.ErrorIs(t, err, cause)
		assert.NotErrorIs(t, err, domain.ErrVersionConflict)
	})
}

func TestGenerationToken(t *testing.T) {
	assert.Equal(t, domain.VersionToken("42"), generationToken(42))
}
