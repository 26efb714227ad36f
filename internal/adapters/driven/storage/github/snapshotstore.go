package github

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/sanctrack/internal/core/domain"
	"github.com/custodia-labs/sanctrack/internal/core/ports/driven"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotBlobStore = (*SnapshotStore)(nil)

// SnapshotStore keeps the snapshot as a repository file.
type SnapshotStore struct {
	client  *Client
	ref     FileRef
	message string
}

// NewSnapshotStore creates a store for the file described by settings.
// The token must already be resolved.
func NewSnapshotStore(client *Client, settings domain.GitHubStoreSettings) (*SnapshotStore, error) {
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: github needs owner, repo, path and token", domain.ErrBackendNotConfigured)
	}

	message := settings.CommitMessage
	if message == "" {
		message = domain.DefaultCommitMsg
	}

	return &SnapshotStore{
		client: client,
		ref: FileRef{
			Owner:  settings.Owner,
			Repo:   settings.Repo,
			Path:   settings.Path,
			Branch: settings.Branch,
		},
		message: message,
	}, nil
}

// Read fetches the file and its blob SHA.
func (s *SnapshotStore) Read(ctx context.Context) ([]byte, domain.VersionToken, error) {
	data, sha, err := s.client.GetFile(ctx, s.ref)
	if IsNotFound(err) {
		return nil, "", domain.ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	return data, domain.VersionToken(sha), nil
}

// Write commits data if the file's blob SHA still equals expected.
//
// GitHub answers a stale SHA with 409 and a create over an existing file
// with 422; both mean someone else wrote first.
func (s *SnapshotStore) Write(
	ctx context.Context,
	data []byte,
	expected domain.VersionToken,
) (domain.VersionToken, error) {
	sha, err := s.client.PutFile(ctx, s.ref, data, expected.String(), s.message)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.StatusCode == 409 || apiErr.StatusCode == 422) {
			return "", fmt.Errorf("%w: %s", domain.ErrVersionConflict, apiErr.Message)
		}
		return "", err
	}
	return domain.VersionToken(sha), nil
}

// Describe returns owner/repo/path@branch.
func (s *SnapshotStore) Describe() string {
	return "github " + s.ref.String()
}
