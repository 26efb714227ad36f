package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Client wraps the go-github client with the two contents calls the
// snapshot store needs.
type Client struct {
	gh          *gh.Client
	rateLimiter *RateLimiter
}

// NewClientWithToken creates a GitHub client with a static access token.
func NewClientWithToken(ctx context.Context, token string) *Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout

	return NewClientWithHTTPClient(tc)
}

// NewClientWithHTTPClient creates a GitHub client with a custom http.Client.
func NewClientWithHTTPClient(httpClient *http.Client) *Client {
	return &Client{
		gh:          gh.NewClient(httpClient),
		rateLimiter: NewRateLimiter(ProactiveRate),
	}
}

// SetBaseURL points the client at another API root (GitHub Enterprise, tests).
func (c *Client) SetBaseURL(raw string) error {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse base URL: %w", err)
	}
	c.gh.BaseURL = u
	return nil
}

// SetRateLimiter replaces the client's rate limiter.
func (c *Client) SetRateLimiter(r *RateLimiter) {
	c.rateLimiter = r
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// FileRef identifies a file on a branch.
type FileRef struct {
	Owner  string
	Repo   string
	Path   string
	Branch string
}

func (f FileRef) String() string {
	s := fmt.Sprintf("%s/%s/%s", f.Owner, f.Repo, f.Path)
	if f.Branch != "" {
		s += "@" + f.Branch
	}
	return s
}

// GetFile returns the decoded file content and its blob SHA.
// Files over 1 MB come back without inline content and are fetched as blobs.
func (c *Client) GetFile(ctx context.Context, ref FileRef) ([]byte, string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, "", fmt.Errorf("rate limit wait: %w", err)
	}

	opts := &gh.RepositoryContentGetOptions{Ref: ref.Branch}
	file, _, resp, err := c.gh.Repositories.GetContents(ctx, ref.Owner, ref.Repo, ref.Path, opts)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return nil, "", c.wrapError(err, "get contents")
	}
	if file == nil {
		return nil, "", fmt.Errorf("github: %s is a directory, not a file", ref)
	}

	sha := file.GetSHA()
	if file.GetEncoding() == "none" {
		data, err := c.getBlob(ctx, ref, sha)
		return data, sha, err
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, "", fmt.Errorf("decode content: %w", err)
	}
	return []byte(content), sha, nil
}

// PutFile creates (sha empty) or updates (sha set) the file and returns the
// new blob SHA.
func (c *Client) PutFile(ctx context.Context, ref FileRef, data []byte, sha, message string) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	opts := &gh.RepositoryContentFileOptions{
		Message: gh.Ptr(message),
		Content: data,
	}
	if ref.Branch != "" {
		opts.Branch = gh.Ptr(ref.Branch)
	}

	var (
		res  *gh.RepositoryContentResponse
		resp *gh.Response
		err  error
	)
	if sha == "" {
		res, resp, err = c.gh.Repositories.CreateFile(ctx, ref.Owner, ref.Repo, ref.Path, opts)
	} else {
		opts.SHA = gh.Ptr(sha)
		res, resp, err = c.gh.Repositories.UpdateFile(ctx, ref.Owner, ref.Repo, ref.Path, opts)
	}
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return "", c.wrapError(err, "put contents")
	}
	if res == nil || res.Content == nil {
		return "", fmt.Errorf("github: put %s returned no content", ref)
	}
	return res.Content.GetSHA(), nil
}

func (c *Client) getBlob(ctx context.Context, ref FileRef, sha string) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	blob, resp, err := c.gh.Git.GetBlob(ctx, ref.Owner, ref.Repo, sha)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return nil, c.wrapError(err, "get blob")
	}

	if blob.GetEncoding() != "base64" {
		return []byte(blob.GetContent()), nil
	}
	data, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(blob.GetContent(), "\n", ""))
	if err != nil {
		return nil, fmt.Errorf("decode blob: %w", err)
	}
	return data, nil
}

// updateRateLimitFromResponse updates the rate limiter from GitHub response headers.
func (c *Client) updateRateLimitFromResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.rateLimiter.UpdateFromResponse(resp.Response)
}
