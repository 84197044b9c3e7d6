// Package github is a minimal wrapper around GitHub's REST API v3,
// covering only the endpoints the digest needs.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joss/ghdigest/internal/digest"
	"github.com/joss/ghdigest/internal/logging"
)

const defaultBaseURL = "https://api.github.com"

// Client calls the GitHub REST API. A zero token works but is subject
// to very low rate limits.
type Client struct {
	http    *http.Client
	token   string
	baseURL string
	log     *logging.Logger
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (GitHub Enterprise, tests).
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(base, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// NewClient returns a ready-to-use GitHub API client.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		token:   token,
		baseURL: defaultBaseURL,
		log:     logging.New("github"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListEvents fetches up to perPage recent public activity events for
// the user, newest first, mapped into the digest's input model.
// Pagination beyond one page is deliberately not performed; the window
// validator catches pages that do not reach back far enough.
func (c *Client) ListEvents(ctx context.Context, username string, perPage int) ([]digest.Event, error) {
	u := fmt.Sprintf("%s/users/%s/events?per_page=%s",
		c.baseURL, url.PathEscape(username), strconv.Itoa(perPage))

	start := time.Now()
	var wire []wireEvent
	if err := c.get(ctx, u, &wire); err != nil {
		return nil, fmt.Errorf("list events for %s: %w", username, err)
	}
	c.log.Timed("events_fetched", start, map[string]any{"user": username, "count": len(wire)})

	events := make([]digest.Event, 0, len(wire))
	for _, w := range wire {
		events = append(events, toEvent(w))
	}
	return events, nil
}

// GetRepo resolves repository metadata from the API locator carried on
// an event (e.g. https://api.github.com/repos/owner/name).
func (c *Client) GetRepo(ctx context.Context, apiURL string) (digest.RepoMetadata, error) {
	var repo wireRepository
	if err := c.get(ctx, apiURL, &repo); err != nil {
		return digest.RepoMetadata{}, fmt.Errorf("get repo %s: %w", apiURL, err)
	}
	return digest.RepoMetadata{HTMLURL: repo.HTMLURL}, nil
}

// Resolve implements digest.RepoResolver.
func (c *Client) Resolve(ctx context.Context, apiURL string) (digest.RepoMetadata, error) {
	return c.GetRepo(ctx, apiURL)
}

// get executes a GET request and decodes the JSON response into v.
func (c *Client) get(ctx context.Context, u string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	c.addHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return &StatusError{Status: resp.StatusCode, URL: u}
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

// addHeaders sets authentication and Accept headers.
func (c *Client) addHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("User-Agent", "ghdigest")
}

// StatusError is a non-2xx API response.
type StatusError struct {
	Status int
	URL    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("github: unexpected status %d for %s", e.Status, e.URL)
}

// IsNotFound reports whether the error is a 404 response.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}
