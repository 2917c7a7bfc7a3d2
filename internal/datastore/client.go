// Package datastore fetches the project directory and aggregated stats from
// the dashboard API and holds the latest responses for rendering.
package datastore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/strrl/lain/internal/query"
	"github.com/strrl/lain/pkg/models"
)

const (
	projectsPath = "/api/projects"
	statsPath    = "/api/stats"

	// DefaultBaseURL is where the dashboard server listens by default.
	DefaultBaseURL = "http://127.0.0.1:8000"
	userAgent      = "lain/1.0"
	maxErrorBody   = 512
)

var (
	// ErrTransport wraps failures to reach the server.
	ErrTransport = errors.New("transport error")
	// ErrStatus wraps non-2xx responses.
	ErrStatus = errors.New("unexpected status")
	// ErrDecode wraps malformed response bodies.
	ErrDecode = errors.New("malformed response")
)

// StatusError carries the status code of a non-2xx response. It matches
// ErrStatus with errors.Is.
type StatusError struct {
	Path string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned status %d", e.Path, e.Code)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Path, e.Code, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}

// Source is the read side of the API.
type Source interface {
	FetchProjects(ctx context.Context) (map[string]models.Project, error)
	FetchStats(ctx context.Context, q query.Query) (*models.StatsSnapshot, error)
}

// Client talks to the dashboard API over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for baseURL. A zero timeout means requests
// never time out on their own.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the server root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ProjectsURL is the directory endpoint.
func (c *Client) ProjectsURL() string {
	return c.baseURL + projectsPath
}

// StatsURL is the stats endpoint for q.
func (c *Client) StatsURL(q query.Query) string {
	u := c.baseURL + statsPath
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}

// FetchProjects loads the project directory keyed by folder.
func (c *Client) FetchProjects(ctx context.Context) (map[string]models.Project, error) {
	var projects map[string]models.Project
	if err := c.getJSON(ctx, projectsPath, c.ProjectsURL(), &projects); err != nil {
		return nil, err
	}
	if projects == nil {
		projects = map[string]models.Project{}
	}
	for folder, p := range projects {
		if p.Folder == "" {
			p.Folder = folder
			projects[folder] = p
		}
	}
	return projects, nil
}

// FetchStats loads aggregated stats for q.
func (c *Client) FetchStats(ctx context.Context, q query.Query) (*models.StatsSnapshot, error) {
	var snap models.StatsSnapshot
	if err := c.getJSON(ctx, statsPath, c.StatsURL(q), &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *Client) getJSON(ctx context.Context, path, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %v", ErrTransport, path, unwrapURLError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrDecode, path, err)
	}
	return nil
}

func unwrapURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err
	}
	return err
}
