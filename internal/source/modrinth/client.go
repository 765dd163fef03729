// Package modrinth is the mod index search client. One request per call,
// no retry, no caching; the caller owns timeouts via context.
package modrinth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"modrith/internal/domain"
)

const (
	defaultBaseURL = "https://api.modrinth.com/v2"

	// Error bodies are kept for diagnostics but never unbounded.
	maxErrorBody = 10 * 1024
)

const projectPageURL = "https://modrinth.com/mod/"

// Client wraps the Modrinth REST API v2
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewClient creates a new mod index client. The transport is injected and
// ready; there is no deferred initialization. A nil httpClient falls back
// to http.DefaultClient, an empty baseURL to the public index.
func NewClient(httpClient *http.Client, baseURL, userAgent string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		userAgent:  userAgent,
	}
}

// doRequest performs a GET and decodes the JSON response into result.
// Transport failures become NetworkError, non-2xx responses RemoteError.
func (c *Client) doRequest(ctx context.Context, path string, result interface{}) (err error) {
	reqURL := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.NetworkError{URL: reqURL, Err: err}
	}
	defer func() {
		if cerr := resp.Body.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing response body: %w", cerr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if readErr != nil {
			return &domain.RemoteError{Status: resp.StatusCode}
		}
		return &domain.RemoteError{Status: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// Search issues a single search round-trip against the index. The query is
// passed through as a literal term; only URL encoding is applied.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", strconv.Itoa(limit))

	var resp searchResponse
	if err := c.doRequest(ctx, "/search?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("searching for %q: %w", query, err)
	}

	results := make([]domain.SearchResult, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		results = append(results, domain.SearchResult{
			ID:            hit.ProjectID,
			Name:          hit.Title,
			LatestVersion: hit.LatestVersion,
			Description:   hit.Description,
			Downloads:     hit.Downloads,
			SourceURL:     projectPageURL + hit.Slug,
		})
	}

	return results, nil
}

// GetProject fetches detail for a single project by id or slug.
func (c *Client) GetProject(ctx context.Context, id string) (*domain.SearchResult, error) {
	var proj project
	if err := c.doRequest(ctx, "/project/"+url.PathEscape(id), &proj); err != nil {
		return nil, fmt.Errorf("getting project %q: %w", id, err)
	}

	return &domain.SearchResult{
		ID:          proj.ID,
		Name:        proj.Title,
		Description: proj.Description,
		Downloads:   proj.Downloads,
		SourceURL:   projectPageURL + proj.Slug,
	}, nil
}
