package figma

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Version is the current release of figma-bridge.
const Version = "0.3.0"

const (
	// DefaultBaseURL is the Figma REST API root.
	DefaultBaseURL = "https://api.figma.com/v1"

	// MaxNodesPerRequest is the number of node IDs the render endpoint accepts per call.
	MaxNodesPerRequest = 100

	defaultMaxRetries = 3
)

// APIError is returned when Figma answers with a non-success status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}

// Client represents a Figma API client with configured HTTP settings for reliable communication
// with the Figma API. It includes retry logic, client-side rate limiting and optimized
// transport settings for handling large files.
type Client struct {
	accessToken string
	bearer      bool
	baseURL     string
	httpClient  *http.Client
	limiter     *rate.Limiter
	maxRetries  int
	backoff     time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root, mostly useful for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the timeout of the underlying HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithRateLimit limits outgoing requests to rps per second. A non-positive
// value disables client-side limiting.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithBearer sends the token as an OAuth2 bearer token instead of a personal access token.
func WithBearer() Option {
	return func(c *Client) {
		c.bearer = true
	}
}

// WithRetryBackoff sets the base delay between retries. The n-th retry waits n*backoff.
func WithRetryBackoff(d time.Duration) Option {
	return func(c *Client) {
		c.backoff = d
	}
}

// NewClient creates a new Figma API client with the provided access token.
// The client is configured with connection pooling, disabled HTTP/2 (for large file stability),
// and a 10-minute timeout for very large files.
func NewClient(accessToken string, opts ...Option) *Client {
	transport := &http.Transport{
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConnsPerHost: 10,
		// Disable HTTP/2 to avoid stream errors with large files
		ForceAttemptHTTP2: false,
	}

	c := &Client{
		accessToken: accessToken,
		baseURL:     DefaultBaseURL,
		httpClient: &http.Client{
			Timeout:   10 * time.Minute,
			Transport: transport,
		},
		maxRetries: defaultMaxRetries,
		backoff:    2 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ExtractFileKey extracts the unique file identifier from a Figma URL.
// Supports /file/, /design/ and /proto/ URL patterns (e.g., figma.com/file/ABC123/Design-Name).
// Returns an error if the URL doesn't match the expected Figma domain pattern.
func ExtractFileKey(figmaURL string) (string, error) {
	// Anchored to ensure the entire URL matches the expected pattern and prevent bypass attacks.
	re := regexp.MustCompile(`^https?://(?:www\.)?figma\.com/(?:file|design|proto)/([A-Za-z0-9]+)(?:[/?#]|$)`)
	matches := re.FindStringSubmatch(figmaURL)

	if len(matches) < 2 {
		return "", fmt.Errorf("invalid Figma URL format: must be a valid figma.com URL with a /file/, /design/ or /proto/ path")
	}

	return matches[1], nil
}

var (
	hashNodesRe = regexp.MustCompile(`#([0-9]+[:-][0-9]+(?:,\s*[0-9]+[:-][0-9]+)*)$`)
	pathNodesRe = regexp.MustCompile(`/nodes/([^?#]+)`)
)

// ExtractNodeIDs returns the node IDs referenced by a Figma URL, in order and without
// duplicates. It understands the node-id query parameter, a trailing hash fragment and
// a /nodes/ path segment. URL-style IDs ("12-34") are converted to API-style ("12:34").
func ExtractNodeIDs(figmaURL string) ([]string, error) {
	var raw string

	if m := pathNodesRe.FindStringSubmatch(figmaURL); len(m) == 2 {
		raw = m[1]
	} else if m := hashNodesRe.FindStringSubmatch(figmaURL); len(m) == 2 {
		raw = m[1]
	} else {
		u, err := url.Parse(figmaURL)
		if err != nil {
			return nil, fmt.Errorf("parse URL: %w", err)
		}
		raw = u.Query().Get("node-id")
	}

	ids := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		id := strings.TrimSpace(part)
		if id == "" {
			continue
		}
		ids = append(ids, NormalizeNodeID(id))
	}

	return deduplicateNodeIDs(ids), nil
}

// NormalizeNodeID converts the dash form used in browser URLs to the colon
// form the API expects.
func NormalizeNodeID(id string) string {
	id = strings.TrimSpace(id)
	if !strings.Contains(id, ":") {
		id = strings.Replace(id, "-", ":", 1)
	}
	return id
}

func deduplicateNodeIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		result = append(result, id)
	}
	return result
}

// GetFile retrieves complete file data from the Figma API including document structure and metadata.
func (c *Client) GetFile(ctx context.Context, fileKey string) (*FileResponse, error) {
	var fileResp FileResponse
	if err := c.get(ctx, "/files/"+url.PathEscape(fileKey), nil, &fileResp); err != nil {
		return nil, err
	}
	return &fileResp, nil
}

// GetFileNodes retrieves the subtrees of the given nodes.
func (c *Client) GetFileNodes(ctx context.Context, fileKey string, nodeIDs []string) (*NodesResponse, error) {
	if len(nodeIDs) == 0 {
		return nil, fmt.Errorf("at least one node ID is required")
	}

	q := url.Values{}
	q.Set("ids", strings.Join(nodeIDs, ","))

	var nodesResp NodesResponse
	if err := c.get(ctx, "/files/"+url.PathEscape(fileKey)+"/nodes", q, &nodesResp); err != nil {
		return nil, err
	}
	return &nodesResp, nil
}

// GetImages asks Figma to render the given nodes and returns temporary download URLs.
// Callers are responsible for batching at most MaxNodesPerRequest IDs per call.
func (c *Client) GetImages(ctx context.Context, fileKey string, nodeIDs []string, format string, scale float64) (*ImagesResponse, error) {
	if len(nodeIDs) == 0 {
		return nil, fmt.Errorf("at least one node ID is required")
	}

	q := url.Values{}
	q.Set("ids", strings.Join(nodeIDs, ","))
	q.Set("format", format)
	if format != "svg" && format != "pdf" && scale > 0 {
		q.Set("scale", strconv.FormatFloat(scale, 'f', -1, 64))
	}
	if format == "svg" {
		q.Set("svg_include_id", "true")
	}

	var imgResp ImagesResponse
	if err := c.get(ctx, "/images/"+url.PathEscape(fileKey), q, &imgResp); err != nil {
		return nil, err
	}
	if imgResp.Err != nil && *imgResp.Err != "" {
		return nil, fmt.Errorf("render failed: %s", *imgResp.Err)
	}
	return &imgResp, nil
}

// GetLocalVariables retrieves the variables and variable collections defined in the file.
func (c *Client) GetLocalVariables(ctx context.Context, fileKey string) (*LocalVariablesResponse, error) {
	var varsResp LocalVariablesResponse
	if err := c.get(ctx, "/files/"+url.PathEscape(fileKey)+"/variables/local", nil, &varsResp); err != nil {
		return nil, err
	}
	return &varsResp, nil
}

// get performs a GET against the API and decodes the JSON body into out.
// It retries up to maxRetries times on transport errors, 429 (rate limit)
// and 5xx (server error) responses, waiting attempt*backoff between tries.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var lastErr error

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return fmt.Errorf("rate limiter: %w", err)
			}
		}

		body, retry, err := c.do(ctx, endpoint)
		if err == nil {
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}
			return nil
		}

		lastErr = err
		if !retry || attempt == c.maxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * c.backoff):
		}
	}

	return lastErr
}

// do executes a single request. The boolean result reports whether the failure is retryable.
func (c *Client) do(ctx context.Context, endpoint string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}

	if c.bearer {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	} else {
		req.Header.Set("X-Figma-Token", c.accessToken)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retry, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return body, false, nil
}
