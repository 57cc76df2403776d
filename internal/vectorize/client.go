// Package vectorize implements the HTTP client for the remote
// vector-database API.
//
// Every operation is account-scoped and maps to a single HTTP call; the
// client performs no retries — retry policy belongs to the caller's
// transport, not here. Not-found lookups surface as ErrNotFound so callers
// can distinguish "found nothing" from "call failed".
package vectorize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotFound is returned when the service reports no index or vectors for
// the requested name or id set.
var ErrNotFound = errors.New("not found")

// API is the remote vector-database surface the tool-dispatch layer depends
// on. Implementations must issue exactly one remote call per method
// invocation.
type API interface {
	CreateIndex(ctx context.Context, accountID string, req *CreateIndexRequest) (*Index, error)
	ListIndexes(ctx context.Context, accountID string, opts *ListOptions) ([]Index, error)
	GetIndex(ctx context.Context, accountID, indexName string) (*Index, error)
	DeleteIndex(ctx context.Context, accountID, indexName string) error
	DescribeIndex(ctx context.Context, accountID, indexName string) (*IndexInfo, error)
	InsertVectors(ctx context.Context, accountID, indexName string, batch *VectorBatch) (*MutationResult, error)
	UpsertVectors(ctx context.Context, accountID, indexName string, batch *VectorBatch) (*MutationResult, error)
	QueryVectors(ctx context.Context, accountID, indexName string, req *QueryRequest) (*QueryResult, error)
	GetVectorsByIDs(ctx context.Context, accountID, indexName string, ids []string) ([]Vector, error)
	DeleteVectorsByIDs(ctx context.Context, accountID, indexName string, ids []string) error
}

// ClientConfig configures the HTTP client.
type ClientConfig struct {
	// BaseURL is the API root, e.g. "https://api.example.com/client/v4".
	BaseURL string

	// APIToken authenticates requests via a bearer token.
	APIToken string

	// Timeout bounds each HTTP request. Default: 30 seconds.
	Timeout time.Duration

	// UserAgent is sent with every request. Default: "vectord".
	UserAgent string

	// MaxResponseBytes caps response body reads. Default: 16MB.
	MaxResponseBytes int64
}

// DefaultClientConfig returns sensible defaults. BaseURL and APIToken have
// no defaults and must come from configuration.
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		Timeout:          30 * time.Second,
		UserAgent:        "vectord",
		MaxResponseBytes: 16 * 1024 * 1024,
	}
}

// ApplyDefaults sets default values for unset fields.
func (c *ClientConfig) ApplyDefaults() {
	defaults := DefaultClientConfig()

	if c.Timeout == 0 {
		c.Timeout = defaults.Timeout
	}
	if c.UserAgent == "" {
		c.UserAgent = defaults.UserAgent
	}
	if c.MaxResponseBytes == 0 {
		c.MaxResponseBytes = defaults.MaxResponseBytes
	}
}

// Validate validates the client configuration.
func (c *ClientConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if c.APIToken == "" {
		return fmt.Errorf("API token is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout: %v (must be > 0)", c.Timeout)
	}
	return nil
}

// Client is the HTTP implementation of API.
type Client struct {
	config *ClientConfig
	http   *http.Client
	logger *zap.Logger
}

// NewClient creates a new API client.
func NewClient(config *ClientConfig, logger *zap.Logger) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Client{
		config: config,
		http:   &http.Client{Timeout: config.Timeout},
		logger: logger,
	}, nil
}

// apiError is one entry of the service's error list.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// envelope is the service's uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Errors  []apiError      `json:"errors"`
	Result  json.RawMessage `json:"result"`
}

// indexesPath builds the account-scoped index collection path.
func indexesPath(accountID string) string {
	return fmt.Sprintf("/accounts/%s/vectorize/v2/indexes", url.PathEscape(accountID))
}

// indexPath builds the path for a single named index, with optional
// sub-resource segments appended.
func indexPath(accountID, indexName string, segments ...string) string {
	p := indexesPath(accountID) + "/" + url.PathEscape(indexName)
	for _, s := range segments {
		p += "/" + s
	}
	return p
}

// CreateIndex creates a new index in the account.
func (c *Client) CreateIndex(ctx context.Context, accountID string, req *CreateIndexRequest) (*Index, error) {
	var idx Index
	found, err := c.doJSON(ctx, http.MethodPost, indexesPath(accountID), "", req, &idx)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &idx, nil
}

// ListIndexes lists indexes in the account. An empty account yields an empty
// slice, not an error.
func (c *Client) ListIndexes(ctx context.Context, accountID string, opts *ListOptions) ([]Index, error) {
	query := ""
	if opts != nil {
		values := url.Values{}
		if opts.Page != nil {
			values.Set("page", strconv.Itoa(*opts.Page))
		}
		if opts.PerPage != nil {
			values.Set("per_page", strconv.Itoa(*opts.PerPage))
		}
		if opts.Order != nil {
			values.Set("order", *opts.Order)
		}
		if opts.Direction != nil {
			values.Set("direction", *opts.Direction)
		}
		query = values.Encode()
	}

	indexes := []Index{}
	if _, err := c.doJSON(ctx, http.MethodGet, indexesPath(accountID), query, nil, &indexes); err != nil {
		return nil, err
	}
	return indexes, nil
}

// GetIndex fetches one index by name. Returns ErrNotFound if the service
// has no index with that name.
func (c *Client) GetIndex(ctx context.Context, accountID, indexName string) (*Index, error) {
	var idx Index
	found, err := c.doJSON(ctx, http.MethodGet, indexPath(accountID, indexName), "", nil, &idx)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return &idx, nil
}

// DeleteIndex deletes an index and all its vectors. The service returns no
// body on success.
func (c *Client) DeleteIndex(ctx context.Context, accountID, indexName string) error {
	_, err := c.doJSON(ctx, http.MethodDelete, indexPath(accountID, indexName), "", nil, nil)
	return err
}

// DescribeIndex fetches live index state. Returns ErrNotFound for unknown
// index names.
func (c *Client) DescribeIndex(ctx context.Context, accountID, indexName string) (*IndexInfo, error) {
	var info IndexInfo
	found, err := c.doJSON(ctx, http.MethodGet, indexPath(accountID, indexName, "info"), "", nil, &info)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return &info, nil
}

// InsertVectors streams an NDJSON batch into the index. Fails on ids that
// already exist; malformed lines are handled per batch.UnparsableBehavior.
func (c *Client) InsertVectors(ctx context.Context, accountID, indexName string, batch *VectorBatch) (*MutationResult, error) {
	return c.mutate(ctx, indexPath(accountID, indexName, "insert"), batch)
}

// UpsertVectors streams an NDJSON batch into the index, overwriting vectors
// whose ids already exist.
func (c *Client) UpsertVectors(ctx context.Context, accountID, indexName string, batch *VectorBatch) (*MutationResult, error) {
	return c.mutate(ctx, indexPath(accountID, indexName, "upsert"), batch)
}

func (c *Client) mutate(ctx context.Context, path string, batch *VectorBatch) (*MutationResult, error) {
	query := ""
	if batch.UnparsableBehavior != "" {
		values := url.Values{}
		values.Set("unparsable-behavior", batch.UnparsableBehavior)
		query = values.Encode()
	}

	var result MutationResult
	found, err := c.do(ctx, http.MethodPost, path, query, "application/x-ndjson",
		strings.NewReader(batch.Body), &result)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &result, nil
}

// QueryVectors runs a nearest-neighbor query against the index. An absent
// result body is treated as an empty match set, not a failure.
func (c *Client) QueryVectors(ctx context.Context, accountID, indexName string, req *QueryRequest) (*QueryResult, error) {
	var result QueryResult
	if _, err := c.doJSON(ctx, http.MethodPost, indexPath(accountID, indexName, "query"), "", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetVectorsByIDs fetches vectors by id. Returns ErrNotFound when the
// service reports no result for the id set.
func (c *Client) GetVectorsByIDs(ctx context.Context, accountID, indexName string, ids []string) ([]Vector, error) {
	body := struct {
		IDs []string `json:"ids"`
	}{IDs: ids}

	var vectors []Vector
	found, err := c.doJSON(ctx, http.MethodPost, indexPath(accountID, indexName, "get_by_ids"), "", body, &vectors)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return vectors, nil
}

// DeleteVectorsByIDs deletes vectors by id. The service returns no body the
// caller needs on success.
func (c *Client) DeleteVectorsByIDs(ctx context.Context, accountID, indexName string, ids []string) error {
	body := struct {
		IDs []string `json:"ids"`
	}{IDs: ids}

	_, err := c.doJSON(ctx, http.MethodPost, indexPath(accountID, indexName, "delete_by_ids"), "", body, nil)
	return err
}

// doJSON marshals body (when non-nil) as JSON and delegates to do.
func (c *Client) doJSON(ctx context.Context, method, path, query string, body, result any) (bool, error) {
	var reader io.Reader
	contentType := ""
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return false, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, query, contentType, reader, result)
}

// do issues one HTTP request and decodes the service envelope. It returns
// (false, nil) when the call succeeded but the result is explicitly absent
// (null), and maps HTTP 404 to ErrNotFound. result may be nil for
// operations whose body the caller discards.
func (c *Client) do(ctx context.Context, method, path, query, contentType string, body io.Reader, result any) (bool, error) {
	requestURL := strings.TrimRight(c.config.BaseURL, "/") + path
	if query != "" {
		requestURL += "?" + query
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return false, fmt.Errorf("failed to build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Authorization", "Bearer "+c.config.APIToken)
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("X-Request-Id", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("vectorize API call",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxResponseBytes))
	if err != nil {
		return false, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return false, ErrNotFound
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return false, fmt.Errorf("malformed response (status %d): %w", resp.StatusCode, err)
	}

	if !env.Success || resp.StatusCode >= 400 {
		return false, fmt.Errorf("API error (status %d): %s", resp.StatusCode, flattenErrors(env.Errors))
	}

	if len(env.Result) == 0 || string(env.Result) == "null" {
		return false, nil
	}
	if result == nil {
		return true, nil
	}
	if err := json.Unmarshal(env.Result, result); err != nil {
		return false, fmt.Errorf("failed to decode result: %w", err)
	}
	return true, nil
}

// flattenErrors joins the service's error list into one message.
func flattenErrors(errs []apiError) string {
	if len(errs) == 0 {
		return "unknown error"
	}
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		if e.Code != 0 {
			parts = append(parts, fmt.Sprintf("%d: %s", e.Code, e.Message))
		} else {
			parts = append(parts, e.Message)
		}
	}
	return strings.Join(parts, "; ")
}
