package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/oauth2"
)

const maxErrorBody = 200

// APIError is returned for non-2xx responses
type APIError struct {
	StatusCode int
	Message    string // message decoded from the JSON error body, if any
	Body       string // raw body, truncated
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Body)
}

// BaseClient provides common HTTP client functionality: base URL handling,
// retries with backoff, optional bearer auth and JSON bodies.
type BaseClient struct {
	baseURL    string
	httpClient *retryablehttp.Client
	headers    map[string]string
	logger     hclog.Logger
	secrets    []string
}

// Option configures a BaseClient
type Option func(*BaseClient)

// WithTimeout sets the per-attempt HTTP timeout
func WithTimeout(d time.Duration) Option {
	return func(c *BaseClient) {
		c.httpClient.HTTPClient.Timeout = d
	}
}

// WithRetryMax sets how many times a failed request is retried
func WithRetryMax(n int) Option {
	return func(c *BaseClient) {
		c.httpClient.RetryMax = n
	}
}

// WithRetryWait bounds the backoff between retries
func WithRetryWait(min, max time.Duration) Option {
	return func(c *BaseClient) {
		c.httpClient.RetryWaitMin = min
		c.httpClient.RetryWaitMax = max
	}
}

// WithBearerToken authenticates every request with a static OAuth2 bearer token
func WithBearerToken(token string) Option {
	return func(c *BaseClient) {
		if token == "" {
			return
		}
		base := c.httpClient.HTTPClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		c.httpClient.HTTPClient.Transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   base,
		}
		c.secrets = append(c.secrets, token)
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger hclog.Logger) Option {
	return func(c *BaseClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHeader adds a header sent with every request
func WithHeader(key, value string) Option {
	return func(c *BaseClient) {
		c.headers[key] = value
	}
}

// WithSecret registers a value that must never appear in logs
func WithSecret(secret string) Option {
	return func(c *BaseClient) {
		if secret != "" {
			c.secrets = append(c.secrets, secret)
		}
	}
}

// NewBaseClient creates a new base HTTP client.
// The trailing slash of baseURL is removed.
func NewBaseClient(baseURL string, opts ...Option) *BaseClient {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = nil // Disable default logging
	// hand the last response back so non-2xx bodies can be decoded
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.HTTPClient.Timeout = 30 * time.Second

	c := &BaseClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: retryClient,
		headers:    make(map[string]string),
		logger:     hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetHeader sets a custom header that will be included in all requests
func (c *BaseClient) SetHeader(key, value string) {
	c.headers[key] = value
}

// GetBaseURL returns the base URL of the client
func (c *BaseClient) GetBaseURL() string {
	return c.baseURL
}

// GetHeader returns the value of a specific header
func (c *BaseClient) GetHeader(key string) string {
	return c.headers[key]
}

// GetJSON performs a GET and decodes the JSON response into respBody
func (c *BaseClient) GetJSON(ctx context.Context, path string, query url.Values, respBody interface{}) error {
	return c.DoJSON(ctx, http.MethodGet, path, query, nil, respBody)
}

// PostJSON performs a POST with a JSON body
func (c *BaseClient) PostJSON(ctx context.Context, path string, query url.Values, reqBody, respBody interface{}) error {
	return c.DoJSON(ctx, http.MethodPost, path, query, reqBody, respBody)
}

// DoJSON performs an HTTP request with JSON request/response bodies.
// Returns *APIError if the final response status is not 2xx.
func (c *BaseClient) DoJSON(ctx context.Context, method, path string, query url.Values, reqBody, respBody interface{}) error {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	c.logger.Debug("sending request", "method", method, "url", c.redact(fullURL))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %s", c.redact(err.Error()))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug("received response", "method", method, "status", resp.StatusCode, "bytes", len(body))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, body)
	}

	if respBody != nil && len(body) > 0 {
		if err := json.Unmarshal(body, respBody); err != nil {
			return fmt.Errorf("failed to unmarshal response body: %w", err)
		}
	}

	return nil
}

// redact strips registered secrets from s for logging
func (c *BaseClient) redact(s string) string {
	for _, secret := range c.secrets {
		s = strings.ReplaceAll(s, secret, "[REDACTED]")
		s = strings.ReplaceAll(s, url.QueryEscape(secret), "[REDACTED]")
	}
	return s
}

// newAPIError extracts the most descriptive message from an error body.
// Handles {"error": "..."}, {"message": "..."} and {"error": {"message": "..."}}.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var errorResp struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if json.Unmarshal(body, &errorResp) == nil {
		var flat string
		var nested struct {
			Message string `json:"message"`
		}
		switch {
		case len(errorResp.Error) > 0 && json.Unmarshal(errorResp.Error, &flat) == nil && flat != "":
			apiErr.Message = flat
		case len(errorResp.Error) > 0 && json.Unmarshal(errorResp.Error, &nested) == nil && nested.Message != "":
			apiErr.Message = nested.Message
		case errorResp.Message != "":
			apiErr.Message = errorResp.Message
		}
	}

	bodyStr := string(body)
	if len(bodyStr) > maxErrorBody {
		bodyStr = bodyStr[:maxErrorBody] + "..."
	}
	apiErr.Body = bodyStr
	return apiErr
}
