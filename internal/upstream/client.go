package upstream

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

	"github.com/fikertekiflu/hospital/pkg/logger"
	"github.com/fikertekiflu/hospital/pkg/monitoring"
)

// GenericFailureMessage is surfaced when the API server rejects a call
// without a readable message body
const GenericFailureMessage = "The request could not be completed. Please try again."

// TokenSource supplies the bearer token for authenticated calls; the session
// store is the only implementation in the portal
type TokenSource interface {
	Token() string
}

// APIError carries the server's error response; Message is surfaced to the
// user verbatim when the server provided one
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// IsAuthFailure reports whether the error is an authentication rejection
func (e *APIError) IsAuthFailure() bool {
	return e.Status == http.StatusUnauthorized
}

// Client is the shared HTTP core under every resource client
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *logger.Logger
}

// NewClient creates the shared upstream client
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, log *logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		logger:     log,
	}
}

// BaseURL returns the configured upstream base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// TokenSourceFunc adapts a function to TokenSource
type TokenSourceFunc func() string

// Token implements TokenSource
func (f TokenSourceFunc) Token() string { return f() }

// StaticToken is a fixed-token TokenSource
type StaticToken string

// Token implements TokenSource
func (t StaticToken) Token() string { return string(t) }

// WithToken returns a shallow copy of the client bound to a fixed token;
// used to revoke a token after the session store has already been cleared
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.tokens = StaticToken(token)
	return &clone
}

// get performs an authenticated GET and decodes the response into out
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// post performs an authenticated POST with a JSON body
func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// put performs an authenticated PUT with a JSON body
func (c *Client) put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

// delete performs an authenticated DELETE
func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	elapsed := time.Since(start)
	c.logger.UpstreamCall(ctx, method, path, resp.StatusCode, elapsed.Milliseconds())
	monitoring.RecordUpstreamCall(method, resourceFromPath(path), resp.StatusCode, elapsed)

	if resp.StatusCode >= 400 {
		return c.decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// resourceFromPath keeps metric labels bounded: "/patients/p1" counts under
// "patients", not under its id
func resourceFromPath(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		return trimmed[:i]
	}
	return trimmed
}

// decodeError extracts the server's message field; an unreadable body falls
// back to the generic failure string
func (c *Client) decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil && len(raw) > 0 {
		var body struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &body) == nil && body.Message != "" {
			apiErr.Message = body.Message
		}
	}

	if apiErr.Message == "" {
		apiErr.Message = GenericFailureMessage
	}

	return apiErr
}

// ErrorMessage returns the user-facing message for a failed upstream call
func ErrorMessage(err error) string {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.Message
	}
	return GenericFailureMessage
}
