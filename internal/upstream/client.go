// Package upstream is the outbound client for the matrimony REST API.
// All business logic (authentication, search ranking, persistence) lives
// behind that API; this package only shapes requests and decodes the
// response envelope into typed results.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bandhanmatch/bandhan-web/internal/domain"
)

const (
	// PictureField is the multipart form field the upload endpoint expects.
	PictureField = "profileImage"

	// adminMarkerHeader tags requests issued through the admin client.
	adminMarkerHeader = "X-Admin-Request"
)

// Client is a configured outbound HTTP client for the upstream API:
// fixed base URL, fixed timeout, no retries, no response caching.
// Every request passes through decorate, which attaches the bearer token
// supplied for that call and defaults the Content-Type to JSON unless the
// caller already set one (multipart bodies set their own).
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for user-facing calls.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// NewAdmin creates the separately configured admin instance. It carries no
// bearer token; instead every request is marked with X-Admin-Request.
func NewAdmin(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: adminTransport{base: http.DefaultTransport},
		},
	}
}

type adminTransport struct {
	base http.RoundTripper
}

func (t adminTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set(adminMarkerHeader, "true")
	return t.base.RoundTrip(req)
}

// FieldError is one field-level validation error from the upstream envelope.
type FieldError struct {
	Param string `json:"param"`
	Msg   string `json:"msg"`
}

// APIError is a non-success response from the upstream API. Transport and
// timeout failures are NOT APIErrors; they surface as wrapped plain errors
// so callers can tell a rejected request from an unreachable server.
type APIError struct {
	Status  int
	Message string
	Fields  []FieldError
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("upstream request failed with status %d", e.Status)
}

// Unauthorized reports whether the API explicitly rejected the caller's
// credentials. Only these responses may evict a stored session token.
func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// IsUnauthorized reports whether err is an explicit 401/403 API rejection.
func IsUnauthorized(err error) bool {
	apiErr := AsAPIError(err)
	return apiErr != nil && apiErr.Unauthorized()
}

// AsAPIError unwraps err to an *APIError, or nil if it is a transport-level
// failure rather than an API response.
func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}

// envelope mirrors the upstream response shape:
// {success, message?, user?, token?, filePath?, results?, total?, page?,
// limit?, totalPages?, errors?: [{param, msg}]}.
type envelope struct {
	Success    bool          `json:"success"`
	Message    string        `json:"message"`
	Token      string        `json:"token"`
	User       *domain.User  `json:"user"`
	FilePath   string        `json:"filePath"`
	Results    []domain.User `json:"results"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"totalPages"`
	Errors     []FieldError  `json:"errors"`

	// admin stats payload
	TotalUsers  int           `json:"totalUsers"`
	RecentUsers []domain.User `json:"recentUsers"`
}

// request describes one outbound call before decoration.
type request struct {
	method      string
	path        string
	query       url.Values
	token       string
	body        io.Reader
	contentType string
}

// do issues the request and decodes the body into an envelope. A non-2xx
// status or success=false becomes an *APIError; anything below HTTP level
// (DNS, refused connection, timeout) is returned wrapped.
func (c *Client) do(ctx context.Context, r request) (*envelope, error) {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, r.body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	c.decorate(req, r)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			Status:  resp.StatusCode,
			Message: env.Message,
			Fields:  env.Errors,
		}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("failed to decode upstream response: %w", decodeErr)
	}
	if !env.Success {
		return nil, &APIError{
			Status:  resp.StatusCode,
			Message: env.Message,
			Fields:  env.Errors,
		}
	}
	return &env, nil
}

// decorate applies the uniform request policy: bearer token when one was
// supplied for this call, and a JSON Content-Type default when the caller
// did not set its own.
func (c *Client) decorate(req *http.Request, r request) {
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	} else if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
}

func jsonBody(v interface{}) (io.Reader, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return bytes.NewReader(data), nil
}
