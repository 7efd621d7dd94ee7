// Package api provides the HTTP request client shared by all backends.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/taskchain/pmq/internal/observability"
	"github.com/taskchain/pmq/internal/output"
	"github.com/taskchain/pmq/internal/version"
)

// HeaderFunc produces the auth headers for one request. It is called on
// every send so a token rotated mid-session takes effect without
// rebuilding the client.
type HeaderFunc func() (map[string]string, error)

// Client is an HTTP client that speaks to one configured backend origin.
// Requests are sent exactly once; failures surface immediately as
// normalized *output.Error values and retry policy is left to the caller.
type Client struct {
	httpClient *http.Client
	baseURL    string
	backend    string
	headers    HeaderFunc
	hooks      observability.Hooks
}

// Response wraps a successful backend response.
type Response struct {
	Data       json.RawMessage
	StatusCode int
	Headers    http.Header
}

// UnmarshalData unmarshals the response data into the given value.
func (r *Response) UnmarshalData(v any) error {
	return json.Unmarshal(r.Data, v)
}

// NewClient creates a client for the given origin. timeout is in seconds;
// zero falls back to 30.
func NewClient(baseURL, backend string, timeout int, headers HeaderFunc) *Client {
	if timeout <= 0 {
		timeout = 30
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		backend: backend,
		headers: headers,
	}
}

// SetHooks installs observability hooks for request-level tracing.
func (c *Client) SetHooks(h observability.Hooks) {
	c.hooks = h
}

// Get performs a GET request with optional query parameters.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, query, nil)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, nil, body)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, nil, body)
}

// Do builds, sends, and normalizes a single request. Every failure mode
// resolves to *output.Error so callers never inspect raw HTTP state.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (*Response, error) {
	reqURL := c.buildURL(path, query)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
		bodyReader = strings.NewReader(string(bodyBytes))
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return nil, err
	}

	headers, err := c.headers()
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	info := observability.RequestInfo{Method: method, URL: reqURL, Backend: c.backend}
	if c.hooks != nil {
		c.hooks.OnRequestStart(info)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		netErr := output.ErrNetwork(err)
		if c.hooks != nil {
			c.hooks.OnRequestEnd(info, observability.RequestResult{Duration: duration, Error: netErr})
		}
		return nil, netErr
	}
	defer resp.Body.Close()

	if c.hooks != nil {
		c.hooks.OnRequestEnd(info, observability.RequestResult{StatusCode: resp.StatusCode, Duration: duration})
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}
		return &Response{
			Data:       unwrapData(respBody),
			StatusCode: resp.StatusCode,
			Headers:    resp.Header,
		}, nil
	}

	respBody, _ := io.ReadAll(resp.Body)
	return nil, normalizeError(resp, respBody, path)
}

// unwrapData strips a {"data": ...} envelope when the backend uses one,
// so callers always see the payload itself.
func unwrapData(body []byte) json.RawMessage {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 {
		return envelope.Data
	}
	return body
}

// errorBody is the union of error shapes the supported backends return.
type errorBody struct {
	Error    string `json:"error"`
	Message  string `json:"message"`
	Detail   string `json:"detail"`
	Errors   []any  `json:"errors"`
	Messages []any  `json:"errorMessages"`
}

func normalizeError(resp *http.Response, body []byte, path string) *output.Error {
	msg, fields := parseErrorBody(body)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		apiErr := output.ErrAuth("Authentication failed")
		apiErr.HTTPStatus = resp.StatusCode
		return apiErr

	case http.StatusForbidden:
		return output.ErrForbidden("Access denied")

	case http.StatusNotFound:
		return output.ErrNotFound("Resource", path)

	case http.StatusTooManyRequests:
		return output.ErrRateLimit(parseRetryAfter(resp.Header.Get("Retry-After")))

	default:
		if msg == "" {
			msg = fmt.Sprintf("Request failed (HTTP %d)", resp.StatusCode)
		}
		apiErr := output.ErrAPI(resp.StatusCode, msg)
		apiErr.FieldErrors = fields
		return apiErr
	}
}

// parseErrorBody extracts a human message and any field-level errors from
// a backend error response. Entries may be plain strings, {field, message}
// objects, or a Jira-style map of field names to messages.
func parseErrorBody(body []byte) (string, []output.FieldError) {
	var parsed errorBody
	if json.Unmarshal(body, &parsed) != nil {
		return "", nil
	}

	msg := parsed.Error
	if msg == "" {
		msg = parsed.Message
	}
	if msg == "" {
		msg = parsed.Detail
	}
	if msg == "" && len(parsed.Messages) > 0 {
		if s, ok := parsed.Messages[0].(string); ok {
			msg = s
		}
	}

	var fields []output.FieldError
	for _, entry := range parsed.Errors {
		switch v := entry.(type) {
		case string:
			fields = append(fields, output.FieldError{Message: v})
		case map[string]any:
			if f, ok := v["field"].(string); ok {
				m, _ := v["message"].(string)
				fields = append(fields, output.FieldError{Field: f, Message: m})
				continue
			}
			for field, fmsg := range v {
				if s, ok := fmsg.(string); ok {
					fields = append(fields, output.FieldError{Field: field, Message: s})
				}
			}
		}
	}
	return msg, fields
}

func (c *Client) buildURL(path string, query url.Values) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// parseRetryAfter parses the Retry-After header value.
func parseRetryAfter(header string) int {
	if header == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return seconds
	}
	return 0
}
