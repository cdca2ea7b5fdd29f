package news

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"headlines/pkg/httpclient"
)

const (
	DefaultBaseURL = "https://newsapi.org/v2"
	DefaultTimeout = 30 * time.Second
)

// APIError is returned in strict mode for non-2xx responses and error payloads.
type APIError struct {
	HTTPStatus int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" && e.Message == "" {
		return fmt.Sprintf("newsapi status %d", e.HTTPStatus)
	}
	return fmt.Sprintf("newsapi status %d: %s: %s", e.HTTPStatus, e.Code, e.Message)
}

type NewsAPIClient struct {
	baseURL    string
	strict     bool
	timeout    time.Duration
	httpClient httpclient.Client
}

type Option func(*NewsAPIClient)

func WithBaseURL(base string) Option {
	return func(c *NewsAPIClient) {
		if base = strings.TrimRight(strings.TrimSpace(base), "/"); base != "" {
			c.baseURL = base
		}
	}
}

// WithStrict makes non-2xx responses and "status":"error" payloads fail with
// *APIError instead of being decoded as success.
func WithStrict(strict bool) Option {
	return func(c *NewsAPIClient) { c.strict = strict }
}

// WithTimeout bounds each request made by the default transport.
func WithTimeout(timeout time.Duration) Option {
	return func(c *NewsAPIClient) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

func WithHTTPClient(client httpclient.Client) Option {
	return func(c *NewsAPIClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func NewNewsAPIClient(opts ...Option) *NewsAPIClient {
	c := &NewsAPIClient{baseURL: DefaultBaseURL, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = httpclient.NewRestyClient(c.timeout)
	}
	return c
}

func (c *NewsAPIClient) Name() string {
	return "NewsAPI"
}

func (c *NewsAPIClient) URL(q Query, apiKey string) string {
	return fmt.Sprintf("%s/top-headlines?%s", c.baseURL, q.Encode(apiKey))
}

func (c *NewsAPIClient) TopHeadlines(ctx context.Context, q Query, apiKey string) (*TopHeadlines, error) {
	resp, err := c.httpClient.Get(ctx, c.URL(q, apiKey), map[string]string{"Accept": "application/json"})
	if err != nil {
		return nil, fmt.Errorf("newsapi fetch: %w", err)
	}

	body := resp.Body()
	if c.strict && (resp.StatusCode() < 200 || resp.StatusCode() > 299) {
		return nil, decodeAPIError(resp.StatusCode(), body)
	}

	res, err := decodeTopHeadlines(body)
	if err != nil {
		return nil, fmt.Errorf("newsapi decode: %w", err)
	}
	res.HTTPStatus = resp.StatusCode()
	res.Raw = json.RawMessage(body)

	if c.strict && res.Status == "error" {
		return nil, &APIError{HTTPStatus: res.HTTPStatus, Code: res.Code, Message: res.Message}
	}

	return res, nil
}

// decodeTopHeadlines requires the whole body to be one JSON value. Only
// articles is decoded strictly; the envelope fields are read leniently so an
// odd status or totalResults never hides the articles.
func decodeTopHeadlines(body []byte) (*TopHeadlines, error) {
	var top json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, err
	}

	top = bytes.TrimSpace(top)
	if bytes.Equal(top, []byte("null")) {
		return nil, errors.New("payload is null")
	}

	res := &TopHeadlines{}
	if top[0] != '{' {
		return res, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(top, &fields); err != nil {
		return nil, err
	}

	if raw, ok := fields["articles"]; ok {
		if err := json.Unmarshal(raw, &res.Articles); err != nil {
			return nil, fmt.Errorf("articles: %w", err)
		}
	}
	res.Status = lenientString(fields["status"])
	res.Code = lenientString(fields["code"])
	res.Message = lenientString(fields["message"])
	res.TotalResults = lenientInt(fields["totalResults"])
	return res, nil
}

func lenientString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func lenientInt(raw json.RawMessage) int {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return int(n)
	}
	if i, err := strconv.Atoi(strings.TrimSpace(lenientString(raw))); err == nil {
		return i
	}
	return 0
}

func decodeAPIError(status int, body []byte) error {
	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.Warn("newsapi error body is not JSON", "http_status", status, "error", err)
	}
	return &APIError{HTTPStatus: status, Code: payload.Code, Message: payload.Message}
}
