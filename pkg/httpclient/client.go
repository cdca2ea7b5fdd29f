package httpclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const userAgent = "headlines/1.0"

// Response is the subset of a resty response callers rely on.
type Response interface {
	StatusCode() int
	Body() []byte
}

// Client issues outbound requests. Status codes are never turned into errors;
// callers decide what a non-2xx response means.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
	Send(ctx context.Context, method, url string, headers map[string]string, body []byte) (Response, error)
}

type RestyClient struct {
	client *resty.Client
}

func NewRestyClient(timeout time.Duration) *RestyClient {
	c := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent)
	return &RestyClient{client: c}
}

func (c *RestyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeaders(headers).
		Get(url)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *RestyClient) Send(ctx context.Context, method, url string, headers map[string]string, body []byte) (Response, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeaders(headers).
		SetBody(body).
		Execute(method, url)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	return resp, nil
}
