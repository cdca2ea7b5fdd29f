package trace

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"headlines/pkg/httpclient"
)

type httpSink struct {
	id      string
	url     string
	method  string
	headers map[string]string
	client  httpclient.Client
}

func newHTTPSink(ctx context.Context, cfg SinkConfig) (Sink, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("sink %q missing http configuration", cfg.ID)
	}

	timeout := time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second
	return newHTTPSinkWithClient(cfg, httpclient.NewRestyClient(timeout)), nil
}

func newHTTPSinkWithClient(cfg SinkConfig, client httpclient.Client) *httpSink {
	headers := map[string]string{"Content-Type": "application/json"}
	for k, v := range cfg.HTTP.Headers {
		headers[k] = v
	}
	return &httpSink{
		id:      cfg.ID,
		url:     cfg.HTTP.URL,
		method:  cfg.HTTP.Method,
		headers: headers,
		client:  client,
	}
}

func (s *httpSink) ID() string   { return s.id }
func (s *httpSink) Type() string { return TypeHTTP }
func (s *httpSink) Close() error { return nil }

func (s *httpSink) Publish(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	resp, err := s.client.Send(ctx, s.method, s.url, s.headers, payload)
	if err != nil {
		return fmt.Errorf("http sink send: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return fmt.Errorf("http sink returned status %d body: %s", resp.StatusCode(), snippet(resp.Body()))
	}
	return nil
}

func snippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
