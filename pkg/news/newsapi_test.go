package news

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"headlines/internal/model"
	"headlines/pkg/httpclient"

	"github.com/go-playground/assert/v2"
)

func TestQueryEncode(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  string
	}{
		{
			name:  "by source",
			query: Query{Sources: "the-irish-times"},
			want:  "sources=the-irish-times&apiKey=fake-key",
		},
		{
			name:  "by country and category",
			query: Query{Country: "ie", Category: "business"},
			want:  "country=ie&category=business&apiKey=fake-key",
		},
		{
			name:  "source wins over category",
			query: Query{Sources: "rte", Category: "sports"},
			want:  "sources=rte&apiKey=fake-key",
		},
		{
			name:  "country only",
			query: Query{Country: "gb"},
			want:  "country=gb&apiKey=fake-key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.query.Encode("fake-key"))
		})
	}
}

func TestQueryEncodeEscapes(t *testing.T) {
	q := Query{Sources: "a b&c"}
	assert.Equal(t, "sources=a+b%26c&apiKey=k%3D1", q.Encode("k=1"))
}

func TestQueryEncodeEmptyKey(t *testing.T) {
	q := Query{Country: "ie", Category: "business"}
	assert.Equal(t, "country=ie&category=business&apiKey=", q.Encode(""))
}

func TestQueryRedacted(t *testing.T) {
	assert.Equal(t, "sources=the-irish-times", Query{Sources: "the-irish-times"}.Redacted())
	assert.Equal(t, "country=ie&category=business", Query{Country: "ie", Category: "business"}.Redacted())
}

func TestURL(t *testing.T) {
	c := NewNewsAPIClient()
	assert.Equal(t,
		"https://newsapi.org/v2/top-headlines?sources=the-irish-times&apiKey=fake-key",
		c.URL(Query{Sources: "the-irish-times"}, "fake-key"),
	)

	c = NewNewsAPIClient(WithBaseURL("http://localhost:9999/v2/"))
	assert.Equal(t,
		"http://localhost:9999/v2/top-headlines?country=ie&category=business&apiKey=fake-key",
		c.URL(Query{Country: "ie", Category: "business"}, "fake-key"),
	)
}

func newTestServer(t *testing.T, status int, payload any, gotQuery *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gotQuery != nil {
			*gotQuery = r.URL.Path + "?" + r.URL.RawQuery
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(payload)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTopHeadlines(t *testing.T) {
	payload := map[string]interface{}{
		"status":       "ok",
		"totalResults": 2,
		"articles": []map[string]interface{}{
			{
				"source":      map[string]interface{}{"id": "the-irish-times", "name": "The Irish Times"},
				"title":       "Budget day arrives",
				"url":         "https://example.com/budget",
				"publishedAt": "2026-10-08T09:00:00Z",
			},
			{
				"source": map[string]interface{}{"id": "the-irish-times", "name": "The Irish Times"},
				"title":  "Storm warning issued",
				"url":    "https://example.com/storm",
			},
		},
	}

	var gotQuery string
	srv := newTestServer(t, http.StatusOK, payload, &gotQuery)

	client := NewNewsAPIClient(WithBaseURL(srv.URL + "/v2"))
	res, err := client.TopHeadlines(context.Background(), Query{Sources: "the-irish-times"}, "test-key")

	assert.Equal(t, nil, err)
	assert.Equal(t, "/v2/top-headlines?sources=the-irish-times&apiKey=test-key", gotQuery)
	assert.Equal(t, "ok", res.Status)
	assert.Equal(t, 2, res.TotalResults)
	assert.Equal(t, http.StatusOK, res.HTTPStatus)
	assert.Equal(t, 2, len(res.Articles))
	assert.Equal(t, "Budget day arrives", res.Articles[0].Title())
	assert.Equal(t, "Storm warning issued", res.Articles[1].Title())
	assert.Equal(t, "The Irish Times", res.Articles[0].SourceName())
	assert.NotEqual(t, 0, len(res.Raw))
}

func TestTopHeadlinesNonOKDecodedAsSuccess(t *testing.T) {
	payload := map[string]interface{}{
		"status":  "error",
		"code":    "apiKeyMissing",
		"message": "Your API key is missing.",
	}
	srv := newTestServer(t, http.StatusUnauthorized, payload, nil)

	client := NewNewsAPIClient(WithBaseURL(srv.URL))
	res, err := client.TopHeadlines(context.Background(), Query{Country: "ie", Category: "business"}, "")

	assert.Equal(t, nil, err)
	assert.Equal(t, "error", res.Status)
	assert.Equal(t, "apiKeyMissing", res.Code)
	assert.Equal(t, http.StatusUnauthorized, res.HTTPStatus)
	assert.Equal(t, true, res.Articles == nil)
}

func TestTopHeadlinesStrict(t *testing.T) {
	payload := map[string]interface{}{
		"status":  "error",
		"code":    "apiKeyInvalid",
		"message": "Your API key is invalid.",
	}
	srv := newTestServer(t, http.StatusUnauthorized, payload, nil)

	client := NewNewsAPIClient(WithBaseURL(srv.URL), WithStrict(true))
	res, err := client.TopHeadlines(context.Background(), Query{Sources: "the-irish-times"}, "bad")

	assert.Equal(t, true, res == nil)

	var apiErr *APIError
	assert.Equal(t, true, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.HTTPStatus)
	assert.Equal(t, "apiKeyInvalid", apiErr.Code)
	assert.Equal(t, "newsapi status 401: apiKeyInvalid: Your API key is invalid.", err.Error())
}

func TestTopHeadlinesStrictErrorPayloadWith200(t *testing.T) {
	payload := map[string]interface{}{"status": "error", "code": "unexpectedError", "message": "boom"}
	srv := newTestServer(t, http.StatusOK, payload, nil)

	client := NewNewsAPIClient(WithBaseURL(srv.URL), WithStrict(true))
	_, err := client.TopHeadlines(context.Background(), Query{Sources: "x"}, "k")

	var apiErr *APIError
	assert.Equal(t, true, errors.As(err, &apiErr))
	assert.Equal(t, "unexpectedError", apiErr.Code)
}

func newRawServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTopHeadlinesMalformedBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "html", body: "<html>gateway timeout</html>"},
		{name: "empty", body: ""},
		{name: "trailing data", body: `{"status":"ok","articles":[{"title":"A"}]}<html>oops</html>`},
		{name: "two values", body: `{"status":"ok"} {"status":"ok"}`},
		{name: "null", body: "null"},
		{name: "articles not a list", body: `{"status":"ok","articles":"none"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newRawServer(t, http.StatusOK, tt.body)

			client := NewNewsAPIClient(WithBaseURL(srv.URL))
			res, err := client.TopHeadlines(context.Background(), Query{Sources: "x"}, "k")

			assert.Equal(t, true, res == nil)
			assert.NotEqual(t, nil, err)
			assert.MatchRegex(t, err.Error(), "^newsapi decode: ")
		})
	}
}

func TestTopHeadlinesLenientEnvelope(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantTotal int
		wantCount int
		wantNil   bool
	}{
		{name: "string total", body: `{"status":"ok","totalResults":"5","articles":[]}`, wantTotal: 5},
		{name: "numeric status", body: `{"status":7,"totalResults":3,"articles":[{"title":"A"}]}`, wantTotal: 3, wantCount: 1},
		{name: "object total", body: `{"totalResults":{},"articles":[{"title":"A"},{"title":"B"}]}`, wantCount: 2},
		{name: "top-level list", body: `[{"title":"A"}]`, wantNil: true},
		{name: "padded", body: "  \n{\"articles\":null}\n", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newRawServer(t, http.StatusOK, tt.body)

			client := NewNewsAPIClient(WithBaseURL(srv.URL))
			res, err := client.TopHeadlines(context.Background(), Query{Sources: "x"}, "k")

			assert.Equal(t, nil, err)
			assert.Equal(t, tt.wantTotal, res.TotalResults)
			assert.Equal(t, tt.wantCount, len(res.Articles))
			assert.Equal(t, tt.wantNil, res.Articles == nil)
		})
	}
}

func TestTopHeadlinesStrictNonJSONError(t *testing.T) {
	srv := newRawServer(t, http.StatusBadGateway, "<html>bad gateway</html>")

	client := NewNewsAPIClient(WithBaseURL(srv.URL), WithStrict(true))
	_, err := client.TopHeadlines(context.Background(), Query{Sources: "x"}, "k")

	var apiErr *APIError
	assert.Equal(t, true, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.HTTPStatus)
	assert.Equal(t, "newsapi status 502", err.Error())
}

type failingHTTPClient struct {
	err error
}

func (f *failingHTTPClient) Get(ctx context.Context, url string, headers map[string]string) (httpclient.Response, error) {
	return nil, f.err
}

func (f *failingHTTPClient) Send(ctx context.Context, method, url string, headers map[string]string, body []byte) (httpclient.Response, error) {
	return nil, f.err
}

func TestTopHeadlinesTransportError(t *testing.T) {
	boom := errors.New("connection refused")
	client := NewNewsAPIClient(WithHTTPClient(&failingHTTPClient{err: boom}))

	res, err := client.TopHeadlines(context.Background(), Query{Sources: "x"}, "k")

	assert.Equal(t, true, res == nil)
	assert.Equal(t, true, errors.Is(err, boom))
}

func TestArticlesKeepUnknownFields(t *testing.T) {
	payload := map[string]interface{}{
		"status": "ok",
		"articles": []map[string]interface{}{
			{"title": "A", "custom": "kept", "rank": 3},
		},
	}
	srv := newTestServer(t, http.StatusOK, payload, nil)

	client := NewNewsAPIClient(WithBaseURL(srv.URL))
	res, err := client.TopHeadlines(context.Background(), Query{Sources: "x"}, "k")

	assert.Equal(t, nil, err)
	assert.Equal(t, model.Article{"title": "A", "custom": "kept", "rank": float64(3)}, res.Articles[0])
}
