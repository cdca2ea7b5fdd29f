package loader

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"headlines/internal/model"
	"headlines/pkg/news"
)

// PageContext carries what the router knows about the request being served.
type PageContext struct {
	Route  string
	Params map[string]string
	Query  url.Values
}

// Loader produces the data a page needs before it renders.
type Loader interface {
	LoadPageData(ctx context.Context, pc PageContext) (model.PageData, error)
}

// Tracer receives every decoded upstream payload.
type Tracer interface {
	Trace(ctx context.Context, rec TraceRecord)
}

type TraceRecord struct {
	Route        string
	Query        string
	HTTPStatus   int
	APIStatus    string
	TotalResults int
	ArticleCount int
	FetchedAt    time.Time
	Payload      []byte
}

type nopTracer struct{}

func (nopTracer) Trace(context.Context, TraceRecord) {}

// Keys holds the API key for each exposure channel. Server is a secret that
// never leaves the process; Client is the build-time key a browser could see.
type Keys struct {
	Server string
	Client string
}

func (k Keys) For(channel string) (string, error) {
	switch channel {
	case model.KeyChannelServer:
		return k.Server, nil
	case model.KeyChannelClient:
		return k.Client, nil
	default:
		return "", fmt.Errorf("unknown key channel %q", channel)
	}
}

// HeadlinesLoader fetches top headlines for one fixed query.
type HeadlinesLoader struct {
	page   model.Page
	query  news.Query
	apiKey string
	client news.NewsClient
	tracer Tracer
}

func newHeadlinesLoader(page model.Page, query news.Query, apiKey string, client news.NewsClient, tracer Tracer) *HeadlinesLoader {
	if tracer == nil {
		tracer = nopTracer{}
	}
	return &HeadlinesLoader{
		page:   page,
		query:  query,
		apiKey: apiKey,
		client: client,
		tracer: tracer,
	}
}

// NewSourceLoader loads top headlines from a single news source.
func NewSourceLoader(page model.Page, apiKey string, client news.NewsClient, tracer Tracer) *HeadlinesLoader {
	return newHeadlinesLoader(page, news.Query{Sources: page.Source}, apiKey, client, tracer)
}

// NewCategoryLoader loads top headlines for a country and category.
func NewCategoryLoader(page model.Page, apiKey string, client news.NewsClient, tracer Tracer) *HeadlinesLoader {
	return newHeadlinesLoader(page, news.Query{Country: page.Country, Category: page.Category}, apiKey, client, tracer)
}

func (l *HeadlinesLoader) Page() model.Page { return l.page }

func (l *HeadlinesLoader) Query() news.Query { return l.query }

func (l *HeadlinesLoader) LoadPageData(ctx context.Context, pc PageContext) (model.PageData, error) {
	res, err := l.client.TopHeadlines(ctx, l.query, l.apiKey)
	if err != nil {
		return model.PageData{}, fmt.Errorf("load %s: %w", l.page.Route, err)
	}

	l.tracer.Trace(ctx, TraceRecord{
		Route:        l.page.Route,
		Query:        l.query.Redacted(),
		HTTPStatus:   res.HTTPStatus,
		APIStatus:    res.Status,
		TotalResults: res.TotalResults,
		ArticleCount: len(res.Articles),
		FetchedAt:    time.Now().UTC(),
		Payload:      res.Raw,
	})

	return model.PageData{
		Articles:     res.Articles,
		Title:        l.page.Title,
		Route:        l.page.Route,
		TotalResults: res.TotalResults,
	}, nil
}
