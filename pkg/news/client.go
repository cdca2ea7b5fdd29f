package news

import (
	"context"
	"encoding/json"

	"headlines/internal/model"
)

// TopHeadlines is the decoded top-headlines payload. Articles stays nil when
// the payload has no articles field.
type TopHeadlines struct {
	Status       string          `json:"status"`
	TotalResults int             `json:"totalResults"`
	Code         string          `json:"code,omitempty"`
	Message      string          `json:"message,omitempty"`
	Articles     []model.Article `json:"articles"`

	HTTPStatus int             `json:"-"`
	Raw        json.RawMessage `json:"-"`
}

type NewsClient interface {
	TopHeadlines(ctx context.Context, q Query, apiKey string) (*TopHeadlines, error)
	Name() string
}
