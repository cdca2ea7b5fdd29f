package trace

import (
	"encoding/json"
	"time"

	"headlines/internal/loader"

	"github.com/google/uuid"
)

// Event is the trace of one upstream fetch as delivered to sinks.
type Event struct {
	ID           string          `json:"id"`
	Route        string          `json:"route"`
	Query        string          `json:"query"`
	HTTPStatus   int             `json:"http_status"`
	APIStatus    string          `json:"api_status"`
	TotalResults int             `json:"total_results"`
	ArticleCount int             `json:"article_count"`
	FetchedAt    time.Time       `json:"fetched_at"`
	Payload      json.RawMessage `json:"payload,omitempty"`
}

func NewEvent(rec loader.TraceRecord) Event {
	evt := Event{
		ID:           uuid.NewString(),
		Route:        rec.Route,
		Query:        rec.Query,
		HTTPStatus:   rec.HTTPStatus,
		APIStatus:    rec.APIStatus,
		TotalResults: rec.TotalResults,
		ArticleCount: rec.ArticleCount,
		FetchedAt:    rec.FetchedAt,
	}
	if json.Valid(rec.Payload) {
		evt.Payload = json.RawMessage(rec.Payload)
	}
	return evt
}
