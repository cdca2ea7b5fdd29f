package news

import (
	"net/url"
	"strings"
)

// Query selects top headlines either by source or by country and category.
type Query struct {
	Sources  string
	Country  string
	Category string
}

// Encode builds the query string in a fixed parameter order:
// sources, or country then category, then apiKey.
func (q Query) Encode(apiKey string) string {
	var parts []string
	if q.Sources != "" {
		parts = append(parts, "sources="+url.QueryEscape(q.Sources))
	} else {
		if q.Country != "" {
			parts = append(parts, "country="+url.QueryEscape(q.Country))
		}
		if q.Category != "" {
			parts = append(parts, "category="+url.QueryEscape(q.Category))
		}
	}
	parts = append(parts, "apiKey="+url.QueryEscape(apiKey))
	return strings.Join(parts, "&")
}

// Redacted is Encode without the key, for logs and traces.
func (q Query) Redacted() string {
	return strings.TrimSuffix(q.Encode(""), "&apiKey=")
}
