package model

// Article is an opaque record as returned by the news API. Fields are kept
// exactly as received; the accessors below are read-only views for templates.
type Article map[string]any

func (a Article) str(key string) string {
	if v, ok := a[key].(string); ok {
		return v
	}
	return ""
}

func (a Article) Title() string       { return a.str("title") }
func (a Article) Description() string { return a.str("description") }
func (a Article) URL() string         { return a.str("url") }
func (a Article) ImageURL() string    { return a.str("urlToImage") }
func (a Article) Author() string      { return a.str("author") }
func (a Article) PublishedAt() string { return a.str("publishedAt") }

func (a Article) SourceName() string {
	src, ok := a["source"].(map[string]any)
	if !ok {
		return ""
	}
	if name, ok := src["name"].(string); ok {
		return name
	}
	return ""
}

// PageData is what a loader hands to the renderer. Articles is nil when the
// upstream payload carried no articles field.
type PageData struct {
	Articles []Article `json:"articles"`

	Title        string `json:"-"`
	Route        string `json:"-"`
	TotalResults int    `json:"-"`
}
