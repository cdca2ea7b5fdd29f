package model

const (
	PageKindSource   = "source"
	PageKindCategory = "category"

	KeyChannelServer = "server"
	KeyChannelClient = "client"
)

// Page declares one routed news page.
type Page struct {
	Route      string `json:"route" yaml:"route"`
	Title      string `json:"title" yaml:"title"`
	Kind       string `json:"kind" yaml:"kind"`
	Source     string `json:"source" yaml:"source"`
	Country    string `json:"country" yaml:"country"`
	Category   string `json:"category" yaml:"category"`
	KeyChannel string `json:"key_channel" yaml:"key_channel"`
	Enabled    *bool  `json:"enabled" yaml:"enabled"`
}

// EnabledValue returns the enabled flag defaulting to true.
func (p Page) EnabledValue() bool {
	if p.Enabled == nil {
		return true
	}
	return *p.Enabled
}
