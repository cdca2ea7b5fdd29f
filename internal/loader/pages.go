package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"headlines/internal/model"
	"headlines/pkg/news"

	"gopkg.in/yaml.v3"
)

// pagesFile represents the structure of the pages configuration file.
type pagesFile struct {
	Pages []model.Page `json:"pages" yaml:"pages"`
}

// DefaultPages are the Irish Times front page and Irish business news.
func DefaultPages() []model.Page {
	return []model.Page{
		{
			Route:      "/",
			Title:      "The Irish Times",
			Kind:       model.PageKindSource,
			Source:     "the-irish-times",
			KeyChannel: model.KeyChannelServer,
		},
		{
			Route:      "/business",
			Title:      "Business",
			Kind:       model.PageKindCategory,
			Country:    "ie",
			Category:   "business",
			KeyChannel: model.KeyChannelClient,
		},
	}
}

// LoadPages reads page definitions from a YAML or JSON file. An empty path
// returns DefaultPages.
func LoadPages(path string) ([]model.Page, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return NormalizePages(DefaultPages())
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pages file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read pages file: %w", err)
	}

	expanded := []byte(os.ExpandEnv(string(raw)))

	parsed, err := parsePagesFile(expanded, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(parsed.Pages) == 0 {
		return nil, errors.New("pages file contains no pages entries")
	}

	return NormalizePages(parsed.Pages)
}

// NormalizePages sanitizes and validates page definitions.
func NormalizePages(pages []model.Page) ([]model.Page, error) {
	out := make([]model.Page, len(pages))
	seen := make(map[string]struct{}, len(pages))

	for i := range pages {
		p := sanitizePage(pages[i])
		if err := validatePage(p); err != nil {
			return nil, fmt.Errorf("pages[%d]: %w", i, err)
		}
		if _, exists := seen[p.Route]; exists {
			return nil, fmt.Errorf("duplicate page route %q", p.Route)
		}
		seen[p.Route] = struct{}{}
		out[i] = p
	}
	return out, nil
}

func parsePagesFile(data []byte, ext string) (pagesFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var parsed pagesFile
		err := d.fn(data, &parsed)
		if err == nil {
			return parsed, nil
		}
		if ext != "" {
			return pagesFile{}, fmt.Errorf("parse pages file as %s: %w", d.name, err)
		}
	}

	return pagesFile{}, errors.New("pages file format not recognized (expected YAML or JSON)")
}

func sanitizePage(p model.Page) model.Page {
	p.Route = strings.TrimSpace(p.Route)
	if len(p.Route) > 1 {
		p.Route = strings.TrimRight(p.Route, "/")
	}
	p.Title = strings.TrimSpace(p.Title)
	p.Kind = strings.ToLower(strings.TrimSpace(p.Kind))
	p.Source = strings.TrimSpace(p.Source)
	p.Country = strings.ToLower(strings.TrimSpace(p.Country))
	p.Category = strings.ToLower(strings.TrimSpace(p.Category))
	p.KeyChannel = strings.ToLower(strings.TrimSpace(p.KeyChannel))

	if p.Enabled == nil {
		def := true
		p.Enabled = &def
	}
	if p.KeyChannel == "" {
		switch p.Kind {
		case model.PageKindSource:
			p.KeyChannel = model.KeyChannelServer
		case model.PageKindCategory:
			p.KeyChannel = model.KeyChannelClient
		}
	}
	return p
}

func validatePage(p model.Page) error {
	if p.Route == "" {
		return errors.New("route is required")
	}
	if !strings.HasPrefix(p.Route, "/") {
		return fmt.Errorf("route %q must start with /", p.Route)
	}
	if strings.HasSuffix(p.Route, dataSuffix) {
		return fmt.Errorf("route %q collides with the data endpoint", p.Route)
	}
	if p.Route == healthRoute {
		return fmt.Errorf("route %q is reserved", p.Route)
	}

	switch p.Kind {
	case model.PageKindSource:
		if p.Source == "" {
			return fmt.Errorf("source is required for page %q", p.Route)
		}
		if p.Country != "" || p.Category != "" {
			return fmt.Errorf("page %q cannot mix source with country or category", p.Route)
		}
	case model.PageKindCategory:
		if p.Country == "" && p.Category == "" {
			return fmt.Errorf("country or category is required for page %q", p.Route)
		}
		if p.Source != "" {
			return fmt.Errorf("page %q cannot mix source with country or category", p.Route)
		}
	case "":
		return fmt.Errorf("kind is required for page %q", p.Route)
	default:
		return fmt.Errorf("kind %q not supported for page %q", p.Kind, p.Route)
	}

	switch p.KeyChannel {
	case model.KeyChannelServer, model.KeyChannelClient:
	default:
		return fmt.Errorf("key_channel %q not supported for page %q", p.KeyChannel, p.Route)
	}
	return nil
}

const (
	dataSuffix  = "__data.json"
	healthRoute = "/health"
)

// Registry maps routes to their loaders, in declaration order. It is
// immutable once built.
type Registry struct {
	order   []string
	loaders map[string]*HeadlinesLoader
}

// Build wires enabled pages to loaders bound to the key of their channel.
func Build(pages []model.Page, keys Keys, client news.NewsClient, tracer Tracer) (*Registry, error) {
	if client == nil {
		return nil, errors.New("news client is required")
	}

	reg := &Registry{loaders: make(map[string]*HeadlinesLoader, len(pages))}
	for _, p := range pages {
		if !p.EnabledValue() {
			continue
		}

		key, err := keys.For(p.KeyChannel)
		if err != nil {
			return nil, fmt.Errorf("page %q: %w", p.Route, err)
		}

		var l *HeadlinesLoader
		switch p.Kind {
		case model.PageKindSource:
			l = NewSourceLoader(p, key, client, tracer)
		case model.PageKindCategory:
			l = NewCategoryLoader(p, key, client, tracer)
		default:
			return nil, fmt.Errorf("kind %q not supported for page %q", p.Kind, p.Route)
		}

		reg.order = append(reg.order, p.Route)
		reg.loaders[p.Route] = l
	}

	if len(reg.order) == 0 {
		return nil, errors.New("no enabled pages")
	}
	return reg, nil
}

func (r *Registry) ByRoute(route string) (*HeadlinesLoader, bool) {
	if r == nil {
		return nil, false
	}

	l, ok := r.loaders[route]
	return l, ok
}

func (r *Registry) Routes() []string {
	if r == nil {
		return nil
	}

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Pages returns the enabled pages in declaration order.
func (r *Registry) Pages() []model.Page {
	if r == nil {
		return nil
	}

	out := make([]model.Page, 0, len(r.order))
	for _, route := range r.order {
		out = append(out, r.loaders[route].Page())
	}
	return out
}
