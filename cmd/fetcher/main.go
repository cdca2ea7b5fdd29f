package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"headlines/internal/config"
	"headlines/internal/loader"
	"headlines/internal/trace"
	"headlines/pkg/news"

	"github.com/joho/godotenv"
)

func main() {

	route := flag.String("route", "/", "page route to load")
	flag.Parse()

	godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	// Logs go to stderr so stdout carries only the page data.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pages, err := loader.LoadPages(cfg.PagesFile)
	if err != nil {
		log.Fatalf("error loading pages: %v", err)
	}

	client := news.NewNewsAPIClient(
		news.WithBaseURL(cfg.BaseURL),
		news.WithStrict(cfg.Strict),
		news.WithTimeout(cfg.Timeout),
	)

	dispatcher := trace.NewDispatcher(nil, 0, 0)
	defer dispatcher.Close()

	registry, err := loader.Build(pages, loader.Keys{Server: cfg.ServerAPIKey, Client: cfg.ClientAPIKey}, client, dispatcher)
	if err != nil {
		log.Fatalf("error building page loaders: %v", err)
	}

	l, ok := registry.ByRoute(*route)
	if !ok {
		slog.Error("unknown page route", "route", *route, "routes", registry.Routes())
		os.Exit(2)
	}

	data, err := l.LoadPageData(ctx, loader.PageContext{Route: *route})
	if err != nil {
		slog.Error("error loading page data", "route", *route, "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		slog.Error("error writing page data", "error", err)
		os.Exit(1)
	}

	slog.Info("fetch complete", "route", *route, "articles", len(data.Articles), "total_results", data.TotalResults)
}
