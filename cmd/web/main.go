package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"headlines/internal/config"
	"headlines/internal/format"
	"headlines/internal/handler"
	"headlines/internal/loader"
	"headlines/internal/middleware"
	"headlines/internal/trace"
	"headlines/pkg/news"
	"headlines/web"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {

	godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	if cfg.ServerAPIKey == "" {
		slog.Warn("NEWS_API_KEY and VITE_NEWS_API_KEY are empty, server pages will be rejected by the news API")
	}
	if cfg.ClientAPIKey == "" {
		slog.Warn("VITE_NEWS_API_KEY is empty, client pages will be rejected by the news API")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sinkConfigs, err := trace.LoadConfig(cfg.TracesFile)
	if err != nil {
		log.Fatalf("error loading traces file: %v", err)
	}
	sinks, err := trace.BuildAll(ctx, trace.DefaultBuilders(), sinkConfigs)
	if err != nil {
		log.Fatalf("error building trace sinks: %v", err)
	}
	dispatcher := trace.NewDispatcher(sinks, 0, 0)
	defer func() {
		if err := dispatcher.Close(); err != nil {
			slog.Error("error closing trace sinks", "error", err)
		}
	}()

	pages, err := loader.LoadPages(cfg.PagesFile)
	if err != nil {
		log.Fatalf("error loading pages: %v", err)
	}

	client := news.NewNewsAPIClient(
		news.WithBaseURL(cfg.BaseURL),
		news.WithStrict(cfg.Strict),
		news.WithTimeout(cfg.Timeout),
	)

	registry, err := loader.Build(pages, loader.Keys{Server: cfg.ServerAPIKey, Client: cfg.ClientAPIKey}, client, dispatcher)
	if err != nil {
		log.Fatalf("error building page loaders: %v", err)
	}

	tmpl, err := web.Templates(handler.FuncMap(format.NewDateFormatter(cfg.TimeZone), cfg.Locale))
	if err != nil {
		log.Fatalf("error parsing templates: %v", err)
	}

	r := gin.Default()
	r.SetHTMLTemplate(tmpl)

	slog.Info("AllowOrigins URL:", "urls", cfg.AllowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	if cfg.RateLimited() {
		limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		go limiter.Run(ctx)
		r.Use(limiter.Handler())
		slog.Info("rate limiting enabled", "rps", cfg.RateLimitRPS, "burst", cfg.RateLimitBurst)
	}

	feedHandler := handler.NewFeedHandler()
	for _, p := range registry.Pages() {
		l, _ := registry.ByRoute(p.Route)
		feedHandler.Mount(r, p.Route, p.Title, l)
		slog.Info("page mounted", "route", p.Route, "query", l.Query().Redacted(), "key_channel", p.KeyChannel)
	}
	r.GET("/health", feedHandler.GetHealth)
	r.NoRoute(feedHandler.NotFound)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}

	go func() {
		slog.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("error starting server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("error shutting down server", "error", err)
	}
	slog.Info("server stopped")
}
