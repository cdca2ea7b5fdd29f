package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	_ "time/tzdata"

	"headlines/pkg/news"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

const defaultFrontendURL = "http://localhost:3000"

// Config is the process configuration. The two API keys are kept apart: the
// server key never reaches a rendered page or a data endpoint, the client key
// is the build-time value a browser bundle would have carried.
type Config struct {
	ServerAPIKey string
	ClientAPIKey string

	BaseURL string
	Timeout time.Duration
	Strict  bool

	Addr     string
	Locale   language.Tag
	TimeZone *time.Location

	PagesFile  string
	TracesFile string

	AllowedOrigins []string

	RateLimitRPS   float64
	RateLimitBurst int

	LogLevel slog.Level
}

var envKeys = []string{
	"news_api_key",
	"vite_news_api_key",
	"news_api_base_url",
	"news_api_timeout",
	"news_api_strict",
	"web_addr",
	"web_locale",
	"web_timezone",
	"pages_file",
	"traces_file",
	"frontend_url",
	"rate_limit_rps",
	"rate_limit_burst",
	"log_level",
}

// Load layers defaults, an optional config file and the environment, in that
// order of precedence from lowest to highest. Call godotenv.Load first so a
// .env file takes part as environment.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("news_api_base_url", news.DefaultBaseURL)
	v.SetDefault("news_api_timeout", "30s")
	v.SetDefault("news_api_strict", false)
	v.SetDefault("web_addr", ":8080")
	v.SetDefault("web_locale", "en-IE")
	v.SetDefault("web_timezone", "Europe/Dublin")
	v.SetDefault("rate_limit_rps", 0)
	v.SetDefault("rate_limit_burst", 20)
	v.SetDefault("log_level", "debug")

	for _, key := range envKeys {
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if configFile = strings.TrimSpace(configFile); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{
		ClientAPIKey:   strings.TrimSpace(v.GetString("vite_news_api_key")),
		ServerAPIKey:   strings.TrimSpace(v.GetString("news_api_key")),
		BaseURL:        strings.TrimSpace(v.GetString("news_api_base_url")),
		Timeout:        v.GetDuration("news_api_timeout"),
		Strict:         v.GetBool("news_api_strict"),
		Addr:           strings.TrimSpace(v.GetString("web_addr")),
		PagesFile:      strings.TrimSpace(v.GetString("pages_file")),
		TracesFile:     strings.TrimSpace(v.GetString("traces_file")),
		AllowedOrigins: []string{defaultFrontendURL},
		RateLimitRPS:   v.GetFloat64("rate_limit_rps"),
		RateLimitBurst: v.GetInt("rate_limit_burst"),
	}

	// Deployments that only set the build-time key use it for server pages too.
	if cfg.ServerAPIKey == "" {
		cfg.ServerAPIKey = cfg.ClientAPIKey
	}

	if frontendURL := strings.TrimSpace(v.GetString("frontend_url")); frontendURL != "" && frontendURL != defaultFrontendURL {
		cfg.AllowedOrigins = append(cfg.AllowedOrigins, frontendURL)
	}

	locale, err := language.Parse(strings.TrimSpace(v.GetString("web_locale")))
	if err != nil {
		return nil, fmt.Errorf("web_locale: %w", err)
	}
	cfg.Locale = locale

	loc, err := time.LoadLocation(strings.TrimSpace(v.GetString("web_timezone")))
	if err != nil {
		return nil, fmt.Errorf("web_timezone: %w", err)
	}
	cfg.TimeZone = loc

	if err := cfg.LogLevel.UnmarshalText([]byte(strings.TrimSpace(v.GetString("log_level")))); err != nil {
		return nil, fmt.Errorf("log_level: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.BaseURL == "" {
		return errors.New("news_api_base_url is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("news_api_timeout must be positive, got %s", c.Timeout)
	}
	if c.Addr == "" {
		return errors.New("web_addr is required")
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("rate_limit_rps must not be negative, got %v", c.RateLimitRPS)
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return fmt.Errorf("rate_limit_burst must be at least 1, got %d", c.RateLimitBurst)
	}
	return nil
}

// RateLimited reports whether inbound rate limiting is switched on.
func (c *Config) RateLimited() bool {
	return c.RateLimitRPS > 0
}
