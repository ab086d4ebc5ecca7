// Package config loads service configuration from an optional config.yaml
// plus environment overrides. The model service credential is the only hard
// requirement: without it no session can start, so loading fails
// immediately with a core.ConfigError instead of deferring the failure to
// the first request.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/lessonforge/lessonforge/core"
)

// Config holds the resolved service configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `mapstructure:"addr"`
	// Model is the Gemini model identifier.
	Model string `mapstructure:"model"`
	// GeminiAPIKey authenticates against the Gemini API. Required.
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	// RequestTimeout bounds one generation request end to end.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	ImageSearch ImageSearchConfig `mapstructure:"image_search"`
	Log         LogConfig         `mapstructure:"log"`
}

// ImageSearchConfig configures the media search client.
type ImageSearchConfig struct {
	// Endpoint is the MediaWiki-compatible API endpoint.
	Endpoint string `mapstructure:"endpoint"`
	// ThumbWidth is the requested thumbnail width in pixels.
	ThumbWidth int `mapstructure:"thumb_width"`
	// RateLimit caps requests per second against the public API.
	RateLimit float64 `mapstructure:"rate_limit"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads config.yaml from path (or the working directory when empty),
// applies environment overrides (e.g. GEMINI_API_KEY, LOG_LEVEL,
// IMAGE_SEARCH_ENDPOINT) and validates the result. A missing file is fine;
// a missing credential is not.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")

	v.SetDefault("addr", ":8080")
	v.SetDefault("model", "gemini-2.0-flash")
	v.SetDefault("request_timeout", 2*time.Minute)
	v.SetDefault("image_search.endpoint", "https://en.wikipedia.org/w/api.php")
	v.SetDefault("image_search.thumb_width", 600)
	v.SetDefault("image_search.rate_limit", 5.0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only resolves keys viper already knows about, so the
	// credential (which deliberately has no default) is bound explicitly.
	_ = v.BindEnv("gemini_api_key", "GEMINI_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.GeminiAPIKey == "" {
		return nil, &core.ConfigError{Field: "GEMINI_API_KEY"}
	}
	return &cfg, nil
}
