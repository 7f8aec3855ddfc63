// internal/config/config.go
package config

import (
	"errors"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ServerURL    string   `mapstructure:"server_url"`
	Transports   []string `mapstructure:"transports"`
	LogFile      string   `mapstructure:"log_file"`
	DebugLogging bool     `mapstructure:"debug_logging"`
	FeedLimit    int      `mapstructure:"feed_limit"`
}

const (
	DefaultServerURL = "http://localhost:8000"
	DefaultLogFile   = "console.log"
	DefaultFeedLimit = 100
)

// Load reads configuration from the given file, with environment
// overrides under the QUANTAI prefix. A local .env file is honored first
// when present.
func Load(path string) (*Config, error) {
	// Best effort: absence of a .env file is not an error.
	_ = godotenv.Load()

	v := viper.New()

	defaults := map[string]interface{}{
		"server_url": DefaultServerURL,
		"transports": []string{"websocket", "polling"},
		"log_file":   DefaultLogFile,
		"feed_limit": DefaultFeedLimit,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// An empty path runs on defaults and environment alone.
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	v.SetEnvPrefix("QUANTAI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if env := v.GetString("SERVER_URL"); env != "" {
		cfg.ServerURL = env
	}

	return &cfg, Validate(&cfg)
}

// Validate checks the configuration for usable values.
func Validate(cfg *Config) error {
	if cfg.ServerURL == "" {
		return errors.New("missing server_url in configuration")
	}
	parsed, err := url.Parse(cfg.ServerURL)
	if err != nil || !strings.HasPrefix(parsed.Scheme, "http") {
		return errors.New("server_url must be an http(s) URL")
	}
	if len(cfg.Transports) == 0 {
		return errors.New("transports list is empty")
	}
	for _, t := range cfg.Transports {
		if t != "websocket" && t != "polling" {
			return errors.New("unknown transport: " + t)
		}
	}
	if cfg.FeedLimit <= 0 {
		return errors.New("invalid feed_limit")
	}
	return nil
}
