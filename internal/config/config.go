package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Completion CompletionConfig `koanf:"completion"`
	Pricing    PricingConfig    `koanf:"pricing"`
	Storage    StorageConfig    `koanf:"storage"`
	Stores     []StoreConfig    `koanf:"stores"`
}

type ServerConfig struct {
	Port           int           `koanf:"port"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

// CompletionConfig points at the remote text-completion endpoint. The
// timeout bounds a single outbound call; there are no retries at this
// layer.
type CompletionConfig struct {
	Endpoint string        `koanf:"endpoint"`
	APIKey   string        `koanf:"api_key"`
	Timeout  time.Duration `koanf:"timeout"`
}

// PricingConfig carries the per-unit price used for revenue aggregation.
// The source revisions hardcoded $20; here it is configuration.
type PricingConfig struct {
	UnitPrice float64 `koanf:"unit_price"`
}

type StorageConfig struct {
	Type   string       `koanf:"type"` // memory, sqlite
	SQLite SQLiteConfig `koanf:"sqlite"`
}

type SQLiteConfig struct {
	Dir string `koanf:"dir"`
}

// StoreConfig is one row of the static credential table: the store owner's
// login plus the business configuration resolved at login time.
type StoreConfig struct {
	Username    string `koanf:"username"`
	Password    string `koanf:"password"`
	DisplayName string `koanf:"display_name"`
	CatalogURL  string `koanf:"catalog_url"`
	WebhookURL  string `koanf:"webhook_url"`
	Policy      string `koanf:"policy"`
}

// Load reads config.yaml (if present) and overlays SHOPCHAT_-prefixed
// environment variables, with underscores mapping to key separators
// (SHOPCHAT_SERVER_PORT -> server.port).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider("SHOPCHAT_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "SHOPCHAT_")), "_", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	// Default values
	if !k.Exists("server.port") {
		k.Set("server.port", 8080)
	}
	if !k.Exists("server.request_timeout") {
		k.Set("server.request_timeout", "30s")
	}
	if !k.Exists("completion.timeout") {
		k.Set("completion.timeout", "30s")
	}
	if !k.Exists("pricing.unit_price") {
		k.Set("pricing.unit_price", 20.0)
	}
	if !k.Exists("storage.type") {
		k.Set("storage.type", "memory")
	}
	if !k.Exists("storage.sqlite.dir") {
		k.Set("storage.sqlite.dir", "./data")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Completion.Endpoint == "" {
		return nil, fmt.Errorf("completion.endpoint is required")
	}

	return &cfg, nil
}
