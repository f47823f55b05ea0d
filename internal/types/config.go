package types

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// ServiceConfig drives cmd/discoveryd. It is loaded from a YAML file; the
// deployable environment (endpoints, credentials, log level) comes from env
// vars instead, so one config file can serve local and deployed runs.
// Source selects which paged backend feeds the decks and carries the default
// seed used when a session request does not name one.
// Cache is optional; with a zero TTL no page cache is wired at all.
type ServiceConfig struct {
	Port    int           `json:"port" yaml:"port"`
	Source  SourceConfig  `json:"source" yaml:"source"`
	Cache   CacheConfig   `json:"cache" yaml:"cache"`
	Session SessionConfig `json:"session" yaml:"session"`
}

const (
	SourceYTMusic = "ytmusic"
	SourceCatalog = "catalog"

	CacheMemory = "memory"
	CacheRedis  = "redis"

	DefaultPort               = 8080
	DefaultSessionIdleSeconds = 900
	DefaultUpstreamTimeoutSec = 15
	DefaultCatalogPageSize    = 20
)

type SourceConfig struct {
	// Backend is one of SourceYTMusic (default) or SourceCatalog.
	Backend string         `json:"backend" yaml:"backend"`
	Seed    Seed           `json:"seed" yaml:"seed"`
	YTMusic UpstreamConfig `json:"ytmusic" yaml:"ytmusic"`
	Catalog CatalogConfig  `json:"catalog" yaml:"catalog"`
}

// UpstreamConfig points the ytmusic backend at its API host. APIKey is
// appended as the `key` query parameter when set; the public web client key
// works for unauthenticated watch-next calls, ratings need an authenticated
// deployment in front.
type UpstreamConfig struct {
	BaseURL        string `json:"base_url" yaml:"base_url"`
	APIKey         string `json:"api_key" yaml:"api_key"`
	HL             string `json:"hl" yaml:"hl"`
	GL             string `json:"gl" yaml:"gl"`
	TimeoutSeconds int    `json:"timeout_seconds" yaml:"timeout_seconds"`
}

type CatalogConfig struct {
	Table    string `json:"table" yaml:"table"`
	PageSize int    `json:"page_size" yaml:"page_size"`
	// FeedbackTopicARN, when set, fans every verdict out to SNS in addition
	// to the score update.
	FeedbackTopicARN string `json:"feedback_topic_arn" yaml:"feedback_topic_arn"`
}

type CacheConfig struct {
	// Backend is one of CacheMemory (default) or CacheRedis.
	Backend    string `json:"backend" yaml:"backend"`
	TTLSeconds int    `json:"ttl_seconds" yaml:"ttl_seconds"`
}

type SessionConfig struct {
	// IdleSeconds is how long a session may go untouched before the janitor
	// closes it.
	IdleSeconds int `json:"idle_seconds" yaml:"idle_seconds"`
}

// LoadServiceConfig reads and validates a ServiceConfig from a YAML file,
// filling defaults for everything left unset.
func LoadServiceConfig(path string) (ServiceConfig, error) {
	var cfg ServiceConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, Err(ErrInvalidConfig, err, "read %s", path)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, Err(ErrInvalidConfig, err, "parse %s", path)
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Source.Backend == "" {
		cfg.Source.Backend = SourceYTMusic
	}
	if cfg.Source.YTMusic.TimeoutSeconds == 0 {
		cfg.Source.YTMusic.TimeoutSeconds = DefaultUpstreamTimeoutSec
	}
	if cfg.Source.Catalog.PageSize == 0 {
		cfg.Source.Catalog.PageSize = DefaultCatalogPageSize
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = CacheMemory
	}
	if cfg.Session.IdleSeconds == 0 {
		cfg.Session.IdleSeconds = DefaultSessionIdleSeconds
	}
	if err := cfg.Validate(); err != nil {
		return cfg, Err(ErrInvalidConfig, err, "validate %s", path)
	}
	return cfg, nil
}

func (c ServiceConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be in 1..65535")
	}
	switch c.Source.Backend {
	case SourceYTMusic:
		// Seed may stay empty here; sessions can carry their own.
	case SourceCatalog:
		if c.Source.Catalog.Table == "" {
			return fmt.Errorf("source.catalog.table is required for the catalog backend")
		}
	default:
		return fmt.Errorf("source.backend must be %q or %q", SourceYTMusic, SourceCatalog)
	}
	if c.Source.Catalog.PageSize < 0 {
		return fmt.Errorf("source.catalog.page_size must be non-negative")
	}
	if c.Source.YTMusic.TimeoutSeconds < 0 {
		return fmt.Errorf("source.ytmusic.timeout_seconds must be non-negative")
	}
	switch c.Cache.Backend {
	case CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("cache.backend must be %q or %q", CacheMemory, CacheRedis)
	}
	if c.Cache.TTLSeconds < 0 {
		return fmt.Errorf("cache.ttl_seconds must be non-negative. 0 disables the page cache")
	}
	if c.Session.IdleSeconds < 0 {
		return fmt.Errorf("session.idle_seconds must be non-negative")
	}
	return nil
}
