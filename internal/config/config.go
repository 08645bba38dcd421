package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	BackendRelational    = "relational"
	BackendElasticsearch = "elasticsearch"
)

type Config struct {
	Port           string `env:"PORT" envDefault:"8080"`
	DBDSN          string `env:"DB_DSN" envDefault:"autoshop.db"`
	LogFile        string `env:"LOG_FILE" envDefault:"./autoshop.log"`
	TemplateReload bool   `env:"TEMPLATE_RELOAD" envDefault:"false"`
	DefaultLocale  string `env:"DEFAULT_LOCALE" envDefault:"en"`

	Index   IndexConfig   `envPrefix:"INDEX_"`
	Elastic ElasticConfig `envPrefix:"ELASTICSEARCH_"`

	// RedisURL enables the redis tracking sink when set.
	RedisURL string `env:"REDIS_URL"`

	// FallbackFilterDefinitionID selects the stored definition used when neither the request
	// nor the category supplies one. Zero means the built-in default.
	FallbackFilterDefinitionID int64 `env:"FALLBACK_FILTER_DEFINITION_ID" envDefault:"0"`

	// PreviewTokenHash is a bcrypt hash; previews are disabled when empty.
	PreviewTokenHash string `env:"PREVIEW_TOKEN_HASH"`
}

type IndexConfig struct {
	Backend        string `env:"BACKEND" envDefault:"relational"`
	Tenant         string `env:"TENANT" envDefault:"default"`
	ReindexOnStart bool   `env:"REINDEX_ON_START" envDefault:"true"`
}

type ElasticConfig struct {
	Addresses   []string `env:"ADDRESSES" envSeparator:"," envDefault:"http://localhost:9200"`
	IndexPrefix string   `env:"INDEX_PREFIX" envDefault:"autoshop"`
	Username    string   `env:"USERNAME"`
	Password    string   `env:"PASSWORD"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Printf("[config] loaded .env")
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	log.Printf("[config] PORT=%s DB_DSN=%s INDEX_BACKEND=%s INDEX_TENANT=%s LOG_FILE=%s",
		cfg.Port, cfg.DBDSN, cfg.Index.Backend, cfg.Index.Tenant, cfg.LogFile)
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Index.Backend {
	case BackendRelational, BackendElasticsearch:
	default:
		return fmt.Errorf("unsupported INDEX_BACKEND %q", c.Index.Backend)
	}
	if c.Index.Tenant == "" {
		return fmt.Errorf("INDEX_TENANT must not be empty")
	}
	return nil
}
