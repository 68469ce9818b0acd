// Package config loads engine configuration from YAML and the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the engine.
// Configuration can come from a YAML file (config.yaml) or environment
// variables; environment variables override YAML values. Secrets (API keys,
// passwords) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Database configuration for the engine's own storage (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Memory store configuration
	Memory MemoryConfig `yaml:"memory"`

	// Extraction pipeline tuning
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// DatabaseConfig holds PostgreSQL configuration for the engine database.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"tablemind"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"tablemind_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// MemoryConfig selects and configures the memory store backend.
type MemoryConfig struct {
	// Provider is one of "mem0", "local", or "off".
	Provider string `yaml:"provider" env:"MEMORY_PROVIDER" env-default:"mem0"`

	// Mem0APIKey authenticates against the mem0 platform. Required when
	// Provider is "mem0".
	Mem0APIKey string `yaml:"-" env:"MEM0_API_KEY"` // Secret - not in YAML

	// Mem0BaseURL overrides the mem0 endpoint (self-hosted deployments).
	Mem0BaseURL string `yaml:"mem0_base_url" env:"MEM0_BASE_URL" env-default:""`

	// OpenAIAPIKey is used by the "local" provider to generate embeddings.
	OpenAIAPIKey string `yaml:"-" env:"OPENAI_API_KEY"` // Secret - not in YAML

	// EmbeddingModel selects the embedding model for the "local" provider.
	EmbeddingModel string `yaml:"embedding_model" env:"EMBEDDING_MODEL" env-default:"text-embedding-3-small"`
}

// PipelineConfig tunes the extraction pipeline.
type PipelineConfig struct {
	// SampleLimit is the number of sample rows fetched per table.
	SampleLimit int `yaml:"sample_limit" env:"SAMPLE_LIMIT" env-default:"5"`

	// EmbedAttempts bounds retries per table against the memory store.
	EmbedAttempts int `yaml:"embed_attempts" env:"EMBED_ATTEMPTS" env-default:"3"`

	// EmbedBaseDelay is multiplied by the attempt number between retries.
	EmbedBaseDelay time.Duration `yaml:"embed_base_delay" env:"EMBED_BASE_DELAY" env-default:"1s"`

	// EventBuffer is the SSE event channel capacity per request.
	EventBuffer int `yaml:"event_buffer" env:"EVENT_BUFFER" env-default:"100"`
}

// Load reads configuration from config.yaml (if present) and the
// environment, then validates it.
func Load(version string) (*Config, error) {
	cfg := &Config{Version: version}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("read environment: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks provider selection and required secrets.
func (c *Config) Validate() error {
	switch c.Memory.Provider {
	case "mem0":
		if c.Memory.Mem0APIKey == "" {
			return fmt.Errorf("MEM0_API_KEY is required when memory provider is %q", c.Memory.Provider)
		}
	case "local":
		if c.Memory.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when memory provider is %q", c.Memory.Provider)
		}
	case "off":
	default:
		return fmt.Errorf("unknown memory provider %q (want mem0, local, or off)", c.Memory.Provider)
	}

	if c.Pipeline.SampleLimit < 0 {
		return fmt.Errorf("sample_limit must not be negative")
	}
	return nil
}

// ConnectionString returns a PostgreSQL connection string for the engine
// database.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
