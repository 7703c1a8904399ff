package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Database struct {
		DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:feedscope.db?cache=shared&mode=rwc,description=Preferences database connection string"`
		MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
		MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
	} `yaml:"database" json:"database" jsonschema:"description=Database configuration"`

	Source SourceConfig `yaml:"source" json:"source" jsonschema:"description=Content source configuration"`

	Feed FeedConfig `yaml:"feed" json:"feed" jsonschema:"description=Feed assembly configuration"`

	LLM LLMConfig `yaml:"llm" json:"llm" jsonschema:"description=LLM configuration for feed curation"`
}

// SourceConfig holds the content source endpoints
type SourceConfig struct {
	Endpoint       string        `yaml:"endpoint" json:"endpoint" jsonschema:"required,description=Content source API endpoint"`
	SearchEndpoint string        `yaml:"search_endpoint" json:"search_endpoint" jsonschema:"required,description=Post search endpoint"`
	UserAgent      string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Feedscope/1.0,description=User agent for source requests"`
	Timeout        time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Request timeout"`
}

// FeedConfig holds feed assembly settings
type FeedConfig struct {
	PageSize        int      `yaml:"page_size" json:"page_size" jsonschema:"default=10,minimum=1,description=Target number of posts per assembled page"`
	MaxEmptyPages   int      `yaml:"max_empty_pages" json:"max_empty_pages" jsonschema:"default=3,minimum=1,description=Consecutive fully-filtered pages before the fetch loop gives up"`
	FetchExtension  int      `yaml:"fetch_extension" json:"fetch_extension" jsonschema:"default=10,description=Extra posts requested when subtractive feedback is active"`
	SystemLanguages []string `yaml:"system_languages" json:"system_languages" jsonschema:"description=Languages merged into user language preferences"`
}

// CurationConfig holds curation-specific LLM settings
type CurationConfig struct {
	MaxQueries int `yaml:"max_queries" json:"max_queries" jsonschema:"default=3,minimum=1,description=Maximum search terms generated from additive feedback"`
}

// LLMConfig holds LLM configuration for feed curation
type LLMConfig struct {
	Endpoint    string         `yaml:"endpoint" json:"endpoint" jsonschema:"required,description=OpenAI-compatible API endpoint"`
	APIKey      string         `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable)"`
	Model       string         `yaml:"model" json:"model" jsonschema:"required,description=Model name (e.g. gpt-4o-mini or llama3)"`
	Temperature float64        `yaml:"temperature" json:"temperature" jsonschema:"default=0.3,description=Temperature for response generation"`
	MaxTokens   int            `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=500,description=Maximum tokens in response"`
	Timeout     time.Duration  `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Request timeout"`
	Curation    CurationConfig `yaml:"curation" json:"curation" jsonschema:"description=Curation-specific settings"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// set defaults for server
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}

	// set defaults for database
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "file:feedscope.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 3600
	}

	// set defaults for source
	if cfg.Source.UserAgent == "" {
		cfg.Source.UserAgent = "Feedscope/1.0"
	}
	if cfg.Source.Timeout == 0 {
		cfg.Source.Timeout = 30 * time.Second
	}

	// set defaults for feed assembly
	if cfg.Feed.PageSize == 0 {
		cfg.Feed.PageSize = 10
	}
	if cfg.Feed.MaxEmptyPages == 0 {
		cfg.Feed.MaxEmptyPages = 3
	}
	if cfg.Feed.FetchExtension == 0 {
		cfg.Feed.FetchExtension = 10
	}

	// set defaults for LLM
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.3
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 500
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 30 * time.Second
	}
	if cfg.LLM.Curation.MaxQueries == 0 {
		cfg.LLM.Curation.MaxQueries = 3
	}

	// validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

// validate checks configuration for correctness
func validate(cfg *Config) error {

	// validate source config
	if cfg.Source.Endpoint == "" {
		return fmt.Errorf("source.endpoint is required")
	}
	if cfg.Source.SearchEndpoint == "" {
		return fmt.Errorf("source.search_endpoint is required")
	}

	// validate LLM config
	if cfg.LLM.Endpoint == "" {
		return fmt.Errorf("llm.endpoint is required")
	}
	if cfg.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}
	if cfg.LLM.Curation.MaxQueries < 1 {
		return fmt.Errorf("llm.curation.max_queries must be at least 1")
	}

	// validate feed config
	if cfg.Feed.PageSize < 1 {
		return fmt.Errorf("feed.page_size must be at least 1")
	}
	if cfg.Feed.MaxEmptyPages < 1 {
		return fmt.Errorf("feed.max_empty_pages must be at least 1")
	}
	if cfg.Feed.FetchExtension < 0 {
		return fmt.Errorf("feed.fetch_extension must be non-negative")
	}

	// validate server config
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetSourceConfig returns content source configuration
func (c *Config) GetSourceConfig() SourceConfig {
	return c.Source
}

// GetFeedConfig returns feed assembly configuration
func (c *Config) GetFeedConfig() FeedConfig {
	return c.Feed
}

// GetLLMConfig returns LLM configuration
func (c *Config) GetLLMConfig() LLMConfig {
	return c.LLM
}
