package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ignite/club-outreach/internal/costs"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
	Brevo    BrevoConfig    `yaml:"brevo"`
	Research ResearchConfig `yaml:"research"`
	Outreach OutreachConfig `yaml:"outreach"`
	Pricing  PricingConfig  `yaml:"pricing"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// GetHost returns the server host, with container detection
func (c ServerConfig) GetHost() string {
	// In a container, listen on all interfaces
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// DatabaseConfig holds PostgreSQL settings. An empty URL selects the
// in-memory stores (single-process mode).
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// RedisConfig holds the optional research hot-cache settings.
type RedisConfig struct {
	Addr    string `yaml:"addr"`
	Enabled bool   `yaml:"enabled"`
}

// OpenAIConfig holds OpenAI API configuration for research and content
// generation.
type OpenAIConfig struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	SearchModel    string `yaml:"search_model"`
	ContentModel   string `yaml:"content_model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the configured timeout as a duration
func (c OpenAIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// BrevoConfig holds Brevo transactional mail API configuration
type BrevoConfig struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	SenderName     string `yaml:"sender_name"`
	SenderEmail    string `yaml:"sender_email"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Enabled        bool   `yaml:"enabled"`
}

// Timeout returns the configured timeout as a duration
func (c BrevoConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ResearchConfig holds research cache settings
type ResearchConfig struct {
	CacheTTLDays   int `yaml:"cache_ttl_days"`
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// TTL returns the cache time-to-live as a duration
func (c ResearchConfig) TTL() time.Duration {
	return time.Duration(c.CacheTTLDays) * 24 * time.Hour
}

// Timeout returns the generator call timeout as a duration
func (c ResearchConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// OutreachConfig holds follow-up worker settings
type OutreachConfig struct {
	FollowUpDays        int `yaml:"follow_up_days"`
	TickIntervalSeconds int `yaml:"tick_interval_seconds"`
}

// FollowUpThreshold returns the age at which a sent email with no response
// needs a follow-up.
func (c OutreachConfig) FollowUpThreshold() time.Duration {
	return time.Duration(c.FollowUpDays) * 24 * time.Hour
}

// TickInterval returns the worker sweep interval as a duration
func (c OutreachConfig) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalSeconds) * time.Second
}

// PricingConfig holds per-model token rates and the flat web search fee.
type PricingConfig struct {
	Models            costs.PriceTable `yaml:"models"`
	WebSearchPerQuery float64          `yaml:"web_search_per_query"`
}

// PriceTable returns the configured table, falling back to the defaults for
// models the file doesn't override.
func (c PricingConfig) PriceTable() costs.PriceTable {
	table := costs.DefaultPriceTable()
	for model, p := range c.Models {
		table[model] = p
	}
	return table
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.OpenAI.BaseURL == "" {
		cfg.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.OpenAI.SearchModel == "" {
		cfg.OpenAI.SearchModel = "o3"
	}
	if cfg.OpenAI.ContentModel == "" {
		cfg.OpenAI.ContentModel = "gpt-4.1-nano"
	}
	if cfg.OpenAI.TimeoutSeconds == 0 {
		cfg.OpenAI.TimeoutSeconds = 60
	}
	if cfg.Brevo.BaseURL == "" {
		cfg.Brevo.BaseURL = "https://api.brevo.com/v3"
	}
	if cfg.Brevo.TimeoutSeconds == 0 {
		cfg.Brevo.TimeoutSeconds = 30
	}
	if cfg.Research.CacheTTLDays == 0 {
		cfg.Research.CacheTTLDays = 30
	}
	if cfg.Research.TimeoutSeconds == 0 {
		cfg.Research.TimeoutSeconds = 90
	}
	if cfg.Outreach.FollowUpDays == 0 {
		cfg.Outreach.FollowUpDays = 7
	}
	if cfg.Outreach.TickIntervalSeconds == 0 {
		cfg.Outreach.TickIntervalSeconds = 3600
	}
	if cfg.Pricing.WebSearchPerQuery == 0 {
		cfg.Pricing.WebSearchPerQuery = costs.WebSearchCostPerQuery
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so secrets can live in .env locally and in real env vars in production.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables if present
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		cfg.OpenAI.APIKey = apiKey
	}
	if model := os.Getenv("SEARCH_MODEL"); model != "" {
		cfg.OpenAI.SearchModel = model
	}
	if model := os.Getenv("CONTENT_MODEL"); model != "" {
		cfg.OpenAI.ContentModel = model
	}
	if apiKey := os.Getenv("BREVO_API_KEY"); apiKey != "" {
		cfg.Brevo.APIKey = apiKey
		cfg.Brevo.Enabled = true
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
		cfg.Redis.Enabled = true
	}

	return cfg, nil
}
