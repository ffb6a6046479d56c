// internal/config/config.go
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"

	custom_errors "github-repo-crawler/internal/errors"
)

const placeholderToken = "your_github_token_here"

// Config holds all configuration for the application.
type Config struct {
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	DBURL             string        `mapstructure:"DB_URL"`
	DBConnectRetries  int           `mapstructure:"DB_CONNECT_RETRIES"`
	DBConnectDelay    time.Duration `mapstructure:"DB_CONNECT_DELAY"`
	MigrationsPath    string        `mapstructure:"MIGRATIONS_PATH"`
	HTTPAddr          string        `mapstructure:"HTTP_ADDR"`
	GithubToken       string        `mapstructure:"GITHUB_TOKEN"`
	GraphQLURL        string        `mapstructure:"GITHUB_GRAPHQL_URL"`
	SearchQuery       string        `mapstructure:"SEARCH_QUERY"`
	TotalRepos        int           `mapstructure:"TOTAL_REPOS"`
	PageSize          int           `mapstructure:"PAGE_SIZE"`
	RequestTimeout    time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	MaxRetries        int           `mapstructure:"MAX_RETRIES"`
	RetryDelay        time.Duration `mapstructure:"RETRY_DELAY"`
	SaveInterval      int           `mapstructure:"SAVE_INTERVAL"`
	RateLimitLowWater int           `mapstructure:"RATE_LIMIT_LOW_WATER"`
	PageDelay         time.Duration `mapstructure:"PAGE_DELAY"`
	CrawlInterval     time.Duration `mapstructure:"CRAWL_INTERVAL"`
}

// LoadConfig reads configuration from file and/or environment variables.
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_CONNECT_RETRIES", 5)
	v.SetDefault("DB_CONNECT_DELAY", "5s")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("GITHUB_GRAPHQL_URL", "https://api.github.com/graphql")
	v.SetDefault("SEARCH_QUERY", "stars:>1 sort:stars-desc")
	v.SetDefault("TOTAL_REPOS", 100000)
	v.SetDefault("PAGE_SIZE", 100)
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("MAX_RETRIES", 5)
	v.SetDefault("RETRY_DELAY", "2s")
	v.SetDefault("SAVE_INTERVAL", 1000)
	v.SetDefault("RATE_LIMIT_LOW_WATER", 100)
	v.SetDefault("PAGE_DELAY", "500ms")
	v.SetDefault("CRAWL_INTERVAL", "0s")
	// Registered so AutomaticEnv picks them up during Unmarshal.
	v.SetDefault("DB_URL", "")
	v.SetDefault("GITHUB_TOKEN", "")

	// Load from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // Ignore error if file not found

	// Bind environment variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required fields and numeric bounds.
func (c *Config) Validate() error {
	if c.DBURL == "" {
		return errors.New("DB_URL is a required configuration field")
	}
	if c.GithubToken == "" || c.GithubToken == placeholderToken {
		return errors.New("GITHUB_TOKEN is a required configuration field")
	}
	if c.DBConnectRetries <= 0 {
		return &custom_errors.ErrInvalidConfig{Key: "DB_CONNECT_RETRIES", Reason: "must be positive"}
	}
	if c.TotalRepos <= 0 {
		return &custom_errors.ErrInvalidConfig{Key: "TOTAL_REPOS", Reason: "must be positive"}
	}
	if c.PageSize <= 0 || c.PageSize > 100 {
		return &custom_errors.ErrInvalidConfig{Key: "PAGE_SIZE", Reason: "must be between 1 and 100"}
	}
	if c.MaxRetries <= 0 {
		return &custom_errors.ErrInvalidConfig{Key: "MAX_RETRIES", Reason: "must be positive"}
	}
	if c.SaveInterval <= 0 {
		return &custom_errors.ErrInvalidConfig{Key: "SAVE_INTERVAL", Reason: "must be positive"}
	}
	if c.RequestTimeout <= 0 {
		return &custom_errors.ErrInvalidConfig{Key: "REQUEST_TIMEOUT", Reason: "must be positive"}
	}
	if c.RetryDelay < 0 || c.PageDelay < 0 || c.CrawlInterval < 0 || c.DBConnectDelay < 0 {
		return &custom_errors.ErrInvalidConfig{Key: "RETRY_DELAY/PAGE_DELAY/CRAWL_INTERVAL/DB_CONNECT_DELAY", Reason: "must not be negative"}
	}
	return nil
}
