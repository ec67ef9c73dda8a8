// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Server        ServerConfig       `mapstructure:"server"`
	Places        PlacesConfig       `mapstructure:"places"`
	Enrichment    EnrichmentConfig   `mapstructure:"enrichment"`
	Cache         CacheConfig        `mapstructure:"cache"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// PlacesConfig holds settings for the places search/detail provider.
// APIKey is the single required credential; its absence is surfaced as a
// per-request configuration error rather than a startup failure.
type PlacesConfig struct {
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	RegionCode string `mapstructure:"region_code"`
	Language   string `mapstructure:"language"`
	MaxResults int    `mapstructure:"max_results"`
	Timeout    int    `mapstructure:"timeout"` // milliseconds
}

// EnrichmentConfig controls the per-place website/email enrichment step.
type EnrichmentConfig struct {
	Delay         int    `mapstructure:"delay"`          // milliseconds between outbound calls
	ScrapeTimeout int    `mapstructure:"scrape_timeout"` // milliseconds
	UserAgent     string `mapstructure:"user_agent"`
}

// CacheConfig configures the optional redis place-detail cache. The cache
// is enabled only when Address is non-empty.
type CacheConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TTL      int    `mapstructure:"ttl"` // milliseconds
}

// Enabled reports whether a redis address was configured.
func (c CacheConfig) Enabled() bool {
	return c.Address != ""
}

// NotificationConfig configures the optional lead digest. Email and topic
// delivery are independently enabled by their respective fields.
type NotificationConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	AWSRegion string `mapstructure:"aws_region"`
	FromEmail string `mapstructure:"from_email"`
	ToEmail   string `mapstructure:"to_email"`
	TopicARN  string `mapstructure:"topic_arn"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
