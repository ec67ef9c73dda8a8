// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configuration from configs/config.yaml (if present), merges an
// environment-specific overlay, and lets environment variables override any
// key (PLACES_API_KEY -> places.api_key and so on).
func Load() (*Config, error) {
	loadEnvFile()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig() // overlay is optional

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads a .env file from the working directory or any parent up
// to the module root, so the binary and the tests see the same credentials.
func loadEnvFile() {
	possiblePaths := []string{".env", "../.env", "../../.env"}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// overrideEmptyConfig falls back to well-known environment variables for
// values that are still empty after file and env merging.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Places.APIKey == "" {
		if val := os.Getenv("PLACES_API_KEY"); val != "" {
			cfg.Places.APIKey = val
		}
	}
	// Historical name used by earlier deployments of this service.
	if cfg.Places.APIKey == "" {
		if val := os.Getenv("GOOGLE_MAPS_API_KEY"); val != "" {
			cfg.Places.APIKey = val
		}
	}

	if cfg.Cache.Address == "" {
		if val := os.Getenv("REDIS_ADDR"); val != "" {
			cfg.Cache.Address = val
		}
	}

	if cfg.Notifications.TopicARN == "" {
		if val := os.Getenv("LEADS_SNS_TOPIC_ARN"); val != "" {
			cfg.Notifications.TopicARN = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "leadscout"
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15000
	}
	if cfg.Server.WriteTimeout == 0 {
		// Sequential enrichment of 20 places with two delays each can take
		// a while; the write timeout must cover the whole pipeline.
		cfg.Server.WriteTimeout = 120000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30000
	}

	if cfg.Places.BaseURL == "" {
		cfg.Places.BaseURL = "https://places.googleapis.com"
	}
	if cfg.Places.RegionCode == "" {
		cfg.Places.RegionCode = "NZ"
	}
	if cfg.Places.Language == "" {
		cfg.Places.Language = "en"
	}
	if cfg.Places.MaxResults == 0 {
		cfg.Places.MaxResults = 20
	}
	if cfg.Places.Timeout == 0 {
		cfg.Places.Timeout = 30000
	}

	if cfg.Enrichment.Delay == 0 {
		cfg.Enrichment.Delay = 120
	}
	if cfg.Enrichment.ScrapeTimeout == 0 {
		cfg.Enrichment.ScrapeTimeout = 6000
	}
	if cfg.Enrichment.UserAgent == "" {
		cfg.Enrichment.UserAgent = "LeadScoutBot/1.0 (business lead discovery)"
	}

	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 3600000
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

// validateConfig validates critical configuration fields. The places API
// key is deliberately not required here: its absence is reported per
// request so the endpoint still answers with well-formed JSON errors.
func validateConfig(cfg *Config) error {
	if cfg.Server.Address == "" {
		return fmt.Errorf("server.address is required")
	}

	if cfg.Places.BaseURL == "" {
		return fmt.Errorf("places.base_url is required")
	}

	if cfg.Places.MaxResults < 1 || cfg.Places.MaxResults > 20 {
		return fmt.Errorf("places.max_results must be between 1 and 20")
	}

	if cfg.Notifications.Enabled && cfg.Notifications.AWSRegion == "" {
		return fmt.Errorf("notifications.aws_region is required when notifications are enabled")
	}

	return nil
}
