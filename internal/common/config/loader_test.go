package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	applyDefaults(&cfg)

	assert.Equal(t, "leadscout", cfg.App.Name)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 120000, cfg.Server.WriteTimeout)

	assert.Equal(t, "https://places.googleapis.com", cfg.Places.BaseURL)
	assert.Equal(t, "NZ", cfg.Places.RegionCode)
	assert.Equal(t, "en", cfg.Places.Language)
	assert.Equal(t, 20, cfg.Places.MaxResults)

	assert.Equal(t, 120, cfg.Enrichment.Delay)
	assert.Equal(t, 6000, cfg.Enrichment.ScrapeTimeout)
	assert.NotEmpty(t, cfg.Enrichment.UserAgent)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	// Defaults never invent a credential or a cache address.
	assert.Empty(t, cfg.Places.APIKey)
	assert.False(t, cfg.Cache.Enabled())
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := Config{
		Server:     ServerConfig{Address: ":9090"},
		Places:     PlacesConfig{MaxResults: 5, RegionCode: "AU"},
		Enrichment: EnrichmentConfig{Delay: 250},
	}
	applyDefaults(&cfg)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, 5, cfg.Places.MaxResults)
	assert.Equal(t, "AU", cfg.Places.RegionCode)
	assert.Equal(t, 250, cfg.Enrichment.Delay)
}

func TestValidateConfig(t *testing.T) {
	base := func() *Config {
		var cfg Config
		applyDefaults(&cfg)
		return &cfg
	}

	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, validateConfig(base()))
	})

	t.Run("missing api key is still valid", func(t *testing.T) {
		cfg := base()
		cfg.Places.APIKey = ""
		assert.NoError(t, validateConfig(cfg))
	})

	t.Run("max results out of range", func(t *testing.T) {
		cfg := base()
		cfg.Places.MaxResults = 21
		assert.Error(t, validateConfig(cfg))

		cfg.Places.MaxResults = 0
		assert.Error(t, validateConfig(cfg))
	})

	t.Run("notifications require a region", func(t *testing.T) {
		cfg := base()
		cfg.Notifications.Enabled = true
		assert.Error(t, validateConfig(cfg))

		cfg.Notifications.AWSRegion = "ap-southeast-2"
		assert.NoError(t, validateConfig(cfg))
	})
}

func TestOverrideEmptyConfig(t *testing.T) {
	t.Run("places key from PLACES_API_KEY", func(t *testing.T) {
		t.Setenv("PLACES_API_KEY", "from-env")

		var cfg Config
		overrideEmptyConfig(&cfg)
		assert.Equal(t, "from-env", cfg.Places.APIKey)
	})

	t.Run("falls back to GOOGLE_MAPS_API_KEY", func(t *testing.T) {
		t.Setenv("PLACES_API_KEY", "")
		t.Setenv("GOOGLE_MAPS_API_KEY", "legacy-key")

		var cfg Config
		overrideEmptyConfig(&cfg)
		assert.Equal(t, "legacy-key", cfg.Places.APIKey)
	})

	t.Run("explicit value wins over env", func(t *testing.T) {
		t.Setenv("PLACES_API_KEY", "from-env")

		cfg := Config{Places: PlacesConfig{APIKey: "from-file"}}
		overrideEmptyConfig(&cfg)
		assert.Equal(t, "from-file", cfg.Places.APIKey)
	})

	t.Run("redis address from REDIS_ADDR", func(t *testing.T) {
		t.Setenv("REDIS_ADDR", "localhost:6379")

		var cfg Config
		overrideEmptyConfig(&cfg)
		assert.Equal(t, "localhost:6379", cfg.Cache.Address)
		assert.True(t, cfg.Cache.Enabled())
	})

	t.Run("sns topic from LEADS_SNS_TOPIC_ARN", func(t *testing.T) {
		t.Setenv("LEADS_SNS_TOPIC_ARN", "arn:aws:sns:ap-southeast-2:123456789012:leads")

		var cfg Config
		overrideEmptyConfig(&cfg)
		assert.Equal(t, "arn:aws:sns:ap-southeast-2:123456789012:leads", cfg.Notifications.TopicARN)
	})
}

func TestLoadAppliesDefaultsWithoutConfigFile(t *testing.T) {
	// The package test directory carries no config.yaml, so Load exercises
	// the not-found path plus defaults.
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "leadscout", cfg.App.Name)
	assert.Equal(t, "https://places.googleapis.com", cfg.Places.BaseURL)
	assert.Equal(t, 20, cfg.Places.MaxResults)
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 120*time.Millisecond, GetDuration(120))
	assert.Equal(t, 6*time.Second, GetDuration(6000))
	assert.Equal(t, time.Duration(0), GetDuration(0))
}
