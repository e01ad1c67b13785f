package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for the service. Every field maps to
// an environment variable of the same name in upper case.
type Config struct {
	Port                string `mapstructure:"port"`
	SourceURL           string `mapstructure:"source_url"`
	SourceKind          string `mapstructure:"source_kind"`
	FetchTimeoutSeconds int    `mapstructure:"fetch_timeout_seconds"`
	CacheTTLMinutes     int    `mapstructure:"cache_ttl_minutes"`
	AllowedOrigin       string `mapstructure:"allowed_origin"`
	RevalidateSecret    string `mapstructure:"revalidate_secret"`
}

// Load reads configuration from the environment, with defaults suitable for a
// local run. The revalidate secret has no default; the endpoint stays locked
// until one is configured.
func Load() (*Config, error) {
	viper.AutomaticEnv()
	setDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("port", "8080")
	viper.SetDefault("source_url", "https://www.lottoamerica.com/numbers")
	viper.SetDefault("source_kind", "auto")
	viper.SetDefault("fetch_timeout_seconds", 15)
	viper.SetDefault("cache_ttl_minutes", 60)
	viper.SetDefault("allowed_origin", "*")
	viper.SetDefault("revalidate_secret", "")
}

// FetchTimeout returns the timeout applied to one source fetch.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// CacheTTL returns the freshness window for cached results.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}
