package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port            string        `mapstructure:"PORT"`
	Env             string        `mapstructure:"ENV"`
	FHIRBaseURL     string        `mapstructure:"FHIR_BASE_URL"`
	FHIRTimeout     time.Duration `mapstructure:"FHIR_TIMEOUT"`
	RedisURL        string        `mapstructure:"REDIS_URL"`
	LockTTL         time.Duration `mapstructure:"LOCK_TTL"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("FHIR_TIMEOUT", 30*time.Second)
	v.SetDefault("LOCK_TTL", 10*time.Second)
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("FHIR_BASE_URL")
	v.BindEnv("FHIR_TIMEOUT")
	v.BindEnv("REDIS_URL")
	v.BindEnv("LOCK_TTL")
	v.BindEnv("SHUTDOWN_TIMEOUT")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is safe to run. The engine is a
// proxy over the upstream FHIR store, so FHIR_BASE_URL is the one hard
// requirement.
func (c *Config) Validate() error {
	if c.FHIRBaseURL == "" {
		return fmt.Errorf("FHIR_BASE_URL is required")
	}
	u, err := url.Parse(c.FHIRBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("FHIR_BASE_URL %q is not an absolute URL", c.FHIRBaseURL)
	}
	if c.RedisURL != "" {
		if _, err := url.Parse(c.RedisURL); err != nil {
			return fmt.Errorf("invalid REDIS_URL: %w", err)
		}
	}
	if c.LockTTL <= 0 {
		return fmt.Errorf("LOCK_TTL must be positive, got %s", c.LockTTL)
	}
	return nil
}
