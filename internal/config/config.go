package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Firefly III backend
	FireflyURL    string
	FireflyToken  string
	SourceAccount string

	// Telegram transport
	TelegramToken string
	AllowUserID   int64

	// Tunables
	MatchThreshold     int
	HTTPTimeout        time.Duration
	DefaultDestination string
}

func Load() *Config {
	cfg := &Config{
		FireflyURL:    strings.TrimRight(getEnv("FIREFLY_URL", ""), "/"),
		FireflyToken:  getEnv("FIREFLY_TOKEN", ""),
		SourceAccount: getEnv("FIREFLY_SOURCE_ACCOUNT", ""),

		TelegramToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		AllowUserID:   getEnvInt64("TELEGRAM_ALLOW_USERID", 0),

		MatchThreshold:     getEnvInt("MATCH_THRESHOLD", 60),
		HTTPTimeout:        getEnvDuration("HTTP_TIMEOUT", 30*time.Second),
		DefaultDestination: getEnv("DEFAULT_DESTINATION", "Unknown"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if c.FireflyURL == "" {
		errors = append(errors, "FIREFLY_URL must be set")
	} else if u, err := url.Parse(c.FireflyURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errors = append(errors, fmt.Sprintf("invalid FIREFLY_URL '%s': must be an http(s) URL", c.FireflyURL))
	}

	if c.FireflyToken == "" {
		errors = append(errors, "FIREFLY_TOKEN must be set")
	}
	if c.SourceAccount == "" {
		errors = append(errors, "FIREFLY_SOURCE_ACCOUNT must be set")
	}
	if c.TelegramToken == "" {
		errors = append(errors, "TELEGRAM_BOT_TOKEN must be set")
	}
	if c.AllowUserID <= 0 {
		errors = append(errors, "TELEGRAM_ALLOW_USERID must be a positive user id")
	}

	if c.MatchThreshold < 0 || c.MatchThreshold > 100 {
		errors = append(errors, fmt.Sprintf("invalid match threshold %d: must be between 0 and 100", c.MatchThreshold))
	}
	if c.HTTPTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("invalid HTTP timeout %v: must be positive", c.HTTPTimeout))
	}
	if strings.TrimSpace(c.DefaultDestination) == "" {
		errors = append(errors, "DEFAULT_DESTINATION cannot be blank")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}
	return nil
}

// getEnv gets environment variable with fallback
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvInt gets environment variable as int with fallback
func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

// getEnvInt64 gets environment variable as int64 with fallback
func getEnvInt64(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}

// getEnvDuration gets environment variable as duration with fallback
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
