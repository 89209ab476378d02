package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName       string
	AppEnv        string
	AppPort       string
	DatabaseURL   string
	RedisURL      string
	JWTSecret     string
	NATSURL       string
	StreamSubject string
	StatsCacheTTL time.Duration
	FeedCacheTTL  time.Duration
	FeedPageSize  int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("UPLIFT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Uplift Admin API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("stream.subject", "uplift.activity")
	v.SetDefault("stats.cache_ttl", "30s")
	v.SetDefault("feed.cache_ttl", "15s")
	v.SetDefault("feed.page_size", 20)

	statsTTL, err := parseTTL(v.GetString("stats.cache_ttl"), "30s")
	if err != nil {
		return Config{}, fmt.Errorf("invalid stats cache ttl: %w", err)
	}
	feedTTL, err := parseTTL(v.GetString("feed.cache_ttl"), "15s")
	if err != nil {
		return Config{}, fmt.Errorf("invalid feed cache ttl: %w", err)
	}

	cfg := Config{
		AppName:       v.GetString("app.name"),
		AppEnv:        v.GetString("app.env"),
		AppPort:       v.GetString("app.port"),
		DatabaseURL:   v.GetString("database.url"),
		RedisURL:      v.GetString("redis.url"),
		JWTSecret:     v.GetString("jwt.secret"),
		NATSURL:       v.GetString("nats.url"),
		StreamSubject: v.GetString("stream.subject"),
		StatsCacheTTL: statsTTL,
		FeedCacheTTL:  feedTTL,
		FeedPageSize:  v.GetInt("feed.page_size"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.FeedPageSize <= 0 {
		cfg.FeedPageSize = 20
	}

	return cfg, nil
}

func parseTTL(value, fallback string) (time.Duration, error) {
	if value == "" {
		value = fallback
	}
	return time.ParseDuration(value)
}
