package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	APIBase          string
	DBPath           string
	ServerPort       string
	LogLevel         string
	SnapshotsEnabled bool
	SessionTTL       time.Duration
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		APIBase:          strings.TrimRight(getEnv("KIRKIT_API_BASE", "http://localhost:8080"), "/"),
		DBPath:           getEnv("DB_PATH", "kirkit-dashboard.db"),
		ServerPort:       getEnv("SERVER_PORT", "3000"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		SnapshotsEnabled: true,
		SessionTTL:       30 * time.Minute,
	}

	if v := os.Getenv("SNAPSHOTS_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SNAPSHOTS_ENABLED %q: %w", v, err)
		}
		cfg.SnapshotsEnabled = enabled
	}

	if v := os.Getenv("SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_TTL %q: %w", v, err)
		}
		if ttl <= 0 {
			return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", ttl)
		}
		cfg.SessionTTL = ttl
	}

	u, err := url.Parse(cfg.APIBase)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("KIRKIT_API_BASE must be an absolute URL, got %q", cfg.APIBase)
	}

	logger.Info().
		Str("api_base", cfg.APIBase).
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Bool("snapshots_enabled", cfg.SnapshotsEnabled).
		Dur("session_ttl", cfg.SessionTTL).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)
