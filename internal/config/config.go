package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// EnvPrefix is prepended to every variable read by Load.
const EnvPrefix = "APP_"

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	SiteName       string   `env:"SITE_NAME" envDefault:"Personal site"`
	SiteTagline    string   `env:"SITE_TAGLINE" envDefault:"robotics, drones and automation"`
	AdminToken     string   `env:"ADMIN_TOKEN" envDefault:"change-me"`
	DatabaseURL    string   `env:"DATABASE_URL"`
	Host           string   `env:"HOST" envDefault:"0.0.0.0"`
	Port           int      `env:"PORT" envDefault:"8000"`
	DataDir        string   `env:"DATA_DIR" envDefault:"data"`
	ResumePath     string   `env:"RESUME_PATH"`
	TrustedHosts   []string `env:"TRUSTED_HOSTS" envDefault:"*" envSeparator:","`
	CORSOrigins    []string `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string   `env:"LOG_FORMAT" envDefault:"text"`
	MetricsAddr    string   `env:"METRICS_ADDR"`
	TelegramToken  string   `env:"TELEGRAM_TOKEN"`
	TelegramChatID int64    `env:"TELEGRAM_CHAT_ID"`
}

// Load reads an optional .env file and then the APP_* environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.TrustedHosts = cleanList(cfg.TrustedHosts)
	cfg.CORSOrigins = cleanList(cfg.CORSOrigins)
	if cfg.ResumePath == "" {
		cfg.ResumePath = filepath.Join(cfg.DataDir, "resume.yaml")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var result *multierror.Error

	if strings.TrimSpace(c.DataDir) == "" {
		result = multierror.Append(result, fmt.Errorf("%sDATA_DIR must not be empty", EnvPrefix))
	}
	if c.Port <= 0 || c.Port > 65535 {
		result = multierror.Append(result, fmt.Errorf("%sPORT must be between 1 and 65535, got %d", EnvPrefix, c.Port))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		result = multierror.Append(result, fmt.Errorf("%sLOG_LEVEL: %w", EnvPrefix, err))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		result = multierror.Append(result, fmt.Errorf("%sLOG_FORMAT must be text or json, got %q", EnvPrefix, c.LogFormat))
	}
	if (c.TelegramToken == "") != (c.TelegramChatID == 0) {
		result = multierror.Append(result, fmt.Errorf("%sTELEGRAM_TOKEN and %sTELEGRAM_CHAT_ID must be set together", EnvPrefix, EnvPrefix))
	}
	if _, _, err := c.ResolveDatabase(); err != nil {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}

// ListenAddr returns the host:port the HTTP server binds to
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ResolveDatabase turns DatabaseURL into a driver name and DSN. An empty URL
// means a SQLite file in the data directory; a bare path is a SQLite file,
// relative to the data directory unless absolute.
func (c *Config) ResolveDatabase() (driver, dsn string, err error) {
	raw := strings.TrimSpace(c.DatabaseURL)
	if raw == "" {
		return DriverSQLite, filepath.Join(c.DataDir, "app.db"), nil
	}

	scheme, rest, found := strings.Cut(raw, "://")
	if !found {
		return DriverSQLite, c.dataPath(raw), nil
	}

	switch strings.ToLower(scheme) {
	case "postgres", "postgresql":
		return DriverPostgres, raw, nil
	case "sqlite", "sqlite3", "file":
		if rest == "" {
			return "", "", fmt.Errorf("%sDATABASE_URL: sqlite path is empty", EnvPrefix)
		}
		return DriverSQLite, c.dataPath(rest), nil
	default:
		return "", "", fmt.Errorf("%sDATABASE_URL: unsupported scheme %q", EnvPrefix, scheme)
	}
}

func (c *Config) dataPath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.DataDir, p)
}

// cleanList trims entries and drops empty ones, falling back to "*"
func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
