package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sourcepoint/tenderd/internal/catalog"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Events    EventsConfig    `yaml:"events"`
	Directory DirectoryConfig `yaml:"directory"`
	Criteria  CriteriaConfig  `yaml:"criteria"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type EventsConfig struct {
	URL string `yaml:"url"`
	// StreamMaxAge is the JetStream audit retention window, as a Go
	// duration string.
	StreamMaxAge string `yaml:"stream_max_age"`
}

type DirectoryConfig struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token"`
}

type CriteriaConfig struct {
	// Catalog replaces the built-in criterion set when non-empty. The
	// weight-sum-to-1 invariant is asserted at load time.
	Catalog []catalog.Criterion `yaml:"catalog"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
		},
		Events: EventsConfig{
			URL:          "nats://localhost:4222",
			StreamMaxAge: "2160h", // 90 days
		},
		Directory: DirectoryConfig{
			URL: "http://localhost:8710",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

// StreamMaxAge parses the configured retention window, falling back to
// 90 days on a malformed value.
func (c *Config) StreamMaxAge() time.Duration {
	d, err := time.ParseDuration(c.Events.StreamMaxAge)
	if err != nil || d < 0 {
		return 90 * 24 * time.Hour
	}
	return d
}

// LoadCatalog validates the configured criteria, falling back to the
// built-in catalog when none are configured.
func (c *Config) LoadCatalog() (*catalog.Catalog, error) {
	if len(c.Criteria.Catalog) == 0 {
		return catalog.Default(), nil
	}
	cat, err := catalog.New(c.Criteria.Catalog)
	if err != nil {
		return nil, fmt.Errorf("criteria catalog: %w", err)
	}
	return cat, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TENDERD_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("TENDERD_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("TENDERD_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("TENDERD_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("TENDERD_EVENTS_URL"); v != "" {
		cfg.Events.URL = v
	}
	if v := os.Getenv("TENDERD_EVENTS_STREAM_MAX_AGE"); v != "" {
		cfg.Events.StreamMaxAge = v
	}
	if v := os.Getenv("TENDERD_DIRECTORY_URL"); v != "" {
		cfg.Directory.URL = v
	}
	if v := os.Getenv("TENDERD_DIRECTORY_TOKEN"); v != "" {
		cfg.Directory.Token = v
	}
	if v := os.Getenv("TENDERD_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
