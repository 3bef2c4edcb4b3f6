// Package config loads the application configuration from defaults, an
// optional YAML or TOML file, and GRAPHEDIT_* environment variables.
package config

import (
	"os"

	domainconfig "graphedit/domain/config"
	"graphedit/pkg/utils"
)

// Environment is the deployment flavour; it picks the logger preset
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
	Test        Environment = "test"
)

// Config holds all application configuration
type Config struct {
	Environment Environment               `yaml:"environment" toml:"environment" validate:"required,oneof=development production test"`
	Domain      domainconfig.DomainConfig `yaml:"domain" toml:"domain"`
	Storage     Storage                   `yaml:"storage" toml:"storage"`
	Logging     Logging                   `yaml:"logging" toml:"logging"`
	Metrics     Metrics                   `yaml:"metrics" toml:"metrics"`
	Watch       Watch                     `yaml:"watch" toml:"watch"`

	// LoadedFrom lists the sources applied, lowest priority first
	LoadedFrom []string `yaml:"-" toml:"-"`
}

// Storage configures where graphs are kept
type Storage struct {
	// Root resolves relative graph file names
	Root string `yaml:"root" toml:"root"`
	// SnapshotDB is the SQLite DSN of the snapshot store
	SnapshotDB string `yaml:"snapshot_db" toml:"snapshot_db" validate:"required"`
}

// Logging configures the zap logger
type Logging struct {
	Level  string `yaml:"level" toml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" toml:"format" validate:"oneof=json console"`
	// File enables rotated file output next to stderr
	File       string `yaml:"file" toml:"file"`
	MaxSize    int    `yaml:"max_size" toml:"max_size" validate:"gte=0"`
	MaxAge     int    `yaml:"max_age" toml:"max_age" validate:"gte=0"`
	MaxBackups int    `yaml:"max_backups" toml:"max_backups" validate:"gte=0"`
}

// Metrics configures the Prometheus collector
type Metrics struct {
	Enabled   bool   `yaml:"enabled" toml:"enabled"`
	Namespace string `yaml:"namespace" toml:"namespace" validate:"required"`
	// TextfilePath receives the metrics in node-exporter textfile format after each command
	TextfilePath string `yaml:"textfile_path" toml:"textfile_path"`
}

// Watch configures the file watcher
type Watch struct {
	DebounceMS int `yaml:"debounce_ms" toml:"debounce_ms" validate:"gte=0"`
}

// DefaultConfig returns the configuration used when nothing else is supplied
func DefaultConfig(env Environment) *Config {
	level := "info"
	format := "json"
	if env == Development {
		level = "debug"
		format = "console"
	}
	return &Config{
		Environment: env,
		Domain:      *domainconfig.DefaultDomainConfig(),
		Storage: Storage{
			Root:       "",
			SnapshotDB: "graphedit.db",
		},
		Logging: Logging{
			Level:      level,
			Format:     format,
			MaxSize:    100,
			MaxAge:     30,
			MaxBackups: 10,
		},
		Metrics: Metrics{
			Enabled:   true,
			Namespace: "graphedit",
		},
		Watch: Watch{
			DebounceMS: 500,
		},
	}
}

// Validate checks struct tags and the domain rules
func (c *Config) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return err
	}
	return c.Domain.Validate()
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// getEnvironment reads GRAPHEDIT_ENV, defaulting to development
func getEnvironment() Environment {
	if env := os.Getenv(EnvPrefix + "ENV"); env != "" {
		return Environment(env)
	}
	return Development
}
