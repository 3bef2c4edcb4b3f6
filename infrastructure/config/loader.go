package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	pkgerrors "graphedit/pkg/errors"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "GRAPHEDIT_"

// DefaultFileNames are tried in the working directory when no file is named
var DefaultFileNames = []string{"graphedit.yaml", "graphedit.yml", "graphedit.toml"}

// Loader handles loading configuration from multiple sources.
// Loading order, lowest priority first: defaults, configuration file,
// environment variables.
type Loader struct {
	fs          afero.Fs
	environment Environment
	sources     []string
	fileLoaders map[string]FileLoader
	getenv      func(string) string
}

// FileLoader decodes one configuration file format
type FileLoader interface {
	Load(reader io.Reader, target interface{}) error
	Extensions() []string
}

// NewLoader creates a loader reading files from fs
func NewLoader(fs afero.Fs, env Environment) *Loader {
	if env == "" {
		env = getEnvironment()
	}
	loader := &Loader{
		fs:          fs,
		environment: env,
		fileLoaders: make(map[string]FileLoader),
		getenv:      os.Getenv,
	}
	loader.RegisterLoader(&YAMLLoader{})
	loader.RegisterLoader(&TOMLLoader{})
	return loader
}

// RegisterLoader registers a file loader for its extensions
func (l *Loader) RegisterLoader(loader FileLoader) {
	for _, ext := range loader.Extensions() {
		l.fileLoaders[ext] = loader
	}
}

// Load builds the configuration. An explicitly named file must exist; when
// path is empty the DefaultFileNames are tried and skipped if absent.
func (l *Loader) Load(path string) (*Config, error) {
	cfg := DefaultConfig(l.environment)
	l.sources = []string{"defaults"}

	if path != "" {
		if err := l.loadFile(path, cfg); err != nil {
			return nil, err
		}
	} else {
		for _, name := range DefaultFileNames {
			err := l.loadFile(name, cfg)
			if err == nil {
				break
			}
			if !pkgerrors.IsNotFound(err) {
				return nil, err
			}
		}
	}

	if err := l.loadEnvironmentVariables(cfg); err != nil {
		return nil, err
	}
	l.sources = append(l.sources, "environment")
	cfg.LoadedFrom = l.sources

	if err := cfg.Validate(); err != nil {
		return nil, pkgerrors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

// loadFile decodes one file over cfg, picking the format by extension
func (l *Loader) loadFile(path string, cfg *Config) error {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	loader, ok := l.fileLoaders[ext]
	if !ok {
		return pkgerrors.NewValidationError(fmt.Sprintf("unsupported configuration format %q", ext))
	}

	file, err := l.fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return pkgerrors.NewNotFoundError("configuration file " + path).WithCause(err)
		}
		return pkgerrors.NewIOError("open configuration file", err).WithDetail("path", path)
	}
	defer file.Close()

	if err := loader.Load(file, cfg); err != nil {
		return pkgerrors.NewValidationError(fmt.Sprintf("failed to parse %s", path)).WithCause(err)
	}
	l.sources = append(l.sources, path)
	return nil
}

// loadEnvironmentVariables overlays GRAPHEDIT_* variables on the configuration
func (l *Loader) loadEnvironmentVariables(cfg *Config) error {
	strs := map[string]*string{
		"LOG_LEVEL":        &cfg.Logging.Level,
		"LOG_FORMAT":       &cfg.Logging.Format,
		"LOG_FILE":         &cfg.Logging.File,
		"STORAGE_ROOT":     &cfg.Storage.Root,
		"SNAPSHOT_DB":      &cfg.Storage.SnapshotDB,
		"METRICS_TEXTFILE": &cfg.Metrics.TextfilePath,
		"LABEL_PREFIX":     &cfg.Domain.LabelPrefix,
	}
	for key, target := range strs {
		if val := l.getenv(EnvPrefix + key); val != "" {
			*target = val
		}
	}

	if val := l.getenv(EnvPrefix + "METRICS_ENABLED"); val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return envError("METRICS_ENABLED", val, err)
		}
		cfg.Metrics.Enabled = b
	}
	if val := l.getenv(EnvPrefix + "HIT_RADIUS"); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return envError("HIT_RADIUS", val, err)
		}
		cfg.Domain.HitRadius = f
	}
	if val := l.getenv(EnvPrefix + "WATCH_DEBOUNCE_MS"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return envError("WATCH_DEBOUNCE_MS", val, err)
		}
		cfg.Watch.DebounceMS = n
	}
	return nil
}

func envError(key, val string, err error) error {
	return pkgerrors.NewValidationError(fmt.Sprintf("invalid %s%s value %q", EnvPrefix, key, val)).WithCause(err)
}

// Sources returns where the last Load read configuration from
func (l *Loader) Sources() []string {
	return l.sources
}

// YAMLLoader loads configuration from YAML files
type YAMLLoader struct{}

func (y *YAMLLoader) Load(reader io.Reader, target interface{}) error {
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)
	if err := decoder.Decode(target); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func (y *YAMLLoader) Extensions() []string {
	return []string{"yaml", "yml"}
}

// TOMLLoader loads configuration from TOML files
type TOMLLoader struct{}

func (t *TOMLLoader) Load(reader io.Reader, target interface{}) error {
	meta, err := toml.NewDecoder(reader).Decode(target)
	if err != nil {
		return err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown keys: %v", undecoded)
	}
	return nil
}

func (t *TOMLLoader) Extensions() []string {
	return []string{"toml"}
}

// LoadWithLoader loads configuration from the OS filesystem
func LoadWithLoader(path string) (*Config, error) {
	return NewLoader(afero.NewOsFs(), getEnvironment()).Load(path)
}
