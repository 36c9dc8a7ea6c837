package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/alecthomas/kong"

	"github.com/julianstephens/trackfit/internal/constants"
	"github.com/julianstephens/trackfit/internal/models"
)

// Backend names a storage.Provider implementation.
type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendJSON     Backend = "json"
	BackendPostgres Backend = "postgres"
	BackendMemory   Backend = "memory"
)

type Config struct {
	// storage
	Backend Backend `toml:"backend"`
	Storage string  `toml:"storage"` // file or directory; unused for postgres
	// logging
	Debug    bool   `toml:"debug"`
	LogLevel string `toml:"log_level"`

	Health Health `toml:"health"`
	API    API    `toml:"api"`

	dir string
}

type Health struct {
	URL         string        `toml:"url"`
	File        string        `toml:"file"`
	Categories  []string      `toml:"categories"`
	CacheTTL    time.Duration `toml:"cache_ttl"`
	CacheSizeMB int           `toml:"cache_size_mb"`
	Timeout     time.Duration `toml:"timeout"`
}

type API struct {
	Listen      string `toml:"listen"`
	MetricsFile string `toml:"metrics_file"`
}

func Default(dir string) Config {
	dir = kong.ExpandPath(dir)
	return Config{
		Backend: BackendSQLite,
		Storage: filepath.Join(dir, constants.DefaultDBFile),
		Health: Health{
			Categories:  []string{string(models.CategoryWalking)},
			CacheTTL:    constants.DefaultHealthCacheTTL,
			CacheSizeMB: constants.DefaultHealthCacheSizeMB,
			Timeout:     constants.DefaultHTTPTimeout,
		},
		API: API{Listen: constants.DefaultListenAddr},
		dir: dir,
	}
}

// Load reads path over the defaults and applies environment overrides. A
// missing file is not an error.
func Load(path string) (Config, error) {
	path = kong.ExpandPath(path)
	cfg := Default(filepath.Dir(path))

	if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg.applyEnv()
	cfg.Storage = kong.ExpandPath(cfg.Storage)
	cfg.Health.File = expandOptional(cfg.Health.File)
	cfg.API.MetricsFile = expandOptional(cfg.API.MetricsFile)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func expandOptional(p string) string {
	if p == "" {
		return ""
	}
	return kong.ExpandPath(p)
}

func (c *Config) applyEnv() {
	if v := os.Getenv(constants.EnvStorage); v != "" {
		c.Backend, c.Storage = InferBackend(v)
	}
	if v := os.Getenv(constants.EnvHealthURL); v != "" {
		c.Health.URL = v
	}
}

// InferBackend maps a --storage style value to a backend.
func InferBackend(v string) (Backend, string) {
	switch {
	case v == string(BackendMemory):
		return BackendMemory, ""
	case v == string(BackendPostgres), strings.HasPrefix(v, "postgres://"), strings.HasPrefix(v, "postgresql://"):
		return BackendPostgres, v
	case strings.HasSuffix(v, ".db"), strings.HasSuffix(v, ".sqlite"):
		return BackendSQLite, v
	default:
		return BackendJSON, v
	}
}

func (c Config) Validate() error {
	switch c.Backend {
	case BackendSQLite, BackendJSON:
		if c.Storage == "" {
			return fmt.Errorf("storage path is required for the %s backend", c.Backend)
		}
	case BackendPostgres, BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Backend)
	}
	if c.LogLevel != "" {
		switch strings.ToLower(c.LogLevel) {
		case "debug", "info", "warn", "error", "fatal":
		default:
			return fmt.Errorf("unknown log level %q", c.LogLevel)
		}
	}
	if c.Health.CacheTTL < 0 || c.Health.Timeout < 0 {
		return errors.New("health durations must not be negative")
	}
	if _, err := c.SyncCategories(); err != nil {
		return err
	}
	return nil
}

// SyncCategories parses the categories requested from the health source.
func (c Config) SyncCategories() ([]models.Category, error) {
	if len(c.Health.Categories) == 0 {
		return []models.Category{models.CategoryWalking}, nil
	}
	out := make([]models.Category, 0, len(c.Health.Categories))
	for _, s := range c.Health.Categories {
		cat, err := models.ParseCategory(s)
		if err != nil {
			return nil, fmt.Errorf("health.categories: %w", err)
		}
		out = append(out, cat)
	}
	return out, nil
}

// Dir is the directory holding the config file, logs and default storage.
func (c Config) Dir() string {
	return c.dir
}

// Write saves the config as TOML, creating the directory as needed.
func (c Config) Write(path string) error {
	path = kong.ExpandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(c)
}
