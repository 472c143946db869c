// Package config provides configuration management.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"craftwiz/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// APIKey is the Hypixel API key sent with profile requests
	APIKey string `yaml:"api_key"`

	// PlayerDataDir holds cached profile lists for the file backend
	PlayerDataDir string `yaml:"player_data_dir"`

	// PlayerCacheDuration is how long a cached profile list stays fresh
	PlayerCacheDuration time.Duration `yaml:"player_cache_duration"`

	// ItemsFolder holds one recipe JSON file per item
	ItemsFolder string `yaml:"items_folder"`

	API     APIConfig      `yaml:"api"`
	HTTP    HTTPConfig     `yaml:"http"`
	Cache   CacheConfig    `yaml:"cache"`
	Logging logging.Config `yaml:"logging"`
	Output  OutputConfig   `yaml:"output"`
}

// APIConfig holds upstream base URLs. Tests point these at local servers.
type APIConfig struct {
	HypixelBaseURL string `yaml:"hypixel_base_url"`
	MojangBaseURL  string `yaml:"mojang_base_url"`
}

// HTTPConfig tunes the shared fetch client
type HTTPConfig struct {
	Timeout     time.Duration `yaml:"timeout"`
	MaxRetries  int           `yaml:"max_retries"`
	BackoffBase time.Duration `yaml:"backoff_base"`
}

// CacheConfig selects and configures the player cache backend
type CacheConfig struct {
	// Backend is one of memory, file, sqlite, redis
	Backend string `yaml:"backend"`

	// SQLitePath is the database file for the sqlite backend
	SQLitePath string `yaml:"sqlite_path"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	// MemoryTTL bounds the in-process tier and the bazaar snapshot
	MemoryTTL time.Duration `yaml:"memory_ttl"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// Top is how many ranked crafts to print
	Top int `yaml:"top"`

	// Format is text or json
	Format string `yaml:"format"`
}

const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"

	FormatText = "text"
	FormatJSON = "json"
)

// Default returns a default configuration
func Default() *Config {
	return &Config{
		PlayerDataDir:       "player_data",
		PlayerCacheDuration: 10 * time.Minute,
		ItemsFolder:         "items",
		API: APIConfig{
			HypixelBaseURL: "https://api.hypixel.net",
			MojangBaseURL:  "https://api.mojang.com",
		},
		HTTP: HTTPConfig{
			Timeout:     10 * time.Second,
			MaxRetries:  3,
			BackoffBase: 500 * time.Millisecond,
		},
		Cache: CacheConfig{
			Backend:    BackendFile,
			SQLitePath: filepath.Join("player_data", "cache.db"),
			RedisAddr:  "localhost:6379",
			MemoryTTL:  time.Minute,
		},
		Logging: logging.DefaultConfig(),
		Output: OutputConfig{
			Top:    5,
			Format: FormatText,
		},
	}
}

// Load reads a YAML file over the defaults, then applies environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(raw, cfg); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}
	}
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("HYPIXEL_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := getenv("CRAFTWIZ_ITEMS_DIR"); v != "" {
		c.ItemsFolder = v
	}
	if v := getenv("CRAFTWIZ_CACHE_DIR"); v != "" {
		c.PlayerDataDir = v
		c.Cache.SQLitePath = filepath.Join(v, "cache.db")
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Cache.RedisAddr = v
	}
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error
	if c.PlayerCacheDuration < 0 {
		errs = append(errs, fmt.Errorf("player_cache_duration must not be negative, got %s", c.PlayerCacheDuration))
	}
	if c.ItemsFolder == "" {
		errs = append(errs, errors.New("items_folder is required"))
	}
	if c.HTTP.MaxRetries < 1 {
		errs = append(errs, fmt.Errorf("http.max_retries must be at least 1, got %d", c.HTTP.MaxRetries))
	}
	if c.HTTP.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("http.timeout must be positive, got %s", c.HTTP.Timeout))
	}
	switch c.Cache.Backend {
	case BackendMemory:
	case BackendFile:
		if c.PlayerDataDir == "" {
			errs = append(errs, errors.New("player_data_dir is required for the file cache"))
		}
	case BackendSQLite:
		if c.Cache.SQLitePath == "" {
			errs = append(errs, errors.New("cache.sqlite_path is required for the sqlite cache"))
		}
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			errs = append(errs, errors.New("cache.redis_addr is required for the redis cache"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown cache.backend %q", c.Cache.Backend))
	}
	if c.Output.Top < 1 {
		errs = append(errs, fmt.Errorf("output.top must be at least 1, got %d", c.Output.Top))
	}
	switch strings.ToLower(c.Output.Format) {
	case FormatText, FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("unknown output.format %q", c.Output.Format))
	}
	return errors.Join(errs...)
}

var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
