package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	herrors "github.com/matzehuels/hiveplot/pkg/errors"
	"github.com/matzehuels/hiveplot/pkg/hive"
)

// =============================================================================
// Config - TOML Configuration File
// =============================================================================

// configEnv names the environment variable holding an explicit config path.
const configEnv = "HIVEPLOT_CONFIG"

// Config is the hiveplot configuration file. Every key is optional;
// command-line flags override file values.
//
//	[layout]
//	canvas_radius = 5000
//	num_axes = 3
//	axis_metric = "betweenness"
//	node_order_metric = "degree"
//
//	[cache]
//	redis_url = "redis://localhost:6379/0"
//	compress = true
//
//	[store]
//	sqlite = "positions.db"
//
//	[server]
//	addr = ":8080"
type Config struct {
	Layout hive.Options `toml:"layout"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig selects the layout cache backend.
type CacheConfig struct {
	Disabled bool   `toml:"disabled"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url" validate:"omitempty,url"`
	Compress bool   `toml:"compress"`
	Prefix   string `toml:"prefix" validate:"max=64"`
}

// StoreConfig configures the optional write-back stores.
type StoreConfig struct {
	SQLite          string `toml:"sqlite"`
	MongoURI        string `toml:"mongo_uri" validate:"omitempty,url"`
	MongoDatabase   string `toml:"mongo_database" validate:"required_with=MongoURI"`
	MongoCollection string `toml:"mongo_collection"`
}

// ServerConfig configures `hiveplot serve`.
type ServerConfig struct {
	Addr           string `toml:"addr" validate:"required"`
	RequestTimeout int    `toml:"request_timeout_seconds" validate:"min=0"`
}

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() Config {
	return Config{
		Layout: hive.DefaultOptions(),
		Store:  StoreConfig{MongoDatabase: appName},
		Server: ServerConfig{Addr: ":8080", RequestTimeout: 60},
	}
}

var configValidator = validator.New()

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	if err := configValidator.Struct(c); err != nil {
		return herrors.Wrap(herrors.ErrCodeInvalidConfig, formatConfigError(err), "config")
	}
	return nil
}

func formatConfigError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := strings.TrimPrefix(e.Namespace(), "Config.")
		switch e.Tag() {
		case "url":
			msgs = append(msgs, fmt.Sprintf("%s: %q is not a valid URL", field, e.Value()))
		case "required", "required_with":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "gt", "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, e.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", field, e.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// =============================================================================
// Loading
// =============================================================================

// configPaths returns the config file candidates in search order: the
// explicit path, $HIVEPLOT_CONFIG, ./hiveplot.toml and the user config
// directory.
func configPaths(explicit string) []string {
	var paths []string
	if explicit != "" {
		paths = append(paths, explicit)
	}
	if env := os.Getenv(configEnv); env != "" {
		paths = append(paths, env)
	}
	paths = append(paths, appName+".toml")
	if dir, err := configDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "config.toml"))
	}
	return paths
}

// loadConfig reads the first config file found and returns it with the
// path it came from. An explicit path that does not exist is an error;
// missing implicit candidates are skipped. With no file at all the
// defaults are returned and the path is empty.
func loadConfig(explicit string) (Config, string, error) {
	cfg := DefaultConfig()
	for i, path := range configPaths(explicit) {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			if i == 0 && explicit != "" {
				return cfg, "", herrors.New(herrors.ErrCodeFileNotFound, "config file not found: %s", path)
			}
			continue
		}

		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return cfg, path, herrors.Wrap(herrors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for j, k := range undecoded {
				keys[j] = k.String()
			}
			return cfg, path, herrors.New(herrors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
		if err := cfg.Validate(); err != nil {
			return cfg, path, fmt.Errorf("%s: %w", path, err)
		}
		return cfg, path, nil
	}
	return cfg, "", nil
}
