// Package config loads astviz settings.
//
// Settings are layered, later sources winning:
//
//  1. Built-in defaults ([Default])
//  2. A TOML file, by default $XDG_CONFIG_HOME/astviz/config.toml
//  3. A .env file in the working directory
//  4. ASTVIZ_* environment variables
//
// Command-line flags are applied on top by the CLI.
package config

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/matzehuels/astviz/pkg/ast"
	"github.com/matzehuels/astviz/pkg/cache"
	"github.com/matzehuels/astviz/pkg/errors"
)

const appName = "astviz"

// Cache backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Config is the full settings tree.
type Config struct {
	AST    ast.Keys     `toml:"ast"`
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Watch  WatchConfig  `toml:"watch"`
}

// RenderConfig holds artifact defaults.
type RenderConfig struct {
	Formats []string `toml:"formats" validate:"min=1,dive,oneof=svg png pdf dot json"`
	Scale   float64  `toml:"scale" validate:"gt=0"`
}

// CacheConfig selects and tunes the artifact cache.
type CacheConfig struct {
	Backend  string        `toml:"backend" validate:"oneof=file memory redis none"`
	Dir      string        `toml:"dir" validate:"required_if=Backend file"`
	Size     int           `toml:"size" validate:"gte=0"`
	RedisURL string        `toml:"redis_url" validate:"required_if=Backend redis"`
	Prefix   string        `toml:"prefix"`
	TTL      time.Duration `toml:"ttl" validate:"gte=0"`
}

// ServerConfig configures `astviz serve`.
type ServerConfig struct {
	Addr string `toml:"addr" validate:"required"`
}

// WatchConfig configures `astviz watch`.
type WatchConfig struct {
	URL string `toml:"url" validate:"omitempty,url,startswith=ws"`
}

// Default returns the built-in settings.
func Default() *Config {
	dir, _ := CacheDir()
	return &Config{
		AST: ast.DefaultKeys,
		Render: RenderConfig{
			Formats: []string{"svg"},
			Scale:   2.0,
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			Dir:     dir,
			Size:    cache.DefaultLRUSize,
			Prefix:  appName + ":",
			TTL:     cache.TTLArtifact,
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Load builds the configuration from path (or the default location when path
// is empty), the .env file, and the environment, then validates it.
// A missing default file is not an error; a missing explicit one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if err := cfg.loadFile(path, explicit); err != nil {
		return nil, err
	}

	// .env is optional.
	_ = godotenv.Load()
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string, explicit bool) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return nil
	}
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// ApplyEnv overrides settings from ASTVIZ_* variables looked up with lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}
	str("ASTVIZ_TYPE_KEY", &c.AST.Type)
	str("ASTVIZ_REF_KEY", &c.AST.Ref)
	str("ASTVIZ_CACHE_BACKEND", &c.Cache.Backend)
	str("ASTVIZ_CACHE_DIR", &c.Cache.Dir)
	str("ASTVIZ_REDIS_URL", &c.Cache.RedisURL)
	str("ASTVIZ_SERVER_ADDR", &c.Server.Addr)
	str("ASTVIZ_WATCH_URL", &c.Watch.URL)

	if v, ok := lookup("ASTVIZ_FORMATS"); ok && v != "" {
		c.Render.Formats = SplitList(v)
	}
	if v, ok := lookup("ASTVIZ_SCALE"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "ASTVIZ_SCALE")
		}
		c.Render.Scale = f
	}
	if v, ok := lookup("ASTVIZ_CACHE_SIZE"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "ASTVIZ_CACHE_SIZE")
		}
		c.Cache.Size = n
	}
	if v, ok := lookup("ASTVIZ_CACHE_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "ASTVIZ_CACHE_TTL")
		}
		c.Cache.TTL = d
	}
	return nil
}

// OpenCache builds the configured cache backend, wrapped so cache hooks
// observe it.
func (c CacheConfig) OpenCache(ctx context.Context) (cache.Cache, error) {
	var (
		backend cache.Cache
		err     error
	)
	switch c.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendMemory:
		backend, err = cache.NewLRUCache(c.Size)
	case BackendRedis:
		backend, err = cache.NewRedisCache(ctx, c.RedisURL, c.Prefix)
	case BackendFile, "":
		backend, err = cache.NewFileCache(c.Dir)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Backend)
	}
	if err != nil {
		return nil, err
	}
	return cache.Observe(backend), nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field, reporting all violations in one error.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "validate config")
	}
	fields := make([]string, len(verrs))
	for i, fe := range verrs {
		fields[i] = fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag())
	}
	return errors.New(errors.ErrCodeInvalidConfig, "invalid config: %s", strings.Join(fields, ", "))
}

// SplitList splits a comma-separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// DefaultPath returns the config file location using XDG standard
// (~/.config/astviz/config.toml). It is empty when no home is known.
func DefaultPath() string {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// CacheDir returns the cache directory using XDG standard (~/.cache/astviz/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
