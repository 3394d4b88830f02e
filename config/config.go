// Package config loads the jormap CLI configuration. Sources are applied in
// order, later ones winning: defaults, a YAML file, JORMAP_* environment
// variables, command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/shrek82/jormap/validator"
)

// DefaultPath is read when no -config flag or JORMAP_CONFIG is given. It may
// be absent.
const DefaultPath = "jormap.yaml"

type CacheConfig struct {
	Provider     string        `yaml:"provider"`
	RedisAddr    string        `yaml:"redis_addr"`
	FileDir      string        `yaml:"file_dir"`
	TTL          time.Duration `yaml:"ttl"`
	RegionPrefix string        `yaml:"region_prefix"`
}

type Config struct {
	MappingDir      string      `yaml:"mapping_dir"`
	Schema          string      `yaml:"schema"`
	Driver          string      `yaml:"driver"`
	DSN             string      `yaml:"dsn"`
	Naming          string      `yaml:"naming"`
	LogLevel        string      `yaml:"log_level"`
	LogFormat       string      `yaml:"log_format"`
	ContinueOnError bool        `yaml:"continue_on_error"`
	Listen          string      `yaml:"listen"`
	Dump            bool        `yaml:"dump"`
	Cache           CacheConfig `yaml:"cache"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MappingDir: "mappings",
		Naming:     "default",
		LogLevel:   "info",
		LogFormat:  "text",
		Cache: CacheConfig{
			Provider: "none",
			TTL:      5 * time.Minute,
		},
	}
}

func rules() validator.Rules {
	return validator.Rules{
		"MappingDir":      {validator.Required.Msg("mapping directory is required")},
		"Driver":          {validator.In("", "mysql", "postgres", "sqlite3")},
		"Naming":          {validator.In("default", "snake")},
		"LogLevel":        {validator.In("silent", "error", "warn", "info", "debug")},
		"LogFormat":       {validator.In("text", "json")},
		"Listen":          {validator.HostPort.Optional()},
		"Cache.Provider":  {validator.In("none", "memory", "file", "redis")},
		"Cache.RedisAddr": {validator.HostPort.Optional()},
		"Cache.TTL":       {validator.Range(0, float64(24*time.Hour))},
	}
}

// Validate checks value domains and cross-field requirements.
func (c *Config) Validate() error {
	var errs []error
	if err := rules().Validate(c); err != nil {
		errs = append(errs, err)
	}
	if c.Driver != "" && c.DSN == "" {
		errs = append(errs, fmt.Errorf("dsn is required when driver %s is set", c.Driver))
	}
	if c.Cache.Provider == "redis" && c.Cache.RedisAddr == "" {
		errs = append(errs, fmt.Errorf("cache.redis_addr is required for the redis provider"))
	}
	if c.Cache.Provider == "file" && c.Cache.FileDir == "" {
		errs = append(errs, fmt.Errorf("cache.file_dir is required for the file provider"))
	}
	return errors.Join(errs...)
}

// LoadFile overlays the YAML file at path onto c.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// Load builds the configuration from all sources. args excludes the program
// name. Unset environment and flags leave earlier values alone.
func Load(args []string, getenv func(string) string, output io.Writer) (Config, error) {
	cfg := Default()

	path, explicit := configPath(args, getenv)
	if err := cfg.LoadFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return cfg, err
	}

	flags := flag.NewFlagSet("jormap", flag.ContinueOnError)
	flags.SetOutput(output)
	flags.String("config", path, "Path to YAML config")
	flags.StringVar(&cfg.MappingDir, "mappings", cfg.MappingDir, "Directory of *.hbm.xml mapping documents")
	flags.StringVar(&cfg.Schema, "schema", cfg.Schema, "Default schema for mapped tables")
	flags.StringVar(&cfg.Driver, "driver", cfg.Driver, "Database driver for schema validation (mysql/postgres/sqlite3)")
	flags.StringVar(&cfg.DSN, "dsn", cfg.DSN, "Database DSN")
	flags.StringVar(&cfg.Naming, "naming", cfg.Naming, "Naming strategy (default/snake)")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
	flags.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text/json)")
	flags.BoolVar(&cfg.ContinueOnError, "continue-on-error", cfg.ContinueOnError, "Keep loading after a mapping error")
	flags.StringVar(&cfg.Listen, "listen", cfg.Listen, "Serve metadata API on this address")
	flags.BoolVar(&cfg.Dump, "dump", cfg.Dump, "Dump the bound catalog")
	flags.StringVar(&cfg.Cache.Provider, "cache", cfg.Cache.Provider, "Cache provider (none/memory/file/redis)")
	flags.StringVar(&cfg.Cache.RedisAddr, "redis-addr", cfg.Cache.RedisAddr, "Redis address for the redis cache")
	flags.StringVar(&cfg.Cache.FileDir, "cache-dir", cfg.Cache.FileDir, "Directory for the file cache")
	flags.DurationVar(&cfg.Cache.TTL, "cache-ttl", cfg.Cache.TTL, "Cache entry TTL")
	if err := flags.Parse(args); err != nil {
		return cfg, err
	}

	cfg.trim()
	return cfg, cfg.Validate()
}

func configPath(args []string, getenv func(string) string) (string, bool) {
	for i, a := range args {
		name, value, hasValue := strings.Cut(strings.TrimLeft(a, "-"), "=")
		if !strings.HasPrefix(a, "-") || name != "config" {
			continue
		}
		if hasValue {
			return value, true
		}
		if i+1 < len(args) {
			return args[i+1], true
		}
	}
	if p := strings.TrimSpace(getenv("JORMAP_CONFIG")); p != "" {
		return p, true
	}
	return DefaultPath, false
}

func (c *Config) applyEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	str("JORMAP_MAPPING_DIR", &c.MappingDir)
	str("JORMAP_SCHEMA", &c.Schema)
	str("JORMAP_DRIVER", &c.Driver)
	str("JORMAP_DSN", &c.DSN)
	str("JORMAP_NAMING", &c.Naming)
	str("JORMAP_LOG_LEVEL", &c.LogLevel)
	str("JORMAP_LOG_FORMAT", &c.LogFormat)
	str("JORMAP_LISTEN", &c.Listen)
	str("JORMAP_CACHE_PROVIDER", &c.Cache.Provider)
	str("JORMAP_REDIS_ADDR", &c.Cache.RedisAddr)
	str("JORMAP_CACHE_DIR", &c.Cache.FileDir)
	str("JORMAP_CACHE_REGION_PREFIX", &c.Cache.RegionPrefix)

	if v := strings.ToLower(strings.TrimSpace(getenv("JORMAP_CONTINUE_ON_ERROR"))); v != "" {
		switch v {
		case "1", "true", "yes":
			c.ContinueOnError = true
		case "0", "false", "no":
			c.ContinueOnError = false
		}
	}
	if v := strings.TrimSpace(getenv("JORMAP_CACHE_TTL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("JORMAP_CACHE_TTL: %w", err)
		}
		c.Cache.TTL = d
	}
	return nil
}

func (c *Config) trim() {
	for _, s := range []*string{&c.MappingDir, &c.Schema, &c.Driver, &c.DSN, &c.Naming, &c.LogLevel, &c.LogFormat, &c.Listen} {
		*s = strings.TrimSpace(*s)
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
}
