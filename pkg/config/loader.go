package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	errs "github.com/matzehuels/radialtree/pkg/errors"
)

// Search locations for config files.
const (
	// GlobalConfigDir is the XDG config directory name.
	GlobalConfigDir = "radialtree"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.toml"
	// ProjectConfigFile is the project-local config file name.
	ProjectConfigFile = "radialtree.toml"
	// EnvFile is loaded into the process environment before overrides apply.
	EnvFile = ".env"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "RADIALTREE_"
)

// Load builds the configuration from defaults, config files and the
// environment. explicit is the --config path, or empty. The result is
// validated.
func Load(explicit string) (*Config, error) {
	cfg := Default()

	if err := loadEnvFile(EnvFile); err != nil {
		return nil, err
	}

	if path := globalConfigPath(); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}
	if err := loadFile(cfg, ProjectConfigFile); err != nil {
		return nil, err
	}
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "config file %s", explicit)
		}
		if err := loadFile(cfg, explicit); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// globalConfigPath returns the global config path, which may not exist.
func globalConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, GlobalConfigDir, GlobalConfigFile)
}

// loadFile decodes a TOML file over cfg. Keys absent from the file keep
// their current values. A missing file is not an error.
func loadFile(cfg *Config, path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	return nil
}

// loadEnvFile loads a dotenv file if present. Variables already set in the
// environment win.
func loadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "load %s", path)
	}
	return nil
}

// envVar binds one RADIALTREE_* variable to a config field.
type envVar struct {
	name  string
	apply func(c *Config, v string) error
}

func str(field func(*Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error { *field(c) = v; return nil }
}

func float(field func(*Config) *float64) func(*Config, string) error {
	return func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*field(c) = f
		return nil
	}
}

var envVars = []envVar{
	{"RADIUS_SCALE", float(func(c *Config) *float64 { return &c.Layout.RadiusScale })},
	{"SPREAD", float(func(c *Config) *float64 { return &c.Layout.Spread })},
	{"STORE_BACKEND", str(func(c *Config) *string { return &c.Store.Backend })},
	{"STORE_PATH", str(func(c *Config) *string { return &c.Store.Path })},
	{"MONGO_URI", str(func(c *Config) *string { return &c.Store.MongoURI })},
	{"MONGO_DATABASE", str(func(c *Config) *string { return &c.Store.MongoDatabase })},
	{"MONGO_COLLECTION", str(func(c *Config) *string { return &c.Store.MongoCollection })},
	{"CACHE_BACKEND", str(func(c *Config) *string { return &c.Cache.Backend })},
	{"CACHE_DIR", str(func(c *Config) *string { return &c.Cache.Dir })},
	{"REDIS_ADDR", str(func(c *Config) *string { return &c.Cache.RedisAddr })},
	{"CACHE_TTL", func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		c.Cache.TTL = d
		return nil
	}},
	{"RENDER_FORMATS", func(c *Config, v string) error {
		var formats []string
		for _, f := range strings.Split(v, ",") {
			if f = strings.TrimSpace(f); f != "" {
				formats = append(formats, f)
			}
		}
		c.Render.Formats = formats
		return nil
	}},
	{"SERVER_ADDR", str(func(c *Config) *string { return &c.Server.Addr })},
	{"LOG_FILE", str(func(c *Config) *string { return &c.Server.LogFile })},
}

// ApplyEnv overrides fields from RADIALTREE_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, ev := range envVars {
		v, ok := lookup(EnvPrefix + ev.name)
		if !ok {
			continue
		}
		if err := ev.apply(c, v); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "%s%s", EnvPrefix, ev.name)
		}
	}
	return nil
}
