// Package config loads the command line tool's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/supersphincs/supersphincs-go"
)

// Environment variables read by Load.
const (
	EnvHome      = "SUPERSPHINCS_HOME"
	EnvRSABits   = "SUPERSPHINCS_RSA_BITS"
	EnvSPHINCS   = "SUPERSPHINCS_PARAMETER_SET"
	EnvLogLevel  = "SUPERSPHINCS_LOG_LEVEL"
	EnvLogFormat = "SUPERSPHINCS_LOG_FORMAT"
	EnvPassword  = "SUPERSPHINCS_PASSWORD"
)

const defaultDirName = ".supersphincs"

// Config is the complete CLI configuration.
type Config struct {
	Home                string        `yaml:"home"`
	RSABits             int           `yaml:"rsa_bits"`
	SPHINCSParameterSet string        `yaml:"sphincs_parameter_set"`
	Logging             LoggingConfig `yaml:"logging"`

	// Password is never read from the file.
	Password string `yaml:"-"`
}

// LoggingConfig controls logging behavior
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	home := defaultDirName
	if dir, err := os.UserHomeDir(); err == nil {
		home = filepath.Join(dir, defaultDirName)
	}
	return &Config{
		Home:                home,
		RSABits:             supersphincs.DefaultRSABits,
		SPHINCSParameterSet: supersphincs.DefaultSPHINCSParameterSet,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a YAML file over the defaults and applies environment variable
// overrides. An empty path skips the file. A missing file at the default
// location is not an error; pass required to insist on it.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()

	if path != "" {
		// #nosec G304 - path is provided by the user
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		case errors.Is(err, os.ErrNotExist) && !required:
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// DefaultPath returns the config file location under the default home.
func DefaultPath() string {
	return filepath.Join(Default().Home, "config.yaml")
}

func applyEnvOverrides(cfg *Config) {
	if home := os.Getenv(EnvHome); home != "" {
		cfg.Home = home
	}
	if bits := os.Getenv(EnvRSABits); bits != "" {
		n, err := strconv.Atoi(bits)
		if err != nil {
			slog.Warn("ignoring invalid environment value", "var", EnvRSABits, "value", bits, "error", err)
		} else {
			cfg.RSABits = n
		}
	}
	if set := os.Getenv(EnvSPHINCS); set != "" {
		cfg.SPHINCSParameterSet = set
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.Logging.Level = level
	}
	if format := os.Getenv(EnvLogFormat); format != "" {
		cfg.Logging.Format = format
	}
	if pw, ok := os.LookupEnv(EnvPassword); ok {
		cfg.Password = pw
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Home) == "" {
		return fmt.Errorf("home directory is required")
	}
	if !slices.Contains(supersphincs.RSABitSizes(), c.RSABits) {
		return fmt.Errorf("invalid rsa_bits: %d (must be one of %v)", c.RSABits, supersphincs.RSABitSizes())
	}
	if !slices.Contains(supersphincs.SPHINCSParameterSets(), c.SPHINCSParameterSet) {
		return fmt.Errorf("invalid sphincs_parameter_set: %q", c.SPHINCSParameterSet)
	}
	if _, err := c.Logging.SlogLevel(); err != nil {
		return err
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s (must be json or text)", c.Logging.Format)
	}
	return nil
}

// SlogLevel maps Level to a slog.Level.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", l.Level)
}

// KeyStoreDir is where key entries live.
func (c *Config) KeyStoreDir() string {
	return filepath.Join(c.Home, "keys")
}

// SchemeOptions returns the library options the configuration selects.
func (c *Config) SchemeOptions() []supersphincs.Option {
	return []supersphincs.Option{
		supersphincs.WithRSABits(c.RSABits),
		supersphincs.WithSPHINCSParameterSet(c.SPHINCSParameterSet),
	}
}
