// Package config loads, validates, and persists idremap configuration.
//
// Precedence (lowest to highest): built-in defaults, the YAML config file
// (~/.idremap/config.yaml unless overridden), IDREMAP_* environment
// variables, CLI flags (applied by the cli package).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Built-in defaults for the job and service sections.
const (
	DefaultChunkSize      = 1000
	DefaultSleepInterval  = 5 * time.Second
	DefaultMaxRetries     = 10
	DefaultOutputFormat   = "tab"
	DefaultParallel       = 1
	DefaultRequestTimeout = 60 * time.Second
	DefaultBaseURL        = "https://www.uniprot.org/uploadlists/"
	DefaultCacheTTL       = 24 * time.Hour
)

// Environment variables recognized as overrides.
const (
	EnvHome         = "IDREMAP_HOME"
	EnvContactEmail = "IDREMAP_CONTACT_EMAIL"
	EnvBaseURL      = "IDREMAP_BASE_URL"
	EnvLogLevel     = "IDREMAP_LOG_LEVEL"
	EnvLogFormat    = "IDREMAP_LOG_FORMAT"
	EnvCacheEnabled = "IDREMAP_CACHE_ENABLED"
)

// Validation errors.
var (
	ErrChunkSize     = errors.New("chunk_size must be >= 1")
	ErrSleepInterval = errors.New("sleep_interval must be >= 0")
	ErrMaxRetries    = errors.New("max_retries must be >= 0")
	ErrParallel      = errors.New("parallel must be >= 1")
	ErrContactEmail  = errors.New("contact_email is required")
)

// Duration wraps time.Duration so YAML files can use "5s" / "1m30s" notation.
type Duration time.Duration

// UnmarshalYAML parses a duration string or an integer number of seconds.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if secs, err := strconv.Atoi(value.Value); err == nil {
		*d = Duration(time.Duration(secs) * time.Second)
		return nil
	}
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration in time.Duration string notation.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// JobConfig holds the batching and retry parameters for a mapping job.
type JobConfig struct {
	// ChunkSize is the number of identifiers per outbound request.
	ChunkSize int `yaml:"chunk_size"`

	// SleepInterval is the pause between attempts and between chunks.
	SleepInterval Duration `yaml:"sleep_interval"`

	// MaxRetries is the number of retries allowed per chunk after the
	// first attempt. Zero means a single attempt.
	MaxRetries int `yaml:"max_retries"`

	// ContactEmail is attached to outbound requests per service policy.
	ContactEmail string `yaml:"contact_email"`

	// OutputFormat is the response format requested from the service.
	OutputFormat string `yaml:"output_format"`

	// Parallel is the number of chunks mapped concurrently.
	Parallel int `yaml:"parallel"`
}

// Validate checks the job parameters against their allowed ranges.
func (j JobConfig) Validate() error {
	if j.ChunkSize < 1 {
		return fmt.Errorf("%w: got %d", ErrChunkSize, j.ChunkSize)
	}
	if j.SleepInterval < 0 {
		return fmt.Errorf("%w: got %s", ErrSleepInterval, j.SleepInterval.Std())
	}
	if j.MaxRetries < 0 {
		return fmt.Errorf("%w: got %d", ErrMaxRetries, j.MaxRetries)
	}
	if j.Parallel < 1 {
		return fmt.Errorf("%w: got %d", ErrParallel, j.Parallel)
	}
	if j.ContactEmail == "" {
		return ErrContactEmail
	}
	return nil
}

// ServiceConfig holds parameters of the remote mapping service.
type ServiceConfig struct {
	// BaseURL is the mapping endpoint.
	BaseURL string `yaml:"base_url"`

	// RequestTimeout bounds each individual attempt.
	RequestTimeout Duration `yaml:"request_timeout"`
}

// CacheConfig controls the on-disk response cache.
type CacheConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Directory string   `yaml:"directory"`
	TTL       Duration `yaml:"ttl"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the full idremap configuration.
type Config struct {
	Job     JobConfig     `yaml:"job"`
	Service ServiceConfig `yaml:"service"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`

	configPath string
}

// Default returns a Config populated with built-in defaults.
func Default() *Config {
	home := HomeDir()
	return &Config{
		Job: JobConfig{
			ChunkSize:     DefaultChunkSize,
			SleepInterval: Duration(DefaultSleepInterval),
			MaxRetries:    DefaultMaxRetries,
			OutputFormat:  DefaultOutputFormat,
			Parallel:      DefaultParallel,
		},
		Service: ServiceConfig{
			BaseURL:        DefaultBaseURL,
			RequestTimeout: Duration(DefaultRequestTimeout),
		},
		Cache: CacheConfig{
			Enabled:   true,
			Directory: filepath.Join(home, "cache"),
			TTL:       Duration(DefaultCacheTTL),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "",
		},
		configPath: filepath.Join(home, "config.yaml"),
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// the file does not exist), and environment overrides. An empty path means
// the default config location.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		cfg.configPath = path
	}

	data, err := os.ReadFile(cfg.configPath)
	switch {
	case err == nil:
		if unmarshalErr := yaml.Unmarshal(data, cfg); unmarshalErr != nil {
			return nil, fmt.Errorf("parsing config %s: %w", cfg.configPath, unmarshalErr)
		}
	case os.IsNotExist(err):
		// No config file is fine; defaults apply.
	default:
		return nil, fmt.Errorf("reading config %s: %w", cfg.configPath, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays IDREMAP_* environment variables onto the config.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvContactEmail); v != "" {
		c.Job.ContactEmail = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.Service.BaseURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvCacheEnabled); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Cache.Enabled = enabled
		}
	}
}

// Save writes the config as YAML to its config path, creating the parent
// directory when needed.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(c.configPath), 0o750); mkdirErr != nil {
		return fmt.Errorf("creating config directory: %w", mkdirErr)
	}

	if writeErr := os.WriteFile(c.configPath, data, 0o600); writeErr != nil {
		return fmt.Errorf("writing config %s: %w", c.configPath, writeErr)
	}
	return nil
}

// ConfigPath returns the path the config was loaded from or will be saved to.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// SetConfigPath overrides the config file location.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// HomeDir resolves the idremap home directory: $IDREMAP_HOME if set,
// otherwise ~/.idremap. Falls back to a relative .idremap when the user
// home cannot be determined.
func HomeDir() string {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".idremap"
	}
	return filepath.Join(home, ".idremap")
}
