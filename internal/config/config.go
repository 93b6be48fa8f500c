package config

import (
	"io"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Environment string
	LogLevel    zerolog.Level
	LogOutput   io.Writer
	FilePattern string
	HeaderLines int
	UnitsLines  int
	Workers     int
}

type Option func(*Config)

// WithEnvironment allows setting the environment
func WithEnvironment(env string) Option {
	return func(c *Config) {
		c.Environment = env
	}
}

// WithLogLevel allows setting the log level
func WithLogLevel(level string) Option {
	return func(c *Config) {
		parsedLevel, err := zerolog.ParseLevel(level)
		if err != nil {
			parsedLevel = zerolog.InfoLevel
		}
		c.LogLevel = parsedLevel
	}
}

// WithLogOutput sends log lines to w instead of stdout
func WithLogOutput(w io.Writer) Option {
	return func(c *Config) {
		c.LogOutput = w
	}
}

// WithFilePattern sets the glob used to discover station files
func WithFilePattern(pattern string) Option {
	return func(c *Config) {
		if pattern != "" {
			c.FilePattern = pattern
		}
	}
}

// WithHeaderLines sets the number of descriptive lines before the column header
func WithHeaderLines(n int) Option {
	return func(c *Config) {
		if n >= 0 {
			c.HeaderLines = n
		}
	}
}

// WithWorkers sets how many station files are parsed concurrently
func WithWorkers(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.Workers = n
		}
	}
}

// New creates a new configuration with default values
func New(opts ...Option) *Config {
	cfg := &Config{
		Environment: "production",
		LogLevel:    zerolog.InfoLevel,
		LogOutput:   os.Stdout,
		FilePattern: "*.txt",
		HeaderLines: 9,
		UnitsLines:  1,
		Workers:     defaultWorkers(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// InitializeLogging sets up logging based on the configuration
func (c *Config) InitializeLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(c.LogLevel)

	if c.Environment == "local" || c.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: c.LogOutput})
	} else {
		log.Logger = zerolog.New(c.LogOutput).
			With().
			Timestamp().
			Logger()
	}
}

// LoadFromEnv loads configuration from environment variables. Options passed
// in are applied after the environment and win over it.
func LoadFromEnv(opts ...Option) *Config {
	envOpts := []Option{
		WithEnvironment(getEnvOrDefault("ENV", "production")),
		WithLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
		WithFilePattern(getEnvOrDefault("TIDAL_FILE_PATTERN", "*.txt")),
		WithHeaderLines(getEnvInt("TIDAL_HEADER_LINES", 9)),
		WithWorkers(getEnvInt("TIDAL_WORKERS", defaultWorkers())),
	}
	return New(append(envOpts, opts...)...)
}

func defaultWorkers() int {
	n := runtime.NumCPU()
	if n > 8 {
		n = 8
	}
	return n
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnvOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Helper functions to get environment variables with defaults
func getEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Msg("Invalid integer value in environment variable, using default")
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
