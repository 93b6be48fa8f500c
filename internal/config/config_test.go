package config

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigWithDefaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.Equal(t, "*.txt", cfg.FilePattern)
	assert.Equal(t, 9, cfg.HeaderLines)
	assert.Equal(t, 1, cfg.UnitsLines)
	assert.GreaterOrEqual(t, cfg.Workers, 1)
	assert.LessOrEqual(t, cfg.Workers, 8)
	assert.LessOrEqual(t, cfg.Workers, runtime.NumCPU())
}

func TestOptions(t *testing.T) {
	tests := []struct {
		name  string
		opt   Option
		check func(t *testing.T, cfg *Config)
	}{
		{
			name:  "environment",
			opt:   WithEnvironment("development"),
			check: func(t *testing.T, cfg *Config) { assert.Equal(t, "development", cfg.Environment) },
		},
		{
			name:  "log level",
			opt:   WithLogLevel("debug"),
			check: func(t *testing.T, cfg *Config) { assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel) },
		},
		{
			name:  "invalid log level is ignored",
			opt:   WithLogLevel("chatty"),
			check: func(t *testing.T, cfg *Config) { assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel) },
		},
		{
			name:  "file pattern",
			opt:   WithFilePattern("*.dat"),
			check: func(t *testing.T, cfg *Config) { assert.Equal(t, "*.dat", cfg.FilePattern) },
		},
		{
			name:  "header lines",
			opt:   WithHeaderLines(12),
			check: func(t *testing.T, cfg *Config) { assert.Equal(t, 12, cfg.HeaderLines) },
		},
		{
			name:  "workers",
			opt:   WithWorkers(3),
			check: func(t *testing.T, cfg *Config) { assert.Equal(t, 3, cfg.Workers) },
		},
		{
			name:  "non-positive workers are ignored",
			opt:   WithWorkers(0),
			check: func(t *testing.T, cfg *Config) { assert.GreaterOrEqual(t, cfg.Workers, 1) },
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tt.check(t, New(tt.opt))
		})
	}
}

func TestInitializeLogging(t *testing.T) {
	defer func(level zerolog.Level, logger zerolog.Logger) {
		zerolog.SetGlobalLevel(level)
		log.Logger = logger
	}(zerolog.GlobalLevel(), log.Logger)

	var buf bytes.Buffer
	cfg := New(WithEnvironment("production"), WithLogLevel("debug"), WithLogOutput(&buf))
	cfg.InitializeLogging()

	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	log.Info().Str("file", "a.txt").Msg("hello")
	assert.Contains(t, buf.String(), `"file":"a.txt"`)

	buf.Reset()
	local := New(WithEnvironment("local"), WithLogOutput(&buf))
	local.InitializeLogging()
	log.Info().Msg("console")
	assert.Contains(t, buf.String(), "console")
	assert.NotContains(t, buf.String(), `"message"`)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("TIDAL_FILE_PATTERN", "*.dat")
	t.Setenv("TIDAL_HEADER_LINES", "7")
	t.Setenv("TIDAL_WORKERS", "2")

	cfg := LoadFromEnv()
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, zerolog.WarnLevel, cfg.LogLevel)
	assert.Equal(t, "*.dat", cfg.FilePattern)
	assert.Equal(t, 7, cfg.HeaderLines)
	assert.Equal(t, 2, cfg.Workers)

	overridden := LoadFromEnv(WithWorkers(5), WithLogLevel("debug"))
	assert.Equal(t, 5, overridden.Workers)
	assert.Equal(t, zerolog.DebugLevel, overridden.LogLevel)
}

func TestLoadFromEnvInvalidValues(t *testing.T) {
	t.Setenv("TIDAL_WORKERS", "many")
	t.Setenv("TIDAL_HEADER_LINES", "-3")

	cfg := LoadFromEnv()
	require.NotNil(t, cfg)
	assert.GreaterOrEqual(t, cfg.Workers, 1)
	assert.Equal(t, 9, cfg.HeaderLines)
}
