package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	for _, k := range []string{"SERVER_PORT", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "MAX_ITERATIONS", "SOLVE_TIMEOUT", "LOG_LEVEL", "MIGRATIONS_PATH", "SOLUTION_RETENTION"} {
		t.Setenv(k, "")
	}
	assert.Equal(t, 8080, ServerPort())
	assert.Equal(t, ":8080", ServerAddr())
	assert.Equal(t, 100.0, RateLimitRPS())
	assert.Equal(t, 20, RateLimitBurst())
	assert.Equal(t, 15, MaxIterations())
	assert.Equal(t, 30*time.Second, SolveTimeout())
	assert.Equal(t, "info", LogLevel())
	assert.Equal(t, "migrations", MigrationsPath())
	assert.Zero(t, SolutionRetention())
}

func TestInvalidValuesFallBack(t *testing.T) {
	tests := []struct {
		key, value string
		check      func(t *testing.T)
	}{
		{"MAX_ITERATIONS", "-3", func(t *testing.T) { assert.Equal(t, 15, MaxIterations()) }},
		{"MAX_ITERATIONS", "many", func(t *testing.T) { assert.Equal(t, 15, MaxIterations()) }},
		{"RATE_LIMIT_RPS", "0", func(t *testing.T) { assert.Equal(t, 100.0, RateLimitRPS()) }},
		{"SOLUTION_RETENTION", "-1h", func(t *testing.T) { assert.Zero(t, SolutionRetention()) }},
		{"SOLUTION_RETENTION", "720h", func(t *testing.T) { assert.Equal(t, 720*time.Hour, SolutionRetention()) }},
		{"SOLVE_TIMEOUT", "soon", func(t *testing.T) { assert.Equal(t, 30*time.Second, SolveTimeout()) }},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			tt.check(t)
		})
	}
}

func TestLoadReadsEnvFileAndSecret(t *testing.T) {
	dir := t.TempDir()
	env := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(env, []byte("MAX_ITERATIONS=7\n"), 0o600))
	require.NoError(t, os.WriteFile(env+".secret", []byte("DATABASE_URL=postgres://solver@localhost/geo\n"), 0o600))

	t.Setenv("GEOSOLVE_ENV", env)
	t.Setenv("MAX_ITERATIONS", "")
	t.Setenv("DATABASE_URL", "")
	os.Unsetenv("MAX_ITERATIONS")
	os.Unsetenv("DATABASE_URL")

	require.NoError(t, Load())
	assert.Equal(t, 7, MaxIterations())
	assert.Equal(t, "postgres://solver@localhost/geo", DatabaseURL())
}

func TestNewLogger(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	logger, err := NewLogger()
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1))

	t.Setenv("LOG_LEVEL", "loud")
	logger, err = NewLogger()
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(-1), "unknown levels fall back to info")
}

func TestParseLogLevel(t *testing.T) {
	level, err := ParseLogLevel("warn")
	require.NoError(t, err)
	logger, err := NewLoggerAt(level)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(0), "info is below warn")
	assert.True(t, logger.Core().Enabled(1))

	_, err = ParseLogLevel("chatty")
	assert.EqualError(t, err, `invalid log level "chatty"`)
}
