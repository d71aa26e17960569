package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Load reads the .env file specified by GEOSOLVE_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("GEOSOLVE_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

// DatabaseURL is optional. Without it solutions are not persisted.
func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

func MigrationsPath() string {
	p := os.Getenv("MIGRATIONS_PATH")
	if p == "" {
		return "migrations"
	}
	return p
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// MaxIterations returns the default round ceiling for the inference engine.
// Defaults to 15 if not set.
func MaxIterations() int {
	n, err := strconv.Atoi(os.Getenv("MAX_ITERATIONS"))
	if err != nil || n <= 0 {
		return 15
	}
	return n
}

// SolveTimeout bounds a single solve request.
// Defaults to 30s if not set.
func SolveTimeout() time.Duration {
	d, err := time.ParseDuration(os.Getenv("SOLVE_TIMEOUT"))
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// SolutionRetention is how long stored solutions are kept. Zero or an
// unparsable value disables pruning.
func SolutionRetention() time.Duration {
	d, err := time.ParseDuration(os.Getenv("SOLUTION_RETENTION"))
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}

// NewLogger builds a production logger at LogLevel. An unknown level falls
// back to info.
func NewLogger() (*zap.Logger, error) {
	level, err := ParseLogLevel(LogLevel())
	if err != nil {
		level = zapcore.InfoLevel
	}
	return NewLoggerAt(level)
}

// ParseLogLevel accepts the names zap understands (debug, info, warn, error).
func ParseLogLevel(s string) (zapcore.Level, error) {
	level, err := zapcore.ParseLevel(s)
	if err != nil {
		return level, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// NewLoggerAt builds the production logger at a fixed level. Output goes to
// stderr, so the CLI's stdout carries only solutions.
func NewLoggerAt(level zapcore.Level) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}
