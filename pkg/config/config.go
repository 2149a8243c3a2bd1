// Package config reads run configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/vsinha/demandplan/pkg/infrastructure/logger"
)

// Config is the process configuration
type Config struct {
	Run    RunConfig
	Output OutputConfig
	SQL    SQLConfig
	Logger logger.LoggerConfig
}

// RunConfig controls the generation itself
type RunConfig struct {
	Seed     int64
	Parallel bool
	Quiet    bool
}

// OutputConfig controls where and how results are written
type OutputConfig struct {
	Dir      string
	Format   string
	XLSXPath string
}

// SQLConfig selects an optional SQL target. An empty driver disables it.
type SQLConfig struct {
	Driver string
	DSN    string
}

// LoadEnv reads configuration from environment variables with defaults.
// A .env file, if any, must be loaded by the caller first.
func LoadEnv() *Config {
	return &Config{
		Run: RunConfig{
			Seed:     getEnvInt64("DEMANDPLAN_SEED", 42),
			Parallel: getEnvBool("DEMANDPLAN_PARALLEL", false),
			Quiet:    getEnvBool("DEMANDPLAN_QUIET", false),
		},
		Output: OutputConfig{
			Dir:      getEnv("DEMANDPLAN_OUTPUT_DIR", "data"),
			Format:   strings.ToLower(getEnv("DEMANDPLAN_FORMAT", "text")),
			XLSXPath: getEnv("DEMANDPLAN_XLSX_PATH", ""),
		},
		SQL: SQLConfig{
			Driver: strings.ToLower(getEnv("DEMANDPLAN_SQL_DRIVER", "")),
			DSN:    getEnv("DEMANDPLAN_SQL_DSN", ""),
		},
		Logger: logger.LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "info"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			Development:       getEnvBool("LOGGER_DEVELOPMENT", false),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", true),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
