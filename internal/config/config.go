package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"relinker/internal/domain"
)

// Defaults. The root identifiers are the two trees the tool was first built
// to reconcile; most runs override them.
const (
	DefaultProjectPath   = "."
	DefaultAssetsRoot    = "Assets"
	DefaultFilter        = "t:Object"
	DefaultSourceGUID    = "f6c90ecc3623ea84fbcd10153e8dcabb"
	DefaultReferenceGUID = "37c611f499cb40bc93b707bcc4bbe39c"
	DefaultLogLevel      = "info"
)

// Environment variables
const (
	EnvProjectPath   = "RELINKER_PROJECT"
	EnvAssetsRoot    = "RELINKER_ASSETS_ROOT"
	EnvFilter        = "RELINKER_FILTER"
	EnvSourceGUID    = "RELINKER_SOURCE_GUID"
	EnvReferenceGUID = "RELINKER_REFERENCE_GUID"
	EnvLogLevel      = "RELINKER_LOG_LEVEL"
	EnvLogFile       = "RELINKER_LOG_FILE"
)

// Config holds the relink settings
type Config struct {
	ProjectPath   string
	AssetsRoot    string
	Filter        string
	SourceGUID    string
	ReferenceGUID string
	LogLevel      string
	LogFile       string
}

// Load reads .env files (the working directory's .env when none are given)
// and then the environment. A missing default .env is not an error.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("failed to load env files: %w", err)
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a Config from environment variables and defaults
func FromEnv() *Config {
	return &Config{
		ProjectPath:   getenv(EnvProjectPath, DefaultProjectPath),
		AssetsRoot:    strings.Trim(getenv(EnvAssetsRoot, DefaultAssetsRoot), "/"),
		Filter:        getenv(EnvFilter, DefaultFilter),
		SourceGUID:    getenv(EnvSourceGUID, DefaultSourceGUID),
		ReferenceGUID: getenv(EnvReferenceGUID, DefaultReferenceGUID),
		LogLevel:      getenv(EnvLogLevel, DefaultLogLevel),
		LogFile:       strings.TrimSpace(os.Getenv(EnvLogFile)),
	}
}

// Validate checks values that would otherwise fail late
func (c *Config) Validate() error {
	if c.AssetsRoot == "" {
		return fmt.Errorf("%s must not be empty", EnvAssetsRoot)
	}
	if _, err := domain.ParseSearchFilter(c.Filter); err != nil {
		return fmt.Errorf("%s: %w", EnvFilter, err)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%s: %w", EnvLogLevel, err)
	}
	return nil
}

// SearchFilter compiles the configured filter
func (c *Config) SearchFilter() (*domain.SearchFilter, error) {
	return domain.ParseSearchFilter(c.Filter)
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
