package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables read by Load
const (
	EnvAPIKey      = "NOTION_API_KEY"
	EnvLogLevel    = "LOG_LEVEL"
	EnvBlockPolicy = "NOTION_BLOCK_POLICY"
	EnvOutputDir   = "OUTPUT_DIR"
)

const (
	defaultLogLevel  = "info"
	defaultOutputDir = "output"
)

// ErrMissingAPIKey is returned when no Notion token is configured
var ErrMissingAPIKey = fmt.Errorf("%s is not set", EnvAPIKey)

// Config holds the process configuration
type Config struct {
	APIKey     string
	LogLevel   string
	OutputDir  string
	PolicyFile string
}

// Load reads the configuration from the environment, loading envFile first
// when it exists. A missing env file is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		APIKey:     os.Getenv(EnvAPIKey),
		LogLevel:   getEnv(EnvLogLevel, defaultLogLevel),
		OutputDir:  getEnv(EnvOutputDir, defaultOutputDir),
		PolicyFile: os.Getenv(EnvBlockPolicy),
	}

	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
