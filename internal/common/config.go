package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Pipeline PipelineConfig
}

// ServerConfig holds MCP server configuration
type ServerConfig struct {
	Addr  string
	Stdio bool
}

// StoreConfig holds record-store configuration
type StoreConfig struct {
	DBPath string
}

// PipelineConfig holds batch-processing configuration
type PipelineConfig struct {
	InvoiceDir     string
	RulesPath      string
	MaxConcurrency int
	DocTimeout     time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:  getEnv("MCP_ADDR", ":8000"),
			Stdio: getEnvAsBool("MCP_STDIO", false),
		},
		Store: StoreConfig{
			DBPath: getEnv("DB_PATH", "invoices.db"),
		},
		Pipeline: PipelineConfig{
			InvoiceDir:     getEnv("INVOICE_DIR", "."),
			RulesPath:      getEnv("RULES_PATH", ""),
			MaxConcurrency: getEnvAsInt("MAX_CONCURRENCY", 4),
			DocTimeout:     getEnvAsDuration("DOC_TIMEOUT", 0),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if !c.Server.Stdio && c.Server.Addr == "" {
		return NewAppError(CodeConfig, "MCP_ADDR is required", ErrInvalidInput)
	}
	if c.Pipeline.MaxConcurrency < 1 {
		return NewAppError(CodeConfig, "MAX_CONCURRENCY must be at least 1", ErrInvalidInput)
	}
	return nil
}
