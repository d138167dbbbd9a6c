// Package config loads layered configuration: process environment settings
// plus optional YAML files describing framework and project registrations.
package config

import (
	"os"
	"strconv"
)

// Environment variable names.
const (
	EnvLogLevel       = "AGENTLAYER_LOG_LEVEL"
	EnvLogFormat      = "AGENTLAYER_LOG_FORMAT"
	EnvModelCacheSize = "AGENTLAYER_MODEL_CACHE_SIZE"
	EnvDefaultModel   = "AGENTLAYER_DEFAULT_MODEL"
	EnvDefaultMaxTok  = "AGENTLAYER_DEFAULT_MAX_TOKENS"
	EnvBuiltinTools   = "AGENTLAYER_BUILTIN_TOOLS"
)

// Settings holds process-level configuration read from the environment.
type Settings struct {
	// LogLevel is the minimum log level ("debug", "info", "warning",
	// "error"). Default "info".
	LogLevel string

	// LogFormat selects "json" or "text" log output. Default "json".
	LogFormat string

	// ModelCacheSize bounds the model client LRU. Default 100.
	ModelCacheSize int

	// DefaultModel is the framework-default model id.
	DefaultModel string

	// DefaultMaxTokens is the framework-default completion cap.
	DefaultMaxTokens int64

	// EnableBuiltinTools registers the builtin tool set at startup.
	// Default true.
	EnableBuiltinTools bool
}

// LoadSettings reads settings from the environment, applying defaults for
// anything unset.
func LoadSettings() Settings {
	return Settings{
		LogLevel:           envOr(EnvLogLevel, "info"),
		LogFormat:          envOr(EnvLogFormat, "json"),
		ModelCacheSize:     envInt(EnvModelCacheSize, 100),
		DefaultModel:       envOr(EnvDefaultModel, "claude-3-5-sonnet-20241022"),
		DefaultMaxTokens:   int64(envInt(EnvDefaultMaxTok, 4096)),
		EnableBuiltinTools: envBool(EnvBuiltinTools, true),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}

	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}

	return b
}
