// Package provider resolves model client configuration across the scope
// ladder and hands out cached completion clients. Agent settings win over
// project settings, which win over framework defaults; API keys resolve the
// same way, falling back to well-known environment variables.
//
// Clients are cached by configuration fingerprint in an LRU so repeated
// resolutions for the same provider, model and key reuse one client.
package provider

import (
	"context"
	"fmt"
	"os"
)

// Provider identifiers understood by the registry.
const (
	Anthropic = "anthropic"
	OpenAI    = "openai"
)

// Default environment variables consulted when no scope supplies a key.
const (
	AnthropicKeyEnv = "ANTHROPIC_API_KEY"
	OpenAIKeyEnv    = "OPENAI_API_KEY"
)

// Config is the model configuration one scope contributes. Zero values mean
// "inherit from the scope below".
type Config struct {
	// Provider selects the backend ("anthropic" or "openai").
	Provider string

	// ModelID is the provider-specific model identifier.
	ModelID string

	// Temperature is the sampling temperature. Nil means inherit.
	Temperature *float64

	// MaxTokens caps the completion length. Zero means inherit.
	MaxTokens int64

	// APIKey is an explicit key for this scope. Takes precedence over
	// APIKeyEnv.
	APIKey string

	// APIKeyEnv names an environment variable holding the key.
	APIKeyEnv string
}

// merge overlays set fields of cfg onto the receiver and returns the result.
func (c Config) merge(cfg Config) Config {
	if cfg.Provider != "" {
		c.Provider = cfg.Provider
	}
	if cfg.ModelID != "" {
		c.ModelID = cfg.ModelID
	}
	if cfg.Temperature != nil {
		c.Temperature = cfg.Temperature
	}
	if cfg.MaxTokens > 0 {
		c.MaxTokens = cfg.MaxTokens
	}
	if cfg.APIKey != "" {
		c.APIKey = cfg.APIKey
		c.APIKeyEnv = ""
	} else if cfg.APIKeyEnv != "" {
		c.APIKeyEnv = cfg.APIKeyEnv
		c.APIKey = ""
	}

	return c
}

// resolveKey returns the API key for a merged config: explicit key first,
// then the named environment variable, then the provider's default variable.
func (c Config) resolveKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}

	if c.APIKeyEnv != "" {
		if v := os.Getenv(c.APIKeyEnv); v != "" {
			return v
		}
	}

	switch c.Provider {
	case OpenAI:
		return os.Getenv(OpenAIKeyEnv)
	default:
		return os.Getenv(AnthropicKeyEnv)
	}
}

// Info contains metadata about a completer implementation.
type Info struct {
	Provider string
	ModelID  string
}

// Completer is the minimal completion interface the registry hands out.
type Completer interface {
	// Complete sends a system prompt and user prompt and returns the
	// model's text response.
	Complete(ctx context.Context, system, prompt string) (string, error)

	// Info returns metadata describing this completer.
	Info() Info
}

// UnknownProviderError reports a provider id the registry cannot build a
// client for.
type UnknownProviderError struct {
	Provider string
}

// Error implements the error interface.
func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown model provider %q", e.Provider)
}
