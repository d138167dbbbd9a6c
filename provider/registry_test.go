package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/agentlayer/registry"
	"github.com/stretchr/testify/assert"
)

// fakeCompleter records the config and key it was built with.
type fakeCompleter struct {
	cfg Config
	key string
}

func (f *fakeCompleter) Complete(_ context.Context, _, prompt string) (string, error) {
	return "echo: " + prompt, nil
}

func (f *fakeCompleter) Info() Info {
	return Info{Provider: f.cfg.Provider, ModelID: f.cfg.ModelID}
}

func newTestRegistry(optFns ...func(o *Options)) (*Registry, *int) {
	builds := 0

	fns := append([]func(o *Options){func(o *Options) {
		o.Factory = func(cfg Config, key string) (Completer, error) {
			builds++
			return &fakeCompleter{cfg: cfg, key: key}, nil
		}
	}}, optFns...)

	return NewRegistry(fns...), &builds
}

func float64Ptr(v float64) *float64 { return &v }

// -------------------- Resolution Tests --------------------

func TestCompleterFor_DefaultsOnly(t *testing.T) {
	r, _ := newTestRegistry()

	c, err := r.CompleterFor(Config{}, "")
	assert.NoError(t, err)
	assert.Equal(t, Anthropic, c.Info().Provider)
	assert.Equal(t, "claude-3-5-sonnet-20241022", c.Info().ModelID)
}

func TestCompleterFor_ProjectOverlaysDefaults(t *testing.T) {
	r, _ := newTestRegistry()

	assert.NoError(t, r.RegisterProject("acme", Config{
		Provider: OpenAI,
		ModelID:  "gpt-4o-mini",
	}))

	c, err := r.CompleterFor(Config{}, "acme")
	assert.NoError(t, err)
	assert.Equal(t, OpenAI, c.Info().Provider)
	assert.Equal(t, "gpt-4o-mini", c.Info().ModelID)
}

func TestCompleterFor_AgentOverlaysProject(t *testing.T) {
	r, _ := newTestRegistry()

	assert.NoError(t, r.RegisterProject("acme", Config{
		Provider: OpenAI,
		ModelID:  "gpt-4o-mini",
	}))

	c, err := r.CompleterFor(Config{ModelID: "gpt-4o"}, "acme")
	assert.NoError(t, err)
	// The agent changes the model but inherits the project's provider.
	assert.Equal(t, OpenAI, c.Info().Provider)
	assert.Equal(t, "gpt-4o", c.Info().ModelID)
}

func TestCompleterFor_UnknownProjectUsesDefaults(t *testing.T) {
	r, _ := newTestRegistry()

	c, err := r.CompleterFor(Config{}, "ghost")
	assert.NoError(t, err)
	assert.Equal(t, Anthropic, c.Info().Provider)
}

func TestRegisterProject_Duplicate(t *testing.T) {
	r, _ := newTestRegistry()

	assert.NoError(t, r.RegisterProject("acme", Config{}))

	err := r.RegisterProject("acme", Config{})

	var conflict *registry.ConflictError
	assert.True(t, errors.As(err, &conflict))
	assert.Equal(t, registry.ScopeProject, conflict.Scope)
}

// -------------------- API Key Resolution Tests --------------------

func TestKeyResolution_AgentKeyWins(t *testing.T) {
	t.Setenv(AnthropicKeyEnv, "env-key")

	r, _ := newTestRegistry()

	assert.NoError(t, r.RegisterProject("acme", Config{APIKey: "project-key"}))

	c, err := r.CompleterFor(Config{APIKey: "agent-key"}, "acme")
	assert.NoError(t, err)
	assert.Equal(t, "agent-key", c.(*fakeCompleter).key)
}

func TestKeyResolution_ProjectKeyEnv(t *testing.T) {
	t.Setenv("ACME_KEY", "acme-secret")
	t.Setenv(AnthropicKeyEnv, "default-secret")

	r, _ := newTestRegistry()

	assert.NoError(t, r.RegisterProject("acme", Config{APIKeyEnv: "ACME_KEY"}))

	c, err := r.CompleterFor(Config{}, "acme")
	assert.NoError(t, err)
	assert.Equal(t, "acme-secret", c.(*fakeCompleter).key)
}

func TestKeyResolution_FallsBackToProviderDefaultEnv(t *testing.T) {
	t.Setenv(OpenAIKeyEnv, "openai-secret")

	r, _ := newTestRegistry()

	c, err := r.CompleterFor(Config{Provider: OpenAI, ModelID: "gpt-4o"}, "")
	assert.NoError(t, err)
	assert.Equal(t, "openai-secret", c.(*fakeCompleter).key)
}

// -------------------- Cache Tests --------------------

func TestCompleterFor_CachesByFingerprint(t *testing.T) {
	r, builds := newTestRegistry()

	_, err := r.CompleterFor(Config{}, "")
	assert.NoError(t, err)

	_, err = r.CompleterFor(Config{}, "")
	assert.NoError(t, err)

	assert.Equal(t, 1, *builds)

	hits, misses := r.CacheStats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)

	// A different model is a different client.
	_, err = r.CompleterFor(Config{ModelID: "claude-3-haiku"}, "")
	assert.NoError(t, err)
	assert.Equal(t, 2, *builds)
}

func TestCompleterFor_TemperatureAffectsFingerprint(t *testing.T) {
	r, builds := newTestRegistry()

	_, err := r.CompleterFor(Config{Temperature: float64Ptr(0.2)}, "")
	assert.NoError(t, err)

	_, err = r.CompleterFor(Config{Temperature: float64Ptr(0.9)}, "")
	assert.NoError(t, err)

	assert.Equal(t, 2, *builds)
}

func TestRegistry_UnknownProvider(t *testing.T) {
	r := NewRegistry()

	_, err := r.CompleterFor(Config{Provider: "carrier-pigeon"}, "")

	var unknown *UnknownProviderError
	assert.True(t, errors.As(err, &unknown))
	assert.Equal(t, "carrier-pigeon", unknown.Provider)
}

func TestRegistry_Reset(t *testing.T) {
	r, _ := newTestRegistry()

	assert.NoError(t, r.RegisterProject("acme", Config{}))

	_, err := r.CompleterFor(Config{}, "")
	assert.NoError(t, err)
	assert.Equal(t, 1, r.CacheLen())

	r.Reset()

	assert.Equal(t, 0, r.CacheLen())
	assert.NoError(t, r.RegisterProject("acme", Config{}))
}
