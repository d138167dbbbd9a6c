package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleYAML = `
framework:
  model:
    provider: anthropic
    model_id: claude-3-5-sonnet-20241022
    max_tokens: 2048
  hooks:
    enable_content_safety: true
    content_safety_level: moderate
projects:
  acme:
    model:
      provider: openai
      model_id: gpt-4o-mini
      temperature: 0.2
      api_key_env: ACME_OPENAI_KEY
    hooks:
      enable_pii_filter: true
      pii_types: [email, ssn]
    disabled_tools:
      - web_search
  globex:
    hooks:
      enable_content_safety: false
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(sampleYAML))
	assert.NoError(t, err)

	assert.NotNil(t, f.Framework.Model)
	assert.Equal(t, int64(2048), f.Framework.Model.MaxTokens)

	acme, ok := f.Projects["acme"]
	assert.True(t, ok)
	assert.Equal(t, []string{"web_search"}, acme.DisabledTools)
	assert.NotNil(t, acme.Model.Temperature)
	assert.InDelta(t, 0.2, *acme.Model.Temperature, 1e-9)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("framework: [not a map"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agentlayer.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	f, err := Load(path)
	assert.NoError(t, err)
	assert.Contains(t, f.Projects, "globex")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestScopeSection_HookConfig(t *testing.T) {
	f, err := Parse([]byte(sampleYAML))
	assert.NoError(t, err)

	cfg := f.Framework.HookConfig()
	assert.NotNil(t, cfg.EnableContentSafety)
	assert.True(t, *cfg.EnableContentSafety)
	assert.Equal(t, "moderate", cfg.ContentSafetyLevel)

	// Untouched toggles stay nil so inheritance works.
	assert.Nil(t, cfg.EnablePIIFilter)

	acme := f.Projects["acme"].HookConfig()
	assert.Equal(t, []string{"email", "ssn"}, acme.PIITypes)

	globex := f.Projects["globex"].HookConfig()
	assert.NotNil(t, globex.EnableContentSafety)
	assert.False(t, *globex.EnableContentSafety)

	// A section without hooks yields the zero config.
	empty := ScopeSection{}
	assert.Nil(t, empty.HookConfig().EnableContentSafety)
}

func TestScopeSection_ModelConfig(t *testing.T) {
	f, err := Parse([]byte(sampleYAML))
	assert.NoError(t, err)

	acme := f.Projects["acme"].ModelConfig()
	assert.Equal(t, "openai", acme.Provider)
	assert.Equal(t, "gpt-4o-mini", acme.ModelID)
	assert.Equal(t, "ACME_OPENAI_KEY", acme.APIKeyEnv)

	empty := ScopeSection{}
	assert.Empty(t, empty.ModelConfig().Provider)
}

func TestLoadSettings_Defaults(t *testing.T) {
	for _, key := range []string{EnvLogLevel, EnvLogFormat, EnvModelCacheSize, EnvDefaultModel, EnvDefaultMaxTok, EnvBuiltinTools} {
		t.Setenv(key, "")
	}

	s := LoadSettings()
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, "json", s.LogFormat)
	assert.Equal(t, 100, s.ModelCacheSize)
	assert.Equal(t, int64(4096), s.DefaultMaxTokens)
	assert.True(t, s.EnableBuiltinTools)
}

func TestLoadSettings_Environment(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvModelCacheSize, "10")
	t.Setenv(EnvBuiltinTools, "false")

	s := LoadSettings()
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, 10, s.ModelCacheSize)
	assert.False(t, s.EnableBuiltinTools)
}

func TestLoadSettings_MalformedValuesFallBack(t *testing.T) {
	t.Setenv(EnvModelCacheSize, "lots")
	t.Setenv(EnvBuiltinTools, "maybe")

	s := LoadSettings()
	assert.Equal(t, 100, s.ModelCacheSize)
	assert.True(t, s.EnableBuiltinTools)
}
