package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/agentlayer/hook"
	"github.com/hupe1980/agentlayer/provider"
)

// File is the top-level YAML configuration document. It declares the
// framework-scope defaults and any number of project scopes.
type File struct {
	Framework ScopeSection            `yaml:"framework"`
	Projects  map[string]ScopeSection `yaml:"projects"`
}

// ScopeSection holds the declarative settings one scope contributes.
type ScopeSection struct {
	Model         *ModelSection `yaml:"model"`
	Hooks         *HooksSection `yaml:"hooks"`
	DisabledTools []string      `yaml:"disabled_tools"`
}

// ModelSection mirrors provider.Config in YAML form.
type ModelSection struct {
	Provider    string   `yaml:"provider"`
	ModelID     string   `yaml:"model_id"`
	Temperature *float64 `yaml:"temperature"`
	MaxTokens   int64    `yaml:"max_tokens"`
	APIKeyEnv   string   `yaml:"api_key_env"`
}

// HooksSection mirrors the builtin guardrail toggles of hook.Config in YAML
// form. Omitted fields inherit from the scope below.
type HooksSection struct {
	EnableContentSafety *bool    `yaml:"enable_content_safety"`
	ContentSafetyLevel  string   `yaml:"content_safety_level"`
	EnablePIIFilter     *bool    `yaml:"enable_pii_filter"`
	PIITypes            []string `yaml:"pii_types"`
	EnableQualityCheck  *bool    `yaml:"enable_quality_check"`
	MinOutputLength     int      `yaml:"min_output_length"`
	MaxOutputLength     *int     `yaml:"max_output_length"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return Parse(data)
}

// Parse parses YAML configuration bytes.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &f, nil
}

// HookConfig converts a YAML hooks section to a hook.Config. A nil section
// yields a zero config, which inherits everything.
func (s ScopeSection) HookConfig() hook.Config {
	if s.Hooks == nil {
		return hook.Config{}
	}

	return hook.Config{
		EnableContentSafety: s.Hooks.EnableContentSafety,
		ContentSafetyLevel:  s.Hooks.ContentSafetyLevel,
		EnablePIIFilter:     s.Hooks.EnablePIIFilter,
		PIITypes:            s.Hooks.PIITypes,
		EnableQualityCheck:  s.Hooks.EnableQualityCheck,
		MinOutputLength:     s.Hooks.MinOutputLength,
		MaxOutputLength:     s.Hooks.MaxOutputLength,
	}
}

// ModelConfig converts a YAML model section to a provider.Config. A nil
// section yields a zero config, which inherits everything.
func (s ScopeSection) ModelConfig() provider.Config {
	if s.Model == nil {
		return provider.Config{}
	}

	return provider.Config{
		Provider:    s.Model.Provider,
		ModelID:     s.Model.ModelID,
		Temperature: s.Model.Temperature,
		MaxTokens:   s.Model.MaxTokens,
		APIKeyEnv:   s.Model.APIKeyEnv,
	}
}
