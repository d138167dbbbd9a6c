package agentlayer

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/hupe1980/agentlayer/config"
	"github.com/hupe1980/agentlayer/hook"
	"github.com/hupe1980/agentlayer/logging"
	"github.com/hupe1980/agentlayer/provider"
	"github.com/hupe1980/agentlayer/tool"
	"github.com/stretchr/testify/assert"
)

func newBareLayer(t *testing.T) *AgentLayer {
	t.Helper()

	layer, err := New(func(o *Options) {
		o.EnableBuiltinTools = false
	})
	assert.NoError(t, err)

	return layer
}

func namedTool(name, result string) tool.Tool {
	return tool.NewFunctionTool(name, name+" tool",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ context.Context, _ map[string]any) (any, error) {
			return result, nil
		},
	)
}

func TestNew_RegistersBuiltinTools(t *testing.T) {
	layer, err := New()
	assert.NoError(t, err)

	names := layer.Tools().FrameworkTools()
	assert.Contains(t, names, "http_request")
	assert.Contains(t, names, "web_search")
}

func TestNew_BuiltinToolsDisabled(t *testing.T) {
	layer := newBareLayer(t)
	assert.Empty(t, layer.Tools().FrameworkTools())
}

func TestEndToEnd_ToolResolution(t *testing.T) {
	layer := newBareLayer(t)

	assert.NoError(t, layer.RegisterFrameworkTools(
		namedTool("search", "public"),
		namedTool("calculator", "42"),
	))

	assert.NoError(t, layer.RegisterProjectTools(tool.ProjectConfig{
		ProjectID: "acme",
		Overrides: []tool.Override{{
			ToolName:    "search",
			Mode:        tool.OverrideReplace,
			Replacement: namedTool("search", "internal"),
		}},
		CustomTools:   []tool.Tool{namedTool("ticket_lookup", "ticket")},
		DisabledTools: []string{"calculator"},
	}))

	tools := layer.ToolsForAgent(nil, nil, "acme")

	var names []string
	for _, tl := range tools {
		names = append(names, tl.Name())
	}
	assert.Equal(t, []string{"search", "ticket_lookup"}, names)

	result, err := tools[0].Call(context.Background(), nil)
	assert.NoError(t, err)
	assert.Equal(t, "internal", result)

	// Another project sees the untouched framework set.
	tools = layer.ToolsForAgent(nil, nil, "other")
	assert.Len(t, tools, 2)
}

func TestEndToEnd_HookResolution(t *testing.T) {
	layer := newBareLayer(t)

	var trace []string

	assert.NoError(t, layer.RegisterFrameworkHooks(hook.Config{
		PreHooks: []hook.Hook{{
			Name: "fw_audit",
			Fn: func(_ context.Context, v any) (any, error) {
				trace = append(trace, "fw")
				return v, nil
			},
		}},
		EnableQualityCheck: hook.Bool(true),
	}))

	assert.NoError(t, layer.RegisterProjectHooks("acme", hook.Config{
		PreHooks: []hook.Hook{{
			Name: "proj_audit",
			Fn: func(_ context.Context, v any) (any, error) {
				trace = append(trace, "proj")
				return v, nil
			},
		}},
	}))

	pre, post := layer.HooksForAgent(nil, "acme")
	assert.Len(t, pre, 2)
	assert.Len(t, post, 1)

	v := any("user input")
	var err error
	for _, fn := range pre {
		v, err = fn(context.Background(), v)
		assert.NoError(t, err)
	}
	assert.Equal(t, []string{"fw", "proj"}, trace)

	out := hook.NewOutput("a sufficiently long agent response")
	for _, fn := range post {
		_, err = fn(context.Background(), out)
		assert.NoError(t, err)
	}
}

func TestEndToEnd_ModelResolution(t *testing.T) {
	layer := newBareLayer(t)

	assert.NoError(t, layer.RegisterProjectModel("acme", provider.Config{
		Provider: provider.OpenAI,
		ModelID:  "gpt-4o-mini",
	}))

	c, err := layer.ModelFor(provider.Config{}, "acme")
	assert.NoError(t, err)
	assert.Equal(t, provider.OpenAI, c.Info().Provider)

	c, err = layer.ModelFor(provider.Config{ModelID: "gpt-4o"}, "acme")
	assert.NoError(t, err)
	assert.Equal(t, "gpt-4o", c.Info().ModelID)

	// Default scope falls back to the settings-derived model.
	c, err = layer.ModelFor(provider.Config{}, "")
	assert.NoError(t, err)
	assert.Equal(t, provider.Anthropic, c.Info().Provider)
}

func TestApplyFile(t *testing.T) {
	layer := newBareLayer(t)

	assert.NoError(t, layer.RegisterFrameworkTools(namedTool("web_search", "results")))

	f, err := config.Parse([]byte(strings.TrimSpace(`
framework:
  hooks:
    enable_quality_check: true
projects:
  acme:
    model:
      provider: openai
      model_id: gpt-4o-mini
    hooks:
      enable_pii_filter: true
    disabled_tools:
      - web_search
`)))
	assert.NoError(t, err)

	assert.NoError(t, layer.ApplyFile(f))

	// Quality check from framework plus PII filter from the project.
	_, post := layer.HooksForAgent(nil, "acme")
	assert.Len(t, post, 2)

	tools := layer.ToolsForAgent(nil, nil, "acme")
	assert.Empty(t, tools)

	// Applying the same file again conflicts on the project id.
	assert.Error(t, layer.ApplyFile(f))
}

func TestResolutionUsesLayerLoggerHelpers(t *testing.T) {
	var buf bytes.Buffer

	cfg := logging.DefaultLoggerConfig()
	cfg.Level = logging.LogLevelDebug
	cfg.Output = &buf
	cfg.AddSource = false

	layer, err := New(func(o *Options) {
		o.EnableBuiltinTools = false
		o.Logger = logging.NewLogger(cfg)
	})
	assert.NoError(t, err)

	assert.NoError(t, layer.RegisterFrameworkTools(namedTool("search", "x")))

	layer.ToolsForAgent(nil, nil, "acme")
	layer.HooksForAgent(nil, "acme")

	logged := buf.String()
	assert.Contains(t, logged, "Resolution completed")
	assert.Contains(t, logged, `"kind":"tools"`)
	assert.Contains(t, logged, `"kind":"hooks"`)
}

func TestReset(t *testing.T) {
	layer := newBareLayer(t)

	assert.NoError(t, layer.RegisterFrameworkTools(namedTool("search", "x")))
	assert.NoError(t, layer.RegisterProjectHooks("acme", hook.Config{
		EnablePIIFilter: hook.Bool(true),
	}))

	layer.Reset()

	assert.Empty(t, layer.Tools().FrameworkTools())
	_, post := layer.HooksForAgent(nil, "acme")
	assert.Empty(t, post)

	assert.NoError(t, layer.RegisterFrameworkTools(namedTool("search", "x")))
}
