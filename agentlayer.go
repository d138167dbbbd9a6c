// Package agentlayer provides a high-level façade over the scoped
// configuration registries (tools, hooks & models) enabling agents to be
// configured across three scopes with a fixed precedence order. Most
// applications interact with this package by:
//  1. Creating an AgentLayer via New() (optionally wiring a logger and
//     framework defaults)
//  2. Registering framework-scope tools and hooks, then per-project
//     configuration packages
//  3. Resolving the effective tool set, hook chains and model client for an
//     agent at startup
//
// Registration is fail-fast: same-scope name collisions return
// *registry.ConflictError. Resolution never fails; malformed directives
// degrade to warnings and pass-throughs so a bad project configuration can
// not take an agent down at runtime.
package agentlayer

import (
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/agentlayer/config"
	"github.com/hupe1980/agentlayer/hook"
	"github.com/hupe1980/agentlayer/logging"
	"github.com/hupe1980/agentlayer/provider"
	"github.com/hupe1980/agentlayer/tool"
)

// Options configures the AgentLayer instance.
type Options struct {
	// Settings holds the process-level configuration. Defaults to
	// config.LoadSettings().
	Settings config.Settings

	// ModelDefaults is the framework-scope model configuration. Unset
	// fields fall back to the settings-derived defaults.
	ModelDefaults provider.Config

	// EnableBuiltinTools registers the builtin tool set (http_request,
	// web_search) at framework scope.
	EnableBuiltinTools bool

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// AgentLayer is the high-level façade aggregating the scoped registries.
type AgentLayer struct {
	opts   Options
	tools  *tool.Registry
	hooks  *hook.Registry
	models *provider.Registry
	logger logging.Logger
}

// New creates a new AgentLayer instance with optional overrides.
func New(optFns ...func(o *Options)) (*AgentLayer, error) {
	opts := Options{
		Settings:           config.LoadSettings(),
		EnableBuiltinTools: true,
		Logger:             logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	modelDefaults := opts.ModelDefaults
	if modelDefaults.Provider == "" {
		modelDefaults.Provider = provider.Anthropic
	}
	if modelDefaults.ModelID == "" {
		modelDefaults.ModelID = opts.Settings.DefaultModel
	}
	if modelDefaults.MaxTokens == 0 {
		modelDefaults.MaxTokens = opts.Settings.DefaultMaxTokens
	}

	l := &AgentLayer{
		opts: opts,
		tools: tool.NewRegistry(func(o *tool.RegistryOptions) {
			o.Logger = opts.Logger
		}),
		hooks: hook.NewRegistry(func(o *hook.RegistryOptions) {
			o.Logger = opts.Logger
		}),
		models: provider.NewRegistry(func(o *provider.Options) {
			o.Defaults = modelDefaults
			o.CacheSize = opts.Settings.ModelCacheSize
			o.Logger = opts.Logger
		}),
		logger: opts.Logger,
	}

	if opts.EnableBuiltinTools && opts.Settings.EnableBuiltinTools {
		builtins := []tool.Tool{
			tool.NewHTTPRequestTool(func(o *tool.BuiltinOptions) { o.Logger = opts.Logger }),
			tool.NewWebSearchTool(func(o *tool.BuiltinOptions) { o.Logger = opts.Logger }),
		}

		if err := l.RegisterFrameworkTools(builtins...); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// RegisterFrameworkTool adds one tool at framework scope. Duplicate names
// return *registry.ConflictError.
func (l *AgentLayer) RegisterFrameworkTool(t tool.Tool) error {
	return l.tools.RegisterFramework(t)
}

// RegisterFrameworkTools adds tools at framework scope, stopping at the
// first conflict.
func (l *AgentLayer) RegisterFrameworkTools(tools ...tool.Tool) error {
	for _, t := range tools {
		if err := l.tools.RegisterFramework(t); err != nil {
			return err
		}
	}

	return nil
}

// RegisterProjectTools stores a project-scope tool configuration package.
// Registering the same project id twice returns *registry.ConflictError.
func (l *AgentLayer) RegisterProjectTools(cfg tool.ProjectConfig) error {
	return l.tools.RegisterProject(cfg)
}

// RegisterFrameworkHooks adds framework-scope hooks, overrides and builtin
// guardrail toggles.
func (l *AgentLayer) RegisterFrameworkHooks(cfg hook.Config) error {
	return l.hooks.RegisterFramework(cfg)
}

// RegisterProjectHooks stores a project-scope hook configuration. Hook names
// colliding with earlier registrations at the same project return
// *registry.ConflictError.
func (l *AgentLayer) RegisterProjectHooks(projectID string, cfg hook.Config) error {
	return l.hooks.RegisterProject(projectID, cfg)
}

// RegisterProjectModel stores a project-scope model configuration.
func (l *AgentLayer) RegisterProjectModel(projectID string, cfg provider.Config) error {
	return l.models.RegisterProject(projectID, cfg)
}

// resolutionLogger is the richer surface LayerLogger provides on top of the
// minimal Logger interface.
type resolutionLogger interface {
	LogResolution(kind, projectID string, items int, dur time.Duration)
}

func (l *AgentLayer) logResolution(kind, resolutionID, projectID string, items int, timer logging.Timer) {
	if rl, ok := l.logger.(resolutionLogger); ok {
		rl.LogResolution(kind, projectID, items, timer.Elapsed())
		return
	}

	l.logger.Info("resolution."+kind,
		"resolution_id", resolutionID,
		"project_id", projectID,
		"count", items,
		"duration_ms", timer.ElapsedMilliseconds(),
	)
}

// ToolsForAgent resolves the effective tool set for one agent: framework
// tools overlaid by the project package, then by the agent's own overrides
// and tools. Resolution never fails.
func (l *AgentLayer) ToolsForAgent(agentTools []tool.Tool, agentOverrides []tool.Override, projectID string) []tool.Tool {
	resolutionID := uuid.NewString()
	timer := logging.StartTimer()

	resolved := l.tools.ForAgent(agentTools, agentOverrides, projectID)

	l.logResolution("tools", resolutionID, projectID, len(resolved), timer)

	return resolved
}

// HooksForAgent resolves the effective hook chains for one agent. Pre hooks
// run framework first and agent last; post hooks run agent first and
// framework last, with the builtin guardrails ahead of the custom post
// hooks. Resolution never fails.
func (l *AgentLayer) HooksForAgent(agentCfg *hook.Config, projectID string) (pre, post []hook.Func) {
	resolutionID := uuid.NewString()
	timer := logging.StartTimer()

	pre, post = l.hooks.ForAgent(agentCfg, projectID)

	l.logResolution("hooks", resolutionID, projectID, len(pre)+len(post), timer)

	return pre, post
}

// ModelFor resolves the effective model configuration for one agent and
// returns a (cached) client for it.
func (l *AgentLayer) ModelFor(agentCfg provider.Config, projectID string) (provider.Completer, error) {
	return l.models.CompleterFor(agentCfg, projectID)
}

// ApplyFile registers the framework and project sections of a parsed
// configuration file. Project sections register hooks, model settings and
// disabled tools under their project id.
func (l *AgentLayer) ApplyFile(f *config.File) error {
	if err := l.hooks.RegisterFramework(f.Framework.HookConfig()); err != nil {
		return err
	}

	for projectID, section := range f.Projects {
		if err := l.hooks.RegisterProject(projectID, section.HookConfig()); err != nil {
			return err
		}

		if section.Model != nil {
			if err := l.models.RegisterProject(projectID, section.ModelConfig()); err != nil {
				return err
			}
		}

		if len(section.DisabledTools) > 0 {
			err := l.tools.RegisterProject(tool.ProjectConfig{
				ProjectID:     projectID,
				DisabledTools: section.DisabledTools,
			})
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// Tools exposes the underlying tool registry.
func (l *AgentLayer) Tools() *tool.Registry { return l.tools }

// Hooks exposes the underlying hook registry.
func (l *AgentLayer) Hooks() *hook.Registry { return l.hooks }

// Models exposes the underlying model registry.
func (l *AgentLayer) Models() *provider.Registry { return l.models }

// Reset clears every registry. Intended for tests.
func (l *AgentLayer) Reset() {
	l.tools.Reset()
	l.hooks.Reset()
	l.models.Reset()
}
