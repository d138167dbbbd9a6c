package tool

import (
	"sync"
	"time"

	"github.com/hupe1980/agentlayer/logging"
	"github.com/hupe1980/agentlayer/registry"
)

// ProjectConfig bundles everything a project layers on top of the framework
// tool set: override directives for framework tools, project-only custom
// tools, and framework tools the project opts out of.
type ProjectConfig struct {
	// ProjectID identifies the project bucket. Required.
	ProjectID string

	// Overrides modify framework tools for this project.
	Overrides []Override

	// CustomTools are project-only tools, overlaid after overrides. A custom
	// tool sharing a framework tool's name replaces it.
	CustomTools []Tool

	// DisabledTools names framework tools removed for this project.
	DisabledTools []string
}

// Registry is the three-layer tool registry.
//
// Resolution follows the overlay algorithm: framework tools seed an
// insertion-ordered map, the selected project removes its disabled names,
// applies its overrides and overlays its custom tools, then agent overrides
// and agent tools are applied last and win unconditionally. Overlays replace
// values in place, so a tool's position in the effective list is decided by
// the scope that first introduced its name.
//
// Registration is append-only and conflict-checked per scope bucket;
// resolution is stateless, never fails, and holds no reference to the
// per-call agent inputs after returning.
type Registry struct {
	store    *registry.Store[Tool]
	mu       sync.RWMutex
	projects map[string]ProjectConfig
	logger   logging.Logger
}

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	Logger logging.Logger
}

// NewRegistry creates an empty tool registry.
func NewRegistry(optFns ...func(o *RegistryOptions)) *Registry {
	opts := RegistryOptions{Logger: logging.NoOpLogger{}}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Registry{
		store:    registry.NewStore[Tool](),
		projects: make(map[string]ProjectConfig),
		logger:   opts.Logger,
	}
}

// RegisterFramework registers a framework-scope tool. Returns
// *registry.ConflictError if the name is already taken at framework scope.
func (r *Registry) RegisterFramework(t Tool) error {
	if err := r.store.InsertFramework(t.Name(), t); err != nil {
		return err
	}

	r.logger.Debug("tool.registered", "tool", t.Name(), "scope", registry.ScopeFramework.String())

	return nil
}

// RegisterProject registers a project's tool configuration. Custom tools are
// conflict-checked within the project bucket; registering the same project id
// twice is a conflict as well, since project configuration is build-once.
//
// The config is validated before any state is touched: a failed registration
// leaves the registry unchanged, so the caller can fix the config and retry.
func (r *Registry) RegisterProject(cfg ProjectConfig) error {
	seen := make(map[string]struct{}, len(cfg.CustomTools))
	for _, t := range cfg.CustomTools {
		if _, dup := seen[t.Name()]; dup {
			return &registry.ConflictError{Name: t.Name(), Scope: registry.ScopeProject}
		}
		seen[t.Name()] = struct{}{}
	}

	r.mu.Lock()
	if _, exists := r.projects[cfg.ProjectID]; exists {
		r.mu.Unlock()
		return &registry.ConflictError{Name: cfg.ProjectID, Scope: registry.ScopeProject}
	}
	r.projects[cfg.ProjectID] = cfg
	r.mu.Unlock()

	// The id was free and custom-tool names are unique, so the bucket
	// inserts cannot conflict.
	for _, t := range cfg.CustomTools {
		if err := r.store.InsertProject(cfg.ProjectID, t.Name(), t); err != nil {
			return err
		}
	}

	r.logger.Debug("tool.project_registered", "project", cfg.ProjectID,
		"overrides", len(cfg.Overrides), "custom", len(cfg.CustomTools), "disabled", len(cfg.DisabledTools))

	return nil
}

// ForAgent produces the effective, ordered tool list for one request context.
//
// Agent inputs are per-call only; the registry does not retain them. Unknown
// project ids resolve as "no project overlay", unknown override targets are
// ignored, and malformed overrides degrade to pass-through. Resolution never
// returns an error.
func (r *Registry) ForAgent(agentTools []Tool, agentOverrides []Override, projectID string) []Tool {
	start := time.Now()

	effective := registry.NewOrderedMap[Tool]()

	// 1. Framework seed, in registration order.
	for _, e := range r.store.FrameworkEntries() {
		effective.Set(e.Name, e.Item)
	}

	// 2. Project overlay.
	r.mu.RLock()
	projectCfg, hasProject := r.projects[projectID]
	r.mu.RUnlock()

	if projectID != "" && hasProject {
		for _, disabled := range projectCfg.DisabledTools {
			effective.Delete(disabled)
		}

		r.applyOverrides(effective, projectCfg.Overrides)

		for _, e := range r.store.ProjectEntries(projectID) {
			effective.Set(e.Name, e.Item)
		}
	}

	// 3. Agent overrides, then agent tools. Agent always wins last.
	r.applyOverrides(effective, agentOverrides)

	for _, t := range agentTools {
		effective.Set(t.Name(), t)
	}

	tools := effective.Values()

	r.logger.Debug("tool.resolved", "project", projectID, "tools", len(tools),
		"duration_ms", time.Since(start).Milliseconds())

	return tools
}

// applyOverrides applies a directive list against the current effective map.
// Disable removes the entry entirely; other modes replace the value in place.
func (r *Registry) applyOverrides(effective *registry.OrderedMap[Tool], overrides []Override) {
	for i := range overrides {
		o := &overrides[i]

		base, ok := effective.Get(o.ToolName)
		if !ok {
			r.logger.Debug("tool.override.unknown_target", "tool", o.ToolName)
			continue
		}

		applied := o.apply(base, r.logger)
		if applied == nil {
			effective.Delete(o.ToolName)
			continue
		}

		effective.Set(o.ToolName, applied)
	}
}

// FrameworkTools returns the names of all framework-scope tools in
// registration order.
func (r *Registry) FrameworkTools() []string {
	return r.store.FrameworkNames()
}

// ProjectIDs returns all project ids with a registered configuration.
func (r *Registry) ProjectIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.projects))
	for id := range r.projects {
		ids = append(ids, id)
	}

	return ids
}

// Info returns the framework-scope tool registered under name.
func (r *Registry) Info(name string) (Tool, bool) {
	return r.store.Framework(name)
}

// Reset drops all registered tools and project configurations. Intended for
// tests; production registries are build-once.
func (r *Registry) Reset() {
	r.store.Reset()

	r.mu.Lock()
	r.projects = make(map[string]ProjectConfig)
	r.mu.Unlock()
}
