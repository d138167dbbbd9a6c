package hook

import (
	"context"
	"sync"
	"time"

	"github.com/hupe1980/agentlayer/logging"
	"github.com/hupe1980/agentlayer/registry"
)

// Registry is the three-layer hook registry.
//
// Custom hooks are stored in conflict-checked scope buckets; builtin toggles
// and override directives are kept per scope and combined at resolution time.
// Registration fails fast on duplicate names, resolution never fails: unknown
// project ids mean "no project overlay", unknown override targets are ignored
// and malformed directives degrade to pass-through with a warning log.
type Registry struct {
	store *registry.Store[Hook]

	mu                 sync.RWMutex
	frameworkFlags     flags
	projectFlags       map[string]scopedFlags
	frameworkOverrides map[string]Override
	projectOverrides   map[string]map[string]Override

	logger logging.Logger
}

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	Logger logging.Logger
}

// NewRegistry creates an empty hook registry with compiled-in builtin
// defaults (all builtins off, moderate safety level).
func NewRegistry(optFns ...func(o *RegistryOptions)) *Registry {
	opts := RegistryOptions{Logger: logging.NoOpLogger{}}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Registry{
		store:              registry.NewStore[Hook](),
		frameworkFlags:     defaultFlags(),
		projectFlags:       make(map[string]scopedFlags),
		frameworkOverrides: make(map[string]Override),
		projectOverrides:   make(map[string]map[string]Override),
		logger:             opts.Logger,
	}
}

// RegisterFramework registers a framework-scope hooks configuration. Custom
// hook names are conflict-checked against the framework bucket; builtin
// toggles the config sets become the new framework base values.
func (r *Registry) RegisterFramework(cfg Config) error {
	if err := r.insertHooks(cfg, func(h Hook) error {
		return r.store.InsertFramework(h.Name, h)
	}); err != nil {
		return err
	}

	r.mu.Lock()
	r.frameworkFlags = r.frameworkFlags.apply(cfg)
	for _, o := range cfg.Overrides {
		r.frameworkOverrides[o.HookName] = o
	}
	r.mu.Unlock()

	r.logger.Debug("hook.framework_registered", "pre", len(cfg.PreHooks), "post", len(cfg.PostHooks))

	return nil
}

// RegisterProject registers a project-scope hooks configuration. Custom hook
// names are conflict-checked within the project bucket.
func (r *Registry) RegisterProject(projectID string, cfg Config) error {
	if err := r.insertHooks(cfg, func(h Hook) error {
		return r.store.InsertProject(projectID, h.Name, h)
	}); err != nil {
		return err
	}

	r.mu.Lock()
	r.projectFlags[projectID] = scopedFlagsFrom(cfg)
	if r.projectOverrides[projectID] == nil {
		r.projectOverrides[projectID] = make(map[string]Override)
	}
	for _, o := range cfg.Overrides {
		r.projectOverrides[projectID][o.HookName] = o
	}
	r.mu.Unlock()

	r.logger.Debug("hook.project_registered", "project", projectID, "pre", len(cfg.PreHooks), "post", len(cfg.PostHooks))

	return nil
}

// insertHooks registers a config's custom hooks, forcing the phase from the
// list each hook came in.
func (r *Registry) insertHooks(cfg Config, insert func(Hook) error) error {
	for i := range cfg.PreHooks {
		h := cfg.PreHooks[i]
		h.Phase = PhasePre
		if err := insert(h); err != nil {
			return err
		}
	}

	for i := range cfg.PostHooks {
		h := cfg.PostHooks[i]
		h.Phase = PhasePost
		if err := insert(h); err != nil {
			return err
		}
	}

	return nil
}

// ForAgent produces the effective pre and post hook chains for one request
// context.
//
// Pre hooks are ordered framework -> project -> agent (outside-in), post
// hooks agent -> project -> framework (inside-out). Builtin toggle-controlled
// guardrails are synthesized as post hooks ahead of all custom post hooks; an
// override directive under a builtin's well-known name disables, replaces or
// wraps the builtin exactly like a custom hook.
//
// The agent config and its directives are per-call inputs; the registry does
// not retain them.
func (r *Registry) ForAgent(agentCfg *Config, projectID string) (pre, post []Func) {
	start := time.Now()

	r.mu.RLock()
	fw := r.frameworkFlags

	var proj *scopedFlags
	if pf, ok := r.projectFlags[projectID]; projectID != "" && ok {
		proj = &pf
	}

	overrides := make(map[string]Override, len(r.frameworkOverrides))
	for name, o := range r.frameworkOverrides {
		overrides[name] = o
	}
	if projectID != "" {
		for name, o := range r.projectOverrides[projectID] {
			overrides[name] = o
		}
	}
	r.mu.RUnlock()

	var agent *scopedFlags
	if agentCfg != nil {
		af := scopedFlagsFrom(*agentCfg)
		agent = &af

		for _, o := range agentCfg.Overrides {
			overrides[o.HookName] = o
		}
	}

	post = r.builtinPostHooks(fw, proj, agent, overrides)

	// Pre hooks: framework -> project -> agent.
	for _, e := range r.store.FrameworkEntries() {
		if e.Item.Phase == PhasePre {
			if fn := r.effective(e.Item, overrides); fn != nil {
				pre = append(pre, fn)
			}
		}
	}
	if projectID != "" {
		for _, e := range r.store.ProjectEntries(projectID) {
			if e.Item.Phase == PhasePre {
				if fn := r.effective(e.Item, overrides); fn != nil {
					pre = append(pre, fn)
				}
			}
		}
	}
	if agentCfg != nil {
		for i := range agentCfg.PreHooks {
			h := agentCfg.PreHooks[i]
			h.Phase = PhasePre
			if fn := r.effective(h, overrides); fn != nil {
				pre = append(pre, fn)
			}
		}
	}

	// Custom post hooks: agent -> project -> framework.
	if agentCfg != nil {
		for i := range agentCfg.PostHooks {
			h := agentCfg.PostHooks[i]
			h.Phase = PhasePost
			if fn := r.effective(h, overrides); fn != nil {
				post = append(post, fn)
			}
		}
	}
	if projectID != "" {
		for _, e := range r.store.ProjectEntries(projectID) {
			if e.Item.Phase == PhasePost {
				if fn := r.effective(e.Item, overrides); fn != nil {
					post = append(post, fn)
				}
			}
		}
	}
	for _, e := range r.store.FrameworkEntries() {
		if e.Item.Phase == PhasePost {
			if fn := r.effective(e.Item, overrides); fn != nil {
				post = append(post, fn)
			}
		}
	}

	r.logger.Debug("hook.resolved", "project", projectID, "pre", len(pre), "post", len(post),
		"duration_ms", time.Since(start).Milliseconds())

	return pre, post
}

// builtinPostHooks synthesizes the enabled builtin guardrails in their fixed
// order (content safety, PII filter, quality check), each passing through the
// normal override application.
func (r *Registry) builtinPostHooks(fw flags, proj, agent *scopedFlags, overrides map[string]Override) []Func {
	var (
		projCS, projPII, projQC    *bool
		agentCS, agentPII, agentQC *bool
	)

	if proj != nil {
		projCS, projPII, projQC = proj.contentSafety, proj.piiFilter, proj.qualityCheck
	}
	if agent != nil {
		agentCS, agentPII, agentQC = agent.contentSafety, agent.piiFilter, agent.qualityCheck
	}

	var post []Func

	if registry.ResolveFlag(fw.contentSafety, projCS, agentCS) {
		level := overlayString(fw.contentSafetyLevel, proj, agent, func(s *scopedFlags) string { return s.contentSafetyLevel })
		h := Hook{Name: BuiltinContentSafety, Phase: PhasePost, Fn: contentSafetyHook(level)}
		if fn := r.effective(h, overrides); fn != nil {
			post = append(post, fn)
		}
	}

	if registry.ResolveFlag(fw.piiFilter, projPII, agentPII) {
		types := fw.piiTypes
		if proj != nil && proj.piiTypes != nil {
			types = proj.piiTypes
		}
		if agent != nil && agent.piiTypes != nil {
			types = agent.piiTypes
		}
		h := Hook{Name: BuiltinPIIFilter, Phase: PhasePost, Fn: piiFilterHook(types), OnFailure: FailWarn}
		if fn := r.effective(h, overrides); fn != nil {
			post = append(post, fn)
		}
	}

	if registry.ResolveFlag(fw.qualityCheck, projQC, agentQC) {
		minLen := fw.minOutputLength
		if proj != nil && proj.minOutputLength > 0 {
			minLen = proj.minOutputLength
		}
		if agent != nil && agent.minOutputLength > 0 {
			minLen = agent.minOutputLength
		}

		maxLen := fw.maxOutputLength
		if proj != nil && proj.maxOutputLength != nil {
			maxLen = proj.maxOutputLength
		}
		if agent != nil && agent.maxOutputLength != nil {
			maxLen = agent.maxOutputLength
		}

		h := Hook{Name: BuiltinQualityCheck, Phase: PhasePost, Fn: qualityCheckHook(minLen, defaultMaxWhitespaceRatio, maxLen)}
		if fn := r.effective(h, overrides); fn != nil {
			post = append(post, fn)
		}
	}

	return post
}

func overlayString(base string, proj, agent *scopedFlags, get func(*scopedFlags) string) string {
	if agent != nil && get(agent) != "" {
		return get(agent)
	}
	if proj != nil && get(proj) != "" {
		return get(proj)
	}
	return base
}

// effective resolves one hook against the flat override map, producing the
// final callable or nil when the hook is dropped. The per-hook failure
// policy is applied last, so it also governs replacement and wrapper errors.
func (r *Registry) effective(h Hook, overrides map[string]Override) Func {
	if h.Disabled {
		return nil
	}

	fn := h.Fn

	if o, ok := overrides[h.Name]; ok {
		switch o.Mode {
		case OverrideReplace:
			if o.Replacement == nil {
				r.logger.Warn("hook.override.missing_replacement", "hook", h.Name)
			} else {
				fn = o.Replacement
			}
		case OverrideWrap:
			if o.Wrapper == nil {
				r.logger.Warn("hook.override.missing_wrapper", "hook", h.Name)
			} else {
				original := fn
				wrapper := o.Wrapper
				fn = func(ctx context.Context, v any) (any, error) {
					return wrapper(ctx, original, v)
				}
			}
		default: // disable
			return nil
		}

		r.logger.Debug("hook.override.applied", "hook", h.Name, "mode", string(o.Mode))
	}

	return r.withFailurePolicy(h, fn)
}

// withFailurePolicy wraps a hook function according to its OnFailure mode.
func (r *Registry) withFailurePolicy(h Hook, fn Func) Func {
	switch h.OnFailure {
	case FailWarn:
		name := h.Name
		return func(ctx context.Context, v any) (any, error) {
			out, err := fn(ctx, v)
			if err != nil {
				r.logger.Warn("hook.failed", "hook", name, "error", err.Error())
				return v, nil
			}
			return out, nil
		}
	case FailIgnore:
		return func(ctx context.Context, v any) (any, error) {
			out, err := fn(ctx, v)
			if err != nil {
				return v, nil
			}
			return out, nil
		}
	default: // raise
		return fn
	}
}

// FrameworkHooks returns the names of all framework-scope custom hooks in
// registration order.
func (r *Registry) FrameworkHooks() []string {
	return r.store.FrameworkNames()
}

// ProjectIDs returns all project ids with registered hooks or toggles.
func (r *Registry) ProjectIDs() []string {
	seen := make(map[string]struct{})

	for _, id := range r.store.ProjectIDs() {
		seen[id] = struct{}{}
	}

	r.mu.RLock()
	for id := range r.projectFlags {
		seen[id] = struct{}{}
	}
	r.mu.RUnlock()

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}

	return ids
}

// Info returns the framework-scope hook registered under name.
func (r *Registry) Info(name string) (Hook, bool) {
	return r.store.Framework(name)
}

// Reset drops all registered hooks, toggles and overrides. Intended for
// tests; production registries are build-once.
func (r *Registry) Reset() {
	r.store.Reset()

	r.mu.Lock()
	r.frameworkFlags = defaultFlags()
	r.projectFlags = make(map[string]scopedFlags)
	r.frameworkOverrides = make(map[string]Override)
	r.projectOverrides = make(map[string]map[string]Override)
	r.mu.Unlock()
}
