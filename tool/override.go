package tool

import (
	"context"

	"github.com/hupe1980/agentlayer/logging"
)

// OverrideMode selects how an override directive modifies a named base tool.
type OverrideMode string

const (
	// OverrideDisable drops the target tool from the effective list.
	OverrideDisable OverrideMode = "disable"

	// OverrideReplace swaps the target tool for Replacement.
	OverrideReplace OverrideMode = "replace"

	// OverrideWrap routes calls through Wrapper, which receives the original
	// tool and decides whether and how to invoke it.
	OverrideWrap OverrideMode = "wrap"

	// OverrideInherit keeps the original behavior but rewrites metadata and
	// call arguments: description, injected defaults, hidden parameters.
	OverrideInherit OverrideMode = "inherit"
)

// WrapperFunc is the fixed signature for wrap-mode overrides. It receives the
// original tool plus the call arguments and is responsible for deciding
// whether and when to invoke the original; the registry does not enforce that
// the original is called.
type WrapperFunc func(ctx context.Context, original Tool, args map[string]any) (any, error)

// Override is a declarative instruction to modify a named tool during
// resolution. Overrides are collected per scope and merged in
// framework -> project -> agent order, last write wins.
type Override struct {
	// ToolName targets the tool to override. Unknown targets are silently
	// ignored during resolution.
	ToolName string

	// Mode selects the override variant. Zero value defaults to inherit.
	Mode OverrideMode

	// Replacement is the replace-mode payload. A replace override without a
	// replacement degrades to a pass-through with a warning log.
	Replacement Tool

	// Wrapper is the wrap-mode payload. A wrap override without a wrapper
	// degrades to a pass-through with a warning log.
	Wrapper WrapperFunc

	// Description rewrites the tool description (inherit mode).
	Description string

	// DefaultArgs injects argument defaults when the caller omits them
	// (inherit mode).
	DefaultArgs map[string]any

	// HiddenParams are stripped from the arguments before the original tool
	// runs (inherit mode).
	HiddenParams []string
}

// apply resolves a base tool against zero or one override directive. A nil
// result means the tool is dropped from the effective list. Misconfigured
// directives (missing payloads) degrade to the base tool with a warning; they
// must never fail a live resolution.
func (o *Override) apply(base Tool, logger logging.Logger) Tool {
	if o == nil {
		return base
	}

	switch o.Mode {
	case OverrideDisable:
		return nil
	case OverrideReplace:
		if o.Replacement == nil {
			logger.Warn("tool.override.missing_replacement", "tool", o.ToolName)
			return base
		}
		return o.Replacement
	case OverrideWrap:
		if o.Wrapper == nil {
			logger.Warn("tool.override.missing_wrapper", "tool", o.ToolName)
			return base
		}
		return &wrappedTool{base: base, wrapper: o.Wrapper}
	default: // inherit
		return &inheritedTool{base: base, override: o}
	}
}

// wrappedTool routes calls through the override's wrapper function while
// keeping the base tool's metadata.
type wrappedTool struct {
	base    Tool
	wrapper WrapperFunc
}

func (t *wrappedTool) Name() string               { return t.base.Name() }
func (t *wrappedTool) Description() string        { return t.base.Description() }
func (t *wrappedTool) Parameters() map[string]any { return t.base.Parameters() }

func (t *wrappedTool) Call(ctx context.Context, args map[string]any) (any, error) {
	return t.wrapper(ctx, t.base, args)
}

// inheritedTool keeps the base behavior but adjusts metadata and arguments.
type inheritedTool struct {
	base     Tool
	override *Override
}

func (t *inheritedTool) Name() string { return t.base.Name() }

func (t *inheritedTool) Description() string {
	if t.override.Description != "" {
		return t.override.Description
	}
	return t.base.Description()
}

func (t *inheritedTool) Parameters() map[string]any {
	params := t.base.Parameters()
	if len(t.override.HiddenParams) == 0 {
		return params
	}

	props, ok := params["properties"].(map[string]any)
	if !ok {
		return params
	}

	filtered := make(map[string]any, len(props))
	for name, schema := range props {
		filtered[name] = schema
	}
	for _, hidden := range t.override.HiddenParams {
		delete(filtered, hidden)
	}

	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = v
	}
	out["properties"] = filtered

	return out
}

func (t *inheritedTool) Call(ctx context.Context, args map[string]any) (any, error) {
	merged := make(map[string]any, len(args)+len(t.override.DefaultArgs))
	for k, v := range args {
		merged[k] = v
	}
	for _, hidden := range t.override.HiddenParams {
		delete(merged, hidden)
	}
	for k, v := range t.override.DefaultArgs {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}

	return t.base.Call(ctx, merged)
}
