// Package hook implements the guardrail subsystem of the configuration layer:
// named pre/post hooks registered at framework and project scope, builtin
// toggle-controlled guardrails (content safety, PII filter, quality check),
// and a three-layer priority registry that resolves the effective hook chains
// for an agent.
//
// Ordering is directional by design: pre hooks run outside-in
// (framework -> project -> agent) so validation moves from most general to
// most specific, while post hooks run inside-out (agent -> project ->
// framework) so business specific checks see the output before global safety
// nets do.
package hook

import "context"

// Phase distinguishes hooks that run before the agent's core action from
// hooks that run after it. The phase is fixed at registration and immutable.
type Phase string

const (
	// PhasePre hooks validate or rewrite the agent input.
	PhasePre Phase = "pre"

	// PhasePost hooks validate or rewrite the agent output.
	PhasePost Phase = "post"
)

// FailureMode controls what the effective hook does when its function returns
// an error.
type FailureMode string

const (
	// FailRaise propagates the error to the caller, terminating the run.
	// This is the default.
	FailRaise FailureMode = "raise"

	// FailWarn logs the error and continues with the value unchanged.
	FailWarn FailureMode = "warn"

	// FailIgnore silently continues with the value unchanged.
	FailIgnore FailureMode = "ignore"
)

// Func is the signature shared by pre and post hooks. Pre hooks receive the
// agent input and return the (possibly rewritten) input; post hooks receive
// the output value, typically *Output. Returning the value unchanged is fine.
type Func func(ctx context.Context, v any) (any, error)

// WrapperFunc is the fixed signature for wrap-mode overrides. It receives the
// original hook function plus the hook value and is responsible for deciding
// whether and when to invoke the original.
type WrapperFunc func(ctx context.Context, original Func, v any) (any, error)

// Hook is a single named guardrail registered at one scope.
type Hook struct {
	// Name is the unique key within the hook's scope bucket.
	Name string

	// Phase is set from the config list the hook was registered in and is
	// immutable afterwards.
	Phase Phase

	// Fn is the hook implementation.
	Fn Func

	// Disabled excludes the hook from every effective list, regardless of any
	// override directive. The zero value keeps hooks enabled.
	Disabled bool

	// OnFailure selects the failure policy. Zero value means FailRaise.
	OnFailure FailureMode

	// Description documents the hook for introspection.
	Description string
}

// OverrideMode selects how an override directive modifies a named hook.
type OverrideMode string

const (
	// OverrideDisable drops the target hook from the effective chain.
	OverrideDisable OverrideMode = "disable"

	// OverrideReplace swaps the target hook's function for Replacement.
	OverrideReplace OverrideMode = "replace"

	// OverrideWrap routes calls through Wrapper.
	OverrideWrap OverrideMode = "wrap"
)

// Override is a declarative instruction to disable, replace or wrap a named
// hook during resolution. Overrides from all applicable scopes are merged into
// one flat map in framework -> project -> agent order; last write wins.
type Override struct {
	// HookName targets the hook to override, including the well-known builtin
	// names. Unknown targets are silently ignored.
	HookName string

	// Mode selects the override variant. Zero value means disable.
	Mode OverrideMode

	// Replacement is the replace-mode payload. A replace override without a
	// replacement degrades to a pass-through with a warning log.
	Replacement Func

	// Wrapper is the wrap-mode payload. A wrap override without a wrapper
	// degrades to a pass-through with a warning log.
	Wrapper WrapperFunc
}
