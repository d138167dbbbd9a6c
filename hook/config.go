package hook

// Config bundles the hook registrations and builtin guardrail toggles one
// scope contributes. Framework and project configs are registered into the
// Registry; an agent config is passed per resolution call and never stored.
//
// Builtin toggles are tri-state: nil means "inherit from the scope below".
// The framework scope is the base of the ladder, so nil values there resolve
// to the compiled-in defaults.
type Config struct {
	// PreHooks are custom input guardrails. Phase is forced to PhasePre.
	PreHooks []Hook

	// PostHooks are custom output guardrails. Phase is forced to PhasePost.
	PostHooks []Hook

	// Overrides modify hooks registered at lower scopes (or builtins).
	Overrides []Override

	// EnableContentSafety toggles the builtin content safety post hook.
	EnableContentSafety *bool

	// ContentSafetyLevel selects the blocked-pattern set: "strict",
	// "moderate" or "permissive". Empty means inherit (default "moderate").
	ContentSafetyLevel string

	// EnablePIIFilter toggles the builtin PII detection post hook.
	EnablePIIFilter *bool

	// PIITypes selects which PII patterns to scan for. Nil means inherit
	// (default: email, phone, ssn, credit_card).
	PIITypes []string

	// EnableQualityCheck toggles the builtin output quality post hook.
	EnableQualityCheck *bool

	// MinOutputLength is the minimum content length the quality check
	// accepts. Zero means inherit (default 10).
	MinOutputLength int

	// MaxOutputLength caps the content length. Nil means no cap.
	MaxOutputLength *int
}

// flags is the fully resolved builtin toggle state at framework scope. The
// framework value is the base default and is always concrete.
type flags struct {
	contentSafety      bool
	contentSafetyLevel string
	piiFilter          bool
	piiTypes           []string
	qualityCheck       bool
	minOutputLength    int
	maxOutputLength    *int
}

// scopedFlags carries the tri-state toggles of a project scope.
type scopedFlags struct {
	contentSafety      *bool
	contentSafetyLevel string
	piiFilter          *bool
	piiTypes           []string
	qualityCheck       *bool
	minOutputLength    int
	maxOutputLength    *int
}

func defaultFlags() flags {
	return flags{
		contentSafetyLevel: SafetyModerate,
		piiTypes:           defaultPIITypes(),
		minOutputLength:    defaultMinOutputLength,
	}
}

// apply overlays a framework config's set toggles onto the current base
// flags, leaving inherited (nil/zero) fields untouched. Framework
// registration may happen in several calls; later calls only change what
// they set.
func (f flags) apply(cfg Config) flags {
	if cfg.EnableContentSafety != nil {
		f.contentSafety = *cfg.EnableContentSafety
	}
	if cfg.ContentSafetyLevel != "" {
		f.contentSafetyLevel = cfg.ContentSafetyLevel
	}
	if cfg.EnablePIIFilter != nil {
		f.piiFilter = *cfg.EnablePIIFilter
	}
	if cfg.PIITypes != nil {
		f.piiTypes = append([]string(nil), cfg.PIITypes...)
	}
	if cfg.EnableQualityCheck != nil {
		f.qualityCheck = *cfg.EnableQualityCheck
	}
	if cfg.MinOutputLength > 0 {
		f.minOutputLength = cfg.MinOutputLength
	}
	if cfg.MaxOutputLength != nil {
		f.maxOutputLength = cfg.MaxOutputLength
	}

	return f
}

// scopedFlagsFrom captures a project or agent config's toggles without
// resolving them; nil stays nil so inheritance works.
func scopedFlagsFrom(cfg Config) scopedFlags {
	return scopedFlags{
		contentSafety:      cfg.EnableContentSafety,
		contentSafetyLevel: cfg.ContentSafetyLevel,
		piiFilter:          cfg.EnablePIIFilter,
		piiTypes:           cfg.PIITypes,
		qualityCheck:       cfg.EnableQualityCheck,
		minOutputLength:    cfg.MinOutputLength,
		maxOutputLength:    cfg.MaxOutputLength,
	}
}

// Bool is a convenience for building tri-state toggle literals.
func Bool(v bool) *bool { return &v }

// Int is a convenience for building optional int literals.
func Int(v int) *int { return &v }
