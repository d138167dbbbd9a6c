package hook

import (
	"fmt"

	"github.com/google/uuid"
)

// Output is the value post hooks operate on. Hooks accept any value, but
// *Output carries a run id for log correlation plus free-form metadata that
// hooks can annotate.
type Output struct {
	// RunID correlates every hook invocation belonging to one agent run.
	RunID string

	// Content is the agent output text the guardrails inspect.
	Content string

	// Metadata is free-form annotation space for hooks (e.g. detected PII
	// types, quality scores).
	Metadata map[string]any
}

// NewOutput wraps agent output text with a fresh run id.
func NewOutput(content string) *Output {
	return &Output{
		RunID:    uuid.NewString(),
		Content:  content,
		Metadata: make(map[string]any),
	}
}

// contentOf extracts the inspectable text from a hook value. *Output and
// string are handled natively, anything else is stringified.
func contentOf(v any) string {
	switch val := v.(type) {
	case *Output:
		return val.Content
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
