package guard

import (
	"context"

	"github.com/hupe1980/agentlayer/hook"
	"github.com/hupe1980/agentlayer/tool"
)

// PostHook adapts the invocation guard to the hook chain: every post-hook
// pass counts as one completed model invocation.
func (g *InvocationGuard) PostHook() hook.Func {
	return func(_ context.Context, v any) (any, error) {
		if err := g.Increment(); err != nil {
			return v, err
		}

		return v, nil
	}
}

// PostHook adapts the token budget guard to the hook chain. Token usage is
// read from an *hook.Output metadata key "tokens_used" when present;
// otherwise the content length is used as a rough character-count proxy.
func (g *TokenBudgetGuard) PostHook() hook.Func {
	return func(_ context.Context, v any) (any, error) {
		tokens := 0

		if out, ok := v.(*hook.Output); ok {
			if n, ok := tokensUsed(out.Metadata["tokens_used"]); ok {
				tokens = n
			} else {
				tokens = len(out.Content) / 4
			}
		}

		if err := g.Add(tokens); err != nil {
			return v, err
		}

		return v, nil
	}
}

// tokensUsed normalizes the metadata value to an int. Providers report usage
// as int, int64 or, after a JSON round trip, float64.
func tokensUsed(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// guardedTool counts calls against a ToolCallGuard before delegating.
type guardedTool struct {
	tool.Tool
	guard *ToolCallGuard
}

// WrapTool returns a tool that records each call against the guard and fails
// with *LimitError once the limit is reached, without invoking the wrapped
// tool.
func (g *ToolCallGuard) WrapTool(t tool.Tool) tool.Tool {
	return &guardedTool{Tool: t, guard: g}
}

// WrapTools applies WrapTool to every tool in the slice.
func (g *ToolCallGuard) WrapTools(tools []tool.Tool) []tool.Tool {
	out := make([]tool.Tool, len(tools))
	for i, t := range tools {
		out[i] = g.WrapTool(t)
	}

	return out
}

func (t *guardedTool) Call(ctx context.Context, args map[string]any) (any, error) {
	if err := t.guard.Record(t.Name()); err != nil {
		return nil, err
	}

	return t.Tool.Call(ctx, args)
}
