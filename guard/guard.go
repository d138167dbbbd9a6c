// Package guard provides run-scoped safety counters that stop runaway agent
// loops: model invocation counts, token budgets and tool call counts. Each
// guard is a mutex-protected counter with a hard limit, an optional warning
// threshold, and a post-hook adapter so guards plug into the hook chains like
// any other guardrail.
//
// Guards are per run: call Reset before starting a new session.
package guard

import (
	"fmt"
	"sync"

	"github.com/hupe1980/agentlayer/logging"
)

// LimitError reports a guard limit being exceeded. It is the terminal signal
// for the surrounding run loop.
type LimitError struct {
	Guard string // guard identifier ("invocation", "token_budget", "tool_call")
	Count int    // observed count when the limit tripped
	Max   int    // configured limit
}

// Error implements the error interface.
func (e *LimitError) Error() string {
	return fmt.Sprintf("%s guard: count %d exceeded limit %d", e.Guard, e.Count, e.Max)
}

// Options configures guard construction.
type Options struct {
	// WarnThreshold is the fraction of the limit at which a warning is
	// logged. Defaults to 0.8. Set to 0 to disable warnings.
	WarnThreshold float64

	// Logger for warnings. NoOp by default.
	Logger logging.Logger
}

func buildOptions(optFns []func(o *Options)) Options {
	opts := Options{WarnThreshold: 0.8, Logger: logging.NoOpLogger{}}

	for _, fn := range optFns {
		fn(&opts)
	}

	return opts
}

// InvocationGuard enforces a maximum number of model invocations per run.
// A max of 0 allows unlimited invocations.
type InvocationGuard struct {
	max   int
	count int
	mu    sync.Mutex
	opts  Options
}

// NewInvocationGuard creates a new guard with a max number of invocations.
func NewInvocationGuard(max int, optFns ...func(o *Options)) *InvocationGuard {
	return &InvocationGuard{max: max, opts: buildOptions(optFns)}
}

// Increment increases the invocation counter and returns *LimitError if the
// limit is exceeded.
func (g *InvocationGuard) Increment() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.count++

	if g.max > 0 && g.opts.WarnThreshold > 0 && g.count == int(float64(g.max)*g.opts.WarnThreshold) {
		g.opts.Logger.Warn("guard.invocation.approaching_limit", "count", g.count, "max", g.max)
	}

	if g.max > 0 && g.count > g.max {
		return &LimitError{Guard: "invocation", Count: g.count, Max: g.max}
	}

	return nil
}

// Count returns the current number of invocations recorded.
func (g *InvocationGuard) Count() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.count
}

// Remaining returns how many invocations are left before hitting the limit,
// or -1 when unlimited.
func (g *InvocationGuard) Remaining() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.max == 0 {
		return -1
	}

	return g.max - g.count
}

// Reset clears the counter for a new run.
func (g *InvocationGuard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.count = 0
}

// TokenBudgetGuard enforces a maximum total token spend per run.
// A budget of 0 allows unlimited tokens.
type TokenBudgetGuard struct {
	budget int
	used   int
	mu     sync.Mutex
	opts   Options
}

// NewTokenBudgetGuard creates a new guard with a total token budget.
func NewTokenBudgetGuard(budget int, optFns ...func(o *Options)) *TokenBudgetGuard {
	return &TokenBudgetGuard{budget: budget, opts: buildOptions(optFns)}
}

// Add records token usage and returns *LimitError once the budget is spent.
func (g *TokenBudgetGuard) Add(tokens int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	before := g.used
	g.used += tokens

	if g.budget > 0 && g.opts.WarnThreshold > 0 {
		warnAt := int(float64(g.budget) * g.opts.WarnThreshold)
		if before < warnAt && g.used >= warnAt {
			g.opts.Logger.Warn("guard.token_budget.approaching_limit", "used", g.used, "budget", g.budget)
		}
	}

	if g.budget > 0 && g.used > g.budget {
		return &LimitError{Guard: "token_budget", Count: g.used, Max: g.budget}
	}

	return nil
}

// Used returns the tokens recorded so far.
func (g *TokenBudgetGuard) Used() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.used
}

// Remaining returns the unspent budget, or -1 when unlimited.
func (g *TokenBudgetGuard) Remaining() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.budget == 0 {
		return -1
	}

	return g.budget - g.used
}

// Reset clears the spend for a new run.
func (g *TokenBudgetGuard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.used = 0
}

// ToolCallGuard enforces a maximum number of tool calls per run, with
// optional per-tool limits on top of the global one. A max of 0 allows
// unlimited calls.
type ToolCallGuard struct {
	max     int
	perTool map[string]int
	total   int
	counts  map[string]int
	mu      sync.Mutex
	opts    Options
}

// NewToolCallGuard creates a new guard with a global call limit and optional
// per-tool limits (nil for none).
func NewToolCallGuard(max int, perTool map[string]int, optFns ...func(o *Options)) *ToolCallGuard {
	return &ToolCallGuard{
		max:     max,
		perTool: perTool,
		counts:  make(map[string]int),
		opts:    buildOptions(optFns),
	}
}

// Record registers one call of the named tool and returns *LimitError when
// the global or per-tool limit is exceeded.
func (g *ToolCallGuard) Record(toolName string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.total++
	g.counts[toolName]++

	if g.max > 0 && g.total > g.max {
		return &LimitError{Guard: "tool_call", Count: g.total, Max: g.max}
	}

	if limit, ok := g.perTool[toolName]; ok && limit > 0 && g.counts[toolName] > limit {
		return &LimitError{Guard: "tool_call:" + toolName, Count: g.counts[toolName], Max: limit}
	}

	return nil
}

// Total returns the number of calls recorded across all tools.
func (g *ToolCallGuard) Total() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.total
}

// CountFor returns the number of calls recorded for one tool.
func (g *ToolCallGuard) CountFor(toolName string) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.counts[toolName]
}

// Reset clears all counters for a new run.
func (g *ToolCallGuard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.total = 0
	g.counts = make(map[string]int)
}
