package provider

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/hupe1980/agentlayer/logging"
	"github.com/hupe1980/agentlayer/registry"
)

const defaultCacheSize = 100

// Options configures registry construction.
type Options struct {
	// Defaults is the framework-scope base configuration.
	Defaults Config

	// CacheSize bounds the completer LRU. Defaults to 100.
	CacheSize int

	// Logger for resolution events. NoOp by default.
	Logger logging.Logger

	// Factory builds completers for merged configs. Replaceable for tests.
	Factory func(cfg Config, key string) (Completer, error)
}

// Registry resolves model configuration across the scope ladder and caches
// the resulting clients.
//
// Concurrency: safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	defaults Config
	projects map[string]Config
	cache    *lruCache
	factory  func(cfg Config, key string) (Completer, error)
	logger   logging.Logger
}

// NewRegistry creates a model registry with the given options.
func NewRegistry(optFns ...func(o *Options)) *Registry {
	opts := Options{
		Defaults: Config{
			Provider:  Anthropic,
			ModelID:   "claude-3-5-sonnet-20241022",
			MaxTokens: 4096,
		},
		CacheSize: defaultCacheSize,
		Logger:    logging.NoOpLogger{},
		Factory:   newCompleter,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Registry{
		defaults: opts.Defaults,
		projects: make(map[string]Config),
		cache:    newLRUCache(opts.CacheSize),
		factory:  opts.Factory,
		logger:   opts.Logger,
	}
}

// RegisterProject stores a project-scope model configuration. Registering
// the same project twice returns *registry.ConflictError.
func (r *Registry) RegisterProject(projectID string, cfg Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.projects[projectID]; exists {
		return &registry.ConflictError{Name: projectID, Scope: registry.ScopeProject}
	}

	r.projects[projectID] = cfg

	return nil
}

// CompleterFor resolves the effective model configuration for one agent and
// returns a client for it. The agent config overlays the project config,
// which overlays the framework defaults. Unknown project ids contribute
// nothing. Clients are cached by configuration fingerprint.
func (r *Registry) CompleterFor(agentCfg Config, projectID string) (Completer, error) {
	r.mu.RLock()
	merged := r.defaults
	if cfg, ok := r.projects[projectID]; ok {
		merged = merged.merge(cfg)
	}
	r.mu.RUnlock()

	merged = merged.merge(agentCfg)
	key := merged.resolveKey()

	fingerprint := cacheKey(merged, key)
	if c, ok := r.cache.get(fingerprint); ok {
		r.logger.Debug("model.cache.hit", "provider", merged.Provider, "model", merged.ModelID)
		return c, nil
	}

	c, err := r.factory(merged, key)
	if err != nil {
		return nil, err
	}

	r.cache.put(fingerprint, c)
	r.logger.Debug("model.cache.miss", "provider", merged.Provider, "model", merged.ModelID)

	return c, nil
}

// Defaults returns the framework-scope base configuration.
func (r *Registry) Defaults() Config {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.defaults
}

// CacheStats returns cache hit and miss counts since the last reset.
func (r *Registry) CacheStats() (hits, misses int) {
	return r.cache.stats()
}

// CacheLen returns the number of cached clients.
func (r *Registry) CacheLen() int {
	return r.cache.len()
}

// Reset clears all project configurations and the client cache.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.projects = make(map[string]Config)
	r.cache.reset()
}

// cacheKey fingerprints a merged config. The API key is hashed so it never
// appears in logs or debugger output via the cache.
func cacheKey(cfg Config, key string) string {
	sum := sha256.Sum256([]byte(key))

	temp := float64(-1)
	if cfg.Temperature != nil {
		temp = *cfg.Temperature
	}

	return fmt.Sprintf("%s|%s|%g|%d|%s", cfg.Provider, cfg.ModelID, temp, cfg.MaxTokens, hex.EncodeToString(sum[:8]))
}

// newCompleter is the default client factory.
func newCompleter(cfg Config, key string) (Completer, error) {
	switch cfg.Provider {
	case Anthropic:
		return newAnthropicCompleter(cfg, key), nil
	case OpenAI:
		return newOpenAICompleter(cfg, key), nil
	default:
		return nil, &UnknownProviderError{Provider: cfg.Provider}
	}
}
