// Package registry implements the scoped priority store shared by the tool and
// hook registries. Items are registered at one of three scopes (framework,
// project, agent) and resolved with a strict precedence ladder where agent
// beats project beats framework. Duplicate names within one scope are a
// configuration bug and fail fast at registration time; the same name at
// different scopes is the intended override mechanism.
package registry

import (
	"fmt"
	"sync"
)

// Scope identifies a level in the override precedence ladder.
// The ordering is total: ScopeFramework < ScopeProject < ScopeAgent.
type Scope int

const (
	// ScopeFramework holds items shipped with the framework itself. Lowest priority.
	ScopeFramework Scope = iota

	// ScopeProject holds items owned by a single project, partitioned by project id.
	ScopeProject

	// ScopeAgent holds items supplied per resolution call by a single agent.
	// Highest priority; agent items are never stored in the registry.
	ScopeAgent
)

// String returns the lowercase scope name used in error messages and logs.
func (s Scope) String() string {
	switch s {
	case ScopeFramework:
		return "framework"
	case ScopeProject:
		return "project"
	case ScopeAgent:
		return "agent"
	default:
		return "unknown"
	}
}

// ConflictError reports a duplicate registration within a single scope bucket.
//
// It is returned at registration time only, never during resolution. Callers
// must treat it as fatal to the setup sequence that triggered it: the
// configuration is wrong and has to be fixed, there is no recovery path.
type ConflictError struct {
	Name  string // name of the item that was registered twice
	Scope Scope  // scope bucket in which the duplicate occurred
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("%q already registered at %s scope", e.Name, e.Scope)
}

// Store is a conflict-checked, insertion-ordered container for named items at
// framework and project scope. Agent-scope items are per-call inputs and never
// enter the store.
//
// Concurrency:
//
//	Registration mutates shared buckets and is guarded by an internal RWMutex,
//	so concurrent registration calls are safe. Snapshot methods take a read
//	lock and return copies, so resolution can run concurrently with other
//	resolutions (and with registration, though in practice registration
//	happens once at startup).
type Store[T any] struct {
	mu        sync.RWMutex
	framework *OrderedMap[T]
	projects  map[string]*OrderedMap[T]
}

// NewStore creates an empty store.
func NewStore[T any]() *Store[T] {
	return &Store[T]{
		framework: NewOrderedMap[T](),
		projects:  make(map[string]*OrderedMap[T]),
	}
}

// InsertFramework registers a framework-scope item. Returns *ConflictError if
// the name is already taken at framework scope.
func (s *Store[T]) InsertFramework(name string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.framework.Has(name) {
		return &ConflictError{Name: name, Scope: ScopeFramework}
	}

	s.framework.Set(name, item)

	return nil
}

// InsertProject registers an item in the bucket of the given project. Returns
// *ConflictError if the name is already taken within that project's bucket.
// The same name in a different project, or at framework scope, is allowed.
func (s *Store[T]) InsertProject(projectID, name string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.projects[projectID]
	if !ok {
		bucket = NewOrderedMap[T]()
		s.projects[projectID] = bucket
	}

	if bucket.Has(name) {
		return &ConflictError{Name: name, Scope: ScopeProject}
	}

	bucket.Set(name, item)

	return nil
}

// Framework returns the framework-scope item registered under name.
func (s *Store[T]) Framework(name string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.framework.Get(name)
}

// Project returns the item registered under name in the given project bucket.
func (s *Store[T]) Project(projectID, name string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bucket, ok := s.projects[projectID]
	if !ok {
		var zero T
		return zero, false
	}

	return bucket.Get(name)
}

// FrameworkEntries returns a snapshot of all framework-scope items in
// registration order.
func (s *Store[T]) FrameworkEntries() []Entry[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.framework.Entries()
}

// ProjectEntries returns a snapshot of all items in the given project bucket
// in registration order. An unknown project id yields an empty slice, not an
// error: unknown projects resolve as "no project overlay".
func (s *Store[T]) ProjectEntries(projectID string) []Entry[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bucket, ok := s.projects[projectID]
	if !ok {
		return nil
	}

	return bucket.Entries()
}

// FrameworkNames returns the names of all framework-scope items in
// registration order.
func (s *Store[T]) FrameworkNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.framework.Names()
}

// ProjectIDs returns the ids of all projects that have at least one item
// registered.
func (s *Store[T]) ProjectIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.projects))
	for id := range s.projects {
		ids = append(ids, id)
	}

	return ids
}

// HasProject reports whether any item has been registered for the project.
func (s *Store[T]) HasProject(projectID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.projects[projectID]

	return ok
}

// Reset drops all registered items. Registration is otherwise append-only;
// Reset exists so tests can start from a clean instance without rebuilding
// the surrounding wiring.
func (s *Store[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.framework = NewOrderedMap[T]()
	s.projects = make(map[string]*OrderedMap[T])
}
