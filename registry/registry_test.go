package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// -------------------- Scope & ConflictError Tests --------------------

func TestScope_String(t *testing.T) {
	assert.Equal(t, "framework", ScopeFramework.String())
	assert.Equal(t, "project", ScopeProject.String())
	assert.Equal(t, "agent", ScopeAgent.String())
	assert.Equal(t, "unknown", Scope(42).String())
}

func TestScope_Ordering(t *testing.T) {
	assert.Less(t, int(ScopeFramework), int(ScopeProject))
	assert.Less(t, int(ScopeProject), int(ScopeAgent))
}

func TestConflictError_Message(t *testing.T) {
	err := &ConflictError{Name: "search", Scope: ScopeProject}
	assert.Equal(t, `"search" already registered at project scope`, err.Error())
}

// -------------------- Store Tests --------------------

func TestStore_FrameworkConflict(t *testing.T) {
	s := NewStore[int]()

	assert.NoError(t, s.InsertFramework("a", 1))

	err := s.InsertFramework("a", 2)
	assert.Error(t, err)

	var conflict *ConflictError
	assert.True(t, errors.As(err, &conflict))
	assert.Equal(t, "a", conflict.Name)
	assert.Equal(t, ScopeFramework, conflict.Scope)

	// The first registration survives.
	v, ok := s.Framework("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestStore_ProjectConflictScopedToProject(t *testing.T) {
	s := NewStore[int]()

	assert.NoError(t, s.InsertProject("p1", "a", 1))

	// Duplicate inside the same project fails.
	err := s.InsertProject("p1", "a", 2)
	var conflict *ConflictError
	assert.True(t, errors.As(err, &conflict))
	assert.Equal(t, ScopeProject, conflict.Scope)

	// Same name in another project or at framework scope is fine.
	assert.NoError(t, s.InsertProject("p2", "a", 3))
	assert.NoError(t, s.InsertFramework("a", 4))
}

func TestStore_CrossScopeDuplicatesAllowed(t *testing.T) {
	s := NewStore[string]()

	assert.NoError(t, s.InsertFramework("search", "framework"))
	assert.NoError(t, s.InsertProject("p1", "search", "project"))

	v, ok := s.Framework("search")
	assert.True(t, ok)
	assert.Equal(t, "framework", v)

	v, ok = s.Project("p1", "search")
	assert.True(t, ok)
	assert.Equal(t, "project", v)
}

func TestStore_EntriesPreserveInsertionOrder(t *testing.T) {
	s := NewStore[int]()

	for i, name := range []string{"c", "a", "b"} {
		assert.NoError(t, s.InsertFramework(name, i))
	}

	assert.Equal(t, []string{"c", "a", "b"}, s.FrameworkNames())

	entries := s.FrameworkEntries()
	assert.Len(t, entries, 3)
	assert.Equal(t, "c", entries[0].Name)
	assert.Equal(t, 0, entries[0].Item)
}

func TestStore_UnknownProjectYieldsEmpty(t *testing.T) {
	s := NewStore[int]()

	assert.Empty(t, s.ProjectEntries("nope"))
	assert.False(t, s.HasProject("nope"))

	_, ok := s.Project("nope", "a")
	assert.False(t, ok)
}

func TestStore_Reset(t *testing.T) {
	s := NewStore[int]()

	assert.NoError(t, s.InsertFramework("a", 1))
	assert.NoError(t, s.InsertProject("p1", "b", 2))

	s.Reset()

	assert.Empty(t, s.FrameworkNames())
	assert.Empty(t, s.ProjectIDs())

	// Names are free again after a reset.
	assert.NoError(t, s.InsertFramework("a", 1))
}

// -------------------- OrderedMap Tests --------------------

func TestOrderedMap_SetPreservesPositionOnOverwrite(t *testing.T) {
	m := NewOrderedMap[int]()

	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("c", 3)

	// Overwriting an existing key keeps its original position.
	m.Set("b", 20)

	assert.Equal(t, []string{"a", "b", "c"}, m.Names())

	v, ok := m.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 20, v)
}

func TestOrderedMap_Delete(t *testing.T) {
	m := NewOrderedMap[int]()

	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("c", 3)

	m.Delete("b")

	assert.Equal(t, []string{"a", "c"}, m.Names())
	assert.False(t, m.Has("b"))
	assert.Equal(t, 2, m.Len())

	// Re-adding a deleted key appends at the end.
	m.Set("b", 4)
	assert.Equal(t, []string{"a", "c", "b"}, m.Names())
}
