package registry

// Entry pairs an item with the name it was registered under.
type Entry[T any] struct {
	Name string
	Item T
}

// OrderedMap is a name-keyed map that remembers insertion order. Overlaying an
// existing key replaces its value in place without moving it; brand-new keys
// are appended. This is what makes effective-list construction deterministic:
// framework survivors come first in registration order, later scopes only
// change values (or append new names) and never reshuffle positions.
//
// Not safe for concurrent use; callers synchronize externally (Store does).
type OrderedMap[T any] struct {
	names  []string
	values map[string]T
}

// NewOrderedMap creates an empty ordered map.
func NewOrderedMap[T any]() *OrderedMap[T] {
	return &OrderedMap[T]{values: make(map[string]T)}
}

// Has reports whether name is present.
func (m *OrderedMap[T]) Has(name string) bool {
	_, ok := m.values[name]
	return ok
}

// Get returns the value stored under name.
func (m *OrderedMap[T]) Get(name string) (T, bool) {
	v, ok := m.values[name]
	return v, ok
}

// Set inserts or overlays a value. Existing keys keep their position.
func (m *OrderedMap[T]) Set(name string, value T) {
	if _, ok := m.values[name]; !ok {
		m.names = append(m.names, name)
	}
	m.values[name] = value
}

// Delete removes a key and its position. Unknown keys are a no-op.
func (m *OrderedMap[T]) Delete(name string) {
	if _, ok := m.values[name]; !ok {
		return
	}
	delete(m.values, name)
	for i, n := range m.names {
		if n == name {
			m.names = append(m.names[:i], m.names[i+1:]...)
			break
		}
	}
}

// Len returns the number of stored entries.
func (m *OrderedMap[T]) Len() int { return len(m.names) }

// Names returns the keys in insertion order.
func (m *OrderedMap[T]) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Values returns the values in insertion order.
func (m *OrderedMap[T]) Values() []T {
	out := make([]T, 0, len(m.names))
	for _, n := range m.names {
		out = append(out, m.values[n])
	}
	return out
}

// Entries returns name/value pairs in insertion order.
func (m *OrderedMap[T]) Entries() []Entry[T] {
	out := make([]Entry[T], 0, len(m.names))
	for _, n := range m.names {
		out = append(out, Entry[T]{Name: n, Item: m.values[n]})
	}
	return out
}
