// Package form holds the current values of every schema attribute and hands
// out immutable snapshots for submission.
package form

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/goliatone/go-scorecast/pkg/schema"
)

// Store is the single source of truth for the attribute values being edited.
// It is safe for concurrent use.
type Store struct {
	schema *schema.Schema

	mu     sync.RWMutex
	values map[string]any
}

// NewStore seeds a store with the schema defaults.
func NewStore(s *schema.Schema) *Store {
	if s == nil {
		s = schema.Default()
	}
	return &Store{
		schema: s,
		values: s.Defaults(),
	}
}

// Schema exposes the attribute table backing the store.
func (s *Store) Schema() *schema.Schema {
	return s.schema
}

// SetField records raw widget input for key. Numeric attributes are coerced to
// float64 and input that is not a finite number is refused, leaving the store
// unchanged. Categorical values are stored as given.
func (s *Store) SetField(key, raw string) (Snapshot, error) {
	attr, ok := s.schema.Lookup(key)
	if !ok {
		return Snapshot{}, fmt.Errorf("form: %w %q", schema.ErrUnknownField, key)
	}

	value, err := attr.Coerce(raw)
	if err != nil {
		return Snapshot{}, fmt.Errorf("form: set %s: %w", key, err)
	}

	s.mu.Lock()
	s.values[key] = value
	snap := s.snapshotLocked()
	s.mu.Unlock()
	return snap, nil
}

// Snapshot copies the current values.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Reset restores every attribute to its default.
func (s *Store) Reset() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = s.schema.Defaults()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	values := make(map[string]any, len(s.values))
	for k, v := range s.values {
		values[k] = v
	}
	return Snapshot{keys: s.schema.Keys(), values: values}
}

// Snapshot is an immutable copy of the form values taken at a point in time.
type Snapshot struct {
	keys   []string
	values map[string]any
}

// Keys lists attribute keys in schema order.
func (s Snapshot) Keys() []string {
	return append([]string(nil), s.keys...)
}

// Get returns the stored value for key.
func (s Snapshot) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Number returns the numeric value stored for key.
func (s Snapshot) Number(key string) (float64, bool) {
	v, ok := s.values[key].(float64)
	return v, ok
}

// Text returns the categorical value stored for key.
func (s Snapshot) Text(key string) (string, bool) {
	v, ok := s.values[key].(string)
	return v, ok
}

// Map copies the snapshot into a plain map.
func (s Snapshot) Map() map[string]any {
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Empty reports whether the snapshot carries no values.
func (s Snapshot) Empty() bool {
	return len(s.values) == 0
}

// MarshalJSON writes the request body with keys in schema order.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(s.values[key])
		if err != nil {
			return nil, fmt.Errorf("form: encode %s: %w", key, err)
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
