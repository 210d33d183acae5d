package schema

import (
	"fmt"
	"strings"
)

// Schema is the ordered, immutable table of attributes sent to the prediction
// service. Declaration order is preserved for rendering and serialisation.
type Schema struct {
	name       string
	attributes []Attribute
	index      map[string]int
}

// New validates the attributes and builds a Schema. Numeric defaults are
// normalised to float64 and categorical defaults to string.
func New(name string, attributes []Attribute) (*Schema, error) {
	s := &Schema{
		name:       strings.TrimSpace(name),
		attributes: make([]Attribute, 0, len(attributes)),
		index:      make(map[string]int, len(attributes)),
	}

	for _, raw := range attributes {
		attr := cloneAttribute(raw)
		attr.Key = strings.TrimSpace(attr.Key)
		if attr.Key == "" {
			return nil, fmt.Errorf("schema: attribute key is required")
		}
		if _, exists := s.index[attr.Key]; exists {
			return nil, fmt.Errorf("%w %q", ErrDuplicateKey, attr.Key)
		}

		normalised, err := normaliseDefault(attr)
		if err != nil {
			return nil, err
		}
		attr.Default = normalised

		if err := attr.Validate(attr.Default); err != nil {
			return nil, fmt.Errorf("%w for %q: %v", ErrInvalidDefault, attr.Key, err)
		}

		s.index[attr.Key] = len(s.attributes)
		s.attributes = append(s.attributes, attr)
	}

	if len(s.attributes) == 0 {
		return nil, fmt.Errorf("schema: %q declares no attributes", s.name)
	}
	return s, nil
}

// Name returns the schema identifier.
func (s *Schema) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// Len reports the number of attributes.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.attributes)
}

// Attributes returns a copy of the attribute table in declaration order.
func (s *Schema) Attributes() []Attribute {
	if s == nil {
		return nil
	}
	out := make([]Attribute, len(s.attributes))
	for i, attr := range s.attributes {
		out[i] = cloneAttribute(attr)
	}
	return out
}

// Keys lists attribute keys in declaration order.
func (s *Schema) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, len(s.attributes))
	for i, attr := range s.attributes {
		keys[i] = attr.Key
	}
	return keys
}

// Lookup resolves an attribute by key.
func (s *Schema) Lookup(key string) (Attribute, bool) {
	if s == nil {
		return Attribute{}, false
	}
	idx, ok := s.index[key]
	if !ok {
		return Attribute{}, false
	}
	return cloneAttribute(s.attributes[idx]), true
}

// Defaults returns a fresh key → default map.
func (s *Schema) Defaults() map[string]any {
	if s == nil {
		return nil
	}
	out := make(map[string]any, len(s.attributes))
	for _, attr := range s.attributes {
		out[attr.Key] = attr.Default
	}
	return out
}

func normaliseDefault(attr Attribute) (any, error) {
	switch attr.Kind {
	case KindNumeric:
		switch v := attr.Default.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case uint64:
			return float64(v), nil
		case string:
			coerced, err := attr.Coerce(v)
			if err != nil {
				return nil, fmt.Errorf("%w for %q: %v", ErrInvalidDefault, attr.Key, err)
			}
			return coerced, nil
		default:
			return nil, fmt.Errorf("%w for %q: expected number, got %T", ErrInvalidDefault, attr.Key, attr.Default)
		}
	case KindCategorical:
		v, ok := attr.Default.(string)
		if !ok {
			return nil, fmt.Errorf("%w for %q: expected string, got %T", ErrInvalidDefault, attr.Key, attr.Default)
		}
		if len(attr.Choices) == 0 {
			return nil, fmt.Errorf("schema: categorical attribute %q declares no choices", attr.Key)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("%w %q on %q", ErrUnknownKind, attr.Kind, attr.Key)
	}
}
