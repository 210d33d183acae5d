package render

import (
	"fmt"
	"sort"
	"strings"
)

// CSRFFieldName is the hidden input carrying the session token on form posts.
const CSRFFieldName = "_csrf"

// HiddenField is a hidden input emitted alongside the attribute widgets.
type HiddenField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken constructs the hidden field checked by the web front end.
func CSRFToken(token string) HiddenField {
	return Hidden(CSRFFieldName, token)
}

// HiddenFields normalises fields for deterministic rendering: empty names are
// dropped, later fields win on name collisions, and the result is sorted by
// name.
func HiddenFields(fields ...HiddenField) []HiddenField {
	if len(fields) == 0 {
		return nil
	}

	clean := make(map[string]string, len(fields))
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		clean[name] = field.Value
	}
	if len(clean) == 0 {
		return nil
	}

	names := make([]string, 0, len(clean))
	for name := range clean {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]HiddenField, 0, len(names))
	for _, name := range names {
		out = append(out, HiddenField{Name: name, Value: clean[name]})
	}
	return out
}
