package render

import (
	"errors"
	"strconv"
	"strings"

	"github.com/goliatone/go-scorecast/pkg/schema"
)

// ErrorMapping splits error messages into per-attribute and form-level
// messages. Field keys are schema attribute keys.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// Empty reports whether the mapping carries no messages.
func (m ErrorMapping) Empty() bool {
	return len(m.Fields) == 0 && len(m.Form) == 0
}

// Merge combines two mappings, preserving order and dropping duplicates.
func (m ErrorMapping) Merge(other ErrorMapping) ErrorMapping {
	out := ErrorMapping{Form: MergeFormErrors(m.Form, other.Form...)}
	for _, src := range []map[string][]string{m.Fields, other.Fields} {
		for key, messages := range src {
			if out.Fields == nil {
				out.Fields = make(map[string][]string)
			}
			out.Fields[key] = normalizeMessages(append(out.Fields[key], messages...))
		}
	}
	return out
}

// MergeFormErrors concatenates form-level messages, trimming whitespace and
// removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// ValidationErrors maps widget rejections onto their attribute keys. Errors
// that are not schema.ValidationError become form-level messages.
func ValidationErrors(errs ...error) ErrorMapping {
	mapping := ErrorMapping{}
	for _, err := range errs {
		if err == nil {
			continue
		}
		var verr *schema.ValidationError
		if errors.As(err, &verr) && verr.Key != "" {
			if mapping.Fields == nil {
				mapping.Fields = make(map[string][]string)
			}
			mapping.Fields[verr.Key] = normalizeMessages(append(mapping.Fields[verr.Key], verr.Reason))
			continue
		}
		mapping.Form = MergeFormErrors(mapping.Form, err.Error())
	}
	return mapping
}

// MapErrorPayload resolves service-reported locations ("body.age",
// "/body/age", "$.body.age[0]") to schema keys. Unknown locations become
// form-level messages so nothing is lost.
func MapErrorPayload(s *schema.Schema, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{}
	if len(payload) == 0 {
		return mapping
	}

	keys := make(map[string]struct{}, s.Len())
	for _, key := range s.Keys() {
		keys[key] = struct{}{}
	}

	for rawPath, messages := range payload {
		normalized := normalizeMessages(messages)
		if len(normalized) == 0 {
			continue
		}

		key, formLevel := mapErrorPath(rawPath, keys)
		if formLevel {
			mapping.Form = append(mapping.Form, normalized...)
			continue
		}
		if mapping.Fields == nil {
			mapping.Fields = make(map[string][]string)
		}
		mapping.Fields[key] = normalizeMessages(append(mapping.Fields[key], normalized...))
	}

	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func mapErrorPath(raw string, keys map[string]struct{}) (string, bool) {
	if isFormLevelKey(raw) {
		return "", true
	}

	segments := stripNumericSegments(dropWrapperSegments(parsePathSegments(raw)))
	if len(segments) == 0 {
		return "", true
	}
	if _, ok := keys[segments[0]]; ok {
		return segments[0], false
	}
	return "", true
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, ".") || strings.HasPrefix(clean, "$") {
		clean = clean[1:]
	}

	replacer := strings.NewReplacer("[", ".", "]", "")
	clean = strings.Trim(replacer.Replace(clean), "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if segment := strings.TrimSpace(part); segment != "" {
			out = append(out, segment)
		}
	}
	return out
}

func dropWrapperSegments(segments []string) []string {
	out := segments
	for len(out) > 0 {
		switch strings.ToLower(out[0]) {
		case "body", "request", "payload", "data", "query":
			out = out[1:]
			continue
		}
		break
	}
	return out
}

func stripNumericSegments(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		out = append(out, segment)
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "body", "__root__", "__all__", "non_field_errors":
		return true
	default:
		return false
	}
}
