package openapi

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-scorecast/pkg/schema"
)

const (
	DefaultPath        = "/predict"
	DefaultContentType = "application/json"
)

// Option configures Compare.
type Option func(*options)

type options struct {
	ctx         context.Context
	path        string
	contentType string
}

// WithContext sets the context used while resolving the document.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// WithPath selects the POST operation to compare against.
func WithPath(path string) Option {
	return func(o *options) {
		if strings.TrimSpace(path) != "" {
			o.path = path
		}
	}
}

// WithContentType selects the request body media type.
func WithContentType(contentType string) Option {
	return func(o *options) {
		if strings.TrimSpace(contentType) != "" {
			o.contentType = contentType
		}
	}
}

// Compare loads an OpenAPI document and reports every difference between the
// attribute table and the POST request body schema. Drift for local
// attributes follows schema order; extra service properties follow, sorted by
// name. A nil slice means the two agree.
func Compare(s *schema.Schema, doc []byte, opts ...Option) ([]Drift, error) {
	if s == nil {
		s = schema.Default()
	}
	cfg := options{
		ctx:         context.Background(),
		path:        DefaultPath,
		contentType: DefaultContentType,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	body, err := requestSchema(cfg, doc)
	if err != nil {
		return nil, err
	}

	var drifts []Drift
	seen := make(map[string]struct{}, s.Len())
	for _, attr := range s.Attributes() {
		seen[attr.Key] = struct{}{}
		ref, ok := body.Properties[attr.Key]
		if !ok || ref == nil || ref.Value == nil {
			drifts = append(drifts, Drift{Key: attr.Key, Kind: DriftMissing})
			continue
		}
		drifts = append(drifts, compareProperty(attr, flatten(ref.Value))...)
	}

	var extras []string
	for name := range body.Properties {
		if _, ok := seen[name]; !ok {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	for _, name := range extras {
		drift := Drift{Key: name, Kind: DriftExtra}
		if slices.Contains(body.Required, name) {
			drift.Remote = "required"
		}
		drifts = append(drifts, drift)
	}
	return drifts, nil
}

func requestSchema(cfg options, doc []byte) (*openapi3.Schema, error) {
	if len(doc) == 0 {
		return nil, ErrEmptyDocument
	}

	loader := openapi3.NewLoader()
	loader.Context = cfg.ctx
	spec, err := loader.LoadFromData(doc)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}

	if spec.Paths == nil {
		return nil, fmt.Errorf("%w: POST %s", ErrOperationNotFound, cfg.path)
	}
	item := spec.Paths.Value(cfg.path)
	if item == nil || item.Post == nil {
		return nil, fmt.Errorf("%w: POST %s", ErrOperationNotFound, cfg.path)
	}

	body := item.Post.RequestBody
	if body == nil || body.Value == nil {
		return nil, fmt.Errorf("%w: POST %s", ErrRequestBodyMissing, cfg.path)
	}
	media := body.Value.Content.Get(cfg.contentType)
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil, fmt.Errorf("%w: POST %s %s", ErrRequestBodyMissing, cfg.path, cfg.contentType)
	}
	return flatten(media.Schema.Value), nil
}

// flatten unwraps single-branch allOf/anyOf wrappers that pydantic emits
// around referenced models and enums.
func flatten(s *openapi3.Schema) *openapi3.Schema {
	for s != nil && s.Type == nil && len(s.Properties) == 0 && len(s.Enum) == 0 {
		var branches openapi3.SchemaRefs
		switch {
		case len(s.AllOf) == 1:
			branches = s.AllOf
		case len(s.AnyOf) == 1:
			branches = s.AnyOf
		default:
			return s
		}
		if branches[0] == nil || branches[0].Value == nil {
			return s
		}
		s = branches[0].Value
	}
	return s
}

func compareProperty(attr schema.Attribute, remote *openapi3.Schema) []Drift {
	types := remote.Type.Slice()
	remoteNumeric := slices.Contains(types, "number") || slices.Contains(types, "integer")
	remoteText := slices.Contains(types, "string") || (len(types) == 0 && len(remote.Enum) > 0)

	if attr.Numeric() {
		if !remoteNumeric {
			return []Drift{{Key: attr.Key, Kind: DriftType, Local: "number", Remote: describeTypes(types)}}
		}
		var out []Drift
		if !sameBound(attr.Min, remote.Min) {
			out = append(out, Drift{Key: attr.Key, Kind: DriftRange, Local: "min " + bound(attr.Min), Remote: "min " + bound(remote.Min)})
		}
		if !sameBound(attr.Max, remote.Max) {
			out = append(out, Drift{Key: attr.Key, Kind: DriftRange, Local: "max " + bound(attr.Max), Remote: "max " + bound(remote.Max)})
		}
		return out
	}

	if !remoteText {
		return []Drift{{Key: attr.Key, Kind: DriftType, Local: "string", Remote: describeTypes(types)}}
	}
	if len(remote.Enum) == 0 {
		return nil
	}
	local := attr.ChoiceValues()
	service := enumValues(remote.Enum)
	if !sameSet(local, service) {
		return []Drift{{
			Key:    attr.Key,
			Kind:   DriftEnum,
			Local:  "[" + strings.Join(sorted(local), ", ") + "]",
			Remote: "[" + strings.Join(sorted(service), ", ") + "]",
		}}
	}
	return nil
}

func describeTypes(types []string) string {
	if len(types) == 0 {
		return "untyped"
	}
	return strings.Join(types, "|")
}

func sameBound(local, remote *float64) bool {
	if local == nil || remote == nil {
		return local == nil && remote == nil
	}
	return math.Abs(*local-*remote) < 1e-9
}

func bound(v *float64) string {
	if v == nil {
		return "none"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func enumValues(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, fmt.Sprint(v))
	}
	return out
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	return slices.Equal(sorted(a), sorted(b))
}

func sorted(values []string) []string {
	out := append([]string(nil), values...)
	sort.Strings(out)
	return out
}
