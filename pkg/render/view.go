package render

import (
	"sort"
	"strconv"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-scorecast/pkg/form"
	"github.com/goliatone/go-scorecast/pkg/predict"
	"github.com/goliatone/go-scorecast/pkg/schema"
)

// DefaultTitle heads the page and terminal output.
const DefaultTitle = "Exam Score Predictor"

// View is everything a renderer needs for one frame: the attribute widgets,
// the projected submission state and chart, and the resolved theme.
type View struct {
	Title      string        `json:"title"`
	Action     string        `json:"action"`
	Fields     []Field       `json:"fields"`
	Hidden     []HiddenField `json:"hidden,omitempty"`
	FormErrors []string      `json:"form_errors,omitempty"`
	Projection Projection    `json:"projection"`
	Theme      ThemeContext  `json:"theme"`
}

// Field is one attribute widget.
type Field struct {
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Help    string   `json:"help,omitempty"`
	Kind    string   `json:"kind"`
	Numeric bool     `json:"numeric"`
	Value   string   `json:"value"`
	Display string   `json:"display"`
	Min     string   `json:"min,omitempty"`
	Max     string   `json:"max,omitempty"`
	Step    string   `json:"step,omitempty"`
	Options []Option `json:"options,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// Option is one choice of a categorical widget.
type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// ThemeContext is the theme data templates consume.
type ThemeContext struct {
	Name         string            `json:"name"`
	Variant      string            `json:"variant"`
	Toggle       string            `json:"toggle"`
	Tokens       map[string]string `json:"tokens,omitempty"`
	CSSVars      map[string]string `json:"css_vars,omitempty"`
	CSSVarsStyle string            `json:"css_vars_style,omitempty"`
}

// ViewInput gathers the sources NewView composes.
type ViewInput struct {
	Title    string
	Action   string
	Schema   *schema.Schema
	Snapshot form.Snapshot
	// Errors carries widget rejections and form-level messages.
	Errors   ErrorMapping
	State    predict.State
	Insights []predict.FeatureImportance
	Theme    *theme.RendererConfig
	Hidden   []HiddenField
	// Entered overrides the displayed value of widgets whose typed text was
	// rejected and never reached the store.
	Entered map[string]string
}

// NewView composes a View. Service-reported field errors carried by a failed
// state are mapped onto the attribute widgets next to the widget rejections.
func NewView(in ViewInput) View {
	s := in.Schema
	if s == nil {
		s = schema.Default()
	}

	errs := in.Errors
	if in.State.Phase == predict.PhaseFailed && len(in.State.Fields) > 0 {
		service := MapErrorPayload(s, in.State.Fields)
		// Unmapped service locations are already part of the failure message.
		service.Form = nil
		errs = errs.Merge(service)
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = DefaultTitle
	}

	return View{
		Title:      title,
		Action:     in.Action,
		Fields:     buildFields(s, in.Snapshot, in.Entered, errs.Fields),
		Hidden:     HiddenFields(in.Hidden...),
		FormErrors: errs.Form,
		Projection: Project(in.State, in.Insights),
		Theme:      themeContext(in.Theme),
	}
}

// Field returns the widget for key.
func (v View) Field(key string) (Field, bool) {
	for _, field := range v.Fields {
		if field.Key == key {
			return field, true
		}
	}
	return Field{}, false
}

func buildFields(s *schema.Schema, snap form.Snapshot, entered map[string]string, errs map[string][]string) []Field {
	attrs := s.Attributes()
	fields := make([]Field, 0, len(attrs))
	for _, attr := range attrs {
		value, ok := snap.Get(attr.Key)
		if !ok {
			value = attr.Default
		}
		current := attr.FormatValue(value)
		if raw, ok := entered[attr.Key]; ok {
			current = raw
		}

		field := Field{
			Key:     attr.Key,
			Label:   attr.DisplayLabel(),
			Help:    attr.Help,
			Kind:    string(attr.Kind),
			Numeric: attr.Numeric(),
			Value:   current,
			Display: current,
			Min:     formatBound(attr.Min),
			Max:     formatBound(attr.Max),
			Step:    formatBound(attr.Step),
			Errors:  append([]string(nil), errs[attr.Key]...),
		}
		if !attr.Numeric() {
			field.Display = attr.ChoiceLabel(current)
			field.Options = make([]Option, 0, len(attr.Choices))
			for _, choice := range attr.Choices {
				field.Options = append(field.Options, Option{
					Value:    choice.Value,
					Label:    attr.ChoiceLabel(choice.Value),
					Selected: choice.Value == current,
				})
			}
		}
		if len(field.Errors) == 0 {
			field.Errors = nil
		}
		fields = append(fields, field)
	}
	return fields
}

func formatBound(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func themeContext(cfg *theme.RendererConfig) ThemeContext {
	if cfg == nil {
		return ThemeContext{Variant: VariantDark, Toggle: VariantLight}
	}
	ctx := ThemeContext{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		Toggle:  ToggleVariant(cfg.Variant),
		Tokens:  copyStringMap(cfg.Tokens),
		CSSVars: copyStringMap(cfg.CSSVars),
	}
	ctx.CSSVarsStyle = cssVarsStyle(ctx.CSSVars)
	return ctx
}

// Token returns a theme token or fallback when it is not set.
func (t ThemeContext) Token(key, fallback string) string {
	if v, ok := t.Tokens[key]; ok && v != "" {
		return v
	}
	return fallback
}

func copyStringMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString("; ")
	}
	return strings.TrimSpace(b.String())
}
