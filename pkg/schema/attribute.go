package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind distinguishes numeric attributes from categorical ones. The kind
// decides how raw widget input is coerced before it reaches the form store.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
)

// Choice is one allowed code of a categorical attribute.
type Choice struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label,omitempty" yaml:"label"`
}

// Attribute declares a single input of the prediction request: its wire key,
// kind, default and constraints. Numeric attributes use Min/Max/Step while
// categorical attributes list their Choices.
type Attribute struct {
	Key     string   `json:"key" yaml:"key"`
	Label   string   `json:"label,omitempty" yaml:"label"`
	Help    string   `json:"help,omitempty" yaml:"help"`
	Kind    Kind     `json:"kind" yaml:"kind"`
	Default any      `json:"default" yaml:"default"`
	Min     *float64 `json:"min,omitempty" yaml:"min"`
	Max     *float64 `json:"max,omitempty" yaml:"max"`
	Step    *float64 `json:"step,omitempty" yaml:"step"`
	Choices []Choice `json:"choices,omitempty" yaml:"choices"`
}

// Numeric reports whether the attribute holds numbers.
func (a Attribute) Numeric() bool {
	return a.Kind == KindNumeric
}

// DisplayLabel falls back to the key when no label is configured.
func (a Attribute) DisplayLabel() string {
	if strings.TrimSpace(a.Label) != "" {
		return a.Label
	}
	return a.Key
}

// ChoiceValues lists the allowed codes in declaration order.
func (a Attribute) ChoiceValues() []string {
	out := make([]string, 0, len(a.Choices))
	for _, choice := range a.Choices {
		out = append(out, choice.Value)
	}
	return out
}

// ChoiceLabel resolves the label for a categorical code, falling back to the
// code itself.
func (a Attribute) ChoiceLabel(value string) string {
	for _, choice := range a.Choices {
		if choice.Value == value {
			if choice.Label != "" {
				return choice.Label
			}
			return choice.Value
		}
	}
	return value
}

// Coerce converts raw widget text into the runtime type declared by the kind.
// Numeric input must parse as a finite number; categorical input is returned
// unchanged.
func (a Attribute) Coerce(raw string) (any, error) {
	if a.Kind != KindNumeric {
		return raw, nil
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, rejection(a.Key, ErrNotNumeric, "must be a number")
	}
	return value, nil
}

// Validate applies the widget-level constraints: range and step for numbers,
// membership for categorical codes.
func (a Attribute) Validate(value any) error {
	switch a.Kind {
	case KindNumeric:
		number, ok := value.(float64)
		if !ok || math.IsNaN(number) || math.IsInf(number, 0) {
			return rejection(a.Key, ErrNotNumeric, "must be a number")
		}
		if a.Min != nil && number < *a.Min {
			return a.rangeRejection()
		}
		if a.Max != nil && number > *a.Max {
			return a.rangeRejection()
		}
		if a.Step != nil && *a.Step > 0 && !onStep(number, a.base(), *a.Step) {
			return rejection(a.Key, ErrStepMismatch, "must be a multiple of %s", formatNumber(*a.Step))
		}
		return nil
	case KindCategorical:
		text, ok := value.(string)
		if !ok {
			return rejection(a.Key, ErrNotAChoice, "must be one of %s", strings.Join(a.ChoiceValues(), ", "))
		}
		for _, choice := range a.Choices {
			if choice.Value == text {
				return nil
			}
		}
		return rejection(a.Key, ErrNotAChoice, "must be one of %s", strings.Join(a.ChoiceValues(), ", "))
	default:
		return fmt.Errorf("%w %q", ErrUnknownKind, a.Kind)
	}
}

// FormatValue renders a stored value the way an input widget expects it.
func (a Attribute) FormatValue(value any) string {
	switch v := value.(type) {
	case float64:
		return formatNumber(v)
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func (a Attribute) rangeRejection() *ValidationError {
	switch {
	case a.Min != nil && a.Max != nil:
		return rejection(a.Key, ErrOutOfRange, "must be between %s and %s", formatNumber(*a.Min), formatNumber(*a.Max))
	case a.Min != nil:
		return rejection(a.Key, ErrOutOfRange, "must be at least %s", formatNumber(*a.Min))
	default:
		return rejection(a.Key, ErrOutOfRange, "must be at most %s", formatNumber(*a.Max))
	}
}

func (a Attribute) base() float64 {
	if a.Min != nil {
		return *a.Min
	}
	return 0
}

func onStep(value, base, step float64) bool {
	q := (value - base) / step
	return math.Abs(q-math.Round(q)) <= 1e-9*math.Max(1, math.Abs(q))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func cloneAttribute(a Attribute) Attribute {
	out := a
	if len(a.Choices) > 0 {
		out.Choices = append([]Choice(nil), a.Choices...)
	}
	if a.Min != nil {
		v := *a.Min
		out.Min = &v
	}
	if a.Max != nil {
		v := *a.Max
		out.Max = &v
	}
	if a.Step != nil {
		v := *a.Step
		out.Step = &v
	}
	return out
}
