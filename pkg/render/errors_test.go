package render_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-scorecast/pkg/render"
	"github.com/goliatone/go-scorecast/pkg/schema"
)

func TestMapErrorPayload_ServiceLocations(t *testing.T) {
	payload := map[string][]string{
		"body.age":            {"ensure this value is less than 100"},
		"/body/study_hours":   {"value is not a valid float"},
		"$.body.course[0]":    {"unexpected value"},
		"body":                {"Invalid JSON body"},
		"body.favourite_food": {"extra fields not permitted"},
		"":                    {"  "},
	}

	got := render.MapErrorPayload(schema.Default(), payload)
	want := render.ErrorMapping{
		Fields: map[string][]string{
			"age":         {"ensure this value is less than 100"},
			"study_hours": {"value is not a valid float"},
			"course":      {"unexpected value"},
		},
		Form: []string{"Invalid JSON body", "extra fields not permitted"},
	}
	sortStrings := cmpopts.SortSlices(func(a, b string) bool { return a < b })
	if diff := cmp.Diff(want, got, sortStrings); diff != "" {
		t.Fatalf("mapping mismatch (-want +got):\n%s", diff)
	}
}

func TestValidationErrors(t *testing.T) {
	age, _ := schema.Default().Lookup("age")
	course, _ := schema.Default().Lookup("course")

	got := render.ValidationErrors(
		age.Validate(500.0),
		course.Validate("kindergarten"),
		nil,
		errors.New("form expired"),
	)
	want := render.ErrorMapping{
		Fields: map[string][]string{
			"age":    {"must be between 10 and 100"},
			"course": {"must be one of diploma, undergraduate, postgraduate, phd, certificate, professional, vocational"},
		},
		Form: []string{"form expired"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mapping mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorMapping_Merge(t *testing.T) {
	a := render.ErrorMapping{Fields: map[string][]string{"age": {"too old"}}, Form: []string{"first"}}
	b := render.ErrorMapping{Fields: map[string][]string{"age": {"too old", "off step"}}, Form: []string{"first", "second"}}

	got := a.Merge(b)
	want := render.ErrorMapping{
		Fields: map[string][]string{"age": {"too old", "off step"}},
		Form:   []string{"first", "second"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
	if !(render.ErrorMapping{}).Empty() {
		t.Fatalf("zero mapping should be empty")
	}
}
