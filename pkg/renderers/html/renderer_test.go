package html_test

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-scorecast/pkg/form"
	"github.com/goliatone/go-scorecast/pkg/predict"
	"github.com/goliatone/go-scorecast/pkg/render"
	"github.com/goliatone/go-scorecast/pkg/renderers/html"
	"github.com/goliatone/go-scorecast/pkg/schema"
	"github.com/goliatone/go-scorecast/pkg/testsupport"
)

func renderPage(t *testing.T, in render.ViewInput) string {
	t.Helper()

	renderer, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if in.Schema == nil {
		in.Schema = schema.Default()
	}
	if in.Snapshot.Empty() {
		in.Snapshot = form.NewStore(in.Schema).Snapshot()
	}
	if in.Action == "" {
		in.Action = "/predict"
	}
	out, err := renderer.Render(context.Background(), render.NewView(in))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func TestRenderer_Metadata(t *testing.T) {
	renderer, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if renderer.Name() != "html" || !strings.HasPrefix(renderer.ContentType(), "text/html") {
		t.Fatalf("unexpected metadata %s %s", renderer.Name(), renderer.ContentType())
	}
}

func TestRender_IdleForm(t *testing.T) {
	page := renderPage(t, render.ViewInput{State: predict.Idle()})

	for _, want := range []string{
		`<title>Exam Score Predictor</title>`,
		`action="/predict"`,
		`name="study_hours" type="number" value="5" min="0" max="24" step="0.5"`,
		`name="age" type="number" value="20" min="10" max="100" step="1"`,
		`<option value="undergraduate" selected>Undergraduate</option>`,
		`<option value="phd">PhD</option>`,
		`>Predict Score</button>`,
	} {
		if !strings.Contains(page, want) {
			t.Fatalf("expected page to contain %q\n%s", want, page)
		}
	}
	if strings.Contains(page, "sc-chart") || strings.Contains(page, "sc-result\"") {
		t.Fatalf("idle page without insights should have no chart or result")
	}
}

func TestRender_Pending(t *testing.T) {
	page := renderPage(t, render.ViewInput{State: predict.State{Phase: predict.PhasePending}})
	if !strings.Contains(page, `disabled aria-busy="true">Calculating...</button>`) {
		t.Fatalf("expected busy submit button\n%s", page)
	}
}

func TestRender_Result(t *testing.T) {
	result := testsupport.SampleResult()
	page := renderPage(t, render.ViewInput{State: predict.State{Phase: predict.PhaseSucceeded, Result: &result}})
	for _, want := range []string{
		`<p class="sc-score">85.2</p>`,
		`<dd>high</dd>`,
		`<dd>92%</dd>`,
	} {
		if !strings.Contains(page, want) {
			t.Fatalf("expected page to contain %q", want)
		}
	}
}

func TestRender_ErrorIsSanitized(t *testing.T) {
	page := renderPage(t, render.ViewInput{State: predict.State{
		Phase:   predict.PhaseFailed,
		Message: `<img src=x onerror=alert(1)>model unavailable`,
	}})
	if !strings.Contains(page, `role="alert">model unavailable</div>`) {
		t.Fatalf("expected sanitized error message\n%s", page)
	}
	if strings.Contains(page, "onerror") {
		t.Fatalf("markup leaked into page")
	}
}

func TestRender_Chart(t *testing.T) {
	page := renderPage(t, render.ViewInput{State: predict.Idle(), Insights: testsupport.SampleImportance()})

	if !strings.Contains(page, "What drives higher scores?") {
		t.Fatalf("expected chart title")
	}
	if got := strings.Count(page, `class="sc-bar sc-bar--emphasis"`); got != 3 {
		t.Fatalf("expected 3 emphasized bars, got %d", got)
	}
	if got := strings.Count(page, `class="sc-bar" `); got != 1 {
		t.Fatalf("expected 1 muted bar, got %d", got)
	}

	order := []string{"study_hours</span>", "sleep</span>", "attendance</span>", "age</span>"}
	last := -1
	for _, label := range order {
		idx := strings.Index(page, `<span class="sc-bar-label">`+label)
		if idx <= last {
			t.Fatalf("bar %q out of order", label)
		}
		last = idx
	}
	if !strings.Contains(page, "width: 100.00%; background: #6366f1") {
		t.Fatalf("expected full-width emphasized bar")
	}
	if !strings.Contains(page, "width: 12.50%; background: #334155") {
		t.Fatalf("expected muted fill on the fourth bar")
	}
}

func TestRender_FieldErrorsAndHidden(t *testing.T) {
	age, _ := schema.Default().Lookup("age")
	page := renderPage(t, render.ViewInput{
		State:  predict.Idle(),
		Errors: render.ValidationErrors(age.Validate(500.0)),
		Hidden: []render.HiddenField{render.CSRFToken("tok")},
	})
	if !strings.Contains(page, `sc-field sc-field--invalid" data-field="age"`) {
		t.Fatalf("expected invalid age field")
	}
	if !strings.Contains(page, "must be between 10 and 100") {
		t.Fatalf("expected age error message")
	}
	if !strings.Contains(page, `<input type="hidden" name="_csrf" value="tok">`) {
		t.Fatalf("expected csrf hidden input")
	}
}

func TestRender_Theme(t *testing.T) {
	themes, err := render.NewThemes(render.VariantDark)
	if err != nil {
		t.Fatalf("themes: %v", err)
	}
	cfg, err := themes.Resolve(render.VariantLight)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	page := renderPage(t, render.ViewInput{State: predict.Idle(), Theme: cfg})
	if !strings.Contains(page, `data-theme="light"`) {
		t.Fatalf("expected light theme attribute")
	}
	if !strings.Contains(page, "--surface: #f8fafc;") {
		t.Fatalf("expected light css vars")
	}
	if !strings.Contains(page, `name="variant" value="dark"`) {
		t.Fatalf("expected toggle back to dark")
	}
}
