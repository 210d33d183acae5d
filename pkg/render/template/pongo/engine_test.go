package pongo_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-scorecast/pkg/render/template/pongo"
)

func newEngine(t *testing.T, opts ...pongo.Option) *pongo.Engine {
	t.Helper()

	files := fstest.MapFS{
		"hello.tpl":      {Data: []byte("Hello {{ name }}!")},
		"use-global.tpl": {Data: []byte("env={{ settings.env }}")},
		"use-filter.tpl": {Data: []byte("{{ name|shout }}")},
		"struct.tpl":     {Data: []byte("{{ card.pass_label }} {{ card.score }}")},
		"escape.tpl":     {Data: []byte("{{ text }}")},
	}
	engine, err := pongo.New(append([]pongo.Option{pongo.WithFS(files)}, opts...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_Render(t *testing.T) {
	engine := newEngine(t)

	var sb strings.Builder
	got, err := engine.Render("hello", map[string]any{"name": "Ada"}, &sb)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "Hello Ada!" || sb.String() != got {
		t.Fatalf("unexpected output %q / %q", got, sb.String())
	}
}

func TestEngine_RenderStructUsesJSONNames(t *testing.T) {
	engine := newEngine(t)
	type card struct {
		Score     string `json:"score"`
		PassLabel string `json:"pass_label"`
	}
	got, err := engine.Render("struct", struct {
		Card card `json:"card"`
	}{Card: card{Score: "85.2", PassLabel: "92%"}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "92% 85.2" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t, pongo.WithGlobalData(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}))
	got, err := engine.Render("use-global", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "env=staging" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_Filter(t *testing.T) {
	shout := func(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		return pongo2.AsValue(strings.ToUpper(in.String()) + "!"), nil
	}
	engine := newEngine(t, pongo.WithFilter("shout", shout))
	got, err := engine.Render("use-filter", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "ADA!" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_AutoescapesAndInline(t *testing.T) {
	engine := newEngine(t)
	got, err := engine.Render("escape", map[string]any{"text": "<b>x</b>"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(got, "<b>") {
		t.Fatalf("expected escaped output, got %q", got)
	}

	inline, err := engine.Render("{{ a }}-{{ b }}", map[string]any{"a": 1, "b": "two"})
	if err != nil {
		t.Fatalf("render inline: %v", err)
	}
	if inline != "1-two" {
		t.Fatalf("unexpected inline output %q", inline)
	}
}

func TestEngine_Errors(t *testing.T) {
	if _, err := pongo.New(); err == nil {
		t.Fatalf("expected error without fs")
	}
	engine := newEngine(t)
	if _, err := engine.Render("missing", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
}
