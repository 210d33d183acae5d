package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-scorecast/pkg/render"
)

func TestThemes_ResolveVariants(t *testing.T) {
	themes, err := render.NewThemes("")
	if err != nil {
		t.Fatalf("new themes: %v", err)
	}
	if diff := cmp.Diff([]string{"dark", "light"}, themes.Variants()); diff != "" {
		t.Fatalf("variants mismatch (-want +got):\n%s", diff)
	}

	dark, err := themes.Resolve("")
	if err != nil {
		t.Fatalf("resolve default: %v", err)
	}
	if dark.Theme != render.ThemeName || dark.Variant != render.VariantDark {
		t.Fatalf("unexpected selection %s/%s", dark.Theme, dark.Variant)
	}
	if dark.Tokens["chart-emphasis"] != render.EmphasisFill {
		t.Fatalf("missing emphasis token: %v", dark.Tokens)
	}
	if dark.CSSVars["--surface"] != "#0f172a" {
		t.Fatalf("css vars not derived from tokens: %v", dark.CSSVars)
	}

	light, err := themes.Resolve("light")
	if err != nil {
		t.Fatalf("resolve light: %v", err)
	}
	if light.Tokens["surface"] != "#f8fafc" {
		t.Fatalf("variant tokens not merged: %v", light.Tokens)
	}
	if light.Tokens["accent"] != "#6366f1" {
		t.Fatalf("base tokens lost in variant: %v", light.Tokens)
	}

	if _, err := themes.Resolve("sepia"); err == nil {
		t.Fatalf("expected error for unknown variant")
	}
	if _, err := themes.Select("missing", ""); err == nil {
		t.Fatalf("expected error for unknown theme")
	}
}

func TestToggleVariant(t *testing.T) {
	if render.ToggleVariant("dark") != "light" || render.ToggleVariant("light") != "dark" {
		t.Fatalf("toggle should flip dark and light")
	}
	if render.ToggleVariant("") != "light" {
		t.Fatalf("unknown variants toggle to light")
	}
}
