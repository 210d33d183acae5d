package render

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

const (
	// ThemeName is the built-in theme.
	ThemeName = "scorecast"
	// VariantDark and VariantLight are the built-in variants.
	VariantDark  = "dark"
	VariantLight = "light"
)

// DefaultManifest describes the built-in palette. Base tokens are the dark
// variant; the light variant overrides the surface and text colours.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    ThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"surface":        "#0f172a",
			"surface-raised": "#1e293b",
			"border":         "#334155",
			"text":           "#e2e8f0",
			"text-muted":     "#94a3b8",
			"accent":         "#6366f1",
			"danger":         "#f87171",
			"success":        "#34d399",
			"chart-emphasis": EmphasisFill,
			"chart-muted":    MutedFill,
		},
		Variants: map[string]theme.Variant{
			VariantDark: {
				Tokens: map[string]string{
					"scheme": "dark",
				},
			},
			VariantLight: {
				Tokens: map[string]string{
					"scheme":         "light",
					"surface":        "#f8fafc",
					"surface-raised": "#ffffff",
					"border":         "#cbd5e1",
					"text":           "#0f172a",
					"text-muted":     "#475569",
					"danger":         "#dc2626",
					"success":        "#059669",
					"chart-muted":    "#cbd5e1",
				},
			},
		},
	}
}

// Themes resolves theme selections for renderers. It satisfies
// theme.ThemeSelector.
type Themes struct {
	mu             sync.RWMutex
	registry       manifestRegistry
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*Themes)(nil)

type manifestRegistry interface {
	Register(manifest *theme.Manifest) error
}

// NewThemes registers the manifests, using the first as the default theme.
func NewThemes(defaultVariant string, manifests ...*theme.Manifest) (*Themes, error) {
	if len(manifests) == 0 {
		manifests = []*theme.Manifest{DefaultManifest()}
	}
	t := &Themes{
		registry:       theme.NewRegistry(),
		manifests:      make(map[string]*theme.Manifest, len(manifests)),
		defaultVariant: strings.TrimSpace(defaultVariant),
	}
	for _, manifest := range manifests {
		if manifest == nil {
			continue
		}
		if err := t.registry.Register(manifest); err != nil {
			return nil, fmt.Errorf("render: register theme %q: %w", manifest.Name, err)
		}
		t.manifests[manifest.Name] = manifest
		if t.defaultTheme == "" {
			t.defaultTheme = manifest.Name
		}
	}
	if t.defaultTheme == "" {
		return nil, fmt.Errorf("render: no theme manifest provided")
	}
	if t.defaultVariant == "" {
		t.defaultVariant = VariantDark
	}
	return t, nil
}

// Select resolves a theme and variant, falling back to the defaults for
// empty names. Unknown variants are rejected.
func (t *Themes) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	name = strings.TrimSpace(name)
	variant = strings.TrimSpace(variant)
	if name == "" {
		name = t.defaultTheme
	}
	if variant == "" {
		variant = t.defaultVariant
	}

	t.mu.RLock()
	manifest, ok := t.manifests[name]
	t.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("render: theme %q not found", name)
	}
	if _, ok := manifest.Variants[variant]; !ok && len(manifest.Variants) > 0 {
		return nil, fmt.Errorf("render: theme %q has no variant %q", name, variant)
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// Variants lists the variants of the default theme, sorted.
func (t *Themes) Variants() []string {
	t.mu.RLock()
	manifest := t.manifests[t.defaultTheme]
	t.mu.RUnlock()

	out := make([]string, 0, len(manifest.Variants))
	for name := range manifest.Variants {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Resolve selects a variant of the default theme and derives the renderer
// configuration for it.
func (t *Themes) Resolve(variant string) (*theme.RendererConfig, error) {
	selection, err := t.Select("", variant)
	if err != nil {
		return nil, err
	}
	return RendererConfig(selection), nil
}

// RendererConfig merges the variant tokens over the base tokens and derives
// one CSS custom property per token.
func RendererConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest

	tokens := make(map[string]string, len(manifest.Tokens))
	for key, value := range manifest.Tokens {
		tokens[key] = value
	}
	partials := make(map[string]string, len(manifest.Templates))
	for key, value := range manifest.Templates {
		partials[key] = value
	}
	files := make(map[string]string, len(manifest.Assets.Files))
	for key, value := range manifest.Assets.Files {
		files[key] = value
	}
	prefix := manifest.Assets.Prefix

	if variant, ok := manifest.Variants[selection.Variant]; ok {
		for key, value := range variant.Tokens {
			tokens[key] = value
		}
		for key, value := range variant.Templates {
			partials[key] = value
		}
		for key, value := range variant.Assets.Files {
			files[key] = value
		}
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok {
				return ""
			}
			if prefix == "" {
				return file
			}
			return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
		},
	}
}

// ToggleVariant returns the other built-in variant.
func ToggleVariant(variant string) string {
	if variant == VariantLight {
		return VariantDark
	}
	return VariantLight
}
