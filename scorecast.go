// Package scorecast wires the attribute schema, the prediction client and the
// renderers into an App that hands out per-user Sessions.
package scorecast

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-scorecast/pkg/openapi"
	"github.com/goliatone/go-scorecast/pkg/predict"
	"github.com/goliatone/go-scorecast/pkg/render"
	"github.com/goliatone/go-scorecast/pkg/renderers/html"
	"github.com/goliatone/go-scorecast/pkg/renderers/terminal"
	"github.com/goliatone/go-scorecast/pkg/schema"
)

var (
	// ErrPredictorRequired is returned when no predictor was configured.
	ErrPredictorRequired = errors.New("scorecast: predictor is required")
	// ErrNoDocumentSource is returned by CheckSchema when nothing can supply
	// the service OpenAPI document.
	ErrNoDocumentSource = errors.New("scorecast: no openapi document source")
)

// DocumentSource yields the service OpenAPI document.
type DocumentSource interface {
	OpenAPIDocument(ctx context.Context) ([]byte, error)
}

// App holds the state shared by every session: the schema, the insights list,
// the renderer registry and the themes.
type App struct {
	schema     *schema.Schema
	predictor  predict.Predictor
	insights   *predict.Insights
	importance predict.ImportanceSource
	documents  DocumentSource
	registry   *render.Registry
	themes     *render.Themes
	logger     *zap.Logger
	title      string
}

// Option configures an App.
type Option func(*App)

// WithClient uses the HTTP client for predictions, feature importance and
// the OpenAPI document.
func WithClient(client *predict.Client) Option {
	return func(a *App) {
		if client == nil {
			return
		}
		a.predictor = client
		a.importance = client
		a.documents = client
	}
}

// WithPredictor overrides the predictor used by new sessions.
func WithPredictor(p predict.Predictor) Option {
	return func(a *App) {
		if p != nil {
			a.predictor = p
		}
	}
}

// WithImportanceSource supplies the feature importance source used when no
// insights fetcher is given.
func WithImportanceSource(src predict.ImportanceSource) Option {
	return func(a *App) {
		if src != nil {
			a.importance = src
		}
	}
}

// WithInsights supplies the shared insights fetcher.
func WithInsights(insights *predict.Insights) Option {
	return func(a *App) {
		if insights != nil {
			a.insights = insights
		}
	}
}

// WithDocumentSource supplies the OpenAPI document used by CheckSchema.
func WithDocumentSource(src DocumentSource) Option {
	return func(a *App) {
		if src != nil {
			a.documents = src
		}
	}
}

// WithSchema replaces the built-in attribute table.
func WithSchema(s *schema.Schema) Option {
	return func(a *App) {
		if s != nil {
			a.schema = s
		}
	}
}

// WithRegistry replaces the default renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(a *App) {
		if registry != nil {
			a.registry = registry
		}
	}
}

// WithThemes replaces the default theme set.
func WithThemes(themes *render.Themes) Option {
	return func(a *App) {
		if themes != nil {
			a.themes = themes
		}
	}
}

// WithLogger sets the logger shared by the insights fetcher and sessions.
func WithLogger(logger *zap.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithTitle overrides the page heading.
func WithTitle(title string) Option {
	return func(a *App) {
		if strings.TrimSpace(title) != "" {
			a.title = title
		}
	}
}

// New builds an App. A predictor is required; the remaining collaborators
// fall back to the built-in schema, the html and terminal renderers and the
// default theme.
func New(options ...Option) (*App, error) {
	a := &App{logger: zap.NewNop(), title: render.DefaultTitle}
	for _, opt := range options {
		if opt != nil {
			opt(a)
		}
	}
	if a.predictor == nil {
		return nil, ErrPredictorRequired
	}
	if a.schema == nil {
		a.schema = schema.Default()
	}
	if a.insights == nil {
		a.insights = predict.NewInsights(a.importance, predict.WithInsightsLogger(a.logger.Named("insights")))
	}
	if a.registry == nil {
		registry, err := DefaultRegistry()
		if err != nil {
			return nil, err
		}
		a.registry = registry
	}
	if a.themes == nil {
		themes, err := render.NewThemes(render.VariantDark)
		if err != nil {
			return nil, fmt.Errorf("scorecast: themes: %w", err)
		}
		a.themes = themes
	}
	return a, nil
}

// DefaultRegistry registers the html and terminal renderers.
func DefaultRegistry(opts ...terminal.Option) (*render.Registry, error) {
	page, err := html.New()
	if err != nil {
		return nil, fmt.Errorf("scorecast: html renderer: %w", err)
	}
	registry, err := render.NewRegistry(page, terminal.New(opts...))
	if err != nil {
		return nil, fmt.Errorf("scorecast: registry: %w", err)
	}
	return registry, nil
}

// Schema returns the attribute table.
func (a *App) Schema() *schema.Schema {
	return a.schema
}

// Insights returns the shared feature importance fetcher.
func (a *App) Insights() *predict.Insights {
	return a.insights
}

// Registry returns the renderer registry.
func (a *App) Registry() *render.Registry {
	return a.registry
}

// Themes returns the theme set.
func (a *App) Themes() *render.Themes {
	return a.themes
}

// Logger returns the application logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// LoadInsights starts the one-shot feature importance fetch. It blocks until
// the fetch resolves and never fails.
func (a *App) LoadInsights(ctx context.Context) {
	a.insights.Load(ctx)
}

// ViewOptions carries the per-frame inputs of View.
type ViewOptions struct {
	Action  string
	Variant string
	Errors  render.ErrorMapping
	// Entered echoes rejected form text back into its widgets.
	Entered map[string]string
}

// View composes the current frame of a session.
func (a *App) View(sess *Session, opts ViewOptions) (render.View, error) {
	if sess == nil {
		return render.View{}, errors.New("scorecast: session is nil")
	}
	cfg, err := a.themes.Resolve(opts.Variant)
	if err != nil {
		return render.View{}, fmt.Errorf("scorecast: theme: %w", err)
	}

	var hidden []render.HiddenField
	if sess.CSRF != "" {
		hidden = render.HiddenFields(render.CSRFToken(sess.CSRF))
	}

	return render.NewView(render.ViewInput{
		Title:    a.title,
		Action:   opts.Action,
		Schema:   a.schema,
		Snapshot: sess.Store.Snapshot(),
		Errors:   opts.Errors,
		State:    sess.Controller.State(),
		Insights: a.insights.Entries(),
		Theme:    cfg,
		Hidden:   hidden,
		Entered:  opts.Entered,
	}), nil
}

// Render renders a session frame with the named renderer.
func (a *App) Render(ctx context.Context, sess *Session, renderer string, opts ViewOptions) ([]byte, string, error) {
	view, err := a.View(sess, opts)
	if err != nil {
		return nil, "", err
	}
	return a.registry.Render(ctx, renderer, view)
}

// CheckSchema fetches the service OpenAPI document and reports drift against
// the attribute schema.
func (a *App) CheckSchema(ctx context.Context) ([]openapi.Drift, error) {
	if a.documents == nil {
		return nil, ErrNoDocumentSource
	}
	doc, err := a.documents.OpenAPIDocument(ctx)
	if err != nil {
		return nil, fmt.Errorf("scorecast: fetch openapi document: %w", err)
	}
	drifts, err := openapi.Compare(a.schema, doc, openapi.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("scorecast: compare schema: %w", err)
	}
	return drifts, nil
}
