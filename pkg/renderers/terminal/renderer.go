// Package terminal renders the prediction result and importance chart for a
// terminal with lipgloss.
package terminal

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-scorecast/pkg/render"
)

// Name is the registry name of the terminal renderer.
const Name = "terminal"

const (
	defaultBarWidth   = 32
	defaultLabelWidth = 18
)

// Option configures a terminal Renderer.
type Option func(*Renderer)

// WithOutput detects the colour profile from w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Renderer) {
		if w != nil {
			r.lg = lipgloss.NewRenderer(w)
		}
	}
}

// WithBarWidth sets the number of cells of a full-length bar.
func WithBarWidth(cells int) Option {
	return func(r *Renderer) {
		if cells > 0 {
			r.barWidth = cells
		}
	}
}

// WithInputs toggles the attribute summary above the result.
func WithInputs(show bool) Option {
	return func(r *Renderer) {
		r.showInputs = show
	}
}

// Renderer draws a View as styled terminal text.
type Renderer struct {
	lg         *lipgloss.Renderer
	barWidth   int
	showInputs bool
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the terminal renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{
		lg:         lipgloss.NewRenderer(os.Stdout),
		barWidth:   defaultBarWidth,
		showInputs: true,
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

func (r *Renderer) Render(_ context.Context, view render.View) ([]byte, error) {
	p := newPalette(r.lg, view.Theme)

	sections := []string{p.title.Render(view.Title)}
	if r.showInputs && len(view.Fields) > 0 {
		sections = append(sections, r.inputs(p, view.Fields))
	}
	for _, msg := range view.FormErrors {
		sections = append(sections, p.danger.Render("✗ "+render.PlainText(msg)))
	}

	proj := view.Projection
	switch {
	case proj.Busy:
		sections = append(sections, p.muted.Render(proj.SubmitLabel))
	case proj.Error != "":
		sections = append(sections, p.danger.Render("✗ "+render.PlainText(proj.Error)))
	case proj.Result != nil:
		sections = append(sections, r.card(p, proj.Result))
	}
	if proj.Chart != nil {
		sections = append(sections, r.chart(p, proj.Chart))
	}

	return []byte(lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"), nil
}

func (r *Renderer) inputs(p palette, fields []render.Field) string {
	var sb strings.Builder
	for i, field := range fields {
		if i > 0 {
			sb.WriteString("\n")
		}
		label := p.muted.Render(pad(field.Label, defaultLabelWidth+4))
		sb.WriteString(label)
		sb.WriteString(" ")
		sb.WriteString(field.Display)
		for _, msg := range field.Errors {
			sb.WriteString(" ")
			sb.WriteString(p.danger.Render(render.PlainText(msg)))
		}
	}
	return sb.String()
}

func (r *Renderer) card(p palette, result *render.ResultCard) string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		p.muted.Render("Predicted Exam Score"),
		p.score.Render(result.Score),
		fmt.Sprintf("Confidence: %s   Pass Probability: %s",
			render.PlainText(result.Confidence), result.PassLabel),
	)
	return p.card.Render(body)
}

func (r *Renderer) chart(p palette, chart *render.Chart) string {
	var sb strings.Builder
	sb.WriteString(p.heading.Render(chart.Title))
	for _, bar := range chart.Bars {
		filled := int(math.Round(bar.Width / 100 * float64(r.barWidth)))
		if filled > r.barWidth {
			filled = r.barWidth
		}
		if filled < 0 {
			filled = 0
		}

		fill := p.barMuted
		if bar.Emphasized {
			fill = p.barEmphasis
		}

		sb.WriteString("\n")
		sb.WriteString(pad(render.PlainText(bar.Feature), defaultLabelWidth))
		sb.WriteString(" ")
		sb.WriteString(fill.Render(strings.Repeat("█", filled)))
		sb.WriteString(p.track.Render(strings.Repeat("░", r.barWidth-filled)))
		sb.WriteString(" ")
		sb.WriteString(bar.Value)
	}
	return sb.String()
}

func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

type palette struct {
	title       lipgloss.Style
	heading     lipgloss.Style
	muted       lipgloss.Style
	danger      lipgloss.Style
	score       lipgloss.Style
	card        lipgloss.Style
	barEmphasis lipgloss.Style
	barMuted    lipgloss.Style
	track       lipgloss.Style
}

func newPalette(lg *lipgloss.Renderer, theme render.ThemeContext) palette {
	color := func(token, fallback string) lipgloss.Color {
		return lipgloss.Color(theme.Token(token, fallback))
	}
	return palette{
		title:       lg.NewStyle().Bold(true).Foreground(color("accent", "#6366f1")),
		heading:     lg.NewStyle().Bold(true).Foreground(color("text", "#e2e8f0")),
		muted:       lg.NewStyle().Foreground(color("text-muted", "#94a3b8")),
		danger:      lg.NewStyle().Foreground(color("danger", "#f87171")),
		score:       lg.NewStyle().Bold(true).Foreground(color("success", "#34d399")),
		card: lg.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(color("border", "#334155")).
			Padding(0, 2),
		barEmphasis: lg.NewStyle().Foreground(color("chart-emphasis", render.EmphasisFill)),
		barMuted:    lg.NewStyle().Foreground(color("chart-muted", render.MutedFill)),
		track:       lg.NewStyle().Foreground(color("border", "#334155")),
	}
}
