package render

import (
	"fmt"
	"math"
	"strconv"

	"github.com/montanaflynn/stats"

	"github.com/goliatone/go-scorecast/pkg/predict"
)

const (
	// SubmitLabel is the idle label of the submit control.
	SubmitLabel = "Predict Score"
	// BusyLabel replaces SubmitLabel while a request is pending.
	BusyLabel = "Calculating..."
	// ChartTitle heads the feature-importance chart.
	ChartTitle = "What drives higher scores?"

	// EmphasizedBars is how many leading bars get the emphasis fill.
	EmphasizedBars = 3

	// EmphasisFill and MutedFill are the default bar colours.
	EmphasisFill = "#6366f1"
	MutedFill    = "#334155"
)

// Projection is the display-ready form of the submission state and the
// insights list. It carries no behaviour; renderers only lay it out.
type Projection struct {
	Phase       predict.Phase `json:"phase"`
	Busy        bool          `json:"busy"`
	SubmitLabel string        `json:"submit_label"`
	Result      *ResultCard   `json:"result,omitempty"`
	Error       string        `json:"error,omitempty"`
	Chart       *Chart        `json:"chart,omitempty"`
}

// ResultCard holds the formatted prediction.
type ResultCard struct {
	Score       string `json:"score"`
	Confidence  string `json:"confidence"`
	PassPercent int    `json:"pass_percent"`
	PassLabel   string `json:"pass_label"`
}

// Chart is the ranked feature-importance chart.
type Chart struct {
	Title string `json:"title"`
	Bars  []Bar  `json:"bars"`
}

// Bar is one chart row. Width is the bar length as a percentage of the
// largest importance in the list.
type Bar struct {
	Rank       int     `json:"rank"`
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
	Value      string  `json:"value"`
	Width      float64 `json:"width"`
	WidthStyle string  `json:"width_style"`
	Emphasized bool    `json:"emphasized"`
	Fill       string  `json:"fill"`
}

// Project maps the submission state and insights list to a Projection.
func Project(state predict.State, entries []predict.FeatureImportance) Projection {
	out := Projection{
		Phase:       state.Phase,
		SubmitLabel: SubmitLabel,
	}
	if out.Phase == "" {
		out.Phase = predict.PhaseIdle
	}

	switch state.Phase {
	case predict.PhasePending:
		out.Busy = true
		out.SubmitLabel = BusyLabel
	case predict.PhaseSucceeded:
		if state.Result != nil {
			out.Result = resultCard(*state.Result)
		}
	case predict.PhaseFailed:
		out.Error = state.Message
		if out.Error == "" {
			out.Error = predict.DefaultFailureMessage
		}
	}

	out.Chart = chart(entries)
	return out
}

// PassPercent truncates the probability to a whole percentage: 0.929 → 92.
func PassPercent(probability float64) int {
	return int(math.Trunc(probability * 100))
}

func resultCard(result predict.Result) *ResultCard {
	percent := PassPercent(result.PassProbability)
	return &ResultCard{
		Score:       strconv.FormatFloat(result.ExamScore, 'f', -1, 64),
		Confidence:  result.ConfidenceLevel,
		PassPercent: percent,
		PassLabel:   fmt.Sprintf("%d%%", percent),
	}
}

func chart(entries []predict.FeatureImportance) *Chart {
	if len(entries) == 0 {
		return nil
	}

	values := make(stats.Float64Data, len(entries))
	for i, entry := range entries {
		values[i] = entry.Importance
	}
	peak, err := stats.Max(values)
	if err != nil {
		peak = 0
	}

	bars := make([]Bar, len(entries))
	for i, entry := range entries {
		width := 0.0
		if peak > 0 && entry.Importance > 0 {
			width = entry.Importance / peak * 100
		}
		emphasized := i < EmphasizedBars
		fill := MutedFill
		if emphasized {
			fill = EmphasisFill
		}
		bars[i] = Bar{
			Rank:       i + 1,
			Feature:    entry.Feature,
			Importance: entry.Importance,
			Value:      strconv.FormatFloat(entry.Importance, 'f', 3, 64),
			Width:      width,
			WidthStyle: strconv.FormatFloat(width, 'f', 2, 64) + "%",
			Emphasized: emphasized,
			Fill:       fill,
		}
	}
	return &Chart{Title: ChartTitle, Bars: bars}
}
