package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-scorecast/pkg/predict"
	"github.com/goliatone/go-scorecast/pkg/render"
	"github.com/goliatone/go-scorecast/pkg/testsupport"
)

func succeeded(result predict.Result) predict.State {
	return predict.State{Phase: predict.PhaseSucceeded, Result: &result}
}

func TestProject_Idle(t *testing.T) {
	got := render.Project(predict.Idle(), nil)
	want := render.Projection{Phase: predict.PhaseIdle, SubmitLabel: "Predict Score"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("projection mismatch (-want +got):\n%s", diff)
	}

	if zero := render.Project(predict.State{}, nil); zero.Phase != predict.PhaseIdle {
		t.Fatalf("zero state should project as idle, got %q", zero.Phase)
	}
}

func TestProject_Pending(t *testing.T) {
	got := render.Project(predict.State{Phase: predict.PhasePending}, nil)
	if !got.Busy || got.SubmitLabel != "Calculating..." {
		t.Fatalf("expected busy projection, got %+v", got)
	}
	if got.Result != nil || got.Error != "" {
		t.Fatalf("pending projection should carry no outcome: %+v", got)
	}
}

func TestProject_SucceededTruncatesPercent(t *testing.T) {
	got := render.Project(succeeded(testsupport.SampleResult()), nil)
	want := &render.ResultCard{Score: "85.2", Confidence: "high", PassPercent: 92, PassLabel: "92%"}
	if diff := cmp.Diff(want, got.Result); diff != "" {
		t.Fatalf("result card mismatch (-want +got):\n%s", diff)
	}
	if got.Busy || got.SubmitLabel != "Predict Score" {
		t.Fatalf("succeeded projection should not be busy: %+v", got)
	}
}

func TestPassPercent(t *testing.T) {
	cases := map[float64]int{
		0.92:  92,
		0.929: 92,
		0.999: 99,
		1:     100,
		0:     0,
		0.005: 0,
	}
	for in, want := range cases {
		if got := render.PassPercent(in); got != want {
			t.Fatalf("PassPercent(%v) = %d, want %d", in, got, want)
		}
	}
}

func TestProject_Failed(t *testing.T) {
	got := render.Project(predict.State{Phase: predict.PhaseFailed, Message: "model unavailable"}, nil)
	if got.Error != "model unavailable" || got.Result != nil {
		t.Fatalf("unexpected failed projection: %+v", got)
	}
}

func TestProject_ChartKeepsOrderAndEmphasizesFirstThree(t *testing.T) {
	got := render.Project(predict.Idle(), testsupport.SampleImportance())
	if got.Chart == nil {
		t.Fatalf("expected chart")
	}
	if got.Chart.Title != "What drives higher scores?" {
		t.Fatalf("unexpected title %q", got.Chart.Title)
	}

	type row struct {
		Feature    string
		Emphasized bool
		Fill       string
		Width      float64
	}
	rows := make([]row, 0, len(got.Chart.Bars))
	for _, bar := range got.Chart.Bars {
		rows = append(rows, row{bar.Feature, bar.Emphasized, bar.Fill, bar.Width})
	}
	want := []row{
		{"study_hours", true, "#6366f1", 100},
		{"sleep", true, "#6366f1", 75},
		{"attendance", true, "#6366f1", 50},
		{"age", false, "#334155", 12.5},
	}
	approx := cmp.Comparer(func(a, b float64) bool {
		d := a - b
		return d < 1e-9 && d > -1e-9
	})
	if diff := cmp.Diff(want, rows, approx); diff != "" {
		t.Fatalf("bars mismatch (-want +got):\n%s", diff)
	}
}

func TestProject_ChartDoesNotResort(t *testing.T) {
	entries := []predict.FeatureImportance{
		{Feature: "age", Importance: 0.05},
		{Feature: "sleep", Importance: 0.3},
		{Feature: "attendance", Importance: 0.2},
		{Feature: "study_hours", Importance: 0.4},
	}
	got := render.Project(predict.Idle(), entries)
	for i, bar := range got.Chart.Bars {
		if bar.Feature != entries[i].Feature {
			t.Fatalf("bar %d: expected %q, got %q", i, entries[i].Feature, bar.Feature)
		}
		if bar.Rank != i+1 {
			t.Fatalf("bar %d: unexpected rank %d", i, bar.Rank)
		}
	}
	if !got.Chart.Bars[0].Emphasized || got.Chart.Bars[3].Emphasized {
		t.Fatalf("emphasis must follow list position")
	}
}

func TestProject_EmptyInsightsOmitChart(t *testing.T) {
	if got := render.Project(predict.Idle(), nil); got.Chart != nil {
		t.Fatalf("expected no chart for nil insights")
	}
	if got := render.Project(predict.Idle(), []predict.FeatureImportance{}); got.Chart != nil {
		t.Fatalf("expected no chart for empty insights")
	}
}

func TestProject_ZeroImportance(t *testing.T) {
	got := render.Project(predict.Idle(), []predict.FeatureImportance{{Feature: "x", Importance: 0}})
	if got.Chart.Bars[0].Width != 0 || got.Chart.Bars[0].WidthStyle != "0.00%" {
		t.Fatalf("expected zero width, got %+v", got.Chart.Bars[0])
	}
}

func TestProject_ChartKeepsUnnamedEntriesInPlace(t *testing.T) {
	entries := []predict.FeatureImportance{
		{Feature: "study_hours", Importance: 0.4},
		{Feature: "", Importance: 0.3},
		{Feature: "sleep_hours", Importance: 0.2},
		{Feature: "age", Importance: 0.1},
	}
	got := render.Project(predict.Idle(), entries)
	if got.Chart == nil || len(got.Chart.Bars) != 4 {
		t.Fatalf("expected four bars, got %+v", got.Chart)
	}
	if got.Chart.Bars[1].Feature != "" || !got.Chart.Bars[1].Emphasized {
		t.Fatalf("unnamed entry should keep its position and emphasis: %+v", got.Chart.Bars[1])
	}
	if got.Chart.Bars[3].Emphasized {
		t.Fatalf("fourth entry should not be emphasized")
	}
}
