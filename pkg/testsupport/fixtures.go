// Package testsupport collects fixtures and fakes shared by the package tests.
package testsupport

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-scorecast/pkg/predict"
)

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// Diff returns a cmp diff string if the values differ.
func Diff(want, got any, opts ...cmp.Option) string {
	return cmp.Diff(want, got, opts...)
}

// SampleResult is the prediction used across controller and renderer tests.
func SampleResult() predict.Result {
	return predict.Result{ExamScore: 85.2, ConfidenceLevel: "high", PassProbability: 0.92}
}

// SampleImportance is a four entry ranking in descending order.
func SampleImportance() []predict.FeatureImportance {
	return []predict.FeatureImportance{
		{Feature: "study_hours", Importance: 0.4},
		{Feature: "sleep", Importance: 0.3},
		{Feature: "attendance", Importance: 0.2},
		{Feature: "age", Importance: 0.05},
	}
}

// MustLoadJSON decodes a JSON fixture into out.
func MustLoadJSON(t *testing.T, path string, out any) {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("unmarshal fixture %s: %v", path, err)
	}
}

// WriteTempFile writes data under the test temp dir and returns the path.
func WriteTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir fixture dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}
