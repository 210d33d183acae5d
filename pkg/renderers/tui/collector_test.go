package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-scorecast/pkg/form"
	"github.com/goliatone/go-scorecast/pkg/schema"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	infoMessages []string
	prompts      []string
	inputPos     int
	selectPos    int
	confirmPos   int
	err          error
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.prompts = append(s.prompts, cfg.Message+"="+cfg.Default)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	if s.err != nil {
		return -1, s.err
	}
	s.prompts = append(s.prompts, cfg.Message+"#"+strings.Join(cfg.Options, "|"))
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func TestCollect_AllAttributes(t *testing.T) {
	driver := &stubDriver{
		// age, study_hours, class_attendance, sleep_hours
		inputs: []string{"22", "6.5", "", "8"},
		// gender, course, internet_access, sleep_quality, study_method, facility_rating, exam_difficulty
		selectIdx: []int{1, 3, 1, 2, 4, 2, 0},
	}
	collector := New(WithPromptDriver(driver))
	store := form.NewStore(schema.Default())

	snap, err := collector.Collect(context.Background(), store)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	want := map[string]any{
		"age":              22.0,
		"gender":           "female",
		"course":           "phd",
		"study_hours":      6.5,
		"class_attendance": 80.0,
		"internet_access":  "no",
		"sleep_hours":      8.0,
		"sleep_quality":    "good",
		"study_method":     "tutoring",
		"facility_rating":  "high",
		"exam_difficulty":  "easy",
	}
	if diff := cmp.Diff(want, snap.Map()); diff != "" {
		t.Fatalf("collected values mismatch (-want +got):\n%s", diff)
	}
	if driver.prompts[0] != "Age=20" {
		t.Fatalf("expected age prompt with default, got %q", driver.prompts[0])
	}
	if driver.prompts[1] != "Gender#Male|Female|Other" {
		t.Fatalf("expected gender choice labels, got %q", driver.prompts[1])
	}
}

func TestCollect_RepromptsOnRejection(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"abc", "150", "20.5", "30", "5", "80", "7"},
		selectIdx: []int{0, 0, 0, 0, 0, 0, 0},
	}
	collector := New(WithPromptDriver(driver))
	store := form.NewStore(schema.Default())

	snap, err := collector.Collect(context.Background(), store)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if v, _ := snap.Number("age"); v != 30 {
		t.Fatalf("expected age 30 after re-prompts, got %v", v)
	}

	want := []string{
		"✗ age: must be a number",
		"✗ age: must be between 10 and 100",
		"✗ age: must be a multiple of 1",
	}
	if diff := cmp.Diff(want, driver.infoMessages); diff != "" {
		t.Fatalf("info messages mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect_Skip(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"5", "80", "7"},
		selectIdx: []int{0, 1, 0, 1, 0, 1, 1},
	}
	collector := New(WithPromptDriver(driver), WithSkip("age"))
	store := form.NewStore(schema.Default())
	if _, err := store.SetField("age", "44"); err != nil {
		t.Fatalf("set field: %v", err)
	}

	snap, err := collector.Collect(context.Background(), store)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if v, _ := snap.Number("age"); v != 44 {
		t.Fatalf("skipped attribute changed: %v", v)
	}
}

func TestCollect_Aborted(t *testing.T) {
	driver := &stubDriver{inputs: []string{"20"}, err: ErrAborted}
	collector := New(WithPromptDriver(driver))
	store := form.NewStore(schema.Default())

	_, err := collector.Collect(context.Background(), store)
	if !IsAborted(err) {
		t.Fatalf("expected aborted error, got %v", err)
	}
	if _, err := collector.Collect(context.Background(), nil); !errors.Is(err, ErrNoStore) {
		t.Fatalf("expected ErrNoStore, got %v", err)
	}
}

func TestCollect_InvalidSelection(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"20", "5", "80", "7"},
		selectIdx: []int{9, 0, 0, 0, 0, 0, 0, 0},
	}
	collector := New(WithPromptDriver(driver))
	if _, err := collector.Collect(context.Background(), form.NewStore(schema.Default())); err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(driver.infoMessages) != 1 || !strings.Contains(driver.infoMessages[0], "Invalid gender selection") {
		t.Fatalf("unexpected info messages %v", driver.infoMessages)
	}
}

func TestConfirmAndInfo(t *testing.T) {
	driver := &stubDriver{confirm: []bool{true}}
	collector := New(WithPromptDriver(driver), WithTheme(Theme{InfoPrefix: "> "}))

	ok, err := collector.Confirm(context.Background(), "Predict again?", false)
	if err != nil || !ok {
		t.Fatalf("confirm: %v %v", ok, err)
	}
	if err := collector.Info(context.Background(), "hello"); err != nil {
		t.Fatalf("info: %v", err)
	}
	if driver.infoMessages[0] != "> hello" {
		t.Fatalf("unexpected info %q", driver.infoMessages[0])
	}
}
