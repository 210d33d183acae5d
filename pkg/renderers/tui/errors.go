package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoStore is returned when Collect is called without a form store.
	ErrNoStore = errors.New("tui: form store is required")
)
