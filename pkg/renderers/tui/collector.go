// Package tui collects attribute values from an interactive terminal session.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-scorecast/pkg/form"
	"github.com/goliatone/go-scorecast/pkg/schema"
)

// Collector prompts for every attribute of a form store in schema order.
type Collector struct {
	driver PromptDriver
	theme  Theme
	skip   map[string]struct{}
}

// New constructs a Collector backed by survey/v2 unless another driver is
// supplied.
func New(options ...Option) *Collector {
	c := &Collector{
		theme: Theme{ErrorPrefix: "✗ "},
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	if c.driver == nil {
		c.driver = NewSurveyDriver(nil)
	}
	return c
}

// Collect prompts for each attribute, defaulting to the value already in the
// store. Numeric input that fails the attribute constraints is reported and
// asked again; nothing reaches the store until it passes.
func (c *Collector) Collect(ctx context.Context, store *form.Store) (form.Snapshot, error) {
	if store == nil {
		return form.Snapshot{}, ErrNoStore
	}
	if ctx == nil {
		ctx = context.Background()
	}

	current := store.Snapshot()
	for _, attr := range store.Schema().Attributes() {
		if _, skip := c.skip[attr.Key]; skip {
			continue
		}
		value, _ := current.Get(attr.Key)

		var err error
		if attr.Numeric() {
			err = c.promptNumber(ctx, store, attr, attr.FormatValue(value))
		} else {
			err = c.promptChoice(ctx, store, attr, attr.FormatValue(value))
		}
		if err != nil {
			return form.Snapshot{}, err
		}
	}
	return store.Snapshot(), nil
}

// Confirm asks a yes/no question through the driver.
func (c *Collector) Confirm(ctx context.Context, message string, def bool) (bool, error) {
	return c.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: def})
}

// Info prints a line through the driver.
func (c *Collector) Info(ctx context.Context, msg string) error {
	return c.driver.Info(ctx, c.theme.InfoPrefix+msg)
}

func (c *Collector) promptNumber(ctx context.Context, store *form.Store, attr schema.Attribute, current string) error {
	for {
		input, err := c.driver.Input(ctx, InputConfig{
			Message: attr.DisplayLabel(),
			Default: current,
			Help:    numberHelp(attr),
		})
		if err != nil {
			return err
		}
		if input == "" {
			input = current
		}

		if err := validateNumber(attr, input); err != nil {
			_ = c.driver.Info(ctx, c.theme.ErrorPrefix+err.Error())
			continue
		}
		if _, err := store.SetField(attr.Key, input); err != nil {
			_ = c.driver.Info(ctx, c.theme.ErrorPrefix+err.Error())
			continue
		}
		return nil
	}
}

func (c *Collector) promptChoice(ctx context.Context, store *form.Store, attr schema.Attribute, current string) error {
	labels := make([]string, len(attr.Choices))
	defaultIdx := -1
	for i, choice := range attr.Choices {
		labels[i] = attr.ChoiceLabel(choice.Value)
		if choice.Value == current {
			defaultIdx = i
		}
	}

	for {
		idx, err := c.driver.Select(ctx, SelectConfig{
			Message:      attr.DisplayLabel(),
			Options:      labels,
			DefaultIndex: defaultIdx,
			Help:         attr.Help,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(attr.Choices) {
			_ = c.driver.Info(ctx, fmt.Sprintf("%sInvalid %s selection", c.theme.ErrorPrefix, attr.Key))
			continue
		}
		if _, err := store.SetField(attr.Key, attr.Choices[idx].Value); err != nil {
			return err
		}
		return nil
	}
}

func validateNumber(attr schema.Attribute, input string) error {
	value, err := attr.Coerce(input)
	if err != nil {
		return err
	}
	return attr.Validate(value)
}

func numberHelp(attr schema.Attribute) string {
	if attr.Help != "" {
		return attr.Help
	}
	switch {
	case attr.Min != nil && attr.Max != nil:
		return fmt.Sprintf("Between %s and %s", attr.FormatValue(*attr.Min), attr.FormatValue(*attr.Max))
	case attr.Min != nil:
		return fmt.Sprintf("At least %s", attr.FormatValue(*attr.Min))
	case attr.Max != nil:
		return fmt.Sprintf("At most %s", attr.FormatValue(*attr.Max))
	}
	return ""
}

// IsAborted reports whether err means the user cancelled the session.
func IsAborted(err error) bool {
	return errors.Is(err, ErrAborted)
}
