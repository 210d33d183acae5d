package tui

import "strings"

// Theme captures the message prefixes applied to info lines.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures the Collector.
type Option func(*Collector)

// WithPromptDriver overrides the prompt driver used by the collector.
func WithPromptDriver(driver PromptDriver) Option {
	return func(c *Collector) {
		if driver != nil {
			c.driver = driver
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(c *Collector) {
		c.theme = theme
	}
}

// WithSkip leaves the given attributes at their current value without
// prompting.
func WithSkip(keys ...string) Option {
	return func(c *Collector) {
		if c.skip == nil {
			c.skip = make(map[string]struct{}, len(keys))
		}
		for _, key := range keys {
			if key = strings.TrimSpace(key); key != "" {
				c.skip[key] = struct{}{}
			}
		}
	}
}
