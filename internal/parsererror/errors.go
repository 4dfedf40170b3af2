// Package parsererror defines the typed errors raised while loading import
// profiles and parsing statement rows.
package parsererror

import "fmt"

// ParseError represents a fatal error while parsing a single CSV row. Row
// parse errors abort the whole import; there is no partial-row recovery.
type ParseError struct {
	Row   int
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d: failed to parse %s='%s': %v",
		e.Row, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ConfigError represents an invalid or incomplete import configuration,
// detected before any row is processed.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid configuration: %s", e.Reason)
	}
	return fmt.Sprintf("invalid configuration for %s: %s", e.Field, e.Reason)
}
