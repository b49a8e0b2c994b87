// Package parsererror defines the typed errors used by the engine. Callers
// recover from all of them by substituting a safe default and continuing.
package parsererror

import "fmt"

// ParseError represents an error while parsing a statement row or field.
type ParseError struct {
	Field string
	Value string
	Row   int
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d: failed to parse %s='%s': %v",
		e.Row, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// RuleError represents an invalid categorization rule, typically a regex
// that failed to compile. The offending rule is skipped, never fatal.
type RuleError struct {
	RuleID  string
	Pattern string
	Err     error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %s: invalid pattern '%s': %v",
		e.RuleID, e.Pattern, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

// StoreError represents a settings persistence failure. Loaders fall back
// to default settings rather than aborting.
type StoreError struct {
	Path string
	Op   string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("settings %s failed for %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// ValidationError represents an input file that does not look like a
// supported statement export.
type ValidationError struct {
	FilePath string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.FilePath, e.Reason)
}
