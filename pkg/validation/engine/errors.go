package engine

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrInvalidConfig indicates invalid engine configuration.
	ErrInvalidConfig = errors.New("invalid engine configuration")

	// ErrNilRuleSet indicates a nil rule set was passed to an evaluation.
	ErrNilRuleSet = errors.New("rule set cannot be nil")

	// ErrNilContext indicates a nil evaluation context was passed.
	ErrNilContext = errors.New("evaluation context cannot be nil")
)

// RuleSetNotFoundError indicates Evaluate was called with an unknown rule-set
// id. This is a caller programming error and is never swallowed.
type RuleSetNotFoundError struct {
	ID string
}

// Error returns the error message.
func (e *RuleSetNotFoundError) Error() string {
	return fmt.Sprintf("rule set not found: %q", e.ID)
}

// RecursionDepthError indicates a condition tree exceeded the configured
// nesting cap. It aborts the evaluation of the offending rule only.
type RecursionDepthError struct {
	Depth int
	Max   int
}

// Error returns the error message.
func (e *RecursionDepthError) Error() string {
	return fmt.Sprintf("condition nesting depth %d exceeds maximum %d", e.Depth, e.Max)
}

// RuleError wraps a rule evaluation failure with rule-set and rule identity.
// It is returned from EvaluateRuleSet only when ContinueOnError is disabled.
type RuleError struct {
	RuleSetID string
	RuleID    string
	Cause     error
}

// Error returns the error message.
func (e *RuleError) Error() string {
	return fmt.Sprintf("rule set %s rule %s: %v", e.RuleSetID, e.RuleID, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *RuleError) Unwrap() error {
	return e.Cause
}
