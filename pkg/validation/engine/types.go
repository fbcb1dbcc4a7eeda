package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/Beyond-Better/bb-validation/pkg/validation/ast"
)

// Context is the read-only per-evaluation snapshot the engine evaluates rules
// against. It is constructed fresh for every evaluation call and never mutated
// during evaluation.
type Context struct {
	// Model is the selected model identifier.
	Model string

	// ModelCapabilities holds nested capability flags and limits for the
	// model (e.g. supportedFeatures.vision, maxOutputTokens).
	ModelCapabilities map[string]interface{}

	// Parameters holds current UI parameter values, possibly deeply nested.
	// Fields are addressed by dot-path.
	Parameters map[string]interface{}

	// Extra holds arbitrary additional top-level keys merged in by the caller.
	Extra map[string]interface{}
}

// Constraint is a per-field restriction surfaced to the UI layer.
// Pointer fields distinguish "not set" from an explicit zero value so that
// later merges preserve keys they do not themselves carry.
type Constraint struct {
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Disabled *bool    `json:"disabled,omitempty"`
	Required *bool    `json:"required,omitempty"`
}

// Messages buckets user-visible messages by severity.
type Messages struct {
	Info     []string `json:"info"`
	Warnings []string `json:"warnings"`
	Errors   []string `json:"errors"`
}

// TriggeredRule records a rule that matched during evaluation, together with
// the actions it applied.
type TriggeredRule struct {
	RuleID   string            `json:"ruleId"`
	RuleName string            `json:"ruleName"`
	Actions  []*ast.RuleAction `json:"actions"`
}

// Result is the output of a single rule-set evaluation. It is created empty at
// the start of the evaluation, mutated in place by the action applicator, and
// returned to the caller.
type Result struct {
	// EvaluationID uniquely identifies this evaluation for logging and tracing.
	EvaluationID string `json:"evaluationId"`

	// RuleSetID is the id of the rule set that was evaluated.
	RuleSetID string `json:"ruleSetId"`

	// Trigger is the lifecycle phase the evaluation ran for.
	Trigger ast.Trigger `json:"trigger"`

	// Valid is true when no error messages were emitted and submission is not
	// blocked. Recomputed once after all rules have been processed.
	Valid bool `json:"valid"`

	// TriggeredRules lists the rules that matched, in evaluation order.
	TriggeredRules []TriggeredRule `json:"triggeredRules"`

	// Messages holds user-visible messages bucketed by severity.
	Messages Messages `json:"messages"`

	// Constraints maps target fields to their accumulated restrictions.
	Constraints map[string]*Constraint `json:"constraints"`

	// Suggestions maps target fields to suggested values.
	Suggestions map[string]interface{} `json:"suggestions"`

	// BlockSubmission is the authoritative signal that a client should
	// prevent form submission, independent of Valid.
	BlockSubmission bool `json:"blockSubmission"`

	// EvaluationTime is the total time taken to evaluate the rule set.
	EvaluationTime time.Duration `json:"evaluationTime"`
}

// newResult creates an empty result for a rule-set evaluation.
func newResult(ruleSetID string, trigger ast.Trigger) *Result {
	return &Result{
		EvaluationID: uuid.NewString(),
		RuleSetID:    ruleSetID,
		Trigger:      trigger,
		Valid:        true,
		Messages: Messages{
			Info:     []string{},
			Warnings: []string{},
			Errors:   []string{},
		},
		Constraints: make(map[string]*Constraint),
		Suggestions: make(map[string]interface{}),
	}
}

// constraint returns the constraint entry for target, creating it if absent.
func (r *Result) constraint(target string) *Constraint {
	c, ok := r.Constraints[target]
	if !ok {
		c = &Constraint{}
		r.Constraints[target] = c
	}
	return c
}
