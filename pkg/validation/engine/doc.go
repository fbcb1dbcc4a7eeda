// Package engine provides the BB validation engine: a synchronous, rule-based
// evaluator that runs declarative rule sets against a parameter context and
// produces a structured result describing messages, constraints, and suggested
// value changes for a UI layer to consume.
//
// # Architecture
//
// The engine uses a layered design:
//
//  1. Condition Evaluator - Evaluates a single leaf condition (dot-path field
//     lookup + operator) against the context
//  2. Condition-Tree Evaluator - Recursively combines leaf conditions via
//     AND/OR/NOT groups with depth-limited recursion
//  3. Action Applicator - Folds a matched rule's ordered actions into the
//     accumulating Result
//  4. Rule Set Evaluator - Filters rules by trigger and enabled flag, sorts by
//     descending priority (stable), evaluates each rule, and computes overall
//     validity
//
// # Evaluation Flow
//
//	Context (model, capabilities, parameters) + trigger
//	       ↓
//	Filter rules: enabled && trigger matches
//	       ↓
//	Stable sort by priority (descending)
//	       ↓
//	For each rule:
//	  Evaluate condition tree → Match?
//	    Yes → Apply actions to Result, record triggered rule
//	    No  → Skip
//	       ↓
//	Result.Valid = no error messages && !BlockSubmission
//
// # Basic Usage
//
//	reg := registry.New(nil)
//	registry.RegisterBuiltins(reg)
//
//	eng, err := engine.New(engine.DefaultConfig(), reg, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := eng.Evaluate("chat-input", "claude-3-7-sonnet-20250219",
//	    capabilities, parameters, ast.TriggerOnChange, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if result.BlockSubmission {
//	    // prevent form submission
//	}
//
// # Error Isolation
//
// A malformed rule (bad NOT arity, unknown operator, recursion depth exceeded)
// never aborts evaluation of the rest of the rule set: the error is logged and
// the rule is treated as non-matching. Setting ContinueOnError to false in the
// config escalates any rule evaluation error to a full abort instead. A failed
// action is likewise isolated from its sibling actions within the same rule.
//
// # Thread Safety
//
// Evaluation is side-effect-free apart from mutating its own freshly allocated
// Result, so concurrent evaluations need no locking. The rule-set registry
// handles its own synchronization.
package engine
