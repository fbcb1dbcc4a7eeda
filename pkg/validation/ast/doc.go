// Package ast defines the data model for BB validation rule sets.
//
// A rule set is a named, versioned collection of validation rules scoped to a
// UI context (for example "chat_input"). Each rule pairs a condition tree with
// an ordered list of actions that are applied to a validation result when the
// condition matches.
//
// # Core Types
//
// RuleSet: Named collection of rules plus metadata
//
// Rule: Single validation rule (trigger, priority, condition tree, actions)
//
// ConditionNode: Condition expression, either a leaf comparison
// (field operator value) or a logical group (AND/OR/NOT over children)
//
// RuleAction: Result mutation (set_value, set_constraint, disable_feature,
// enable_feature, require_feature, show_warning, show_error, suggest_value)
//
// # Serialization
//
// Rule sets serialize to plain JSON or YAML with camelCase keys. A leaf
// condition carries field/operator/value; a group carries logic/conditions.
// The presence of a non-empty "logic" key is what distinguishes a group node
// from a leaf.
//
// # Immutability
//
// Rule sets and rules should be treated as immutable after construction.
// The engine only reads them; result state accumulates elsewhere.
package ast
