package engine

import (
	"fmt"

	"github.com/Beyond-Better/bb-validation/pkg/validation/ast"
)

// ValidateRuleSet performs structural validation on a rule set and returns a
// list of findings. An empty list means the rule set is structurally sound.
//
// Validation is advisory: the engine tolerates malformed rules at runtime by
// isolating them, but authors and administrative tooling want the problems
// surfaced up front.
func ValidateRuleSet(rs *ast.RuleSet) []string {
	if rs == nil {
		return []string{"rule set is nil"}
	}

	var findings []string

	if rs.ID == "" {
		findings = append(findings, "missing required field 'id'")
	}
	if rs.Context == "" {
		findings = append(findings, fmt.Sprintf("rule set %q: missing required field 'context'", rs.ID))
	}
	if len(rs.Rules) == 0 {
		findings = append(findings, fmt.Sprintf("rule set %q has no rules", rs.ID))
	}

	seen := make(map[string]bool)
	for i, rule := range rs.Rules {
		label := rule.ID
		if label == "" {
			label = fmt.Sprintf("#%d", i)
			findings = append(findings, fmt.Sprintf("rule %s: missing required field 'id'", label))
		} else if seen[rule.ID] {
			findings = append(findings, fmt.Sprintf("rule %q: duplicate rule id", rule.ID))
		}
		seen[rule.ID] = true

		findings = append(findings, validateRule(label, rule)...)
	}

	return findings
}

// validateRule validates a single rule's trigger, condition tree, and actions.
func validateRule(label string, rule *ast.Rule) []string {
	var findings []string

	if !ast.IsKnownTrigger(rule.Trigger) {
		findings = append(findings, fmt.Sprintf("rule %s: unknown trigger %q", label, rule.Trigger))
	}

	if rule.Condition == nil {
		findings = append(findings, fmt.Sprintf("rule %s: missing condition", label))
	} else {
		findings = append(findings, validateCondition(label, rule.Condition)...)
	}

	if len(rule.Actions) == 0 {
		findings = append(findings, fmt.Sprintf("rule %s: has no actions", label))
	}
	for _, action := range rule.Actions {
		findings = append(findings, validateAction(label, action)...)
	}

	return findings
}

// validateCondition recursively validates a condition tree.
func validateCondition(label string, node *ast.ConditionNode) []string {
	var findings []string

	if node.IsGroup() {
		switch node.Logic {
		case ast.LogicAnd, ast.LogicOr:
			if len(node.Conditions) == 0 {
				findings = append(findings, fmt.Sprintf("rule %s: %s group has no children", label, node.Logic))
			}
		case ast.LogicNot:
			if len(node.Conditions) != 1 {
				findings = append(findings, fmt.Sprintf("rule %s: NOT group must have exactly one child, got %d", label, len(node.Conditions)))
			}
		default:
			findings = append(findings, fmt.Sprintf("rule %s: unknown logic operator %q", label, node.Logic))
		}

		for _, child := range node.Conditions {
			findings = append(findings, validateCondition(label, child)...)
		}
		return findings
	}

	if node.Field == "" {
		findings = append(findings, fmt.Sprintf("rule %s: condition has no field", label))
	}
	if !ast.IsKnownOperator(node.Operator) {
		// Custom evaluators may legitimately extend the operator set, so an
		// unknown operator is a finding, not a hard rejection.
		findings = append(findings, fmt.Sprintf("rule %s: unknown operator %q", label, node.Operator))
	}

	return findings
}

// validateAction validates a single rule action.
func validateAction(label string, action *ast.RuleAction) []string {
	var findings []string

	if !ast.IsKnownActionKind(action.Action) {
		findings = append(findings, fmt.Sprintf("rule %s: unknown action kind %q", label, action.Action))
		return findings
	}

	switch action.Action {
	case ast.ActionShowWarning, ast.ActionShowError:
		if action.Message == "" {
			findings = append(findings, fmt.Sprintf("rule %s: %s action requires a message", label, action.Action))
		}
	case ast.ActionSetConstraint:
		if _, ok := action.Value.(map[string]interface{}); !ok {
			findings = append(findings, fmt.Sprintf("rule %s: set_constraint value must be an object, got %T", label, action.Value))
		}
	}

	if action.Target == "" {
		findings = append(findings, fmt.Sprintf("rule %s: %s action has no target", label, action.Action))
	}

	return findings
}
