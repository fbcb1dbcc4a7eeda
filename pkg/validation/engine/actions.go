package engine

import (
	"fmt"
	"log/slog"

	"github.com/Beyond-Better/bb-validation/pkg/validation/ast"
)

// Applicator folds a matched rule's actions into an accumulating result.
type Applicator struct {
	logger *slog.Logger
}

// NewApplicator creates an action applicator.
func NewApplicator(logger *slog.Logger) *Applicator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Applicator{logger: logger}
}

// Apply applies the rule's actions to the result in declared order, mutating
// it in place. Each action's failure is caught and logged individually; one
// bad action does not block sibling actions in the same rule.
func (ap *Applicator) Apply(rule *ast.Rule, result *Result) {
	for _, action := range rule.Actions {
		if err := ap.applyAction(action, result); err != nil {
			ap.logger.Warn("rule action failed, skipping",
				"rule_id", rule.ID,
				"action", action.Action,
				"target", action.Target,
				"error", err,
			)
		}
	}
}

// applyAction applies a single action to the result.
func (ap *Applicator) applyAction(action *ast.RuleAction, result *Result) error {
	switch action.Action {
	case ast.ActionSetValue:
		result.Suggestions[action.Target] = action.Value

	case ast.ActionSuggestValue:
		result.Suggestions[action.Target] = action.Value
		if action.Message != "" {
			result.Messages.Info = append(result.Messages.Info, action.Message)
		}

	case ast.ActionSetConstraint:
		obj, ok := action.Value.(map[string]interface{})
		if !ok {
			return fmt.Errorf("set_constraint value must be an object, got %T", action.Value)
		}
		return mergeConstraintObject(result.constraint(action.Target), obj)

	case ast.ActionDisableFeature:
		result.constraint(action.Target).Disabled = boolPtr(true)

	case ast.ActionEnableFeature:
		c := result.constraint(action.Target)
		c.Disabled = boolPtr(false)
		c.Required = boolPtr(true)

	case ast.ActionRequireFeature:
		result.constraint(action.Target).Required = boolPtr(true)

	case ast.ActionShowWarning, ast.ActionShowError:
		return applyMessage(action, result)

	default:
		// Unknown kinds are a soft warning, not a failure.
		ap.logger.Warn("unknown action kind, ignoring", "action", action.Action)
	}

	return nil
}

// applyMessage appends a show_warning/show_error message to the bucket
// matching its effective severity and updates the block flag.
func applyMessage(action *ast.RuleAction, result *Result) error {
	if action.Message == "" {
		return fmt.Errorf("%s action requires a message", action.Action)
	}

	severity := action.EffectiveSeverity()
	switch severity {
	case ast.SeverityError:
		result.Messages.Errors = append(result.Messages.Errors, action.Message)
	case ast.SeverityWarning:
		result.Messages.Warnings = append(result.Messages.Warnings, action.Message)
	default:
		result.Messages.Info = append(result.Messages.Info, action.Message)
	}

	if severity == ast.SeverityError || action.Blocking {
		result.BlockSubmission = true
	}

	return nil
}

// mergeConstraintObject shallow-merges a set_constraint payload into an
// existing constraint entry. Keys absent from the payload are preserved.
// The payload is validated before any field is written so a malformed value
// leaves the entry untouched.
func mergeConstraintObject(c *Constraint, obj map[string]interface{}) error {
	var (
		minVal, maxVal           *float64
		disabledVal, requiredVal *bool
	)

	if raw, ok := obj["min"]; ok {
		num, numOK := toFloat64(raw)
		if !numOK {
			return fmt.Errorf("constraint min must be a number, got %T", raw)
		}
		minVal = &num
	}
	if raw, ok := obj["max"]; ok {
		num, numOK := toFloat64(raw)
		if !numOK {
			return fmt.Errorf("constraint max must be a number, got %T", raw)
		}
		maxVal = &num
	}
	if raw, ok := obj["disabled"]; ok {
		b, boolOK := raw.(bool)
		if !boolOK {
			return fmt.Errorf("constraint disabled must be a boolean, got %T", raw)
		}
		disabledVal = &b
	}
	if raw, ok := obj["required"]; ok {
		b, boolOK := raw.(bool)
		if !boolOK {
			return fmt.Errorf("constraint required must be a boolean, got %T", raw)
		}
		requiredVal = &b
	}

	if minVal != nil {
		c.Min = minVal
	}
	if maxVal != nil {
		c.Max = maxVal
	}
	if disabledVal != nil {
		c.Disabled = disabledVal
	}
	if requiredVal != nil {
		c.Required = requiredVal
	}

	return nil
}

func boolPtr(b bool) *bool {
	return &b
}
