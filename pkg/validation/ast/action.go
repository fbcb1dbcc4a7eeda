package ast

// ActionKind represents the type of mutation a rule action applies to a
// validation result when the rule's condition matches.
type ActionKind string

const (
	ActionSetValue       ActionKind = "set_value"       // Write a value into suggestions
	ActionSetConstraint  ActionKind = "set_constraint"  // Merge a constraint for a target field
	ActionDisableFeature ActionKind = "disable_feature" // Mark a target feature disabled
	ActionEnableFeature  ActionKind = "enable_feature"  // Mark a target feature enabled and required
	ActionRequireFeature ActionKind = "require_feature" // Mark a target feature required
	ActionShowWarning    ActionKind = "show_warning"    // Emit a warning message
	ActionShowError      ActionKind = "show_error"      // Emit an error message
	ActionSuggestValue   ActionKind = "suggest_value"   // Write a value into suggestions with an info note
)

// ActionKinds lists every built-in action kind.
var ActionKinds = []ActionKind{
	ActionSetValue,
	ActionSetConstraint,
	ActionDisableFeature,
	ActionEnableFeature,
	ActionRequireFeature,
	ActionShowWarning,
	ActionShowError,
	ActionSuggestValue,
}

// IsKnownActionKind returns true if kind is one of the built-in action kinds.
func IsKnownActionKind(kind ActionKind) bool {
	for _, known := range ActionKinds {
		if kind == known {
			return true
		}
	}
	return false
}

// Severity represents the severity level of an emitted message.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// RuleAction represents a single action in a rule's action list.
// Actions execute in declared order when the rule matches.
type RuleAction struct {
	// Action is the kind of mutation to apply.
	Action ActionKind `json:"action" yaml:"action"`

	// Target is the parameter or feature the action applies to
	// (for example "temperature" or "extendedThinking").
	Target string `json:"target" yaml:"target"`

	// Value is the payload for set_value/suggest_value (scalar) and
	// set_constraint (object with min/max/disabled/required keys).
	Value interface{} `json:"value,omitempty" yaml:"value,omitempty"`

	// Message is the user-facing text for show_warning/show_error, and the
	// optional info note for suggest_value.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`

	// Severity overrides the default severity implied by the action kind.
	Severity Severity `json:"severity,omitempty" yaml:"severity,omitempty"`

	// Blocking forces the result to block submission when this action fires,
	// regardless of severity.
	Blocking bool `json:"blocking,omitempty" yaml:"blocking,omitempty"`
}

// EffectiveSeverity returns the severity for a message action: the explicit
// Severity when set, otherwise the default implied by the action kind.
func (a *RuleAction) EffectiveSeverity() Severity {
	if a.Severity != "" {
		return a.Severity
	}
	switch a.Action {
	case ActionShowError:
		return SeverityError
	case ActionShowWarning:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}
