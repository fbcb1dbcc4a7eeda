package ast

// Trigger represents the lifecycle phase a rule is eligible to fire on.
type Trigger string

const (
	TriggerOnLoad   Trigger = "on_load"
	TriggerOnChange Trigger = "on_change"
	TriggerOnSubmit Trigger = "on_submit"
)

// Triggers lists every valid trigger phase.
var Triggers = []Trigger{TriggerOnLoad, TriggerOnChange, TriggerOnSubmit}

// IsKnownTrigger returns true if t is one of the valid trigger phases.
func IsKnownTrigger(t Trigger) bool {
	for _, known := range Triggers {
		if t == known {
			return true
		}
	}
	return false
}

// Rule represents a single validation rule.
// A rule fires when its condition tree matches the evaluation context at the
// requested trigger phase; its actions then mutate the validation result in
// declared order.
type Rule struct {
	ID          string         `json:"id" yaml:"id"`
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Trigger     Trigger        `json:"trigger" yaml:"trigger"`
	Priority    int            `json:"priority,omitempty" yaml:"priority,omitempty"`
	Condition   *ConditionNode `json:"condition" yaml:"condition"`
	Actions     []*RuleAction  `json:"actions" yaml:"actions"`

	// Enabled is a pointer to distinguish unset (default true) from an
	// explicit false.
	Enabled *bool    `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Tags    []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// IsEnabled returns true unless the rule is explicitly disabled.
func (r *Rule) IsEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}

// HasCondition returns true if the rule has a condition tree defined.
func (r *Rule) HasCondition() bool {
	return r.Condition != nil
}

// HasActions returns true if the rule has actions defined.
func (r *Rule) HasActions() bool {
	return len(r.Actions) > 0
}
