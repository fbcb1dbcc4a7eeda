package ast

import "time"

// RuleSetMetadata carries authorship and timestamp information for a rule set.
type RuleSetMetadata struct {
	CreatedAt time.Time `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
	Author    string    `json:"author,omitempty" yaml:"author,omitempty"`
}

// RuleSet represents a named, versioned collection of validation rules scoped
// to a UI context.
type RuleSet struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Version     string          `json:"version,omitempty" yaml:"version,omitempty"`
	Context     string          `json:"context" yaml:"context"`
	Rules       []*Rule         `json:"rules" yaml:"rules"`
	Metadata    RuleSetMetadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// GetRule returns the rule with the given id, or nil if not found.
func (rs *RuleSet) GetRule(id string) *Rule {
	for _, rule := range rs.Rules {
		if rule.ID == id {
			return rule
		}
	}
	return nil
}

// HasRule returns true if the rule set contains a rule with the given id.
func (rs *RuleSet) HasRule(id string) bool {
	return rs.GetRule(id) != nil
}

// EnabledRules returns all enabled rules in declaration order.
func (rs *RuleSet) EnabledRules() []*Rule {
	var enabled []*Rule
	for _, rule := range rs.Rules {
		if rule.IsEnabled() {
			enabled = append(enabled, rule)
		}
	}
	return enabled
}

// RulesForTrigger returns all enabled rules eligible for the given trigger
// phase, preserving declaration order.
func (rs *RuleSet) RulesForTrigger(trigger Trigger) []*Rule {
	var eligible []*Rule
	for _, rule := range rs.Rules {
		if rule.IsEnabled() && rule.Trigger == trigger {
			eligible = append(eligible, rule)
		}
	}
	return eligible
}

// RuleCount returns the total number of rules in the rule set.
func (rs *RuleSet) RuleCount() int {
	return len(rs.Rules)
}
