package ast

// LogicOp represents a logical combinator for condition groups.
type LogicOp string

const (
	LogicAnd LogicOp = "AND" // All children must match
	LogicOr  LogicOp = "OR"  // At least one child must match
	LogicNot LogicOp = "NOT" // Negates exactly one child
)

// Operator represents a comparison operator in a leaf condition.
type Operator string

const (
	OperatorEquals       Operator = "equals"
	OperatorNotEquals    Operator = "not_equals"
	OperatorContains     Operator = "contains"
	OperatorNotContains  Operator = "not_contains"
	OperatorMatches      Operator = "matches_pattern" // Regex match
	OperatorIn           Operator = "in"
	OperatorNotIn        Operator = "not_in"
	OperatorGreaterThan  Operator = "greater_than"
	OperatorLessThan     Operator = "less_than"
	OperatorGreaterEqual Operator = "greater_equal"
	OperatorLessEqual    Operator = "less_equal"
)

// Operators lists every built-in comparison operator.
var Operators = []Operator{
	OperatorEquals,
	OperatorNotEquals,
	OperatorContains,
	OperatorNotContains,
	OperatorMatches,
	OperatorIn,
	OperatorNotIn,
	OperatorGreaterThan,
	OperatorLessThan,
	OperatorGreaterEqual,
	OperatorLessEqual,
}

// IsKnownOperator returns true if op is one of the built-in operators.
// Custom evaluators registered on the engine may extend this set at runtime.
func IsKnownOperator(op Operator) bool {
	for _, known := range Operators {
		if op == known {
			return true
		}
	}
	return false
}

// ConditionNode represents a condition expression in a rule.
// A node is either a leaf comparison (Field, Operator, Value) or a logical
// group (Logic, Conditions). A non-empty Logic marks the node as a group;
// leaf fields are ignored on group nodes and vice versa.
type ConditionNode struct {
	// Group fields
	Logic      LogicOp          `json:"logic,omitempty" yaml:"logic,omitempty"`
	Conditions []*ConditionNode `json:"conditions,omitempty" yaml:"conditions,omitempty"`

	// Leaf fields
	Field    string      `json:"field,omitempty" yaml:"field,omitempty"`
	Operator Operator    `json:"operator,omitempty" yaml:"operator,omitempty"`
	Value    interface{} `json:"value,omitempty" yaml:"value,omitempty"`

	// Description is an optional human-readable note for rule authors.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// IsGroup returns true if this node is a logical group (AND/OR/NOT).
func (c *ConditionNode) IsGroup() bool {
	return c.Logic != ""
}

// IsLeaf returns true if this node is a leaf comparison.
func (c *ConditionNode) IsLeaf() bool {
	return c.Logic == ""
}
