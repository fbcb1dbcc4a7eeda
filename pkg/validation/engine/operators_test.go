package engine

import (
	"strings"
	"testing"

	"github.com/Beyond-Better/bb-validation/pkg/validation/ast"
)

func TestEvaluateOperator_Equals(t *testing.T) {
	tests := []struct {
		name           string
		fieldValue     interface{}
		conditionValue interface{}
		expected       bool
	}{
		{"equal strings", "claude", "claude", true},
		{"unequal strings", "claude", "gpt", false},
		{"equal bools", true, true, true},
		{"int vs float64 same value", 1, 1.0, true},
		{"int64 vs float64 same value", int64(42), 42.0, true},
		{"unequal numbers", 1, 2.0, false},
		{"number vs string no coercion", 1, "1", false},
		{"bool vs string no coercion", true, "true", false},
		{"bool vs number no coercion", true, 1, false},
		{"both nil", nil, nil, true},
		{"field nil", nil, "x", false},
		{"condition nil", "x", nil, false},
		{"equal maps", map[string]interface{}{"a": 1}, map[string]interface{}{"a": 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evaluateOperator(ast.OperatorEquals, tt.fieldValue, tt.conditionValue)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("equals(%v, %v) = %v, want %v", tt.fieldValue, tt.conditionValue, got, tt.expected)
			}

			negated, err := evaluateOperator(ast.OperatorNotEquals, tt.fieldValue, tt.conditionValue)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if negated != !tt.expected {
				t.Errorf("not_equals(%v, %v) = %v, want %v", tt.fieldValue, tt.conditionValue, negated, !tt.expected)
			}
		})
	}
}

func TestEvaluateOperator_Contains(t *testing.T) {
	tests := []struct {
		name           string
		op             ast.Operator
		fieldValue     interface{}
		conditionValue interface{}
		expected       bool
	}{
		{"substring present", ast.OperatorContains, "claude-sonnet-4", "sonnet", true},
		{"substring absent", ast.OperatorContains, "claude-sonnet-4", "opus", false},
		{"array membership hit", ast.OperatorContains, []interface{}{"a", "b"}, "b", true},
		{"array membership miss", ast.OperatorContains, []interface{}{"a", "b"}, "c", false},
		{"array numeric membership", ast.OperatorContains, []interface{}{1, 2.0}, 2, true},
		{"string field non-string condition", ast.OperatorContains, "abc", 1, false},
		{"number field", ast.OperatorContains, 42, "4", false},
		{"nil field", ast.OperatorContains, nil, "x", false},

		{"not_contains substring present", ast.OperatorNotContains, "claude-sonnet-4", "sonnet", false},
		{"not_contains substring absent", ast.OperatorNotContains, "claude-sonnet-4", "opus", true},
		{"not_contains array hit", ast.OperatorNotContains, []interface{}{"a"}, "a", false},
		{"not_contains inapplicable type", ast.OperatorNotContains, 42, "4", true},
		{"not_contains string field non-string condition", ast.OperatorNotContains, "abc", 1, true},
		{"not_contains nil field", ast.OperatorNotContains, nil, "x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evaluateOperator(tt.op, tt.fieldValue, tt.conditionValue)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("%s(%v, %v) = %v, want %v", tt.op, tt.fieldValue, tt.conditionValue, got, tt.expected)
			}
		})
	}
}

func TestEvaluateOperator_Matches(t *testing.T) {
	tests := []struct {
		name           string
		fieldValue     interface{}
		conditionValue interface{}
		expected       bool
		wantErr        bool
	}{
		{"pattern hit", "claude-opus-4", "claude.*(?:opus|sonnet)", true, false},
		{"pattern miss", "gpt-4o", "claude.*", false, false},
		{"unanchored substring", "xx-sonnet-yy", "sonnet", true, false},
		{"non-string field", 42, ".*", false, false},
		{"non-string pattern", "abc", 42, false, false},
		{"invalid pattern", "abc", "[unclosed", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evaluateOperator(ast.OperatorMatches, tt.fieldValue, tt.conditionValue)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("matches_pattern(%v, %v) = %v, want %v", tt.fieldValue, tt.conditionValue, got, tt.expected)
			}
		})
	}
}

func TestEvaluateOperator_Membership(t *testing.T) {
	tests := []struct {
		name           string
		op             ast.Operator
		fieldValue     interface{}
		conditionValue interface{}
		expected       bool
	}{
		{"in hit", ast.OperatorIn, "claude-2.0", []interface{}{"claude-2.0", "claude-2.1"}, true},
		{"in miss", ast.OperatorIn, "claude-3", []interface{}{"claude-2.0", "claude-2.1"}, false},
		{"in numeric cross-type", ast.OperatorIn, 2, []interface{}{1.0, 2.0}, true},
		{"in non-list condition", ast.OperatorIn, "a", "a", false},
		{"in nil condition", ast.OperatorIn, "a", nil, false},

		{"not_in hit", ast.OperatorNotIn, "claude-3", []interface{}{"claude-2.0"}, true},
		{"not_in miss", ast.OperatorNotIn, "claude-2.0", []interface{}{"claude-2.0"}, false},
		{"not_in non-list condition", ast.OperatorNotIn, "a", "a", true},
		{"not_in nil condition", ast.OperatorNotIn, "a", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evaluateOperator(tt.op, tt.fieldValue, tt.conditionValue)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("%s(%v, %v) = %v, want %v", tt.op, tt.fieldValue, tt.conditionValue, got, tt.expected)
			}
		})
	}
}

func TestEvaluateOperator_Comparisons(t *testing.T) {
	tests := []struct {
		name           string
		op             ast.Operator
		fieldValue     interface{}
		conditionValue interface{}
		expected       bool
	}{
		{"gt true", ast.OperatorGreaterThan, 1.5, 1.0, true},
		{"gt false equal", ast.OperatorGreaterThan, 1.0, 1.0, false},
		{"gt int vs float", ast.OperatorGreaterThan, 2, 1.5, true},
		{"lt true", ast.OperatorLessThan, 0.5, 1.0, true},
		{"lt false", ast.OperatorLessThan, 1.5, 1.0, false},
		{"ge equal", ast.OperatorGreaterEqual, 1.0, 1, true},
		{"ge below", ast.OperatorGreaterEqual, 0.9, 1.0, false},
		{"le equal", ast.OperatorLessEqual, 0, 0.0, true},
		{"le above", ast.OperatorLessEqual, 0.1, 0.0, false},
		{"string operand", ast.OperatorGreaterThan, "2", 1.0, false},
		{"nil operand", ast.OperatorLessThan, nil, 1.0, false},
		{"bool operand", ast.OperatorGreaterEqual, true, 0.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evaluateOperator(tt.op, tt.fieldValue, tt.conditionValue)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("%s(%v, %v) = %v, want %v", tt.op, tt.fieldValue, tt.conditionValue, got, tt.expected)
			}
		})
	}
}

func TestEvaluateOperator_Unknown(t *testing.T) {
	_, err := evaluateOperator("between", 1, 2)
	if err == nil {
		t.Fatal("expected error for unknown operator")
	}
	if !strings.Contains(err.Error(), "unknown operator") {
		t.Errorf("unexpected error message: %v", err)
	}
}
