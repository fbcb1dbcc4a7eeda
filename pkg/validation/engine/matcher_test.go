package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/Beyond-Better/bb-validation/pkg/validation/ast"
)

func testContext() *Context {
	return &Context{
		Model: "claude-sonnet-4",
		ModelCapabilities: map[string]interface{}{
			"supportedFeatures": map[string]interface{}{
				"vision": true,
			},
		},
		Parameters: map[string]interface{}{
			"temperature": 0.7,
			"extendedThinking": map[string]interface{}{
				"enabled": true,
			},
		},
	}
}

func newTestMatcher(t *testing.T, config *Config) *Matcher {
	t.Helper()
	return NewMatcher(config, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestMatcher_Leaf(t *testing.T) {
	m := newTestMatcher(t, nil)
	vctx := testContext()

	tests := []struct {
		name     string
		node     *ast.ConditionNode
		expected bool
	}{
		{
			"equals hit",
			&ast.ConditionNode{Field: "model", Operator: ast.OperatorEquals, Value: "claude-sonnet-4"},
			true,
		},
		{
			"equals miss",
			&ast.ConditionNode{Field: "model", Operator: ast.OperatorEquals, Value: "gpt-4o"},
			false,
		},
		{
			"nested field",
			&ast.ConditionNode{Field: "parameters.extendedThinking.enabled", Operator: ast.OperatorEquals, Value: true},
			true,
		},
		{
			"missing field resolves as nil",
			&ast.ConditionNode{Field: "parameters.topP", Operator: ast.OperatorEquals, Value: nil},
			true,
		},
		{
			"missing field never equals a value",
			&ast.ConditionNode{Field: "parameters.topP", Operator: ast.OperatorEquals, Value: 0.9},
			false,
		},
		{
			"missing field not_equals a value",
			&ast.ConditionNode{Field: "parameters.topP", Operator: ast.OperatorNotEquals, Value: 0.9},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Match(tt.node, vctx, 0)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Match = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMatcher_NilCondition(t *testing.T) {
	m := newTestMatcher(t, nil)

	got, err := m.Match(nil, testContext(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Error("nil condition should always match")
	}
}

func TestMatcher_Groups(t *testing.T) {
	m := newTestMatcher(t, nil)
	vctx := testContext()

	modelIs := func(v string) *ast.ConditionNode {
		return &ast.ConditionNode{Field: "model", Operator: ast.OperatorEquals, Value: v}
	}

	tests := []struct {
		name     string
		node     *ast.ConditionNode
		expected bool
	}{
		{
			"and all true",
			&ast.ConditionNode{Logic: ast.LogicAnd, Conditions: []*ast.ConditionNode{
				modelIs("claude-sonnet-4"),
				{Field: "parameters.temperature", Operator: ast.OperatorLessThan, Value: 1.0},
			}},
			true,
		},
		{
			"and one false",
			&ast.ConditionNode{Logic: ast.LogicAnd, Conditions: []*ast.ConditionNode{
				modelIs("claude-sonnet-4"),
				modelIs("gpt-4o"),
			}},
			false,
		},
		{
			"and empty is vacuously true",
			&ast.ConditionNode{Logic: ast.LogicAnd},
			true,
		},
		{
			"or one true",
			&ast.ConditionNode{Logic: ast.LogicOr, Conditions: []*ast.ConditionNode{
				modelIs("gpt-4o"),
				modelIs("claude-sonnet-4"),
			}},
			true,
		},
		{
			"or all false",
			&ast.ConditionNode{Logic: ast.LogicOr, Conditions: []*ast.ConditionNode{
				modelIs("gpt-4o"),
				modelIs("gemini-pro"),
			}},
			false,
		},
		{
			"or empty is false",
			&ast.ConditionNode{Logic: ast.LogicOr},
			false,
		},
		{
			"not inverts",
			&ast.ConditionNode{Logic: ast.LogicNot, Conditions: []*ast.ConditionNode{
				modelIs("gpt-4o"),
			}},
			true,
		},
		{
			"nested groups",
			&ast.ConditionNode{Logic: ast.LogicAnd, Conditions: []*ast.ConditionNode{
				modelIs("claude-sonnet-4"),
				{Logic: ast.LogicNot, Conditions: []*ast.ConditionNode{
					{Logic: ast.LogicOr, Conditions: []*ast.ConditionNode{
						modelIs("gpt-4o"),
						{Field: "parameters.temperature", Operator: ast.OperatorGreaterThan, Value: 1.0},
					}},
				}},
			}},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Match(tt.node, vctx, 0)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Match = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMatcher_ShortCircuit(t *testing.T) {
	// A short-circuited branch must not be evaluated: the second child has an
	// invalid pattern that would error if reached.
	m := newTestMatcher(t, nil)
	vctx := testContext()

	poison := &ast.ConditionNode{Field: "model", Operator: ast.OperatorMatches, Value: "[unclosed"}

	orNode := &ast.ConditionNode{Logic: ast.LogicOr, Conditions: []*ast.ConditionNode{
		{Field: "model", Operator: ast.OperatorEquals, Value: "claude-sonnet-4"},
		poison,
	}}
	got, err := m.Match(orNode, vctx, 0)
	if err != nil {
		t.Fatalf("OR should short-circuit before the invalid pattern: %v", err)
	}
	if !got {
		t.Error("OR should match on first child")
	}

	andNode := &ast.ConditionNode{Logic: ast.LogicAnd, Conditions: []*ast.ConditionNode{
		{Field: "model", Operator: ast.OperatorEquals, Value: "gpt-4o"},
		poison,
	}}
	got, err = m.Match(andNode, vctx, 0)
	if err != nil {
		t.Fatalf("AND should short-circuit before the invalid pattern: %v", err)
	}
	if got {
		t.Error("AND should fail on first child")
	}
}

func TestMatcher_MalformedGroups(t *testing.T) {
	m := newTestMatcher(t, nil)
	vctx := testContext()

	tests := []struct {
		name    string
		node    *ast.ConditionNode
		wantMsg string
	}{
		{
			"not with zero children",
			&ast.ConditionNode{Logic: ast.LogicNot},
			"exactly one child",
		},
		{
			"not with two children",
			&ast.ConditionNode{Logic: ast.LogicNot, Conditions: []*ast.ConditionNode{
				{Field: "model", Operator: ast.OperatorEquals, Value: "a"},
				{Field: "model", Operator: ast.OperatorEquals, Value: "b"},
			}},
			"exactly one child",
		},
		{
			"unknown logic",
			&ast.ConditionNode{Logic: "XOR", Conditions: []*ast.ConditionNode{
				{Field: "model", Operator: ast.OperatorEquals, Value: "a"},
			}},
			"unknown logic",
		},
		{
			"unknown operator",
			&ast.ConditionNode{Field: "model", Operator: "between", Value: "a"},
			"unknown operator",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Match(tt.node, vctx, 0)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestMatcher_RecursionDepth(t *testing.T) {
	m := newTestMatcher(t, DefaultConfig().WithMaxRecursionDepth(3))
	vctx := testContext()

	// Build a NOT chain deeper than the cap.
	node := &ast.ConditionNode{Field: "model", Operator: ast.OperatorEquals, Value: "claude-sonnet-4"}
	for i := 0; i < 6; i++ {
		node = &ast.ConditionNode{Logic: ast.LogicNot, Conditions: []*ast.ConditionNode{node}}
	}

	_, err := m.Match(node, vctx, 0)
	if err == nil {
		t.Fatal("expected recursion depth error")
	}

	var depthErr *RecursionDepthError
	if !errors.As(err, &depthErr) {
		t.Fatalf("expected *RecursionDepthError, got %T", err)
	}
	if depthErr.Max != 3 {
		t.Errorf("Max = %d, want 3", depthErr.Max)
	}
}

func TestMatcher_WithinDepthCap(t *testing.T) {
	m := newTestMatcher(t, DefaultConfig().WithMaxRecursionDepth(5))
	vctx := testContext()

	node := &ast.ConditionNode{Field: "model", Operator: ast.OperatorEquals, Value: "claude-sonnet-4"}
	for i := 0; i < 4; i++ {
		node = &ast.ConditionNode{Logic: ast.LogicAnd, Conditions: []*ast.ConditionNode{node}}
	}

	got, err := m.Match(node, vctx, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Error("nested condition within cap should match")
	}
}

func TestMatcher_CustomEvaluator(t *testing.T) {
	config := DefaultConfig().
		WithCustomEvaluator("semver_gte", func(condition *ast.ConditionNode, vctx *Context) (bool, error) {
			value, _ := vctx.Lookup(condition.Field)
			return value == condition.Value, nil
		}).
		// Overriding a built-in operator bypasses the built-in table entirely.
		WithCustomEvaluator(ast.OperatorEquals, func(condition *ast.ConditionNode, vctx *Context) (bool, error) {
			return false, nil
		})

	m := newTestMatcher(t, config)
	vctx := testContext()

	got, err := m.Match(&ast.ConditionNode{Field: "model", Operator: "semver_gte", Value: "claude-sonnet-4"}, vctx, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Error("custom operator should match")
	}

	got, err = m.Match(&ast.ConditionNode{Field: "model", Operator: ast.OperatorEquals, Value: "claude-sonnet-4"}, vctx, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got {
		t.Error("overridden equals should use the custom evaluator")
	}
}

func TestMatcher_CustomEvaluatorError(t *testing.T) {
	config := DefaultConfig().
		WithCustomEvaluator("explode", func(condition *ast.ConditionNode, vctx *Context) (bool, error) {
			return false, fmt.Errorf("boom")
		})

	m := newTestMatcher(t, config)

	_, err := m.Match(&ast.ConditionNode{Field: "model", Operator: "explode"}, testContext(), 0)
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("expected custom evaluator error to propagate, got %v", err)
	}
}
