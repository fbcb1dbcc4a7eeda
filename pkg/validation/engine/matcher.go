package engine

import (
	"fmt"
	"log/slog"

	"github.com/Beyond-Better/bb-validation/pkg/validation/ast"
)

// Matcher evaluates condition trees against an evaluation context.
type Matcher struct {
	logger   *slog.Logger
	maxDepth int
	custom   map[ast.Operator]CustomEvaluator
	debug    bool
}

// NewMatcher creates a condition matcher from the engine configuration.
func NewMatcher(config *Config, logger *slog.Logger) *Matcher {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{
		logger:   logger,
		maxDepth: config.MaxRecursionDepth,
		custom:   config.CustomEvaluators,
		debug:    config.Debug,
	}
}

// Match evaluates a condition node at the given nesting depth and returns
// whether it matched. Errors (depth exceeded, malformed NOT, unknown logic or
// operator) propagate to the caller, which treats the rule as non-matching.
func (m *Matcher) Match(node *ast.ConditionNode, vctx *Context, depth int) (bool, error) {
	if node == nil {
		return true, nil // No condition means always match
	}

	if depth > m.maxDepth {
		return false, &RecursionDepthError{Depth: depth, Max: m.maxDepth}
	}

	if node.IsGroup() {
		return m.matchGroup(node, vctx, depth)
	}

	return m.matchLeaf(node, vctx)
}

// matchGroup evaluates a logical group node (AND/OR/NOT).
func (m *Matcher) matchGroup(node *ast.ConditionNode, vctx *Context, depth int) (bool, error) {
	switch node.Logic {
	case ast.LogicAnd:
		for _, child := range node.Conditions {
			matched, err := m.Match(child, vctx, depth+1)
			if err != nil {
				return false, err
			}
			if !matched {
				return false, nil
			}
		}
		return true, nil

	case ast.LogicOr:
		for _, child := range node.Conditions {
			matched, err := m.Match(child, vctx, depth+1)
			if err != nil {
				return false, err
			}
			if matched {
				return true, nil
			}
		}
		return false, nil

	case ast.LogicNot:
		if len(node.Conditions) != 1 {
			return false, fmt.Errorf("NOT group must have exactly one child, got %d", len(node.Conditions))
		}
		matched, err := m.Match(node.Conditions[0], vctx, depth+1)
		if err != nil {
			return false, err
		}
		return !matched, nil

	default:
		return false, fmt.Errorf("unknown logic operator: %q", node.Logic)
	}
}

// matchLeaf evaluates a leaf comparison. A custom evaluator registered for
// the condition's operator takes precedence over the built-in table. A field
// that does not resolve is evaluated as nil rather than erroring.
func (m *Matcher) matchLeaf(node *ast.ConditionNode, vctx *Context) (bool, error) {
	if eval, ok := m.custom[node.Operator]; ok {
		return eval(node, vctx)
	}

	fieldValue, resolved := vctx.Lookup(node.Field)

	matched, err := evaluateOperator(node.Operator, fieldValue, node.Value)
	if err != nil {
		return false, fmt.Errorf("operator %q evaluation failed: %w", node.Operator, err)
	}

	if m.debug {
		m.logger.Debug("leaf condition evaluated",
			"field", node.Field,
			"resolved", resolved,
			"operator", node.Operator,
			"expected", node.Value,
			"actual", fieldValue,
			"matched", matched,
		)
	}

	return matched, nil
}
