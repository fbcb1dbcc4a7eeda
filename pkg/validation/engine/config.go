package engine

import (
	"fmt"

	"github.com/Beyond-Better/bb-validation/pkg/validation/ast"
)

// CustomEvaluator evaluates a leaf condition in place of the built-in operator
// table. Registering one for an operator bypasses the built-in logic entirely;
// the evaluator receives the raw condition and the evaluation context.
type CustomEvaluator func(condition *ast.ConditionNode, vctx *Context) (bool, error)

// Config contains configuration for the validation engine.
type Config struct {
	// Debug enables verbose per-condition tracing.
	// Default: false.
	Debug bool

	// MaxRecursionDepth caps nesting of condition groups. Exceeding it errors
	// out the evaluation of that rule only.
	// Default: 10.
	MaxRecursionDepth int

	// ContinueOnError controls whether a rule evaluation error is isolated
	// (logged, rule treated as non-matching) or escalated to a full abort of
	// the rule-set evaluation.
	// Default: true (best-effort, partial results returned).
	ContinueOnError bool

	// CustomEvaluators maps operators to caller-supplied evaluators,
	// extending or overriding the built-in operator table.
	CustomEvaluators map[ast.Operator]CustomEvaluator
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		Debug:             false,
		MaxRecursionDepth: 10,
		ContinueOnError:   true,
	}
}

// Validate validates the engine configuration.
func (c *Config) Validate() error {
	if c.MaxRecursionDepth <= 0 {
		return fmt.Errorf("%w: max recursion depth must be positive", ErrInvalidConfig)
	}
	for op, eval := range c.CustomEvaluators {
		if op == "" {
			return fmt.Errorf("%w: custom evaluator registered for empty operator", ErrInvalidConfig)
		}
		if eval == nil {
			return fmt.Errorf("%w: custom evaluator for operator %q is nil", ErrInvalidConfig, op)
		}
	}
	return nil
}

// WithDebug enables or disables verbose tracing.
func (c *Config) WithDebug(enabled bool) *Config {
	c.Debug = enabled
	return c
}

// WithMaxRecursionDepth sets the condition-group nesting cap.
func (c *Config) WithMaxRecursionDepth(depth int) *Config {
	c.MaxRecursionDepth = depth
	return c
}

// WithContinueOnError sets the error-escalation behavior.
func (c *Config) WithContinueOnError(continueOnError bool) *Config {
	c.ContinueOnError = continueOnError
	return c
}

// WithCustomEvaluator registers a custom evaluator for an operator.
func (c *Config) WithCustomEvaluator(op ast.Operator, eval CustomEvaluator) *Config {
	if c.CustomEvaluators == nil {
		c.CustomEvaluators = make(map[ast.Operator]CustomEvaluator)
	}
	c.CustomEvaluators[op] = eval
	return c
}
