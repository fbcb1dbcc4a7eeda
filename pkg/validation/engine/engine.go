package engine

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/Beyond-Better/bb-validation/pkg/validation/ast"
	"github.com/Beyond-Better/bb-validation/pkg/validation/registry"
)

// Engine evaluates validation rule sets against parameter contexts.
// It holds only immutable configuration and an injected registry, so a single
// engine instance may serve concurrent evaluations without locking.
type Engine struct {
	config     *Config
	registry   *registry.Registry
	matcher    *Matcher
	applicator *Applicator
	logger     *slog.Logger
	metrics    *Metrics
}

// New creates a validation engine. The registry is required; the host
// application constructs and owns it (dependency injection, no singleton).
func New(config *Config, reg *registry.Registry, logger *slog.Logger) (*Engine, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if reg == nil {
		return nil, fmt.Errorf("registry cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		config:     config,
		registry:   reg,
		matcher:    NewMatcher(config, logger),
		applicator: NewApplicator(logger),
		logger:     logger,
	}, nil
}

// SetMetrics attaches Prometheus metrics to the engine. A nil metrics value
// disables recording.
func (e *Engine) SetMetrics(m *Metrics) {
	e.metrics = m
}

// Registry returns the engine's rule-set registry.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// Evaluate looks up the named rule set and evaluates it against a context
// assembled from the given model, capabilities, parameters, and any extra
// top-level keys. An unknown rule-set id is an error.
func (e *Engine) Evaluate(ruleSetID, model string, modelCapabilities, parameters map[string]interface{}, trigger ast.Trigger, extra map[string]interface{}) (*Result, error) {
	rs, ok := e.registry.Get(ruleSetID)
	if !ok {
		return nil, &RuleSetNotFoundError{ID: ruleSetID}
	}

	vctx := &Context{
		Model:             model,
		ModelCapabilities: modelCapabilities,
		Parameters:        parameters,
		Extra:             extra,
	}

	return e.EvaluateRuleSet(rs, vctx, trigger)
}

// EvaluateByContext evaluates every registered rule set tagged with the given
// context tag, returning one independently computed result per rule set.
func (e *Engine) EvaluateByContext(contextTag, model string, modelCapabilities, parameters map[string]interface{}, trigger ast.Trigger, extra map[string]interface{}) ([]*Result, error) {
	vctx := &Context{
		Model:             model,
		ModelCapabilities: modelCapabilities,
		Parameters:        parameters,
		Extra:             extra,
	}

	ruleSets := e.registry.GetByContext(contextTag)
	results := make([]*Result, 0, len(ruleSets))
	for _, rs := range ruleSets {
		result, err := e.EvaluateRuleSet(rs, vctx, trigger)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return results, nil
}

// EvaluateRuleSet runs a single rule set against the context at the given
// trigger phase.
//
// Rules are filtered to enabled rules matching the trigger, sorted by
// priority descending (stable, so equal priorities keep declaration order),
// evaluated in turn, and matched rules' actions are folded into the result.
// A rule whose evaluation errors is logged and treated as non-matching unless
// ContinueOnError is disabled, in which case the error aborts the whole
// evaluation and is returned.
func (e *Engine) EvaluateRuleSet(ruleSet *ast.RuleSet, vctx *Context, trigger ast.Trigger) (*Result, error) {
	if ruleSet == nil {
		return nil, ErrNilRuleSet
	}
	if vctx == nil {
		return nil, ErrNilContext
	}

	start := time.Now()
	result := newResult(ruleSet.ID, trigger)

	// RulesForTrigger returns a fresh slice, so sorting never reorders the
	// rule set itself.
	rules := ruleSet.RulesForTrigger(trigger)
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})

	for _, rule := range rules {
		matched, err := e.evaluateRule(rule, vctx)
		if err != nil {
			e.logger.Error("rule evaluation failed, treating as non-matching",
				"rule_set", ruleSet.ID,
				"rule_id", rule.ID,
				"error", err,
			)
			e.metrics.RecordRuleError(rule.ID)

			if !e.config.ContinueOnError {
				return nil, &RuleError{RuleSetID: ruleSet.ID, RuleID: rule.ID, Cause: err}
			}
			continue
		}

		if !matched {
			e.metrics.RecordMiss(rule.ID)
			continue
		}

		e.metrics.RecordHit(rule.ID)
		e.applicator.Apply(rule, result)
		result.TriggeredRules = append(result.TriggeredRules, TriggeredRule{
			RuleID:   rule.ID,
			RuleName: rule.Name,
			Actions:  rule.Actions,
		})
	}

	result.Valid = len(result.Messages.Errors) == 0 && !result.BlockSubmission
	result.EvaluationTime = time.Since(start)
	e.metrics.RecordEvaluation(ruleSet.ID, string(trigger), result.EvaluationTime)

	if e.config.Debug {
		e.logger.Debug("rule set evaluated",
			"rule_set", ruleSet.ID,
			"trigger", trigger,
			"evaluation_id", result.EvaluationID,
			"rules_considered", len(rules),
			"rules_triggered", len(result.TriggeredRules),
			"valid", result.Valid,
			"block_submission", result.BlockSubmission,
			"duration", result.EvaluationTime,
		)
	}

	return result, nil
}

// evaluateRule tests a single rule's condition tree. This is the
// error-isolation boundary: callers decide whether a returned error is
// swallowed (rule non-matching) or escalated.
func (e *Engine) evaluateRule(rule *ast.Rule, vctx *Context) (bool, error) {
	if !rule.HasCondition() {
		return true, nil
	}
	return e.matcher.Match(rule.Condition, vctx, 0)
}
