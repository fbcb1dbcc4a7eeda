package engine

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Beyond-Better/bb-validation/pkg/validation/ast"
	"github.com/Beyond-Better/bb-validation/pkg/validation/registry"
)

func TestMetrics_Record(t *testing.T) {
	promReg := prometheus.NewRegistry()
	m := NewMetrics("test", promReg)

	m.RecordEvaluation("chat-input", "on_change", 50*time.Microsecond)
	m.RecordEvaluation("chat-input", "on_change", 80*time.Microsecond)
	m.RecordHit("rule-a")
	m.RecordMiss("rule-a")
	m.RecordMiss("rule-a")
	m.RecordRuleError("rule-b")

	if got := testutil.ToFloat64(m.evaluationsTotal.WithLabelValues("chat-input", "on_change")); got != 2 {
		t.Errorf("evaluations_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.ruleHitsTotal.WithLabelValues("rule-a")); got != 1 {
		t.Errorf("rule_hits_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ruleMissesTotal.WithLabelValues("rule-a")); got != 2 {
		t.Errorf("rule_misses_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.ruleErrorsTotal.WithLabelValues("rule-b")); got != 1 {
		t.Errorf("rule_errors_total = %v, want 1", got)
	}
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics

	// Must not panic.
	m.RecordEvaluation("rs", "on_change", time.Millisecond)
	m.RecordHit("r")
	m.RecordMiss("r")
	m.RecordRuleError("r")
}

func TestMetrics_EngineIntegration(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := registry.New(logger)

	rs := &ast.RuleSet{
		ID:      "rs",
		Context: "test",
		Rules: []*ast.Rule{
			{
				ID: "hit", Trigger: ast.TriggerOnChange, Priority: 2,
				Actions: []*ast.RuleAction{{Action: ast.ActionSetValue, Target: "a", Value: 1}},
			},
			{
				ID: "miss", Trigger: ast.TriggerOnChange, Priority: 1,
				Condition: &ast.ConditionNode{Field: "model", Operator: ast.OperatorEquals, Value: "other"},
				Actions:   []*ast.RuleAction{{Action: ast.ActionSetValue, Target: "b", Value: 2}},
			},
		},
	}
	if err := reg.Add(rs); err != nil {
		t.Fatalf("failed to register rule set: %v", err)
	}

	eng, err := New(nil, reg, logger)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	promReg := prometheus.NewRegistry()
	m := NewMetrics("test", promReg)
	eng.SetMetrics(m)

	if _, err := eng.Evaluate("rs", "m", nil, nil, ast.TriggerOnChange, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := testutil.ToFloat64(m.evaluationsTotal.WithLabelValues("rs", "on_change")); got != 1 {
		t.Errorf("evaluations_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ruleHitsTotal.WithLabelValues("hit")); got != 1 {
		t.Errorf("rule_hits_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ruleMissesTotal.WithLabelValues("miss")); got != 1 {
		t.Errorf("rule_misses_total = %v, want 1", got)
	}
}
