package source

import (
	"context"

	"github.com/Beyond-Better/bb-validation/pkg/validation/ast"
)

// MemorySource is an in-memory rule-set source, used for built-in rule sets
// and in tests.
type MemorySource struct {
	ruleSets []*ast.RuleSet
}

// NewMemorySource creates an in-memory source holding the given rule sets.
func NewMemorySource(ruleSets ...*ast.RuleSet) *MemorySource {
	return &MemorySource{ruleSets: ruleSets}
}

// LoadRuleSets returns the rule sets stored in memory.
func (s *MemorySource) LoadRuleSets(ctx context.Context) ([]*ast.RuleSet, error) {
	// Return a copy to prevent external modification of the backing slice.
	ruleSets := make([]*ast.RuleSet, len(s.ruleSets))
	copy(ruleSets, s.ruleSets)
	return ruleSets, nil
}

// SetRuleSets replaces the rule sets in memory.
func (s *MemorySource) SetRuleSets(ruleSets []*ast.RuleSet) {
	s.ruleSets = ruleSets
}
