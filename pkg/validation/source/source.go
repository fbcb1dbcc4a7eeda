package source

import (
	"context"

	"github.com/Beyond-Better/bb-validation/pkg/validation/ast"
)

// Source loads validation rule sets from a backend.
type Source interface {
	// LoadRuleSets returns all rule sets available from this source.
	LoadRuleSets(ctx context.Context) ([]*ast.RuleSet, error)
}
