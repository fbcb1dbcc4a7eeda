package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Beyond-Better/bb-validation/pkg/validation/ast"
)

// Registry holds named rule sets keyed by id. All methods are safe for
// concurrent use; overlapping writes are last-write-wins.
type Registry struct {
	mu       sync.RWMutex
	ruleSets map[string]*ast.RuleSet
	logger   *slog.Logger
}

// New creates an empty registry.
func New(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		ruleSets: make(map[string]*ast.RuleSet),
		logger:   logger,
	}
}

// Add registers a rule set. An existing rule set with the same id is
// replaced (logged as a warning).
func (r *Registry) Add(rs *ast.RuleSet) error {
	if rs == nil {
		return fmt.Errorf("rule set cannot be nil")
	}
	if rs.ID == "" {
		return fmt.Errorf("rule set id cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ruleSets[rs.ID]; exists {
		r.logger.Warn("replacing existing rule set", "rule_set", rs.ID)
	}
	r.ruleSets[rs.ID] = rs

	r.logger.Debug("rule set registered",
		"rule_set", rs.ID,
		"context", rs.Context,
		"rule_count", rs.RuleCount(),
	)

	return nil
}

// Update replaces an existing rule set and stamps its UpdatedAt metadata.
// Updating an unknown id is an error.
func (r *Registry) Update(rs *ast.RuleSet) error {
	if rs == nil {
		return fmt.Errorf("rule set cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ruleSets[rs.ID]; !exists {
		return fmt.Errorf("cannot update unknown rule set %q", rs.ID)
	}

	rs.Metadata.UpdatedAt = time.Now().UTC()
	r.ruleSets[rs.ID] = rs
	return nil
}

// Remove deletes a rule set by id and reports whether it existed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, existed := r.ruleSets[id]
	delete(r.ruleSets, id)
	return existed
}

// Get returns the rule set with the given id.
func (r *Registry) Get(id string) (*ast.RuleSet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rs, ok := r.ruleSets[id]
	return rs, ok
}

// GetByContext returns every rule set tagged with the given context,
// sorted by id for deterministic ordering.
func (r *Registry) GetByContext(contextTag string) []*ast.RuleSet {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*ast.RuleSet
	for _, rs := range r.ruleSets {
		if rs.Context == contextTag {
			matched = append(matched, rs)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ID < matched[j].ID
	})

	return matched
}

// List returns all registered rule sets sorted by id.
func (r *Registry) List() []*ast.RuleSet {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*ast.RuleSet, 0, len(r.ruleSets))
	for _, rs := range r.ruleSets {
		all = append(all, rs)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].ID < all[j].ID
	})

	return all
}

// Len returns the number of registered rule sets.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.ruleSets)
}
