// Package registry provides a keyed store for validation rule sets.
//
// The registry is an explicit object constructed and passed by the host
// application rather than a module-level singleton, keeping the engine
// testable and free of hidden shared state. Concurrent mutation is
// last-write-wins; rule-set authorship is infrequent and administrative.
//
// Two built-in rule sets ship as illustrative default content: chat-input
// validation and model-config validation. They are data, not behavior, and
// are not part of the reusable engine contract.
package registry
