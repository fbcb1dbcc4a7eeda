// Package source provides rule-set sources for loading validation rule sets
// from different backends.
//
// # Sources
//
// A Source loads rule sets into the registry:
//
//   - MemorySource: in-memory rule sets, primarily for testing and for
//     embedding built-in rule sets
//   - FileSource: JSON and YAML rule-set files, a single file or a directory
//   - SQLiteStore: durable persistence in a local SQLite database, used by
//     installations that let users author and edit rule sets
//
// File and SQLite sources skip individual malformed rule sets with a warning
// rather than failing the whole load, so one bad file cannot take down rule
// loading for everything else.
package source
