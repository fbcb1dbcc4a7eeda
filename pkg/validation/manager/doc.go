// Package manager coordinates rule-set loading, hot reload, and scheduled
// refresh for the validation engine.
//
// # Architecture
//
// The Manager sits between rule-set sources and the registry:
//
//	Sources (memory, file, sqlite) --> Manager --> Registry --> Engine
//
// On start it loads every source into the registry, then keeps the registry
// fresh two ways:
//
//   - FileWatcher: fsnotify-based watching of file sources with debouncing,
//     so edits to rule-set files show up without a restart
//   - scheduled reload: an optional cron expression that reloads all sources
//     periodically, covering backends (like SQLite) that have no change
//     notification
//
// A failed reload keeps the previously loaded rule sets in place; the
// registry is only updated with rule sets that loaded successfully.
package manager
