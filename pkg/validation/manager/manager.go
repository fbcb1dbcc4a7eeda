package manager

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/Beyond-Better/bb-validation/pkg/validation/engine"
	"github.com/Beyond-Better/bb-validation/pkg/validation/registry"
	"github.com/Beyond-Better/bb-validation/pkg/validation/source"
)

// Config contains configuration for the rule-set manager.
type Config struct {
	// ReloadSchedule is an optional cron expression for periodic full
	// reloads (e.g. "*/5 * * * *"). Empty disables scheduled reloads.
	ReloadSchedule string

	// WatchFiles enables fsnotify-based hot reload for file sources.
	WatchFiles bool

	// SkipInvalid controls whether rule sets with structural validation
	// findings are skipped during load. When false (the default) findings
	// are logged as warnings and the rule set is registered anyway, relying
	// on the engine's runtime error isolation.
	SkipInvalid bool
}

// DefaultConfig returns the default manager configuration.
func DefaultConfig() *Config {
	return &Config{
		WatchFiles: true,
	}
}

// Manager loads rule sets from sources into a registry and keeps the
// registry fresh through file watching and scheduled reloads.
type Manager struct {
	config   *Config
	sources  []source.Source
	registry *registry.Registry
	logger   *slog.Logger

	mu       sync.Mutex
	cron     *cron.Cron
	watchers []*FileWatcher
	running  bool
}

// New creates a rule-set manager. The registry is required.
func New(config *Config, reg *registry.Registry, logger *slog.Logger, sources ...source.Source) (*Manager, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if reg == nil {
		return nil, fmt.Errorf("registry cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	if config.ReloadSchedule != "" {
		if _, err := cron.ParseStandard(config.ReloadSchedule); err != nil {
			return nil, fmt.Errorf("invalid reload schedule %q: %w", config.ReloadSchedule, err)
		}
	}

	return &Manager{
		config:   config,
		sources:  sources,
		registry: reg,
		logger:   logger,
	}, nil
}

// Registry returns the registry the manager loads into.
func (m *Manager) Registry() *registry.Registry {
	return m.registry
}

// LoadAll loads rule sets from every source into the registry. A source that
// fails to load is logged and skipped; already-registered rule sets stay in
// place. The returned count is the number of rule sets registered.
func (m *Manager) LoadAll(ctx context.Context) (int, error) {
	loaded := 0
	failedSources := 0

	for _, src := range m.sources {
		ruleSets, err := src.LoadRuleSets(ctx)
		if err != nil {
			m.logger.Error("failed to load rule sets from source",
				"source", fmt.Sprintf("%T", src),
				"error", err,
			)
			failedSources++
			continue
		}

		for _, rs := range ruleSets {
			if findings := engine.ValidateRuleSet(rs); len(findings) > 0 {
				m.logger.Warn("rule set has structural findings",
					"rule_set", rs.ID,
					"findings", findings,
				)
				if m.config.SkipInvalid {
					continue
				}
			}

			if err := m.registry.Add(rs); err != nil {
				m.logger.Error("failed to register rule set",
					"rule_set", rs.ID,
					"error", err,
				)
				continue
			}
			loaded++
		}
	}

	if failedSources == len(m.sources) && len(m.sources) > 0 {
		return loaded, fmt.Errorf("all %d rule-set sources failed to load", len(m.sources))
	}

	m.logger.Info("rule sets loaded",
		"loaded", loaded,
		"sources", len(m.sources),
		"failed_sources", failedSources,
	)

	return loaded, nil
}

// Start loads all sources, then starts file watchers and the scheduled
// reload if configured. It returns after startup; watching runs in the
// background until Stop or context cancellation.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return fmt.Errorf("manager already running")
	}
	m.running = true
	m.mu.Unlock()

	if _, err := m.LoadAll(ctx); err != nil {
		return err
	}

	if m.config.WatchFiles {
		if err := m.startWatchers(ctx); err != nil {
			return err
		}
	}

	if m.config.ReloadSchedule != "" {
		if err := m.startScheduledReload(ctx); err != nil {
			return err
		}
	}

	return nil
}

// startWatchers starts an fsnotify watcher for every file source.
func (m *Manager) startWatchers(ctx context.Context) error {
	for _, src := range m.sources {
		fs, ok := src.(*source.FileSource)
		if !ok {
			continue
		}

		config := DefaultFileWatcherConfig()
		config.Path = fs.Path()

		watcher, err := NewFileWatcher(config, m.logger)
		if err != nil {
			return fmt.Errorf("failed to create watcher for %q: %w", fs.Path(), err)
		}

		m.mu.Lock()
		m.watchers = append(m.watchers, watcher)
		m.mu.Unlock()

		go func() {
			if err := watcher.Watch(ctx, func() error {
				_, err := m.LoadAll(ctx)
				return err
			}); err != nil {
				m.logger.Error("file watcher exited with error", "error", err)
			}
		}()
	}

	return nil
}

// startScheduledReload starts the cron-based periodic full reload.
func (m *Manager) startScheduledReload(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cron = cron.New()
	_, err := m.cron.AddFunc(m.config.ReloadSchedule, func() {
		m.logger.Info("starting scheduled rule-set reload",
			"schedule", m.config.ReloadSchedule,
		)
		if _, err := m.LoadAll(ctx); err != nil {
			m.logger.Error("scheduled reload failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reload: %w", err)
	}

	m.cron.Start()

	m.logger.Info("scheduled reload started", "schedule", m.config.ReloadSchedule)

	go func() {
		<-ctx.Done()
		m.Stop()
	}()

	return nil
}

// Stop stops file watchers and the reload scheduler. It does not clear the
// registry; already-loaded rule sets remain available.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}
	m.running = false

	for _, w := range m.watchers {
		if err := w.Stop(); err != nil {
			m.logger.Error("failed to stop file watcher", "error", err)
		}
	}
	m.watchers = nil

	if m.cron != nil {
		stopCtx := m.cron.Stop()
		<-stopCtx.Done()
		m.cron = nil
	}

	m.logger.Info("rule-set manager stopped")
}
