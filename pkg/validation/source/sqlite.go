package source

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/Beyond-Better/bb-validation/pkg/validation/ast"
)

// SQLiteStore persists rule sets in a local SQLite database. It implements
// Source for loading and adds Save/Delete for installations where users
// author and edit rule sets.
//
// The store uses a write-ahead log (WAL) for better concurrent performance
// and prepared statements on the hot paths.
type SQLiteStore struct {
	db        *sql.DB
	dbPath    string
	logger    *slog.Logger
	mu        sync.RWMutex
	closeOnce sync.Once

	saveStmt   *sql.Stmt
	loadStmt   *sql.Stmt
	deleteStmt *sql.Stmt
	listStmt   *sql.Stmt
}

// SQLiteStoreConfig configures the SQLite store.
type SQLiteStoreConfig struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration

	// Logger receives store events. Defaults to slog.Default().
	Logger *slog.Logger
}

// NewSQLiteStore creates a SQLite-backed rule-set store with default settings.
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	return NewSQLiteStoreWithConfig(SQLiteStoreConfig{
		DBPath:      dbPath,
		BusyTimeout: 5 * time.Second,
		Logger:      logger,
	})
}

// NewSQLiteStoreWithConfig creates a SQLite store with custom configuration.
func NewSQLiteStoreWithConfig(cfg SQLiteStoreConfig) (*SQLiteStore, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.DBPath, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	store := &SQLiteStore{
		db:     db,
		dbPath: cfg.DBPath,
		logger: cfg.Logger,
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if err := store.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return store, nil
}

// initSchema creates the database schema if it doesn't exist.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS rule_sets (
		id TEXT NOT NULL PRIMARY KEY,
		context TEXT NOT NULL,
		version TEXT NOT NULL,
		data TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_rule_sets_context ON rule_sets(context);
	`

	_, err := s.db.Exec(schema)
	return err
}

// prepareStatements prepares SQL statements for reuse.
func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.saveStmt, err = s.db.Prepare(`
		INSERT INTO rule_sets (id, context, version, data, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			context = excluded.context,
			version = excluded.version,
			data = excluded.data,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare save statement: %w", err)
	}

	s.loadStmt, err = s.db.Prepare(`
		SELECT data FROM rule_sets WHERE id = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare load statement: %w", err)
	}

	s.deleteStmt, err = s.db.Prepare(`
		DELETE FROM rule_sets WHERE id = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}

	s.listStmt, err = s.db.Prepare(`
		SELECT id, data FROM rule_sets ORDER BY id
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare list statement: %w", err)
	}

	return nil
}

// Save persists a rule set, replacing any existing rule set with the same id.
func (s *SQLiteStore) Save(ctx context.Context, rs *ast.RuleSet) error {
	if rs == nil {
		return fmt.Errorf("rule set cannot be nil")
	}
	if rs.ID == "" {
		return fmt.Errorf("rule set id cannot be empty")
	}

	data, err := json.Marshal(rs)
	if err != nil {
		return fmt.Errorf("failed to marshal rule set %q: %w", rs.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.saveStmt.ExecContext(ctx,
		rs.ID,
		rs.Context,
		rs.Version,
		string(data),
		time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save rule set %q: %w", rs.ID, err)
	}

	return nil
}

// Load retrieves a single rule set by id. A missing id returns (nil, nil).
func (s *SQLiteStore) Load(ctx context.Context, id string) (*ast.RuleSet, error) {
	if id == "" {
		return nil, fmt.Errorf("rule set id cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var data string
	err := s.loadStmt.QueryRowContext(ctx, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load rule set %q: %w", id, err)
	}

	var rs ast.RuleSet
	if err := json.Unmarshal([]byte(data), &rs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rule set %q: %w", id, err)
	}

	return &rs, nil
}

// Delete removes a rule set by id.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("rule set id cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.deleteStmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete rule set %q: %w", id, err)
	}

	return nil
}

// LoadRuleSets returns all stored rule sets, implementing Source. Rows that
// fail to unmarshal are skipped with a warning.
func (s *SQLiteStore) LoadRuleSets(ctx context.Context) ([]*ast.RuleSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.listStmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rule sets: %w", err)
	}
	defer rows.Close()

	var ruleSets []*ast.RuleSet
	for rows.Next() {
		var (
			id   string
			data string
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		var rs ast.RuleSet
		if err := json.Unmarshal([]byte(data), &rs); err != nil {
			s.logger.Warn("failed to unmarshal stored rule set, skipping",
				"rule_set", id,
				"error", err,
			)
			continue
		}

		ruleSets = append(ruleSets, &rs)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return ruleSets, nil
}

// Close releases the store's resources. Close is idempotent.
func (s *SQLiteStore) Close() error {
	var closeErr error

	s.closeOnce.Do(func() {
		if s.saveStmt != nil {
			s.saveStmt.Close()
		}
		if s.loadStmt != nil {
			s.loadStmt.Close()
		}
		if s.deleteStmt != nil {
			s.deleteStmt.Close()
		}
		if s.listStmt != nil {
			s.listStmt.Close()
		}

		if s.db != nil {
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
			closeErr = s.db.Close()
		}
	})

	return closeErr
}
