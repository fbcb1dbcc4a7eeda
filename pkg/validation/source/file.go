package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Beyond-Better/bb-validation/pkg/validation/ast"
)

// FileSource loads rule sets from JSON or YAML files on disk.
type FileSource struct {
	path   string
	logger *slog.Logger
}

// NewFileSource creates a file-based rule-set source. The path can be either
// a single file or a directory; directories are walked recursively and all
// .json, .yaml, and .yml files are loaded.
func NewFileSource(path string, logger *slog.Logger) *FileSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileSource{
		path:   path,
		logger: logger,
	}
}

// Path returns the file or directory this source reads from.
func (s *FileSource) Path() string {
	return s.path
}

// LoadRuleSets loads all rule sets from the configured path.
func (s *FileSource) LoadRuleSets(ctx context.Context) ([]*ast.RuleSet, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path %q: %w", s.path, err)
	}

	var ruleSets []*ast.RuleSet

	if info.IsDir() {
		ruleSets, err = s.loadDirectory(ctx)
		if err != nil {
			return nil, err
		}
	} else {
		rs, err := s.loadFile(s.path)
		if err != nil {
			return nil, err
		}
		ruleSets = []*ast.RuleSet{rs}
	}

	s.logger.Info("loaded rule sets from source",
		"path", s.path,
		"rule_set_count", len(ruleSets),
	)

	return ruleSets, nil
}

// loadDirectory walks the directory and loads every recognized rule-set file.
// Files that fail to load are skipped with a warning so a single malformed
// file cannot break the whole load.
func (s *FileSource) loadDirectory(ctx context.Context) ([]*ast.RuleSet, error) {
	var ruleSets []*ast.RuleSet

	err := filepath.Walk(s.path, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		switch filepath.Ext(path) {
		case ".json", ".yaml", ".yml":
		default:
			return nil
		}

		rs, err := s.loadFile(path)
		if err != nil {
			s.logger.Warn("failed to load rule-set file, skipping",
				"path", path,
				"error", err,
			)
			return nil
		}

		ruleSets = append(ruleSets, rs)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %q: %w", s.path, err)
	}

	return ruleSets, nil
}

// loadFile loads a single rule-set file, choosing the codec by extension.
func (s *FileSource) loadFile(path string) (*ast.RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", path, err)
	}

	var rs ast.RuleSet
	switch filepath.Ext(path) {
	case ".json":
		if err := json.Unmarshal(data, &rs); err != nil {
			return nil, fmt.Errorf("failed to parse JSON rule set %q: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &rs); err != nil {
			return nil, fmt.Errorf("failed to parse YAML rule set %q: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported rule-set file extension %q", filepath.Ext(path))
	}

	if rs.ID == "" {
		return nil, fmt.Errorf("rule set in %q has no id", path)
	}

	s.logger.Debug("loaded rule-set file",
		"path", path,
		"rule_set", rs.ID,
		"rule_count", rs.RuleCount(),
	)

	return &rs, nil
}
