package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Beyond-Better/bb-validation/pkg/validation/engine"
	"github.com/Beyond-Better/bb-validation/pkg/validation/source"
)

var lintFlags struct {
	file   string
	dir    string
	format string
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate rule-set files",
	Long: `Validate rule-set files for structural errors.

The lint command parses JSON/YAML rule-set files and checks their structure:
  - required fields (ids, context, conditions)
  - trigger, operator, logic, and action-kind names
  - NOT groups with exactly one child, non-empty AND/OR groups
  - message and value requirements per action kind

Examples:
  # Lint a single file
  bb-validate lint --file rules.yaml

  # Lint a directory
  bb-validate lint --dir rules/

  # JSON output for CI
  bb-validate lint --file rules.yaml --format json`,
	RunE: lintRuleSets,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.file, "file", "f", "", "rule-set file to validate")
	lintCmd.Flags().StringVarP(&lintFlags.dir, "dir", "d", "", "directory of rule-set files")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
}

// LintResult is the lint outcome for a single rule-set file.
type LintResult struct {
	File     string   `json:"file"`
	Valid    bool     `json:"valid"`
	Findings []string `json:"findings,omitempty"`
}

func lintRuleSets(cmd *cobra.Command, args []string) error {
	if lintFlags.file == "" && lintFlags.dir == "" {
		return fmt.Errorf("either --file or --dir must be specified")
	}

	var files []string
	if lintFlags.file != "" {
		files = append(files, lintFlags.file)
	}
	if lintFlags.dir != "" {
		for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
			matches, err := filepath.Glob(filepath.Join(lintFlags.dir, pattern))
			if err != nil {
				return fmt.Errorf("failed to list rule-set files: %w", err)
			}
			files = append(files, matches...)
		}
	}

	if len(files) == 0 {
		return fmt.Errorf("no rule-set files found")
	}

	results := make([]LintResult, 0, len(files))
	for _, file := range files {
		results = append(results, lintFile(file))
	}

	if lintFlags.format == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(results); err != nil {
			return err
		}
	} else {
		printLintText(results)
	}

	for _, result := range results {
		if !result.Valid {
			return fmt.Errorf("lint failed")
		}
	}
	return nil
}

func lintFile(path string) LintResult {
	result := LintResult{File: path, Valid: true}

	// Quiet logger: parse errors are reported as findings, not log lines.
	fs := source.NewFileSource(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ruleSets, err := fs.LoadRuleSets(context.Background())
	if err != nil {
		result.Valid = false
		result.Findings = append(result.Findings, err.Error())
		return result
	}

	for _, rs := range ruleSets {
		findings := engine.ValidateRuleSet(rs)
		if len(findings) > 0 {
			result.Valid = false
			result.Findings = append(result.Findings, findings...)
		}
	}

	return result
}

func printLintText(results []LintResult) {
	totalFindings := 0

	for _, result := range results {
		fmt.Printf("Validating %s...\n", result.File)

		if result.Valid {
			fmt.Println("✓ Structure valid")
		}
		for _, finding := range result.Findings {
			fmt.Printf("✗ %s\n", finding)
			totalFindings++
		}
		fmt.Println()
	}

	fmt.Println("Summary:")
	fmt.Printf("  %d finding(s) in %d file(s)\n", totalFindings, len(results))
}
