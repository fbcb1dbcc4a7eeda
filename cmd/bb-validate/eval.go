package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Beyond-Better/bb-validation/pkg/validation/ast"
	"github.com/Beyond-Better/bb-validation/pkg/validation/engine"
	"github.com/Beyond-Better/bb-validation/pkg/validation/manager"
	"github.com/Beyond-Better/bb-validation/pkg/validation/registry"
	"github.com/Beyond-Better/bb-validation/pkg/validation/source"
)

var evalFlags struct {
	rules        string
	builtins     bool
	ruleSet      string
	contextTag   string
	model        string
	capabilities string
	params       string
	trigger      string
}

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate rule sets against a context",
	Long: `Evaluate rule sets against a model/parameter context and print the result.

The context is assembled from --model, --capabilities, and --params. Either
--rule-set (a single rule set by id) or --context (every rule set with a
context tag) selects what to evaluate.

Examples:
  # Evaluate the built-in chat-input rule set
  bb-validate eval --builtins --rule-set chat-input \
      --model claude-sonnet-4 --trigger on_change \
      --params '{"temperature":0.7,"extendedThinking":{"enabled":true}}'

  # Evaluate rule sets loaded from a directory, by context tag
  bb-validate eval --rules rules/ --context chat_input \
      --model gpt-4o --trigger on_submit --params '{"inputLength":0}'`,
	RunE: evalRuleSets,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringVarP(&evalFlags.rules, "rules", "r", "", "rule-set file or directory to load")
	evalCmd.Flags().BoolVar(&evalFlags.builtins, "builtins", false, "include the built-in rule sets")
	evalCmd.Flags().StringVar(&evalFlags.ruleSet, "rule-set", "", "rule-set id to evaluate")
	evalCmd.Flags().StringVar(&evalFlags.contextTag, "context", "", "evaluate all rule sets with this context tag")
	evalCmd.Flags().StringVarP(&evalFlags.model, "model", "m", "", "model identifier")
	evalCmd.Flags().StringVar(&evalFlags.capabilities, "capabilities", "", "model capabilities as JSON")
	evalCmd.Flags().StringVarP(&evalFlags.params, "params", "p", "", "parameters as JSON")
	evalCmd.Flags().StringVarP(&evalFlags.trigger, "trigger", "t", string(ast.TriggerOnChange), "trigger: on_load, on_change, on_submit")
}

func evalRuleSets(cmd *cobra.Command, args []string) error {
	if evalFlags.ruleSet == "" && evalFlags.contextTag == "" {
		return fmt.Errorf("either --rule-set or --context must be specified")
	}
	if evalFlags.rules == "" && !evalFlags.builtins {
		return fmt.Errorf("no rule sets to load: specify --rules and/or --builtins")
	}

	trigger := ast.Trigger(evalFlags.trigger)
	if !ast.IsKnownTrigger(trigger) {
		return fmt.Errorf("unknown trigger %q", evalFlags.trigger)
	}

	capabilities, err := parseJSONObject(evalFlags.capabilities, "capabilities")
	if err != nil {
		return err
	}
	params, err := parseJSONObject(evalFlags.params, "params")
	if err != nil {
		return err
	}

	ctx := context.Background()
	logger := slog.Default()

	reg := registry.New(logger)
	if evalFlags.builtins {
		if err := registry.RegisterBuiltins(reg); err != nil {
			return fmt.Errorf("failed to register built-in rule sets: %w", err)
		}
	}

	if evalFlags.rules != "" {
		mgrConfig := manager.DefaultConfig()
		mgrConfig.WatchFiles = false

		mgr, err := manager.New(mgrConfig, reg, logger, source.NewFileSource(evalFlags.rules, logger))
		if err != nil {
			return err
		}
		if _, err := mgr.LoadAll(ctx); err != nil {
			return err
		}
	}

	eng, err := engine.New(engine.DefaultConfig().WithDebug(verbose), reg, logger)
	if err != nil {
		return err
	}

	var results []*engine.Result
	if evalFlags.ruleSet != "" {
		result, err := eng.Evaluate(evalFlags.ruleSet, evalFlags.model, capabilities, params, trigger, nil)
		if err != nil {
			return err
		}
		results = []*engine.Result{result}
	} else {
		results, err = eng.EvaluateByContext(evalFlags.contextTag, evalFlags.model, capabilities, params, trigger, nil)
		if err != nil {
			return err
		}
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(results); err != nil {
		return err
	}

	for _, result := range results {
		if !result.Valid {
			return fmt.Errorf("validation failed")
		}
	}
	return nil
}

// parseJSONObject decodes a JSON object flag value; empty input yields an
// empty map.
func parseJSONObject(raw, name string) (map[string]interface{}, error) {
	if raw == "" {
		return map[string]interface{}{}, nil
	}

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil, fmt.Errorf("invalid --%s JSON: %w", name, err)
	}
	return obj, nil
}
