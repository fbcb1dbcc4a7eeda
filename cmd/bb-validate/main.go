// bb-validate is a command-line tool for working with validation rule sets.
//
// It evaluates rule sets against parameter contexts and lints rule-set files:
//   - Validate rule-set files before shipping them
//   - Evaluate a rule set against a model/parameter context from the shell
//   - Inspect the built-in rule sets
//
// Usage:
//
//	# Lint rule-set files
//	bb-validate lint --file rules.yaml
//	bb-validate lint --dir rules/
//
//	# Evaluate a rule set against a context
//	bb-validate eval --rules rules/ --rule-set chat-input \
//	    --model claude-sonnet-4 --trigger on_change \
//	    --params '{"temperature":0.7}'
//
//	# Show version information
//	bb-validate version
package main

func main() {
	Execute()
}
