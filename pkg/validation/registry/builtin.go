package registry

import (
	"time"

	"github.com/Beyond-Better/bb-validation/pkg/validation/ast"
)

// Built-in rule set ids.
const (
	RuleSetChatInput   = "chat-input"
	RuleSetModelConfig = "model-config"
)

// Built-in context tags.
const (
	ContextChatInput   = "chat_input"
	ContextModelConfig = "model_config"
)

var builtinStamp = time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

// RegisterBuiltins adds the built-in rule sets to the registry.
func RegisterBuiltins(r *Registry) error {
	for _, rs := range Builtins() {
		if err := r.Add(rs); err != nil {
			return err
		}
	}
	return nil
}

// Builtins returns fresh copies of the built-in rule sets.
func Builtins() []*ast.RuleSet {
	return []*ast.RuleSet{chatInputRuleSet(), modelConfigRuleSet()}
}

// chatInputRuleSet validates the chat input form: extended-thinking parameter
// coupling, vision support, and empty-input submission.
func chatInputRuleSet() *ast.RuleSet {
	return &ast.RuleSet{
		ID:          RuleSetChatInput,
		Name:        "Chat Input Validation",
		Description: "Validates chat input parameters against the selected model",
		Version:     "1.0.0",
		Context:     ContextChatInput,
		Metadata: ast.RuleSetMetadata{
			CreatedAt: builtinStamp,
			UpdatedAt: builtinStamp,
			Author:    "Beyond Better",
		},
		Rules: []*ast.Rule{
			{
				ID:          "extended-thinking-temperature",
				Name:        "Extended thinking forces temperature 1.0",
				Description: "Anthropic models require temperature 1.0 when extended thinking is enabled",
				Trigger:     ast.TriggerOnChange,
				Priority:    100,
				Condition: &ast.ConditionNode{
					Logic: ast.LogicAnd,
					Conditions: []*ast.ConditionNode{
						{Field: "model", Operator: ast.OperatorMatches, Value: "claude.*(?:opus|sonnet)"},
						{Field: "parameters.extendedThinking.enabled", Operator: ast.OperatorEquals, Value: true},
					},
				},
				Actions: []*ast.RuleAction{
					{Action: ast.ActionSetValue, Target: "temperature", Value: 1.0},
					{Action: ast.ActionSetConstraint, Target: "temperature", Value: map[string]interface{}{
						"min": 1.0,
						"max": 1.0,
					}},
				},
			},
			{
				ID:       "attachments-require-vision",
				Name:     "Image attachments require vision support",
				Trigger:  ast.TriggerOnChange,
				Priority: 50,
				Condition: &ast.ConditionNode{
					Logic: ast.LogicAnd,
					Conditions: []*ast.ConditionNode{
						{Field: "parameters.attachments.hasImages", Operator: ast.OperatorEquals, Value: true},
						{Field: "modelCapabilities.supportedFeatures.vision", Operator: ast.OperatorEquals, Value: false},
					},
				},
				Actions: []*ast.RuleAction{
					{Action: ast.ActionShowWarning, Target: "attachments",
						Message: "The selected model does not support image input; attached images will be ignored."},
					{Action: ast.ActionDisableFeature, Target: "attachments"},
				},
			},
			{
				ID:       "empty-input-blocks-submit",
				Name:     "Empty input cannot be submitted",
				Trigger:  ast.TriggerOnSubmit,
				Priority: 10,
				Condition: &ast.ConditionNode{
					Field: "parameters.inputLength", Operator: ast.OperatorLessEqual, Value: 0,
				},
				Actions: []*ast.RuleAction{
					{Action: ast.ActionShowError, Target: "input", Blocking: true,
						Message: "Cannot send an empty message."},
				},
			},
		},
	}
}

// modelConfigRuleSet validates the model configuration form: parameter ranges
// and capability gating.
func modelConfigRuleSet() *ast.RuleSet {
	return &ast.RuleSet{
		ID:          RuleSetModelConfig,
		Name:        "Model Config Validation",
		Description: "Validates model configuration parameters",
		Version:     "1.0.0",
		Context:     ContextModelConfig,
		Metadata: ast.RuleSetMetadata{
			CreatedAt: builtinStamp,
			UpdatedAt: builtinStamp,
			Author:    "Beyond Better",
		},
		Rules: []*ast.Rule{
			{
				ID:       "temperature-range",
				Name:     "Temperature must stay within 0..1",
				Trigger:  ast.TriggerOnChange,
				Priority: 100,
				Condition: &ast.ConditionNode{
					Field: "parameters.temperature", Operator: ast.OperatorGreaterThan, Value: 1.0,
				},
				Actions: []*ast.RuleAction{
					{Action: ast.ActionSuggestValue, Target: "temperature", Value: 1.0,
						Message: "Temperature above 1.0 is not supported; 1.0 suggested."},
					{Action: ast.ActionSetConstraint, Target: "temperature", Value: map[string]interface{}{
						"min": 0.0,
						"max": 1.0,
					}},
				},
			},
			{
				ID:       "thinking-requires-capability",
				Name:     "Extended thinking requires model support",
				Trigger:  ast.TriggerOnChange,
				Priority: 90,
				Condition: &ast.ConditionNode{
					Logic: ast.LogicAnd,
					Conditions: []*ast.ConditionNode{
						{Field: "parameters.extendedThinking.enabled", Operator: ast.OperatorEquals, Value: true},
						{Field: "modelCapabilities.supportedFeatures.extendedThinking", Operator: ast.OperatorEquals, Value: false},
					},
				},
				Actions: []*ast.RuleAction{
					{Action: ast.ActionShowError, Target: "extendedThinking",
						Message: "Extended thinking is not supported by the selected model."},
					{Action: ast.ActionDisableFeature, Target: "extendedThinking"},
				},
			},
			{
				ID:       "legacy-model-warning",
				Name:     "Deprecated model warning",
				Trigger:  ast.TriggerOnLoad,
				Priority: 10,
				Condition: &ast.ConditionNode{
					Field:    "model",
					Operator: ast.OperatorIn,
					Value:    []interface{}{"claude-2.0", "claude-2.1", "claude-instant-1.2"},
				},
				Actions: []*ast.RuleAction{
					{Action: ast.ActionShowWarning, Target: "model",
						Message: "This model is deprecated; choose a newer model for best results."},
				},
			},
		},
	}
}
