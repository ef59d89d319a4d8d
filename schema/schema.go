// Package schema compiles checkout form field definitions into JSON
// Schema and validates run inputs against agent input schemas.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	xpay "github.com/xpaysh/xpay-go"
	"github.com/xpaysh/xpay-go/types"
)

// ValidationResult represents the result of validating a document
// against a JSON Schema.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// FromFields compiles checkout field definitions into a JSON Schema
// object describing the customer-supplied input map.
//
// The produced schema is the one the payment service applies to the
// hosted checkout form, so hosts can validate webhook input payloads
// against the same rules they registered.
func FromFields(fields []xpay.CheckoutField) (map[string]interface{}, error) {
	properties := make(map[string]interface{}, len(fields))
	var required []string

	for _, field := range fields {
		if field.Name == "" {
			return nil, xpay.NewError(xpay.ErrCodeInvalidConfig, "field name is required", nil)
		}
		if _, dup := properties[field.Name]; dup {
			return nil, xpay.NewError(xpay.ErrCodeInvalidConfig,
				fmt.Sprintf("duplicate field name %q", field.Name), nil)
		}

		prop := map[string]interface{}{}
		switch field.Type {
		case xpay.FieldTypeText, xpay.FieldTypeTextarea:
			prop["type"] = "string"
		case xpay.FieldTypeEmail:
			prop["type"] = "string"
			prop["format"] = "email"
		case xpay.FieldTypeNumber:
			prop["type"] = "number"
		case xpay.FieldTypeBoolean:
			prop["type"] = "boolean"
		case xpay.FieldTypeSelect:
			prop["type"] = "string"
			if len(field.Options) > 0 {
				enum := make([]interface{}, len(field.Options))
				for i, opt := range field.Options {
					enum[i] = opt
				}
				prop["enum"] = enum
			}
		default:
			return nil, xpay.NewError(xpay.ErrCodeInvalidConfig,
				fmt.Sprintf("unknown field type %q for field %q", field.Type, field.Name), nil)
		}

		if field.Label != "" {
			prop["description"] = field.Label
		}

		properties[field.Name] = prop
		if field.Required {
			required = append(required, field.Name)
		}
	}

	schema := map[string]interface{}{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": true,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema, nil
}

// ValidateInputs validates an input document against a JSON Schema.
//
// A nil or empty schema accepts every document, matching agents that
// publish no input schema.
func ValidateInputs(schema json.RawMessage, inputs map[string]interface{}) ValidationResult {
	if len(schema) == 0 {
		return ValidationResult{Valid: true}
	}

	if inputs == nil {
		inputs = map[string]interface{}{}
	}
	inputJSON, err := json.Marshal(inputs)
	if err != nil {
		return ValidationResult{
			Valid:  false,
			Errors: []string{fmt.Sprintf("failed to marshal inputs: %v", err)},
		}
	}

	schemaLoader := gojsonschema.NewBytesLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(inputJSON)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return ValidationResult{
			Valid:  false,
			Errors: []string{fmt.Sprintf("schema validation failed: %v", err)},
		}
	}

	if result.Valid() {
		return ValidationResult{Valid: true}
	}

	var errors []string
	for _, desc := range result.Errors() {
		errors = append(errors, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return ValidationResult{Valid: false, Errors: errors}
}

// ValidateAgentInputs validates a run's inputs against the agent's
// published input schema.
func ValidateAgentInputs(agent *types.Agent, inputs map[string]interface{}) ValidationResult {
	if agent == nil {
		return ValidationResult{Valid: true}
	}
	return ValidateInputs(agent.InputSchema, inputs)
}

// ValidateFieldInputs compiles field definitions and validates an input
// map against them in one step.
func ValidateFieldInputs(fields []xpay.CheckoutField, inputs map[string]interface{}) (ValidationResult, error) {
	compiled, err := FromFields(fields)
	if err != nil {
		return ValidationResult{}, err
	}
	raw, err := json.Marshal(compiled)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return ValidateInputs(raw, inputs), nil
}
