package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xpay "github.com/xpaysh/xpay-go"
	"github.com/xpaysh/xpay-go/types"
)

func TestFromFields(t *testing.T) {
	fields := []xpay.CheckoutField{
		{Name: "topic", Type: xpay.FieldTypeText, Label: "Research topic", Required: true},
		{Name: "depth", Type: xpay.FieldTypeSelect, Options: []string{"quick", "thorough"}},
		{Name: "email", Type: xpay.FieldTypeEmail, Required: true},
		{Name: "pages", Type: xpay.FieldTypeNumber},
		{Name: "cite", Type: xpay.FieldTypeBoolean},
	}

	compiled, err := FromFields(fields)
	require.NoError(t, err)
	assert.Equal(t, "object", compiled["type"])
	assert.ElementsMatch(t, []string{"topic", "email"}, compiled["required"])

	properties := compiled["properties"].(map[string]interface{})
	topic := properties["topic"].(map[string]interface{})
	assert.Equal(t, "string", topic["type"])
	assert.Equal(t, "Research topic", topic["description"])

	depth := properties["depth"].(map[string]interface{})
	assert.Equal(t, []interface{}{"quick", "thorough"}, depth["enum"])

	email := properties["email"].(map[string]interface{})
	assert.Equal(t, "email", email["format"])

	assert.Equal(t, "number", properties["pages"].(map[string]interface{})["type"])
	assert.Equal(t, "boolean", properties["cite"].(map[string]interface{})["type"])
}

func TestFromFieldsRejectsBadDefinitions(t *testing.T) {
	_, err := FromFields([]xpay.CheckoutField{{Type: xpay.FieldTypeText}})
	assert.Error(t, err, "missing name")

	_, err = FromFields([]xpay.CheckoutField{
		{Name: "topic", Type: xpay.FieldTypeText},
		{Name: "topic", Type: xpay.FieldTypeNumber},
	})
	assert.Error(t, err, "duplicate name")

	_, err = FromFields([]xpay.CheckoutField{{Name: "x", Type: "date"}})
	assert.Error(t, err, "unknown type")
}

func TestValidateInputs(t *testing.T) {
	schema := json.RawMessage(`{
		"type": "object",
		"properties": {
			"topic": {"type": "string"},
			"pages": {"type": "number"}
		},
		"required": ["topic"]
	}`)

	result := ValidateInputs(schema, map[string]interface{}{"topic": "golang", "pages": 3})
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)

	result = ValidateInputs(schema, map[string]interface{}{"pages": 3})
	assert.False(t, result.Valid, "missing required property")
	assert.NotEmpty(t, result.Errors)

	result = ValidateInputs(schema, map[string]interface{}{"topic": 42})
	assert.False(t, result.Valid, "wrong property type")
}

func TestValidateInputsEmptySchemaAcceptsEverything(t *testing.T) {
	assert.True(t, ValidateInputs(nil, map[string]interface{}{"anything": true}).Valid)
	assert.True(t, ValidateInputs(json.RawMessage{}, nil).Valid)
}

func TestValidateAgentInputs(t *testing.T) {
	agent := &types.Agent{
		Slug:        "research-agent",
		InputSchema: json.RawMessage(`{"type":"object","required":["topic"]}`),
	}

	assert.True(t, ValidateAgentInputs(agent, map[string]interface{}{"topic": "x"}).Valid)
	assert.False(t, ValidateAgentInputs(agent, map[string]interface{}{}).Valid)
	assert.True(t, ValidateAgentInputs(nil, nil).Valid)
	assert.True(t, ValidateAgentInputs(&types.Agent{Slug: "no-schema"}, nil).Valid)
}

func TestValidateFieldInputs(t *testing.T) {
	fields := []xpay.CheckoutField{
		{Name: "topic", Type: xpay.FieldTypeText, Required: true},
		{Name: "depth", Type: xpay.FieldTypeSelect, Options: []string{"quick", "thorough"}},
	}

	result, err := ValidateFieldInputs(fields, map[string]interface{}{"topic": "golang", "depth": "quick"})
	require.NoError(t, err)
	assert.True(t, result.Valid)

	result, err = ValidateFieldInputs(fields, map[string]interface{}{"depth": "sideways"})
	require.NoError(t, err)
	assert.False(t, result.Valid)
}
