package validation

import (
	"testing"

	"loan-journey-workers/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry() *registry.ActivityRegistry {
	return &registry.ActivityRegistry{Activities: []registry.Activity{
		{
			ID:       "journey.identity.verify-pan",
			TaskType: "verify-pan",
			InputSchema: map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"applicationId", "pan"},
				"properties": map[string]interface{}{
					"applicationId": map[string]interface{}{"type": "string", "minLength": 1},
					"pan":           map[string]interface{}{"type": "string"},
				},
			},
		},
		{ID: "journey.misc.free", TaskType: "free"},
	}}
}

func TestSchemaSet_ValidateInput(t *testing.T) {
	set, err := NewSchemaSet(testRegistry())
	require.NoError(t, err)

	tests := []struct {
		name      string
		taskType  string
		variables string
		valid     bool
		field     string
	}{
		{"valid", "verify-pan", `{"applicationId":"a1","pan":"ABCDE1234F"}`, true, ""},
		{"missing pan", "verify-pan", `{"applicationId":"a1"}`, false, "(root)"},
		{"wrong type", "verify-pan", `{"applicationId":"a1","pan":42}`, false, "pan"},
		{"empty id", "verify-pan", `{"applicationId":"","pan":"x"}`, false, "applicationId"},
		{"no schema", "free", `{"anything":true}`, true, ""},
		{"unknown task", "other", `{}`, true, ""},
		{"malformed", "verify-pan", `{`, false, "(root)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := set.ValidateInput(tt.taskType, tt.variables)
			assert.Equal(t, tt.valid, res.Valid)
			if tt.valid {
				assert.NoError(t, res.Err())
				return
			}
			assert.Error(t, res.Err())
			assert.True(t, res.HasErrors(tt.field), "errors: %v", res.GetErrorMessages())
		})
	}
}

func TestNewSchemaSet_BadSchema(t *testing.T) {
	reg := &registry.ActivityRegistry{Activities: []registry.Activity{{
		TaskType:    "broken",
		InputSchema: map[string]interface{}{"type": 12},
	}}}
	_, err := NewSchemaSet(reg)
	assert.Error(t, err)
}

func TestNilSchemaSet(t *testing.T) {
	var set *SchemaSet
	assert.True(t, set.ValidateInput("x", "{").Valid)
}
