package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
  "type": "object",
  "required": ["lead_id", "sales_lead"],
  "properties": {
    "lead_id": {"type": "string", "minLength": 1},
    "sales_lead": {"type": "object", "minProperties": 1}
  }
}`

func TestSchema_Validate(t *testing.T) {
	schema := MustCompile(testSchema)

	tests := []struct {
		name      string
		doc       map[string]interface{}
		wantValid bool
		wantField string
	}{
		{
			name:      "valid",
			doc:       map[string]interface{}{"lead_id": "lead::1", "sales_lead": map[string]interface{}{"company_name": "Acme"}},
			wantValid: true,
		},
		{
			name:      "missing sales_lead",
			doc:       map[string]interface{}{"lead_id": "lead::1"},
			wantField: "sales_lead",
		},
		{
			name:      "empty lead_id",
			doc:       map[string]interface{}{"lead_id": "", "sales_lead": map[string]interface{}{"a": 1}},
			wantField: "lead_id",
		},
		{
			name:      "empty sales_lead",
			doc:       map[string]interface{}{"lead_id": "7", "sales_lead": map[string]interface{}{}},
			wantField: "sales_lead",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := schema.Validate(tt.doc)
			assert.Equal(t, tt.wantValid, res.Valid, res.GetErrorMessages())
			if tt.wantField != "" {
				assert.True(t, res.HasErrors(tt.wantField), res.GetErrorMessages())
			}
		})
	}
}

func TestSchema_ValidateJSONNumbers(t *testing.T) {
	schema := MustCompile(testSchema)
	doc := map[string]interface{}{
		"lead_id":    "lead::2",
		"sales_lead": map[string]interface{}{"market_cap_usd": json.Number("5000000")},
	}
	assert.True(t, schema.Validate(doc).Valid)
}

func TestCompile_RejectsBadSchema(t *testing.T) {
	_, err := Compile(`{"type": 12}`)
	require.Error(t, err)
}
