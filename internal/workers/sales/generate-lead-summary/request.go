package generateleadsummary

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"lead-summarizer/internal/common/errors"
	"lead-summarizer/internal/common/validation"
)

// MissingFieldsMessage is the error text for a request without lead_id or sales_lead.
const MissingFieldsMessage = "Missing lead_id or sales_lead"

var requestSchema = validation.MustCompile(`{
  "type": "object",
  "required": ["lead_id", "sales_lead"],
  "properties": {
    "lead_id": {"type": "string", "minLength": 1},
    "sales_lead": {"type": "object", "minProperties": 1}
  }
}`)

// ParseRequest decodes and validates a request body. Missing or empty
// lead_id/sales_lead is a validation error; anything unparseable, including
// a malformed old_data, is an internal error.
func ParseRequest(body []byte) (*Input, error) {
	var raw map[string]interface{}
	if err := decodeNumbers(body, &raw); err != nil {
		return nil, errors.NewInternalError(err)
	}
	if raw == nil {
		return nil, errors.NewInternalError(stderrors.New("request body must be a JSON object"))
	}

	if res := requestSchema.Validate(raw); !res.Valid {
		vErr := errors.NewValidationError(MissingFieldsMessage)
		vErr.Metadata = map[string]interface{}{"violations": res.GetErrorMessages()}
		return nil, vErr
	}

	var input Input
	if err := decodeNumbers(body, &input); err != nil {
		return nil, errors.NewInternalError(err)
	}
	return &input, nil
}

func decodeNumbers(body []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
