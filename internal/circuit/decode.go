package circuit

import (
	"encoding/json"
)

// wireRequest is the JSON shape of a request with presence tracking on the
// required top-level fields.
type wireRequest struct {
	QubitCount *int        `json:"qubit_count"`
	Program    *[]GateSpec `json:"program"`
}

// DecodeRequest parses a JSON request body. Malformed JSON and missing or
// null required fields are reported as ErrSchema with Step -1.
func DecodeRequest(data []byte) (Request, error) {
	var raw wireRequest
	if err := json.Unmarshal(data, &raw); err != nil {
		return Request{}, &ValidationError{
			Kind:  ErrSchema,
			Step:  -1,
			Field: "body",
			Msg:   "invalid request body: " + err.Error(),
		}
	}
	if raw.QubitCount == nil {
		return Request{}, requiredError("qubit_count")
	}
	if raw.Program == nil {
		return Request{}, requiredError("program")
	}
	return Request{QubitCount: *raw.QubitCount, Program: *raw.Program}, nil
}

func requiredError(field string) *ValidationError {
	return &ValidationError{Kind: ErrSchema, Step: -1, Field: field, Msg: field + " is required"}
}
