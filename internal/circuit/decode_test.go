package circuit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRequest(t *testing.T) {
	req, err := DecodeRequest([]byte(`{"qubit_count":2,"program":[{"gate":"h","target":1}]}`))
	require.NoError(t, err)
	assert.Equal(t, 2, req.QubitCount)
	require.Len(t, req.Program, 1)
	assert.Equal(t, 1, *req.Program[0].Target)

	req, err = DecodeRequest([]byte(`{"qubit_count":1,"program":[]}`))
	require.NoError(t, err)
	assert.Empty(t, req.Program)
}

func TestDecodeRequestRejects(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		field   string
		wantMsg string
	}{
		{"missing program", `{"qubit_count":1}`, "program", "program is required"},
		{"null program", `{"qubit_count":1,"program":null}`, "program", "program is required"},
		{"missing qubit_count", `{"program":[]}`, "qubit_count", "qubit_count is required"},
		{"empty object", `{}`, "qubit_count", "qubit_count is required"},
		{"malformed", `{"qubit_count":`, "body", ""},
		{"wrong type", `{"qubit_count":"two","program":[]}`, "body", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRequest([]byte(tt.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSchema)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, -1, verr.Step)
			assert.Equal(t, tt.field, verr.Field)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, err.Error())
			} else {
				assert.Contains(t, err.Error(), "invalid request body")
			}
		})
	}
}
