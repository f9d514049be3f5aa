package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "ahwr/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		status      int
		code        string
		description string
	}{
		{"validation shows its message", dErrors.New(dErrors.CodeValidation, "requestedDate must be YYYY-MM-DD"), http.StatusBadRequest, "validation_error", "requestedDate must be YYYY-MM-DD"},
		{"forbidden", dErrors.New(dErrors.CodeForbidden, "missing scope"), http.StatusForbidden, "forbidden", "missing scope"},
		{"unavailable hides its message", dErrors.New(dErrors.CodeUnavailable, "messages down"), http.StatusServiceUnavailable, "unavailable", ""},
		{"internal hides its message", dErrors.New(dErrors.CodeInternal, "ledger write failed"), http.StatusInternalServerError, "internal_error", ""},
		{"uncoded is internal", errors.New("boom"), http.StatusInternalServerError, "internal_error", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body map[string]string
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.code, body["error"])
			assert.Equal(t, tt.description, body["error_description"])
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type runRequest struct {
		RequestedDate string `json:"requestedDate"`
	}

	got, err := DecodeJSON[runRequest](httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"requestedDate":"2025-08-05"}`)))
	require.NoError(t, err)
	assert.Equal(t, "2025-08-05", got.RequestedDate)

	_, err = DecodeJSON[runRequest](httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"date":"2025-08-05"}`)))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))

	_, err = DecodeJSON[runRequest](httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`)))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}
