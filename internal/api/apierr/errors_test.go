package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/nickchat/internal/model"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"player not found", model.ErrPlayerNotFound, http.StatusNotFound, CodePlayerNotFound, "Player not found"},
		{"wrapped not found", fmt.Errorf("lookup: %w", model.ErrPlayerNotFound), http.StatusNotFound, CodePlayerNotFound, "Player not found"},
		{"nick required", model.ErrNickRequired, http.StatusBadRequest, CodeInvalidRequest, "Missing 'nick' in JSON body"},
		{"name required", model.ErrNameRequired, http.StatusBadRequest, CodeInvalidRequest, "Missing 'name' query parameter"},
		{"message fields", model.ErrMessageFieldsRequired, http.StatusBadRequest, CodeInvalidRequest, "Missing 'nick' or 'message_text' in JSON body"},
		{"missing auth", NewMissingAuthError(), http.StatusUnauthorized, CodeUnauthorized, "Missing Authorization Header"},
		{"invalid key", NewInvalidAPIKeyError(), http.StatusUnauthorized, CodeUnauthorized, "Invalid API Key"},
		{"storage error", errors.New("get nick: database is locked"), http.StatusInternalServerError, CodeInternalError, "get nick: database is locked"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantMsg, body.Error)
			assert.Equal(t, tt.wantStatus, Status(tt.err))
		})
	}
}

func TestInvalidRangeKeepsReason(t *testing.T) {
	_, err := model.ParseMessageRange("5", "3")
	require.Error(t, err)

	rec := httptest.NewRecorder()
	WriteError(rec, err)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body.Error, "start_id must be less than or equal to end_id")
}
