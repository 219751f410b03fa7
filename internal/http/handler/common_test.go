package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cotiza-app/quote-gateway/internal/domain"
	"github.com/cotiza-app/quote-gateway/internal/editor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondEditorError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"unknown row", editor.ErrUnknownRow, http.StatusNotFound},
		{"invalid reference", editor.ErrInvalidReference, http.StatusBadRequest},
		{"invalid quantity", editor.ErrInvalidQuantity, http.StatusBadRequest},
		{"missing client", editor.ErrMissingClient, http.StatusUnprocessableEntity},
		{"empty draft", editor.ErrEmptyDraft, http.StatusUnprocessableEntity},
		{"incomplete rows", editor.ErrIncompleteRows, http.StatusUnprocessableEntity},
		{"already submitting", editor.ErrAlreadySubmitting, http.StatusConflict},
		{"submit failed", editor.ErrSubmitFailed, http.StatusBadGateway},
		{"anything else", fmt.Errorf("surprise"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondEditorError(rec, tc.err)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var apiErr domain.APIError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
			assert.Equal(t, tc.status, apiErr.Status)
			assert.NotEmpty(t, apiErr.Detail)
		})
	}

	t.Run("wrapped errors keep their mapping", func(t *testing.T) {
		rec := httptest.NewRecorder()
		respondEditorError(rec, fmt.Errorf("%w: row 2 has no item selected", editor.ErrIncompleteRows))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestToJSONFieldName(t *testing.T) {
	assert.Equal(t, "clientId", toJSONFieldName("ClientId"))
	assert.Equal(t, "name", toJSONFieldName("Name"))
	assert.Equal(t, "", toJSONFieldName(""))
}
