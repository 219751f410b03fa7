package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cotiza-app/quote-gateway/internal/backend"
	"github.com/cotiza-app/quote-gateway/internal/domain"
	"github.com/cotiza-app/quote-gateway/internal/editor"
	"github.com/cotiza-app/quote-gateway/internal/refdata"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondWithError sends a standardized JSON error response
func respondWithError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.APIError{
		Type:   getErrorType(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: message,
	})
}

// respondValidationError sends a standardized validation error response with
// specific field messages
func respondValidationError(w http.ResponseWriter, err error) {
	fields := make(map[string]string)
	if ve, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range ve {
			fields[toJSONFieldName(fe.Field())] = formatValidationError(fe)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(domain.APIError{
		Type:   domain.ErrorTypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
		Detail: "One or more fields failed validation",
		Errors: fields,
	})
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", toJSONFieldName(fe.Field()))
	case "email":
		return "Must be a valid email address"
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	default:
		return domain.GetValidationMessage(fe.Tag())
	}
}

// toJSONFieldName converts a Go struct field name to its JSON equivalent (camelCase)
func toJSONFieldName(field string) string {
	if len(field) == 0 {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// getErrorType returns the appropriate error type for an HTTP status code
func getErrorType(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.ErrorTypeBadRequest
	case http.StatusNotFound:
		return domain.ErrorTypeNotFound
	case http.StatusConflict:
		return domain.ErrorTypeConflict
	case http.StatusBadGateway:
		return domain.ErrorTypeUpstream
	default:
		return domain.ErrorTypeInternal
	}
}

// respondEditorError maps editing and submission errors onto HTTP statuses:
// bad references and quantities are mutation-boundary 400s, submit-time
// validation is 422, the submitting guard is a conflict, and transport
// failures surface as 502 so the UI can offer a retry.
func respondEditorError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, editor.ErrUnknownRow):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, editor.ErrInvalidReference), errors.Is(err, editor.ErrInvalidQuantity):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, editor.ErrMissingClient), errors.Is(err, editor.ErrEmptyDraft), errors.Is(err, editor.ErrIncompleteRows):
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, editor.ErrAlreadySubmitting):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, editor.ErrSubmitFailed):
		respondWithError(w, http.StatusBadGateway, err.Error())
	default:
		respondWithError(w, http.StatusInternalServerError, err.Error())
	}
}

// respondBackendError maps backend client errors onto HTTP statuses.
func respondBackendError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, backend.ErrNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	default:
		respondWithError(w, http.StatusBadGateway, err.Error())
	}
}

// draftView renders a draft snapshot for the UI, resolving names and line
// totals from the reference data cache.
func draftView(snap editor.Snapshot, cache *refdata.Cache) domain.DraftView {
	view := domain.DraftView{
		ID:       snap.ID,
		ClientID: snap.ClientID,
		State:    string(snap.State),
		Rows:     make([]domain.RowView, 0, len(snap.Rows)),
		Total:    snap.Totals.GrandTotalFixed(),
	}
	if snap.ClientID != "" {
		if cl, ok := cache.Client(snap.ClientID); ok {
			view.ClientName = cl.Name
		}
	}

	lines := make(map[string]editor.LineTotal, len(snap.Totals.Lines))
	for _, line := range snap.Totals.Lines {
		lines[line.RowID] = line
	}

	for _, row := range snap.Rows {
		rv := domain.RowView{
			ID:        row.ID,
			ItemID:    row.ItemID,
			Quantity:  row.Quantity,
			LineTotal: "0.00",
		}
		if line, ok := lines[row.ID]; ok {
			rv.ItemName = line.ItemName
			rv.UnitPrice = line.UnitPrice.StringFixed(2)
			rv.LineTotal = line.Total.StringFixed(2)
		}
		view.Rows = append(view.Rows, rv)
	}
	return view
}
