package handler

import (
	"encoding/json"
	"net/http"

	"github.com/cotiza-app/quote-gateway/internal/domain"
	"github.com/cotiza-app/quote-gateway/internal/editor"
	"github.com/cotiza-app/quote-gateway/internal/logger"
	"github.com/cotiza-app/quote-gateway/internal/refdata"
	"github.com/cotiza-app/quote-gateway/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DraftHandler translates UI events on a quotation draft into calls on its
// editor controller and renders the resulting state back as JSON.
type DraftHandler struct {
	manager    *editor.Manager
	quotations *service.QuotationService
	cache      *refdata.Cache
	logger     *zap.Logger
}

// NewDraftHandler creates a new DraftHandler.
func NewDraftHandler(manager *editor.Manager, quotations *service.QuotationService, cache *refdata.Cache, logger *zap.Logger) *DraftHandler {
	return &DraftHandler{
		manager:    manager,
		quotations: quotations,
		cache:      cache,
		logger:     logger,
	}
}

// draft resolves the controller for the draft id in the URL, or responds 404.
func (h *DraftHandler) draft(w http.ResponseWriter, r *http.Request) (*editor.Controller, bool) {
	id := chi.URLParam(r, "id")
	c, ok := h.manager.Get(id)
	if !ok {
		respondWithError(w, http.StatusNotFound, "draft not found: "+id)
		return nil, false
	}
	return c, true
}

func (h *DraftHandler) respondDraft(w http.ResponseWriter, status int, c *editor.Controller) {
	respondJSON(w, status, draftView(c.Snapshot(), h.cache))
}

// Create starts a new draft session with one blank row.
func (h *DraftHandler) Create(w http.ResponseWriter, r *http.Request) {
	c := h.manager.Create()
	h.respondDraft(w, http.StatusCreated, c)
}

// Get returns the current draft state with freshly aggregated totals.
func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := h.draft(w, r)
	if !ok {
		return
	}
	h.respondDraft(w, http.StatusOK, c)
}

// Delete discards a draft session.
func (h *DraftHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.manager.Remove(id) {
		respondWithError(w, http.StatusNotFound, "draft not found: "+id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reset discards the draft contents and starts over empty.
func (h *DraftHandler) Reset(w http.ResponseWriter, r *http.Request) {
	c, ok := h.draft(w, r)
	if !ok {
		return
	}
	c.Reset()
	h.respondDraft(w, http.StatusOK, c)
}

// SetClient binds the draft to a client.
func (h *DraftHandler) SetClient(w http.ResponseWriter, r *http.Request) {
	c, ok := h.draft(w, r)
	if !ok {
		return
	}

	var req domain.SetClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	if err := c.SetClient(req.ClientID); err != nil {
		respondEditorError(w, err)
		return
	}
	h.respondDraft(w, http.StatusOK, c)
}

// AddRow appends a blank row to the draft.
func (h *DraftHandler) AddRow(w http.ResponseWriter, r *http.Request) {
	c, ok := h.draft(w, r)
	if !ok {
		return
	}
	c.AddRow()
	h.respondDraft(w, http.StatusCreated, c)
}

// RemoveRow removes a row. Removing an already-removed row is a no-op, so a
// double click never errors.
func (h *DraftHandler) RemoveRow(w http.ResponseWriter, r *http.Request) {
	c, ok := h.draft(w, r)
	if !ok {
		return
	}
	c.RemoveRow(chi.URLParam(r, "rowID"))
	h.respondDraft(w, http.StatusOK, c)
}

// SetSelection points a row at a catalog item.
func (h *DraftHandler) SetSelection(w http.ResponseWriter, r *http.Request) {
	c, ok := h.draft(w, r)
	if !ok {
		return
	}

	var req domain.SetSelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	if err := c.SetSelection(chi.URLParam(r, "rowID"), req.ItemID); err != nil {
		respondEditorError(w, err)
		return
	}
	h.respondDraft(w, http.StatusOK, c)
}

// SetQuantity updates a row's quantity.
func (h *DraftHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	c, ok := h.draft(w, r)
	if !ok {
		return
	}

	var req domain.SetQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Non-integer quantities fail JSON decoding into the int field
		// and are rejected here, before the editor sees them.
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := c.SetQuantity(chi.URLParam(r, "rowID"), req.Quantity); err != nil {
		respondEditorError(w, err)
		return
	}
	h.respondDraft(w, http.StatusOK, c)
}

// Submit validates and submits the draft to the backend. On success the
// response carries the new quotation id, the stored quotation for display,
// and the reset draft state.
func (h *DraftHandler) Submit(w http.ResponseWriter, r *http.Request) {
	c, ok := h.draft(w, r)
	if !ok {
		return
	}

	resp, err := h.quotations.SubmitDraft(r.Context(), c)
	if err != nil {
		logger.WithDraft(h.logger, c.ID()).Warn("draft submission rejected", zap.Error(err))
		respondEditorError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, struct {
		domain.SubmitResponse
		Draft domain.DraftView `json:"draft"`
	}{
		SubmitResponse: *resp,
		Draft:          draftView(c.Snapshot(), h.cache),
	})
}
