package handler

import (
	"io"
	"net/http"

	"github.com/cotiza-app/quote-gateway/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// QuotationHandler serves the quotation history: listing, search, detail and
// the PDF relay.
type QuotationHandler struct {
	quotations *service.QuotationService
	logger     *zap.Logger
}

// NewQuotationHandler creates a new QuotationHandler.
func NewQuotationHandler(quotations *service.QuotationService, logger *zap.Logger) *QuotationHandler {
	return &QuotationHandler{quotations: quotations, logger: logger}
}

// List returns the quotation history, filtered by the optional q parameter
// over id, client name, date and total.
func (h *QuotationHandler) List(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.quotations.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.logger.Error("failed to list quotations", zap.Error(err))
		respondBackendError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"quotations": summaries,
	})
}

// GetByID returns one stored quotation.
func (h *QuotationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	detail, err := h.quotations.Detail(r.Context(), id)
	if err != nil {
		respondBackendError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

// DownloadPDF relays the backend's rendered PDF with a download disposition,
// the same behavior as the original's blob download link.
func (h *QuotationHandler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	body, err := h.quotations.PDF(r.Context(), id)
	if err != nil {
		respondBackendError(w, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="cotizacion_`+id+`.pdf"`)
	if _, err := io.Copy(w, body); err != nil {
		// Headers are already out; all we can do is log the broken stream.
		h.logger.Warn("pdf relay interrupted",
			zap.String("quotation_id", id),
			zap.Error(err),
		)
	}
}
