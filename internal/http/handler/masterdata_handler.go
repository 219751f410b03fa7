package handler

import (
	"encoding/json"
	"net/http"

	"github.com/cotiza-app/quote-gateway/internal/domain"
	"github.com/cotiza-app/quote-gateway/internal/service"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MasterDataHandler serves the client/item management forms.
type MasterDataHandler struct {
	masterData *service.MasterDataService
	logger     *zap.Logger
}

// NewMasterDataHandler creates a new MasterDataHandler.
func NewMasterDataHandler(masterData *service.MasterDataService, logger *zap.Logger) *MasterDataHandler {
	return &MasterDataHandler{masterData: masterData, logger: logger}
}

// CreateClient creates a customer in the backend master data.
func (h *MasterDataHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	created, err := h.masterData.CreateClient(r.Context(), req)
	if err != nil {
		h.logger.Error("failed to create client", zap.Error(err))
		respondBackendError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// CreateItem creates a catalog item in the backend master data.
func (h *MasterDataHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}
	if price, err := decimal.NewFromString(req.UnitPrice); err != nil || price.IsNegative() {
		respondWithError(w, http.StatusBadRequest, "unitPrice must be a non-negative decimal")
		return
	}

	created, err := h.masterData.CreateItem(r.Context(), req)
	if err != nil {
		h.logger.Error("failed to create item", zap.Error(err))
		respondBackendError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, domain.ViewItem(created))
}
