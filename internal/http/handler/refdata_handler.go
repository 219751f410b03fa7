package handler

import (
	"net/http"

	"github.com/cotiza-app/quote-gateway/internal/domain"
	"github.com/cotiza-app/quote-gateway/internal/refdata"
	"go.uber.org/zap"
)

// RefdataHandler serves the cached reference data and manual reloads.
type RefdataHandler struct {
	cache  *refdata.Cache
	logger *zap.Logger
}

// NewRefdataHandler creates a new RefdataHandler.
func NewRefdataHandler(cache *refdata.Cache, logger *zap.Logger) *RefdataHandler {
	return &RefdataHandler{cache: cache, logger: logger}
}

// Get returns the cached snapshot. Before the first successful load the
// lists are empty and loadedAt is absent, which the UI renders as "loading".
func (h *RefdataHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.view())
}

// Refresh reloads the reference data from the backend. On failure the stale
// snapshot stays in place and a 502 tells the UI the reload did not happen.
func (h *RefdataHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.Reload(r.Context()); err != nil {
		respondWithError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, h.view())
}

func (h *RefdataHandler) view() domain.ReferenceDataView {
	view := domain.ReferenceDataView{
		Clients:   []domain.Client{},
		Items:     []domain.ItemView{},
		ItemTypes: []domain.ItemType{},
	}

	data, loadedAt, ok := h.cache.Snapshot()
	if !ok {
		return view
	}

	view.Clients = data.Clients
	view.ItemTypes = data.ItemTypes
	for _, it := range data.Items {
		view.Items = append(view.Items, domain.ViewItem(it))
	}
	view.LoadedAt = &loadedAt
	return view
}
