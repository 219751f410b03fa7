package router

import (
	"net/http"

	"github.com/cotiza-app/quote-gateway/internal/config"
	"github.com/cotiza-app/quote-gateway/internal/http/handler"
	"github.com/cotiza-app/quote-gateway/internal/http/middleware"
	"github.com/cotiza-app/quote-gateway/internal/refdata"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Router struct {
	cfg               *config.Config
	logger            *zap.Logger
	cache             *refdata.Cache
	rateLimiter       *middleware.RateLimiter
	draftHandler      *handler.DraftHandler
	refdataHandler    *handler.RefdataHandler
	quotationHandler  *handler.QuotationHandler
	masterDataHandler *handler.MasterDataHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	cache *refdata.Cache,
	rateLimiter *middleware.RateLimiter,
	draftHandler *handler.DraftHandler,
	refdataHandler *handler.RefdataHandler,
	quotationHandler *handler.QuotationHandler,
	masterDataHandler *handler.MasterDataHandler,
) *Router {
	return &Router{
		cfg:               cfg,
		logger:            logger,
		cache:             cache,
		rateLimiter:       rateLimiter,
		draftHandler:      draftHandler,
		refdataHandler:    refdataHandler,
		quotationHandler:  quotationHandler,
		masterDataHandler: masterDataHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Health check (liveness plus whether reference data is available)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if !rt.cache.Loaded() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok","refdata":"not_loaded"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","refdata":"loaded"}`))
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Reference data
		r.Get("/refdata", rt.refdataHandler.Get)
		r.Post("/refdata/refresh", rt.refdataHandler.Refresh)

		// Master data management
		r.Post("/clients", rt.masterDataHandler.CreateClient)
		r.Post("/items", rt.masterDataHandler.CreateItem)

		// Draft editing
		r.Route("/drafts", func(r chi.Router) {
			r.Post("/", rt.draftHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", rt.draftHandler.Get)
				r.Delete("/", rt.draftHandler.Delete)
				r.Post("/reset", rt.draftHandler.Reset)
				r.Put("/client", rt.draftHandler.SetClient)
				r.Post("/submit", rt.draftHandler.Submit)

				r.Post("/rows", rt.draftHandler.AddRow)
				r.Route("/rows/{rowID}", func(r chi.Router) {
					r.Delete("/", rt.draftHandler.RemoveRow)
					r.Put("/selection", rt.draftHandler.SetSelection)
					r.Put("/quantity", rt.draftHandler.SetQuantity)
				})
			})
		})

		// Quotation history
		r.Route("/quotations", func(r chi.Router) {
			r.Get("/", rt.quotationHandler.List)
			r.Get("/{id}", rt.quotationHandler.GetByID)
			r.Get("/{id}/pdf", rt.quotationHandler.DownloadPDF)
		})
	})

	return r
}
