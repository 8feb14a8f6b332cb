package reportshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"perfhub/internal/domain/reports"
	"perfhub/internal/transport/http/api"
	"perfhub/internal/transport/http/middleware"
)

type Handler struct {
	Service *reports.Service
}

func NewHandler(service *reports.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/summary.pdf", h.handleSummaryPDF)
	})
}

func (h *Handler) handleSummaryPDF(w http.ResponseWriter, r *http.Request) {
	pdf, err := h.Service.SummaryPDF(r.Context())
	if err != nil {
		api.Error(r.Context(), w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="performance-summary.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
