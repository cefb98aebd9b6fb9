package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all portfolio routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/users/{userID}/holdings", h.HandleGetHoldings)   // Valued holdings + summary
	r.Get("/users/{userID}/dashboard", h.HandleGetDashboard) // Per-portfolio summaries + total
	r.Get("/users/{userID}/stats", h.HandleGetStats)         // Journal statistics

	r.Post("/prices/refresh", h.HandleRefreshPrices) // Clear the quote cache
}
