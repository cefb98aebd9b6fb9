package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all ledger routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/assets", func(r chi.Router) {
		r.Post("/", h.HandleCreateAsset)
		r.Get("/{symbol}", h.HandleGetAsset)
	})

	// /users/{userID} is shared with the portfolio module, so no sub-router
	r.Get("/users/{userID}/portfolios", h.HandleListPortfolios)
	r.Post("/users/{userID}/portfolios", h.HandleCreatePortfolio)
	r.Get("/users/{userID}/transactions", h.HandleListTransactions)
	r.Post("/users/{userID}/transactions", h.HandleCreateTransaction)
	r.Delete("/users/{userID}/transactions/{id}", h.HandleDeleteTransaction)
}
