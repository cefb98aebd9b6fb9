// Package handlers provides HTTP handlers for currency operations.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/domain"
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// RateService resolves PLN exchange rates
type RateService interface {
	Rate(ctx context.Context, currency string) (float64, error)
	Rates(ctx context.Context, currencies []string) map[string]float64
}

// Handler handles currency HTTP requests
type Handler struct {
	rates RateService
	log   zerolog.Logger
}

// NewHandler creates a new currency handler
func NewHandler(rates RateService, log zerolog.Logger) *Handler {
	return &Handler{
		rates: rates,
		log:   log.With().Str("handler", "currency").Logger(),
	}
}

// HandleGetRate handles GET /api/currency/rates/{code}
func (h *Handler) HandleGetRate(w http.ResponseWriter, r *http.Request) {
	code := utils.NormalizeCurrency(chi.URLParam(r, "code"))
	if len(code) != 3 {
		h.writeError(w, http.StatusBadRequest, "currency code must have 3 letters")
		return
	}

	// Rate never fails; the error is part of the interface only
	rate, err := h.rates.Rate(r.Context(), code)
	if err != nil {
		h.log.Error().Err(err).Str("currency", code).Msg("Failed to resolve rate")
		h.writeError(w, http.StatusInternalServerError, "failed to resolve rate")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"currency": code,
			"base":     domain.BaseCurrency,
			"rate":     rate,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleGetRates handles GET /api/currency/rates?codes=USD,EUR
func (h *Handler) HandleGetRates(w http.ResponseWriter, r *http.Request) {
	codes := utils.ParseCSV(r.URL.Query().Get("codes"))
	if len(codes) == 0 {
		h.writeError(w, http.StatusBadRequest, "codes query parameter is required")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"base":  domain.BaseCurrency,
			"rates": h.rates.Rates(r.Context(), codes),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
