// Package handlers provides HTTP handlers for portfolio valuation.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/domain"
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/modules/valuation"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// ValuationService values portfolios and manages the quote cache
type ValuationService interface {
	ValuePortfolio(ctx context.Context, portfolioID int64, mode valuation.Mode) (*valuation.Run, error)
	ValueUser(ctx context.Context, userID int64, mode valuation.Mode) (*valuation.Run, error)
	Dashboard(ctx context.Context, userID int64, mode valuation.Mode) (*valuation.Dashboard, error)
	RefreshPrices(ctx context.Context) (int64, error)
}

// StatsSource summarises transaction journals
type StatsSource interface {
	StatsByPortfolio(ctx context.Context, portfolioID int64) (*domain.PortfolioStats, error)
	StatsByUser(ctx context.Context, userID int64) (*domain.PortfolioStats, error)
}

// OwnershipChecker reports whether a portfolio belongs to a user
type OwnershipChecker interface {
	BelongsToUser(ctx context.Context, portfolioID, userID int64) (bool, error)
}

// Handler handles portfolio HTTP requests
type Handler struct {
	valuation  ValuationService
	stats      StatsSource
	portfolios OwnershipChecker
	log        zerolog.Logger
}

// NewHandler creates a new portfolio handler
func NewHandler(
	valuationService ValuationService,
	stats StatsSource,
	portfolios OwnershipChecker,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		valuation:  valuationService,
		stats:      stats,
		portfolios: portfolios,
		log:        log.With().Str("handler", "portfolio").Logger(),
	}
}

// HandleGetHoldings handles GET /api/users/{userID}/holdings
// Defaults to cache mode so the first render never waits on the network.
func (h *Handler) HandleGetHoldings(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	mode, ok := h.mode(w, r, valuation.ModeCacheOnly)
	if !ok {
		return
	}

	portfolioID := h.ownedPortfolio(r, userID)

	var (
		run *valuation.Run
		err error
	)
	if portfolioID > 0 {
		run, err = h.valuation.ValuePortfolio(r.Context(), portfolioID, mode)
	} else {
		run, err = h.valuation.ValueUser(r.Context(), userID, mode)
	}
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("Failed to value holdings")
		h.writeError(w, http.StatusInternalServerError, "failed to value holdings")
		return
	}

	h.writeData(w, map[string]interface{}{
		"holdings": run.Holdings,
		"summary":  run.Summary,
		"run_id":   run.RunID,
		"mode":     run.Mode,
	})
}

// HandleGetDashboard handles GET /api/users/{userID}/dashboard
func (h *Handler) HandleGetDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	mode, ok := h.mode(w, r, valuation.ModeLive)
	if !ok {
		return
	}

	dashboard, err := h.valuation.Dashboard(r.Context(), userID, mode)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("Failed to build dashboard")
		h.writeError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}

	h.writeData(w, dashboard)
}

// HandleGetStats handles GET /api/users/{userID}/stats
func (h *Handler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var (
		stats *domain.PortfolioStats
		err   error
	)
	if portfolioID := h.ownedPortfolio(r, userID); portfolioID > 0 {
		stats, err = h.stats.StatsByPortfolio(r.Context(), portfolioID)
	} else {
		stats, err = h.stats.StatsByUser(r.Context(), userID)
	}
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("Failed to compute stats")
		h.writeError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}

	h.writeData(w, stats)
}

// HandleRefreshPrices handles POST /api/prices/refresh
func (h *Handler) HandleRefreshPrices(w http.ResponseWriter, r *http.Request) {
	removed, err := h.valuation.RefreshPrices(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to refresh prices")
		h.writeError(w, http.StatusInternalServerError, "failed to refresh prices")
		return
	}

	h.writeData(w, map[string]interface{}{
		"cleared": removed,
	})
}

// ownedPortfolio returns the ?portfolio= id when the user owns it, else 0
func (h *Handler) ownedPortfolio(r *http.Request, userID int64) int64 {
	raw := r.URL.Query().Get("portfolio")
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0
	}

	owned, err := h.portfolios.BelongsToUser(r.Context(), id, userID)
	if err != nil {
		h.log.Warn().Err(err).Int64("portfolio_id", id).Msg("Ownership check failed, ignoring filter")
		return 0
	}
	if !owned {
		return 0
	}
	return id
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || id <= 0 {
		h.writeError(w, http.StatusBadRequest, "invalid user id")
		return 0, false
	}
	return id, true
}

func (h *Handler) mode(w http.ResponseWriter, r *http.Request, def valuation.Mode) (valuation.Mode, bool) {
	mode, err := valuation.ParseMode(r.URL.Query().Get("mode"), def)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return mode, true
}

func (h *Handler) writeData(w http.ResponseWriter, data interface{}) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": data,
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
