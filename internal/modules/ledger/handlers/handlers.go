// Package handlers provides HTTP handlers for ledger operations.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/domain"
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/modules/bonds"
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/modules/ledger"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles ledger HTTP requests
type Handler struct {
	portfolios   *ledger.PortfolioRepository
	assets       *ledger.AssetRepository
	transactions *ledger.TransactionRepository
	now          func() time.Time
	log          zerolog.Logger
}

// NewHandler creates a new ledger handler
func NewHandler(
	portfolios *ledger.PortfolioRepository,
	assets *ledger.AssetRepository,
	transactions *ledger.TransactionRepository,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		portfolios:   portfolios,
		assets:       assets,
		transactions: transactions,
		now:          time.Now,
		log:          log.With().Str("handler", "ledger").Logger(),
	}
}

type createPortfolioRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type assetResponse struct {
	*domain.Asset
	BondInfo *bonds.Info `json:"bond_info,omitempty"`
}

type createTransactionRequest struct {
	Type        domain.TransactionType `json:"transaction_type"`
	Symbol      string                 `json:"symbol"`
	Date        string                 `json:"transaction_date"`
	Notes       string                 `json:"notes"`
	PortfolioID int64                  `json:"portfolio_id"`
	AssetID     int64                  `json:"asset_id"`
	Quantity    float64                `json:"quantity"`
	Price       float64                `json:"price"`
	Commission  float64                `json:"commission"`
}

// HandleListPortfolios handles GET /api/users/{userID}/portfolios
func (h *Handler) HandleListPortfolios(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	portfolios, err := h.portfolios.ListByUser(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("Failed to list portfolios")
		h.writeError(w, http.StatusInternalServerError, "failed to list portfolios")
		return
	}

	h.writeData(w, http.StatusOK, portfolios)
}

// HandleCreatePortfolio handles POST /api/users/{userID}/portfolios
func (h *Handler) HandleCreatePortfolio(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req createPortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.portfolios.Create(r.Context(), domain.Portfolio{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	portfolio, err := h.portfolios.GetByID(r.Context(), id)
	if err != nil {
		h.log.Error().Err(err).Int64("portfolio_id", id).Msg("Failed to reload portfolio")
		h.writeError(w, http.StatusInternalServerError, "failed to load portfolio")
		return
	}

	h.writeData(w, http.StatusCreated, portfolio)
}

// HandleCreateAsset handles POST /api/assets
func (h *Handler) HandleCreateAsset(w http.ResponseWriter, r *http.Request) {
	var asset domain.Asset
	if err := json.NewDecoder(r.Body).Decode(&asset); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.assets.Create(r.Context(), asset); err != nil {
		if errors.Is(err, ledger.ErrInvalidAsset) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Str("symbol", asset.Symbol).Msg("Failed to create asset")
		h.writeError(w, http.StatusConflict, "failed to create asset")
		return
	}

	created, err := h.assets.GetBySymbol(r.Context(), asset.Symbol)
	if err != nil {
		h.log.Error().Err(err).Str("symbol", asset.Symbol).Msg("Failed to reload asset")
		h.writeError(w, http.StatusInternalServerError, "failed to load asset")
		return
	}

	h.writeData(w, http.StatusCreated, created)
}

// HandleGetAsset handles GET /api/assets/{symbol}
func (h *Handler) HandleGetAsset(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	asset, err := h.assets.GetBySymbol(r.Context(), symbol)
	if errors.Is(err, ledger.ErrAssetNotFound) {
		h.writeError(w, http.StatusNotFound, "asset not found")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to get asset")
		h.writeError(w, http.StatusInternalServerError, "failed to get asset")
		return
	}

	resp := assetResponse{Asset: asset}
	if asset.Bond != nil {
		info := bonds.Describe(*asset.Bond, h.now())
		resp.BondInfo = &info
	}
	h.writeData(w, http.StatusOK, resp)
}

// HandleListTransactions handles GET /api/users/{userID}/transactions
func (h *Handler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	filter := ledger.TransactionFilter{
		Type: domain.TransactionType(r.URL.Query().Get("type")),
	}
	if filter.Type != "" && !filter.Type.Valid() {
		h.writeError(w, http.StatusBadRequest, "unknown transaction type")
		return
	}
	if p := r.URL.Query().Get("portfolio"); p != "" {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid portfolio id")
			return
		}
		filter.PortfolioID = id
	}

	txs, err := h.transactions.ListByUser(r.Context(), userID, filter)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("Failed to list transactions")
		h.writeError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}

	h.writeData(w, http.StatusOK, txs)
}

// HandleCreateTransaction handles POST /api/users/{userID}/transactions
func (h *Handler) HandleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	owned, err := h.portfolios.BelongsToUser(r.Context(), req.PortfolioID, userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to check portfolio ownership")
		h.writeError(w, http.StatusInternalServerError, "failed to create transaction")
		return
	}
	if !owned {
		h.writeError(w, http.StatusNotFound, "portfolio not found")
		return
	}

	if req.AssetID == 0 {
		asset, err := h.assets.GetBySymbol(r.Context(), req.Symbol)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "unknown asset")
			return
		}
		req.AssetID = asset.ID
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "transaction_date must be YYYY-MM-DD")
		return
	}

	id, err := h.transactions.Create(r.Context(), domain.Transaction{
		PortfolioID: req.PortfolioID,
		AssetID:     req.AssetID,
		Type:        req.Type,
		Quantity:    req.Quantity,
		Price:       req.Price,
		Commission:  req.Commission,
		Date:        date,
		Notes:       req.Notes,
	})
	if errors.Is(err, ledger.ErrInvalidTransaction) {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.log.Error().Err(err).Int64("portfolio_id", req.PortfolioID).Msg("Failed to create transaction")
		h.writeError(w, http.StatusInternalServerError, "failed to create transaction")
		return
	}

	h.writeData(w, http.StatusCreated, map[string]interface{}{"id": id})
}

// HandleDeleteTransaction handles DELETE /api/users/{userID}/transactions/{id}
func (h *Handler) HandleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	err = h.transactions.Delete(r.Context(), id, userID)
	if errors.Is(err, ledger.ErrTransactionNotFound) {
		h.writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Int64("transaction_id", id).Msg("Failed to delete transaction")
		h.writeError(w, http.StatusInternalServerError, "failed to delete transaction")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || id <= 0 {
		h.writeError(w, http.StatusBadRequest, "invalid user id")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeData(w http.ResponseWriter, status int, data interface{}) {
	h.writeJSON(w, status, map[string]interface{}{
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
