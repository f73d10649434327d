package handlers

import (
	"net/http"

	"github.com/wonny/insidertracker/backend/internal/contracts"
	"github.com/wonny/insidertracker/backend/pkg/logger"
)

// TransactionHandler serves transaction listings
// ⭐ SSOT: transaction API handlers live in this struct only
type TransactionHandler struct {
	store  contracts.QueryStore
	logger *logger.Logger
}

// NewTransactionHandler creates a transaction handler
func NewTransactionHandler(store contracts.QueryStore, log *logger.Logger) *TransactionHandler {
	return &TransactionHandler{
		store:  store,
		logger: log,
	}
}

// List returns stored transactions, newest first
// GET /api/transactions?ticker=&insider=&type=purchase|sale&min_value=&limit=&offset=
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	txnType := r.URL.Query().Get("type")
	if txnType != "" && txnType != "purchase" && txnType != "sale" {
		respondError(w, http.StatusBadRequest, "Invalid type (valid: purchase, sale)")
		return
	}

	filter := contracts.TransactionFilter{
		Ticker:      r.URL.Query().Get("ticker"),
		InsiderName: r.URL.Query().Get("insider"),
		Type:        txnType,
		MinValue:    queryFloat(r, "min_value", 0),
		Limit:       queryInt(r, "limit", 50),
		Offset:      queryInt(r, "offset", 0),
	}

	txns, err := h.store.ListTransactions(r.Context(), filter)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list transactions")
		respondError(w, http.StatusInternalServerError, "Failed to list transactions")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": txns,
		"count":        len(txns),
	})
}

// Recent returns transactions filed within the trailing window
// GET /api/transactions/recent?hours=24&limit=50
func (h *TransactionHandler) Recent(w http.ResponseWriter, r *http.Request) {
	hours := queryInt(r, "hours", 24)
	limit := queryInt(r, "limit", 50)

	txns, err := h.store.ListRecentTransactions(r.Context(), hours, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list recent transactions")
		respondError(w, http.StatusInternalServerError, "Failed to list recent transactions")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": txns,
		"count":        len(txns),
		"hours":        hours,
	})
}
