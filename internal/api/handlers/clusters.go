package handlers

import (
	"net/http"
	"time"

	"github.com/wonny/insidertracker/backend/internal/contracts"
	"github.com/wonny/insidertracker/backend/pkg/logger"
)

// ClusterHandler serves cluster-buy events
type ClusterHandler struct {
	store  contracts.QueryStore
	logger *logger.Logger
}

// NewClusterHandler creates a cluster handler
func NewClusterHandler(store contracts.QueryStore, log *logger.Logger) *ClusterHandler {
	return &ClusterHandler{
		store:  store,
		logger: log,
	}
}

// List returns cluster events from the trailing window, newest first
// GET /api/clusters?days=7
func (h *ClusterHandler) List(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 7)
	if days <= 0 {
		days = 7
	}

	since := time.Now().AddDate(0, 0, -days)
	clusters, err := h.store.ListClusterBuys(r.Context(), since)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list cluster buys")
		respondError(w, http.StatusInternalServerError, "Failed to list cluster buys")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"clusters": clusters,
		"count":    len(clusters),
		"days":     days,
	})
}
