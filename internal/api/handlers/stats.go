package handlers

import (
	"net/http"
	"time"

	"github.com/wonny/insidertracker/backend/internal/contracts"
	"github.com/wonny/insidertracker/backend/pkg/logger"
	"github.com/wonny/insidertracker/backend/pkg/redis"
)

// statsCacheTTL keeps the dashboard counters warm between ingestion runs
const statsCacheTTL = 60 * time.Second

// StatsHandler serves aggregate counters, cached when Redis is enabled
type StatsHandler struct {
	store  contracts.QueryStore
	cache  *redis.Cache
	logger *logger.Logger
}

// NewStatsHandler creates a stats handler
func NewStatsHandler(store contracts.QueryStore, cache *redis.Cache, log *logger.Logger) *StatsHandler {
	return &StatsHandler{
		store:  store,
		cache:  cache,
		logger: log,
	}
}

// Get returns the aggregate stats
// GET /api/stats
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var cached contracts.Stats
	if hit, err := h.cache.Get(ctx, "stats", &cached); err == nil && hit {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	stats, err := h.store.GetStats(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load stats")
		respondError(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}

	if err := h.cache.Set(ctx, "stats", stats, statsCacheTTL); err != nil {
		h.logger.WithError(err).Warn("Failed to cache stats")
	}

	respondJSON(w, http.StatusOK, stats)
}
