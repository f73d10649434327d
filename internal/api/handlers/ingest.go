package handlers

import (
	"net/http"

	"github.com/wonny/insidertracker/backend/internal/ingest"
	"github.com/wonny/insidertracker/backend/pkg/logger"
)

// IngestHandler triggers an ingestion pass on demand
type IngestHandler struct {
	pipeline *ingest.Pipeline
	logger   *logger.Logger
}

// NewIngestHandler creates an ingest handler
func NewIngestHandler(pipeline *ingest.Pipeline, log *logger.Logger) *IngestHandler {
	return &IngestHandler{
		pipeline: pipeline,
		logger:   log,
	}
}

// Run executes one ingestion pass synchronously and returns its summary
// POST /api/ingest
func (h *IngestHandler) Run(w http.ResponseWriter, r *http.Request) {
	summary := h.pipeline.Ingest(r.Context())

	status := http.StatusOK
	if !summary.Success {
		status = http.StatusBadGateway
	}
	respondJSON(w, status, summary)
}
