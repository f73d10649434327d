package handlers

import (
	"net/http"

	"github.com/wonny/insidertracker/backend/internal/contracts"
	"github.com/wonny/insidertracker/backend/pkg/logger"
)

// CompanyHandler serves company listings and rankings
type CompanyHandler struct {
	store  contracts.QueryStore
	logger *logger.Logger
}

// NewCompanyHandler creates a company handler
func NewCompanyHandler(store contracts.QueryStore, log *logger.Logger) *CompanyHandler {
	return &CompanyHandler{
		store:  store,
		logger: log,
	}
}

// List returns tracked companies with their latest score, if scored
// GET /api/companies?limit=&offset=
func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	companies, err := h.store.ListCompanies(r.Context(), queryInt(r, "limit", 100), queryInt(r, "offset", 0))
	if err != nil {
		h.logger.WithError(err).Error("Failed to list companies")
		respondError(w, http.StatusInternalServerError, "Failed to list companies")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"companies": companies,
		"count":     len(companies),
	})
}

// Top returns the highest-scored companies with full score detail
// GET /api/companies/top?limit=10
func (h *CompanyHandler) Top(w http.ResponseWriter, r *http.Request) {
	companies, err := h.store.ListTopCompanies(r.Context(), queryInt(r, "limit", 10))
	if err != nil {
		h.logger.WithError(err).Error("Failed to list top companies")
		respondError(w, http.StatusInternalServerError, "Failed to list top companies")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"companies": companies,
		"count":     len(companies),
	})
}
