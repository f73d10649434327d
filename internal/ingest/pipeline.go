package ingest

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/insidertracker/backend/internal/cluster"
	"github.com/wonny/insidertracker/backend/internal/contracts"
	"github.com/wonny/insidertracker/backend/internal/external/edgar"
	"github.com/wonny/insidertracker/backend/internal/scoring"
	"github.com/wonny/insidertracker/backend/pkg/config"
	"github.com/wonny/insidertracker/backend/pkg/logger"
)

// Pipeline runs one ingestion pass: poll the feed, resolve and extract each
// filing, persist idempotently, then derive scores and cluster events.
// ⭐ SSOT: the ingestion flow is orchestrated here only
type Pipeline struct {
	edgar    *edgar.Client
	store    contracts.Store
	scoring  *scoring.Engine
	clusters *cluster.Detector
	limiter  *rate.Limiter
	logger   *logger.Logger

	feedURL    string
	batchLimit int
	now        func() time.Time
}

// New creates an ingestion pipeline. The limiter enforces a fixed interval
// between EDGAR fetches across the whole run.
func New(
	edgarClient *edgar.Client,
	store contracts.Store,
	scoringEngine *scoring.Engine,
	clusterDetector *cluster.Detector,
	cfg *config.Config,
	log *logger.Logger,
) *Pipeline {
	return &Pipeline{
		edgar:      edgarClient,
		store:      store,
		scoring:    scoringEngine,
		clusters:   clusterDetector,
		limiter:    rate.NewLimiter(rate.Every(cfg.SEC.FetchDelay), 1),
		logger:     log,
		feedURL:    cfg.SEC.FeedURL,
		batchLimit: cfg.SEC.BatchLimit,
		now:        time.Now,
	}
}

// WithClock overrides the pipeline's clock. Tests only.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// Ingest runs one full ingestion pass. Per-candidate failures are tagged and
// counted; only a feed-level failure aborts the run.
func (p *Pipeline) Ingest(ctx context.Context) contracts.IngestSummary {
	summary := contracts.IngestSummary{Timestamp: p.now()}

	indexURLs, err := p.edgar.FetchFilingIndexURLs(ctx, p.feedURL, p.batchLimit)
	if err != nil {
		p.logger.WithError(err).Error("Feed poll failed")
		summary.Error = err.Error()
		return summary
	}

	summary.Success = true
	summary.TotalCandidates = len(indexURLs)

	for _, indexURL := range indexURLs {
		outcome := p.processFiling(ctx, indexURL)

		switch outcome.Status {
		case contracts.OutcomeProcessed:
			summary.Processed++
		case contracts.OutcomeSkipped:
			summary.Skipped++
			p.logger.WithFields(map[string]interface{}{
				"url":    outcome.URL,
				"reason": outcome.Reason,
			}).Debug("Filing skipped")
		case contracts.OutcomeErrored:
			summary.Errors++
			p.logger.WithError(outcome.Err).WithField("url", outcome.URL).Error("Filing failed")
		}
	}

	// Derivations run after every batch, even an all-skip one: scores
	// depend on a trailing window, so they go stale without new filings.
	if _, err := p.scoring.RecomputeScores(ctx); err != nil {
		p.logger.WithError(err).Error("Score recompute failed")
	}
	if _, err := p.clusters.DetectClusters(ctx); err != nil {
		p.logger.WithError(err).Error("Cluster detection failed")
	}

	p.logger.WithFields(map[string]interface{}{
		"candidates": summary.TotalCandidates,
		"processed":  summary.Processed,
		"skipped":    summary.Skipped,
		"errors":     summary.Errors,
	}).Info("Ingestion pass complete")

	return summary
}

// processFiling runs one candidate through resolve, extract and store
func (p *Pipeline) processFiling(ctx context.Context, indexURL string) contracts.Outcome {
	if err := p.limiter.Wait(ctx); err != nil {
		return contracts.Errored(indexURL, err)
	}

	docURL, skip := p.edgar.ResolveDocumentURL(ctx, indexURL)
	if skip != "" {
		return contracts.Skipped(indexURL, skip)
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return contracts.Errored(indexURL, err)
	}

	body, err := p.edgar.FetchDocument(ctx, docURL)
	if err != nil {
		return contracts.Skipped(indexURL, contracts.SkipDocumentFetchFailed)
	}

	filing, err := edgar.ParseForm4(body)
	if err != nil {
		switch {
		case errors.Is(err, edgar.ErrSchemaMismatch):
			return contracts.Skipped(indexURL, contracts.SkipSchemaMismatch)
		case errors.Is(err, edgar.ErrNoUsableData):
			return contracts.Skipped(indexURL, contracts.SkipNoUsableTransactions)
		default:
			return contracts.Errored(indexURL, err)
		}
	}

	if err := p.storeFiling(ctx, filing, docURL); err != nil {
		return contracts.Errored(indexURL, err)
	}

	return contracts.Processed(indexURL)
}

// storeFiling persists one extracted filing. Identity rows are upserted
// first-write-wins; transaction rows are guarded by their natural key, so
// replaying the same filing stores nothing new.
func (p *Pipeline) storeFiling(ctx context.Context, filing *edgar.Filing, docURL string) error {
	companyID, err := p.store.UpsertCompany(ctx, filing.Issuer.Ticker, filing.Issuer.Name, filing.Issuer.CIK)
	if err != nil {
		return err
	}

	insiderID, err := p.store.UpsertInsider(ctx, filing.Owner.Name, filing.Owner.CIK)
	if err != nil {
		return err
	}

	filingDate := p.now()
	for _, row := range filing.Transactions {
		txn := contracts.Transaction{
			CompanyID:      companyID,
			InsiderID:      insiderID,
			Date:           row.Date,
			Type:           row.Type,
			Shares:         row.Shares,
			PricePerShare:  row.PricePerShare,
			Value:          row.Value,
			IsPurchase:     row.IsPurchase,
			InsiderRole:    filing.Role,
			OwnershipAfter: row.OwnershipAfter,
			FilingDate:     filingDate,
			Form4URL:       docURL,
		}

		inserted, err := p.store.InsertTransaction(ctx, &txn)
		if err != nil {
			return err
		}
		if !inserted {
			p.logger.WithFields(map[string]interface{}{
				"company_id": companyID,
				"insider_id": insiderID,
				"date":       row.Date.Format("2006-01-02"),
			}).Debug("Duplicate transaction ignored")
		}
	}

	return nil
}
