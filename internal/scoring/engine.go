package scoring

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/wonny/insidertracker/backend/internal/contracts"
	"github.com/wonny/insidertracker/backend/pkg/logger"
)

// scoringWindow is the trailing window scores are derived from
const scoringWindow = 30 * 24 * time.Hour

// Engine recomputes per-company sentiment scores from trailing-window
// transactions.
// ⭐ SSOT: score derivation happens in this package only
type Engine struct {
	store  scoreStore
	logger *logger.Logger
	now    func() time.Time
}

type scoreStore interface {
	contracts.TransactionReader
	contracts.ScoreWriter
}

// NewEngine creates a scoring engine
func NewEngine(store scoreStore, log *logger.Logger) *Engine {
	return &Engine{
		store:  store,
		logger: log,
		now:    time.Now,
	}
}

// WithClock overrides the engine's clock. Tests only.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// RecomputeScores scores every company with at least one transaction in the
// trailing 30 days and upserts one row per company. Companies without
// qualifying transactions are left untouched.
func (e *Engine) RecomputeScores(ctx context.Context) (int, error) {
	now := e.now()

	txns, err := e.store.ListTransactionsSince(ctx, now.Add(-scoringWindow))
	if err != nil {
		return 0, err
	}

	byCompany := make(map[int64][]contracts.Transaction)
	for _, t := range txns {
		byCompany[t.CompanyID] = append(byCompany[t.CompanyID], t)
	}

	scored := 0
	for companyID, companyTxns := range byCompany {
		score := Score(companyTxns)
		score.CompanyID = companyID
		score.LastUpdated = now

		if err := e.store.UpsertCompanyScore(ctx, &score); err != nil {
			return scored, err
		}
		scored++
	}

	e.logger.WithFields(map[string]interface{}{
		"companies":    scored,
		"transactions": len(txns),
	}).Info("Scores recomputed")

	return scored, nil
}

// Score computes the bounded sentiment score for one company's
// trailing-window transactions. The weights are heuristic; they are kept
// exactly as documented rather than tuned.
func Score(txns []contracts.Transaction) contracts.CompanyScore {
	score := 50.0

	buyers := make(map[int64]struct{})
	sellers := make(map[int64]struct{})
	var totalBuyVal, totalSellVal float64

	for _, txn := range txns {
		if txn.IsPurchase {
			buyers[txn.InsiderID] = struct{}{}
			totalBuyVal += txn.Value

			score += roleWeight(txn.InsiderRole)

			switch {
			case txn.Value > 1_000_000:
				score += 10
			case txn.Value > 500_000:
				score += 7
			case txn.Value > 100_000:
				score += 4
			}
		} else {
			sellers[txn.InsiderID] = struct{}{}
			totalSellVal += txn.Value

			score -= roleWeight(txn.InsiderRole)

			// Sells only penalize at the two highest value tiers
			switch {
			case txn.Value > 1_000_000:
				score -= 10
			case txn.Value > 500_000:
				score -= 7
			}
		}
	}

	switch {
	case len(buyers) >= 4:
		score += 20
	case len(buyers) >= 3:
		score += 15
	case len(buyers) >= 2:
		score += 10
	}

	switch {
	case len(sellers) >= 3:
		score -= 20
	case len(sellers) >= 2:
		score -= 10
	}

	final := int(math.Round(score))
	if final < 0 {
		final = 0
	}
	if final > 100 {
		final = 100
	}

	return contracts.CompanyScore{
		Score:        final,
		Signal:       SignalFor(final),
		NumBuyers:    len(buyers),
		NumSellers:   len(sellers),
		TotalBuyVal:  totalBuyVal,
		TotalSellVal: totalSellVal,
		NumTxns:      len(txns),
	}
}

// roleWeight maps an insider role to its per-transaction weight:
// top executives 15, directors 10, everyone else 5
func roleWeight(role string) float64 {
	switch {
	case strings.Contains(role, "CEO") || strings.Contains(role, "CFO"):
		return 15
	case strings.Contains(role, "Director"):
		return 10
	default:
		return 5
	}
}

// SignalFor maps a clamped score to its signal band
func SignalFor(score int) string {
	switch {
	case score >= 90:
		return contracts.SignalStrongBuy
	case score >= 75:
		return contracts.SignalBuy
	case score >= 60:
		return contracts.SignalModerateBuy
	case score >= 40:
		return contracts.SignalNeutral
	case score >= 25:
		return contracts.SignalModerateSell
	default:
		return contracts.SignalSell
	}
}
