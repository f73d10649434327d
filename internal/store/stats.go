package store

import (
	"context"
	"time"

	"github.com/wonny/insidertracker/backend/internal/contracts"
)

// GetStats returns the aggregate counters served by the stats endpoint
func (s *Store) GetStats(ctx context.Context) (*contracts.Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM companies),
			(SELECT COUNT(*) FROM transactions),
			(SELECT COUNT(*) FROM transactions WHERE filing_date >= CURRENT_DATE),
			(SELECT COUNT(*) FROM cluster_buys WHERE cluster_date >= CURRENT_DATE - INTERVAL '7 days'),
			(SELECT COUNT(*) FROM transactions
				WHERE filing_date >= CURRENT_DATE
				AND is_purchase = TRUE
				AND (insider_role ILIKE '%chief%' OR insider_role ILIKE '%ceo%' OR insider_role ILIKE '%cfo%'
					OR insider_role ILIKE '%president%'))
	`

	stats := &contracts.Stats{LastUpdated: time.Now()}
	err := s.pool.QueryRow(ctx, query).Scan(
		&stats.TotalCompanies,
		&stats.TotalTransactions,
		&stats.TodayFilings,
		&stats.ClusterBuys7d,
		&stats.ExecBuysToday,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
