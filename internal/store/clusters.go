package store

import (
	"context"
	"time"

	"github.com/wonny/insidertracker/backend/internal/contracts"
)

// HasClusterBuy reports whether a cluster event already exists for the
// company and calendar date
func (s *Store) HasClusterBuy(ctx context.Context, companyID int64, date time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM cluster_buys
			WHERE company_id = $1 AND cluster_date = $2
		)
	`

	var exists bool
	if err := s.pool.QueryRow(ctx, query, companyID, date).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// InsertClusterBuy records a cluster event. Events are written once: a
// conflicting (company, date) insert is a no-op.
func (s *Store) InsertClusterBuy(ctx context.Context, cb *contracts.ClusterBuy) error {
	query := `
		INSERT INTO cluster_buys (
			company_id, cluster_date, num_insiders, num_transactions,
			total_value, total_shares, score
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (company_id, cluster_date) DO NOTHING
	`

	_, err := s.pool.Exec(ctx, query,
		cb.CompanyID, cb.Date, cb.NumBuyers, cb.NumTxns,
		cb.TotalVal, cb.TotalShrs, cb.Score,
	)
	return err
}

// ListClusterBuys returns cluster events since the given time joined with
// company identity, newest first
func (s *Store) ListClusterBuys(ctx context.Context, since time.Time) ([]contracts.ClusterDetail, error) {
	query := `
		SELECT cb.id, cb.company_id, cb.cluster_date, cb.num_insiders,
			cb.num_transactions, cb.total_value, cb.total_shares, cb.score,
			c.ticker, c.name
		FROM cluster_buys cb
		JOIN companies c ON c.id = cb.company_id
		WHERE cb.cluster_date >= $1
		ORDER BY cb.cluster_date DESC, cb.score DESC
	`

	rows, err := s.pool.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clusters []contracts.ClusterDetail
	for rows.Next() {
		var cd contracts.ClusterDetail
		if err := rows.Scan(
			&cd.ID, &cd.CompanyID, &cd.Date, &cd.NumBuyers,
			&cd.NumTxns, &cd.TotalVal, &cd.TotalShrs, &cd.Score,
			&cd.Ticker, &cd.CompanyName,
		); err != nil {
			return nil, err
		}
		clusters = append(clusters, cd)
	}
	return clusters, rows.Err()
}
