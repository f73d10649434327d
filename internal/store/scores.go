package store

import (
	"context"

	"github.com/wonny/insidertracker/backend/internal/contracts"
)

// UpsertCompanyScore replaces the company's score row wholesale. Scores are
// derived data: every scoring pass overwrites the previous result.
func (s *Store) UpsertCompanyScore(ctx context.Context, score *contracts.CompanyScore) error {
	query := `
		INSERT INTO company_scores (
			company_id, score, signal, num_buyers_30d, num_sellers_30d,
			total_buy_value_30d, total_sell_value_30d, num_transactions_30d,
			last_updated
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (company_id) DO UPDATE SET
			score = EXCLUDED.score,
			signal = EXCLUDED.signal,
			num_buyers_30d = EXCLUDED.num_buyers_30d,
			num_sellers_30d = EXCLUDED.num_sellers_30d,
			total_buy_value_30d = EXCLUDED.total_buy_value_30d,
			total_sell_value_30d = EXCLUDED.total_sell_value_30d,
			num_transactions_30d = EXCLUDED.num_transactions_30d,
			last_updated = EXCLUDED.last_updated
	`

	_, err := s.pool.Exec(ctx, query,
		score.CompanyID, score.Score, score.Signal, score.NumBuyers, score.NumSellers,
		score.TotalBuyVal, score.TotalSellVal, score.NumTxns, score.LastUpdated,
	)
	return err
}

// ListCompanies returns companies with their latest score, if any,
// alphabetically by ticker
func (s *Store) ListCompanies(ctx context.Context, limit, offset int) ([]contracts.CompanyWithScore, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT c.id, c.ticker, c.name, c.cik, cs.score, cs.signal
		FROM companies c
		LEFT JOIN company_scores cs ON cs.company_id = c.id
		ORDER BY c.ticker
		LIMIT $1 OFFSET $2
	`

	rows, err := s.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []contracts.CompanyWithScore
	for rows.Next() {
		var c contracts.CompanyWithScore
		if err := rows.Scan(&c.ID, &c.Ticker, &c.Name, &c.CIK, &c.Score, &c.Signal); err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// ListTopCompanies returns the highest-scored companies with full score rows
func (s *Store) ListTopCompanies(ctx context.Context, limit int) ([]contracts.ScoredCompany, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT c.id, c.ticker, c.name, c.cik,
			cs.company_id, cs.score, cs.signal,
			cs.num_buyers_30d, cs.num_sellers_30d,
			cs.total_buy_value_30d, cs.total_sell_value_30d,
			cs.num_transactions_30d, cs.last_updated
		FROM company_scores cs
		JOIN companies c ON c.id = cs.company_id
		ORDER BY cs.score DESC, cs.total_buy_value_30d DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []contracts.ScoredCompany
	for rows.Next() {
		var sc contracts.ScoredCompany
		if err := rows.Scan(
			&sc.ID, &sc.Ticker, &sc.Name, &sc.CIK,
			&sc.CompanyID, &sc.Score, &sc.Signal,
			&sc.NumBuyers, &sc.NumSellers,
			&sc.TotalBuyVal, &sc.TotalSellVal,
			&sc.NumTxns, &sc.LastUpdated,
		); err != nil {
			return nil, err
		}
		companies = append(companies, sc)
	}
	return companies, rows.Err()
}
