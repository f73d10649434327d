package store

import (
	"context"

	"github.com/wonny/insidertracker/backend/internal/contracts"
)

// UpsertCompany returns the id for cik, inserting the row on first sighting.
// Existing ticker and name are kept: identity rows are first-write-wins so
// replays never rewrite them.
func (s *Store) UpsertCompany(ctx context.Context, ticker, name, cik string) (int64, error) {
	query := `
		INSERT INTO companies (ticker, name, cik)
		VALUES ($1, $2, $3)
		ON CONFLICT (cik) DO UPDATE SET cik = EXCLUDED.cik
		RETURNING id
	`

	var id int64
	if err := s.pool.QueryRow(ctx, query, ticker, name, cik).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// UpsertInsider returns the id for cik, inserting the row on first sighting
func (s *Store) UpsertInsider(ctx context.Context, name, cik string) (int64, error) {
	query := `
		INSERT INTO insiders (name, cik)
		VALUES ($1, $2)
		ON CONFLICT (cik) DO UPDATE SET cik = EXCLUDED.cik
		RETURNING id
	`

	var id int64
	if err := s.pool.QueryRow(ctx, query, name, cik).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// InsertTransaction stores txn unless its natural key
// (company, insider, date, shares) already exists. Returns false on a
// duplicate so replayed filings are counted but not re-stored.
func (s *Store) InsertTransaction(ctx context.Context, txn *contracts.Transaction) (bool, error) {
	query := `
		INSERT INTO transactions (
			company_id, insider_id, transaction_date, transaction_type,
			shares, price_per_share, transaction_value, is_purchase,
			insider_role, ownership_after, filing_date, form4_url
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (company_id, insider_id, transaction_date, shares) DO NOTHING
		RETURNING id
	`

	var id int64
	err := s.pool.QueryRow(ctx, query,
		txn.CompanyID, txn.InsiderID, txn.Date, txn.Type,
		txn.Shares, txn.PricePerShare, txn.Value, txn.IsPurchase,
		txn.InsiderRole, txn.OwnershipAfter, txn.FilingDate, txn.Form4URL,
	).Scan(&id)
	if err != nil {
		if isNoRows(err) {
			// Conflict: the row already exists
			return false, nil
		}
		return false, err
	}

	txn.ID = id
	return true, nil
}
