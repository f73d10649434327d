package store

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/insidertracker/backend/internal/contracts"
)

const transactionColumns = `
	t.id, t.company_id, t.insider_id, t.transaction_date, t.transaction_type,
	t.shares, t.price_per_share, t.transaction_value, t.is_purchase,
	t.insider_role, t.ownership_after, t.filing_date, t.form4_url`

// ListTransactionsSince returns all transactions on or after since,
// newest first. Used by the scoring and cluster derivation passes.
func (s *Store) ListTransactionsSince(ctx context.Context, since time.Time) ([]contracts.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t
		WHERE t.transaction_date >= $1
		ORDER BY t.transaction_date DESC, t.id DESC
	`

	rows, err := s.pool.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []contracts.Transaction
	for rows.Next() {
		var t contracts.Transaction
		if err := rows.Scan(
			&t.ID, &t.CompanyID, &t.InsiderID, &t.Date, &t.Type,
			&t.Shares, &t.PricePerShare, &t.Value, &t.IsPurchase,
			&t.InsiderRole, &t.OwnershipAfter, &t.FilingDate, &t.Form4URL,
		); err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// ListTransactions returns transactions joined with company and insider
// identity, narrowed by the filter
func (s *Store) ListTransactions(ctx context.Context, filter contracts.TransactionFilter) ([]contracts.TransactionDetail, error) {
	query := `
		SELECT ` + transactionColumns + `, c.ticker, c.name, i.name
		FROM transactions t
		JOIN companies c ON c.id = t.company_id
		JOIN insiders i ON i.id = t.insider_id
		WHERE 1=1
	`

	args := []interface{}{}
	argn := 0
	next := func(v interface{}) string {
		argn++
		args = append(args, v)
		return fmt.Sprintf("$%d", argn)
	}

	if filter.Ticker != "" {
		query += " AND c.ticker = " + next(filter.Ticker)
	}
	if filter.InsiderName != "" {
		query += " AND i.name ILIKE " + next("%"+filter.InsiderName+"%")
	}
	switch filter.Type {
	case "purchase":
		query += " AND t.is_purchase = TRUE"
	case "sale":
		query += " AND t.is_purchase = FALSE"
	}
	if filter.MinValue > 0 {
		query += " AND t.transaction_value >= " + next(filter.MinValue)
	}

	query += " ORDER BY t.transaction_date DESC, t.id DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += " LIMIT " + next(limit)
	if filter.Offset > 0 {
		query += " OFFSET " + next(filter.Offset)
	}

	return s.queryTransactionDetails(ctx, query, args...)
}

// ListRecentTransactions returns transactions filed within the trailing
// window of hours
func (s *Store) ListRecentTransactions(ctx context.Context, hours, limit int) ([]contracts.TransactionDetail, error) {
	if hours <= 0 {
		hours = 24
	}
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT ` + transactionColumns + `, c.ticker, c.name, i.name
		FROM transactions t
		JOIN companies c ON c.id = t.company_id
		JOIN insiders i ON i.id = t.insider_id
		WHERE t.filing_date >= NOW() - ($1 || ' hours')::interval
		ORDER BY t.filing_date DESC, t.id DESC
		LIMIT $2
	`

	return s.queryTransactionDetails(ctx, query, hours, limit)
}

func (s *Store) queryTransactionDetails(ctx context.Context, query string, args ...interface{}) ([]contracts.TransactionDetail, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []contracts.TransactionDetail
	for rows.Next() {
		var d contracts.TransactionDetail
		if err := rows.Scan(
			&d.ID, &d.CompanyID, &d.InsiderID, &d.Date, &d.Type,
			&d.Shares, &d.PricePerShare, &d.Value, &d.IsPurchase,
			&d.InsiderRole, &d.OwnershipAfter, &d.FilingDate, &d.Form4URL,
			&d.Ticker, &d.CompanyName, &d.InsiderName,
		); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}
