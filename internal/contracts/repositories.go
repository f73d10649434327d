package contracts

import (
	"context"
	"time"
)

// FilingStore is the write surface the ingestion pipeline needs.
// All writes are idempotent: upserts are first-write-wins and transaction
// inserts are guarded by the natural key.
type FilingStore interface {
	// UpsertCompany returns the company id for cik, creating the row on
	// first sighting. Ticker and name are never overwritten.
	UpsertCompany(ctx context.Context, ticker, name, cik string) (int64, error)

	// UpsertInsider returns the insider id for cik, creating the row on
	// first sighting. Name is never overwritten.
	UpsertInsider(ctx context.Context, name, cik string) (int64, error)

	// InsertTransaction stores txn unless its natural key already exists.
	// Returns false (and no error) on a duplicate.
	InsertTransaction(ctx context.Context, txn *Transaction) (bool, error)
}

// TransactionReader provides trailing-window reads for the derivation stages
type TransactionReader interface {
	ListTransactionsSince(ctx context.Context, since time.Time) ([]Transaction, error)
}

// ScoreWriter persists per-company sentiment scores (wholesale upsert)
type ScoreWriter interface {
	UpsertCompanyScore(ctx context.Context, score *CompanyScore) error
}

// ClusterWriter persists cluster-buy events (insert-if-absent)
type ClusterWriter interface {
	HasClusterBuy(ctx context.Context, companyID int64, date time.Time) (bool, error)
	InsertClusterBuy(ctx context.Context, cb *ClusterBuy) error
}

// Store is the full persistence surface used by the core pipeline
type Store interface {
	FilingStore
	TransactionReader
	ScoreWriter
	ClusterWriter
}

// QueryStore is the read surface the HTTP API serves from
type QueryStore interface {
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]TransactionDetail, error)
	ListRecentTransactions(ctx context.Context, hours, limit int) ([]TransactionDetail, error)
	ListCompanies(ctx context.Context, limit, offset int) ([]CompanyWithScore, error)
	ListTopCompanies(ctx context.Context, limit int) ([]ScoredCompany, error)
	ListClusterBuys(ctx context.Context, since time.Time) ([]ClusterDetail, error)
	GetStats(ctx context.Context) (*Stats, error)
}

// TransactionFilter narrows transaction listings in the read API
type TransactionFilter struct {
	Ticker      string
	InsiderName string
	Type        string // "purchase", "sale" or empty
	MinValue    float64
	Limit       int
	Offset      int
}

// TransactionDetail is a transaction joined with company and insider names
type TransactionDetail struct {
	Transaction
	Ticker      string `json:"ticker"`
	CompanyName string `json:"company_name"`
	InsiderName string `json:"insider_name"`
}

// CompanyWithScore is a company joined with its latest score, if any
type CompanyWithScore struct {
	Company
	Score  *int    `json:"score,omitempty"`
	Signal *string `json:"signal,omitempty"`
}

// ScoredCompany is a company with its full score row
type ScoredCompany struct {
	Company
	CompanyScore
}

// ClusterDetail is a cluster event joined with company identity
type ClusterDetail struct {
	ClusterBuy
	Ticker      string `json:"ticker"`
	CompanyName string `json:"company_name"`
}

// Stats holds the aggregate counters served by the stats endpoint
type Stats struct {
	TotalCompanies    int       `json:"total_companies"`
	TotalTransactions int       `json:"total_transactions"`
	TodayFilings      int       `json:"today_filings"`
	ClusterBuys7d     int       `json:"cluster_buys_7d"`
	ExecBuysToday     int       `json:"exec_buys_today"`
	LastUpdated       time.Time `json:"last_updated"`
}
