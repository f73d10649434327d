package contracts

import "time"

// Company is an issuer referenced by Form 4 filings.
// CIK is the natural key; ticker and name are first-write-wins.
type Company struct {
	ID     int64  `json:"id"`
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
	CIK    string `json:"cik"`
}

// Insider is a reporting owner (individual or institution).
type Insider struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	CIK  string `json:"cik"`
}

// TransactionType is the semantic class of a Form 4 transaction code
type TransactionType string

const (
	TypePurchase TransactionType = "Purchase"
	TypeSale     TransactionType = "Sale"
	TypeGrant    TransactionType = "Grant"
	TypeExercise TransactionType = "Exercise"
	TypeOther    TransactionType = "Other"
)

// ClassifyTransactionCode maps a Form 4 single-letter transaction code to its
// semantic type and buy/sell direction. Grants (A) and option exercises (M)
// count as buys: the insider ends up holding more stock.
func ClassifyTransactionCode(code string) (TransactionType, bool) {
	switch code {
	case "P":
		return TypePurchase, true
	case "S":
		return TypeSale, false
	case "A":
		return TypeGrant, true
	case "M":
		return TypeExercise, true
	default:
		return TypeOther, false
	}
}

// Transaction is one non-derivative transaction row from a filing.
// Natural key: (CompanyID, InsiderID, Date, Shares). Immutable once stored.
type Transaction struct {
	ID             int64           `json:"id"`
	CompanyID      int64           `json:"company_id"`
	InsiderID      int64           `json:"insider_id"`
	Date           time.Time       `json:"transaction_date"`
	Type           TransactionType `json:"transaction_type"`
	Shares         float64         `json:"shares"`
	PricePerShare  float64         `json:"price_per_share"`
	Value          float64         `json:"transaction_value"`
	IsPurchase     bool            `json:"is_purchase"`
	InsiderRole    string          `json:"insider_role"`
	OwnershipAfter float64         `json:"ownership_after"`
	FilingDate     time.Time       `json:"filing_date"`
	Form4URL       string          `json:"form4_url"`
}

// Signal labels, ordered from most to least bullish
const (
	SignalStrongBuy    = "STRONG BUY"
	SignalBuy          = "BUY"
	SignalModerateBuy  = "MODERATE BUY"
	SignalNeutral      = "NEUTRAL"
	SignalModerateSell = "MODERATE SELL"
	SignalSell         = "SELL"
)

// CompanyScore is the per-company insider sentiment over the trailing 30 days.
// One row per company, recomputed wholesale on every scoring pass.
type CompanyScore struct {
	CompanyID    int64     `json:"company_id"`
	Score        int       `json:"score"` // 0-100
	Signal       string    `json:"signal"`
	NumBuyers    int       `json:"num_buyers_30d"`
	NumSellers   int       `json:"num_sellers_30d"`
	TotalBuyVal  float64   `json:"total_buy_value_30d"`
	TotalSellVal float64   `json:"total_sell_value_30d"`
	NumTxns      int       `json:"num_transactions_30d"`
	LastUpdated  time.Time `json:"last_updated"`
}

// ClusterBuy records a day on which two or more distinct insiders bought the
// same company. Keyed by (CompanyID, Date); written once, never updated.
type ClusterBuy struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"company_id"`
	Date      time.Time `json:"cluster_date"`
	NumBuyers int       `json:"num_insiders"`
	NumTxns   int       `json:"num_transactions"`
	TotalVal  float64   `json:"total_value"`
	TotalShrs float64   `json:"total_shares"`
	Score     int       `json:"score"`
}
