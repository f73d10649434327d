package store

import (
	"context"
	"sync"
	"time"

	"github.com/wonny/insidertracker/backend/internal/contracts"
)

// MemoryStore is an in-memory contracts.Store with the same idempotence
// semantics as the Postgres store. Used by tests and local experiments.
type MemoryStore struct {
	mu sync.Mutex

	nextCompanyID int64
	nextInsiderID int64
	nextTxnID     int64
	nextClusterID int64

	companies map[string]*contracts.Company // by CIK
	insiders  map[string]*contracts.Insider // by CIK
	txns      []contracts.Transaction
	scores    map[int64]contracts.CompanyScore
	clusters  []contracts.ClusterBuy
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		companies: make(map[string]*contracts.Company),
		insiders:  make(map[string]*contracts.Insider),
		scores:    make(map[int64]contracts.CompanyScore),
	}
}

// UpsertCompany returns the id for cik. First write wins: later ticker or
// name values never overwrite the stored row.
func (m *MemoryStore) UpsertCompany(_ context.Context, ticker, name, cik string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.companies[cik]; ok {
		return c.ID, nil
	}

	m.nextCompanyID++
	m.companies[cik] = &contracts.Company{
		ID:     m.nextCompanyID,
		Ticker: ticker,
		Name:   name,
		CIK:    cik,
	}
	return m.nextCompanyID, nil
}

// UpsertInsider returns the id for cik, first write wins
func (m *MemoryStore) UpsertInsider(_ context.Context, name, cik string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i, ok := m.insiders[cik]; ok {
		return i.ID, nil
	}

	m.nextInsiderID++
	m.insiders[cik] = &contracts.Insider{
		ID:   m.nextInsiderID,
		Name: name,
		CIK:  cik,
	}
	return m.nextInsiderID, nil
}

// InsertTransaction stores txn unless its natural key already exists
func (m *MemoryStore) InsertTransaction(_ context.Context, txn *contracts.Transaction) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.txns {
		if existing.CompanyID == txn.CompanyID &&
			existing.InsiderID == txn.InsiderID &&
			existing.Date.Equal(txn.Date) &&
			existing.Shares == txn.Shares {
			return false, nil
		}
	}

	m.nextTxnID++
	txn.ID = m.nextTxnID
	m.txns = append(m.txns, *txn)
	return true, nil
}

// ListTransactionsSince returns transactions on or after since
func (m *MemoryStore) ListTransactionsSince(_ context.Context, since time.Time) ([]contracts.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []contracts.Transaction
	for _, t := range m.txns {
		if !t.Date.Before(since) {
			out = append(out, t)
		}
	}
	return out, nil
}

// UpsertCompanyScore replaces the company's score row
func (m *MemoryStore) UpsertCompanyScore(_ context.Context, score *contracts.CompanyScore) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.scores[score.CompanyID] = *score
	return nil
}

// HasClusterBuy reports whether a cluster event exists for (companyID, date)
func (m *MemoryStore) HasClusterBuy(_ context.Context, companyID int64, date time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, cb := range m.clusters {
		if cb.CompanyID == companyID && cb.Date.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

// InsertClusterBuy records a cluster event; a duplicate key is a no-op
func (m *MemoryStore) InsertClusterBuy(_ context.Context, cb *contracts.ClusterBuy) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.clusters {
		if existing.CompanyID == cb.CompanyID && existing.Date.Equal(cb.Date) {
			return nil
		}
	}

	m.nextClusterID++
	cb.ID = m.nextClusterID
	m.clusters = append(m.clusters, *cb)
	return nil
}

// Companies returns a snapshot of stored companies
func (m *MemoryStore) Companies() []contracts.Company {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]contracts.Company, 0, len(m.companies))
	for _, c := range m.companies {
		out = append(out, *c)
	}
	return out
}

// Insiders returns a snapshot of stored insiders
func (m *MemoryStore) Insiders() []contracts.Insider {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]contracts.Insider, 0, len(m.insiders))
	for _, i := range m.insiders {
		out = append(out, *i)
	}
	return out
}

// Transactions returns a snapshot of stored transactions
func (m *MemoryStore) Transactions() []contracts.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]contracts.Transaction, len(m.txns))
	copy(out, m.txns)
	return out
}

// Scores returns a snapshot of stored company scores
func (m *MemoryStore) Scores() map[int64]contracts.CompanyScore {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[int64]contracts.CompanyScore, len(m.scores))
	for k, v := range m.scores {
		out[k] = v
	}
	return out
}

// ClusterBuys returns a snapshot of stored cluster events
func (m *MemoryStore) ClusterBuys() []contracts.ClusterBuy {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]contracts.ClusterBuy, len(m.clusters))
	copy(out, m.clusters)
	return out
}
