package store

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/wonny/insidertracker/backend/internal/contracts"
)

// Query surface of the in-memory store, mirroring the SQL semantics closely
// enough for handler tests.

func (m *MemoryStore) companyByID(id int64) *contracts.Company {
	for _, c := range m.companies {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (m *MemoryStore) insiderByID(id int64) *contracts.Insider {
	for _, i := range m.insiders {
		if i.ID == id {
			return i
		}
	}
	return nil
}

func (m *MemoryStore) detail(t contracts.Transaction) contracts.TransactionDetail {
	d := contracts.TransactionDetail{Transaction: t}
	if c := m.companyByID(t.CompanyID); c != nil {
		d.Ticker = c.Ticker
		d.CompanyName = c.Name
	}
	if i := m.insiderByID(t.InsiderID); i != nil {
		d.InsiderName = i.Name
	}
	return d
}

// ListTransactions returns filtered transactions, newest first
func (m *MemoryStore) ListTransactions(_ context.Context, filter contracts.TransactionFilter) ([]contracts.TransactionDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var details []contracts.TransactionDetail
	for _, t := range m.txns {
		d := m.detail(t)

		if filter.Ticker != "" && d.Ticker != filter.Ticker {
			continue
		}
		if filter.InsiderName != "" &&
			!strings.Contains(strings.ToLower(d.InsiderName), strings.ToLower(filter.InsiderName)) {
			continue
		}
		if filter.Type == "purchase" && !t.IsPurchase {
			continue
		}
		if filter.Type == "sale" && t.IsPurchase {
			continue
		}
		if filter.MinValue > 0 && t.Value < filter.MinValue {
			continue
		}
		details = append(details, d)
	}

	sort.Slice(details, func(i, j int) bool {
		if !details[i].Date.Equal(details[j].Date) {
			return details[i].Date.After(details[j].Date)
		}
		return details[i].ID > details[j].ID
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if filter.Offset > 0 {
		if filter.Offset >= len(details) {
			return nil, nil
		}
		details = details[filter.Offset:]
	}
	if len(details) > limit {
		details = details[:limit]
	}
	return details, nil
}

// ListRecentTransactions returns transactions filed within the trailing
// window of hours
func (m *MemoryStore) ListRecentTransactions(_ context.Context, hours, limit int) ([]contracts.TransactionDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hours <= 0 {
		hours = 24
	}
	if limit <= 0 {
		limit = 50
	}
	cutoff := time.Now().Add(-time.Duration(hours) * time.Hour)

	var details []contracts.TransactionDetail
	for _, t := range m.txns {
		if t.FilingDate.Before(cutoff) {
			continue
		}
		details = append(details, m.detail(t))
	}

	sort.Slice(details, func(i, j int) bool {
		return details[i].FilingDate.After(details[j].FilingDate)
	})
	if len(details) > limit {
		details = details[:limit]
	}
	return details, nil
}

// ListCompanies returns companies with their latest score, alphabetically
func (m *MemoryStore) ListCompanies(_ context.Context, limit, offset int) ([]contracts.CompanyWithScore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limit <= 0 {
		limit = 100
	}

	var companies []contracts.CompanyWithScore
	for _, c := range m.companies {
		cws := contracts.CompanyWithScore{Company: *c}
		if s, ok := m.scores[c.ID]; ok {
			score := s.Score
			signal := s.Signal
			cws.Score = &score
			cws.Signal = &signal
		}
		companies = append(companies, cws)
	}

	sort.Slice(companies, func(i, j int) bool {
		return companies[i].Ticker < companies[j].Ticker
	})

	if offset > 0 {
		if offset >= len(companies) {
			return nil, nil
		}
		companies = companies[offset:]
	}
	if len(companies) > limit {
		companies = companies[:limit]
	}
	return companies, nil
}

// ListTopCompanies returns the highest-scored companies
func (m *MemoryStore) ListTopCompanies(_ context.Context, limit int) ([]contracts.ScoredCompany, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limit <= 0 {
		limit = 10
	}

	var companies []contracts.ScoredCompany
	for companyID, score := range m.scores {
		c := m.companyByID(companyID)
		if c == nil {
			continue
		}
		companies = append(companies, contracts.ScoredCompany{
			Company:      *c,
			CompanyScore: score,
		})
	}

	sort.Slice(companies, func(i, j int) bool {
		if companies[i].Score != companies[j].Score {
			return companies[i].Score > companies[j].Score
		}
		return companies[i].TotalBuyVal > companies[j].TotalBuyVal
	})
	if len(companies) > limit {
		companies = companies[:limit]
	}
	return companies, nil
}

// ListClusterBuys returns cluster events since the given time, newest first
func (m *MemoryStore) ListClusterBuys(_ context.Context, since time.Time) ([]contracts.ClusterDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var clusters []contracts.ClusterDetail
	for _, cb := range m.clusters {
		if cb.Date.Before(since) {
			continue
		}
		cd := contracts.ClusterDetail{ClusterBuy: cb}
		if c := m.companyByID(cb.CompanyID); c != nil {
			cd.Ticker = c.Ticker
			cd.CompanyName = c.Name
		}
		clusters = append(clusters, cd)
	}

	sort.Slice(clusters, func(i, j int) bool {
		if !clusters[i].Date.Equal(clusters[j].Date) {
			return clusters[i].Date.After(clusters[j].Date)
		}
		return clusters[i].Score > clusters[j].Score
	})
	return clusters, nil
}

// GetStats returns the aggregate counters
func (m *MemoryStore) GetStats(_ context.Context) (*contracts.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := today.AddDate(0, 0, -7)

	stats := &contracts.Stats{
		TotalCompanies:    len(m.companies),
		TotalTransactions: len(m.txns),
		LastUpdated:       now,
	}

	for _, t := range m.txns {
		if t.FilingDate.Before(today) {
			continue
		}
		stats.TodayFilings++
		if t.IsPurchase && isExecutiveRole(t.InsiderRole) {
			stats.ExecBuysToday++
		}
	}
	for _, cb := range m.clusters {
		if !cb.Date.Before(weekAgo) {
			stats.ClusterBuys7d++
		}
	}
	return stats, nil
}

func isExecutiveRole(role string) bool {
	lower := strings.ToLower(role)
	for _, marker := range []string{"chief", "ceo", "cfo", "president"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
