package cluster

import (
	"context"
	"math"
	"time"

	"github.com/wonny/insidertracker/backend/internal/contracts"
	"github.com/wonny/insidertracker/backend/pkg/logger"
)

// detectionWindow is the trailing window scanned for cluster buys
const detectionWindow = 7 * 24 * time.Hour

// Detector finds days on which two or more distinct insiders bought the same
// company and records each as a write-once cluster event.
// ⭐ SSOT: cluster detection happens in this package only
type Detector struct {
	store  clusterStore
	logger *logger.Logger
	now    func() time.Time
}

type clusterStore interface {
	contracts.TransactionReader
	contracts.ClusterWriter
}

// NewDetector creates a cluster detector
func NewDetector(store clusterStore, log *logger.Logger) *Detector {
	return &Detector{
		store:  store,
		logger: log,
		now:    time.Now,
	}
}

// WithClock overrides the detector's clock. Tests only.
func (d *Detector) WithClock(now func() time.Time) *Detector {
	d.now = now
	return d
}

// clusterKey groups purchases by company and calendar date
type clusterKey struct {
	companyID int64
	date      time.Time
}

type clusterAgg struct {
	buyers      map[int64]struct{}
	numTxns     int
	totalValue  float64
	totalShares float64
}

// DetectClusters scans purchases in the trailing 7 days and inserts one
// cluster event per qualifying (company, date). Existing events are never
// updated: a later pass that sees more buyers for the same day is a no-op.
func (d *Detector) DetectClusters(ctx context.Context) (int, error) {
	txns, err := d.store.ListTransactionsSince(ctx, d.now().Add(-detectionWindow))
	if err != nil {
		return 0, err
	}

	groups := make(map[clusterKey]*clusterAgg)
	for _, txn := range txns {
		if !txn.IsPurchase {
			continue
		}

		key := clusterKey{
			companyID: txn.CompanyID,
			date:      txn.Date.Truncate(24 * time.Hour),
		}
		agg, ok := groups[key]
		if !ok {
			agg = &clusterAgg{buyers: make(map[int64]struct{})}
			groups[key] = agg
		}

		agg.buyers[txn.InsiderID] = struct{}{}
		agg.numTxns++
		agg.totalValue += txn.Value
		agg.totalShares += txn.Shares
	}

	inserted := 0
	for key, agg := range groups {
		if len(agg.buyers) < 2 {
			continue
		}

		exists, err := d.store.HasClusterBuy(ctx, key.companyID, key.date)
		if err != nil {
			return inserted, err
		}
		if exists {
			continue
		}

		cb := contracts.ClusterBuy{
			CompanyID: key.companyID,
			Date:      key.date,
			NumBuyers: len(agg.buyers),
			NumTxns:   agg.numTxns,
			TotalVal:  agg.totalValue,
			TotalShrs: agg.totalShares,
			Score:     ClusterScore(len(agg.buyers), agg.totalValue),
		}
		if err := d.store.InsertClusterBuy(ctx, &cb); err != nil {
			return inserted, err
		}
		inserted++

		d.logger.WithFields(map[string]interface{}{
			"company_id":  cb.CompanyID,
			"date":        cb.Date.Format("2006-01-02"),
			"num_buyers":  cb.NumBuyers,
			"total_value": cb.TotalVal,
			"score":       cb.Score,
		}).Info("Cluster buy detected")
	}

	return inserted, nil
}

// ClusterScore weighs buyer count against aggregate value: 20 points per
// distinct buyer plus 1 point per $100k bought, value part capped at 40,
// total capped at 100
func ClusterScore(numBuyers int, totalValue float64) int {
	valuePoints := int(math.Floor(totalValue / 100_000))
	if valuePoints > 40 {
		valuePoints = 40
	}

	score := numBuyers*20 + valuePoints
	if score > 100 {
		score = 100
	}
	return score
}
