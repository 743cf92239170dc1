package jobs

import (
	"context"

	"rentshare-backend/internal/logger"
)

// ReconcileStock compares each listing's available quantity with
// total_quantity minus the bookings still holding a unit. Drift is logged
// for an operator and never corrected here.
func (jr *JobRunner) ReconcileStock() {
	jr.runWithRecovery("ReconcileStock", func(ctx context.Context) {
		drifts, err := jr.stock.FindStockDrift(ctx)
		if err != nil {
			logger.Error("Failed to reconcile stock", "error", err)
			return
		}

		for _, d := range drifts {
			logger.Warn("Listing stock drift",
				"listing_id", d.ListingID,
				"total_quantity", d.TotalQuantity,
				"quantity", d.Quantity,
				"holding", d.Holding,
				"expected", d.Expected())
		}
		logger.Info("Stock reconciliation finished", "drifted_listings", len(drifts))
	})
}
