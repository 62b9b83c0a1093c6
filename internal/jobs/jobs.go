package jobs

import (
	"context"
	"log/slog"
	"time"

	portssvc "github.com/retailtrack/retail_mgmt_app/internal/core/ports/services"
)

const jobTimeout = 5 * time.Minute

// JobRunner holds the services the scheduled jobs operate on.
type JobRunner struct {
	reconciliation portssvc.ReconciliationSvc
	reporting      portssvc.ReportingSvc
	logger         *slog.Logger
}

// NewJobRunner creates a new JobRunner.
func NewJobRunner(reconciliation portssvc.ReconciliationSvc, reporting portssvc.ReportingSvc, logger *slog.Logger) *JobRunner {
	return &JobRunner{
		reconciliation: reconciliation,
		reporting:      reporting,
		logger:         logger,
	}
}

// ReconcileSaleLedger repairs completed sales that are missing their ledger
// entry.
func (j *JobRunner) ReconcileSaleLedger() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	repaired, err := j.reconciliation.ReconcileSaleLedger(ctx)
	if err != nil {
		j.logger.Error("Sale ledger reconciliation failed", slog.String("error", err.Error()))
		return
	}
	if repaired > 0 {
		j.logger.Warn("Sale ledger reconciliation repaired sales", slog.Int("repaired", repaired))
		return
	}
	j.logger.Info("Sale ledger reconciliation found nothing to repair")
}

// CheckLowStock logs every product at or below its minimum stock so operators
// can reorder.
func (j *JobRunner) CheckLowStock() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	alerts, err := j.reporting.GetLowStockReport(ctx)
	if err != nil {
		j.logger.Error("Low stock check failed", slog.String("error", err.Error()))
		return
	}
	if len(alerts) == 0 {
		j.logger.Info("Low stock check found no products below minimum")
		return
	}
	for _, a := range alerts {
		j.logger.Warn("Product below minimum stock",
			slog.String("product_id", a.ProductID),
			slog.String("code", a.Code),
			slog.Int64("stock", a.Stock),
			slog.Int64("min_stock", a.MinStock),
		)
	}
}
