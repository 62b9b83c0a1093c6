package services

import (
	"context"

	"github.com/retailtrack/retail_mgmt_app/internal/core/domain"
	"github.com/retailtrack/retail_mgmt_app/internal/dto"
)

// ReportingSvc defines the read-only reporting operations
type ReportingSvc interface {
	// GetSalesSummary aggregates completed sales over a date range.
	GetSalesSummary(ctx context.Context, params dto.SalesSummaryParams) (*domain.SalesSummary, error)

	// GetLowStockReport lists active products at or below their minimum stock.
	GetLowStockReport(ctx context.Context) ([]domain.LowStockAlert, error)
}

// ReconciliationSvc defines the consistency sweep run by the scheduler
type ReconciliationSvc interface {
	// ReconcileSaleLedger finds completed sales with no matching ledger
	// transaction and posts the missing income entries. Returns the number of
	// sales repaired.
	ReconcileSaleLedger(ctx context.Context) (int, error)
}
