package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/retailtrack/retail_mgmt_app/internal/apperrors"
	"github.com/retailtrack/retail_mgmt_app/internal/core/domain"
	portsrepo "github.com/retailtrack/retail_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/retailtrack/retail_mgmt_app/internal/core/ports/services"
	"github.com/retailtrack/retail_mgmt_app/internal/dto"
	"github.com/retailtrack/retail_mgmt_app/internal/middleware"
)

// reportingService implements the ReportingSvc interface
type reportingService struct {
	saleRepo    portsrepo.SaleReader
	productRepo portsrepo.ProductReader
}

// NewReportingService creates a new reporting service.
func NewReportingService(saleRepo portsrepo.SaleReader, productRepo portsrepo.ProductReader) portssvc.ReportingSvc {
	return &reportingService{
		saleRepo:    saleRepo,
		productRepo: productRepo,
	}
}

// Ensure reportingService implements the ReportingSvc interface
var _ portssvc.ReportingSvc = (*reportingService)(nil)

// GetSalesSummary aggregates completed sales over a date range.
func (s *reportingService) GetSalesSummary(ctx context.Context, params dto.SalesSummaryParams) (*domain.SalesSummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if params.To.Before(params.From) {
		return nil, fmt.Errorf("%w: invalid date range: %s is after %s", apperrors.ErrValidation, params.From.Format("2006-01-02"), params.To.Format("2006-01-02"))
	}

	rng := domain.DateRange{From: params.From, To: params.To}
	summary, err := s.saleRepo.SummarizeSales(ctx, rng)
	if err != nil {
		logger.Error("Failed to summarize sales", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to summarize sales: %w", err)
	}

	return summary, nil
}

// GetLowStockReport lists active products at or below their minimum stock.
func (s *reportingService) GetLowStockReport(ctx context.Context) ([]domain.LowStockAlert, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	alerts, err := s.productRepo.ListLowStockProducts(ctx)
	if err != nil {
		logger.Error("Failed to build low stock report", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to build low stock report: %w", err)
	}

	return alerts, nil
}
