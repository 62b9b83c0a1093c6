package services

import (
	"context"

	"github.com/retailtrack/retail_mgmt_app/internal/core/domain"
	"github.com/retailtrack/retail_mgmt_app/internal/dto"
)

// SaleReaderSvc defines read operations for sale data
type SaleReaderSvc interface {
	// GetSaleByID retrieves a specific sale, including its lines.
	GetSaleByID(ctx context.Context, saleID string) (*domain.Sale, error)

	// ListSales retrieves a paginated list of sales within a date range.
	ListSales(ctx context.Context, params dto.ListSalesParams) (*dto.ListSalesResponse, error)
}

// SalePosterSvc defines the posting operations for sales
type SalePosterSvc interface {
	// PostSale validates and atomically posts a new sale: stock is decremented,
	// the sale and its lines are persisted, and the income ledger entry is
	// recorded, all in one unit.
	PostSale(ctx context.Context, req dto.CreateSaleRequest, actor string) (*domain.Sale, error)

	// VoidSale reverses a completed sale: stock is restored and a reversing
	// ledger entry is posted. The original sale rows are never edited beyond
	// the status flip.
	VoidSale(ctx context.Context, saleID string, actor string) (*domain.Sale, error)
}

// SaleSvcFacade combines all sale-related service interfaces
// This is a facade for clients that need access to all operations
type SaleSvcFacade interface {
	SaleReaderSvc
	SalePosterSvc
}
