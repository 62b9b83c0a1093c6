package services

import (
	"context"

	"github.com/retailtrack/retail_mgmt_app/internal/core/domain"
	"github.com/retailtrack/retail_mgmt_app/internal/dto"
)

// PurchaseReaderSvc defines read operations for purchase data
type PurchaseReaderSvc interface {
	// GetPurchaseByID retrieves a specific purchase, including its lines.
	GetPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error)

	// ListPurchases retrieves a paginated list of purchases within a date range.
	ListPurchases(ctx context.Context, params dto.ListPurchasesParams) (*dto.ListPurchasesResponse, error)
}

// PurchasePosterSvc defines the posting operation for purchases
type PurchasePosterSvc interface {
	// PostPurchase validates and atomically records an inventory purchase:
	// stock is incremented, the purchase and its lines are persisted, and the
	// expense ledger entry is recorded, all in one unit.
	PostPurchase(ctx context.Context, req dto.CreatePurchaseRequest, actor string) (*domain.Purchase, error)
}

// PurchaseSvcFacade combines all purchase-related service interfaces
type PurchaseSvcFacade interface {
	PurchaseReaderSvc
	PurchasePosterSvc
}
