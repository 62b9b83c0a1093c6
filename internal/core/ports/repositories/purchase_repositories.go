package repositories

import (
	"context"

	"github.com/retailtrack/retail_mgmt_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PurchaseReader defines read operations for purchase data
type PurchaseReader interface {
	// FindPurchaseByID retrieves a purchase, including its lines.
	FindPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error)

	// ListPurchasesByDateRange retrieves a paginated list of purchases within a
	// date range using token-based pagination.
	ListPurchasesByDateRange(ctx context.Context, rng domain.DateRange, limit int, nextToken *string) ([]domain.Purchase, *string, error)
}

// PurchasePoster defines the atomic posting operation for purchases. The
// stock increments, the purchase rows, the ledger transaction and the account
// balance change run inside a single database transaction.
type PurchasePoster interface {
	// PostPurchase persists a purchase and its lines, increments stock for
	// every line, inserts the ledger transaction and applies balanceDelta to
	// its account.
	PostPurchase(ctx context.Context, purchase domain.Purchase, txn domain.LedgerTransaction, balanceDelta decimal.Decimal) error
}

// PurchaseRepositoryFacade combines all purchase-related repository interfaces
type PurchaseRepositoryFacade interface {
	PurchaseReader
	PurchasePoster
}

// PurchaseRepositoryWithTx extends PurchaseRepositoryFacade with transaction capabilities
type PurchaseRepositoryWithTx interface {
	PurchaseRepositoryFacade
	TransactionManager
}
