package repositories

import (
	"context"
	"time"

	"github.com/retailtrack/retail_mgmt_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SaleReader defines read operations for sale data
type SaleReader interface {
	// FindSaleByID retrieves a sale, including its lines, by its unique identifier.
	FindSaleByID(ctx context.Context, saleID string) (*domain.Sale, error)

	// ListSalesByDateRange retrieves a paginated list of sales within a date range
	// using token-based pagination. It returns the sales, a token for the next
	// page, and an error.
	ListSalesByDateRange(ctx context.Context, rng domain.DateRange, limit int, nextToken *string, includeVoided bool) ([]domain.Sale, *string, error)

	// SummarizeSales aggregates completed sales over a date range.
	SummarizeSales(ctx context.Context, rng domain.DateRange) (*domain.SalesSummary, error)

	// FindCompletedSalesWithoutLedgerRef returns completed sales that have no
	// matching ledger transaction reference. Used by the reconciliation sweep.
	FindCompletedSalesWithoutLedgerRef(ctx context.Context, limit int) ([]domain.Sale, error)
}

// SalePoster defines the atomic posting operations for sales. Each call runs
// the stock movement, the sale rows, the ledger transaction and the account
// balance change inside a single database transaction.
type SalePoster interface {
	// PostSale persists a sale and its lines, decrements stock for every line,
	// inserts the ledger transaction and applies balanceDelta to its account.
	// Returns a conflict error when any line's conditional decrement affects
	// no row.
	PostSale(ctx context.Context, sale domain.Sale, txn domain.LedgerTransaction, balanceDelta decimal.Decimal) error

	// VoidSale marks a completed sale as voided, restores stock for its lines,
	// inserts the reversing ledger transaction and applies balanceDelta.
	VoidSale(ctx context.Context, saleID string, reversal domain.LedgerTransaction, balanceDelta decimal.Decimal, actor string, now time.Time) error
}

// SaleRepositoryFacade combines all sale-related repository interfaces
// This is a facade for clients that need access to all operations
type SaleRepositoryFacade interface {
	SaleReader
	SalePoster
}

// SaleRepositoryWithTx extends SaleRepositoryFacade with transaction capabilities
type SaleRepositoryWithTx interface {
	SaleRepositoryFacade
	TransactionManager
}
