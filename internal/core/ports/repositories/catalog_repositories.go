package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/retailtrack/retail_mgmt_app/internal/core/domain"
)

// ProductReader defines read operations for catalog data
type ProductReader interface {
	// FindProductByID retrieves a specific product by its unique identifier.
	FindProductByID(ctx context.Context, productID string) (*domain.Product, error)

	// FindProductByCode retrieves a product by its user-facing SKU code.
	FindProductByCode(ctx context.Context, code string) (*domain.Product, error)

	// FindProductsByIDs retrieves multiple products by their IDs.
	FindProductsByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error)

	// ListProducts retrieves a paginated list of products, optionally filtered by category.
	// It returns the products, a token for the next page, and an error.
	ListProducts(ctx context.Context, category string, limit int, nextToken *string) ([]domain.Product, *string, error)

	// ListLowStockProducts retrieves active products whose stock is at or below their minimum.
	ListLowStockProducts(ctx context.Context) ([]domain.LowStockAlert, error)
}

// ProductWriter defines write operations for catalog data
type ProductWriter interface {
	// SaveProduct persists a new product.
	SaveProduct(ctx context.Context, product domain.Product) error

	// UpdateProduct updates an existing product's details. Stock is not
	// touched here; it moves only through StockMutator.
	UpdateProduct(ctx context.Context, product domain.Product) error

	// DeactivateProduct marks a product as inactive.
	DeactivateProduct(ctx context.Context, productID string, actor string, now time.Time) error
}

// StockMutator defines the stock movements used by sale and purchase posting.
// All methods run inside a caller-owned transaction.
type StockMutator interface {
	// FindProductsByIDsForUpdate selects products and locks them for update within a transaction.
	FindProductsByIDsForUpdate(ctx context.Context, tx pgx.Tx, productIDs []string) (map[string]domain.Product, error)

	// DecrementStockInTx conditionally decrements stock. It returns false,
	// without error, when the product has fewer than quantity units left.
	DecrementStockInTx(ctx context.Context, tx pgx.Tx, productID string, quantity int64, actor string, now time.Time) (bool, error)

	// IncrementStockInTx adds quantity units back to a product's stock.
	IncrementStockInTx(ctx context.Context, tx pgx.Tx, productID string, quantity int64, actor string, now time.Time) error
}

// ProductRepositoryFacade combines all catalog repository interfaces
// This is a facade for clients that need access to all operations
type ProductRepositoryFacade interface {
	ProductReader
	ProductWriter
	StockMutator
}

// ProductRepositoryWithTx extends ProductRepositoryFacade with transaction capabilities
type ProductRepositoryWithTx interface {
	ProductRepositoryFacade
	TransactionManager
}
