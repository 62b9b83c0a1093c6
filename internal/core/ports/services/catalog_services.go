package services

import (
	"context"

	"github.com/retailtrack/retail_mgmt_app/internal/core/domain"
	"github.com/retailtrack/retail_mgmt_app/internal/dto"
)

// ProductReaderSvc defines read operations for catalog data
type ProductReaderSvc interface {
	// GetProductByID retrieves a specific product by its unique identifier.
	GetProductByID(ctx context.Context, productID string) (*domain.Product, error)

	// GetProductByCode retrieves a product by its user-facing SKU code.
	GetProductByCode(ctx context.Context, code string) (*domain.Product, error)

	// ListProducts retrieves a paginated list of products.
	ListProducts(ctx context.Context, params dto.ListProductsParams) (*dto.ListProductsResponse, error)

	// ListLowStockProducts retrieves active products at or below their minimum stock.
	ListLowStockProducts(ctx context.Context) ([]domain.LowStockAlert, error)
}

// ProductWriterSvc defines write operations for catalog data
type ProductWriterSvc interface {
	// CreateProduct persists a new product.
	CreateProduct(ctx context.Context, req dto.CreateProductRequest, actor string) (*domain.Product, error)

	// UpdateProduct updates an existing product's details.
	UpdateProduct(ctx context.Context, productID string, req dto.UpdateProductRequest, actor string) (*domain.Product, error)

	// DeactivateProduct marks a product as inactive.
	DeactivateProduct(ctx context.Context, productID string, actor string) error
}

// ProductSvcFacade combines all catalog service interfaces
// This is a facade for clients that need access to all operations
type ProductSvcFacade interface {
	ProductReaderSvc
	ProductWriterSvc
}
