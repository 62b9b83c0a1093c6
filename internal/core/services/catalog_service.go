package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/retailtrack/retail_mgmt_app/internal/apperrors"
	"github.com/retailtrack/retail_mgmt_app/internal/core/domain"
	portsrepo "github.com/retailtrack/retail_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/retailtrack/retail_mgmt_app/internal/core/ports/services"
	"github.com/retailtrack/retail_mgmt_app/internal/dto"
	"github.com/retailtrack/retail_mgmt_app/internal/middleware"
)

var (
	ErrDuplicateProductCode = errors.New("a product with this code already exists")
	ErrNegativePrice        = errors.New("price cannot be negative")
)

// catalogService provides product catalog operations.
type catalogService struct {
	productRepo portsrepo.ProductRepositoryFacade
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(productRepo portsrepo.ProductRepositoryFacade) portssvc.ProductSvcFacade {
	return &catalogService{productRepo: productRepo}
}

// Ensure catalogService implements the portssvc.ProductSvcFacade interface
var _ portssvc.ProductSvcFacade = (*catalogService)(nil)

// CreateProduct persists a new product after validation.
func (s *catalogService) CreateProduct(ctx context.Context, req dto.CreateProductRequest, actor string) (*domain.Product, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.UnitPrice.IsNegative() || req.UnitCost.IsNegative() {
		return nil, fmt.Errorf("%w: product %s", ErrNegativePrice, req.Code)
	}

	now := time.Now().UTC()
	product := domain.Product{
		ProductID:   uuid.NewString(),
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		UnitPrice:   req.UnitPrice,
		UnitCost:    req.UnitCost,
		Stock:       req.Stock,
		MinStock:    req.MinStock,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	if err := s.productRepo.SaveProduct(ctx, product); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: code %s", ErrDuplicateProductCode, req.Code)
		}
		logger.Error("Failed to save product", slog.String("error", err.Error()), slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	logger.Info("Product created successfully", slog.String("product_id", product.ProductID), slog.String("code", product.Code))
	return &product, nil
}

// UpdateProduct applies the provided fields to an existing product.
// Stock is deliberately untouched here; it only moves through postings.
func (s *catalogService) UpdateProduct(ctx context.Context, productID string, req dto.UpdateProductRequest, actor string) (*domain.Product, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to find product %s: %w", productID, err)
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.UnitPrice != nil {
		if req.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: product %s", ErrNegativePrice, productID)
		}
		product.UnitPrice = *req.UnitPrice
	}
	if req.UnitCost != nil {
		if req.UnitCost.IsNegative() {
			return nil, fmt.Errorf("%w: product %s", ErrNegativePrice, productID)
		}
		product.UnitCost = *req.UnitCost
	}
	if req.MinStock != nil {
		if *req.MinStock < 0 {
			return nil, fmt.Errorf("%w: minimum stock cannot be negative", apperrors.ErrValidation)
		}
		product.MinStock = *req.MinStock
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	now := time.Now().UTC()
	product.LastUpdatedAt = now
	product.LastUpdatedBy = actor

	if err := s.productRepo.UpdateProduct(ctx, *product); err != nil {
		logger.Error("Failed to update product", slog.String("error", err.Error()), slog.String("product_id", productID))
		return nil, fmt.Errorf("failed to update product %s: %w", productID, err)
	}

	logger.Info("Product updated successfully", slog.String("product_id", productID))
	return product, nil
}

// DeactivateProduct marks a product as inactive so it can no longer be sold.
func (s *catalogService) DeactivateProduct(ctx context.Context, productID string, actor string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.productRepo.DeactivateProduct(ctx, productID, actor, time.Now().UTC()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to deactivate product", slog.String("error", err.Error()), slog.String("product_id", productID))
		}
		return fmt.Errorf("failed to deactivate product %s: %w", productID, err)
	}

	logger.Info("Product deactivated", slog.String("product_id", productID))
	return nil
}

// GetProductByID retrieves a specific product.
func (s *catalogService) GetProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to find product by ID %s: %w", productID, err)
	}
	return product, nil
}

// GetProductByCode retrieves a product by its SKU code.
func (s *catalogService) GetProductByCode(ctx context.Context, code string) (*domain.Product, error) {
	product, err := s.productRepo.FindProductByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to find product by code %s: %w", code, err)
	}
	return product, nil
}

// ListProducts retrieves a paginated list of products.
func (s *catalogService) ListProducts(ctx context.Context, params dto.ListProductsParams) (*dto.ListProductsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	products, nextToken, err := s.productRepo.ListProducts(ctx, params.Category, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list products", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return &dto.ListProductsResponse{
		Products:  dto.ToListProductResponse(products),
		NextToken: nextToken,
	}, nil
}

// ListLowStockProducts retrieves active products at or below their minimum stock.
func (s *catalogService) ListLowStockProducts(ctx context.Context) ([]domain.LowStockAlert, error) {
	alerts, err := s.productRepo.ListLowStockProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock products: %w", err)
	}
	return alerts, nil
}
