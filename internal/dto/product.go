package dto

import (
	"time"

	"github.com/retailtrack/retail_mgmt_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateProductRequest defines the data needed to create a new product.
type CreateProductRequest struct {
	Code        string          `json:"code" binding:"required"`
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"` // Optional
	Category    string          `json:"category"`    // Optional
	UnitPrice   decimal.Decimal `json:"unitPrice" binding:"required"`
	UnitCost    decimal.Decimal `json:"unitCost"`
	Stock       int64           `json:"stock" binding:"gte=0"` // Opening stock
	MinStock    int64           `json:"minStock" binding:"gte=0"`
}

// UpdateProductRequest defines the data allowed for updating a product.
// Use pointers to distinguish between zero-value updates and fields not provided.
// Stock is deliberately absent: it only moves through sales and purchases.
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	UnitPrice   *decimal.Decimal `json:"unitPrice"`
	UnitCost    *decimal.Decimal `json:"unitCost"`
	MinStock    *int64           `json:"minStock"`
	IsActive    *bool            `json:"isActive"`
}

// ProductResponse defines the data returned for a product.
// Mirrors domain.Product.
type ProductResponse struct {
	ProductID     string          `json:"productID"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	UnitCost      decimal.Decimal `json:"unitCost"`
	Stock         int64           `json:"stock"`
	MinStock      int64           `json:"minStock"`
	IsLowStock    bool            `json:"isLowStock"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy string          `json:"lastUpdatedBy"`
}

// ToProductResponse converts a domain.Product to ProductResponse DTO
func ToProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ProductID:     p.ProductID,
		Code:          p.Code,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		UnitPrice:     p.UnitPrice,
		UnitCost:      p.UnitCost,
		Stock:         p.Stock,
		MinStock:      p.MinStock,
		IsLowStock:    p.IsLowStock(),
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		CreatedBy:     p.CreatedBy,
		LastUpdatedAt: p.LastUpdatedAt,
		LastUpdatedBy: p.LastUpdatedBy,
	}
}

// ToListProductResponse converts a slice of domain.Product to a slice of ProductResponse DTOs
func ToListProductResponse(products []domain.Product) []ProductResponse {
	res := make([]ProductResponse, len(products))
	for i, p := range products {
		res[i] = ToProductResponse(&p)
	}
	return res
}

// ListProductsParams defines query parameters for listing products.
type ListProductsParams struct {
	Category  string  `form:"category"`
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListProductsResponse wraps the list of products with the pagination token.
type ListProductsResponse struct {
	Products  []ProductResponse `json:"products"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// LowStockAlertResponse defines the data returned for a low stock alert.
type LowStockAlertResponse struct {
	ProductID string `json:"productID"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Stock     int64  `json:"stock"`
	MinStock  int64  `json:"minStock"`
}

// ToLowStockAlertResponse converts a domain.LowStockAlert to its DTO.
func ToLowStockAlertResponse(a domain.LowStockAlert) LowStockAlertResponse {
	return LowStockAlertResponse{
		ProductID: a.ProductID,
		Code:      a.Code,
		Name:      a.Name,
		Stock:     a.Stock,
		MinStock:  a.MinStock,
	}
}
