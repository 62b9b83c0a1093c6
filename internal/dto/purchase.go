package dto

import (
	"time"

	"github.com/retailtrack/retail_mgmt_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePurchaseLineRequest defines one product line of a purchase to record.
// UnitCost is optional; the product's stored cost is used when absent.
type CreatePurchaseLineRequest struct {
	ProductID string           `json:"productID" binding:"required"`
	Quantity  int64            `json:"quantity" binding:"required,gt=0"`
	UnitCost  *decimal.Decimal `json:"unitCost"`
}

// CreatePurchaseRequest defines the data needed to record an inventory purchase.
type CreatePurchaseRequest struct {
	Supplier     string                      `json:"supplier"`     // Optional
	PurchaseDate *time.Time                  `json:"purchaseDate"` // Optional, defaults to now
	Notes        string                      `json:"notes"`        // Optional
	Lines        []CreatePurchaseLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// PurchaseLineResponse defines the data returned for a purchase line.
type PurchaseLineResponse struct {
	PurchaseLineID string          `json:"purchaseLineID"`
	ProductID      string          `json:"productID"`
	Quantity       int64           `json:"quantity"`
	UnitCost       decimal.Decimal `json:"unitCost"`
	LineTotal      decimal.Decimal `json:"lineTotal"`
}

// PurchaseResponse defines the data returned for a purchase.
type PurchaseResponse struct {
	PurchaseID   string                 `json:"purchaseID"`
	PurchaseDate time.Time              `json:"purchaseDate"`
	Supplier     string                 `json:"supplier"`
	Status       string                 `json:"status"`
	Total        decimal.Decimal        `json:"total"`
	Notes        string                 `json:"notes"`
	Lines        []PurchaseLineResponse `json:"lines"`
	CreatedAt    time.Time              `json:"createdAt"`
	CreatedBy    string                 `json:"createdBy"`
}

// ToPurchaseResponse converts a domain.Purchase to PurchaseResponse DTO.
func ToPurchaseResponse(p *domain.Purchase) PurchaseResponse {
	lines := make([]PurchaseLineResponse, len(p.Lines))
	for i, l := range p.Lines {
		lines[i] = PurchaseLineResponse{
			PurchaseLineID: l.PurchaseLineID,
			ProductID:      l.ProductID,
			Quantity:       l.Quantity,
			UnitCost:       l.UnitCost,
			LineTotal:      l.LineTotal,
		}
	}
	return PurchaseResponse{
		PurchaseID:   p.PurchaseID,
		PurchaseDate: p.PurchaseDate,
		Supplier:     p.Supplier,
		Status:       string(p.Status),
		Total:        p.Total,
		Notes:        p.Notes,
		Lines:        lines,
		CreatedAt:    p.CreatedAt,
		CreatedBy:    p.CreatedBy,
	}
}

// ToListPurchaseResponse converts a slice of domain.Purchase to a slice of PurchaseResponse DTOs
func ToListPurchaseResponse(purchases []domain.Purchase) []PurchaseResponse {
	res := make([]PurchaseResponse, len(purchases))
	for i, p := range purchases {
		res[i] = ToPurchaseResponse(&p)
	}
	return res
}

// ListPurchasesParams defines query parameters for listing purchases.
type ListPurchasesParams struct {
	From      time.Time `form:"from" time_format:"2006-01-02"`
	To        time.Time `form:"to" time_format:"2006-01-02"`
	Limit     int       `form:"limit,default=20"`
	NextToken *string   `form:"nextToken"`
}

// ListPurchasesResponse wraps the list of purchases with the pagination token.
type ListPurchasesResponse struct {
	Purchases []PurchaseResponse `json:"purchases"`
	NextToken *string            `json:"nextToken,omitempty"`
}
