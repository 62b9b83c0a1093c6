package dto

import (
	"time"

	"github.com/retailtrack/retail_mgmt_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateSaleLineRequest defines one product line of a sale to post.
type CreateSaleLineRequest struct {
	ProductID string `json:"productID" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required,gt=0"`
}

// CreateSaleRequest defines the data needed to post a new sale.
type CreateSaleRequest struct {
	CustomerID    string                  `json:"customerID" binding:"required"`
	PaymentMethod string                  `json:"paymentMethod" binding:"required,oneof=Efectivo Tarjeta Transferencia"`
	SaleDate      *time.Time              `json:"saleDate"` // Optional, defaults to now
	Notes         string                  `json:"notes"`    // Optional
	Lines         []CreateSaleLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// SaleLineResponse defines the data returned for a sale line.
type SaleLineResponse struct {
	SaleLineID string          `json:"saleLineID"`
	ProductID  string          `json:"productID"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	LineTotal  decimal.Decimal `json:"lineTotal"`
}

// SaleResponse defines the data returned for a sale.
type SaleResponse struct {
	SaleID        string             `json:"saleID"`
	SaleDate      time.Time          `json:"saleDate"`
	CustomerID    string             `json:"customerID"`
	PaymentMethod string             `json:"paymentMethod"`
	Status        string             `json:"status"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Tax           decimal.Decimal    `json:"tax"`
	Discount      decimal.Decimal    `json:"discount"`
	Total         decimal.Decimal    `json:"total"`
	Notes         string             `json:"notes"`
	Lines         []SaleLineResponse `json:"lines"`
	CreatedAt     time.Time          `json:"createdAt"`
	CreatedBy     string             `json:"createdBy"`
}

// ToSaleLineResponse converts a domain.SaleLine to SaleLineResponse DTO.
func ToSaleLineResponse(l domain.SaleLine) SaleLineResponse {
	return SaleLineResponse{
		SaleLineID: l.SaleLineID,
		ProductID:  l.ProductID,
		Quantity:   l.Quantity,
		UnitPrice:  l.UnitPrice,
		LineTotal:  l.LineTotal,
	}
}

// ToSaleResponse converts a domain.Sale to SaleResponse DTO.
func ToSaleResponse(s *domain.Sale) SaleResponse {
	lines := make([]SaleLineResponse, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = ToSaleLineResponse(l)
	}
	return SaleResponse{
		SaleID:        s.SaleID,
		SaleDate:      s.SaleDate,
		CustomerID:    s.CustomerID,
		PaymentMethod: string(s.PaymentMethod),
		Status:        string(s.Status),
		Subtotal:      s.Subtotal,
		Tax:           s.Tax,
		Discount:      s.Discount,
		Total:         s.Total,
		Notes:         s.Notes,
		Lines:         lines,
		CreatedAt:     s.CreatedAt,
		CreatedBy:     s.CreatedBy,
	}
}

// ToListSaleResponse converts a slice of domain.Sale to a slice of SaleResponse DTOs
func ToListSaleResponse(sales []domain.Sale) []SaleResponse {
	res := make([]SaleResponse, len(sales))
	for i, s := range sales {
		res[i] = ToSaleResponse(&s)
	}
	return res
}

// ListSalesParams defines query parameters for listing sales.
type ListSalesParams struct {
	From          time.Time `form:"from" time_format:"2006-01-02"`
	To            time.Time `form:"to" time_format:"2006-01-02"`
	Limit         int       `form:"limit,default=20"`
	NextToken     *string   `form:"nextToken"`
	IncludeVoided bool      `form:"includeVoided,default=false"`
}

// ListSalesResponse wraps the list of sales with the pagination token.
type ListSalesResponse struct {
	Sales     []SaleResponse `json:"sales"`
	NextToken *string        `json:"nextToken,omitempty"`
}
