package dto

import (
	"time"

	"github.com/retailtrack/retail_mgmt_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SalesSummaryParams defines query parameters for the sales summary report.
type SalesSummaryParams struct {
	From time.Time `form:"from" time_format:"2006-01-02" binding:"required"`
	To   time.Time `form:"to" time_format:"2006-01-02" binding:"required"`
}

// SalesSummaryResponse defines the aggregated sales report for a date range.
type SalesSummaryResponse struct {
	From         time.Time       `json:"from"`
	To           time.Time       `json:"to"`
	SaleCount    int64           `json:"saleCount"`
	VoidedCount  int64           `json:"voidedCount"`
	GrossTotal   decimal.Decimal `json:"grossTotal"`
	TaxTotal     decimal.Decimal `json:"taxTotal"`
	UnitsSold    int64           `json:"unitsSold"`
	AverageTotal decimal.Decimal `json:"averageTotal"`
}

// ToSalesSummaryResponse converts a domain.SalesSummary to its DTO.
func ToSalesSummaryResponse(s *domain.SalesSummary) SalesSummaryResponse {
	return SalesSummaryResponse{
		From:         s.From,
		To:           s.To,
		SaleCount:    s.SaleCount,
		VoidedCount:  s.VoidedCount,
		GrossTotal:   s.GrossTotal,
		TaxTotal:     s.TaxTotal,
		UnitsSold:    s.UnitsSold,
		AverageTotal: s.AverageTotal,
	}
}

// LowStockReportResponse wraps the list of products below their minimum stock.
type LowStockReportResponse struct {
	Alerts []LowStockAlertResponse `json:"alerts"`
	Count  int                     `json:"count"`
}
