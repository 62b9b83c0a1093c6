package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleStatus indicates the state of a posted sale.
type SaleStatus string

const (
	SaleCompleted SaleStatus = "COMPLETED"
	SaleVoided    SaleStatus = "VOIDED"
)

// PaymentMethod is the tender used to settle a sale.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "Efectivo"
	PaymentCard     PaymentMethod = "Tarjeta"
	PaymentTransfer PaymentMethod = "Transferencia"
)

// SaleLine represents a single product line within a Sale.
type SaleLine struct {
	SaleLineID string          `json:"saleLineID"` // Primary Key (UUID)
	SaleID     string          `json:"saleID"`     // FK -> Sale.saleID (Not Null)
	ProductID  string          `json:"productID"`  // FK -> Product.productID (Not Null)
	Quantity   int64           `json:"quantity"`   // Positive
	UnitPrice  decimal.Decimal `json:"unitPrice"`  // Price captured at sale time
	LineTotal  decimal.Decimal `json:"lineTotal"`  // Quantity * UnitPrice
}

// Sale represents a completed point-of-sale event composed of one or more lines.
// Totals are stored denormalized as computed at posting time.
type Sale struct {
	SaleID        string          `json:"saleID"`   // Primary Key (UUID)
	SaleDate      time.Time       `json:"saleDate"` // Date the sale occurred
	CustomerID    string          `json:"customerID"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Status        SaleStatus      `json:"status"` // Default: SaleCompleted
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	Notes         string          `json:"notes"` // Nullable
	Lines         []SaleLine      `json:"lines"`
	AuditFields
}

// SalesSummary aggregates completed sales over a date range.
type SalesSummary struct {
	From         time.Time       `json:"from"`
	To           time.Time       `json:"to"`
	SaleCount    int64           `json:"saleCount"`
	VoidedCount  int64           `json:"voidedCount"`
	GrossTotal   decimal.Decimal `json:"grossTotal"`   // Sum of completed sale totals
	TaxTotal     decimal.Decimal `json:"taxTotal"`     // Sum of completed sale tax
	UnitsSold    int64           `json:"unitsSold"`    // Sum of completed line quantities
	AverageTotal decimal.Decimal `json:"averageTotal"` // GrossTotal / SaleCount, zero when no sales
}
