package models

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

// Sale represents a row in the sales table. Totals are denormalized.
type Sale struct {
	SaleID        string          `json:"saleID" db:"sale_id"` // Primary Key (UUID)
	SaleDate      time.Time       `json:"saleDate" db:"sale_date"`
	CustomerID    string          `json:"customerID" db:"customer_id"` // FK -> customers.customer_id
	PaymentMethod string          `json:"paymentMethod" db:"payment_method"`
	Status        SaleStatus      `json:"status" db:"status"`
	Subtotal      decimal.Decimal `json:"subtotal" db:"subtotal"`
	Tax           decimal.Decimal `json:"tax" db:"tax"`
	Discount      decimal.Decimal `json:"discount" db:"discount"`
	Total         decimal.Decimal `json:"total" db:"total"`
	Notes         string          `json:"notes" db:"notes"` // Nullable
	AuditFields
}

// SaleLine represents a row in the sale_lines table.
type SaleLine struct {
	SaleLineID string          `json:"saleLineID" db:"sale_line_id"` // Primary Key (UUID)
	SaleID     string          `json:"saleID" db:"sale_id"`          // FK -> sales.sale_id
	ProductID  string          `json:"productID" db:"product_id"`    // FK -> products.product_id
	Quantity   int64           `json:"quantity" db:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice" db:"unit_price"`
	LineTotal  decimal.Decimal `json:"lineTotal" db:"line_total"`
}
