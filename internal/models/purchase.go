package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseStatus indicates the state of an inventory purchase.
type PurchaseStatus string

const (
	PurchaseReceived PurchaseStatus = "RECEIVED"
)

// Purchase represents a row in the purchases table.
type Purchase struct {
	PurchaseID   string          `json:"purchaseID" db:"purchase_id"` // Primary Key (UUID)
	PurchaseDate time.Time       `json:"purchaseDate" db:"purchase_date"`
	Supplier     string          `json:"supplier" db:"supplier"` // Nullable
	Status       PurchaseStatus  `json:"status" db:"status"`
	Total        decimal.Decimal `json:"total" db:"total"`
	Notes        string          `json:"notes" db:"notes"` // Nullable
	AuditFields
}

// PurchaseLine represents a row in the purchase_lines table.
type PurchaseLine struct {
	PurchaseLineID string          `json:"purchaseLineID" db:"purchase_line_id"` // Primary Key (UUID)
	PurchaseID     string          `json:"purchaseID" db:"purchase_id"`          // FK -> purchases.purchase_id
	ProductID      string          `json:"productID" db:"product_id"`            // FK -> products.product_id
	Quantity       int64           `json:"quantity" db:"quantity"`
	UnitCost       decimal.Decimal `json:"unitCost" db:"unit_cost"`
	LineTotal      decimal.Decimal `json:"lineTotal" db:"line_total"`
}
