package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseStatus indicates the state of an inventory purchase.
type PurchaseStatus string

const (
	PurchaseReceived PurchaseStatus = "RECEIVED"
)

// PurchaseLine represents a single product line within a Purchase.
type PurchaseLine struct {
	PurchaseLineID string          `json:"purchaseLineID"` // Primary Key (UUID)
	PurchaseID     string          `json:"purchaseID"`     // FK -> Purchase.purchaseID (Not Null)
	ProductID      string          `json:"productID"`      // FK -> Product.productID (Not Null)
	Quantity       int64           `json:"quantity"`       // Positive
	UnitCost       decimal.Decimal `json:"unitCost"`       // Cost captured at receipt time
	LineTotal      decimal.Decimal `json:"lineTotal"`      // Quantity * UnitCost
}

// Purchase represents an inventory receipt that restocks products and
// posts an expense against the inventory account.
type Purchase struct {
	PurchaseID   string          `json:"purchaseID"` // Primary Key (UUID)
	PurchaseDate time.Time       `json:"purchaseDate"`
	Supplier     string          `json:"supplier"` // Nullable
	Status       PurchaseStatus  `json:"status"`   // Default: PurchaseReceived
	Total        decimal.Decimal `json:"total"`
	Notes        string          `json:"notes"` // Nullable
	Lines        []PurchaseLine  `json:"lines"`
	AuditFields
}

// LowStockAlert pairs a product with its stock shortfall for reporting.
type LowStockAlert struct {
	ProductID string `json:"productID"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Stock     int64  `json:"stock"`
	MinStock  int64  `json:"minStock"`
}

// DateRange bounds reporting and listing queries. Both ends inclusive.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}
