package models

import "github.com/shopspring/decimal"

// Product represents a catalog item as stored in the products table.
// Note: Stock is mutated only through the conditional decrement / increment
// statements in the repository, never read-modify-write in Go.
type Product struct {
	ProductID   string          `json:"productID" db:"product_id"` // Primary Key (UUID)
	Code        string          `json:"code" db:"code"`            // Unique, user-facing SKU
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"` // Nullable
	Category    string          `json:"category" db:"category"`       // Nullable
	UnitPrice   decimal.Decimal `json:"unitPrice" db:"unit_price"`
	UnitCost    decimal.Decimal `json:"unitCost" db:"unit_cost"`
	Stock       int64           `json:"stock" db:"stock"`
	MinStock    int64           `json:"minStock" db:"min_stock"`
	IsActive    bool            `json:"isActive" db:"is_active"`
	AuditFields
}
