package domain

import "github.com/shopspring/decimal"

// Product represents a catalog item with its current stock level.
// Stock must never go negative; the posting path only mutates it through
// conditional decrements / increments, never through blind writes.
type Product struct {
	ProductID   string          `json:"productID"`   // Primary Key (UUID)
	Code        string          `json:"code"`        // Unique human-facing code
	Name        string          `json:"name"`
	Description string          `json:"description"` // Nullable
	Category    string          `json:"category"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	UnitCost    decimal.Decimal `json:"unitCost"`
	Stock       int64           `json:"stock"`    // Non-negative
	MinStock    int64           `json:"minStock"` // Low-stock threshold
	IsActive    bool            `json:"isActive"`
	AuditFields
}

// IsLowStock reports whether the product is at or below its minimum threshold.
func (p Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}
