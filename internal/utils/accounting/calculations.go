package accounting

import (
	"fmt"

	"github.com/retailtrack/retail_mgmt_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// moneyScale is the number of decimal places every monetary result is rounded to.
const moneyScale = 2

// SaleTotals holds the denormalized money fields computed for a sale at posting time.
type SaleTotals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// ComputeSaleTotals derives the money fields of a sale from its lines and the
// configured flat rates. Each component is rounded to cents independently, then
// Total = Subtotal + Tax - Discount, so the stored fields always reconcile.
func ComputeSaleTotals(lines []domain.SaleLine, taxRate, discountRate decimal.Decimal) (SaleTotals, error) {
	if len(lines) == 0 {
		return SaleTotals{}, fmt.Errorf("cannot compute totals for a sale with no lines")
	}

	subtotal := decimal.Zero
	for _, l := range lines {
		if l.Quantity <= 0 {
			return SaleTotals{}, fmt.Errorf("line quantity must be positive for product %s", l.ProductID)
		}
		if l.UnitPrice.IsNegative() {
			return SaleTotals{}, fmt.Errorf("unit price cannot be negative for product %s", l.ProductID)
		}
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity)))
	}

	subtotal = subtotal.Round(moneyScale)
	tax := subtotal.Mul(taxRate).Round(moneyScale)
	discount := subtotal.Mul(discountRate).Round(moneyScale)
	total := subtotal.Add(tax).Sub(discount)

	return SaleTotals{
		Subtotal: subtotal,
		Tax:      tax,
		Discount: discount,
		Total:    total,
	}, nil
}

// LineTotal computes one line's amount, rounded to cents.
func LineTotal(unitAmount decimal.Decimal, quantity int64) decimal.Decimal {
	return unitAmount.Mul(decimal.NewFromInt(quantity)).Round(moneyScale)
}

// BalanceDelta returns the signed amount a ledger transaction applies to its
// account balance. Amounts are stored positive; the kind decides the sign:
// INCOME adds, EXPENSE subtracts.
func BalanceDelta(kind domain.TransactionKind, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("transaction amount must be positive, got %s", amount.String())
	}
	switch kind {
	case domain.TxnIncome:
		return amount, nil
	case domain.TxnExpense:
		return amount.Neg(), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown transaction kind '%s'", kind)
	}
}

// SaleReference builds the ledger reference linking a transaction to its sale.
func SaleReference(saleID string) string {
	return "Venta-" + saleID
}

// PurchaseReference builds the ledger reference linking a transaction to its purchase.
func PurchaseReference(purchaseID string) string {
	return "Compra-" + purchaseID
}
