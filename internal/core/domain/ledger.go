package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// Account represents an entry in the chart of accounts.
// This is the primary representation used by services.
type Account struct {
	AccountID   string          `json:"accountID"` // Primary Key (UUID)
	Code        string          `json:"code"`      // Hierarchical code, unique (e.g. "4.1.1")
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"` // ASSET, LIABILITY, etc.
	Description string          `json:"description"` // Nullable
	IsActive    bool            `json:"isActive"`
	Balance     decimal.Decimal `json:"balance"` // Persisted running balance
	AuditFields
}

// TransactionKind indicates whether a ledger transaction increases or
// decreases the account balance.
type TransactionKind string

const (
	TxnIncome  TransactionKind = "INCOME"
	TxnExpense TransactionKind = "EXPENSE"
)

// TransactionStatus indicates the state of a ledger transaction.
type TransactionStatus string

const (
	TxnPosted   TransactionStatus = "POSTED"
	TxnReversed TransactionStatus = "REVERSED"
)

// LedgerTransaction represents a single movement against one account.
// Amounts are always positive; Kind decides the balance direction.
type LedgerTransaction struct {
	TransactionID string            `json:"transactionID"` // Primary Key (UUID)
	TxnDate       time.Time         `json:"txnDate"`
	AccountID     string            `json:"accountID"` // FK -> Account.accountID (Not Null)
	AccountName   string            `json:"accountName"`
	Kind          TransactionKind   `json:"kind"`
	Amount        decimal.Decimal   `json:"amount"`    // Positive value
	Reference     string            `json:"reference"` // Links to the originating event (e.g. "Venta-<id>")
	Category      string            `json:"category"`  // Nullable, free-form grouping
	Notes         string            `json:"notes"`     // Nullable
	Status        TransactionStatus `json:"status"`    // Default: TxnPosted
	AuditFields
}
