package models

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

// Account represents a row in the accounts table.
type Account struct {
	AccountID   string          `json:"accountID" db:"account_id"` // Primary Key (UUID)
	Code        string          `json:"code" db:"code"`            // Unique hierarchical code
	Name        string          `json:"name" db:"name"`
	AccountType AccountType     `json:"accountType" db:"account_type"`
	Description string          `json:"description" db:"description"` // Nullable
	IsActive    bool            `json:"isActive" db:"is_active"`
	Balance     decimal.Decimal `json:"balance" db:"balance"` // Persisted running balance
	AuditFields
}

// TransactionKind indicates the balance direction of a ledger transaction.
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

// LedgerTransaction represents a row in the transactions table.
// Note: Amount is always positive; Kind decides the sign applied to balance.
type LedgerTransaction struct {
	TransactionID string            `json:"transactionID" db:"transaction_id"` // Primary Key (UUID)
	TxnDate       time.Time         `json:"txnDate" db:"txn_date"`
	AccountID     string            `json:"accountID" db:"account_id"` // FK -> accounts.account_id
	Kind          TransactionKind   `json:"kind" db:"kind"`
	Amount        decimal.Decimal   `json:"amount" db:"amount"`
	Reference     string            `json:"reference" db:"reference"`
	Category      string            `json:"category" db:"category"` // Nullable
	Notes         string            `json:"notes" db:"notes"`       // Nullable
	Status        TransactionStatus `json:"status" db:"status"`
	AuditFields
}
