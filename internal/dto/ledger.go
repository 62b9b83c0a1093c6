package dto

import (
	"time"

	"github.com/retailtrack/retail_mgmt_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code        string             `json:"code" binding:"required"`
	Name        string             `json:"name" binding:"required"`
	AccountType domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	Description string             `json:"description"` // Optional
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID     string             `json:"accountID"`
	Code          string             `json:"code"`
	Name          string             `json:"name"`
	AccountType   domain.AccountType `json:"accountType"`
	Description   string             `json:"description"`
	IsActive      bool               `json:"isActive"`
	Balance       decimal.Decimal    `json:"balance"`
	CreatedAt     time.Time          `json:"createdAt"`
	CreatedBy     string             `json:"createdBy"`
	LastUpdatedAt time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy string             `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		Code:          acc.Code,
		Name:          acc.Name,
		AccountType:   acc.AccountType,
		Description:   acc.Description,
		IsActive:      acc.IsActive,
		Balance:       acc.Balance,
		CreatedAt:     acc.CreatedAt,
		CreatedBy:     acc.CreatedBy,
		LastUpdatedAt: acc.LastUpdatedAt,
		LastUpdatedBy: acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}

// CreateTransactionRequest defines the data needed to record a manual ledger
// transaction (one not originated by a sale or purchase posting).
type CreateTransactionRequest struct {
	AccountCode string          `json:"accountCode" binding:"required"`
	Kind        string          `json:"kind" binding:"required,oneof=INCOME EXPENSE"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	TxnDate     *time.Time      `json:"txnDate"`   // Optional, defaults to now
	Reference   string          `json:"reference"` // Optional
	Category    string          `json:"category"`  // Optional
	Notes       string          `json:"notes"`     // Optional
}

// TransactionResponse defines the data returned for a ledger transaction.
type TransactionResponse struct {
	TransactionID string          `json:"transactionID"`
	TxnDate       time.Time       `json:"txnDate"`
	AccountID     string          `json:"accountID"`
	AccountName   string          `json:"accountName"`
	Kind          string          `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	Reference     string          `json:"reference"`
	Category      string          `json:"category"`
	Notes         string          `json:"notes"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
}

// ToTransactionResponse converts a domain.LedgerTransaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.LedgerTransaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		TxnDate:       txn.TxnDate,
		AccountID:     txn.AccountID,
		AccountName:   txn.AccountName,
		Kind:          string(txn.Kind),
		Amount:        txn.Amount,
		Reference:     txn.Reference,
		Category:      txn.Category,
		Notes:         txn.Notes,
		Status:        string(txn.Status),
		CreatedAt:     txn.CreatedAt,
		CreatedBy:     txn.CreatedBy,
	}
}

// ToTransactionResponses converts a slice of domain.LedgerTransaction to []TransactionResponse.
func ToTransactionResponses(txns []domain.LedgerTransaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		responses[i] = ToTransactionResponse(&txn)
	}
	return responses
}

// ListTransactionsParams defines query parameters for listing ledger transactions.
type ListTransactionsParams struct {
	From      time.Time `form:"from" time_format:"2006-01-02"`
	To        time.Time `form:"to" time_format:"2006-01-02"`
	Limit     int       `form:"limit,default=20"`
	NextToken *string   `form:"nextToken"`
}

// ListTransactionsResponse wraps the list of transactions with the pagination token.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}
