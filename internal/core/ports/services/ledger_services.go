package services

import (
	"context"

	"github.com/retailtrack/retail_mgmt_app/internal/core/domain"
	"github.com/retailtrack/retail_mgmt_app/internal/dto"
)

// AccountReaderSvc defines read operations for chart-of-accounts data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountByCode retrieves an account by its hierarchical code.
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// ListAccounts retrieves all accounts, ordered by code.
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for chart-of-accounts data
type AccountWriterSvc interface {
	// CreateAccount persists a new account.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actor string) (*domain.Account, error)

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, actor string) (*domain.Account, error)
}

// LedgerTransactionSvc defines operations on ledger transactions
type LedgerTransactionSvc interface {
	// RecordTransaction persists a manual ledger transaction and applies its
	// balance change to the target account.
	RecordTransaction(ctx context.Context, req dto.CreateTransactionRequest, actor string) (*domain.LedgerTransaction, error)

	// GetTransactionByID retrieves a specific ledger transaction.
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.LedgerTransaction, error)

	// ListTransactions retrieves a paginated list of transactions within a date range.
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	// GetTransactionsByReference retrieves all transactions carrying a reference.
	GetTransactionsByReference(ctx context.Context, reference string) ([]domain.LedgerTransaction, error)
}

// LedgerSvcFacade combines all ledger-related service interfaces
// This is a facade for clients that need access to all operations
type LedgerSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	LedgerTransactionSvc
}
