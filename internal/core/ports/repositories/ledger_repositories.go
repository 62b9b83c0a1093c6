package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/retailtrack/retail_mgmt_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for chart-of-accounts data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its hierarchical code (e.g. "4.1.1").
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// ListAccounts retrieves all accounts, ordered by code.
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// AccountWriter defines write operations for chart-of-accounts data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's details. Balance is not
	// touched here; it moves only through transaction posting.
	UpdateAccount(ctx context.Context, account domain.Account) error
}

// TransactionReader defines read operations for ledger transaction data
type TransactionReader interface {
	// FindTransactionByID retrieves a specific ledger transaction.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.LedgerTransaction, error)

	// ListTransactionsByDateRange retrieves a paginated list of transactions
	// within a date range using token-based pagination.
	ListTransactionsByDateRange(ctx context.Context, rng domain.DateRange, limit int, nextToken *string) ([]domain.LedgerTransaction, *string, error)

	// FindTransactionsByReference retrieves all transactions carrying a given reference.
	FindTransactionsByReference(ctx context.Context, reference string) ([]domain.LedgerTransaction, error)
}

// LedgerTransactionSupport defines operations that participate in a
// caller-owned database transaction.
type LedgerTransactionSupport interface {
	// FindAccountByIDForUpdate selects an account and locks its row so
	// concurrent balance mutations serialize.
	FindAccountByIDForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error)

	// InsertTransactionInTx inserts a ledger transaction within a given transaction.
	InsertTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.LedgerTransaction) error

	// IncrementAccountBalanceInTx applies delta to an account's balance within
	// a given transaction. Delta may be negative.
	IncrementAccountBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, delta decimal.Decimal, actor string) error
}

// LedgerWriter defines standalone write operations for ledger transactions
type LedgerWriter interface {
	// SaveTransaction persists a transaction and applies its balance change to
	// the target account in one database transaction.
	SaveTransaction(ctx context.Context, txn domain.LedgerTransaction, balanceDelta decimal.Decimal) error
}

// LedgerRepositoryFacade combines all ledger-related repository interfaces
// This is a facade for clients that need access to all operations
type LedgerRepositoryFacade interface {
	AccountReader
	AccountWriter
	TransactionReader
	LedgerTransactionSupport
	LedgerWriter
}

// LedgerRepositoryWithTx extends LedgerRepositoryFacade with transaction capabilities
type LedgerRepositoryWithTx interface {
	LedgerRepositoryFacade
	TransactionManager
}
