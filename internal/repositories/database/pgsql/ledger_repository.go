package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/retailtrack/retail_mgmt_app/internal/apperrors"
	"github.com/retailtrack/retail_mgmt_app/internal/core/domain"
	portsrepo "github.com/retailtrack/retail_mgmt_app/internal/core/ports/repositories"
	"github.com/retailtrack/retail_mgmt_app/internal/models"
	"github.com/retailtrack/retail_mgmt_app/internal/utils/pagination"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for accounts and ledger transactions.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryWithTx {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryWithTx
var _ portsrepo.LedgerRepositoryWithTx = (*PgxLedgerRepository)(nil)

const accountColumns = `account_id, code, name, account_type, description, is_active, balance, created_at, created_by, last_updated_at, last_updated_by`

// Transaction rows are joined with accounts so callers get the account name
// without a second query.
const transactionColumns = `t.transaction_id, t.txn_date, t.account_id, a.name, t.kind, t.amount, t.reference, t.category, t.notes, t.status, t.created_at, t.created_by, t.last_updated_at, t.last_updated_by`

func toDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:   m.AccountID,
		Code:        m.Code,
		Name:        m.Name,
		AccountType: domain.AccountType(m.AccountType),
		Description: m.Description,
		IsActive:    m.IsActive,
		Balance:     m.Balance,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.Description,
		&m.IsActive,
		&m.Balance,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanTransaction(row pgx.Row) (domain.LedgerTransaction, error) {
	var t domain.LedgerTransaction
	err := row.Scan(
		&t.TransactionID,
		&t.TxnDate,
		&t.AccountID,
		&t.AccountName,
		&t.Kind,
		&t.Amount,
		&t.Reference,
		&t.Category,
		&t.Notes,
		&t.Status,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.LastUpdatedAt,
		&t.LastUpdatedBy,
	)
	return t, err
}

// SaveAccount inserts a new account.
func (r *PgxLedgerRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		account.AccountID,
		account.Code,
		account.Name,
		account.AccountType,
		account.Description,
		account.IsActive,
		account.Balance,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // Unique violation
				return fmt.Errorf("%w: account with code %s already exists", apperrors.ErrDuplicate, account.Code)
			}
		}
		return fmt.Errorf("failed to save account %s: %w", account.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxLedgerRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}

	d := toDomainAccount(m)
	return &d, nil
}

// FindAccountByCode retrieves an account by its hierarchical code.
func (r *PgxLedgerRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = $1;`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by code %s: %w", code, err)
	}

	d := toDomainAccount(m)
	return &d, nil
}

// ListAccounts retrieves all accounts ordered by code.
func (r *PgxLedgerRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY code;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		m, scanErr := scanAccount(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", scanErr)
		}
		accounts = append(accounts, toDomainAccount(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}

	return accounts, nil
}

// UpdateAccount updates an account's descriptive fields. Code, type and
// balance never change here.
func (r *PgxLedgerRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	query := `
		UPDATE accounts
		SET name = $2,
		    description = $3,
		    is_active = $4,
		    last_updated_at = $5,
		    last_updated_by = $6
		WHERE account_id = $1;
	`

	cmdTag, err := r.Pool.Exec(ctx, query,
		account.AccountID,
		account.Name,
		account.Description,
		account.IsActive,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", account.AccountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account " + account.AccountID + " not found for update")
	}
	return nil
}

// FindAccountByIDForUpdate retrieves an account and locks the row.
// Must be called within a transaction.
func (r *PgxLedgerRepository) FindAccountByIDForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1 FOR UPDATE;`

	m, err := scanAccount(tx.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock account %s: %w", accountID, err)
	}

	d := toDomainAccount(m)
	return &d, nil
}

// InsertTransactionInTx inserts a ledger transaction within a caller-owned transaction.
func (r *PgxLedgerRepository) InsertTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.LedgerTransaction) error {
	query := `
		INSERT INTO transactions (transaction_id, txn_date, account_id, kind, amount, reference, category, notes, status, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := tx.Exec(ctx, query,
		txn.TransactionID,
		txn.TxnDate,
		txn.AccountID,
		txn.Kind,
		txn.Amount,
		txn.Reference,
		txn.Category,
		txn.Notes,
		txn.Status,
		txn.CreatedAt,
		txn.CreatedBy,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", txn.TransactionID, err)
	}
	return nil
}

// IncrementAccountBalanceInTx applies delta to an account's balance within a
// caller-owned transaction. Delta may be negative.
func (r *PgxLedgerRepository) IncrementAccountBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, delta decimal.Decimal, actor string) error {
	if delta.IsZero() {
		return nil
	}

	// COALESCE guards against NULL balances on accounts created before the
	// column default existed.
	query := `
		UPDATE accounts
		SET balance = COALESCE(balance, 0) + $2, last_updated_at = NOW(), last_updated_by = $3
		WHERE account_id = $1;
	`

	cmdTag, err := tx.Exec(ctx, query, accountID, delta, actor)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s not found for balance update", apperrors.ErrNotFound, accountID)
	}
	return nil
}

// SaveTransaction persists a transaction and applies its balance change to the
// target account in one database transaction.
func (r *PgxLedgerRepository) SaveTransaction(ctx context.Context, txn domain.LedgerTransaction, balanceDelta decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	// Lock the account row first so concurrent postings serialize.
	if _, err := r.FindAccountByIDForUpdate(ctx, tx, txn.AccountID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: account %s not found for transaction", apperrors.ErrNotFound, txn.AccountID)
		}
		return err
	}

	if err := r.InsertTransactionInTx(ctx, tx, txn); err != nil {
		return err
	}
	if err := r.IncrementAccountBalanceInTx(ctx, tx, txn.AccountID, balanceDelta, txn.CreatedBy); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// FindTransactionByID retrieves a ledger transaction by its ID.
func (r *PgxLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.LedgerTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t
		JOIN accounts a ON t.account_id = a.account_id
		WHERE t.transaction_id = $1;
	`

	t, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}
	return &t, nil
}

// ListTransactionsByDateRange retrieves a paginated list of transactions
// within a date range using token-based pagination.
func (r *PgxLedgerRepository) ListTransactionsByDateRange(ctx context.Context, rng domain.DateRange, limit int, nextToken *string) ([]domain.LedgerTransaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + transactionColumns + `
		FROM transactions t
		JOIN accounts a ON t.account_id = a.account_id
		WHERE t.txn_date >= $1 AND t.txn_date <= $2
	`
	orderByClause := `ORDER BY t.txn_date DESC, t.created_at DESC`
	args := []interface{}{rng.From, rng.To}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastDate, lastCreatedAt)
		baseQuery += ` AND (t.txn_date, t.created_at) < ($3, $4)`
	}

	args = append(args, fetchLimit)
	query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	txns := make([]domain.LedgerTransaction, 0, fetchLimit)
	for rows.Next() {
		t, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row: %w", scanErr)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	var nextTokenVal *string
	results := txns
	if len(txns) > limit {
		last := txns[limit-1]
		token := pagination.EncodeToken(last.TxnDate, last.CreatedAt)
		nextTokenVal = &token
		results = txns[:limit]
	}

	return results, nextTokenVal, nil
}

// FindTransactionsByReference retrieves all transactions carrying a reference.
func (r *PgxLedgerRepository) FindTransactionsByReference(ctx context.Context, reference string) ([]domain.LedgerTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t
		JOIN accounts a ON t.account_id = a.account_id
		WHERE t.reference = $1
		ORDER BY t.created_at;
	`

	rows, err := r.Pool.Query(ctx, query, reference)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions by reference %s: %w", reference, err)
	}
	defer rows.Close()

	txns := []domain.LedgerTransaction{}
	for rows.Next() {
		t, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan transaction row for reference %s: %w", reference, scanErr)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows for reference %s: %w", reference, err)
	}

	return txns, nil
}
