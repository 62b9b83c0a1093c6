package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailtrack/retail_mgmt_app/internal/apperrors"
	"github.com/retailtrack/retail_mgmt_app/internal/core/domain"
	portsrepo "github.com/retailtrack/retail_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/retailtrack/retail_mgmt_app/internal/core/ports/services"
	"github.com/retailtrack/retail_mgmt_app/internal/dto"
	"github.com/retailtrack/retail_mgmt_app/internal/middleware"
	"github.com/retailtrack/retail_mgmt_app/internal/utils/accounting"
)

var (
	ErrDuplicateAccountCode = errors.New("an account with this code already exists")
	ErrNonPositiveAmount    = errors.New("transaction amount must be positive")
)

// ledgerService provides chart-of-accounts and transaction operations.
type ledgerService struct {
	ledgerRepo portsrepo.LedgerRepositoryFacade
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{ledgerRepo: ledgerRepo}
}

// Ensure ledgerService implements the portssvc.LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// CreateAccount persists a new account with a zero opening balance.
func (s *ledgerService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actor string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		Code:        req.Code,
		Name:        req.Name,
		AccountType: req.AccountType,
		Description: req.Description,
		IsActive:    true,
		Balance:     decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	if err := s.ledgerRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: code %s", ErrDuplicateAccountCode, req.Code)
		}
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created successfully", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

// UpdateAccount applies the provided fields to an existing account.
// Code, type and balance never change after creation.
func (s *ledgerService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, actor string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.ledgerRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}

	now := time.Now().UTC()
	account.LastUpdatedAt = now
	account.LastUpdatedBy = actor

	if err := s.ledgerRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account %s: %w", accountID, err)
	}

	logger.Info("Account updated successfully", slog.String("account_id", accountID))
	return account, nil
}

// GetAccountByID retrieves a specific account.
func (s *ledgerService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.ledgerRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	return account, nil
}

// GetAccountByCode retrieves an account by its hierarchical code.
func (s *ledgerService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.ledgerRepo.FindAccountByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to find account by code %s: %w", code, err)
	}
	return account, nil
}

// ListAccounts retrieves all accounts ordered by code.
func (s *ledgerService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.ledgerRepo.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// RecordTransaction persists a manual ledger transaction and applies its
// balance change to the target account.
func (s *ledgerService) RecordTransaction(ctx context.Context, req dto.CreateTransactionRequest, actor string) (*domain.LedgerTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: got %s", ErrNonPositiveAmount, req.Amount.String())
	}

	account, err := s.ledgerRepo.FindAccountByCode(ctx, req.AccountCode)
	if err != nil {
		return nil, fmt.Errorf("failed to find account by code %s: %w", req.AccountCode, err)
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, req.AccountCode)
	}

	now := time.Now().UTC()
	txnDate := now
	if req.TxnDate != nil {
		txnDate = req.TxnDate.UTC()
	}

	txn := domain.LedgerTransaction{
		TransactionID: uuid.NewString(),
		TxnDate:       txnDate,
		AccountID:     account.AccountID,
		AccountName:   account.Name,
		Kind:          domain.TransactionKind(req.Kind),
		Amount:        req.Amount,
		Reference:     req.Reference,
		Category:      req.Category,
		Notes:         req.Notes,
		Status:        domain.TxnPosted,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	balanceDelta, err := accounting.BalanceDelta(txn.Kind, txn.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	if err := s.ledgerRepo.SaveTransaction(ctx, txn, balanceDelta); err != nil {
		logger.Error("Failed to save transaction", slog.String("error", err.Error()), slog.String("account_id", account.AccountID))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	logger.Info("Transaction recorded successfully",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("account_code", req.AccountCode),
		slog.String("amount", txn.Amount.String()),
	)
	return &txn, nil
}

// GetTransactionByID retrieves a specific ledger transaction.
func (s *ledgerService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.LedgerTransaction, error) {
	txn, err := s.ledgerRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}
	return txn, nil
}

// ListTransactions retrieves a paginated list of transactions within a date range.
func (s *ledgerService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	rng := domain.DateRange{From: params.From, To: params.To}
	txns, nextToken, err := s.ledgerRepo.ListTransactionsByDateRange(ctx, rng, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list transactions", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}

// GetTransactionsByReference retrieves all transactions carrying a reference.
func (s *ledgerService) GetTransactionsByReference(ctx context.Context, reference string) ([]domain.LedgerTransaction, error) {
	txns, err := s.ledgerRepo.FindTransactionsByReference(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("failed to find transactions by reference %s: %w", reference, err)
	}
	return txns, nil
}
