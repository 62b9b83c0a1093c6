package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/retailtrack/retail_mgmt_app/internal/apperrors"
	"github.com/retailtrack/retail_mgmt_app/internal/core/domain"
	portssvc "github.com/retailtrack/retail_mgmt_app/internal/core/ports/services"
	"github.com/retailtrack/retail_mgmt_app/internal/core/services"
	"github.com/retailtrack/retail_mgmt_app/internal/dto"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	mockLedgerRepo *MockLedgerRepository
	service        portssvc.LedgerSvcFacade
	actor          string
	account        *domain.Account
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.service = services.NewLedgerService(suite.mockLedgerRepo)
	suite.actor = "contador1"
	suite.account = &domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "5.1.1",
		Name:        "Gastos Operativos",
		AccountType: domain.Expense,
		IsActive:    true,
		Balance:     decimal.RequireFromString("150.00"),
	}
}

func (suite *LedgerServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        "4.1.2",
		Name:        "Otros Ingresos",
		AccountType: domain.Income,
	}

	suite.mockLedgerRepo.On("SaveAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Code == req.Code && a.Balance.IsZero() && a.IsActive && a.CreatedBy == suite.actor
	})).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, req, suite.actor)

	suite.Require().NoError(err)
	suite.NotEmpty(account.AccountID)
	suite.True(account.Balance.IsZero())
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestCreateAccount_DuplicateCode() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{Code: "4.1.1", Name: "Ingresos por Ventas", AccountType: domain.Income}

	suite.mockLedgerRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).
		Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.CreateAccount(ctx, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrDuplicateAccountCode)
}

func (suite *LedgerServiceTestSuite) TestUpdateAccount_PartialFields() {
	ctx := context.Background()
	newName := "Gastos Generales"
	inactive := false

	suite.mockLedgerRepo.On("FindAccountByID", ctx, suite.account.AccountID).Return(suite.account, nil).Once()
	suite.mockLedgerRepo.On("UpdateAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Name == newName && !a.IsActive && a.Code == "5.1.1" && a.LastUpdatedBy == suite.actor
	})).Return(nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, suite.account.AccountID, dto.UpdateAccountRequest{
		Name:     &newName,
		IsActive: &inactive,
	}, suite.actor)

	suite.Require().NoError(err)
	suite.Equal(newName, updated.Name)
	suite.False(updated.IsActive)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestRecordTransaction_IncomeRaisesBalance() {
	ctx := context.Background()
	income := &domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "4.1.1",
		Name:        "Ingresos por Ventas",
		AccountType: domain.Income,
		IsActive:    true,
	}
	req := dto.CreateTransactionRequest{
		AccountCode: "4.1.1",
		Kind:        string(domain.TxnIncome),
		Amount:      decimal.RequireFromString("250.00"),
		Category:    "Ventas",
	}

	suite.mockLedgerRepo.On("FindAccountByCode", ctx, "4.1.1").Return(income, nil).Once()
	suite.mockLedgerRepo.On("SaveTransaction", ctx,
		mock.MatchedBy(func(txn domain.LedgerTransaction) bool {
			return txn.AccountID == income.AccountID &&
				txn.Kind == domain.TxnIncome &&
				txn.Amount.Equal(decimal.RequireFromString("250.00")) &&
				txn.Status == domain.TxnPosted
		}),
		mock.MatchedBy(func(delta decimal.Decimal) bool {
			return delta.Equal(decimal.RequireFromString("250.00"))
		}),
	).Return(nil).Once()

	txn, err := suite.service.RecordTransaction(ctx, req, suite.actor)

	suite.Require().NoError(err)
	suite.Equal(income.Name, txn.AccountName)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestRecordTransaction_ExpenseLowersBalance() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		AccountCode: "5.1.1",
		Kind:        string(domain.TxnExpense),
		Amount:      decimal.RequireFromString("80.00"),
	}

	suite.mockLedgerRepo.On("FindAccountByCode", ctx, "5.1.1").Return(suite.account, nil).Once()
	suite.mockLedgerRepo.On("SaveTransaction", ctx,
		mock.AnythingOfType("domain.LedgerTransaction"),
		mock.MatchedBy(func(delta decimal.Decimal) bool {
			return delta.Equal(decimal.RequireFromString("-80.00"))
		}),
	).Return(nil).Once()

	_, err := suite.service.RecordTransaction(ctx, req, suite.actor)

	suite.Require().NoError(err)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestRecordTransaction_NonPositiveAmount() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		AccountCode: "5.1.1",
		Kind:        string(domain.TxnExpense),
		Amount:      decimal.Zero,
	}

	_, err := suite.service.RecordTransaction(ctx, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNonPositiveAmount)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestRecordTransaction_InactiveAccount() {
	ctx := context.Background()
	suite.account.IsActive = false
	req := dto.CreateTransactionRequest{
		AccountCode: "5.1.1",
		Kind:        string(domain.TxnExpense),
		Amount:      decimal.RequireFromString("10.00"),
	}

	suite.mockLedgerRepo.On("FindAccountByCode", ctx, "5.1.1").Return(suite.account, nil).Once()

	_, err := suite.service.RecordTransaction(ctx, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestRecordTransaction_AccountNotFound() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		AccountCode: "9.9.9",
		Kind:        string(domain.TxnIncome),
		Amount:      decimal.RequireFromString("10.00"),
	}

	suite.mockLedgerRepo.On("FindAccountByCode", ctx, "9.9.9").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.RecordTransaction(ctx, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestGetTransactionsByReference() {
	ctx := context.Background()
	txns := []domain.LedgerTransaction{
		{TransactionID: uuid.NewString(), Reference: "Venta-abc"},
	}

	suite.mockLedgerRepo.On("FindTransactionsByReference", ctx, "Venta-abc").Return(txns, nil).Once()

	got, err := suite.service.GetTransactionsByReference(ctx, "Venta-abc")

	suite.Require().NoError(err)
	suite.Equal(txns, got)
}

func (suite *LedgerServiceTestSuite) TestListTransactions_DefaultsLimit() {
	ctx := context.Background()

	suite.mockLedgerRepo.On("ListTransactionsByDateRange", ctx, mock.AnythingOfType("domain.DateRange"), 20, (*string)(nil)).
		Return([]domain.LedgerTransaction{}, nil, nil).Once()

	resp, err := suite.service.ListTransactions(ctx, dto.ListTransactionsParams{})

	suite.Require().NoError(err)
	suite.Empty(resp.Transactions)
	suite.Nil(resp.NextToken)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
