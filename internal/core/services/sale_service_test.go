package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

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

type SaleServiceTestSuite struct {
	suite.Suite
	mockSaleRepo     *MockSaleRepository
	mockProductRepo  *MockProductRepository
	mockCustomerRepo *MockCustomerRepository
	mockLedgerRepo   *MockLedgerRepository
	service          portssvc.SaleSvcFacade
	customer         domain.Customer
	product          domain.Product
	salesAccount     domain.Account
	actor            string
}

func (suite *SaleServiceTestSuite) SetupTest() {
	suite.mockSaleRepo = new(MockSaleRepository)
	suite.mockProductRepo = new(MockProductRepository)
	suite.mockCustomerRepo = new(MockCustomerRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.service = services.NewSaleService(
		suite.mockSaleRepo,
		suite.mockProductRepo,
		suite.mockCustomerRepo,
		suite.mockLedgerRepo,
		services.SaleServiceConfig{
			SalesAccountCode: "4.1.1",
			TaxRate:          decimal.RequireFromString("0.16"),
			DiscountRate:     decimal.Zero,
			MaxRetries:       3,
		},
	)

	suite.actor = "cajero1"
	suite.customer = domain.Customer{
		CustomerID: uuid.NewString(),
		Name:       "María López",
		IsActive:   true,
	}
	suite.product = domain.Product{
		ProductID: uuid.NewString(),
		Code:      "SKU-001",
		Name:      "Café molido 500g",
		UnitPrice: decimal.RequireFromString("10.50"),
		Stock:     20,
		MinStock:  5,
		IsActive:  true,
	}
	suite.salesAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "4.1.1",
		Name:        "Ingresos por Ventas",
		AccountType: domain.Income,
		IsActive:    true,
		Balance:     decimal.Zero,
	}
}

func (suite *SaleServiceTestSuite) saleRequest(quantity int64) dto.CreateSaleRequest {
	return dto.CreateSaleRequest{
		CustomerID:    suite.customer.CustomerID,
		PaymentMethod: string(domain.PaymentCash),
		Lines: []dto.CreateSaleLineRequest{
			{ProductID: suite.product.ProductID, Quantity: quantity},
		},
	}
}

func (suite *SaleServiceTestSuite) expectHappyPathLookups(ctx context.Context) {
	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.customer.CustomerID).Return(&suite.customer, nil)
	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{suite.product.ProductID}).
		Return(map[string]domain.Product{suite.product.ProductID: suite.product}, nil)
	suite.mockLedgerRepo.On("FindAccountByCode", ctx, "4.1.1").Return(&suite.salesAccount, nil)
}

func (suite *SaleServiceTestSuite) TestPostSale_Success() {
	ctx := context.Background()
	req := suite.saleRequest(2)

	suite.expectHappyPathLookups(ctx)
	suite.mockSaleRepo.On("PostSale", ctx,
		mock.AnythingOfType("domain.Sale"),
		mock.AnythingOfType("domain.LedgerTransaction"),
		mock.AnythingOfType("decimal.Decimal"),
	).Return(nil).Once()

	posted, err := suite.service.PostSale(ctx, req, suite.actor)

	suite.Require().NoError(err)
	suite.Require().NotNil(posted)
	suite.NotEmpty(posted.SaleID)
	suite.Equal(domain.SaleCompleted, posted.Status)
	suite.Equal(suite.actor, posted.CreatedBy)
	// 2 * 10.50 = 21.00 subtotal, 16% tax = 3.36
	suite.True(posted.Subtotal.Equal(decimal.RequireFromString("21.00")), "subtotal was %s", posted.Subtotal)
	suite.True(posted.Tax.Equal(decimal.RequireFromString("3.36")), "tax was %s", posted.Tax)
	suite.True(posted.Discount.IsZero())
	suite.True(posted.Total.Equal(decimal.RequireFromString("24.36")), "total was %s", posted.Total)
	suite.Require().Len(posted.Lines, 1)
	suite.Equal(int64(2), posted.Lines[0].Quantity)

	suite.mockSaleRepo.AssertExpectations(suite.T())
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *SaleServiceTestSuite) TestPostSale_LedgerEntryMatchesSale() {
	ctx := context.Background()
	req := suite.saleRequest(1)

	suite.expectHappyPathLookups(ctx)
	expectedTotal := decimal.RequireFromString("12.18") // 10.50 + 16% tax
	suite.mockSaleRepo.On("PostSale", ctx,
		mock.AnythingOfType("domain.Sale"),
		mock.MatchedBy(func(txn domain.LedgerTransaction) bool {
			return txn.Kind == domain.TxnIncome &&
				txn.AccountID == suite.salesAccount.AccountID &&
				txn.Amount.Equal(expectedTotal) &&
				txn.Category == "Ventas"
		}),
		mock.MatchedBy(func(delta decimal.Decimal) bool {
			return delta.Equal(expectedTotal)
		}),
	).Return(nil).Once()

	_, err := suite.service.PostSale(ctx, req, suite.actor)

	suite.Require().NoError(err)
	suite.mockSaleRepo.AssertExpectations(suite.T())
}

func (suite *SaleServiceTestSuite) TestPostSale_EmptyLines() {
	ctx := context.Background()
	req := dto.CreateSaleRequest{CustomerID: suite.customer.CustomerID, PaymentMethod: string(domain.PaymentCash)}

	_, err := suite.service.PostSale(ctx, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEmptySale)
	suite.mockCustomerRepo.AssertNotCalled(suite.T(), "FindCustomerByID", mock.Anything, mock.Anything)
}

func (suite *SaleServiceTestSuite) TestPostSale_UnknownCustomer() {
	ctx := context.Background()
	req := suite.saleRequest(1)

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.customer.CustomerID).Return(nil, apperrors.ErrNotFound)

	_, err := suite.service.PostSale(ctx, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrUnknownCustomer)
	suite.mockSaleRepo.AssertNotCalled(suite.T(), "PostSale", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SaleServiceTestSuite) TestPostSale_InactiveCustomer() {
	ctx := context.Background()
	req := suite.saleRequest(1)
	inactive := suite.customer
	inactive.IsActive = false

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.customer.CustomerID).Return(&inactive, nil)

	_, err := suite.service.PostSale(ctx, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrUnknownCustomer)
}

func (suite *SaleServiceTestSuite) TestPostSale_UnknownProduct() {
	ctx := context.Background()
	req := suite.saleRequest(1)

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.customer.CustomerID).Return(&suite.customer, nil)
	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{suite.product.ProductID}).
		Return(map[string]domain.Product{}, nil)

	_, err := suite.service.PostSale(ctx, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrUnknownProduct)
	suite.mockSaleRepo.AssertNotCalled(suite.T(), "PostSale", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SaleServiceTestSuite) TestPostSale_InsufficientStock() {
	ctx := context.Background()
	req := suite.saleRequest(50)

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.customer.CustomerID).Return(&suite.customer, nil)
	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{suite.product.ProductID}).
		Return(map[string]domain.Product{suite.product.ProductID: suite.product}, nil)

	_, err := suite.service.PostSale(ctx, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInsufficientStock)
	var stockErr *services.InsufficientStockError
	suite.Require().ErrorAs(err, &stockErr)
	suite.Equal(suite.product.ProductID, stockErr.ProductID)
	suite.Equal(int64(50), stockErr.Requested)
	suite.Equal(int64(20), stockErr.Available)
	suite.mockSaleRepo.AssertNotCalled(suite.T(), "PostSale", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SaleServiceTestSuite) TestPostSale_MergesDuplicateLines() {
	ctx := context.Background()
	req := dto.CreateSaleRequest{
		CustomerID:    suite.customer.CustomerID,
		PaymentMethod: string(domain.PaymentCard),
		Lines: []dto.CreateSaleLineRequest{
			{ProductID: suite.product.ProductID, Quantity: 2},
			{ProductID: suite.product.ProductID, Quantity: 3},
		},
	}

	suite.expectHappyPathLookups(ctx)
	suite.mockSaleRepo.On("PostSale", ctx,
		mock.MatchedBy(func(sale domain.Sale) bool {
			return len(sale.Lines) == 1 && sale.Lines[0].Quantity == 5
		}),
		mock.AnythingOfType("domain.LedgerTransaction"),
		mock.AnythingOfType("decimal.Decimal"),
	).Return(nil).Once()

	posted, err := suite.service.PostSale(ctx, req, suite.actor)

	suite.Require().NoError(err)
	suite.Require().Len(posted.Lines, 1)
	suite.Equal(int64(5), posted.Lines[0].Quantity)
	suite.mockSaleRepo.AssertExpectations(suite.T())
}

func (suite *SaleServiceTestSuite) TestPostSale_RetriesOnConflictThenSucceeds() {
	ctx := context.Background()
	req := suite.saleRequest(2)
	conflictErr := fmt.Errorf("%w: insufficient stock for product %s", apperrors.ErrConflict, suite.product.ProductID)

	suite.expectHappyPathLookups(ctx)
	suite.mockSaleRepo.On("PostSale", ctx, mock.AnythingOfType("domain.Sale"), mock.AnythingOfType("domain.LedgerTransaction"), mock.AnythingOfType("decimal.Decimal")).
		Return(conflictErr).Twice()
	suite.mockSaleRepo.On("PostSale", ctx, mock.AnythingOfType("domain.Sale"), mock.AnythingOfType("domain.LedgerTransaction"), mock.AnythingOfType("decimal.Decimal")).
		Return(nil).Once()

	posted, err := suite.service.PostSale(ctx, req, suite.actor)

	suite.Require().NoError(err)
	suite.Require().NotNil(posted)
	suite.mockSaleRepo.AssertNumberOfCalls(suite.T(), "PostSale", 3)
}

func (suite *SaleServiceTestSuite) TestPostSale_ConflictRetriesExhausted() {
	ctx := context.Background()
	req := suite.saleRequest(2)
	conflictErr := fmt.Errorf("%w: insufficient stock for product %s", apperrors.ErrConflict, suite.product.ProductID)

	suite.expectHappyPathLookups(ctx)
	suite.mockSaleRepo.On("PostSale", ctx, mock.AnythingOfType("domain.Sale"), mock.AnythingOfType("domain.LedgerTransaction"), mock.AnythingOfType("decimal.Decimal")).
		Return(conflictErr).Times(3)

	_, err := suite.service.PostSale(ctx, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPostingConflict)
	suite.mockSaleRepo.AssertNumberOfCalls(suite.T(), "PostSale", 3)
}

func (suite *SaleServiceTestSuite) TestPostSale_AmbiguousCommitNotRetried() {
	ctx := context.Background()
	req := suite.saleRequest(2)
	// A context deadline during commit leaves the outcome unknown: the sale
	// may be durably recorded without a confirmed ledger leg. The repository
	// reports it as ErrLedgerPostingFailed and the service must surface it
	// as-is instead of retrying, or a committed sale would be posted twice.
	commitErr := fmt.Errorf("%w: commit outcome unknown for sale abc: %v",
		apperrors.ErrLedgerPostingFailed, context.DeadlineExceeded)

	suite.expectHappyPathLookups(ctx)
	suite.mockSaleRepo.On("PostSale", ctx, mock.AnythingOfType("domain.Sale"), mock.AnythingOfType("domain.LedgerTransaction"), mock.AnythingOfType("decimal.Decimal")).
		Return(commitErr).Once()

	_, err := suite.service.PostSale(ctx, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrLedgerPostingFailed)
	suite.NotErrorIs(err, services.ErrPostingConflict)
	suite.mockSaleRepo.AssertNumberOfCalls(suite.T(), "PostSale", 1)
}

func (suite *SaleServiceTestSuite) TestPostSale_MissingSalesAccount() {
	ctx := context.Background()
	req := suite.saleRequest(1)

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.customer.CustomerID).Return(&suite.customer, nil)
	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{suite.product.ProductID}).
		Return(map[string]domain.Product{suite.product.ProductID: suite.product}, nil)
	suite.mockLedgerRepo.On("FindAccountByCode", ctx, "4.1.1").Return(nil, apperrors.ErrNotFound)

	_, err := suite.service.PostSale(ctx, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrLedgerPostingFailed)
	suite.mockSaleRepo.AssertNotCalled(suite.T(), "PostSale", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SaleServiceTestSuite) TestVoidSale_Success() {
	ctx := context.Background()
	saleID := uuid.NewString()
	total := decimal.RequireFromString("24.36")
	completed := &domain.Sale{
		SaleID:     saleID,
		CustomerID: suite.customer.CustomerID,
		Status:     domain.SaleCompleted,
		Total:      total,
	}

	suite.mockSaleRepo.On("FindSaleByID", ctx, saleID).Return(completed, nil)
	suite.mockLedgerRepo.On("FindAccountByCode", ctx, "4.1.1").Return(&suite.salesAccount, nil)
	suite.mockSaleRepo.On("VoidSale", ctx, saleID,
		mock.MatchedBy(func(reversal domain.LedgerTransaction) bool {
			return reversal.Kind == domain.TxnExpense && reversal.Amount.Equal(total)
		}),
		mock.MatchedBy(func(delta decimal.Decimal) bool {
			return delta.Equal(total.Neg())
		}),
		suite.actor,
		mock.AnythingOfType("time.Time"),
	).Return(nil).Once()

	voided, err := suite.service.VoidSale(ctx, saleID, suite.actor)

	suite.Require().NoError(err)
	suite.Require().NotNil(voided)
	suite.Equal(domain.SaleVoided, voided.Status)
	suite.Equal(suite.actor, voided.LastUpdatedBy)
	suite.mockSaleRepo.AssertExpectations(suite.T())
}

func (suite *SaleServiceTestSuite) TestVoidSale_AlreadyVoided() {
	ctx := context.Background()
	saleID := uuid.NewString()
	voided := &domain.Sale{SaleID: saleID, Status: domain.SaleVoided}

	suite.mockSaleRepo.On("FindSaleByID", ctx, saleID).Return(voided, nil)

	_, err := suite.service.VoidSale(ctx, saleID, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrSaleAlreadyVoided)
	suite.mockSaleRepo.AssertNotCalled(suite.T(), "VoidSale", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SaleServiceTestSuite) TestVoidSale_NotFound() {
	ctx := context.Background()
	saleID := uuid.NewString()

	suite.mockSaleRepo.On("FindSaleByID", ctx, saleID).Return(nil, apperrors.ErrNotFound)

	_, err := suite.service.VoidSale(ctx, saleID, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *SaleServiceTestSuite) TestGetSaleByID_Success() {
	ctx := context.Background()
	saleID := uuid.NewString()
	expected := &domain.Sale{SaleID: saleID, Status: domain.SaleCompleted}

	suite.mockSaleRepo.On("FindSaleByID", ctx, saleID).Return(expected, nil)

	sale, err := suite.service.GetSaleByID(ctx, saleID)

	suite.Require().NoError(err)
	suite.Equal(expected, sale)
}

func (suite *SaleServiceTestSuite) TestListSales_DefaultsLimit() {
	ctx := context.Background()
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	params := dto.ListSalesParams{From: from, To: to}

	suite.mockSaleRepo.On("ListSalesByDateRange", ctx, domain.DateRange{From: from, To: to}, 20, (*string)(nil), false).
		Return([]domain.Sale{{SaleID: uuid.NewString()}}, nil, nil)

	resp, err := suite.service.ListSales(ctx, params)

	suite.Require().NoError(err)
	suite.Len(resp.Sales, 1)
	suite.Nil(resp.NextToken)
	suite.mockSaleRepo.AssertExpectations(suite.T())
}

func TestSaleServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SaleServiceTestSuite))
}
