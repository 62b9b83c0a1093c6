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

type PurchaseServiceTestSuite struct {
	suite.Suite
	mockPurchaseRepo *MockPurchaseRepository
	mockProductRepo  *MockProductRepository
	mockLedgerRepo   *MockLedgerRepository
	service          portssvc.PurchaseSvcFacade
	actor            string
	product          domain.Product
	inventoryAcct    *domain.Account
}

func (suite *PurchaseServiceTestSuite) SetupTest() {
	suite.mockPurchaseRepo = new(MockPurchaseRepository)
	suite.mockProductRepo = new(MockProductRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.service = services.NewPurchaseService(suite.mockPurchaseRepo, suite.mockProductRepo, suite.mockLedgerRepo, "1.1.3")
	suite.actor = "bodeguero1"
	suite.product = domain.Product{
		ProductID: uuid.NewString(),
		Code:      "SKU-001",
		Name:      "Café molido 500g",
		UnitPrice: decimal.RequireFromString("10.50"),
		UnitCost:  decimal.RequireFromString("6.00"),
		Stock:     20,
		MinStock:  5,
		IsActive:  true,
	}
	suite.inventoryAcct = &domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "1.1.3",
		Name:        "Inventario",
		AccountType: domain.Asset,
		IsActive:    true,
	}
}

func (suite *PurchaseServiceTestSuite) expectLookups(ctx context.Context) {
	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{suite.product.ProductID}).
		Return(map[string]domain.Product{suite.product.ProductID: suite.product}, nil).Once()
	suite.mockLedgerRepo.On("FindAccountByCode", ctx, "1.1.3").Return(suite.inventoryAcct, nil).Once()
}

func (suite *PurchaseServiceTestSuite) TestPostPurchase_UsesCatalogCost() {
	ctx := context.Background()
	req := dto.CreatePurchaseRequest{
		Supplier: "Distribuidora Norte",
		Lines: []dto.CreatePurchaseLineRequest{
			{ProductID: suite.product.ProductID, Quantity: 10},
		},
	}
	// 10 * 6.00 at the catalog cost.
	wantTotal := decimal.RequireFromString("60.00")

	suite.expectLookups(ctx)
	suite.mockPurchaseRepo.On("PostPurchase", ctx,
		mock.MatchedBy(func(p domain.Purchase) bool {
			return p.Total.Equal(wantTotal) &&
				p.Status == domain.PurchaseReceived &&
				len(p.Lines) == 1 &&
				p.Lines[0].UnitCost.Equal(decimal.RequireFromString("6.00"))
		}),
		mock.MatchedBy(func(txn domain.LedgerTransaction) bool {
			return txn.Kind == domain.TxnExpense &&
				txn.AccountID == suite.inventoryAcct.AccountID &&
				txn.Amount.Equal(wantTotal) &&
				txn.Category == "Compras"
		}),
		mock.MatchedBy(func(delta decimal.Decimal) bool {
			return delta.Equal(wantTotal.Neg())
		}),
	).Return(nil).Once()

	purchase, err := suite.service.PostPurchase(ctx, req, suite.actor)

	suite.Require().NoError(err)
	suite.True(purchase.Total.Equal(wantTotal))
	suite.mockPurchaseRepo.AssertExpectations(suite.T())
	suite.mockProductRepo.AssertExpectations(suite.T())
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *PurchaseServiceTestSuite) TestPostPurchase_RequestCostOverridesCatalog() {
	ctx := context.Background()
	override := decimal.RequireFromString("5.50")
	req := dto.CreatePurchaseRequest{
		Supplier: "Distribuidora Norte",
		Lines: []dto.CreatePurchaseLineRequest{
			{ProductID: suite.product.ProductID, Quantity: 4, UnitCost: &override},
		},
	}

	suite.expectLookups(ctx)
	suite.mockPurchaseRepo.On("PostPurchase", ctx,
		mock.MatchedBy(func(p domain.Purchase) bool {
			return p.Lines[0].UnitCost.Equal(override) && p.Total.Equal(decimal.RequireFromString("22.00"))
		}),
		mock.AnythingOfType("domain.LedgerTransaction"),
		mock.AnythingOfType("decimal.Decimal"),
	).Return(nil).Once()

	_, err := suite.service.PostPurchase(ctx, req, suite.actor)

	suite.Require().NoError(err)
	suite.mockPurchaseRepo.AssertExpectations(suite.T())
}

func (suite *PurchaseServiceTestSuite) TestPostPurchase_MergesDuplicateLinesKeepingFirstCost() {
	ctx := context.Background()
	firstCost := decimal.RequireFromString("5.00")
	secondCost := decimal.RequireFromString("9.99")
	req := dto.CreatePurchaseRequest{
		Lines: []dto.CreatePurchaseLineRequest{
			{ProductID: suite.product.ProductID, Quantity: 3, UnitCost: &firstCost},
			{ProductID: suite.product.ProductID, Quantity: 2, UnitCost: &secondCost},
		},
	}

	suite.expectLookups(ctx)
	suite.mockPurchaseRepo.On("PostPurchase", ctx,
		mock.MatchedBy(func(p domain.Purchase) bool {
			return len(p.Lines) == 1 &&
				p.Lines[0].Quantity == 5 &&
				p.Lines[0].UnitCost.Equal(firstCost) &&
				p.Total.Equal(decimal.RequireFromString("25.00"))
		}),
		mock.AnythingOfType("domain.LedgerTransaction"),
		mock.AnythingOfType("decimal.Decimal"),
	).Return(nil).Once()

	_, err := suite.service.PostPurchase(ctx, req, suite.actor)

	suite.Require().NoError(err)
	suite.mockPurchaseRepo.AssertExpectations(suite.T())
}

func (suite *PurchaseServiceTestSuite) TestPostPurchase_EmptyLines() {
	ctx := context.Background()

	_, err := suite.service.PostPurchase(ctx, dto.CreatePurchaseRequest{}, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEmptyPurchase)
	suite.mockProductRepo.AssertNotCalled(suite.T(), "FindProductsByIDs", mock.Anything, mock.Anything)
}

func (suite *PurchaseServiceTestSuite) TestPostPurchase_UnknownProduct() {
	ctx := context.Background()
	unknownID := uuid.NewString()
	req := dto.CreatePurchaseRequest{
		Lines: []dto.CreatePurchaseLineRequest{{ProductID: unknownID, Quantity: 1}},
	}

	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{unknownID}).
		Return(map[string]domain.Product{}, nil).Once()

	_, err := suite.service.PostPurchase(ctx, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrUnknownProduct)
	suite.mockPurchaseRepo.AssertNotCalled(suite.T(), "PostPurchase", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PurchaseServiceTestSuite) TestPostPurchase_NegativeCost() {
	ctx := context.Background()
	bad := decimal.RequireFromString("-1.00")
	req := dto.CreatePurchaseRequest{
		Lines: []dto.CreatePurchaseLineRequest{
			{ProductID: suite.product.ProductID, Quantity: 1, UnitCost: &bad},
		},
	}

	suite.expectLookups(ctx)

	_, err := suite.service.PostPurchase(ctx, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockPurchaseRepo.AssertNotCalled(suite.T(), "PostPurchase", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PurchaseServiceTestSuite) TestPostPurchase_MissingInventoryAccount() {
	ctx := context.Background()
	req := dto.CreatePurchaseRequest{
		Lines: []dto.CreatePurchaseLineRequest{{ProductID: suite.product.ProductID, Quantity: 1}},
	}

	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{suite.product.ProductID}).
		Return(map[string]domain.Product{suite.product.ProductID: suite.product}, nil).Once()
	suite.mockLedgerRepo.On("FindAccountByCode", ctx, "1.1.3").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.PostPurchase(ctx, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrLedgerPostingFailed)
}

func (suite *PurchaseServiceTestSuite) TestListPurchases_DefaultsLimit() {
	ctx := context.Background()

	suite.mockPurchaseRepo.On("ListPurchasesByDateRange", ctx, mock.AnythingOfType("domain.DateRange"), 20, (*string)(nil)).
		Return([]domain.Purchase{}, nil, nil).Once()

	resp, err := suite.service.ListPurchases(ctx, dto.ListPurchasesParams{})

	suite.Require().NoError(err)
	suite.Empty(resp.Purchases)
	suite.mockPurchaseRepo.AssertExpectations(suite.T())
}

func TestPurchaseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PurchaseServiceTestSuite))
}
