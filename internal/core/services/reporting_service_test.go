package services_test

import (
	"context"
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

type ReportingServiceTestSuite struct {
	suite.Suite
	mockSaleRepo    *MockSaleRepository
	mockProductRepo *MockProductRepository
	service         portssvc.ReportingSvc
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockSaleRepo = new(MockSaleRepository)
	suite.mockProductRepo = new(MockProductRepository)
	suite.service = services.NewReportingService(suite.mockSaleRepo, suite.mockProductRepo)
}

func (suite *ReportingServiceTestSuite) TestGetSalesSummary_Success() {
	ctx := context.Background()
	from := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC)
	summary := &domain.SalesSummary{
		SaleCount:    3,
		VoidedCount:  1,
		GrossTotal:   decimal.RequireFromString("73.08"),
		TaxTotal:     decimal.RequireFromString("10.08"),
		UnitsSold:    6,
		AverageTotal: decimal.RequireFromString("24.36"),
	}

	suite.mockSaleRepo.On("SummarizeSales", ctx, domain.DateRange{From: from, To: to}).
		Return(summary, nil).Once()

	got, err := suite.service.GetSalesSummary(ctx, dto.SalesSummaryParams{From: from, To: to})

	suite.Require().NoError(err)
	suite.Equal(summary, got)
	suite.mockSaleRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestGetSalesSummary_InvalidRange() {
	ctx := context.Background()
	from := time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	_, err := suite.service.GetSalesSummary(ctx, dto.SalesSummaryParams{From: from, To: to})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "invalid date range")
	suite.mockSaleRepo.AssertNotCalled(suite.T(), "SummarizeSales", mock.Anything, mock.Anything)
}

func (suite *ReportingServiceTestSuite) TestGetLowStockReport() {
	ctx := context.Background()
	alerts := []domain.LowStockAlert{
		{ProductID: uuid.NewString(), Code: "SKU-001", Name: "Café molido 500g", Stock: 3, MinStock: 5},
	}

	suite.mockProductRepo.On("ListLowStockProducts", ctx).Return(alerts, nil).Once()

	got, err := suite.service.GetLowStockReport(ctx)

	suite.Require().NoError(err)
	suite.Equal(alerts, got)
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
