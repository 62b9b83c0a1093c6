package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/retailtrack/retail_mgmt_app/internal/apperrors"
	"github.com/retailtrack/retail_mgmt_app/internal/core/domain"
	portssvc "github.com/retailtrack/retail_mgmt_app/internal/core/ports/services"
	"github.com/retailtrack/retail_mgmt_app/internal/core/services"
	"github.com/retailtrack/retail_mgmt_app/internal/dto"
)

type CustomerServiceTestSuite struct {
	suite.Suite
	mockCustomerRepo *MockCustomerRepository
	service          portssvc.CustomerSvcFacade
	actor            string
}

func (suite *CustomerServiceTestSuite) SetupTest() {
	suite.mockCustomerRepo = new(MockCustomerRepository)
	suite.service = services.NewCustomerService(suite.mockCustomerRepo)
	suite.actor = "cajero1"
}

func (suite *CustomerServiceTestSuite) TestCreateCustomer_Success() {
	ctx := context.Background()
	req := dto.CreateCustomerRequest{
		Name:       "María López",
		DocumentID: "DNI-44556677",
		Email:      "maria@example.com",
	}

	suite.mockCustomerRepo.On("SaveCustomer", ctx, mock.MatchedBy(func(c domain.Customer) bool {
		return c.Name == req.Name && c.DocumentID == req.DocumentID && c.IsActive && c.CreatedBy == suite.actor
	})).Return(nil).Once()

	customer, err := suite.service.CreateCustomer(ctx, req, suite.actor)

	suite.Require().NoError(err)
	suite.NotEmpty(customer.CustomerID)
	suite.True(customer.IsActive)
	suite.mockCustomerRepo.AssertExpectations(suite.T())
}

func (suite *CustomerServiceTestSuite) TestCreateCustomer_DuplicateDocument() {
	ctx := context.Background()
	req := dto.CreateCustomerRequest{Name: "María López", DocumentID: "DNI-44556677"}

	suite.mockCustomerRepo.On("SaveCustomer", ctx, mock.AnythingOfType("domain.Customer")).
		Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.CreateCustomer(ctx, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrDuplicateCustomerDocument)
}

func (suite *CustomerServiceTestSuite) TestUpdateCustomer_PartialFields() {
	ctx := context.Background()
	customerID := uuid.NewString()
	existing := &domain.Customer{
		CustomerID: customerID,
		Name:       "María López",
		Phone:      "555-0100",
		IsActive:   true,
	}
	newPhone := "555-0199"

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, customerID).Return(existing, nil).Once()
	suite.mockCustomerRepo.On("UpdateCustomer", ctx, mock.MatchedBy(func(c domain.Customer) bool {
		return c.Phone == newPhone && c.Name == "María López" && c.LastUpdatedBy == suite.actor
	})).Return(nil).Once()

	updated, err := suite.service.UpdateCustomer(ctx, customerID, dto.UpdateCustomerRequest{Phone: &newPhone}, suite.actor)

	suite.Require().NoError(err)
	suite.Equal(newPhone, updated.Phone)
	suite.mockCustomerRepo.AssertExpectations(suite.T())
}

func (suite *CustomerServiceTestSuite) TestUpdateCustomer_NotFound() {
	ctx := context.Background()
	customerID := uuid.NewString()

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, customerID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.UpdateCustomer(ctx, customerID, dto.UpdateCustomerRequest{}, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockCustomerRepo.AssertNotCalled(suite.T(), "UpdateCustomer", mock.Anything, mock.Anything)
}

func (suite *CustomerServiceTestSuite) TestDeactivateCustomer_Success() {
	ctx := context.Background()
	customerID := uuid.NewString()

	suite.mockCustomerRepo.On("DeactivateCustomer", ctx, customerID, suite.actor, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	err := suite.service.DeactivateCustomer(ctx, customerID, suite.actor)

	suite.Require().NoError(err)
	suite.mockCustomerRepo.AssertExpectations(suite.T())
}

func (suite *CustomerServiceTestSuite) TestListCustomers_DefaultsLimit() {
	ctx := context.Background()

	suite.mockCustomerRepo.On("ListCustomers", ctx, 20, (*string)(nil)).
		Return([]domain.Customer{}, nil, nil).Once()

	resp, err := suite.service.ListCustomers(ctx, dto.ListCustomersParams{})

	suite.Require().NoError(err)
	suite.Empty(resp.Customers)
	suite.mockCustomerRepo.AssertExpectations(suite.T())
}

func TestCustomerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CustomerServiceTestSuite))
}
