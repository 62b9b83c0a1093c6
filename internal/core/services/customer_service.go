package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/retailtrack/retail_mgmt_app/internal/apperrors"
	"github.com/retailtrack/retail_mgmt_app/internal/core/domain"
	portsrepo "github.com/retailtrack/retail_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/retailtrack/retail_mgmt_app/internal/core/ports/services"
	"github.com/retailtrack/retail_mgmt_app/internal/dto"
	"github.com/retailtrack/retail_mgmt_app/internal/middleware"
)

var ErrDuplicateCustomerDocument = errors.New("a customer with this document already exists")

// customerService provides CRM operations.
type customerService struct {
	customerRepo portsrepo.CustomerRepositoryFacade
}

// NewCustomerService creates a new CustomerService.
func NewCustomerService(customerRepo portsrepo.CustomerRepositoryFacade) portssvc.CustomerSvcFacade {
	return &customerService{customerRepo: customerRepo}
}

// Ensure customerService implements the portssvc.CustomerSvcFacade interface
var _ portssvc.CustomerSvcFacade = (*customerService)(nil)

// CreateCustomer persists a new customer.
func (s *customerService) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest, actor string) (*domain.Customer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	customer := domain.Customer{
		CustomerID: uuid.NewString(),
		Name:       req.Name,
		DocumentID: req.DocumentID,
		Phone:      req.Phone,
		Email:      req.Email,
		Address:    req.Address,
		IsActive:   true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	if err := s.customerRepo.SaveCustomer(ctx, customer); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: document %s", ErrDuplicateCustomerDocument, req.DocumentID)
		}
		logger.Error("Failed to save customer", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}

	logger.Info("Customer created successfully", slog.String("customer_id", customer.CustomerID))
	return &customer, nil
}

// UpdateCustomer applies the provided fields to an existing customer.
func (s *customerService) UpdateCustomer(ctx context.Context, customerID string, req dto.UpdateCustomerRequest, actor string) (*domain.Customer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	customer, err := s.customerRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find customer %s: %w", customerID, err)
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.DocumentID != nil {
		customer.DocumentID = *req.DocumentID
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	if req.IsActive != nil {
		customer.IsActive = *req.IsActive
	}

	now := time.Now().UTC()
	customer.LastUpdatedAt = now
	customer.LastUpdatedBy = actor

	if err := s.customerRepo.UpdateCustomer(ctx, *customer); err != nil {
		logger.Error("Failed to update customer", slog.String("error", err.Error()), slog.String("customer_id", customerID))
		return nil, fmt.Errorf("failed to update customer %s: %w", customerID, err)
	}

	logger.Info("Customer updated successfully", slog.String("customer_id", customerID))
	return customer, nil
}

// DeactivateCustomer marks a customer as inactive.
func (s *customerService) DeactivateCustomer(ctx context.Context, customerID string, actor string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.customerRepo.DeactivateCustomer(ctx, customerID, actor, time.Now().UTC()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to deactivate customer", slog.String("error", err.Error()), slog.String("customer_id", customerID))
		}
		return fmt.Errorf("failed to deactivate customer %s: %w", customerID, err)
	}

	logger.Info("Customer deactivated", slog.String("customer_id", customerID))
	return nil
}

// GetCustomerByID retrieves a specific customer.
func (s *customerService) GetCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	customer, err := s.customerRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find customer by ID %s: %w", customerID, err)
	}
	return customer, nil
}

// ListCustomers retrieves a paginated list of customers.
func (s *customerService) ListCustomers(ctx context.Context, params dto.ListCustomersParams) (*dto.ListCustomersResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	customers, nextToken, err := s.customerRepo.ListCustomers(ctx, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list customers", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	return &dto.ListCustomersResponse{
		Customers: dto.ToListCustomerResponse(customers),
		NextToken: nextToken,
	}, nil
}
