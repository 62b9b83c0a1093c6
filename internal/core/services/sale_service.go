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
	"github.com/retailtrack/retail_mgmt_app/internal/metrics"
	"github.com/retailtrack/retail_mgmt_app/internal/middleware"
	"github.com/retailtrack/retail_mgmt_app/internal/utils/accounting"
)

var (
	ErrEmptySale         = errors.New("sale must have at least one line")
	ErrUnknownCustomer   = errors.New("customer not found or inactive")
	ErrUnknownProduct    = errors.New("product not found or inactive")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrPostingConflict   = errors.New("sale posting conflicted with a concurrent stock movement")
	ErrSaleAlreadyVoided = errors.New("sale is already voided")
)

// InsufficientStockError reports which product blocked a sale and by how much.
type InsufficientStockError struct {
	ProductID string
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d", e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// SaleServiceConfig carries the posting parameters resolved at startup.
type SaleServiceConfig struct {
	SalesAccountCode string
	TaxRate          decimal.Decimal
	DiscountRate     decimal.Decimal
	MaxRetries       int
}

// saleService provides the sale posting and void operations.
type saleService struct {
	saleRepo     portsrepo.SaleRepositoryFacade
	productRepo  portsrepo.ProductRepositoryFacade
	customerRepo portsrepo.CustomerRepositoryFacade
	ledgerRepo   portsrepo.LedgerRepositoryFacade
	cfg          SaleServiceConfig
}

// NewSaleService creates a new SaleService.
func NewSaleService(saleRepo portsrepo.SaleRepositoryFacade, productRepo portsrepo.ProductRepositoryFacade, customerRepo portsrepo.CustomerRepositoryFacade, ledgerRepo portsrepo.LedgerRepositoryFacade, cfg SaleServiceConfig) portssvc.SaleSvcFacade {
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 3
	}
	return &saleService{
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		ledgerRepo:   ledgerRepo,
		cfg:          cfg,
	}
}

// Ensure saleService implements the portssvc.SaleSvcFacade interface
var _ portssvc.SaleSvcFacade = (*saleService)(nil)

// PostSale validates and atomically posts a new sale. A posting that loses a
// stock race to a concurrent sale is re-validated and retried from scratch, so
// a genuine shortage discovered on retry surfaces as ErrInsufficientStock
// rather than a conflict.
func (s *saleService) PostSale(ctx context.Context, req dto.CreateSaleRequest, actor string) (*domain.Sale, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("%w", ErrEmptySale)
	}

	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxRetries; attempt++ {
		sale, err := s.postOnce(ctx, req, actor)
		if err == nil {
			metrics.SalesPostedTotal.Inc()
			logger.Info("Sale posted successfully",
				slog.String("sale_id", sale.SaleID),
				slog.String("total", sale.Total.String()),
				slog.Int("attempt", attempt),
			)
			return sale, nil
		}
		if !errors.Is(err, ErrPostingConflict) {
			return nil, err
		}
		metrics.SalePostingConflictsTotal.Inc()
		logger.Warn("Sale posting lost a stock race, retrying",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)
		lastErr = err
	}

	metrics.SalePostingFailuresTotal.Inc()
	logger.Error("Sale posting exhausted retries", slog.Int("max_retries", s.cfg.MaxRetries))
	return nil, fmt.Errorf("sale posting failed after %d attempts: %w", s.cfg.MaxRetries, lastErr)
}

// postOnce runs one full validate-and-post cycle.
func (s *saleService) postOnce(ctx context.Context, req dto.CreateSaleRequest, actor string) (*domain.Sale, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// --- Customer validation ---
	customer, err := s.customerRepo.FindCustomerByID(ctx, req.CustomerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %s", ErrUnknownCustomer, req.CustomerID)
		}
		logger.Error("Failed to fetch customer for sale posting", slog.String("error", err.Error()), slog.String("customer_id", req.CustomerID))
		return nil, fmt.Errorf("failed to fetch customer: %w", err)
	}
	if !customer.IsActive {
		return nil, fmt.Errorf("%w: ID %s", ErrUnknownCustomer, req.CustomerID)
	}

	// --- Merge duplicate product lines ---
	quantities := make(map[string]int64)
	order := make([]string, 0, len(req.Lines))
	for _, line := range req.Lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive for product %s", apperrors.ErrValidation, line.ProductID)
		}
		if _, seen := quantities[line.ProductID]; !seen {
			order = append(order, line.ProductID)
		}
		quantities[line.ProductID] += line.Quantity
	}

	// --- Product and stock validation ---
	productsMap, err := s.productRepo.FindProductsByIDs(ctx, order)
	if err != nil {
		logger.Error("Failed to fetch products for sale posting", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	for _, productID := range order {
		product, found := productsMap[productID]
		if !found || !product.IsActive {
			return nil, fmt.Errorf("%w: ID %s", ErrUnknownProduct, productID)
		}
		if product.Stock < quantities[productID] {
			return nil, &InsufficientStockError{
				ProductID: productID,
				Requested: quantities[productID],
				Available: product.Stock,
			}
		}
	}

	// --- Ledger account validation ---
	salesAccount, err := s.ledgerRepo.FindAccountByCode(ctx, s.cfg.SalesAccountCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Sales income account missing from chart of accounts", slog.String("code", s.cfg.SalesAccountCode))
			return nil, fmt.Errorf("%w: sales account %s not found", apperrors.ErrLedgerPostingFailed, s.cfg.SalesAccountCode)
		}
		return nil, fmt.Errorf("failed to fetch sales account: %w", err)
	}

	now := time.Now().UTC()
	saleDate := now
	if req.SaleDate != nil {
		saleDate = req.SaleDate.UTC()
	}
	saleID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     actor,
		LastUpdatedAt: now,
		LastUpdatedBy: actor,
	}

	// Prices are captured from the catalog at posting time.
	lines := make([]domain.SaleLine, len(order))
	for i, productID := range order {
		product := productsMap[productID]
		qty := quantities[productID]
		lines[i] = domain.SaleLine{
			SaleLineID: uuid.NewString(),
			SaleID:     saleID,
			ProductID:  productID,
			Quantity:   qty,
			UnitPrice:  product.UnitPrice,
			LineTotal:  accounting.LineTotal(product.UnitPrice, qty),
		}
	}

	totals, err := accounting.ComputeSaleTotals(lines, s.cfg.TaxRate, s.cfg.DiscountRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	sale := domain.Sale{
		SaleID:        saleID,
		SaleDate:      saleDate,
		CustomerID:    req.CustomerID,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		Status:        domain.SaleCompleted,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		Discount:      totals.Discount,
		Total:         totals.Total,
		Notes:         req.Notes,
		Lines:         lines,
		AuditFields:   audit,
	}

	txn := domain.LedgerTransaction{
		TransactionID: uuid.NewString(),
		TxnDate:       saleDate,
		AccountID:     salesAccount.AccountID,
		AccountName:   salesAccount.Name,
		Kind:          domain.TxnIncome,
		Amount:        totals.Total,
		Reference:     accounting.SaleReference(saleID),
		Category:      "Ventas",
		Notes:         fmt.Sprintf("Venta a %s", customer.Name),
		Status:        domain.TxnPosted,
		AuditFields:   audit,
	}

	balanceDelta, err := accounting.BalanceDelta(txn.Kind, txn.Amount)
	if err != nil {
		return nil, fmt.Errorf("internal error calculating balance delta: %w", err)
	}

	if err := s.saleRepo.PostSale(ctx, sale, txn, balanceDelta); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: %s", ErrPostingConflict, err.Error())
		}
		logger.Error("Failed to post sale", slog.String("error", err.Error()), slog.String("sale_id", saleID))
		return nil, fmt.Errorf("failed to post sale: %w", err)
	}

	return &sale, nil
}

// VoidSale reverses a completed sale. Stock is restored, the sale is flagged
// voided, and a reversing expense entry is posted against the sales account so
// the original income entry is never edited.
func (s *saleService) VoidSale(ctx context.Context, saleID string, actor string) (*domain.Sale, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	sale, err := s.saleRepo.FindSaleByID(ctx, saleID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find sale for void", slog.String("error", err.Error()), slog.String("sale_id", saleID))
		}
		return nil, fmt.Errorf("failed to find sale %s: %w", saleID, err)
	}
	if sale.Status == domain.SaleVoided {
		return nil, fmt.Errorf("%w: ID %s", ErrSaleAlreadyVoided, saleID)
	}

	salesAccount, err := s.ledgerRepo.FindAccountByCode(ctx, s.cfg.SalesAccountCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Sales income account missing from chart of accounts", slog.String("code", s.cfg.SalesAccountCode))
			return nil, fmt.Errorf("%w: sales account %s not found", apperrors.ErrLedgerPostingFailed, s.cfg.SalesAccountCode)
		}
		return nil, fmt.Errorf("failed to fetch sales account: %w", err)
	}

	now := time.Now().UTC()
	reversal := domain.LedgerTransaction{
		TransactionID: uuid.NewString(),
		TxnDate:       now,
		AccountID:     salesAccount.AccountID,
		AccountName:   salesAccount.Name,
		Kind:          domain.TxnExpense,
		Amount:        sale.Total,
		Reference:     accounting.SaleReference(saleID),
		Category:      "Ventas",
		Notes:         fmt.Sprintf("Anulación de venta %s", saleID),
		Status:        domain.TxnPosted,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	balanceDelta, err := accounting.BalanceDelta(reversal.Kind, reversal.Amount)
	if err != nil {
		return nil, fmt.Errorf("internal error calculating balance delta: %w", err)
	}

	if err := s.saleRepo.VoidSale(ctx, saleID, reversal, balanceDelta, actor, now); err != nil {
		logger.Error("Failed to void sale", slog.String("error", err.Error()), slog.String("sale_id", saleID))
		return nil, fmt.Errorf("failed to void sale %s: %w", saleID, err)
	}

	metrics.SalesVoidedTotal.Inc()
	logger.Info("Sale voided successfully", slog.String("sale_id", saleID), slog.String("total", sale.Total.String()))

	sale.Status = domain.SaleVoided
	sale.LastUpdatedAt = now
	sale.LastUpdatedBy = actor
	return sale, nil
}

// GetSaleByID retrieves a specific sale, including its lines.
func (s *saleService) GetSaleByID(ctx context.Context, saleID string) (*domain.Sale, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	sale, err := s.saleRepo.FindSaleByID(ctx, saleID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find sale by ID", slog.String("error", err.Error()), slog.String("sale_id", saleID))
		}
		return nil, fmt.Errorf("failed to find sale by ID %s: %w", saleID, err)
	}
	return sale, nil
}

// ListSales retrieves a paginated list of sales within a date range.
func (s *saleService) ListSales(ctx context.Context, params dto.ListSalesParams) (*dto.ListSalesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	rng := domain.DateRange{From: params.From, To: params.To}
	sales, nextToken, err := s.saleRepo.ListSalesByDateRange(ctx, rng, limit, params.NextToken, params.IncludeVoided)
	if err != nil {
		logger.Error("Failed to list sales", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}

	return &dto.ListSalesResponse{
		Sales:     dto.ToListSaleResponse(sales),
		NextToken: nextToken,
	}, nil
}
