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

var ErrEmptyPurchase = errors.New("purchase must have at least one line")

// purchaseService provides inventory purchase operations.
type purchaseService struct {
	purchaseRepo     portsrepo.PurchaseRepositoryFacade
	productRepo      portsrepo.ProductRepositoryFacade
	ledgerRepo       portsrepo.LedgerRepositoryFacade
	inventoryAccount string
}

// NewPurchaseService creates a new PurchaseService.
func NewPurchaseService(purchaseRepo portsrepo.PurchaseRepositoryFacade, productRepo portsrepo.ProductRepositoryFacade, ledgerRepo portsrepo.LedgerRepositoryFacade, inventoryAccountCode string) portssvc.PurchaseSvcFacade {
	return &purchaseService{
		purchaseRepo:     purchaseRepo,
		productRepo:      productRepo,
		ledgerRepo:       ledgerRepo,
		inventoryAccount: inventoryAccountCode,
	}
}

// Ensure purchaseService implements the portssvc.PurchaseSvcFacade interface
var _ portssvc.PurchaseSvcFacade = (*purchaseService)(nil)

// PostPurchase validates and atomically records an inventory purchase. Unlike
// sale posting there is no conditional stock check; restocking cannot lose a
// race, so no retry loop is needed.
func (s *purchaseService) PostPurchase(ctx context.Context, req dto.CreatePurchaseRequest, actor string) (*domain.Purchase, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("%w", ErrEmptyPurchase)
	}

	// --- Merge duplicate product lines ---
	quantities := make(map[string]int64)
	costs := make(map[string]*decimal.Decimal)
	order := make([]string, 0, len(req.Lines))
	for _, line := range req.Lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive for product %s", apperrors.ErrValidation, line.ProductID)
		}
		if _, seen := quantities[line.ProductID]; !seen {
			order = append(order, line.ProductID)
			costs[line.ProductID] = line.UnitCost
		}
		quantities[line.ProductID] += line.Quantity
	}

	// --- Product validation ---
	productsMap, err := s.productRepo.FindProductsByIDs(ctx, order)
	if err != nil {
		logger.Error("Failed to fetch products for purchase posting", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	for _, productID := range order {
		product, found := productsMap[productID]
		if !found || !product.IsActive {
			return nil, fmt.Errorf("%w: ID %s", ErrUnknownProduct, productID)
		}
	}

	// --- Ledger account validation ---
	inventoryAccount, err := s.ledgerRepo.FindAccountByCode(ctx, s.inventoryAccount)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Inventory account missing from chart of accounts", slog.String("code", s.inventoryAccount))
			return nil, fmt.Errorf("%w: inventory account %s not found", apperrors.ErrLedgerPostingFailed, s.inventoryAccount)
		}
		return nil, fmt.Errorf("failed to fetch inventory account: %w", err)
	}

	now := time.Now().UTC()
	purchaseDate := now
	if req.PurchaseDate != nil {
		purchaseDate = req.PurchaseDate.UTC()
	}
	purchaseID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     actor,
		LastUpdatedAt: now,
		LastUpdatedBy: actor,
	}

	// Costs default to the catalog value when the request omits them.
	lines := make([]domain.PurchaseLine, len(order))
	total := decimal.Zero
	for i, productID := range order {
		product := productsMap[productID]
		qty := quantities[productID]
		unitCost := product.UnitCost
		if c := costs[productID]; c != nil {
			if c.IsNegative() {
				return nil, fmt.Errorf("%w: unit cost cannot be negative for product %s", apperrors.ErrValidation, productID)
			}
			unitCost = *c
		}
		lineTotal := accounting.LineTotal(unitCost, qty)
		lines[i] = domain.PurchaseLine{
			PurchaseLineID: uuid.NewString(),
			PurchaseID:     purchaseID,
			ProductID:      productID,
			Quantity:       qty,
			UnitCost:       unitCost,
			LineTotal:      lineTotal,
		}
		total = total.Add(lineTotal)
	}

	purchase := domain.Purchase{
		PurchaseID:   purchaseID,
		PurchaseDate: purchaseDate,
		Supplier:     req.Supplier,
		Status:       domain.PurchaseReceived,
		Total:        total,
		Notes:        req.Notes,
		Lines:        lines,
		AuditFields:  audit,
	}

	txn := domain.LedgerTransaction{
		TransactionID: uuid.NewString(),
		TxnDate:       purchaseDate,
		AccountID:     inventoryAccount.AccountID,
		AccountName:   inventoryAccount.Name,
		Kind:          domain.TxnExpense,
		Amount:        total,
		Reference:     accounting.PurchaseReference(purchaseID),
		Category:      "Compras",
		Notes:         fmt.Sprintf("Compra a %s", req.Supplier),
		Status:        domain.TxnPosted,
		AuditFields:   audit,
	}

	balanceDelta, err := accounting.BalanceDelta(txn.Kind, txn.Amount)
	if err != nil {
		return nil, fmt.Errorf("internal error calculating balance delta: %w", err)
	}

	if err := s.purchaseRepo.PostPurchase(ctx, purchase, txn, balanceDelta); err != nil {
		logger.Error("Failed to post purchase", slog.String("error", err.Error()), slog.String("purchase_id", purchaseID))
		return nil, fmt.Errorf("failed to post purchase: %w", err)
	}

	metrics.PurchasesPostedTotal.Inc()
	logger.Info("Purchase posted successfully",
		slog.String("purchase_id", purchaseID),
		slog.String("total", total.String()),
	)
	return &purchase, nil
}

// GetPurchaseByID retrieves a specific purchase, including its lines.
func (s *purchaseService) GetPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error) {
	purchase, err := s.purchaseRepo.FindPurchaseByID(ctx, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to find purchase by ID %s: %w", purchaseID, err)
	}
	return purchase, nil
}

// ListPurchases retrieves a paginated list of purchases within a date range.
func (s *purchaseService) ListPurchases(ctx context.Context, params dto.ListPurchasesParams) (*dto.ListPurchasesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	rng := domain.DateRange{From: params.From, To: params.To}
	purchases, nextToken, err := s.purchaseRepo.ListPurchasesByDateRange(ctx, rng, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list purchases", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}

	return &dto.ListPurchasesResponse{
		Purchases: dto.ToListPurchaseResponse(purchases),
		NextToken: nextToken,
	}, nil
}
