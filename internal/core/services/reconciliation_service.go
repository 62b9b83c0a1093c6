package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/retailtrack/retail_mgmt_app/internal/core/domain"
	portsrepo "github.com/retailtrack/retail_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/retailtrack/retail_mgmt_app/internal/core/ports/services"
	"github.com/retailtrack/retail_mgmt_app/internal/metrics"
	"github.com/retailtrack/retail_mgmt_app/internal/middleware"
	"github.com/retailtrack/retail_mgmt_app/internal/utils/accounting"
)

// reconcileBatchSize bounds how many orphan sales one sweep picks up.
const reconcileBatchSize = 100

// reconciliationService repairs completed sales whose ledger entry is missing.
// A sale can end up orphaned when the posting transaction commit was ambiguous
// (the connection dropped mid-commit) and only the sale rows survived.
type reconciliationService struct {
	saleRepo         portsrepo.SaleReader
	ledgerRepo       portsrepo.LedgerRepositoryFacade
	salesAccountCode string
}

// NewReconciliationService creates a new ReconciliationService.
func NewReconciliationService(saleRepo portsrepo.SaleReader, ledgerRepo portsrepo.LedgerRepositoryFacade, salesAccountCode string) portssvc.ReconciliationSvc {
	return &reconciliationService{
		saleRepo:         saleRepo,
		ledgerRepo:       ledgerRepo,
		salesAccountCode: salesAccountCode,
	}
}

// Ensure reconciliationService implements the ReconciliationSvc interface
var _ portssvc.ReconciliationSvc = (*reconciliationService)(nil)

// ReconcileSaleLedger posts the missing income entries for completed sales
// that have no matching ledger transaction. Failures on individual sales are
// logged and skipped so one bad row cannot stall the sweep.
func (s *reconciliationService) ReconcileSaleLedger(ctx context.Context) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	orphans, err := s.saleRepo.FindCompletedSalesWithoutLedgerRef(ctx, reconcileBatchSize)
	if err != nil {
		logger.Error("Failed to query orphan sales", slog.String("error", err.Error()))
		return 0, fmt.Errorf("failed to query orphan sales: %w", err)
	}
	if len(orphans) == 0 {
		return 0, nil
	}

	salesAccount, err := s.ledgerRepo.FindAccountByCode(ctx, s.salesAccountCode)
	if err != nil {
		logger.Error("Failed to fetch sales account for reconciliation", slog.String("error", err.Error()), slog.String("code", s.salesAccountCode))
		return 0, fmt.Errorf("failed to fetch sales account: %w", err)
	}

	repaired := 0
	for _, sale := range orphans {
		now := time.Now().UTC()
		txn := domain.LedgerTransaction{
			TransactionID: uuid.NewString(),
			TxnDate:       sale.SaleDate,
			AccountID:     salesAccount.AccountID,
			AccountName:   salesAccount.Name,
			Kind:          domain.TxnIncome,
			Amount:        sale.Total,
			Reference:     accounting.SaleReference(sale.SaleID),
			Category:      "Ventas",
			Notes:         "Reposición de asiento faltante",
			Status:        domain.TxnPosted,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     middleware.DefaultActor,
				LastUpdatedAt: now,
				LastUpdatedBy: middleware.DefaultActor,
			},
		}

		balanceDelta, err := accounting.BalanceDelta(txn.Kind, txn.Amount)
		if err != nil {
			logger.Error("Skipping orphan sale with invalid total", slog.String("sale_id", sale.SaleID), slog.String("error", err.Error()))
			continue
		}

		if err := s.ledgerRepo.SaveTransaction(ctx, txn, balanceDelta); err != nil {
			logger.Error("Failed to repair orphan sale", slog.String("sale_id", sale.SaleID), slog.String("error", err.Error()))
			continue
		}

		metrics.ReconciledSalesTotal.Inc()
		repaired++
		logger.Warn("Repaired orphan sale ledger entry",
			slog.String("sale_id", sale.SaleID),
			slog.String("amount", sale.Total.String()),
		)
	}

	return repaired, nil
}
