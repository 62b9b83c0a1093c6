package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/retailtrack/retail_mgmt_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	productRepo := newPgxProductRepository(dbPool)
	customerRepo := newPgxCustomerRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool)
	saleRepo := newPgxSaleRepository(dbPool, productRepo, ledgerRepo)
	purchaseRepo := newPgxPurchaseRepository(dbPool, productRepo, ledgerRepo)

	return portsrepo.RepositoryProvider{
		ProductRepo:  productRepo,
		CustomerRepo: customerRepo,
		SaleRepo:     saleRepo,
		LedgerRepo:   ledgerRepo,
		PurchaseRepo: purchaseRepo,
	}
}
