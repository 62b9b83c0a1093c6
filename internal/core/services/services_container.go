package services

import (
	portsrepo "github.com/retailtrack/retail_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/retailtrack/retail_mgmt_app/internal/core/ports/services"
	"github.com/retailtrack/retail_mgmt_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Product = NewCatalogService(repos.ProductRepo)
	container.Customer = NewCustomerService(repos.CustomerRepo)
	container.Ledger = NewLedgerService(repos.LedgerRepo)

	container.Sale = NewSaleService(
		repos.SaleRepo,
		repos.ProductRepo,
		repos.CustomerRepo,
		repos.LedgerRepo,
		SaleServiceConfig{
			SalesAccountCode: cfg.SalesAccountCode,
			TaxRate:          cfg.TaxRate,
			DiscountRate:     cfg.DiscountRate,
			MaxRetries:       cfg.PostingRetries,
		},
	)

	container.Purchase = NewPurchaseService(
		repos.PurchaseRepo,
		repos.ProductRepo,
		repos.LedgerRepo,
		cfg.InventoryAccount,
	)

	container.Reporting = NewReportingService(repos.SaleRepo, repos.ProductRepo)
	container.Reconciliation = NewReconciliationService(repos.SaleRepo, repos.LedgerRepo, cfg.SalesAccountCode)

	return container
}
