package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/retailtrack/retail_mgmt_app/internal/apperrors"
	"github.com/retailtrack/retail_mgmt_app/internal/core/domain"
	portsrepo "github.com/retailtrack/retail_mgmt_app/internal/core/ports/repositories"
	"github.com/retailtrack/retail_mgmt_app/internal/models"
	"github.com/retailtrack/retail_mgmt_app/internal/utils/pagination"
)

type PgxPurchaseRepository struct {
	BaseRepository
	productRepo portsrepo.ProductRepositoryFacade
	ledgerRepo  portsrepo.LedgerRepositoryFacade
}

// newPgxPurchaseRepository creates a new repository for purchase data.
func newPgxPurchaseRepository(pool *pgxpool.Pool, productRepo portsrepo.ProductRepositoryFacade, ledgerRepo portsrepo.LedgerRepositoryFacade) portsrepo.PurchaseRepositoryWithTx {
	return &PgxPurchaseRepository{
		BaseRepository: BaseRepository{Pool: pool},
		productRepo:    productRepo,
		ledgerRepo:     ledgerRepo,
	}
}

// Ensure PgxPurchaseRepository implements portsrepo.PurchaseRepositoryWithTx
var _ portsrepo.PurchaseRepositoryWithTx = (*PgxPurchaseRepository)(nil)

const purchaseColumns = `purchase_id, purchase_date, supplier, status, total, notes, created_at, created_by, last_updated_at, last_updated_by`

func toDomainPurchase(m models.Purchase) domain.Purchase {
	return domain.Purchase{
		PurchaseID:   m.PurchaseID,
		PurchaseDate: m.PurchaseDate,
		Supplier:     m.Supplier,
		Status:       domain.PurchaseStatus(m.Status),
		Total:        m.Total,
		Notes:        m.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func scanPurchase(row pgx.Row) (models.Purchase, error) {
	var m models.Purchase
	err := row.Scan(
		&m.PurchaseID,
		&m.PurchaseDate,
		&m.Supplier,
		&m.Status,
		&m.Total,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// PostPurchase persists a purchase and its lines, increments stock for every
// line, inserts the ledger transaction and applies balanceDelta to its
// account, all within a single database transaction.
func (r *PgxPurchaseRepository) PostPurchase(ctx context.Context, purchase domain.Purchase, txn domain.LedgerTransaction, balanceDelta decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	now := purchase.CreatedAt
	actor := purchase.CreatedBy

	purchaseQuery := `
		INSERT INTO purchases (` + purchaseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, purchaseQuery,
		purchase.PurchaseID,
		purchase.PurchaseDate,
		purchase.Supplier,
		purchase.Status,
		purchase.Total,
		purchase.Notes,
		purchase.CreatedAt,
		purchase.CreatedBy,
		purchase.LastUpdatedAt,
		purchase.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert purchase %s: %w", purchase.PurchaseID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO purchase_lines (purchase_line_id, purchase_id, product_id, quantity, unit_cost, line_total)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	for _, line := range purchase.Lines {
		batch.Queue(lineQuery,
			line.PurchaseLineID,
			line.PurchaseID,
			line.ProductID,
			line.Quantity,
			line.UnitCost,
			line.LineTotal,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert purchase lines for purchase %s: %w", purchase.PurchaseID, err)
	}

	// Restock in deterministic product order.
	lineByProduct := make(map[string]domain.PurchaseLine, len(purchase.Lines))
	productIDs := make([]string, len(purchase.Lines))
	for i, line := range purchase.Lines {
		productIDs[i] = line.ProductID
		lineByProduct[line.ProductID] = line
	}
	sort.Strings(productIDs)
	for _, productID := range productIDs {
		line := lineByProduct[productID]
		if err := r.productRepo.IncrementStockInTx(ctx, tx, productID, line.Quantity, actor, now); err != nil {
			return fmt.Errorf("failed to restock product %s for purchase %s: %w", productID, purchase.PurchaseID, err)
		}
	}

	if err := r.ledgerRepo.InsertTransactionInTx(ctx, tx, txn); err != nil {
		return fmt.Errorf("failed to insert ledger transaction for purchase %s: %w", purchase.PurchaseID, err)
	}
	if err := r.ledgerRepo.IncrementAccountBalanceInTx(ctx, tx, txn.AccountID, balanceDelta, actor); err != nil {
		return fmt.Errorf("failed to update account balance for purchase %s: %w", purchase.PurchaseID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		if isAmbiguousCommit(err) {
			return fmt.Errorf("%w: commit outcome unknown for purchase %s: %v", apperrors.ErrLedgerPostingFailed, purchase.PurchaseID, err)
		}
		return err
	}
	return nil
}

// FindPurchaseByID retrieves a purchase, including its lines.
func (r *PgxPurchaseRepository) FindPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE purchase_id = $1;`

	m, err := scanPurchase(r.Pool.QueryRow(ctx, query, purchaseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find purchase by ID %s: %w", purchaseID, err)
	}

	linesQuery := `
		SELECT purchase_line_id, purchase_id, product_id, quantity, unit_cost, line_total
		FROM purchase_lines
		WHERE purchase_id = $1;
	`
	rows, err := r.Pool.Query(ctx, linesQuery, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for purchase %s: %w", purchaseID, err)
	}
	defer rows.Close()

	lines := []domain.PurchaseLine{}
	for rows.Next() {
		var l domain.PurchaseLine
		if err := rows.Scan(&l.PurchaseLineID, &l.PurchaseID, &l.ProductID, &l.Quantity, &l.UnitCost, &l.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan line row for purchase %s: %w", purchaseID, err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows for purchase %s: %w", purchaseID, err)
	}

	d := toDomainPurchase(m)
	d.Lines = lines
	return &d, nil
}

// ListPurchasesByDateRange retrieves a paginated list of purchases within a
// date range using token-based pagination. Lines are not loaded for listings.
func (r *PgxPurchaseRepository) ListPurchasesByDateRange(ctx context.Context, rng domain.DateRange, limit int, nextToken *string) ([]domain.Purchase, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + purchaseColumns + ` FROM purchases WHERE purchase_date >= $1 AND purchase_date <= $2`
	orderByClause := `ORDER BY purchase_date DESC, created_at DESC`
	args := []interface{}{rng.From, rng.To}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastDate, lastCreatedAt)
		baseQuery += ` AND (purchase_date, created_at) < ($3, $4)`
	}

	args = append(args, fetchLimit)
	query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query purchases: %w", err)
	}
	defer rows.Close()

	modelPurchases := make([]models.Purchase, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanPurchase(rows)
		if scanErr != nil {
			return nil, nil, fmt.Errorf("failed to scan purchase row: %w", scanErr)
		}
		modelPurchases = append(modelPurchases, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating purchase rows: %w", err)
	}

	var nextTokenVal *string
	results := modelPurchases
	if len(modelPurchases) > limit {
		last := modelPurchases[limit-1]
		token := pagination.EncodeToken(last.PurchaseDate, last.CreatedAt)
		nextTokenVal = &token
		results = modelPurchases[:limit]
	}

	domainPurchases := make([]domain.Purchase, len(results))
	for i, m := range results {
		domainPurchases[i] = toDomainPurchase(m)
	}

	return domainPurchases, nextTokenVal, nil
}
