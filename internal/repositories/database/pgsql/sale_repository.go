package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/retailtrack/retail_mgmt_app/internal/apperrors"
	"github.com/retailtrack/retail_mgmt_app/internal/core/domain"
	portsrepo "github.com/retailtrack/retail_mgmt_app/internal/core/ports/repositories"
	"github.com/retailtrack/retail_mgmt_app/internal/models"
	"github.com/retailtrack/retail_mgmt_app/internal/utils/pagination"
)

type PgxSaleRepository struct {
	BaseRepository
	productRepo portsrepo.ProductRepositoryFacade
	ledgerRepo  portsrepo.LedgerRepositoryFacade
}

// newPgxSaleRepository creates a new repository for sale data. The product and
// ledger repositories are injected so posting can reuse their in-transaction
// operations.
func newPgxSaleRepository(pool *pgxpool.Pool, productRepo portsrepo.ProductRepositoryFacade, ledgerRepo portsrepo.LedgerRepositoryFacade) portsrepo.SaleRepositoryWithTx {
	return &PgxSaleRepository{
		BaseRepository: BaseRepository{Pool: pool},
		productRepo:    productRepo,
		ledgerRepo:     ledgerRepo,
	}
}

// Ensure PgxSaleRepository implements portsrepo.SaleRepositoryWithTx
var _ portsrepo.SaleRepositoryWithTx = (*PgxSaleRepository)(nil)

const saleColumns = `sale_id, sale_date, customer_id, payment_method, status, subtotal, tax, discount, total, notes, created_at, created_by, last_updated_at, last_updated_by`

func toDomainSale(m models.Sale) domain.Sale {
	return domain.Sale{
		SaleID:        m.SaleID,
		SaleDate:      m.SaleDate,
		CustomerID:    m.CustomerID,
		PaymentMethod: domain.PaymentMethod(m.PaymentMethod),
		Status:        domain.SaleStatus(m.Status),
		Subtotal:      m.Subtotal,
		Tax:           m.Tax,
		Discount:      m.Discount,
		Total:         m.Total,
		Notes:         m.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func scanSale(row pgx.Row) (models.Sale, error) {
	var m models.Sale
	err := row.Scan(
		&m.SaleID,
		&m.SaleDate,
		&m.CustomerID,
		&m.PaymentMethod,
		&m.Status,
		&m.Subtotal,
		&m.Tax,
		&m.Discount,
		&m.Total,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// isSerializationError reports whether the error is a transient transaction
// conflict the caller may retry.
func isSerializationError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// sortedLineProductIDs returns the distinct product IDs of the lines in a
// deterministic order so concurrent postings always lock in the same sequence.
func sortedLineProductIDs(lines []domain.SaleLine) []string {
	ids := make([]string, len(lines))
	for i, l := range lines {
		ids[i] = l.ProductID
	}
	sort.Strings(ids)
	return ids
}

// PostSale persists a sale and its lines, decrements stock for every line,
// inserts the ledger transaction and applies balanceDelta to its account, all
// within a single database transaction. A failed conditional decrement rolls
// everything back and surfaces as apperrors.ErrConflict.
func (r *PgxSaleRepository) PostSale(ctx context.Context, sale domain.Sale, txn domain.LedgerTransaction, balanceDelta decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	now := sale.CreatedAt
	actor := sale.CreatedBy

	// 1. Lock the product rows in deterministic order.
	productIDs := sortedLineProductIDs(sale.Lines)
	if _, err := r.productRepo.FindProductsByIDsForUpdate(ctx, tx, productIDs); err != nil {
		return fmt.Errorf("failed to lock products for sale %s: %w", sale.SaleID, err)
	}

	// 2. Conditionally decrement stock line by line.
	lineByProduct := make(map[string]domain.SaleLine, len(sale.Lines))
	for _, line := range sale.Lines {
		lineByProduct[line.ProductID] = line
	}
	for _, productID := range productIDs {
		line := lineByProduct[productID]
		ok, err := r.productRepo.DecrementStockInTx(ctx, tx, productID, line.Quantity, actor, now)
		if err != nil {
			if isSerializationError(err) {
				return fmt.Errorf("%w: stock decrement for product %s: %v", apperrors.ErrConflict, productID, err)
			}
			return fmt.Errorf("failed to decrement stock for sale %s: %w", sale.SaleID, err)
		}
		if !ok {
			return fmt.Errorf("%w: insufficient stock for product %s", apperrors.ErrConflict, productID)
		}
	}

	// 3. Insert the sale row.
	saleQuery := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = tx.Exec(ctx, saleQuery,
		sale.SaleID,
		sale.SaleDate,
		sale.CustomerID,
		sale.PaymentMethod,
		sale.Status,
		sale.Subtotal,
		sale.Tax,
		sale.Discount,
		sale.Total,
		sale.Notes,
		sale.CreatedAt,
		sale.CreatedBy,
		sale.LastUpdatedAt,
		sale.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sale %s: %w", sale.SaleID, err)
	}

	// 4. Batch insert the sale lines.
	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO sale_lines (sale_line_id, sale_id, product_id, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	for _, line := range sale.Lines {
		batch.Queue(lineQuery,
			line.SaleLineID,
			line.SaleID,
			line.ProductID,
			line.Quantity,
			line.UnitPrice,
			line.LineTotal,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert sale lines for sale %s: %w", sale.SaleID, err)
	}

	// 5. Post the ledger side: transaction row plus the account balance change.
	if err := r.ledgerRepo.InsertTransactionInTx(ctx, tx, txn); err != nil {
		return fmt.Errorf("failed to insert ledger transaction for sale %s: %w", sale.SaleID, err)
	}
	if err := r.ledgerRepo.IncrementAccountBalanceInTx(ctx, tx, txn.AccountID, balanceDelta, actor); err != nil {
		return fmt.Errorf("failed to update account balance for sale %s: %w", sale.SaleID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		if isSerializationError(err) {
			return fmt.Errorf("%w: commit for sale %s: %v", apperrors.ErrConflict, sale.SaleID, err)
		}
		if isAmbiguousCommit(err) {
			return fmt.Errorf("%w: commit outcome unknown for sale %s: %v", apperrors.ErrLedgerPostingFailed, sale.SaleID, err)
		}
		return err
	}
	return nil
}

// VoidSale marks a completed sale as voided, restores stock for its lines,
// inserts the reversing ledger transaction and applies balanceDelta, all
// within a single database transaction.
func (r *PgxSaleRepository) VoidSale(ctx context.Context, saleID string, reversal domain.LedgerTransaction, balanceDelta decimal.Decimal, actor string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	// 1. Lock the sale row and recheck its status under the lock.
	var status models.SaleStatus
	lockQuery := `SELECT status FROM sales WHERE sale_id = $1 FOR UPDATE;`
	if err := tx.QueryRow(ctx, lockQuery, saleID).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: sale %s", apperrors.ErrNotFound, saleID)
		}
		return fmt.Errorf("failed to lock sale %s: %w", saleID, err)
	}
	if status != models.SaleCompleted {
		return fmt.Errorf("%w: sale %s is not completed", apperrors.ErrConflict, saleID)
	}

	// 2. Flip the status.
	updateQuery := `
		UPDATE sales
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE sale_id = $1;
	`
	if _, err := tx.Exec(ctx, updateQuery, saleID, models.SaleVoided, now, actor); err != nil {
		return fmt.Errorf("failed to void sale %s: %w", saleID, err)
	}

	// 3. Restore stock for every line.
	lines, err := r.findSaleLinesInTx(ctx, tx, saleID)
	if err != nil {
		return err
	}
	productIDs := sortedLineProductIDs(lines)
	if _, err := r.productRepo.FindProductsByIDsForUpdate(ctx, tx, productIDs); err != nil {
		return fmt.Errorf("failed to lock products for void of sale %s: %w", saleID, err)
	}
	lineByProduct := make(map[string]domain.SaleLine, len(lines))
	for _, line := range lines {
		lineByProduct[line.ProductID] = line
	}
	for _, productID := range productIDs {
		line := lineByProduct[productID]
		if err := r.productRepo.IncrementStockInTx(ctx, tx, productID, line.Quantity, actor, now); err != nil {
			return fmt.Errorf("failed to restore stock for sale %s: %w", saleID, err)
		}
	}

	// 4. Post the reversing ledger entry.
	if err := r.ledgerRepo.InsertTransactionInTx(ctx, tx, reversal); err != nil {
		return fmt.Errorf("failed to insert reversing transaction for sale %s: %w", saleID, err)
	}
	if err := r.ledgerRepo.IncrementAccountBalanceInTx(ctx, tx, reversal.AccountID, balanceDelta, actor); err != nil {
		return fmt.Errorf("failed to update account balance for void of sale %s: %w", saleID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		if isSerializationError(err) {
			return fmt.Errorf("%w: commit for void of sale %s: %v", apperrors.ErrConflict, saleID, err)
		}
		if isAmbiguousCommit(err) {
			return fmt.Errorf("%w: commit outcome unknown for void of sale %s: %v", apperrors.ErrLedgerPostingFailed, saleID, err)
		}
		return err
	}
	return nil
}

// findSaleLinesInTx retrieves the lines of a sale within a transaction.
func (r *PgxSaleRepository) findSaleLinesInTx(ctx context.Context, tx pgx.Tx, saleID string) ([]domain.SaleLine, error) {
	query := `
		SELECT sale_line_id, sale_id, product_id, quantity, unit_price, line_total
		FROM sale_lines
		WHERE sale_id = $1;
	`
	rows, err := tx.Query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for sale %s: %w", saleID, err)
	}
	defer rows.Close()

	return scanSaleLines(rows, saleID)
}

func scanSaleLines(rows pgx.Rows, saleID string) ([]domain.SaleLine, error) {
	lines := []domain.SaleLine{}
	for rows.Next() {
		var l domain.SaleLine
		if err := rows.Scan(&l.SaleLineID, &l.SaleID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan line row for sale %s: %w", saleID, err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows for sale %s: %w", saleID, err)
	}
	return lines, nil
}

// FindSaleByID retrieves a sale, including its lines.
func (r *PgxSaleRepository) FindSaleByID(ctx context.Context, saleID string) (*domain.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE sale_id = $1;`

	m, err := scanSale(r.Pool.QueryRow(ctx, query, saleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find sale by ID %s: %w", saleID, err)
	}

	linesQuery := `
		SELECT sale_line_id, sale_id, product_id, quantity, unit_price, line_total
		FROM sale_lines
		WHERE sale_id = $1;
	`
	rows, err := r.Pool.Query(ctx, linesQuery, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for sale %s: %w", saleID, err)
	}
	defer rows.Close()

	lines, err := scanSaleLines(rows, saleID)
	if err != nil {
		return nil, err
	}

	d := toDomainSale(m)
	d.Lines = lines
	return &d, nil
}

// ListSalesByDateRange retrieves a paginated list of sales within a date range
// using token-based pagination. Lines are not loaded for listings; callers
// needing them fetch the sale individually.
func (r *PgxSaleRepository) ListSalesByDateRange(ctx context.Context, rng domain.DateRange, limit int, nextToken *string, includeVoided bool) ([]domain.Sale, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + saleColumns + ` FROM sales WHERE sale_date >= $1 AND sale_date <= $2`
	if !includeVoided {
		baseQuery += ` AND status != 'VOIDED'`
	}
	orderByClause := `ORDER BY sale_date DESC, created_at DESC`
	args := []interface{}{rng.From, rng.To}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastDate, lastCreatedAt)
		baseQuery += ` AND (sale_date, created_at) < ($3, $4)`
	}

	args = append(args, fetchLimit)
	query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	modelSales := make([]models.Sale, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanSale(rows)
		if scanErr != nil {
			return nil, nil, fmt.Errorf("failed to scan sale row: %w", scanErr)
		}
		modelSales = append(modelSales, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating sale rows: %w", err)
	}

	var nextTokenVal *string
	results := modelSales
	if len(modelSales) > limit {
		last := modelSales[limit-1]
		token := pagination.EncodeToken(last.SaleDate, last.CreatedAt)
		nextTokenVal = &token
		results = modelSales[:limit]
	}

	domainSales := make([]domain.Sale, len(results))
	for i, m := range results {
		domainSales[i] = toDomainSale(m)
	}

	return domainSales, nextTokenVal, nil
}

// SummarizeSales aggregates completed sales over a date range.
func (r *PgxSaleRepository) SummarizeSales(ctx context.Context, rng domain.DateRange) (*domain.SalesSummary, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'COMPLETED'),
			COUNT(*) FILTER (WHERE status = 'VOIDED'),
			COALESCE(SUM(total) FILTER (WHERE status = 'COMPLETED'), 0),
			COALESCE(SUM(tax) FILTER (WHERE status = 'COMPLETED'), 0)
		FROM sales
		WHERE sale_date >= $1 AND sale_date <= $2;
	`

	summary := domain.SalesSummary{From: rng.From, To: rng.To}
	err := r.Pool.QueryRow(ctx, query, rng.From, rng.To).Scan(
		&summary.SaleCount,
		&summary.VoidedCount,
		&summary.GrossTotal,
		&summary.TaxTotal,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize sales: %w", err)
	}

	unitsQuery := `
		SELECT COALESCE(SUM(l.quantity), 0)
		FROM sale_lines l
		JOIN sales s ON l.sale_id = s.sale_id
		WHERE s.sale_date >= $1 AND s.sale_date <= $2 AND s.status = 'COMPLETED';
	`
	if err := r.Pool.QueryRow(ctx, unitsQuery, rng.From, rng.To).Scan(&summary.UnitsSold); err != nil {
		return nil, fmt.Errorf("failed to sum sold units: %w", err)
	}

	if summary.SaleCount > 0 {
		summary.AverageTotal = summary.GrossTotal.Div(decimal.NewFromInt(summary.SaleCount)).Round(2)
	} else {
		summary.AverageTotal = decimal.Zero
	}

	return &summary, nil
}

// FindCompletedSalesWithoutLedgerRef returns completed sales that have no
// ledger transaction carrying their reference. Used by the reconciliation sweep.
func (r *PgxSaleRepository) FindCompletedSalesWithoutLedgerRef(ctx context.Context, limit int) ([]domain.Sale, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT ` + saleColumns + `
		FROM sales s
		WHERE s.status = 'COMPLETED'
		  AND NOT EXISTS (
			SELECT 1 FROM transactions t WHERE t.reference = 'Venta-' || s.sale_id
		  )
		ORDER BY s.created_at
		LIMIT $1;
	`

	rows, err := r.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query orphan sales: %w", err)
	}
	defer rows.Close()

	sales := []domain.Sale{}
	for rows.Next() {
		m, scanErr := scanSale(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan orphan sale row: %w", scanErr)
		}
		sales = append(sales, toDomainSale(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orphan sale rows: %w", err)
	}

	return sales, nil
}
