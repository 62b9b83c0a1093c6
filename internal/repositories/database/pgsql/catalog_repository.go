package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/retailtrack/retail_mgmt_app/internal/apperrors"
	"github.com/retailtrack/retail_mgmt_app/internal/core/domain"
	portsrepo "github.com/retailtrack/retail_mgmt_app/internal/core/ports/repositories"
	"github.com/retailtrack/retail_mgmt_app/internal/models"
	"github.com/retailtrack/retail_mgmt_app/internal/utils/pagination"
)

type PgxProductRepository struct {
	BaseRepository
}

// newPgxProductRepository creates a new repository for catalog data.
func newPgxProductRepository(pool *pgxpool.Pool) portsrepo.ProductRepositoryWithTx {
	return &PgxProductRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxProductRepository implements portsrepo.ProductRepositoryWithTx
var _ portsrepo.ProductRepositoryWithTx = (*PgxProductRepository)(nil)

const productColumns = `product_id, code, name, description, category, unit_price, unit_cost, stock, min_stock, is_active, created_at, created_by, last_updated_at, last_updated_by`

// Helper to convert domain.Product to models.Product for DB storage
func toModelProduct(d domain.Product) models.Product {
	return models.Product{
		ProductID:   d.ProductID,
		Code:        d.Code,
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
		UnitPrice:   d.UnitPrice,
		UnitCost:    d.UnitCost,
		Stock:       d.Stock,
		MinStock:    d.MinStock,
		IsActive:    d.IsActive,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

// Helper to convert models.Product from DB to domain.Product
func toDomainProduct(m models.Product) domain.Product {
	return domain.Product{
		ProductID:   m.ProductID,
		Code:        m.Code,
		Name:        m.Name,
		Description: m.Description,
		Category:    m.Category,
		UnitPrice:   m.UnitPrice,
		UnitCost:    m.UnitCost,
		Stock:       m.Stock,
		MinStock:    m.MinStock,
		IsActive:    m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func scanProduct(row pgx.Row) (models.Product, error) {
	var m models.Product
	err := row.Scan(
		&m.ProductID,
		&m.Code,
		&m.Name,
		&m.Description,
		&m.Category,
		&m.UnitPrice,
		&m.UnitCost,
		&m.Stock,
		&m.MinStock,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveProduct inserts a new product.
func (r *PgxProductRepository) SaveProduct(ctx context.Context, product domain.Product) error {
	m := toModelProduct(product)

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ProductID,
		m.Code,
		m.Name,
		m.Description,
		m.Category,
		m.UnitPrice,
		m.UnitCost,
		m.Stock,
		m.MinStock,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // Unique violation
				return fmt.Errorf("%w: product with code %s already exists", apperrors.ErrDuplicate, m.Code)
			}
		}
		return fmt.Errorf("failed to save product %s: %w", m.ProductID, err)
	}
	return nil
}

// FindProductByID retrieves a product by its ID.
func (r *PgxProductRepository) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = $1;`

	m, err := scanProduct(r.Pool.QueryRow(ctx, query, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID %s: %w", productID, err)
	}

	d := toDomainProduct(m)
	return &d, nil
}

// FindProductByCode retrieves a product by its SKU code.
func (r *PgxProductRepository) FindProductByCode(ctx context.Context, code string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE code = $1;`

	m, err := scanProduct(r.Pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product by code %s: %w", code, err)
	}

	d := toDomainProduct(m)
	return &d, nil
}

// FindProductsByIDs retrieves multiple products by their IDs.
// Missing IDs are simply absent from the map; the caller decides if that is an error.
func (r *PgxProductRepository) FindProductsByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error) {
	if len(productIDs) == 0 {
		return map[string]domain.Product{}, nil
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = ANY($1);`

	rows, err := r.Pool.Query(ctx, query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query products by IDs: %w", err)
	}
	defer rows.Close()

	productsMap := make(map[string]domain.Product)
	for rows.Next() {
		m, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product row during batch fetch: %w", err)
		}
		productsMap[m.ProductID] = toDomainProduct(m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product rows during batch fetch: %w", err)
	}

	return productsMap, nil
}

// ListProducts retrieves a paginated list of products using token-based pagination.
// It returns the products, a token for the next page, and an error.
func (r *PgxProductRepository) ListProducts(ctx context.Context, category string, limit int, nextToken *string) ([]domain.Product, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + productColumns + ` FROM products`
	filterClause := `WHERE is_active = TRUE`
	args := []interface{}{}
	if category != "" {
		args = append(args, category)
		filterClause += ` AND category = $` + strconv.Itoa(len(args))
	}

	// Ordering must be stable for the cursor to work.
	orderByClause := `ORDER BY code, product_id`

	if nextToken != nil && *nextToken != "" {
		fields, decodeErr := pagination.DecodeMultiFieldToken(*nextToken)
		if decodeErr != nil || len(fields) != 2 {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, fields[0], fields[1])
		filterClause += ` AND (code, product_id) > ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	modelProducts := make([]models.Product, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanProduct(rows)
		if scanErr != nil {
			return nil, nil, fmt.Errorf("failed to scan product row: %w", scanErr)
		}
		modelProducts = append(modelProducts, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating product rows: %w", err)
	}

	var nextTokenVal *string
	results := modelProducts
	if len(modelProducts) > limit {
		last := modelProducts[limit-1]
		token := pagination.EncodeMultiFieldToken(last.Code, last.ProductID)
		nextTokenVal = &token
		results = modelProducts[:limit]
	}

	domainProducts := make([]domain.Product, len(results))
	for i, m := range results {
		domainProducts[i] = toDomainProduct(m)
	}

	return domainProducts, nextTokenVal, nil
}

// ListLowStockProducts retrieves active products whose stock is at or below their minimum.
func (r *PgxProductRepository) ListLowStockProducts(ctx context.Context) ([]domain.LowStockAlert, error) {
	query := `
		SELECT product_id, code, name, stock, min_stock
		FROM products
		WHERE is_active = TRUE AND stock <= min_stock
		ORDER BY code;
	`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query low stock products: %w", err)
	}
	defer rows.Close()

	alerts := []domain.LowStockAlert{}
	for rows.Next() {
		var a domain.LowStockAlert
		if err := rows.Scan(&a.ProductID, &a.Code, &a.Name, &a.Stock, &a.MinStock); err != nil {
			return nil, fmt.Errorf("failed to scan low stock row: %w", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating low stock rows: %w", err)
	}

	return alerts, nil
}

// UpdateProduct updates the descriptive fields of a product. Stock is not
// touched here; it only moves through the stock mutators.
func (r *PgxProductRepository) UpdateProduct(ctx context.Context, product domain.Product) error {
	m := toModelProduct(product)

	query := `
		UPDATE products
		SET name = $2,
		    description = $3,
		    category = $4,
		    unit_price = $5,
		    unit_cost = $6,
		    min_stock = $7,
		    is_active = $8,
		    last_updated_at = $9,
		    last_updated_by = $10
		WHERE product_id = $1;
	`

	cmdTag, err := r.Pool.Exec(ctx, query,
		m.ProductID,
		m.Name,
		m.Description,
		m.Category,
		m.UnitPrice,
		m.UnitCost,
		m.MinStock,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update product %s: %w", m.ProductID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("product " + m.ProductID + " not found for update")
	}
	return nil
}

// DeactivateProduct marks a product as inactive.
func (r *PgxProductRepository) DeactivateProduct(ctx context.Context, productID string, actor string, now time.Time) error {
	query := `
		UPDATE products
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE product_id = $1;
	`

	cmdTag, err := r.Pool.Exec(ctx, query, productID, now, actor)
	if err != nil {
		return fmt.Errorf("failed to deactivate product %s: %w", productID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("product " + productID + " not found for deactivation")
	}
	return nil
}

// FindProductsByIDsForUpdate retrieves products by IDs and locks the rows for update.
// Must be called within a transaction.
func (r *PgxProductRepository) FindProductsByIDsForUpdate(ctx context.Context, tx pgx.Tx, productIDs []string) (map[string]domain.Product, error) {
	if len(productIDs) == 0 {
		return map[string]domain.Product{}, nil
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = ANY($1) FOR UPDATE;`

	rows, err := tx.Query(ctx, query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query products by IDs for update: %w", err)
	}
	defer rows.Close()

	productsMap := make(map[string]domain.Product)
	for rows.Next() {
		m, scanErr := scanProduct(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan locked product row: %w", scanErr)
		}
		productsMap[m.ProductID] = toDomainProduct(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked product rows: %w", err)
	}

	if len(productsMap) != len(productIDs) {
		missing := []string{}
		for _, id := range productIDs {
			if _, found := productsMap[id]; !found {
				missing = append(missing, id)
			}
		}
		return nil, fmt.Errorf("%w: could not find or lock all requested products, missing: %v", apperrors.ErrNotFound, missing)
	}

	return productsMap, nil
}

// DecrementStockInTx conditionally decrements a product's stock. The WHERE
// guard makes the decrement a no-op when fewer than quantity units remain,
// which the caller observes through the false return.
func (r *PgxProductRepository) DecrementStockInTx(ctx context.Context, tx pgx.Tx, productID string, quantity int64, actor string, now time.Time) (bool, error) {
	query := `
		UPDATE products
		SET stock = stock - $2, last_updated_at = $3, last_updated_by = $4
		WHERE product_id = $1 AND stock >= $2;
	`

	cmdTag, err := tx.Exec(ctx, query, productID, quantity, now, actor)
	if err != nil {
		return false, fmt.Errorf("failed to decrement stock for product %s: %w", productID, err)
	}
	return cmdTag.RowsAffected() == 1, nil
}

// IncrementStockInTx adds quantity units back to a product's stock.
func (r *PgxProductRepository) IncrementStockInTx(ctx context.Context, tx pgx.Tx, productID string, quantity int64, actor string, now time.Time) error {
	query := `
		UPDATE products
		SET stock = stock + $2, last_updated_at = $3, last_updated_by = $4
		WHERE product_id = $1;
	`

	cmdTag, err := tx.Exec(ctx, query, productID, quantity, now, actor)
	if err != nil {
		return fmt.Errorf("failed to increment stock for product %s: %w", productID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: product %s not found for restock", apperrors.ErrNotFound, productID)
	}
	return nil
}
