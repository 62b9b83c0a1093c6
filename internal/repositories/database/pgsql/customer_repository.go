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

type PgxCustomerRepository struct {
	BaseRepository
}

// newPgxCustomerRepository creates a new repository for customer data.
func newPgxCustomerRepository(pool *pgxpool.Pool) portsrepo.CustomerRepositoryWithTx {
	return &PgxCustomerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxCustomerRepository implements portsrepo.CustomerRepositoryWithTx
var _ portsrepo.CustomerRepositoryWithTx = (*PgxCustomerRepository)(nil)

const customerColumns = `customer_id, name, document_id, phone, email, address, is_active, created_at, created_by, last_updated_at, last_updated_by`

func toDomainCustomer(m models.Customer) domain.Customer {
	return domain.Customer{
		CustomerID: m.CustomerID,
		Name:       m.Name,
		DocumentID: m.DocumentID,
		Phone:      m.Phone,
		Email:      m.Email,
		Address:    m.Address,
		IsActive:   m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func scanCustomer(row pgx.Row) (models.Customer, error) {
	var m models.Customer
	err := row.Scan(
		&m.CustomerID,
		&m.Name,
		&m.DocumentID,
		&m.Phone,
		&m.Email,
		&m.Address,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveCustomer inserts a new customer.
func (r *PgxCustomerRepository) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		customer.CustomerID,
		customer.Name,
		customer.DocumentID,
		customer.Phone,
		customer.Email,
		customer.Address,
		customer.IsActive,
		customer.CreatedAt,
		customer.CreatedBy,
		customer.LastUpdatedAt,
		customer.LastUpdatedBy,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // Unique violation
				return fmt.Errorf("%w: customer with document %s already exists", apperrors.ErrDuplicate, customer.DocumentID)
			}
		}
		return fmt.Errorf("failed to save customer %s: %w", customer.CustomerID, err)
	}
	return nil
}

// FindCustomerByID retrieves a customer by its ID.
func (r *PgxCustomerRepository) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE customer_id = $1;`

	m, err := scanCustomer(r.Pool.QueryRow(ctx, query, customerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find customer by ID %s: %w", customerID, err)
	}

	d := toDomainCustomer(m)
	return &d, nil
}

// ListCustomers retrieves a paginated list of customers using token-based pagination.
func (r *PgxCustomerRepository) ListCustomers(ctx context.Context, limit int, nextToken *string) ([]domain.Customer, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + customerColumns + ` FROM customers WHERE is_active = TRUE`
	orderByClause := `ORDER BY name, customer_id`
	args := []interface{}{}

	if nextToken != nil && *nextToken != "" {
		fields, decodeErr := pagination.DecodeMultiFieldToken(*nextToken)
		if decodeErr != nil || len(fields) != 2 {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, fields[0], fields[1])
		baseQuery += ` AND (name, customer_id) > ($1, $2)`
	}

	args = append(args, fetchLimit)
	query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	modelCustomers := make([]models.Customer, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanCustomer(rows)
		if scanErr != nil {
			return nil, nil, fmt.Errorf("failed to scan customer row: %w", scanErr)
		}
		modelCustomers = append(modelCustomers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating customer rows: %w", err)
	}

	var nextTokenVal *string
	results := modelCustomers
	if len(modelCustomers) > limit {
		last := modelCustomers[limit-1]
		token := pagination.EncodeMultiFieldToken(last.Name, last.CustomerID)
		nextTokenVal = &token
		results = modelCustomers[:limit]
	}

	domainCustomers := make([]domain.Customer, len(results))
	for i, m := range results {
		domainCustomers[i] = toDomainCustomer(m)
	}

	return domainCustomers, nextTokenVal, nil
}

// UpdateCustomer updates an existing customer's details.
func (r *PgxCustomerRepository) UpdateCustomer(ctx context.Context, customer domain.Customer) error {
	query := `
		UPDATE customers
		SET name = $2,
		    document_id = $3,
		    phone = $4,
		    email = $5,
		    address = $6,
		    is_active = $7,
		    last_updated_at = $8,
		    last_updated_by = $9
		WHERE customer_id = $1;
	`

	cmdTag, err := r.Pool.Exec(ctx, query,
		customer.CustomerID,
		customer.Name,
		customer.DocumentID,
		customer.Phone,
		customer.Email,
		customer.Address,
		customer.IsActive,
		customer.LastUpdatedAt,
		customer.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer %s: %w", customer.CustomerID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("customer " + customer.CustomerID + " not found for update")
	}
	return nil
}

// DeactivateCustomer marks a customer as inactive.
func (r *PgxCustomerRepository) DeactivateCustomer(ctx context.Context, customerID string, actor string, now time.Time) error {
	query := `
		UPDATE customers
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE customer_id = $1;
	`

	cmdTag, err := r.Pool.Exec(ctx, query, customerID, now, actor)
	if err != nil {
		return fmt.Errorf("failed to deactivate customer %s: %w", customerID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("customer " + customerID + " not found for deactivation")
	}
	return nil
}
