package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/infrastructure/monitoring"
	"credit-engine/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
)

type CustomerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.CustomerRepository = (*CustomerRepository)(nil)

func NewCustomerRepository(db DBPool, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("DBPool cannot be nil for CustomerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerRepository, using default stderr handler")
	}
	return &CustomerRepository{
		db:     db,
		logger: logger.With("component", "CustomerRepository"),
	}
}

func (r *CustomerRepository) CreateCustomer(ctx context.Context, cust *customer.Customer) (bool, error) {
	if cust == nil {
		return false, fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}

	r.logger.InfoContext(ctx, "Attempting to insert customer", slog.Int64("customerID", cust.CustomerID))
	start := time.Now()

	// ON CONFLICT DO NOTHING gives the atomic create-if-absent the ingestion
	// idempotency contract relies on under concurrent runs.
	query := `
        INSERT INTO customers (customer_id, first_name, last_name, age, phone_number, monthly_salary, approved_limit, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
        ON CONFLICT (customer_id) DO NOTHING`

	cmdTag, err := r.db.Exec(ctx, query,
		cust.CustomerID,
		cust.FirstName,
		cust.LastName,
		cust.Age,
		cust.PhoneNumber,
		cust.MonthlySalary,
		cust.ApprovedLimit,
	)
	if err != nil {
		monitoring.RecordDBQuery("create_customer", "error", time.Since(start))
		r.logger.ErrorContext(ctx, "Failed to insert customer", slog.Any("error", err))
		return false, fmt.Errorf("%w: failed to insert customer: %w", apperrors.ErrDatabase, err)
	}
	monitoring.RecordDBQuery("create_customer", "success", time.Since(start))

	created := cmdTag.RowsAffected() > 0
	if created {
		r.logger.InfoContext(ctx, "Customer created in DB", slog.Int64("customerID", cust.CustomerID))
	} else {
		r.logger.InfoContext(ctx, "Customer already present, insert skipped", slog.Int64("customerID", cust.CustomerID))
	}
	return created, nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, customerID int64) (*customer.Customer, error) {
	r.logger.DebugContext(ctx, "Finding customer by ID", slog.Int64("customerID", customerID))
	start := time.Now()

	query := `
        SELECT customer_id, first_name, last_name, age, phone_number, monthly_salary, approved_limit, created_at, updated_at
        FROM customers
        WHERE customer_id = $1`

	var cust customer.Customer
	err := r.db.QueryRow(ctx, query, customerID).Scan(
		&cust.CustomerID,
		&cust.FirstName,
		&cust.LastName,
		&cust.Age,
		&cust.PhoneNumber,
		&cust.MonthlySalary,
		&cust.ApprovedLimit,
		&cust.CreatedAt,
		&cust.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			monitoring.RecordDBQuery("find_customer", "not_found", time.Since(start))
			return nil, fmt.Errorf("%w: customer %d", customer.ErrNotFound, customerID)
		}
		monitoring.RecordDBQuery("find_customer", "error", time.Since(start))
		r.logger.ErrorContext(ctx, "Failed to query customer", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query customer %d: %w", apperrors.ErrDatabase, customerID, err)
	}
	monitoring.RecordDBQuery("find_customer", "success", time.Since(start))
	return &cust, nil
}

func (r *CustomerRepository) ExistsByID(ctx context.Context, customerID int64) (bool, error) {
	start := time.Now()
	query := `SELECT EXISTS (SELECT 1 FROM customers WHERE customer_id = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, customerID).Scan(&exists); err != nil {
		monitoring.RecordDBQuery("customer_exists", "error", time.Since(start))
		r.logger.ErrorContext(ctx, "Failed to check customer existence", slog.Any("error", err))
		return false, fmt.Errorf("%w: failed to check customer %d existence: %w", apperrors.ErrDatabase, customerID, err)
	}
	monitoring.RecordDBQuery("customer_exists", "success", time.Since(start))
	return exists, nil
}

func (r *CustomerRepository) NextCustomerID(ctx context.Context) (int64, error) {
	start := time.Now()
	query := `SELECT COALESCE(MAX(customer_id), 0) + 1 FROM customers`

	var nextID int64
	if err := r.db.QueryRow(ctx, query).Scan(&nextID); err != nil {
		monitoring.RecordDBQuery("next_customer_id", "error", time.Since(start))
		r.logger.ErrorContext(ctx, "Failed to allocate next customer id", slog.Any("error", err))
		return 0, fmt.Errorf("%w: failed to allocate next customer id: %w", apperrors.ErrDatabase, err)
	}
	monitoring.RecordDBQuery("next_customer_id", "success", time.Since(start))
	return nextID, nil
}
