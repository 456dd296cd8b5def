package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"credit-engine/internal/domain/loan"
	"credit-engine/internal/infrastructure/monitoring"
	"credit-engine/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pashagolub/pgxmock/v4"
)

type DBPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Acquire(ctx context.Context) (*pgxpool.Conn, error)
	Close()
}

var _ DBPool = (*pgxpool.Pool)(nil)

var _ DBPool = (pgxmock.PgxPoolIface)(nil)

type LoanRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ loan.Repository = (*LoanRepository)(nil)

func NewLoanRepository(db DBPool, logger *slog.Logger) *LoanRepository {
	if db == nil {
		panic("DBPool cannot be nil for LoanRepository")
	}
	return &LoanRepository{db: db, logger: logger.With("component", "LoanRepository")}
}

func (r *LoanRepository) CreateLoan(ctx context.Context, newLoan *loan.Loan) (*loan.Loan, error) {
	if newLoan == nil {
		return nil, fmt.Errorf("%w: loan cannot be nil", apperrors.ErrInvalidArgument)
	}

	start := time.Now()
	query := `
        INSERT INTO loans (customer_id, loan_amount, tenure_months, interest_rate, monthly_installment, emis_paid_on_time, start_date, end_date, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
        RETURNING loan_id, created_at, updated_at`

	created := *newLoan
	err := r.db.QueryRow(ctx, query,
		newLoan.CustomerID,
		newLoan.LoanAmount,
		newLoan.TenureMonths,
		newLoan.InterestRate,
		newLoan.MonthlyInstallment,
		newLoan.EMIsPaidOnTime,
		dateArg(newLoan.StartDate),
		dateArg(newLoan.EndDate),
	).Scan(&created.LoanID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		monitoring.RecordDBQuery("create_loan", "error", time.Since(start))
		r.logger.ErrorContext(ctx, "Failed to insert loan", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to insert loan: %w", apperrors.ErrDatabase, err)
	}
	monitoring.RecordDBQuery("create_loan", "success", time.Since(start))

	r.logger.InfoContext(ctx, "Loan created in DB", slog.Int64("loanID", created.LoanID), slog.Int64("customerID", created.CustomerID))
	return &created, nil
}

func (r *LoanRepository) GetLoanByID(ctx context.Context, loanID int64) (*loan.Loan, error) {
	start := time.Now()
	query := `
        SELECT loan_id, customer_id, loan_amount, tenure_months, interest_rate, monthly_installment, emis_paid_on_time, start_date, end_date, created_at, updated_at
        FROM loans
        WHERE loan_id = $1`

	found, err := scanLoan(r.db.QueryRow(ctx, query, loanID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			monitoring.RecordDBQuery("get_loan", "not_found", time.Since(start))
			return nil, fmt.Errorf("%w: loan %d", apperrors.ErrNotFound, loanID)
		}
		monitoring.RecordDBQuery("get_loan", "error", time.Since(start))
		r.logger.ErrorContext(ctx, "Failed to query loan", slog.Int64("loanID", loanID), slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query loan %d: %w", apperrors.ErrDatabase, loanID, err)
	}
	monitoring.RecordDBQuery("get_loan", "success", time.Since(start))
	return found, nil
}

func (r *LoanRepository) ListByCustomer(ctx context.Context, customerID int64) ([]*loan.Loan, error) {
	start := time.Now()
	query := `
        SELECT loan_id, customer_id, loan_amount, tenure_months, interest_rate, monthly_installment, emis_paid_on_time, start_date, end_date, created_at, updated_at
        FROM loans
        WHERE customer_id = $1
        ORDER BY loan_id`

	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		monitoring.RecordDBQuery("list_loans", "error", time.Since(start))
		r.logger.ErrorContext(ctx, "Failed to query customer loans", slog.Int64("customerID", customerID), slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query loans for customer %d: %w", apperrors.ErrDatabase, customerID, err)
	}
	defer rows.Close()

	loans := make([]*loan.Loan, 0)
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			monitoring.RecordDBQuery("list_loans", "error", time.Since(start))
			return nil, fmt.Errorf("%w: failed to scan loan row: %w", apperrors.ErrDatabase, err)
		}
		loans = append(loans, l)
	}
	if err := rows.Err(); err != nil {
		monitoring.RecordDBQuery("list_loans", "error", time.Since(start))
		return nil, fmt.Errorf("%w: failed iterating loan rows: %w", apperrors.ErrDatabase, err)
	}
	monitoring.RecordDBQuery("list_loans", "success", time.Since(start))
	return loans, nil
}

func (r *LoanRepository) TotalPrincipalByCustomer(ctx context.Context, customerID int64) (float64, error) {
	start := time.Now()
	query := `SELECT COALESCE(SUM(loan_amount), 0) FROM loans WHERE customer_id = $1`

	var total float64
	if err := r.db.QueryRow(ctx, query, customerID).Scan(&total); err != nil {
		monitoring.RecordDBQuery("total_principal", "error", time.Since(start))
		r.logger.ErrorContext(ctx, "Failed to sum customer loan principal", slog.Int64("customerID", customerID), slog.Any("error", err))
		return 0, fmt.Errorf("%w: failed to sum principal for customer %d: %w", apperrors.ErrDatabase, customerID, err)
	}
	monitoring.RecordDBQuery("total_principal", "success", time.Since(start))
	return total, nil
}

func scanLoan(row pgx.Row) (*loan.Loan, error) {
	var l loan.Loan
	var startDate, endDate pgtype.Date
	err := row.Scan(
		&l.LoanID,
		&l.CustomerID,
		&l.LoanAmount,
		&l.TenureMonths,
		&l.InterestRate,
		&l.MonthlyInstallment,
		&l.EMIsPaidOnTime,
		&startDate,
		&endDate,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.StartDate = dateValue(startDate)
	l.EndDate = dateValue(endDate)
	return &l, nil
}

func dateArg(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: *t, Valid: true}
}

func dateValue(d pgtype.Date) *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}
