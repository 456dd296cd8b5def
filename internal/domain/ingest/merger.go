package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/domain/loan"
	"credit-engine/internal/infrastructure/monitoring"
	"credit-engine/internal/pkg/apperrors"
)

const (
	stageCustomers = "customers"
	stageLoans     = "loans"
)

// Merger upserts bulk records into the ledger. The customer stage is
// idempotent per external id; the loan stage appends unconditionally, so
// re-running it over an already-ingested file duplicates loans. One row's
// outcome never affects the next row.
type Merger struct {
	customerRepo customer.CustomerRepository
	loanRepo     loan.Repository
	logger       *slog.Logger
}

func NewMerger(customerRepo customer.CustomerRepository, loanRepo loan.Repository, logger *slog.Logger) *Merger {
	if customerRepo == nil || loanRepo == nil {
		panic("Merger repositories cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewMerger, using default stderr handler")
	}
	return &Merger{
		customerRepo: customerRepo,
		loanRepo:     loanRepo,
		logger:       logger.With(slog.String("component", "ingestMerger")),
	}
}

func (m *Merger) IngestCustomers(ctx context.Context, src Source[CustomerRow]) (*Summary, error) {
	logCtx := m.logger.With(slog.String("stage", stageCustomers))
	logCtx.InfoContext(ctx, "Starting customer ingestion")

	summary := &Summary{}
	rowNum := 0
	for src.Next() {
		rowNum++
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		result := m.mergeCustomerRow(ctx, src.Row(), rowNum, logCtx)
		monitoring.RecordIngestionRow(stageCustomers, string(result.Outcome))
		summary.add(result)
	}
	if err := src.Err(); err != nil {
		logCtx.ErrorContext(ctx, "Customer source failed", slog.Any("error", err))
		return summary, fmt.Errorf("customer source failed after %d rows: %w", rowNum, err)
	}

	logCtx.InfoContext(ctx, "Customer ingestion finished",
		slog.Int("processed", summary.Processed), slog.Int("created", summary.Created),
		slog.Int("skipped", summary.Skipped), slog.Int("failed", summary.Failed))
	return summary, nil
}

func (m *Merger) mergeCustomerRow(ctx context.Context, row CustomerRow, rowNum int, logCtx *slog.Logger) RowResult {
	if !row.complete() {
		logCtx.WarnContext(ctx, "Skipping customer row due to missing data", slog.Int("row", rowNum))
		return RowResult{Row: rowNum, Outcome: OutcomeSkippedMissingFields, Reason: "one or more required fields are missing"}
	}

	cust := customer.NewCustomer(*row.CustomerID, *row.FirstName, *row.LastName, 0, *row.PhoneNumber, *row.MonthlySalary, *row.ApprovedLimit)

	created, err := m.customerRepo.CreateCustomer(ctx, cust)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to create customer from row", slog.Int("row", rowNum), slog.Any("error", err))
		return RowResult{Row: rowNum, Outcome: OutcomeFailed, Reason: err.Error()}
	}
	if !created {
		logCtx.InfoContext(ctx, "Customer already exists, skipping row", slog.Int("row", rowNum), slog.Int64("customerID", *row.CustomerID))
		return RowResult{Row: rowNum, Outcome: OutcomeSkippedDuplicate}
	}

	return RowResult{Row: rowNum, Outcome: OutcomeCreated}
}

func (m *Merger) IngestLoans(ctx context.Context, src Source[LoanRow]) (*Summary, error) {
	logCtx := m.logger.With(slog.String("stage", stageLoans))
	logCtx.InfoContext(ctx, "Starting loan ingestion")

	summary := &Summary{}
	rowNum := 0
	for src.Next() {
		rowNum++
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		result := m.mergeLoanRow(ctx, src.Row(), rowNum, logCtx)
		monitoring.RecordIngestionRow(stageLoans, string(result.Outcome))
		summary.add(result)
	}
	if err := src.Err(); err != nil {
		logCtx.ErrorContext(ctx, "Loan source failed", slog.Any("error", err))
		return summary, fmt.Errorf("loan source failed after %d rows: %w", rowNum, err)
	}

	logCtx.InfoContext(ctx, "Loan ingestion finished",
		slog.Int("processed", summary.Processed), slog.Int("created", summary.Created),
		slog.Int("skipped", summary.Skipped), slog.Int("failed", summary.Failed))
	return summary, nil
}

func (m *Merger) mergeLoanRow(ctx context.Context, row LoanRow, rowNum int, logCtx *slog.Logger) RowResult {
	if row.CustomerID == nil {
		logCtx.WarnContext(ctx, "Skipping loan row without customer id", slog.Int("row", rowNum))
		return RowResult{Row: rowNum, Outcome: OutcomeSkippedMissingFields, Reason: "customer id is missing"}
	}

	exists, err := m.customerRepo.ExistsByID(ctx, *row.CustomerID)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to look up customer for loan row", slog.Int("row", rowNum), slog.Any("error", err))
		return RowResult{Row: rowNum, Outcome: OutcomeFailed, Reason: err.Error()}
	}
	if !exists {
		logCtx.WarnContext(ctx, "Skipping loan row for unknown customer", slog.Int("row", rowNum), slog.Int64("customerID", *row.CustomerID))
		return RowResult{Row: rowNum, Outcome: OutcomeSkippedMissingCustomer, Reason: fmt.Sprintf("customer %d does not exist", *row.CustomerID)}
	}

	if !row.complete() {
		logCtx.WarnContext(ctx, "Skipping loan row due to missing data", slog.Int("row", rowNum))
		return RowResult{Row: rowNum, Outcome: OutcomeSkippedMissingFields, Reason: "one or more required fields are missing"}
	}

	// The stored installment is derived from the row's own terms, not read
	// from the sheet's installment column.
	newLoan, err := loan.NewLoan(*row.CustomerID, *row.LoanAmount, *row.TenureMonths, *row.InterestRate, *row.EMIsPaidOnTime, row.StartDate.Normalize(), row.EndDate.Normalize())
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidArgument) {
			logCtx.WarnContext(ctx, "Skipping loan row with invalid values", slog.Int("row", rowNum), slog.Any("error", err))
			return RowResult{Row: rowNum, Outcome: OutcomeSkippedInvalid, Reason: err.Error()}
		}
		logCtx.ErrorContext(ctx, "Failed to build loan from row", slog.Int("row", rowNum), slog.Any("error", err))
		return RowResult{Row: rowNum, Outcome: OutcomeFailed, Reason: err.Error()}
	}

	if _, err := m.loanRepo.CreateLoan(ctx, newLoan); err != nil {
		logCtx.ErrorContext(ctx, "Failed to save loan from row", slog.Int("row", rowNum), slog.Any("error", err))
		return RowResult{Row: rowNum, Outcome: OutcomeFailed, Reason: err.Error()}
	}

	return RowResult{Row: rowNum, Outcome: OutcomeCreated}
}
