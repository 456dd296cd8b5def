package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"credit-engine/internal/config"
	"credit-engine/internal/domain/ingest"
	"credit-engine/internal/infrastructure/bulkfile"
)

type Result struct {
	Customers *ingest.Summary `json:"customers"`
	Loans     *ingest.Summary `json:"loans"`
}

// IngestionJob loads the configured customer and loan workbooks into the
// ledger. The customer stage is safe to re-run; the loan stage appends
// unconditionally, so pointing the job at an already-ingested loan file
// produces duplicate loans.
type IngestionJob struct {
	merger *ingest.Merger
	cfg    config.IngestionConfig
	logger *slog.Logger
}

func NewIngestionJob(merger *ingest.Merger, cfg config.IngestionConfig, logger *slog.Logger) *IngestionJob {
	if merger == nil || logger == nil {
		panic("IngestionJob dependencies cannot be nil")
	}
	return &IngestionJob{
		merger: merger,
		cfg:    cfg,
		logger: logger.With("job", "Ingestion"),
	}
}

func (j *IngestionJob) Run(ctx context.Context) (*Result, error) {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting bulk ingestion job.",
		slog.String("customerFile", j.cfg.CustomerFile), slog.String("loanFile", j.cfg.LoanFile))

	result := &Result{}

	customerSummary, err := j.runCustomerStage(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Customer ingestion stage failed, aborting job.", slog.Any("error", err))
		return result, fmt.Errorf("customer ingestion stage failed: %w", err)
	}
	result.Customers = customerSummary

	loanSummary, err := j.runLoanStage(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Loan ingestion stage failed.", slog.Any("error", err))
		return result, fmt.Errorf("loan ingestion stage failed: %w", err)
	}
	result.Loans = loanSummary

	j.logger.InfoContext(ctx, "Bulk ingestion job finished.",
		slog.Duration("duration", time.Since(startTime)),
		slog.Int("customers_created", customerSummary.Created),
		slog.Int("customers_skipped", customerSummary.Skipped),
		slog.Int("loans_created", loanSummary.Created),
		slog.Int("loans_skipped", loanSummary.Skipped),
		slog.Int("rows_failed", customerSummary.Failed+loanSummary.Failed),
	)
	return result, nil
}

func (j *IngestionJob) runCustomerStage(ctx context.Context) (*ingest.Summary, error) {
	src, err := bulkfile.OpenCustomerSource(j.cfg.CustomerFile)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil {
			j.logger.WarnContext(ctx, "Failed to close customer workbook", slog.Any("error", closeErr))
		}
	}()

	return j.merger.IngestCustomers(ctx, src)
}

func (j *IngestionJob) runLoanStage(ctx context.Context) (*ingest.Summary, error) {
	src, err := bulkfile.OpenLoanSource(j.cfg.LoanFile)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil {
			j.logger.WarnContext(ctx, "Failed to close loan workbook", slog.Any("error", closeErr))
		}
	}()

	return j.merger.IngestLoans(ctx, src)
}
