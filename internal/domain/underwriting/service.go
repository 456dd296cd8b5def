package underwriting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/domain/loan"
	"credit-engine/internal/event"
	"credit-engine/internal/infrastructure/monitoring"
	"credit-engine/internal/pkg/apperrors"
)

const msgLimitExceeded = "Loan amount exceeds approved credit limit"
const msgLoanApproved = "Loan approved successfully"

type LoanRequest struct {
	CustomerID   int64
	LoanAmount   float64
	InterestRate float64
	TenureMonths int
}

type Evaluation struct {
	CustomerID int64
	Decision
}

type CommitResult struct {
	LoanID             *int64
	CustomerID         int64
	Approved           bool
	Message            string
	MonthlyInstallment *float64
}

type UnderwritingService interface {
	// Evaluate answers whether the loan could be approved and on what terms,
	// without persisting anything.
	Evaluate(ctx context.Context, req LoanRequest) (*Evaluation, error)

	// Commit creates the loan at the requested rate unless the new principal
	// would push aggregate debt past the approved limit. No tier correction
	// is applied here; the cap is the only guard.
	Commit(ctx context.Context, req LoanRequest) (*CommitResult, error)

	GetLoan(ctx context.Context, loanID int64) (*loan.Loan, error)

	ListCustomerLoans(ctx context.Context, customerID int64) ([]*loan.Loan, error)

	GetTotalDebt(ctx context.Context, customerID int64) (float64, error)
}

var _ UnderwritingService = (*underwritingService)(nil)

type underwritingService struct {
	loanRepo        loan.Repository
	customerService customer.CustomerService
	pub             event.EventPublisher
	logger          *slog.Logger
	now             func() time.Time
}

func NewUnderwritingService(loanRepo loan.Repository, customerService customer.CustomerService, eventPublisher event.EventPublisher, logger *slog.Logger) UnderwritingService {
	if loanRepo == nil {
		panic("loan repository cannot be nil")
	}
	if customerService == nil {
		panic("customer service cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewUnderwritingService, using default stderr handler")
	}
	return &underwritingService{
		loanRepo:        loanRepo,
		customerService: customerService,
		pub:             eventPublisher,
		logger:          logger.With(slog.String("component", "underwritingService")),
		now:             time.Now,
	}
}

func (r LoanRequest) validate() error {
	if r.CustomerID <= 0 {
		return apperrors.NewValidationError("customer_id", "customer id must be positive")
	}
	if r.LoanAmount <= 0 {
		return apperrors.NewValidationError("loan_amount", "loan amount must be positive")
	}
	if r.InterestRate < 0 {
		return apperrors.NewValidationError("interest_rate", "interest rate cannot be negative")
	}
	if r.TenureMonths <= 0 {
		return apperrors.NewValidationError("tenure", "tenure must be positive")
	}
	return nil
}

func (s *underwritingService) Evaluate(ctx context.Context, req LoanRequest) (*Evaluation, error) {
	logCtx := s.logger.With(slog.Int64("customerID", req.CustomerID))
	logCtx.InfoContext(ctx, "Evaluating loan eligibility", slog.Float64("amount", req.LoanAmount), slog.Int("tenure", req.TenureMonths))

	if err := req.validate(); err != nil {
		logCtx.WarnContext(ctx, "Eligibility request failed validation", slog.Any("error", err))
		return nil, err
	}

	cust, loans, err := s.customerWithLoans(ctx, req.CustomerID, logCtx)
	if err != nil {
		return nil, err
	}

	decision, err := DecideEligibility(cust, loans, req.LoanAmount, req.InterestRate, req.TenureMonths, s.now())
	if err != nil {
		logCtx.ErrorContext(ctx, "Eligibility decision failed", slog.Any("error", err))
		return nil, fmt.Errorf("%w: eligibility decision failed: %v", apperrors.ErrInternalServer, err)
	}

	outcome := "rejected"
	if decision.Approved {
		outcome = "approved"
	}
	monitoring.RecordEvaluation(outcome)
	logCtx.InfoContext(ctx, "Eligibility evaluated", slog.Bool("approved", decision.Approved))

	return &Evaluation{CustomerID: req.CustomerID, Decision: decision}, nil
}

func (s *underwritingService) Commit(ctx context.Context, req LoanRequest) (*CommitResult, error) {
	logCtx := s.logger.With(slog.Int64("customerID", req.CustomerID))
	logCtx.InfoContext(ctx, "Committing loan", slog.Float64("amount", req.LoanAmount), slog.Int("tenure", req.TenureMonths))

	if err := req.validate(); err != nil {
		logCtx.WarnContext(ctx, "Commit request failed validation", slog.Any("error", err))
		return nil, err
	}

	cust, err := s.customerService.GetCustomer(ctx, req.CustomerID)
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			logCtx.WarnContext(ctx, "Customer not found for loan commit")
			return nil, fmt.Errorf("%w: customer %d not found", apperrors.ErrNotFound, req.CustomerID)
		}
		logCtx.ErrorContext(ctx, "Failed to get customer for loan commit", slog.Any("error", err))
		return nil, fmt.Errorf("failed to verify customer: %w", err)
	}

	totalDebt, err := s.loanRepo.TotalPrincipalByCustomer(ctx, req.CustomerID)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to derive total debt", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to derive total debt for customer %d: %v", apperrors.ErrInternalServer, req.CustomerID, err)
	}

	if totalDebt+req.LoanAmount > cust.ApprovedLimit {
		logCtx.InfoContext(ctx, "Loan commit rejected by credit limit cap",
			slog.Float64("totalDebt", totalDebt), slog.Float64("approvedLimit", cust.ApprovedLimit))
		return &CommitResult{
			CustomerID: req.CustomerID,
			Approved:   false,
			Message:    msgLimitExceeded,
		}, nil
	}

	startDate := s.now()
	endDate := startDate.AddDate(req.TenureMonths/12, 0, 0)

	newLoan, err := loan.NewLoan(req.CustomerID, req.LoanAmount, req.TenureMonths, req.InterestRate, 0, &startDate, &endDate)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to build loan object", slog.Any("error", err))
		return nil, err
	}

	createdLoan, err := s.loanRepo.CreateLoan(ctx, newLoan)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to save loan", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to save loan: %v", apperrors.ErrInternalServer, err)
	}

	logCtx.InfoContext(ctx, "Loan committed successfully", slog.Int64("loanID", createdLoan.LoanID))
	monitoring.RecordLoanCommitted()
	s.publishCommittedEvent(ctx, createdLoan, logCtx)

	installment := createdLoan.MonthlyInstallment
	return &CommitResult{
		LoanID:             &createdLoan.LoanID,
		CustomerID:         req.CustomerID,
		Approved:           true,
		Message:            msgLoanApproved,
		MonthlyInstallment: &installment,
	}, nil
}

func (s *underwritingService) GetLoan(ctx context.Context, loanID int64) (*loan.Loan, error) {
	s.logger.InfoContext(ctx, "Getting loan details", slog.Int64("loanID", loanID))
	found, err := s.loanRepo.GetLoanByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Loan not found", slog.Int64("loanID", loanID))
			return nil, fmt.Errorf("%w: loan with ID %d not found", apperrors.ErrNotFound, loanID)
		}
		s.logger.ErrorContext(ctx, "Failed to get loan", slog.Int64("loanID", loanID), slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get loan %d: %v", apperrors.ErrInternalServer, loanID, err)
	}
	return found, nil
}

func (s *underwritingService) ListCustomerLoans(ctx context.Context, customerID int64) ([]*loan.Loan, error) {
	logCtx := s.logger.With(slog.Int64("customerID", customerID))
	logCtx.InfoContext(ctx, "Listing customer loans")

	_, loans, err := s.customerWithLoans(ctx, customerID, logCtx)
	if err != nil {
		return nil, err
	}
	return loans, nil
}

func (s *underwritingService) GetTotalDebt(ctx context.Context, customerID int64) (float64, error) {
	totalDebt, err := s.loanRepo.TotalPrincipalByCustomer(ctx, customerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to derive total debt", slog.Int64("customerID", customerID), slog.Any("error", err))
		return 0, fmt.Errorf("%w: failed to derive total debt for customer %d: %v", apperrors.ErrInternalServer, customerID, err)
	}
	return totalDebt, nil
}

func (s *underwritingService) customerWithLoans(ctx context.Context, customerID int64, logCtx *slog.Logger) (*customer.Customer, []*loan.Loan, error) {
	cust, err := s.customerService.GetCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			logCtx.WarnContext(ctx, "Customer not found")
			return nil, nil, fmt.Errorf("%w: customer %d not found", apperrors.ErrNotFound, customerID)
		}
		logCtx.ErrorContext(ctx, "Failed to get customer", slog.Any("error", err))
		return nil, nil, fmt.Errorf("failed to verify customer: %w", err)
	}

	loans, err := s.loanRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to list customer loans", slog.Any("error", err))
		return nil, nil, fmt.Errorf("%w: failed to list loans for customer %d: %v", apperrors.ErrInternalServer, customerID, err)
	}
	return cust, loans, nil
}

func (s *underwritingService) publishCommittedEvent(ctx context.Context, committed *loan.Loan, logCtx *slog.Logger) {
	if s.pub == nil {
		return
	}
	committedEvent := event.LoanCommittedEvent{
		Timestamp: time.Now(),
		Payload: event.LoanEventPayload{
			LoanID:             committed.LoanID,
			CustomerID:         committed.CustomerID,
			LoanAmount:         committed.LoanAmount,
			TenureMonths:       committed.TenureMonths,
			InterestRate:       committed.InterestRate,
			MonthlyInstallment: committed.MonthlyInstallment,
			StartDate:          committed.StartDate,
			EndDate:            committed.EndDate,
		},
	}
	if pubErr := s.pub.PublishLoanCommitted(ctx, committedEvent); pubErr != nil {
		logCtx.ErrorContext(ctx, "Loan committed, but FAILED to publish commit event", slog.Any("error", pubErr))
	} else {
		logCtx.InfoContext(ctx, "Successfully published loan committed event")
	}
}
