package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"credit-engine/internal/event"
	"credit-engine/internal/infrastructure/monitoring"
	"credit-engine/internal/pkg/apperrors"
)

const inputValidationPassed = "Input validation passed"

type CustomerService interface {
	RegisterCustomer(ctx context.Context, firstName, lastName string, age int, monthlyIncome float64, phoneNumber string) (*Customer, error)
	GetCustomer(ctx context.Context, customerID int64) (*Customer, error)
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo   CustomerRepository
	pub    event.EventPublisher
	logger *slog.Logger
}

func NewCustomerService(repo CustomerRepository, eventPublisher event.EventPublisher, logger *slog.Logger) CustomerService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerService, using default stderr handler")
	}

	return &customerService{
		repo:   repo,
		pub:    eventPublisher,
		logger: logger.With(slog.String("component", "customerService")),
	}
}

func (s *customerService) RegisterCustomer(ctx context.Context, firstName, lastName string, age int, monthlyIncome float64, phoneNumber string) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to register new customer")

	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	phoneNumber = strings.TrimSpace(phoneNumber)
	if firstName == "" {
		s.logger.WarnContext(ctx, "Validation failed: first name is empty")
		return nil, apperrors.NewValidationError("first_name", "first name cannot be empty")
	}
	if lastName == "" {
		s.logger.WarnContext(ctx, "Validation failed: last name is empty")
		return nil, apperrors.NewValidationError("last_name", "last name cannot be empty")
	}
	if age <= 0 {
		s.logger.WarnContext(ctx, "Validation failed: age must be positive", slog.Int("age", age))
		return nil, apperrors.NewValidationError("age", "age must be positive")
	}
	if monthlyIncome <= 0 {
		s.logger.WarnContext(ctx, "Validation failed: monthly income must be positive")
		return nil, apperrors.NewValidationError("monthly_income", "monthly income must be positive")
	}
	if phoneNumber == "" {
		s.logger.WarnContext(ctx, "Validation failed: phone number is empty")
		return nil, apperrors.NewValidationError("phone_number", "phone number cannot be empty")
	}
	s.logger.InfoContext(ctx, inputValidationPassed)

	approvedLimit := DeriveApprovedLimit(monthlyIncome)

	nextID, err := s.repo.NextCustomerID(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to allocate next customer id", slog.Any("error", err))
		return nil, fmt.Errorf("failed to allocate customer id: %w", err)
	}

	cust := NewCustomer(nextID, firstName, lastName, age, phoneNumber, monthlyIncome, approvedLimit)

	created, err := s.repo.CreateCustomer(ctx, cust)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save new customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new customer: %w", err)
	}
	if !created {
		s.logger.ErrorContext(ctx, "Allocated customer id was taken concurrently", slog.Int64("customerID", nextID))
		return nil, fmt.Errorf("%w: customer id %d already taken", apperrors.ErrConflict, nextID)
	}

	logCtx := s.logger.With(slog.Int64("customerID", cust.CustomerID))
	logCtx.InfoContext(ctx, "Successfully registered new customer", slog.Float64("approvedLimit", approvedLimit))
	monitoring.RecordCustomerRegistered()

	s.publishRegisteredEvent(ctx, cust, logCtx)
	return cust, nil
}

func (s *customerService) publishRegisteredEvent(ctx context.Context, cust *Customer, logCtx *slog.Logger) {
	if s.pub == nil {
		return
	}
	registeredEvent := event.CustomerRegisteredEvent{
		Timestamp: time.Now(),
		Payload: event.CustomerEventPayload{
			CustomerID:    cust.CustomerID,
			FirstName:     cust.FirstName,
			LastName:      cust.LastName,
			PhoneNumber:   cust.PhoneNumber,
			MonthlySalary: cust.MonthlySalary,
			ApprovedLimit: cust.ApprovedLimit,
		},
	}
	if pubErr := s.pub.PublishCustomerRegistered(ctx, registeredEvent); pubErr != nil {
		logCtx.ErrorContext(ctx, "Customer registered, but FAILED to publish registration event", slog.Any("error", pubErr))
	} else {
		logCtx.InfoContext(ctx, "Successfully published customer registration event")
	}
}

func (s *customerService) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to get customer by ID", slog.Int64("customerID", customerID))

	cust, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.WarnContext(ctx, "Customer not found by repository", slog.Int64("customerID", customerID))
			return nil, ErrNotFound
		}

		s.logger.ErrorContext(ctx, "Repository error finding customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}

	s.logger.InfoContext(ctx, "Successfully retrieved customer", slog.Int64("customerID", customerID))
	return cust, nil
}
