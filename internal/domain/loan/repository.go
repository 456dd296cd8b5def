package loan

import (
	"context"
)

type Repository interface {
	// CreateLoan persists the loan and returns it with its system-assigned id.
	CreateLoan(ctx context.Context, newLoan *Loan) (*Loan, error)

	GetLoanByID(ctx context.Context, loanID int64) (*Loan, error)

	ListByCustomer(ctx context.Context, customerID int64) ([]*Loan, error)

	// TotalPrincipalByCustomer sums loan_amount over all loans of a customer.
	// Current debt is always derived this way, never stored.
	TotalPrincipalByCustomer(ctx context.Context, customerID int64) (float64, error)
}
