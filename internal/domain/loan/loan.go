package loan

import (
	"fmt"
	"math"
	"time"

	"credit-engine/internal/pkg/apperrors"
)

type Loan struct {
	LoanID             int64
	CustomerID         int64
	LoanAmount         float64
	TenureMonths       int
	InterestRate       float64
	MonthlyInstallment float64
	EMIsPaidOnTime     int
	StartDate          *time.Time
	EndDate            *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewLoan builds an unsaved loan and derives its installment from its own
// terms. The installment is never accepted from the caller.
func NewLoan(customerID int64, amount float64, tenureMonths int, annualRatePct float64, emisPaidOnTime int, startDate, endDate *time.Time) (*Loan, error) {
	if customerID <= 0 {
		return nil, fmt.Errorf("%w: customer id must be positive", apperrors.ErrInvalidArgument)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: loan amount must be positive", apperrors.ErrInvalidArgument)
	}
	if tenureMonths <= 0 {
		return nil, fmt.Errorf("%w: tenure must be positive", apperrors.ErrInvalidArgument)
	}
	if annualRatePct < 0 {
		return nil, fmt.Errorf("%w: interest rate cannot be negative", apperrors.ErrInvalidArgument)
	}
	if emisPaidOnTime < 0 {
		return nil, fmt.Errorf("%w: emis paid on time cannot be negative", apperrors.ErrInvalidArgument)
	}

	installment, err := MonthlyInstallment(amount, annualRatePct, tenureMonths)
	if err != nil {
		return nil, err
	}

	return &Loan{
		CustomerID:         customerID,
		LoanAmount:         amount,
		TenureMonths:       tenureMonths,
		InterestRate:       annualRatePct,
		MonthlyInstallment: installment,
		EMIsPaidOnTime:     emisPaidOnTime,
		StartDate:          startDate,
		EndDate:            endDate,
	}, nil
}

// MonthlyInstallment computes the fixed EMI for a principal at an annual
// percentage rate over a tenure in months. Results are rounded to 2 decimal
// places, half away from zero. A zero rate degenerates to straight division;
// the compound formula is undefined there.
func MonthlyInstallment(principal, annualRatePct float64, tenureMonths int) (float64, error) {
	if principal <= 0 {
		return 0, fmt.Errorf("%w: principal must be positive", apperrors.ErrInvalidArgument)
	}
	if tenureMonths <= 0 {
		return 0, fmt.Errorf("%w: tenure must be positive", apperrors.ErrInvalidArgument)
	}
	if annualRatePct < 0 {
		return 0, fmt.Errorf("%w: interest rate cannot be negative", apperrors.ErrInvalidArgument)
	}

	r := annualRatePct / 1200
	if r == 0 {
		return roundTo(principal/float64(tenureMonths), 2), nil
	}

	growth := math.Pow(1+r, float64(tenureMonths))
	installment := principal * r * growth / (growth - 1)
	return roundTo(installment, 2), nil
}

func roundTo(n float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(n*pow) / pow
}
