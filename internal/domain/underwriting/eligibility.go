package underwriting

import (
	"time"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/domain/loan"
)

const (
	scoreTierNoCorrection  = 50
	scoreTierMediumRisk    = 30
	scoreTierHighRisk      = 10
	mediumRiskRateFloorPct = 12.0
	highRiskRateFloorPct   = 16.0
)

// Decision is the total outcome of an eligibility check. A policy rejection
// is a valid decision, not an error: CorrectedRate and MonthlyInstallment are
// nil only where the tables below leave them undefined.
type Decision struct {
	Approved           bool
	InterestRate       float64
	CorrectedRate      *float64
	TenureMonths       int
	MonthlyInstallment *float64
}

// DecideEligibility runs the tiered approval policy for a requested loan
// against the customer's current loan book.
//
// The hard cap comes first: debt already above the approved limit rejects
// outright with no score computed. Tiers then map the credit score to an
// approval and a minimum rate; a floor can raise the requested rate, never
// lower it. Even a tier-approved loan is rejected when the new principal
// would push aggregate debt past the approved limit.
func DecideEligibility(cust *customer.Customer, loans []*loan.Loan, amount, annualRatePct float64, tenureMonths int, now time.Time) (Decision, error) {
	decision := Decision{
		InterestRate: annualRatePct,
		TenureMonths: tenureMonths,
	}

	totalDebt := TotalDebt(loans)
	if totalDebt > cust.ApprovedLimit {
		return decision, nil
	}

	score := CreditScore(cust, loans, now)

	correctedRate := annualRatePct
	switch {
	case score > scoreTierNoCorrection:
		decision.Approved = true
	case score > scoreTierMediumRisk:
		decision.Approved = true
		correctedRate = max(annualRatePct, mediumRiskRateFloorPct)
	case score > scoreTierHighRisk:
		decision.Approved = true
		correctedRate = max(annualRatePct, highRiskRateFloorPct)
	default:
		decision.Approved = false
	}
	decision.CorrectedRate = &correctedRate

	if decision.Approved && amount+totalDebt > cust.ApprovedLimit {
		decision.Approved = false
	}

	if decision.Approved {
		installment, err := loan.MonthlyInstallment(amount, correctedRate, tenureMonths)
		if err != nil {
			return Decision{}, err
		}
		decision.MonthlyInstallment = &installment
	}

	return decision, nil
}
