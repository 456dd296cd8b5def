package underwriting

import (
	"time"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/domain/loan"
)

// MaxCreditScore caps the score from above. There is no floor: a history of
// many loans with few on-time EMIs scores negative.
const MaxCreditScore = 100

const debtToSalaryCutoff = 0.5

// CreditScore rates a customer's repayment history. On-time EMIs raise the
// score, each loan taken lowers it, and loans started in the current year
// raise it back. A customer whose aggregate debt exceeds half their monthly
// salary scores 0 no matter what their history says.
func CreditScore(cust *customer.Customer, loans []*loan.Loan, now time.Time) int {
	paidOnTime := 0
	activeThisYear := 0
	for _, l := range loans {
		paidOnTime += l.EMIsPaidOnTime
		if l.StartDate != nil && l.StartDate.Year() == now.Year() {
			activeThisYear++
		}
	}

	score := paidOnTime - len(loans) + activeThisYear
	if score > MaxCreditScore {
		score = MaxCreditScore
	}

	if TotalDebt(loans) > debtToSalaryCutoff*cust.MonthlySalary {
		score = 0
	}
	return score
}

// TotalDebt is the customer's current aggregate principal. It is always
// derived from the loans on record, never read from a stored counter.
func TotalDebt(loans []*loan.Loan) float64 {
	total := 0.0
	for _, l := range loans {
		total += l.LoanAmount
	}
	return total
}
