package event

import (
	"time"
)

type CustomerEventPayload struct {
	CustomerID    int64   `json:"customerId"`
	FirstName     string  `json:"firstName"`
	LastName      string  `json:"lastName"`
	PhoneNumber   string  `json:"phoneNumber"`
	MonthlySalary float64 `json:"monthlySalary"`
	ApprovedLimit float64 `json:"approvedLimit"`
}

type CustomerRegisteredEvent struct {
	Timestamp time.Time            `json:"timestamp"`
	Payload   CustomerEventPayload `json:"payload"`
}

type LoanEventPayload struct {
	LoanID             int64      `json:"loanId"`
	CustomerID         int64      `json:"customerId"`
	LoanAmount         float64    `json:"loanAmount"`
	TenureMonths       int        `json:"tenureMonths"`
	InterestRate       float64    `json:"interestRate"`
	MonthlyInstallment float64    `json:"monthlyInstallment"`
	StartDate          *time.Time `json:"startDate,omitempty"`
	EndDate            *time.Time `json:"endDate,omitempty"`
}

type LoanCommittedEvent struct {
	Timestamp time.Time        `json:"timestamp"`
	Payload   LoanEventPayload `json:"payload"`
}
