package dto

import (
	"fmt"
	"time"

	"credit-engine/internal/domain/loan"
	"credit-engine/internal/domain/underwriting"

	"github.com/shopspring/decimal"
)

type LoanRequest struct {
	CustomerID   int64   `json:"customer_id"`
	LoanAmount   float64 `json:"loan_amount"`
	InterestRate float64 `json:"interest_rate"`
	Tenure       int     `json:"tenure"`
}

func (r *LoanRequest) Validate() error {
	if r.CustomerID <= 0 {
		return fmt.Errorf("customer_id must be positive")
	}
	if r.LoanAmount <= 0 {
		return fmt.Errorf("loan_amount must be greater than zero")
	}
	if r.InterestRate < 0 {
		return fmt.Errorf("interest_rate cannot be negative")
	}
	if r.Tenure <= 0 {
		return fmt.Errorf("tenure must be positive")
	}
	return nil
}

func (r *LoanRequest) ToDomain() underwriting.LoanRequest {
	return underwriting.LoanRequest{
		CustomerID:   r.CustomerID,
		LoanAmount:   r.LoanAmount,
		InterestRate: r.InterestRate,
		TenureMonths: r.Tenure,
	}
}

type EligibilityResponse struct {
	CustomerID            int64    `json:"customer_id"`
	Approval              bool     `json:"approval"`
	InterestRate          float64  `json:"interest_rate"`
	CorrectedInterestRate *float64 `json:"corrected_interest_rate"`
	Tenure                int      `json:"tenure"`
	MonthlyInstallment    *float64 `json:"monthly_installment"`
}

func NewEligibilityResponse(ev *underwriting.Evaluation) EligibilityResponse {
	if ev == nil {
		return EligibilityResponse{}
	}
	return EligibilityResponse{
		CustomerID:            ev.CustomerID,
		Approval:              ev.Approved,
		InterestRate:          ev.InterestRate,
		CorrectedInterestRate: ev.CorrectedRate,
		Tenure:                ev.TenureMonths,
		MonthlyInstallment:    ev.MonthlyInstallment,
	}
}

type CreateLoanResponse struct {
	LoanID             *int64   `json:"loan_id"`
	CustomerID         int64    `json:"customer_id"`
	LoanApproved       bool     `json:"loan_approved"`
	Message            string   `json:"message"`
	MonthlyInstallment *float64 `json:"monthly_installment"`
}

func NewCreateLoanResponse(result *underwriting.CommitResult) CreateLoanResponse {
	if result == nil {
		return CreateLoanResponse{}
	}
	return CreateLoanResponse{
		LoanID:             result.LoanID,
		CustomerID:         result.CustomerID,
		LoanApproved:       result.Approved,
		Message:            result.Message,
		MonthlyInstallment: result.MonthlyInstallment,
	}
}

type LoanResponse struct {
	LoanID             int64   `json:"loan_id"`
	CustomerID         int64   `json:"customer_id"`
	LoanAmount         string  `json:"loan_amount"`
	Tenure             int     `json:"tenure"`
	InterestRate       string  `json:"interest_rate"`
	MonthlyInstallment string  `json:"monthly_installment"`
	EMIsPaidOnTime     int     `json:"emis_paid_on_time"`
	StartDate          *string `json:"start_date,omitempty"`
	EndDate            *string `json:"end_date,omitempty"`
}

func NewLoanResponse(domainLoan *loan.Loan) LoanResponse {
	if domainLoan == nil {
		return LoanResponse{}
	}
	formatDecimalMoney := func(v float64) string {
		return decimal.NewFromFloat(v).StringFixed(2)
	}
	formatDate := func(t *time.Time) *string {
		if t == nil {
			return nil
		}
		s := t.Format(time.RFC3339[:10])
		return &s
	}

	return LoanResponse{
		LoanID:             domainLoan.LoanID,
		CustomerID:         domainLoan.CustomerID,
		LoanAmount:         formatDecimalMoney(domainLoan.LoanAmount),
		Tenure:             domainLoan.TenureMonths,
		InterestRate:       decimal.NewFromFloat(domainLoan.InterestRate).String(),
		MonthlyInstallment: formatDecimalMoney(domainLoan.MonthlyInstallment),
		EMIsPaidOnTime:     domainLoan.EMIsPaidOnTime,
		StartDate:          formatDate(domainLoan.StartDate),
		EndDate:            formatDate(domainLoan.EndDate),
	}
}

type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type TokenRequest struct {
	Username string `json:"username"`
}
