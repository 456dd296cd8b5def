package ingest

import (
	"strings"
	"time"
)

// DateCell carries a workbook date the way it arrived: already parsed by the
// reader, or as raw text. Unparsable or absent dates normalize to nil rather
// than failing the row.
type DateCell struct {
	Value *time.Time
	Raw   string
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02-01-2006",
}

func (d DateCell) Normalize() *time.Time {
	if d.Value != nil {
		day := d.Value.Truncate(24 * time.Hour)
		return &day
	}
	raw := strings.TrimSpace(d.Raw)
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			day := t.Truncate(24 * time.Hour)
			return &day
		}
	}
	return nil
}

// CustomerRow is one record of the historical customer sheet. Every field is
// required; age is carried by the sheet but was never stored for historical
// records, and that behavior is preserved.
type CustomerRow struct {
	CustomerID    *int64
	FirstName     *string
	LastName      *string
	Age           *int
	PhoneNumber   *string
	MonthlySalary *float64
	ApprovedLimit *float64
}

func (r CustomerRow) complete() bool {
	return r.CustomerID != nil &&
		r.FirstName != nil && *r.FirstName != "" &&
		r.LastName != nil && *r.LastName != "" &&
		r.Age != nil &&
		r.PhoneNumber != nil && *r.PhoneNumber != "" &&
		r.MonthlySalary != nil &&
		r.ApprovedLimit != nil
}

// LoanRow is one record of the historical loan sheet. The sheet carries an
// installment column, but the stored installment is always recomputed from
// principal, rate and tenure.
type LoanRow struct {
	CustomerID         *int64
	LoanAmount         *float64
	TenureMonths       *int
	InterestRate       *float64
	MonthlyInstallment *float64
	EMIsPaidOnTime     *int
	StartDate          DateCell
	EndDate            DateCell
}

func (r LoanRow) complete() bool {
	return r.LoanAmount != nil &&
		r.TenureMonths != nil &&
		r.InterestRate != nil &&
		r.MonthlyInstallment != nil &&
		r.EMIsPaidOnTime != nil
}

type Outcome string

const (
	OutcomeCreated                Outcome = "created"
	OutcomeSkippedDuplicate       Outcome = "skipped_duplicate"
	OutcomeSkippedMissingCustomer Outcome = "skipped_missing_customer"
	OutcomeSkippedMissingFields   Outcome = "skipped_missing_fields"
	OutcomeSkippedInvalid         Outcome = "skipped_invalid"
	OutcomeFailed                 Outcome = "failed"
)

type RowResult struct {
	Row     int     `json:"row"`
	Outcome Outcome `json:"outcome"`
	Reason  string  `json:"reason,omitempty"`
}

type Summary struct {
	Processed int         `json:"processed"`
	Created   int         `json:"created"`
	Skipped   int         `json:"skipped"`
	Failed    int         `json:"failed"`
	Results   []RowResult `json:"results"`
}

func (s *Summary) add(result RowResult) {
	s.Processed++
	switch result.Outcome {
	case OutcomeCreated:
		s.Created++
	case OutcomeFailed:
		s.Failed++
	default:
		s.Skipped++
	}
	s.Results = append(s.Results, result)
}
