package bulkfile

import (
	"fmt"
	"strconv"
	"strings"

	"credit-engine/internal/domain/ingest"

	"github.com/xuri/excelize/v2"
)

// Column order of the historical workbooks. The first sheet row is a header.
const (
	customerColID = iota
	customerColFirstName
	customerColLastName
	customerColAge
	customerColPhone
	customerColSalary
	customerColLimit
)

const (
	loanColCustomerID = iota
	loanColAmount
	loanColTenure
	loanColRate
	loanColInstallment
	loanColEMIsPaid
	loanColStartDate
	loanColEndDate
)

type sheetReader struct {
	file          *excelize.File
	rows          *excelize.Rows
	err           error
	headerSkipped bool
	current       []string
}

func openSheet(path string) (*sheetReader, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}

	sheetName := file.GetSheetName(0)
	rows, err := file.Rows(sheetName)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to read sheet %q of %s: %w", sheetName, path, err)
	}

	return &sheetReader{file: file, rows: rows}, nil
}

func (r *sheetReader) next() bool {
	if r.err != nil {
		return false
	}
	for r.rows.Next() {
		cols, err := r.rows.Columns()
		if err != nil {
			r.err = err
			return false
		}
		if !r.headerSkipped {
			r.headerSkipped = true
			continue
		}
		r.current = cols
		return true
	}
	r.err = r.rows.Error()
	return false
}

func (r *sheetReader) close() error {
	rowsErr := r.rows.Close()
	fileErr := r.file.Close()
	if rowsErr != nil {
		return rowsErr
	}
	return fileErr
}

// CustomerSource streams customer rows out of an xlsx workbook.
type CustomerSource struct {
	reader *sheetReader
	row    ingest.CustomerRow
}

var _ ingest.Source[ingest.CustomerRow] = (*CustomerSource)(nil)

func OpenCustomerSource(path string) (*CustomerSource, error) {
	reader, err := openSheet(path)
	if err != nil {
		return nil, err
	}
	return &CustomerSource{reader: reader}, nil
}

func (s *CustomerSource) Next() bool {
	if !s.reader.next() {
		return false
	}
	cols := s.reader.current
	s.row = ingest.CustomerRow{
		CustomerID:    int64Cell(cols, customerColID),
		FirstName:     strCell(cols, customerColFirstName),
		LastName:      strCell(cols, customerColLastName),
		Age:           intCell(cols, customerColAge),
		PhoneNumber:   strCell(cols, customerColPhone),
		MonthlySalary: floatCell(cols, customerColSalary),
		ApprovedLimit: floatCell(cols, customerColLimit),
	}
	return true
}

func (s *CustomerSource) Row() ingest.CustomerRow {
	return s.row
}

func (s *CustomerSource) Err() error {
	return s.reader.err
}

func (s *CustomerSource) Close() error {
	return s.reader.close()
}

// LoanSource streams loan rows out of an xlsx workbook.
type LoanSource struct {
	reader *sheetReader
	row    ingest.LoanRow
}

var _ ingest.Source[ingest.LoanRow] = (*LoanSource)(nil)

func OpenLoanSource(path string) (*LoanSource, error) {
	reader, err := openSheet(path)
	if err != nil {
		return nil, err
	}
	return &LoanSource{reader: reader}, nil
}

func (s *LoanSource) Next() bool {
	if !s.reader.next() {
		return false
	}
	cols := s.reader.current
	s.row = ingest.LoanRow{
		CustomerID:         int64Cell(cols, loanColCustomerID),
		LoanAmount:         floatCell(cols, loanColAmount),
		TenureMonths:       intCell(cols, loanColTenure),
		InterestRate:       floatCell(cols, loanColRate),
		MonthlyInstallment: floatCell(cols, loanColInstallment),
		EMIsPaidOnTime:     intCell(cols, loanColEMIsPaid),
		StartDate:          ingest.DateCell{Raw: rawCell(cols, loanColStartDate)},
		EndDate:            ingest.DateCell{Raw: rawCell(cols, loanColEndDate)},
	}
	return true
}

func (s *LoanSource) Row() ingest.LoanRow {
	return s.row
}

func (s *LoanSource) Err() error {
	return s.reader.err
}

func (s *LoanSource) Close() error {
	return s.reader.close()
}

func rawCell(cols []string, idx int) string {
	if idx >= len(cols) {
		return ""
	}
	return strings.TrimSpace(cols[idx])
}

func strCell(cols []string, idx int) *string {
	v := rawCell(cols, idx)
	if v == "" {
		return nil
	}
	return &v
}

func int64Cell(cols []string, idx int) *int64 {
	v := rawCell(cols, idx)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func intCell(cols []string, idx int) *int {
	v := rawCell(cols, idx)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

func floatCell(cols []string, idx int) *float64 {
	v := rawCell(cols, idx)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}
