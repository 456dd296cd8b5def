package bulkfile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, path string, rows [][]interface{}) {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
}

func TestOpenCustomerSource(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := OpenCustomerSource(filepath.Join(t.TempDir(), "nope.xlsx"))
		assert.Error(t, err)
	})

	t.Run("streams rows past the header", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "customer_data.xlsx")
		writeWorkbook(t, path, [][]interface{}{
			{"Customer ID", "First Name", "Last Name", "Age", "Phone Number", "Monthly Salary", "Approved Limit"},
			{1, "Aarav", "Sharma", 30, "9876543210", 100000, 3600000},
			{2, "Diya", "Patel", 27, "9123456780", 50000.5, 1800000},
		})

		src, err := OpenCustomerSource(path)
		require.NoError(t, err)
		defer src.Close()

		require.True(t, src.Next())
		row := src.Row()
		require.NotNil(t, row.CustomerID)
		assert.Equal(t, int64(1), *row.CustomerID)
		require.NotNil(t, row.FirstName)
		assert.Equal(t, "Aarav", *row.FirstName)
		require.NotNil(t, row.Age)
		assert.Equal(t, 30, *row.Age)
		require.NotNil(t, row.MonthlySalary)
		assert.Equal(t, 100000.0, *row.MonthlySalary)

		require.True(t, src.Next())
		second := src.Row()
		require.NotNil(t, second.MonthlySalary)
		assert.Equal(t, 50000.5, *second.MonthlySalary)

		assert.False(t, src.Next())
		assert.NoError(t, src.Err())
	})

	t.Run("blank and malformed cells come back nil", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "customer_data.xlsx")
		writeWorkbook(t, path, [][]interface{}{
			{"Customer ID", "First Name", "Last Name", "Age", "Phone Number", "Monthly Salary", "Approved Limit"},
			{"not-a-number", "Aarav", "", nil, "9876543210", "abc", 3600000},
		})

		src, err := OpenCustomerSource(path)
		require.NoError(t, err)
		defer src.Close()

		require.True(t, src.Next())
		row := src.Row()
		assert.Nil(t, row.CustomerID)
		assert.Nil(t, row.LastName)
		assert.Nil(t, row.Age)
		assert.Nil(t, row.MonthlySalary)
		require.NotNil(t, row.ApprovedLimit)
		assert.Equal(t, 3600000.0, *row.ApprovedLimit)
	})
}

func TestOpenLoanSource(t *testing.T) {
	t.Run("streams loan rows with raw date cells", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "loan_data.xlsx")
		writeWorkbook(t, path, [][]interface{}{
			{"Customer ID", "Loan Amount", "Tenure", "Interest Rate", "Monthly Payment", "EMIs paid on Time", "Start Date", "End Date"},
			{1, 100000, 12, 12.5, 8884.88, 3, "2021-06-01", "2022-06-01"},
			{2, 50000, 24, 10, 2307.25, 0, "", ""},
		})

		src, err := OpenLoanSource(path)
		require.NoError(t, err)
		defer src.Close()

		require.True(t, src.Next())
		row := src.Row()
		require.NotNil(t, row.CustomerID)
		assert.Equal(t, int64(1), *row.CustomerID)
		require.NotNil(t, row.LoanAmount)
		assert.Equal(t, 100000.0, *row.LoanAmount)
		require.NotNil(t, row.InterestRate)
		assert.Equal(t, 12.5, *row.InterestRate)
		require.NotNil(t, row.EMIsPaidOnTime)
		assert.Equal(t, 3, *row.EMIsPaidOnTime)
		assert.Equal(t, "2021-06-01", row.StartDate.Raw)
		assert.NotNil(t, row.StartDate.Normalize())

		require.True(t, src.Next())
		second := src.Row()
		assert.Empty(t, second.StartDate.Raw)
		assert.Nil(t, second.StartDate.Normalize())

		assert.False(t, src.Next())
		assert.NoError(t, src.Err())
	})

	t.Run("short rows do not panic", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "loan_data.xlsx")
		writeWorkbook(t, path, [][]interface{}{
			{"Customer ID", "Loan Amount"},
			{1, 100000},
		})

		src, err := OpenLoanSource(path)
		require.NoError(t, err)
		defer src.Close()

		require.True(t, src.Next())
		row := src.Row()
		require.NotNil(t, row.CustomerID)
		assert.Nil(t, row.TenureMonths)
		assert.Nil(t, row.InterestRate)
		assert.Empty(t, row.EndDate.Raw)
	})
}
