package customer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveApprovedLimit(t *testing.T) {
	tests := []struct {
		name          string
		monthlyIncome float64
		want          float64
	}{
		{"one lakh salary", 100000, 3_600_000},
		{"fifty thousand salary", 50000, 1_800_000},
		{"rounds down to the nearest lakh", 34000, 1_200_000},
		{"rounds up to the nearest lakh", 20900, 800_000},
		{"small salary still gets a limit", 3000, 100_000},
		{"tiny salary rounds to zero", 1000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveApprovedLimit(tt.monthlyIncome))
		})
	}
}

func TestNewCustomer(t *testing.T) {
	cust := NewCustomer(7, "Aarav", "Sharma", 30, "9876543210", 100000, 3_600_000)

	assert.Equal(t, int64(7), cust.CustomerID)
	assert.Equal(t, "Aarav", cust.FirstName)
	assert.Equal(t, "Sharma", cust.LastName)
	assert.Equal(t, 30, cust.Age)
	assert.Equal(t, "9876543210", cust.PhoneNumber)
	assert.Equal(t, 100000.0, cust.MonthlySalary)
	assert.Equal(t, 3_600_000.0, cust.ApprovedLimit)
	assert.False(t, cust.CreatedAt.IsZero())
	assert.Equal(t, cust.CreatedAt, cust.UpdatedAt)
}

func TestFullName(t *testing.T) {
	cust := &Customer{FirstName: "Aarav", LastName: "Sharma"}
	assert.Equal(t, "Aarav Sharma", cust.FullName())
}
