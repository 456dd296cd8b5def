package dto

import (
	"testing"

	"credit-engine/internal/domain/customer"

	"github.com/stretchr/testify/assert"
)

func TestRegisterCustomerRequestValidate(t *testing.T) {
	valid := RegisterCustomerRequest{
		FirstName:     "Aarav",
		LastName:      "Sharma",
		Age:           30,
		MonthlyIncome: 100000,
		PhoneNumber:   "9876543210",
	}

	tests := []struct {
		name    string
		mutate  func(r *RegisterCustomerRequest)
		wantErr bool
	}{
		{"Valid request", func(r *RegisterCustomerRequest) {}, false},
		{"Empty first name", func(r *RegisterCustomerRequest) { r.FirstName = " " }, true},
		{"Empty last name", func(r *RegisterCustomerRequest) { r.LastName = "" }, true},
		{"Zero age", func(r *RegisterCustomerRequest) { r.Age = 0 }, true},
		{"Negative income", func(r *RegisterCustomerRequest) { r.MonthlyIncome = -1 }, true},
		{"Zero income", func(r *RegisterCustomerRequest) { r.MonthlyIncome = 0 }, true},
		{"Empty phone", func(r *RegisterCustomerRequest) { r.PhoneNumber = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewCustomerResponse(t *testing.T) {
	cust := &customer.Customer{
		CustomerID:    7,
		FirstName:     "Aarav",
		LastName:      "Sharma",
		Age:           30,
		PhoneNumber:   "9876543210",
		MonthlySalary: 100000,
		ApprovedLimit: 3600000,
	}

	resp := NewCustomerResponse(cust)

	assert.Equal(t, int64(7), resp.CustomerID)
	assert.Equal(t, "Aarav Sharma", resp.Name)
	assert.Equal(t, 30, resp.Age)
	assert.Equal(t, 100000.0, resp.MonthlyIncome)
	assert.Equal(t, 3600000.0, resp.ApprovedLimit)
	assert.Equal(t, "9876543210", resp.PhoneNumber)
}

func TestNewCustomerResponseNil(t *testing.T) {
	assert.Equal(t, CustomerResponse{}, NewCustomerResponse(nil))
}

func TestNewCustomerDetailResponse(t *testing.T) {
	cust := &customer.Customer{
		CustomerID:    7,
		FirstName:     "Aarav",
		LastName:      "Sharma",
		Age:           30,
		PhoneNumber:   "9876543210",
		MonthlySalary: 100000,
		ApprovedLimit: 3600000,
	}

	resp := NewCustomerDetailResponse(cust, 123456.789)

	assert.Equal(t, "100000.00", resp.MonthlySalary)
	assert.Equal(t, "3600000.00", resp.ApprovedLimit)
	assert.Equal(t, "123456.79", resp.CurrentDebt)
	assert.Equal(t, "Aarav", resp.FirstName)
	assert.Equal(t, "Sharma", resp.LastName)
}
