package customer

import (
	"math"
	"time"
)

const approvedLimitRoundingUnit = 100_000.0

type Customer struct {
	CustomerID    int64     `json:"customerId"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Age           int       `json:"age"`
	PhoneNumber   string    `json:"phoneNumber"`
	MonthlySalary float64   `json:"monthlySalary"`
	ApprovedLimit float64   `json:"approvedLimit"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func NewCustomer(customerID int64, firstName, lastName string, age int, phoneNumber string, monthlySalary, approvedLimit float64) *Customer {
	now := time.Now()
	return &Customer{
		CustomerID:    customerID,
		FirstName:     firstName,
		LastName:      lastName,
		Age:           age,
		PhoneNumber:   phoneNumber,
		MonthlySalary: monthlySalary,
		ApprovedLimit: approvedLimit,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// DeriveApprovedLimit computes the credit limit granted at registration:
// 36 months of salary, rounded to the nearest lakh.
func DeriveApprovedLimit(monthlyIncome float64) float64 {
	return math.Round(36*monthlyIncome/approvedLimitRoundingUnit) * approvedLimitRoundingUnit
}
