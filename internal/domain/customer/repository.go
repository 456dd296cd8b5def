package customer

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("customer not found")

	ErrAlreadyExists = errors.New("customer already exists")
)

type CustomerRepository interface {
	// CreateCustomer inserts the customer under its explicit id. The insert
	// uses create-if-absent semantics; created reports whether a row was
	// actually written, so concurrent ingestion runs cannot duplicate an
	// external id.
	CreateCustomer(ctx context.Context, cust *Customer) (created bool, err error)

	FindByID(ctx context.Context, customerID int64) (*Customer, error)

	ExistsByID(ctx context.Context, customerID int64) (bool, error)

	// NextCustomerID returns max(customer_id) + 1, or 1 for an empty ledger.
	NextCustomerID(ctx context.Context) (int64, error)
}
