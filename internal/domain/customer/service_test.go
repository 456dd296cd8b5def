package customer

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"credit-engine/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) CreateCustomer(ctx context.Context, cust *Customer) (bool, error) {
	args := m.Called(ctx, cust)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepository) FindByID(ctx context.Context, customerID int64) (*Customer, error) {
	args := m.Called(ctx, customerID)
	if cust, ok := args.Get(0).(*Customer); ok {
		return cust, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) ExistsByID(ctx context.Context, customerID int64) (bool, error) {
	args := m.Called(ctx, customerID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepository) NextCustomerID(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func newTestService(repo *mockRepository) CustomerService {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return NewCustomerService(repo, nil, logger)
}

func TestRegisterCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("registers with a derived limit and allocated id", func(t *testing.T) {
		repo := new(mockRepository)
		svc := newTestService(repo)

		repo.On("NextCustomerID", ctx).Return(int64(301), nil)
		repo.On("CreateCustomer", ctx, mock.MatchedBy(func(c *Customer) bool {
			return c.CustomerID == 301 &&
				c.FirstName == "Aarav" &&
				c.ApprovedLimit == 3_600_000
		})).Return(true, nil)

		cust, err := svc.RegisterCustomer(ctx, "Aarav", "Sharma", 30, 100000, "9876543210")

		require.NoError(t, err)
		assert.Equal(t, int64(301), cust.CustomerID)
		assert.Equal(t, 3_600_000.0, cust.ApprovedLimit)
		repo.AssertExpectations(t)
	})

	t.Run("trims whitespace from names and phone", func(t *testing.T) {
		repo := new(mockRepository)
		svc := newTestService(repo)

		repo.On("NextCustomerID", ctx).Return(int64(1), nil)
		repo.On("CreateCustomer", ctx, mock.MatchedBy(func(c *Customer) bool {
			return c.FirstName == "Aarav" && c.LastName == "Sharma" && c.PhoneNumber == "9876543210"
		})).Return(true, nil)

		_, err := svc.RegisterCustomer(ctx, "  Aarav ", " Sharma ", 30, 100000, " 9876543210 ")

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("rejects invalid input without touching the repository", func(t *testing.T) {
		repo := new(mockRepository)
		svc := newTestService(repo)

		cases := []struct {
			name  string
			call  func() (*Customer, error)
			field string
		}{
			{"empty first name", func() (*Customer, error) {
				return svc.RegisterCustomer(ctx, " ", "Sharma", 30, 100000, "9876543210")
			}, "first_name"},
			{"empty last name", func() (*Customer, error) {
				return svc.RegisterCustomer(ctx, "Aarav", "", 30, 100000, "9876543210")
			}, "last_name"},
			{"zero age", func() (*Customer, error) {
				return svc.RegisterCustomer(ctx, "Aarav", "Sharma", 0, 100000, "9876543210")
			}, "age"},
			{"zero income", func() (*Customer, error) {
				return svc.RegisterCustomer(ctx, "Aarav", "Sharma", 30, 0, "9876543210")
			}, "monthly_income"},
			{"empty phone", func() (*Customer, error) {
				return svc.RegisterCustomer(ctx, "Aarav", "Sharma", 30, 100000, "")
			}, "phone_number"},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				cust, err := tc.call()
				assert.Nil(t, cust)
				var validationErr *apperrors.ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Equal(t, tc.field, validationErr.Field)
			})
		}
		repo.AssertNotCalled(t, "NextCustomerID")
		repo.AssertNotCalled(t, "CreateCustomer")
	})

	t.Run("reports conflict when allocated id was taken concurrently", func(t *testing.T) {
		repo := new(mockRepository)
		svc := newTestService(repo)

		repo.On("NextCustomerID", ctx).Return(int64(5), nil)
		repo.On("CreateCustomer", ctx, mock.Anything).Return(false, nil)

		cust, err := svc.RegisterCustomer(ctx, "Aarav", "Sharma", 30, 100000, "9876543210")

		assert.Nil(t, cust)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("propagates id allocation failure", func(t *testing.T) {
		repo := new(mockRepository)
		svc := newTestService(repo)

		repo.On("NextCustomerID", ctx).Return(int64(0), errors.New("db down"))

		cust, err := svc.RegisterCustomer(ctx, "Aarav", "Sharma", 30, 100000, "9876543210")

		assert.Nil(t, cust)
		assert.ErrorContains(t, err, "failed to allocate customer id")
	})
}

func TestGetCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("returns customer", func(t *testing.T) {
		repo := new(mockRepository)
		svc := newTestService(repo)

		repo.On("FindByID", ctx, int64(1)).Return(&Customer{CustomerID: 1, FirstName: "Aarav"}, nil)

		cust, err := svc.GetCustomer(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, int64(1), cust.CustomerID)
	})

	t.Run("passes not found through unchanged", func(t *testing.T) {
		repo := new(mockRepository)
		svc := newTestService(repo)

		repo.On("FindByID", ctx, int64(99)).Return(nil, ErrNotFound)

		cust, err := svc.GetCustomer(ctx, 99)

		assert.Nil(t, cust)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("wraps other repository errors", func(t *testing.T) {
		repo := new(mockRepository)
		svc := newTestService(repo)

		repo.On("FindByID", ctx, int64(1)).Return(nil, errors.New("db down"))

		cust, err := svc.GetCustomer(ctx, 1)

		assert.Nil(t, cust)
		assert.ErrorContains(t, err, "failed to get customer 1")
	})
}
