package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbstore/credit-service/internal/models"
)

func testCustomer() *models.Customer {
	return &models.Customer{
		Role:        models.RoleCustomer,
		Name:        "Ana Souza",
		Email:       "ana@gmail.com",
		CPF:         "111.111.111-11",
		Tier:        models.TierNormal,
		CreditLimit: 1000,
		Status:      models.CustomerActive,
	}
}

func TestCustomerRoundTrip(t *testing.T) {
	s := NewStore()

	c := testCustomer()
	require.NoError(t, s.CreateCustomer(c))
	assert.NotZero(t, c.ID)

	byID, err := s.FindCustomerByID(c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Email, byID.Email)

	byEmail, err := s.FindCustomerByLogin("ana@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, c.ID, byEmail.ID)

	byCPF, err := s.FindCustomerByLogin("111.111.111-11")
	require.NoError(t, err)
	assert.Equal(t, c.ID, byCPF.ID)

	_, err = s.FindCustomerByID(999)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = s.FindCustomerByLogin("nobody")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCreateCustomerRejectsDuplicates(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.CreateCustomer(testCustomer()))

	err := s.CreateCustomer(testCustomer())
	assert.Error(t, err)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	s := NewStore()
	c := testCustomer()
	require.NoError(t, s.CreateCustomer(c))

	loan := &models.Loan{
		CustomerID:        c.ID,
		ProductName:       "TV",
		Principal:         900,
		TotalWithInterest: 960,
		InstallmentsCount: 3,
		Status:            models.LoanActive,
		CreatedAt:         time.Now().UTC(),
		Installments: []models.Installment{
			{Number: 1, Amount: 320},
			{Number: 2, Amount: 320},
			{Number: 3, Amount: 320},
		},
	}
	require.NoError(t, s.CreateLoan(loan))

	// Mutating a fetched copy must not leak into the store.
	got, err := s.FindLoanByID(loan.ID)
	require.NoError(t, err)
	got.Status = models.LoanPaid
	got.Installments[0].Paid = true

	fresh, err := s.FindLoanByID(loan.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LoanActive, fresh.Status)
	assert.False(t, fresh.Installments[0].Paid)

	cust, err := s.FindCustomerByID(c.ID)
	require.NoError(t, err)
	cust.UsedCredit = 500
	freshCust, err := s.FindCustomerByID(c.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, freshCust.UsedCredit)
}

func TestListLoansFiltersByCustomer(t *testing.T) {
	s := NewStore()
	a := testCustomer()
	require.NoError(t, s.CreateCustomer(a))
	b := testCustomer()
	b.Email = "carlos@gmail.com"
	b.CPF = "222.222.222-22"
	require.NoError(t, s.CreateCustomer(b))

	for _, custID := range []int64{a.ID, a.ID, b.ID} {
		loan := &models.Loan{
			CustomerID:        custID,
			ProductName:       "TV",
			Status:            models.LoanActive,
			InstallmentsCount: 1,
			Installments:      []models.Installment{{Number: 1, Amount: 100}},
		}
		require.NoError(t, s.CreateLoan(loan))
	}

	all, err := s.ListLoans(0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := s.ListLoans(a.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestCreateLoanUnknownCustomer(t *testing.T) {
	s := NewStore()
	err := s.CreateLoan(&models.Loan{CustomerID: 42})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUpdateLoanNotFound(t *testing.T) {
	s := NewStore()
	err := s.UpdateLoan(&models.Loan{ID: 7})
	assert.ErrorIs(t, err, models.ErrNotFound)
}
