package jobs

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbstore/credit-service/internal/models"
	"github.com/bbstore/credit-service/internal/storage/memory"
)

type fakeMailer struct {
	sent []sentReminder
}

type sentReminder struct {
	to      string
	number  int
	overdue bool
}

func (f *fakeMailer) SendInstallmentReminder(to, name, productName string, number int, dueDate time.Time, amount float64, isOverdue bool) error {
	f.sent = append(f.sent, sentReminder{to: to, number: number, overdue: isOverdue})
	return nil
}

func TestSweepSelectsDueAndOverdueInstallments(t *testing.T) {
	store := memory.NewStore()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	customer := &models.Customer{
		Role:   models.RoleCustomer,
		Name:   "Ana Souza",
		Email:  "ana@gmail.com",
		CPF:    "111.111.111-11",
		Tier:   models.TierNormal,
		Status: models.CustomerActive,
	}
	require.NoError(t, store.CreateCustomer(customer))

	paidAt := now.AddDate(0, 0, -10)
	loan := &models.Loan{
		CustomerID:        customer.ID,
		ProductName:       "Notebook",
		Principal:         1200,
		TotalWithInterest: 1280,
		InstallmentsCount: 4,
		Status:            models.LoanActive,
		CreatedAt:         now.AddDate(0, 0, -40),
		Installments: []models.Installment{
			{Number: 1, Amount: 320, DueDate: now.AddDate(0, 0, -10), Paid: true, PaidAt: &paidAt},
			{Number: 2, Amount: 320, DueDate: now.AddDate(0, 0, -2)},   // overdue
			{Number: 3, Amount: 320, DueDate: now.Add(48 * time.Hour)}, // due soon
			{Number: 4, Amount: 320, DueDate: now.AddDate(0, 0, 20)},   // far out
		},
	}
	require.NoError(t, store.CreateLoan(loan))

	// A paid-off loan must be skipped entirely.
	settled := &models.Loan{
		CustomerID:        customer.ID,
		ProductName:       "TV",
		Status:            models.LoanPaid,
		InstallmentsCount: 1,
		Installments:      []models.Installment{{Number: 1, Amount: 100, DueDate: now.AddDate(0, 0, -5)}},
	}
	require.NoError(t, store.CreateLoan(settled))

	log := logrus.New()
	log.SetOutput(io.Discard)
	mailer := &fakeMailer{}
	r := NewReminder(store, mailer, log)
	r.now = func() time.Time { return now }

	r.Sweep()

	require.Len(t, mailer.sent, 2)
	byNumber := map[int]sentReminder{}
	for _, s := range mailer.sent {
		assert.Equal(t, "ana@gmail.com", s.to)
		byNumber[s.number] = s
	}
	assert.True(t, byNumber[2].overdue)
	assert.False(t, byNumber[3].overdue)
}
