package service

import (
	"fmt"

	"github.com/bbstore/credit-service/internal/finance"
	"github.com/bbstore/credit-service/internal/models"
)

// Installment due dates are spaced a fixed 30 days apart, not calendar
// months.
const dueDateStrideDays = 30

// Simulate quotes the fixed installment for financing amount over
// termMonths at the given tier. No mutation occurs.
func (s *Service) Simulate(amount float64, termMonths int, tier models.Tier) (*models.Simulation, error) {
	return finance.Simulate(amount, termMonths, tier)
}

// CreateLoan finances a purchase for a customer as a fixed-installment loan.
// The quote runs against the customer's current tier and the rate is
// snapshotted on the loan. The loan is rejected with ErrLimitExceeded when
// the total payback would push used credit past the customer's limit; a
// rejected loan leaves no partial state.
func (s *Service) CreateLoan(customerID int64, productName string, amount float64, termMonths int) (*models.Loan, error) {
	if productName == "" {
		return nil, fmt.Errorf("%w: product name is required", models.ErrInvalidArgument)
	}

	unlock := s.lockCustomer(customerID)
	defer unlock()

	customer, err := s.store.FindCustomerByID(customerID)
	if err != nil {
		return nil, err
	}
	if customer.Status == models.CustomerBlocked {
		return nil, fmt.Errorf("%w: customer %d is blocked", models.ErrInvalidArgument, customerID)
	}

	sim, err := finance.Simulate(amount, termMonths, customer.Tier)
	if err != nil {
		return nil, err
	}

	if customer.UsedCredit+sim.TotalPayback > customer.CreditLimit {
		return nil, fmt.Errorf("%w: payback %.2f exceeds available credit %.2f",
			models.ErrLimitExceeded, sim.TotalPayback, customer.AvailableCredit())
	}

	rate, err := finance.RateFor(customer.Tier)
	if err != nil {
		return nil, err
	}

	createdAt := s.now()
	loan := &models.Loan{
		CustomerID:        customer.ID,
		ProductName:       productName,
		Principal:         amount,
		TotalWithInterest: sim.TotalPayback,
		InterestRate:      rate,
		InstallmentsCount: termMonths,
		Status:            models.LoanActive,
		CreatedAt:         createdAt,
	}
	for n := 1; n <= termMonths; n++ {
		loan.Installments = append(loan.Installments, models.Installment{
			Number:  n,
			Amount:  sim.MonthlyPayment,
			DueDate: createdAt.AddDate(0, 0, n*dueDateStrideDays),
		})
	}

	if err := s.increaseUsedCredit(customer, sim.TotalPayback); err != nil {
		return nil, err
	}
	if err := s.store.CreateLoan(loan); err != nil {
		// Compensate the ledger so a failed insert leaves no exposure
		// without a loan behind it.
		if derr := s.decreaseUsedCredit(customer, sim.TotalPayback); derr != nil {
			s.log.Errorf("Failed to revert used credit for customer %d after loan insert failure: %v", customer.ID, derr)
		}
		return nil, err
	}

	s.log.Infof("Loan created for customer %d: %s, %d x %.2f (total %.2f)",
		customer.ID, productName, termMonths, sim.MonthlyPayment, sim.TotalPayback)
	return loan, nil
}

// PayInstallment marks one installment of a loan as paid, releases its
// amount from the customer's used credit, and flips the loan to PAID once
// every installment is paid. Paying an already-paid installment is an
// idempotent no-op.
func (s *Service) PayInstallment(loanID int64, number int) error {
	loan, err := s.store.FindLoanByID(loanID)
	if err != nil {
		return err
	}

	unlock := s.lockCustomer(loan.CustomerID)
	defer unlock()

	// Reload under the lock so a concurrent payment is observed.
	loan, err = s.store.FindLoanByID(loanID)
	if err != nil {
		return err
	}

	var inst *models.Installment
	for i := range loan.Installments {
		if loan.Installments[i].Number == number {
			inst = &loan.Installments[i]
			break
		}
	}
	if inst == nil {
		return fmt.Errorf("%w: loan %d has no installment %d", models.ErrNotFound, loanID, number)
	}
	if inst.Paid {
		return nil
	}

	customer, err := s.store.FindCustomerByID(loan.CustomerID)
	if err != nil {
		return err
	}

	paidAt := s.now()
	prevStatus := loan.Status
	inst.Paid = true
	inst.PaidAt = &paidAt
	if loan.FullyPaid() {
		loan.Status = models.LoanPaid
	}

	if err := s.store.UpdateLoan(loan); err != nil {
		return err
	}
	if err := s.decreaseUsedCredit(customer, inst.Amount); err != nil {
		// Revert the installment so it is never marked paid while the
		// credit stays committed.
		inst.Paid = false
		inst.PaidAt = nil
		loan.Status = prevStatus
		if uerr := s.store.UpdateLoan(loan); uerr != nil {
			s.log.Errorf("Failed to revert installment %d of loan %d after ledger failure: %v", number, loanID, uerr)
		}
		return err
	}

	s.log.Infof("Installment %d/%d of loan %d paid (%.2f), loan status %s",
		number, loan.InstallmentsCount, loanID, inst.Amount, loan.Status)
	return nil
}

// GetLoan returns a loan with its installment schedule.
func (s *Service) GetLoan(loanID int64) (*models.Loan, error) {
	return s.store.FindLoanByID(loanID)
}

// ListLoans returns loans for a customer, or all loans when customerID is
// zero.
func (s *Service) ListLoans(customerID int64) ([]*models.Loan, error) {
	return s.store.ListLoans(customerID)
}
