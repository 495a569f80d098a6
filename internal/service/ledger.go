package service

import (
	"math"

	"github.com/bbstore/credit-service/internal/finance"
	"github.com/bbstore/credit-service/internal/models"
)

// The two functions below are the only writers of Customer.UsedCredit. Both
// must be called with the customer's mutex held.

// increaseUsedCredit commits payback exposure against the customer's limit.
// The limit pre-check is owned by CreateLoan; it is not repeated here.
func (s *Service) increaseUsedCredit(c *models.Customer, amount float64) error {
	c.UsedCredit = finance.Round2(c.UsedCredit + amount)
	return s.store.UpdateCustomer(c)
}

// decreaseUsedCredit releases exposure after an installment payment. The
// balance is clamped at zero, even when amount exceeds it.
func (s *Service) decreaseUsedCredit(c *models.Customer, amount float64) error {
	c.UsedCredit = finance.Round2(math.Max(0, c.UsedCredit-amount))
	return s.store.UpdateCustomer(c)
}
