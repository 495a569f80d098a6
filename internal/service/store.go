package service

import "github.com/bbstore/credit-service/internal/models"

// Store is the persistence collaborator for the lending engine. The engine
// saves after every completed mutating operation; durability and multi-
// process concerns belong to the implementation. Lookups on unknown ids
// return models.ErrNotFound.
type Store interface {
	CreateCustomer(c *models.Customer) error
	FindCustomerByID(id int64) (*models.Customer, error)
	// FindCustomerByLogin resolves a customer by email or CPF.
	FindCustomerByLogin(identifier string) (*models.Customer, error)
	ListCustomers() ([]*models.Customer, error)
	UpdateCustomer(c *models.Customer) error

	// CreateLoan persists a loan and its full installment schedule
	// atomically.
	CreateLoan(l *models.Loan) error
	FindLoanByID(id int64) (*models.Loan, error)
	// ListLoans returns loans for one customer, or all loans when
	// customerID is zero.
	ListLoans(customerID int64) ([]*models.Loan, error)
	// UpdateLoan persists loan status and installment paid state.
	UpdateLoan(l *models.Loan) error
}
