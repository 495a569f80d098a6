// Package memory provides an in-memory Store used by unit tests and for
// running the service without a database.
package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/bbstore/credit-service/internal/models"
)

// Store keeps customers and loans in process memory. All methods return
// deep copies so callers never share mutable state with the store.
type Store struct {
	mu         sync.RWMutex
	customers  map[int64]*models.Customer
	loans      map[int64]*models.Loan
	nextCustID int64
	nextLoanID int64
	nextInstID int64
}

// NewStore initializes an empty in-memory store.
func NewStore() *Store {
	return &Store{
		customers: make(map[int64]*models.Customer),
		loans:     make(map[int64]*models.Loan),
	}
}

func copyCustomer(c *models.Customer) *models.Customer {
	cp := *c
	return &cp
}

func copyLoan(l *models.Loan) *models.Loan {
	cp := *l
	cp.Installments = make([]models.Installment, len(l.Installments))
	copy(cp.Installments, l.Installments)
	for i := range cp.Installments {
		if l.Installments[i].PaidAt != nil {
			t := *l.Installments[i].PaidAt
			cp.Installments[i].PaidAt = &t
		}
	}
	return &cp
}

// CreateCustomer assigns an id and stores the customer.
func (s *Store) CreateCustomer(c *models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.customers {
		if existing.Email == c.Email || existing.CPF == c.CPF {
			return fmt.Errorf("customer with email %s or cpf %s already exists", c.Email, c.CPF)
		}
	}

	s.nextCustID++
	c.ID = s.nextCustID
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	s.customers[c.ID] = copyCustomer(c)
	return nil
}

// FindCustomerByID retrieves a customer by id.
func (s *Store) FindCustomerByID(id int64) (*models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.customers[id]
	if !ok {
		return nil, fmt.Errorf("%w: customer %d", models.ErrNotFound, id)
	}
	return copyCustomer(c), nil
}

// FindCustomerByLogin resolves a customer by email or CPF.
func (s *Store) FindCustomerByLogin(identifier string) (*models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.customers {
		if c.Email == identifier || c.CPF == identifier {
			return copyCustomer(c), nil
		}
	}
	return nil, fmt.Errorf("%w: customer %q", models.ErrNotFound, identifier)
}

// ListCustomers returns all customers.
func (s *Store) ListCustomers() ([]*models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	customers := make([]*models.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		customers = append(customers, copyCustomer(c))
	}
	return customers, nil
}

// UpdateCustomer replaces a stored customer.
func (s *Store) UpdateCustomer(c *models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[c.ID]; !ok {
		return fmt.Errorf("%w: customer %d", models.ErrNotFound, c.ID)
	}
	c.UpdatedAt = time.Now().UTC()
	s.customers[c.ID] = copyCustomer(c)
	return nil
}

// CreateLoan assigns ids to the loan and its installments and stores them.
func (s *Store) CreateLoan(l *models.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[l.CustomerID]; !ok {
		return fmt.Errorf("%w: customer %d", models.ErrNotFound, l.CustomerID)
	}

	s.nextLoanID++
	l.ID = s.nextLoanID
	for i := range l.Installments {
		s.nextInstID++
		l.Installments[i].ID = s.nextInstID
		l.Installments[i].LoanID = l.ID
	}
	s.loans[l.ID] = copyLoan(l)
	return nil
}

// FindLoanByID retrieves a loan with its installment schedule.
func (s *Store) FindLoanByID(id int64) (*models.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.loans[id]
	if !ok {
		return nil, fmt.Errorf("%w: loan %d", models.ErrNotFound, id)
	}
	return copyLoan(l), nil
}

// ListLoans returns loans for one customer, or all loans when customerID is
// zero.
func (s *Store) ListLoans(customerID int64) ([]*models.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loans := make([]*models.Loan, 0, len(s.loans))
	for _, l := range s.loans {
		if customerID == 0 || l.CustomerID == customerID {
			loans = append(loans, copyLoan(l))
		}
	}
	return loans, nil
}

// UpdateLoan replaces a stored loan.
func (s *Store) UpdateLoan(l *models.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.loans[l.ID]; !ok {
		return fmt.Errorf("%w: loan %d", models.ErrNotFound, l.ID)
	}
	s.loans[l.ID] = copyLoan(l)
	return nil
}
