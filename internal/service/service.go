package service

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/bbstore/credit-service/internal/config"
	"github.com/bbstore/credit-service/internal/finance"
	"github.com/bbstore/credit-service/internal/models"
)

// Fraction of monthly income granted as the default credit limit for new
// customers.
const defaultLimitIncomeRatio = 0.3

// Service handles business logic
type Service struct {
	store  Store
	log    *logrus.Logger
	config *config.Config
	now    func() time.Time

	// Mutations for a given customer are serialized through a dedicated
	// mutex so that 0 <= usedCredit <= creditLimit holds under concurrent
	// loan creation and payment.
	mu         sync.Mutex
	customerMu map[int64]*sync.Mutex
}

// NewService initializes a new service
func NewService(store Store, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{
		store:      store,
		log:        log,
		config:     cfg,
		now:        func() time.Time { return time.Now().UTC() },
		customerMu: make(map[int64]*sync.Mutex),
	}
}

// lockCustomer acquires the per-customer mutex and returns its release func.
// Entries are never reaped; the map is bounded by the number of customers
// ever touched by this process.
func (s *Service) lockCustomer(id int64) func() {
	s.mu.Lock()
	m, ok := s.customerMu[id]
	if !ok {
		m = &sync.Mutex{}
		s.customerMu[id] = m
	}
	s.mu.Unlock()
	m.Lock()
	return m.Unlock
}

// CreateCustomerInput carries the fields of an administrative customer
// registration.
type CreateCustomerInput struct {
	Name        string
	Email       string
	CPF         string
	Phone       string
	Password    string
	Income      float64
	Address     string
	CreditLimit float64 // zero selects the income-based default
}

// CreateCustomer registers a new store-credit customer. When no explicit
// limit is given the default is 30% of monthly income.
func (s *Service) CreateCustomer(in CreateCustomerInput) (*models.Customer, error) {
	if in.Name == "" || in.Email == "" || in.CPF == "" {
		return nil, fmt.Errorf("%w: name, email and cpf are required", models.ErrInvalidArgument)
	}
	if in.CreditLimit < 0 || in.Income < 0 {
		return nil, fmt.Errorf("%w: income and credit limit must not be negative", models.ErrInvalidArgument)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	limit := in.CreditLimit
	if limit == 0 {
		limit = finance.Round2(in.Income * defaultLimitIncomeRatio)
	}

	customer := &models.Customer{
		Role:         models.RoleCustomer,
		Name:         in.Name,
		Email:        strings.ToLower(in.Email),
		CPF:          in.CPF,
		Phone:        in.Phone,
		PasswordHash: string(hashedPassword),
		Tier:         models.TierNormal,
		CreditLimit:  limit,
		UsedCredit:   0,
		Income:       in.Income,
		Address:      in.Address,
		Status:       models.CustomerActive,
	}

	if err := s.store.CreateCustomer(customer); err != nil {
		return nil, err
	}

	s.log.Infof("Customer registered: %s (limit %.2f)", customer.Email, customer.CreditLimit)
	return customer, nil
}

// Login authenticates a customer by email or CPF and returns a JWT token.
func (s *Service) Login(identifier, password string) (string, *models.Customer, error) {
	customer, err := s.store.FindCustomerByLogin(strings.ToLower(identifier))
	if err != nil {
		return "", nil, fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", customer.ID),
		ExpiresAt: jwt.NewNumericDate(s.now().Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("Customer logged in: %s", customer.Email)
	return tokenString, customer, nil
}

// GetCustomer returns a customer by id.
func (s *Service) GetCustomer(id int64) (*models.Customer, error) {
	return s.store.FindCustomerByID(id)
}

// ListCustomers returns all customers with the CUSTOMER role.
func (s *Service) ListCustomers() ([]*models.Customer, error) {
	all, err := s.store.ListCustomers()
	if err != nil {
		return nil, err
	}
	customers := make([]*models.Customer, 0, len(all))
	for _, c := range all {
		if c.Role == models.RoleCustomer {
			customers = append(customers, c)
		}
	}
	return customers, nil
}

// UpdateTier changes a customer's tier. Existing loans keep the rate
// snapshotted at creation.
func (s *Service) UpdateTier(customerID int64, tier models.Tier) (*models.Customer, error) {
	if !tier.Valid() {
		return nil, fmt.Errorf("%w: unknown tier %q", models.ErrInvalidArgument, tier)
	}

	unlock := s.lockCustomer(customerID)
	defer unlock()

	customer, err := s.store.FindCustomerByID(customerID)
	if err != nil {
		return nil, err
	}
	customer.Tier = tier
	if err := s.store.UpdateCustomer(customer); err != nil {
		return nil, err
	}

	s.log.Infof("Customer %d tier updated to %s", customerID, tier)
	return customer, nil
}

// UpdateLimit changes a customer's credit limit. Lowering the limit below
// the current used credit is rejected, since it would break the ledger
// invariant.
func (s *Service) UpdateLimit(customerID int64, limit float64) (*models.Customer, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: credit limit must not be negative", models.ErrInvalidArgument)
	}

	unlock := s.lockCustomer(customerID)
	defer unlock()

	customer, err := s.store.FindCustomerByID(customerID)
	if err != nil {
		return nil, err
	}
	if limit < customer.UsedCredit {
		return nil, fmt.Errorf("%w: limit %.2f is below used credit %.2f", models.ErrInvalidArgument, limit, customer.UsedCredit)
	}
	customer.CreditLimit = finance.Round2(limit)
	if err := s.store.UpdateCustomer(customer); err != nil {
		return nil, err
	}

	s.log.Infof("Customer %d credit limit updated to %.2f", customerID, customer.CreditLimit)
	return customer, nil
}

// Metrics aggregates store-wide lending statistics.
func (s *Service) Metrics() (*models.StoreMetrics, error) {
	customers, err := s.ListCustomers()
	if err != nil {
		return nil, err
	}
	loans, err := s.store.ListLoans(0)
	if err != nil {
		return nil, err
	}

	m := &models.StoreMetrics{TotalCustomers: len(customers)}
	var expectedReturn float64
	for _, l := range loans {
		if l.Status == models.LoanActive {
			m.ActiveLoans++
		}
		m.TotalFinanced += l.Principal
		expectedReturn += l.TotalWithInterest
	}
	m.TotalFinanced = finance.Round2(m.TotalFinanced)
	m.ProjectedProfit = finance.Round2(expectedReturn - m.TotalFinanced)
	return m, nil
}
