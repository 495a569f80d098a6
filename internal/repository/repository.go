package repository

import (
	"database/sql"
	"fmt"

	"github.com/bbstore/credit-service/internal/models"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateCustomer creates a new customer in the database
func (r *Repository) CreateCustomer(c *models.Customer) error {
	query := `
		INSERT INTO store.customers
			(role, name, email, cpf, phone, password_hash, tier, credit_limit,
			 used_credit, income, address, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query, c.Role, c.Name, c.Email, c.CPF, c.Phone, c.PasswordHash,
		c.Tier, c.CreditLimit, c.UsedCredit, c.Income, c.Address, c.Status).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

const customerColumns = `
	id, role, name, email, cpf, phone, password_hash, tier, credit_limit,
	used_credit, income, address, status, created_at, updated_at
	`

func scanCustomer(row *sql.Row) (*models.Customer, error) {
	c := &models.Customer{}
	err := row.Scan(&c.ID, &c.Role, &c.Name, &c.Email, &c.CPF, &c.Phone, &c.PasswordHash,
		&c.Tier, &c.CreditLimit, &c.UsedCredit, &c.Income, &c.Address, &c.Status,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// FindCustomerByID retrieves a customer by id
func (r *Repository) FindCustomerByID(id int64) (*models.Customer, error) {
	query := `SELECT` + customerColumns + `FROM store.customers WHERE id = $1`
	c, err := scanCustomer(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: customer %d", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return c, nil
}

// FindCustomerByLogin retrieves a customer by email or CPF
func (r *Repository) FindCustomerByLogin(identifier string) (*models.Customer, error) {
	query := `SELECT` + customerColumns + `FROM store.customers WHERE email = $1 OR cpf = $1`
	c, err := scanCustomer(r.db.QueryRow(query, identifier))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: customer %q", models.ErrNotFound, identifier)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return c, nil
}

// ListCustomers retrieves all customers
func (r *Repository) ListCustomers() ([]*models.Customer, error) {
	query := `SELECT` + customerColumns + `FROM store.customers ORDER BY id`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		c := &models.Customer{}
		err := rows.Scan(&c.ID, &c.Role, &c.Name, &c.Email, &c.CPF, &c.Phone, &c.PasswordHash,
			&c.Tier, &c.CreditLimit, &c.UsedCredit, &c.Income, &c.Address, &c.Status,
			&c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// UpdateCustomer updates a customer's mutable fields
func (r *Repository) UpdateCustomer(c *models.Customer) error {
	query := `
		UPDATE store.customers
		SET tier = $1, credit_limit = $2, used_credit = $3, status = $4,
		    phone = $5, address = $6, income = $7, updated_at = CURRENT_TIMESTAMP
		WHERE id = $8`
	res, err := r.db.Exec(query, c.Tier, c.CreditLimit, c.UsedCredit, c.Status,
		c.Phone, c.Address, c.Income, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: customer %d", models.ErrNotFound, c.ID)
	}
	return nil
}

// CreateLoan creates a loan and its installment schedule in one transaction
func (r *Repository) CreateLoan(l *models.Loan) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	loanQuery := `
		INSERT INTO store.loans
			(customer_id, product_name, principal, total_with_interest,
			 interest_rate, installments_count, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err = tx.QueryRow(loanQuery, l.CustomerID, l.ProductName, l.Principal,
		l.TotalWithInterest, l.InterestRate, l.InstallmentsCount, l.Status, l.CreatedAt).
		Scan(&l.ID)
	if err != nil {
		return fmt.Errorf("failed to create loan: %w", err)
	}

	instQuery := `
		INSERT INTO store.installments (loan_id, number, amount, due_date, paid)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING id`
	for i := range l.Installments {
		inst := &l.Installments[i]
		inst.LoanID = l.ID
		if err := tx.QueryRow(instQuery, l.ID, inst.Number, inst.Amount, inst.DueDate).Scan(&inst.ID); err != nil {
			return fmt.Errorf("failed to create installment %d: %w", inst.Number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit loan: %w", err)
	}
	return nil
}

// FindLoanByID retrieves a loan and its installments ordered by number
func (r *Repository) FindLoanByID(id int64) (*models.Loan, error) {
	l := &models.Loan{}
	query := `
		SELECT id, customer_id, product_name, principal, total_with_interest,
		       interest_rate, installments_count, status, created_at
		FROM store.loans
		WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(&l.ID, &l.CustomerID, &l.ProductName,
		&l.Principal, &l.TotalWithInterest, &l.InterestRate, &l.InstallmentsCount,
		&l.Status, &l.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: loan %d", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find loan: %w", err)
	}

	if err := r.loadInstallments(l); err != nil {
		return nil, err
	}
	return l, nil
}

func (r *Repository) loadInstallments(l *models.Loan) error {
	query := `
		SELECT id, loan_id, number, amount, due_date, paid, paid_at
		FROM store.installments
		WHERE loan_id = $1
		ORDER BY number`
	rows, err := r.db.Query(query, l.ID)
	if err != nil {
		return fmt.Errorf("failed to load installments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		inst := models.Installment{}
		var paidAt sql.NullTime
		if err := rows.Scan(&inst.ID, &inst.LoanID, &inst.Number, &inst.Amount,
			&inst.DueDate, &inst.Paid, &paidAt); err != nil {
			return fmt.Errorf("failed to scan installment: %w", err)
		}
		if paidAt.Valid {
			inst.PaidAt = &paidAt.Time
		}
		l.Installments = append(l.Installments, inst)
	}
	return rows.Err()
}

// ListLoans retrieves loans for one customer, or all loans when customerID
// is zero
func (r *Repository) ListLoans(customerID int64) ([]*models.Loan, error) {
	query := `
		SELECT id, customer_id, product_name, principal, total_with_interest,
		       interest_rate, installments_count, status, created_at
		FROM store.loans`
	args := []interface{}{}
	if customerID != 0 {
		query += ` WHERE customer_id = $1`
		args = append(args, customerID)
	}
	query += ` ORDER BY id`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	defer rows.Close()

	var loans []*models.Loan
	for rows.Next() {
		l := &models.Loan{}
		err := rows.Scan(&l.ID, &l.CustomerID, &l.ProductName, &l.Principal,
			&l.TotalWithInterest, &l.InterestRate, &l.InstallmentsCount,
			&l.Status, &l.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		loans = append(loans, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, l := range loans {
		if err := r.loadInstallments(l); err != nil {
			return nil, err
		}
	}
	return loans, nil
}

// UpdateLoan persists loan status and installment paid state in one
// transaction
func (r *Repository) UpdateLoan(l *models.Loan) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`UPDATE store.loans SET status = $1 WHERE id = $2`, l.Status, l.ID)
	if err != nil {
		return fmt.Errorf("failed to update loan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update loan: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: loan %d", models.ErrNotFound, l.ID)
	}

	instQuery := `
		UPDATE store.installments
		SET paid = $1, paid_at = $2
		WHERE loan_id = $3 AND number = $4`
	for i := range l.Installments {
		inst := &l.Installments[i]
		var paidAt sql.NullTime
		if inst.PaidAt != nil {
			paidAt = sql.NullTime{Time: *inst.PaidAt, Valid: true}
		}
		if _, err := tx.Exec(instQuery, inst.Paid, paidAt, l.ID, inst.Number); err != nil {
			return fmt.Errorf("failed to update installment %d: %w", inst.Number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit loan update: %w", err)
	}
	return nil
}
