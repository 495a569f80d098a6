package models

import "time"

// LoanStatus is the lifecycle state of a loan. The engine only ever moves
// loans from ACTIVE to PAID; PENDING and DEFAULTED are reserved for external
// collection workflows.
type LoanStatus string

const (
	LoanPending   LoanStatus = "PENDING"
	LoanActive    LoanStatus = "ACTIVE"
	LoanPaid      LoanStatus = "PAID"
	LoanDefaulted LoanStatus = "DEFAULTED"
)

// Valid reports whether s is one of the enumerated statuses.
func (s LoanStatus) Valid() bool {
	switch s {
	case LoanPending, LoanActive, LoanPaid, LoanDefaulted:
		return true
	}
	return false
}

// Loan represents a financed purchase repaid in fixed installments.
// InterestRate is the monthly rate snapshotted at creation; later tier
// changes never alter an existing loan. Immutable after creation except for
// Status and the Paid state of its installments.
type Loan struct {
	ID                int64         `json:"id"`
	CustomerID        int64         `json:"customer_id"`
	ProductName       string        `json:"product_name"`
	Principal         float64       `json:"principal"`
	TotalWithInterest float64       `json:"total_with_interest"`
	InterestRate      float64       `json:"interest_rate"`
	InstallmentsCount int           `json:"installments_count"`
	Status            LoanStatus    `json:"status"`
	CreatedAt         time.Time     `json:"created_at"`
	Installments      []Installment `json:"installments"`
}

// Installment is one scheduled payment of a loan. Numbers are 1-based and
// unique within the loan; an installment is paid at most once, never
// reverted.
type Installment struct {
	ID      int64      `json:"id"`
	LoanID  int64      `json:"loan_id"`
	Number  int        `json:"number"`
	Amount  float64    `json:"amount"`
	DueDate time.Time  `json:"due_date"`
	Paid    bool       `json:"paid"`
	PaidAt  *time.Time `json:"paid_at,omitempty"`
}

// FullyPaid reports whether every installment of the loan is paid.
func (l *Loan) FullyPaid() bool {
	for i := range l.Installments {
		if !l.Installments[i].Paid {
			return false
		}
	}
	return len(l.Installments) > 0
}
