package models

import "time"

// Tier is a customer classification that determines the monthly interest rate.
type Tier string

const (
	TierNormal Tier = "NORMAL"
	TierClube  Tier = "CLUBE"
	TierVIP    Tier = "VIP"
)

// Valid reports whether t is one of the enumerated tiers.
func (t Tier) Valid() bool {
	switch t {
	case TierNormal, TierClube, TierVIP:
		return true
	}
	return false
}

// Role distinguishes store managers from credit customers.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
)

// CustomerStatus marks whether a customer may take new loans.
type CustomerStatus string

const (
	CustomerActive  CustomerStatus = "ACTIVE"
	CustomerBlocked CustomerStatus = "BLOCKED"
)

// Customer represents a store-credit customer.
// UsedCredit is mutated only by the ledger operations in the service layer;
// the invariant 0 <= UsedCredit <= CreditLimit holds at all times.
type Customer struct {
	ID           int64          `json:"id"`
	Role         Role           `json:"role"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	CPF          string         `json:"cpf"`
	Phone        string         `json:"phone"`
	PasswordHash string         `json:"-"` // Not serialized
	Tier         Tier           `json:"tier"`
	CreditLimit  float64        `json:"credit_limit"`
	UsedCredit   float64        `json:"used_credit"`
	Income       float64        `json:"income"`
	Address      string         `json:"address"`
	Status       CustomerStatus `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// AvailableCredit is the portion of the limit not committed to open loans.
func (c *Customer) AvailableCredit() float64 {
	return c.CreditLimit - c.UsedCredit
}
