package models

import "errors"

// Domain error taxonomy. Callers classify failures with errors.Is; the
// service layer wraps these with context.
var (
	// ErrInvalidArgument marks a request that can never succeed as given:
	// non-positive principal or term, an unrecognized tier, a blocked
	// customer.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrLimitExceeded marks a loan that would push a customer's used
	// credit past their limit.
	ErrLimitExceeded = errors.New("credit limit exceeded")

	// ErrNotFound marks an unknown customer, loan, or installment number.
	ErrNotFound = errors.New("not found")
)
