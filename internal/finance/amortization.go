package finance

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/bbstore/credit-service/internal/models"
)

// Round2 rounds a currency amount to 2 decimal places, half away from zero.
// This is the single rounding policy for the whole engine.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Simulate computes the fixed monthly payment for financing principal over
// termMonths at the tier's rate, using the standard Price-table (annuity)
// formula:
//
//	payment = P * (r * (1+r)^n) / ((1+r)^n - 1)
//
// The payment is rounded to 2 decimals and the total payback is exactly
// payment * termMonths, so the schedule always sums to the total. The last
// installment does not absorb a rounding remainder.
//
// Pure function: no mutation, safe to call repeatedly for what-if quotes.
func Simulate(principal float64, termMonths int, tier models.Tier) (*models.Simulation, error) {
	// NaN compares false against everything, so finiteness needs its own
	// check before the sign guard.
	if math.IsNaN(principal) || math.IsInf(principal, 0) || principal <= 0 {
		return nil, fmt.Errorf("%w: principal must be a positive finite number, got %v", models.ErrInvalidArgument, principal)
	}
	if termMonths <= 0 {
		return nil, fmt.Errorf("%w: term must be positive, got %d months", models.ErrInvalidArgument, termMonths)
	}

	rate, err := RateFor(tier)
	if err != nil {
		return nil, err
	}

	// rate > 0 for every enumerated tier, so the denominator is nonzero
	// even for a single-month term: (1+r)^1 - 1 = r.
	factor := math.Pow(1+rate, float64(termMonths))
	payment := principal * (rate * factor) / (factor - 1)
	// (1+r)^n overflows to +Inf for absurd terms, turning the payment into
	// Inf/Inf = NaN, which the rounding step cannot represent.
	if math.IsNaN(payment) || math.IsInf(payment, 0) {
		return nil, fmt.Errorf("%w: term of %d months is out of range", models.ErrInvalidArgument, termMonths)
	}
	payment = Round2(payment)

	return &models.Simulation{
		MonthlyPayment: payment,
		TotalPayback:   Round2(payment * float64(termMonths)),
		RatePercent:    Round2(rate * 100),
	}, nil
}
