package finance

import (
	"fmt"

	"github.com/bbstore/credit-service/internal/models"
)

// Monthly interest rates per customer tier.
const (
	rateNormal = 0.0149 // 1.49% a.m.
	rateClube  = 0.0089 // 0.89% a.m.
)

// RateFor returns the monthly interest rate for a customer tier. The table
// is total over the enumerated tiers; anything else is a programming error
// surfaced as ErrInvalidArgument, never silently defaulted.
func RateFor(tier models.Tier) (float64, error) {
	switch tier {
	case models.TierNormal:
		return rateNormal, nil
	case models.TierClube, models.TierVIP:
		return rateClube, nil
	default:
		return 0, fmt.Errorf("%w: unknown tier %q", models.ErrInvalidArgument, tier)
	}
}
