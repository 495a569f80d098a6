package models

// Simulation is the result of a what-if installment calculation. It carries
// no identity and causes no mutation; callers may request it repeatedly
// before committing to a loan.
type Simulation struct {
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalPayback   float64 `json:"total_payback"`
	RatePercent    float64 `json:"rate_percent"`
}
