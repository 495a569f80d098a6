package models

// StoreMetrics represents store-wide lending statistics
type StoreMetrics struct {
	TotalCustomers  int     `json:"total_customers"`
	ActiveLoans     int     `json:"active_loans"`
	TotalFinanced   float64 `json:"total_financed"`
	ProjectedProfit float64 `json:"projected_profit"` // ExpectedReturn - TotalFinanced
}
