package models

// Usage levels as classified by the backend
const (
	UsageEfficient = "efficient"
	UsageNormal    = "normal"
	UsageModerate  = "moderate"
	UsageHigh      = "high"
	UsageVeryHigh  = "very_high"
)

// UsageReport is the precomputed hours breakdown from /api/report
type UsageReport struct {
	TotalHours float64          `json:"total_hours"`
	Appliances []ApplianceUsage `json:"appliances"`
	Error      string           `json:"error,omitempty"`
}

// ApplianceUsage is one appliance's share of the daily hours
type ApplianceUsage struct {
	Name       string  `json:"name"`
	Hours      float64 `json:"hours"`
	Percentage float64 `json:"percentage"`
	UsageLevel string  `json:"usage_level"`
}

// CostAnalysis is the precomputed cost breakdown from /api/analysis
type CostAnalysis struct {
	TotalCost  float64         `json:"total_cost"`
	Appliances []ApplianceCost `json:"appliances"`
	Regression *Regression     `json:"regression,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// ApplianceCost is one appliance's daily cost
type ApplianceCost struct {
	Name       string  `json:"name"`
	Hours      float64 `json:"hours"`
	Cost       float64 `json:"cost"`
	Percentage float64 `json:"percentage"`
}

// Regression is a linear fit of cost over hours
type Regression struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// At evaluates the fitted line at x
func (r Regression) At(x float64) float64 {
	return r.Slope*x + r.Intercept
}

// SavingsReport is the precomputed savings plan from /api/mlreport
type SavingsReport struct {
	Appliances   []ApplianceSavings `json:"appliances"`
	TotalSavings float64            `json:"total_savings"`
	Error        string             `json:"error,omitempty"`
}

// ApplianceSavings is the potential saving for one appliance
type ApplianceSavings struct {
	Name       string  `json:"name"`
	Hours      float64 `json:"hours"`
	UsageLevel string  `json:"usage_level"`
	Savings    float64 `json:"savings"`
}
