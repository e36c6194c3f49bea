package models

import "time"

// Prediction is the backend's answer to a bill prediction request
type Prediction struct {
	Success        bool      `json:"success"`
	PredictedBill  float64   `json:"predicted_bill"`
	PredictedUnits float64   `json:"predicted_units"`
	PreviousUnits  []float64 `json:"previous_units"`
	PreviousBills  []float64 `json:"previous_bills"`
	RoundedBill    float64   `json:"rounded_bill"`
	MonthNames     []string  `json:"month_names"`
	Error          string    `json:"error,omitempty"`
}

// PredictionRecord is a stored prediction together with the bills that produced it
type PredictionRecord struct {
	ID             int       `json:"id"`
	Bills          []float64 `json:"bills"`
	PredictedBill  float64   `json:"predicted_bill"`
	PredictedUnits float64   `json:"predicted_units"`
	RoundedBill    float64   `json:"rounded_bill"`
	MonthNames     []string  `json:"month_names"`
	CreatedAt      time.Time `json:"created_at"`
	Published      bool      `json:"published"`
}

// Month returns the name of the predicted month, if known
func (r PredictionRecord) Month() string {
	if len(r.MonthNames) == 0 {
		return ""
	}
	return r.MonthNames[len(r.MonthNames)-1]
}
