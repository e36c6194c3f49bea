package dashboard

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jgoulah/energydash/internal/charts"
	"github.com/jgoulah/energydash/pkg/models"
)

// BillCount is the number of prior bills a prediction needs
const BillCount = 3

// BillPredictor predicts next month's bill and charts the trend
type BillPredictor struct {
	backend  Backend
	view     View
	recorder PredictionRecorder
	alerter

	units *charts.Slot
	bills *charts.Slot
}

// Predict validates the three bill inputs and requests a prediction
func (p *BillPredictor) Predict(ctx context.Context, inputs []string) error {
	bills, err := parseBills(inputs)
	if err != nil {
		return p.invalid("Please enter all 3 months of bill data")
	}

	prediction, err := p.backend.Predict(ctx, bills)
	if err != nil {
		return p.fail("predicting bill", err, "Error predicting bill")
	}

	p.view.SetText(TextPrediction, FormatPrediction(prediction))
	p.view.SetText(TextRoundedBill, fmt.Sprintf("Rounded Bill: ₹%.0f", prediction.RoundedBill))
	p.units.Replace(UnitsChart(prediction))
	p.bills.Replace(BillsChart(prediction))

	if p.recorder != nil {
		if err := p.recorder.RecordPrediction(ctx, bills, prediction); err != nil {
			p.logger.Warn("recording prediction", zap.Error(err))
		}
	}
	return nil
}

// FormatPrediction renders the headline for a prediction
func FormatPrediction(p *models.Prediction) string {
	return fmt.Sprintf("Predicted Bill: ₹%.2f (%.1f units)", p.PredictedBill, p.PredictedUnits)
}

// UnitsChart is a bar chart of the historical units plus the predicted units
func UnitsChart(p *models.Prediction) *charts.Chart {
	data := withPredicted(p.PreviousUnits, p.PredictedUnits)
	return charts.New(charts.Bar, "Electricity Units Consumption", p.MonthNames, charts.Dataset{
		Label:  "Units Consumed",
		Data:   data,
		Colors: charts.HighlightLast(len(data), charts.Blue, charts.Red),
	})
}

// BillsChart is a line chart of the historical bills plus the predicted bill
func BillsChart(p *models.Prediction) *charts.Chart {
	data := withPredicted(p.PreviousBills, p.PredictedBill)
	return charts.New(charts.Line, "Electricity Bill Trend", p.MonthNames, charts.Dataset{
		Label:  "Bill Amount (₹)",
		Data:   data,
		Colors: []string{charts.Blue},
	})
}

// withPredicted returns previous + [predicted] without aliasing previous
func withPredicted(previous []float64, predicted float64) []float64 {
	out := make([]float64, 0, len(previous)+1)
	out = append(out, previous...)
	return append(out, predicted)
}

// parseBills requires exactly three filled, non-negative numbers
func parseBills(inputs []string) ([]float64, error) {
	if len(inputs) != BillCount {
		return nil, fmt.Errorf("expected %d bills, got %d", BillCount, len(inputs))
	}
	bills := make([]float64, 0, BillCount)
	for i, in := range inputs {
		in = strings.TrimSpace(in)
		if in == "" {
			return nil, fmt.Errorf("bill %d is empty", i+1)
		}
		v, err := strconv.ParseFloat(in, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing bill %d: %w", i+1, err)
		}
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("bill %d is out of range", i+1)
		}
		bills = append(bills, v)
	}
	return bills, nil
}
