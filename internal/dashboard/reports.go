package dashboard

import (
	"context"
	"html"
	"strconv"
	"strings"

	"github.com/jgoulah/energydash/internal/charts"
	"github.com/jgoulah/energydash/pkg/models"
)

// ReportRenderer shows the hours breakdown
type ReportRenderer struct {
	backend Backend
	view    View
	alerter
}

// Load fetches the report and renders the summary
func (r *ReportRenderer) Load(ctx context.Context) error {
	report, err := r.backend.Report(ctx)
	if err != nil {
		const fallback = "Error generating report"
		r.view.SetHTML(HTMLReport, errorFragment(failureMessage(err, fallback)))
		return r.fail("loading report", err, fallback)
	}

	r.view.SetHTML(HTMLReport, ReportSummary(report))
	return nil
}

// ReportSummary renders the hours breakdown and the per-appliance usage level
func ReportSummary(report *models.UsageReport) string {
	var b strings.Builder
	b.WriteString(`<h3>Appliance Usage Report</h3>`)
	b.WriteString(`<p><strong>Total Hours of Appliance Usage: ` + formatNumber(report.TotalHours) + ` hrs/day</strong></p><ul>`)
	for _, a := range report.Appliances {
		b.WriteString(`<li><strong>` + html.EscapeString(a.Name) + `:</strong> `)
		b.WriteString(formatNumber(a.Hours) + ` hrs/day (` + formatNumber(a.Percentage) + `%)</li>`)
	}
	b.WriteString(`</ul><h3>Usage Analysis</h3><ul>`)
	for _, a := range report.Appliances {
		class, label := usageStatus(a.UsageLevel)
		b.WriteString(`<li><span class="` + class + `">` + label + `:</span> `)
		b.WriteString(html.EscapeString(a.Name) + ` (` + formatNumber(a.Hours) + ` hrs/day)</li>`)
	}
	b.WriteString(`</ul>`)
	return b.String()
}

// usageStatus maps a report usage level to its CSS class and label
func usageStatus(level string) (class, label string) {
	switch level {
	case models.UsageVeryHigh:
		return "status-very-high", "Very high usage"
	case models.UsageHigh:
		return "status-high", "High usage"
	case models.UsageModerate:
		return "status-moderate", "Moderate usage"
	default:
		return "status-efficient", "Efficient usage"
	}
}

// AnalysisRenderer shows the cost breakdown and regression
type AnalysisRenderer struct {
	backend Backend
	view    View
	alerter

	cost       *charts.Slot
	regression *charts.Slot
}

// Load fetches the analysis and renders the summary and charts
func (r *AnalysisRenderer) Load(ctx context.Context) error {
	analysis, err := r.backend.Analysis(ctx)
	if err != nil {
		const fallback = "Error generating analysis"
		r.view.SetHTML(HTMLAnalysis, errorFragment(failureMessage(err, fallback)))
		return r.fail("loading analysis", err, fallback)
	}

	r.view.SetHTML(HTMLAnalysis, AnalysisSummary(analysis))
	if len(analysis.Appliances) == 0 {
		r.cost.Clear()
		r.regression.Clear()
		return nil
	}
	r.cost.Replace(CostChart(analysis))
	if analysis.Regression != nil {
		r.regression.Replace(RegressionChart(analysis))
	} else {
		r.regression.Clear()
	}
	return nil
}

// AnalysisSummary renders the cost breakdown and savings recommendations
func AnalysisSummary(a *models.CostAnalysis) string {
	var b strings.Builder
	b.WriteString(`<h3>Analysis Summary</h3>`)
	b.WriteString(`<p><strong>Total Daily Energy Cost: ₹` + formatNumber(a.TotalCost) + `</strong></p>`)
	b.WriteString(`<h3>Breakdown by Appliance:</h3><ul>`)
	for _, item := range a.Appliances {
		b.WriteString(`<li>• ` + html.EscapeString(item.Name) + `: ` + formatNumber(item.Hours) + ` hours/day - ₹`)
		b.WriteString(formatNumber(item.Cost) + ` (` + formatNumber(item.Percentage) + `% of total cost)</li>`)
	}
	b.WriteString(`</ul><h3>Recommendations for Energy Savings:</h3><ul>`)
	for _, item := range a.Appliances {
		name := html.EscapeString(item.Name)
		switch {
		case item.Hours > 6:
			b.WriteString(`<li>• Consider reducing ` + name + ` usage (` + formatNumber(item.Hours) + ` hours/day is high)</li>`)
		case item.Hours > 4:
			b.WriteString(`<li>• Monitor ` + name + ` usage to optimize efficiency</li>`)
		}
	}
	b.WriteString(`</ul>`)
	return b.String()
}

// CostChart is a bar chart of daily cost per appliance
func CostChart(a *models.CostAnalysis) *charts.Chart {
	labels := make([]string, len(a.Appliances))
	costs := make([]float64, len(a.Appliances))
	for i, item := range a.Appliances {
		labels[i] = item.Name
		costs[i] = item.Cost
	}
	return charts.New(charts.Bar, "Daily Energy Cost by Your Appliances", labels, charts.Dataset{
		Label:  "Daily Energy Cost (₹)",
		Data:   costs,
		Colors: charts.TierColors(costs, charts.ThirdOfSum, charts.Blue, charts.Amber),
	})
}

// RegressionChart is a scatter of (hours, cost) with the fitted line overlaid.
// Callers only draw it when the backend supplied a regression.
func RegressionChart(a *models.CostAnalysis) *charts.Chart {
	labels := make([]string, len(a.Appliances))
	points := make([]charts.Point, len(a.Appliances))
	for i, item := range a.Appliances {
		labels[i] = item.Name
		points[i] = charts.Point{X: item.Hours, Y: item.Cost}
	}

	datasets := []charts.Dataset{{
		Label:  "Appliances",
		Points: points,
		Colors: []string{charts.Blue},
	}}
	if a.Regression != nil && len(points) > 0 {
		lo, hi := points[0].X, points[0].X
		for _, p := range points[1:] {
			lo = min(lo, p.X)
			hi = max(hi, p.X)
		}
		datasets = append(datasets, charts.Dataset{
			Label:   "Regression Line",
			Points:  []charts.Point{{X: lo, Y: a.Regression.At(lo)}, {X: hi, Y: a.Regression.At(hi)}},
			Colors:  []string{charts.Red},
			Overlay: charts.Line,
		})
	}
	return charts.New(charts.Scatter, "Usage Hours vs Cost", labels, datasets...)
}

// MLReportRenderer shows the usage patterns and savings plan
type MLReportRenderer struct {
	backend Backend
	view    View
	alerter

	consumption *charts.Slot
	pie         *charts.Slot
}

// Load fetches the savings plan and renders the summary and charts
func (r *MLReportRenderer) Load(ctx context.Context) error {
	report, err := r.backend.MLReport(ctx)
	if err != nil {
		const fallback = "Error generating ML report"
		r.view.SetHTML(HTMLMLReport, errorFragment(failureMessage(err, fallback)))
		return r.fail("loading ML report", err, fallback)
	}

	r.view.SetHTML(HTMLMLReport, MLReportSummary(report))
	if len(report.Appliances) == 0 {
		r.consumption.Clear()
		r.pie.Clear()
		return nil
	}
	r.consumption.Replace(ConsumptionChart(report))
	r.pie.Replace(DistributionChart(report))
	return nil
}

// MLReportSummary renders usage patterns, savings and recommendations
func MLReportSummary(r *models.SavingsReport) string {
	var b strings.Builder
	b.WriteString(`<h3>Machine Learning Analysis</h3>`)
	b.WriteString(`<h3>Usage Patterns</h3><ul>`)
	for _, a := range r.Appliances {
		b.WriteString(`<li><strong>` + html.EscapeString(a.Name) + `:</strong> ` + patternLabel(a.UsageLevel))
		b.WriteString(` (` + formatNumber(a.Hours) + ` hrs/day)</li>`)
	}
	b.WriteString(`</ul><h3>Predicted Daily Savings</h3><ul>`)
	for _, a := range r.Appliances {
		if a.Savings > 0 {
			b.WriteString(`<li>Reduce <strong>` + html.EscapeString(a.Name) + `</strong> by 2 hrs: Save ₹` + formatNumber(a.Savings) + `</li>`)
		}
	}
	b.WriteString(`</ul><p><strong>Total Potential Daily Savings: ₹` + formatNumber(r.TotalSavings) + `</strong></p>`)
	b.WriteString(`<h3>AI Recommendations</h3><ul>`)
	for _, a := range r.Appliances {
		name := html.EscapeString(a.Name)
		switch {
		case a.Hours > 8:
			b.WriteString(`<li>• Consider using ` + name + ` in off-peak hours</li>`)
		case a.Hours > 5:
			b.WriteString(`<li>• Monitor ` + name + ` usage patterns</li>`)
		}
	}
	b.WriteString(`</ul>`)
	return b.String()
}

func patternLabel(level string) string {
	switch level {
	case models.UsageVeryHigh:
		return "Very High Usage"
	case models.UsageHigh:
		return "High Usage"
	default:
		return "Normal Usage"
	}
}

// ConsumptionChart is a bar chart of daily hours per appliance
func ConsumptionChart(r *models.SavingsReport) *charts.Chart {
	labels, hours := savingsHours(r)
	return charts.New(charts.Bar, "Energy Consumption by Appliance", labels, charts.Dataset{
		Label:  "Hours/Day",
		Data:   hours,
		Colors: charts.TierColors(hours, charts.SumOver2_5, charts.Amber, charts.Blue),
	})
}

// DistributionChart is a pie of daily hours per appliance
func DistributionChart(r *models.SavingsReport) *charts.Chart {
	labels, hours := savingsHours(r)
	return charts.New(charts.Pie, "Usage Distribution", labels, charts.Dataset{
		Label:  "Hours/Day",
		Data:   hours,
		Colors: charts.Cycle(len(hours), charts.SlicePalette),
	})
}

func savingsHours(r *models.SavingsReport) ([]string, []float64) {
	labels := make([]string, len(r.Appliances))
	hours := make([]float64, len(r.Appliances))
	for i, a := range r.Appliances {
		labels[i] = a.Name
		hours[i] = a.Hours
	}
	return labels, hours
}

func errorFragment(msg string) string {
	return `<p class="error">` + html.EscapeString(msg) + `</p>`
}

// formatNumber prints whole numbers without a fractional part
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
