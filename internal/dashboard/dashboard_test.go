package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/energydash/internal/backend"
	"github.com/jgoulah/energydash/internal/charts"
	"github.com/jgoulah/energydash/pkg/models"
)

func newTestController(b Backend, opts ...Option) (*Controller, *recordingView, *charts.Board) {
	view := newRecordingView()
	board := charts.NewBoard()
	return New(b, view, board, opts...), view, board
}

func samplePrediction() *models.Prediction {
	return &models.Prediction{
		Success:        true,
		PredictedBill:  450.5,
		PredictedUnits: 300.2,
		PreviousUnits:  []float64{280, 290, 295},
		PreviousBills:  []float64{420, 430, 440},
		RoundedBill:    450,
		MonthNames:     []string{"Jan", "Feb", "Mar", "Apr"},
	}
}

func TestApplianceForm(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid input never issues a request", func(t *testing.T) {
		fb := newFakeBackend()
		c, view, _ := newTestController(fb)

		for _, hours := range []string{"-1", "25", "abc", "", "4.5"} {
			err := c.Appliances.Add(ctx, "Fan", hours)
			assert.True(t, IsAlerted(err), "hours %q", hours)
		}
		assert.Error(t, c.Appliances.Add(ctx, "   ", "4"))
		assert.Error(t, c.Appliances.Remove(ctx, ""))

		assert.Equal(t, 0, fb.total())
		assert.Len(t, view.alerts, 7)
	})

	t.Run("boundaries are accepted", func(t *testing.T) {
		fb := newFakeBackend()
		c, _, _ := newTestController(fb)

		require.NoError(t, c.Appliances.Add(ctx, "Fan", "0"))
		require.NoError(t, c.Appliances.Add(ctx, "Refrigerator", " 24 "))
		assert.Equal(t, 2, fb.count("add"))
	})

	t.Run("list mirrors the server mapping", func(t *testing.T) {
		fb := newFakeBackend()
		fb.appliances = models.Appliances{"Fan": 4}
		c, view, _ := newTestController(fb)

		require.NoError(t, c.Appliances.Load(ctx))
		assert.Equal(t, []string{"Fan"}, view.listValues(ListAppliances))

		view.values[InputApplianceName] = "TV"
		require.NoError(t, c.Appliances.Add(ctx, " TV ", "3"))
		assert.Equal(t, []string{"Fan", "TV"}, view.listValues(ListAppliances))
		assert.Equal(t, "TV - 3 hrs/day", view.lists[ListAppliances][1].Label)
		assert.Equal(t, "", view.values[InputApplianceName])
		assert.Equal(t, "", view.values[InputApplianceHours])
		assert.Equal(t, []string{"TV added successfully!"}, view.notices)
		assert.Empty(t, view.alerts)

		// another client removed Fan meanwhile
		delete(fb.appliances, "Fan")
		require.NoError(t, c.Appliances.Remove(ctx, "TV"))
		assert.Empty(t, view.listValues(ListAppliances))
		assert.Empty(t, c.Appliances.Appliances())
	})

	t.Run("server error is shown verbatim", func(t *testing.T) {
		fb := newFakeBackend()
		c, view, _ := newTestController(fb)

		err := c.Appliances.Remove(ctx, "Heater")
		require.Error(t, err)
		assert.Equal(t, []string{"Appliance not found"}, view.alerts)
	})

	t.Run("unsuccessful response without a message falls back", func(t *testing.T) {
		fb := newFakeBackend()
		fb.err = &backend.APIError{StatusCode: 200}
		c, view, _ := newTestController(fb)

		require.Error(t, c.Appliances.Add(ctx, "TV", "3"))
		require.Error(t, c.Appliances.Remove(ctx, "TV"))
		assert.Equal(t, []string{"Error adding appliance", "Error removing appliance"}, view.alerts)
		assert.Empty(t, view.notices)
	})

	t.Run("network error shows generic message", func(t *testing.T) {
		fb := newFakeBackend()
		fb.err = &backend.TransportError{Op: "GET /api/appliances", Err: errors.New("connection refused")}
		c, view, _ := newTestController(fb)

		err := c.Appliances.Load(ctx)
		require.Error(t, err)
		assert.Equal(t, []string{msgNetworkError}, view.alerts)
	})
}

func TestBillPredictor(t *testing.T) {
	ctx := context.Background()

	t.Run("fewer than three bills never issues a request", func(t *testing.T) {
		fb := newFakeBackend()
		c, view, _ := newTestController(fb)

		cases := [][]string{
			{"420", "430", ""},
			{"420", "", "440"},
			{"", "", ""},
			{"420", "430"},
			{"420", "430", "x"},
			{"420", "430", "-5"},
		}
		for _, in := range cases {
			assert.Error(t, c.Predictor.Predict(ctx, in))
		}
		assert.Equal(t, 0, fb.count("predict"))
		assert.Len(t, view.alerts, len(cases))
	})

	t.Run("renders text and two length-4 charts", func(t *testing.T) {
		fb := newFakeBackend()
		fb.prediction = samplePrediction()
		c, view, board := newTestController(fb)

		require.NoError(t, c.Predictor.Predict(ctx, []string{"420", "430", "440"}))
		assert.Equal(t, []float64{420, 430, 440}, fb.lastBills)
		assert.Equal(t, "Predicted Bill: ₹450.50 (300.2 units)", view.texts[TextPrediction])
		assert.Equal(t, "Rounded Bill: ₹450", view.texts[TextRoundedBill])

		units, ok := board.Get(CanvasUnits)
		require.True(t, ok)
		assert.Equal(t, []float64{280, 290, 295, 300.2}, units.Datasets[0].Data)
		assert.Equal(t, []string{charts.Blue, charts.Blue, charts.Blue, charts.Red}, units.Datasets[0].Colors)

		bills, ok := board.Get(CanvasBills)
		require.True(t, ok)
		assert.Equal(t, []float64{420, 430, 440, 450.5}, bills.Datasets[0].Data)
		assert.Equal(t, []string{"Jan", "Feb", "Mar", "Apr"}, bills.Labels)
		assert.Equal(t, []string{charts.Blue}, bills.Datasets[0].Colors)

		// the response slices are not modified
		assert.Len(t, fb.prediction.PreviousUnits, 3)
	})

	t.Run("units keep one decimal", func(t *testing.T) {
		p := samplePrediction()
		p.PredictedUnits = 300
		assert.Equal(t, "Predicted Bill: ₹450.50 (300.0 units)", FormatPrediction(p))
		p.PredictedUnits = 287.46
		assert.Equal(t, "Predicted Bill: ₹450.50 (287.5 units)", FormatPrediction(p))
	})

	t.Run("repeated renders keep one chart per canvas", func(t *testing.T) {
		fb := newFakeBackend()
		fb.prediction = samplePrediction()
		c, _, board := newTestController(fb)

		require.NoError(t, c.Predictor.Predict(ctx, []string{"420", "430", "440"}))
		first, _ := board.Get(CanvasUnits)
		require.NoError(t, c.Predictor.Predict(ctx, []string{"420", "430", "440"}))
		second, _ := board.Get(CanvasUnits)

		assert.True(t, first.Destroyed())
		assert.False(t, second.Destroyed())
		assert.Equal(t, []string{CanvasBills, CanvasUnits}, board.Canvases())
		mounted, destroyed := board.Stats()
		assert.Equal(t, 4, mounted)
		assert.Equal(t, 2, destroyed)
	})

	t.Run("server error is alerted", func(t *testing.T) {
		fb := newFakeBackend()
		fb.err = &backend.APIError{StatusCode: 400, Message: "Please provide exactly 3 months of bill data"}
		c, view, board := newTestController(fb)

		require.Error(t, c.Predictor.Predict(ctx, []string{"1", "2", "3"}))
		assert.Equal(t, []string{"Please provide exactly 3 months of bill data"}, view.alerts)
		assert.Empty(t, board.Canvases())
	})

	t.Run("successful predictions are recorded", func(t *testing.T) {
		fb := newFakeBackend()
		fb.prediction = samplePrediction()
		rec := &fakeRecorder{}
		c, _, _ := newTestController(fb, WithRecorder(rec))

		require.NoError(t, c.Predictor.Predict(ctx, []string{"420", "430", "440"}))
		require.Len(t, rec.bills, 1)
		assert.Equal(t, []float64{420, 430, 440}, rec.bills[0])
	})
}

type fakeRecorder struct {
	bills [][]float64
}

func (r *fakeRecorder) RecordPrediction(ctx context.Context, bills []float64, p *models.Prediction) error {
	r.bills = append(r.bills, bills)
	return nil
}

func TestReportRenderers(t *testing.T) {
	ctx := context.Background()
	fb := newFakeBackend()
	fb.report = &models.UsageReport{
		TotalHours: 17,
		Appliances: []models.ApplianceUsage{
			{Name: "Air Conditioner", Hours: 10, Percentage: 58.8, UsageLevel: models.UsageHigh},
			{Name: "Fan", Hours: 3, Percentage: 17.6, UsageLevel: models.UsageModerate},
			{Name: "<b>TV</b>", Hours: 4, Percentage: 23.5, UsageLevel: models.UsageEfficient},
		},
	}
	fb.analysis = &models.CostAnalysis{
		TotalCost: 54,
		Appliances: []models.ApplianceCost{
			{Name: "Fan", Hours: 2, Cost: 10, Percentage: 18.5},
			{Name: "TV", Hours: 5, Cost: 14, Percentage: 25.9},
			{Name: "AC", Hours: 7, Cost: 30, Percentage: 55.6},
		},
		Regression: &models.Regression{Slope: 4, Intercept: 2},
	}
	fb.mlreport = &models.SavingsReport{
		Appliances: []models.ApplianceSavings{
			{Name: "AC", Hours: 10, UsageLevel: models.UsageVeryHigh, Savings: 30},
			{Name: "Fan", Hours: 2, UsageLevel: models.UsageNormal, Savings: 0},
			{Name: "TV", Hours: 6, UsageLevel: models.UsageHigh, Savings: 12},
		},
		TotalSavings: 42,
	}
	c, view, board := newTestController(fb)

	t.Run("report", func(t *testing.T) {
		require.NoError(t, c.Report.Load(ctx))
		summary := view.html[HTMLReport]
		assert.Contains(t, summary, "<h3>Appliance Usage Report</h3>")
		assert.Contains(t, summary, "Total Hours of Appliance Usage: 17 hrs/day")
		assert.Contains(t, summary, "<li><strong>Air Conditioner:</strong> 10 hrs/day (58.8%)</li>")
		assert.Contains(t, summary, "<h3>Usage Analysis</h3>")
		assert.Contains(t, summary, `<li><span class="status-high">High usage:</span> Air Conditioner (10 hrs/day)</li>`)
		assert.Contains(t, summary, `<span class="status-moderate">Moderate usage:</span> Fan (3 hrs/day)`)
		assert.Contains(t, summary, `<span class="status-efficient">Efficient usage:</span> &lt;b&gt;TV&lt;/b&gt;`)
		assert.Empty(t, board.Canvases())
	})

	t.Run("usage levels", func(t *testing.T) {
		tests := []struct {
			level, class, label string
		}{
			{models.UsageVeryHigh, "status-very-high", "Very high usage"},
			{models.UsageHigh, "status-high", "High usage"},
			{models.UsageModerate, "status-moderate", "Moderate usage"},
			{models.UsageNormal, "status-efficient", "Efficient usage"},
			{"", "status-efficient", "Efficient usage"},
		}
		for _, tt := range tests {
			class, label := usageStatus(tt.level)
			assert.Equal(t, tt.class, class, tt.level)
			assert.Equal(t, tt.label, label, tt.level)
		}
	})

	t.Run("analysis", func(t *testing.T) {
		require.NoError(t, c.Analysis.Load(ctx))
		summary := view.html[HTMLAnalysis]
		assert.Contains(t, summary, "Total Daily Energy Cost: ₹54")
		assert.Contains(t, summary, "<li>• TV: 5 hours/day - ₹14 (25.9% of total cost)</li>")
		assert.Contains(t, summary, "<h3>Recommendations for Energy Savings:</h3>")
		assert.Contains(t, summary, "<li>• Consider reducing AC usage (7 hours/day is high)</li>")
		assert.Contains(t, summary, "<li>• Monitor TV usage to optimize efficiency</li>")
		assert.NotContains(t, summary, "Fan usage")

		cost, ok := board.Get(CanvasCost)
		require.True(t, ok)
		assert.Equal(t, "Daily Energy Cost by Your Appliances", cost.Title)
		// cut is (10+30)/3, so 14 is in the upper tier
		assert.Equal(t, []string{charts.Green, charts.Blue, charts.Red}, cost.Datasets[0].Colors)

		reg, ok := board.Get(CanvasRegression)
		require.True(t, ok)
		require.Len(t, reg.Datasets, 2)
		assert.Equal(t, []string{charts.Blue}, reg.Datasets[0].Colors)
		assert.Equal(t, charts.Line, reg.Datasets[1].Overlay)
		assert.Equal(t, []string{charts.Red}, reg.Datasets[1].Colors)
		assert.Equal(t, []charts.Point{{X: 2, Y: 10}, {X: 7, Y: 30}}, reg.Datasets[1].Points)
	})

	t.Run("cost tiers", func(t *testing.T) {
		chart := CostChart(&models.CostAnalysis{Appliances: []models.ApplianceCost{
			{Name: "A", Cost: 10}, {Name: "B", Cost: 13}, {Name: "C", Cost: 14}, {Name: "D", Cost: 30},
		}})
		assert.Equal(t, []string{charts.Green, charts.Amber, charts.Blue, charts.Red}, chart.Datasets[0].Colors)
	})

	t.Run("analysis without regression clears the scatter", func(t *testing.T) {
		fb := newFakeBackend()
		fb.analysis = &models.CostAnalysis{
			TotalCost:  7,
			Appliances: []models.ApplianceCost{{Name: "AC", Hours: 1, Cost: 7, Percentage: 100}},
			Regression: &models.Regression{Slope: 7},
		}
		c, _, board := newTestController(fb)

		require.NoError(t, c.Analysis.Load(ctx))
		_, ok := board.Get(CanvasRegression)
		require.True(t, ok)

		fb.analysis.Regression = nil
		require.NoError(t, c.Analysis.Load(ctx))
		_, ok = board.Get(CanvasRegression)
		assert.False(t, ok)
		_, ok = board.Get(CanvasCost)
		assert.True(t, ok)
	})

	t.Run("ml report", func(t *testing.T) {
		require.NoError(t, c.MLReport.Load(ctx))
		summary := view.html[HTMLMLReport]
		assert.Contains(t, summary, "<h3>Usage Patterns</h3>")
		assert.Contains(t, summary, "<li><strong>AC:</strong> Very High Usage (10 hrs/day)</li>")
		assert.Contains(t, summary, "<li><strong>TV:</strong> High Usage (6 hrs/day)</li>")
		assert.Contains(t, summary, "<li><strong>Fan:</strong> Normal Usage (2 hrs/day)</li>")
		assert.Contains(t, summary, "<li>Reduce <strong>AC</strong> by 2 hrs: Save ₹30</li>")
		assert.NotContains(t, summary, "Reduce <strong>Fan</strong>")
		assert.Contains(t, summary, "Total Potential Daily Savings: ₹42")
		assert.Contains(t, summary, "<h3>AI Recommendations</h3>")
		assert.Contains(t, summary, "<li>• Consider using AC in off-peak hours</li>")
		assert.Contains(t, summary, "<li>• Monitor TV usage patterns</li>")
		assert.NotContains(t, summary, "Fan usage patterns")

		consumption, ok := board.Get(CanvasMLConsumption)
		require.True(t, ok)
		assert.Equal(t, "Energy Consumption by Appliance", consumption.Title)
		assert.Equal(t, []float64{10, 2, 6}, consumption.Datasets[0].Data)
		// cut is (10+2)/2.5, so 6 is in the upper tier
		assert.Equal(t, []string{charts.Red, charts.Green, charts.Amber}, consumption.Datasets[0].Colors)

		pie, ok := board.Get(CanvasMLPie)
		require.True(t, ok)
		assert.Equal(t, charts.Pie, pie.Kind)
		assert.Equal(t, []float64{10, 2, 6}, pie.Datasets[0].Data)
		assert.Equal(t, []string{charts.Blue, charts.Green, charts.Amber}, pie.Datasets[0].Colors)
	})

	t.Run("reloading keeps one chart per canvas", func(t *testing.T) {
		require.NoError(t, c.Report.Load(ctx))
		require.NoError(t, c.Analysis.Load(ctx))
		require.NoError(t, c.MLReport.Load(ctx))
		assert.Equal(t, []string{CanvasCost, CanvasMLConsumption, CanvasMLPie, CanvasRegression}, board.Canvases())
	})

	t.Run("server error is shown inline", func(t *testing.T) {
		fb := newFakeBackend()
		fb.err = &backend.APIError{StatusCode: 400, Message: "No appliances data available"}
		c, view, _ := newTestController(fb)

		require.Error(t, c.Report.Load(ctx))
		assert.Contains(t, view.html[HTMLReport], "No appliances data available")
		assert.Equal(t, []string{"No appliances data available"}, view.alerts)
	})

	t.Run("network errors use each page's fallback", func(t *testing.T) {
		fb := newFakeBackend()
		fb.err = &backend.TransportError{Op: "GET /api/report", Err: errors.New("connection refused")}
		c, view, _ := newTestController(fb)

		require.Error(t, c.Report.Load(ctx))
		require.Error(t, c.Analysis.Load(ctx))
		require.Error(t, c.MLReport.Load(ctx))
		assert.Equal(t, []string{"Error generating report", "Error generating analysis", "Error generating ML report"}, view.alerts)
	})
}

func TestChatPanel(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("blank input is ignored", func(t *testing.T) {
		fb := newFakeBackend()
		c, view, _ := newTestController(fb)

		require.NoError(t, c.Chat.Send(ctx, ""))
		require.NoError(t, c.Chat.Send(ctx, "  \t\n"))
		assert.Equal(t, 0, fb.total())
		assert.Equal(t, 0, view.messageCount())
	})

	t.Run("user message appears before the reply", func(t *testing.T) {
		fb := newFakeBackend()
		fb.reply = "Your bill depends on usage."
		fb.askStarted = make(chan struct{})
		fb.askRelease = make(chan struct{})
		c, view, _ := newTestController(fb, WithClock(func() time.Time { return fixed }))

		done := make(chan error, 1)
		go func() { done <- c.Chat.Send(ctx, "What is my bill?") }()

		<-fb.askStarted
		assert.Equal(t, 1, view.messageCount())
		fb.askRelease <- struct{}{}
		require.NoError(t, <-done)

		msgs := c.Chat.Messages()
		require.Len(t, msgs, 2)
		assert.Equal(t, models.SenderUser, msgs[0].Sender)
		assert.Equal(t, "What is my bill?", msgs[0].Text)
		assert.Equal(t, models.SenderBot, msgs[1].Sender)
		assert.Equal(t, "Your bill depends on usage.", msgs[1].Text)
		assert.Equal(t, fixed, msgs[1].Time)
		assert.NotEqual(t, msgs[0].ID, msgs[1].ID)
	})

	t.Run("failure appends an error message", func(t *testing.T) {
		fb := newFakeBackend()
		fb.err = &backend.TransportError{Op: "POST /api/chatbot", Err: errors.New("timeout")}
		c, view, _ := newTestController(fb)

		err := c.Chat.Send(ctx, "hello")
		assert.True(t, IsAlerted(err))
		msgs := c.Chat.Messages()
		require.Len(t, msgs, 2)
		assert.True(t, msgs[1].Error)
		assert.Equal(t, "Sorry, I encountered an error. Please try again.", msgs[1].Text)
		assert.Empty(t, view.alerts)
	})

	t.Run("server error is prefixed", func(t *testing.T) {
		fb := newFakeBackend()
		fb.err = &backend.APIError{StatusCode: 500, Message: "Chatbot is unavailable"}
		c, _, _ := newTestController(fb)

		require.Error(t, c.Chat.Send(ctx, "hello"))
		msgs := c.Chat.Messages()
		require.Len(t, msgs, 2)
		assert.Equal(t, "Error: Chatbot is unavailable", msgs[1].Text)
	})

	t.Run("log and view stay in the same order", func(t *testing.T) {
		fb := newFakeBackend()
		fb.reply = "ok"
		c, view, _ := newTestController(fb)

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			i := i
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, c.Chat.Send(ctx, fmt.Sprintf("question %d", i)))
			}()
		}
		wg.Wait()

		msgs := c.Chat.Messages()
		require.Len(t, msgs, 40)
		view.mu.Lock()
		defer view.mu.Unlock()
		require.Len(t, view.messages, 40)
		for i := range msgs {
			assert.Equal(t, msgs[i].ID, view.messages[i].ID)
		}
	})
}

func TestRegistry(t *testing.T) {
	ctx := context.Background()
	fb := newFakeBackend()
	fb.prediction = samplePrediction()
	fb.report = &models.UsageReport{TotalHours: 1, Appliances: []models.ApplianceUsage{{Name: "Fan", Hours: 1, Percentage: 100}}}
	c, view, _ := newTestController(fb)
	reg := NewRegistry()
	c.Bind(reg)

	t.Run("dispatches to bound actions", func(t *testing.T) {
		err := reg.Dispatch(ctx, ButtonPredict, "click", Inputs{InputBill1: "420", InputBill2: "430", InputBill3: "440"})
		require.NoError(t, err)
		assert.Equal(t, 1, fb.count("predict"))
	})

	t.Run("navigation loads the page", func(t *testing.T) {
		require.NoError(t, reg.Dispatch(ctx, NavElement(PageReport), "click", nil))
		assert.Equal(t, PageReport, c.Nav.Active())
		assert.Equal(t, PageReport, view.section)
		assert.Equal(t, 1, fb.count("report"))

		require.NoError(t, reg.Dispatch(ctx, NavElement(PageChat), "click", nil))
		assert.Equal(t, PageChat, c.Nav.Active())
	})

	t.Run("unknown trigger", func(t *testing.T) {
		err := reg.Dispatch(ctx, "nope", "click", nil)
		assert.True(t, errors.Is(err, ErrNoHandler))
	})

	t.Run("every page has a nav trigger", func(t *testing.T) {
		for _, page := range Pages {
			assert.True(t, reg.Has(NavElement(page), "click"), page)
		}
		var names []string
		for _, tr := range reg.Triggers() {
			names = append(names, tr.String())
		}
		assert.Contains(t, strings.Join(names, ","), "chat-input:enter")
	})

	t.Run("unknown page", func(t *testing.T) {
		assert.Error(t, c.Nav.Show("settings"))
	})
}
