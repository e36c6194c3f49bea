package dashboard

import (
	"context"

	"github.com/jgoulah/energydash/pkg/models"
)

// View is the page the controller renders into
type View interface {
	// Alert shows a message the user must acknowledge
	Alert(msg string)
	// Notify confirms a completed action
	Notify(msg string)
	SetText(id, text string)
	SetHTML(id, html string)
	// SetValue sets the value of an input element
	SetValue(id, value string)
	SetList(id string, items []ListItem)
	AppendMessage(msg models.ChatMessage)
	ShowSection(name string)
}

// ListItem is one selectable entry in a list element
type ListItem struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Backend is the energy monitor API consumed by the controller
type Backend interface {
	ListAppliances(ctx context.Context) (models.Appliances, error)
	AddAppliance(ctx context.Context, name string, hours int) (models.Appliances, error)
	RemoveAppliance(ctx context.Context, name string) (models.Appliances, error)
	Predict(ctx context.Context, bills []float64) (*models.Prediction, error)
	Report(ctx context.Context) (*models.UsageReport, error)
	Analysis(ctx context.Context) (*models.CostAnalysis, error)
	MLReport(ctx context.Context) (*models.SavingsReport, error)
	Ask(ctx context.Context, question string) (string, error)
}

// PredictionRecorder stores successful predictions
type PredictionRecorder interface {
	RecordPrediction(ctx context.Context, bills []float64, p *models.Prediction) error
}

// Element IDs shared by the controller and its front ends
const (
	// Sections
	PageHome       = "home"
	PageAppliances = "appliances"
	PagePredict    = "predict"
	PageReport     = "report"
	PageAnalysis   = "analysis"
	PageMLReport   = "mlreport"
	PageChat       = "chat"

	// Inputs
	InputApplianceName  = "appliance-name"
	InputApplianceHours = "appliance-hours"
	InputBill1          = "bill1"
	InputBill2          = "bill2"
	InputBill3          = "bill3"
	InputChat           = "chat-input"

	// Buttons
	ButtonAddAppliance    = "add-appliance"
	ButtonRemoveAppliance = "remove-appliance"
	ButtonPredict         = "predict-btn"
	ButtonChatSend        = "chat-send"

	// Outputs
	ListAppliances  = "appliance-list"
	TextPrediction  = "prediction-result"
	TextRoundedBill = "rounded-bill"
	HTMLReport      = "report-summary"
	HTMLAnalysis    = "analysis-summary"
	HTMLMLReport    = "mlreport-summary"
	ChatMessages    = "chat-messages"

	// Canvases
	CanvasUnits         = "unitsChart"
	CanvasBills         = "billsChart"
	CanvasCost          = "costChart"
	CanvasRegression    = "regressionChart"
	CanvasMLConsumption = "mlConsumptionChart"
	CanvasMLPie         = "mlPieChart"
)

// Pages lists the navigable sections in display order
var Pages = []string{PageHome, PageAppliances, PagePredict, PageReport, PageAnalysis, PageMLReport, PageChat}
