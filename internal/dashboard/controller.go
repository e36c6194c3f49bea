package dashboard

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jgoulah/energydash/internal/charts"
)

// Controller wires user actions to backend requests and renders the responses
type Controller struct {
	Nav        *Navigator
	Appliances *ApplianceForm
	Predictor  *BillPredictor
	Report     *ReportRenderer
	Analysis   *AnalysisRenderer
	MLReport   *MLReportRenderer
	Chat       *ChatPanel
}

// Option customizes a Controller
type Option func(*options)

type options struct {
	logger   *zap.Logger
	recorder PredictionRecorder
	now      func() time.Time
}

// WithLogger sets the logger used for transport failures
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithRecorder stores every successful prediction
func WithRecorder(r PredictionRecorder) Option {
	return func(o *options) { o.recorder = r }
}

// WithClock overrides the time source for chat messages
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New creates a controller that renders into view and draws charts on board
func New(b Backend, view View, board *charts.Board, opts ...Option) *Controller {
	o := options{logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	al := alerter{view: view, logger: o.logger}

	return &Controller{
		Nav:        newNavigator(view),
		Appliances: &ApplianceForm{backend: b, view: view, alerter: al},
		Predictor: &BillPredictor{
			backend:  b,
			view:     view,
			recorder: o.recorder,
			alerter:  al,
			units:    board.Slot(CanvasUnits),
			bills:    board.Slot(CanvasBills),
		},
		Report: &ReportRenderer{backend: b, view: view, alerter: al},
		Analysis: &AnalysisRenderer{
			backend:    b,
			view:       view,
			alerter:    al,
			cost:       board.Slot(CanvasCost),
			regression: board.Slot(CanvasRegression),
		},
		MLReport: &MLReportRenderer{
			backend:     b,
			view:        view,
			alerter:     al,
			consumption: board.Slot(CanvasMLConsumption),
			pie:         board.Slot(CanvasMLPie),
		},
		Chat: &ChatPanel{backend: b, view: view, alerter: al, now: o.now},
	}
}

// Bind registers every user action on the handler table
func (c *Controller) Bind(r *Registry) {
	loads := map[string]func(context.Context) error{
		PageAppliances: c.Appliances.Load,
		PageReport:     c.Report.Load,
		PageAnalysis:   c.Analysis.Load,
		PageMLReport:   c.MLReport.Load,
	}
	for _, page := range Pages {
		page := page
		load := loads[page]
		r.On(NavElement(page), "click", func(ctx context.Context, _ Inputs) error {
			if err := c.Nav.Show(page); err != nil {
				return err
			}
			if load == nil {
				return nil
			}
			return load(ctx)
		})
	}

	r.On("page", "load", func(ctx context.Context, _ Inputs) error {
		return c.Appliances.Load(ctx)
	})
	r.On(ButtonAddAppliance, "click", func(ctx context.Context, in Inputs) error {
		return c.Appliances.Add(ctx, in.Get(InputApplianceName), in.Get(InputApplianceHours))
	})
	r.On(ButtonRemoveAppliance, "click", func(ctx context.Context, in Inputs) error {
		return c.Appliances.Remove(ctx, in.Get(ListAppliances))
	})
	r.On(ButtonPredict, "click", func(ctx context.Context, in Inputs) error {
		return c.Predictor.Predict(ctx, []string{in.Get(InputBill1), in.Get(InputBill2), in.Get(InputBill3)})
	})

	send := func(ctx context.Context, in Inputs) error {
		return c.Chat.Send(ctx, in.Get(InputChat))
	}
	r.On(ButtonChatSend, "click", send)
	r.On(InputChat, "enter", send)
}
