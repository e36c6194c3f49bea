package dashboard

import (
	"context"
	"sync"

	"github.com/jgoulah/energydash/internal/backend"
	"github.com/jgoulah/energydash/pkg/models"
)

// fakeBackend serves canned responses and counts calls
type fakeBackend struct {
	mu    sync.Mutex
	calls map[string]int

	appliances models.Appliances
	prediction *models.Prediction
	report     *models.UsageReport
	analysis   *models.CostAnalysis
	mlreport   *models.SavingsReport
	reply      string
	err        error

	// askStarted is signalled when Ask begins; Ask then waits on askRelease
	askStarted chan struct{}
	askRelease chan struct{}

	lastBills []float64
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{calls: make(map[string]int), appliances: models.Appliances{}}
}

func (f *fakeBackend) hit(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.err
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeBackend) ListAppliances(ctx context.Context) (models.Appliances, error) {
	if err := f.hit("list"); err != nil {
		return nil, err
	}
	return f.appliances.Clone(), nil
}

func (f *fakeBackend) AddAppliance(ctx context.Context, name string, hours int) (models.Appliances, error) {
	if err := f.hit("add"); err != nil {
		return nil, err
	}
	f.appliances[name] = hours
	return f.appliances.Clone(), nil
}

func (f *fakeBackend) RemoveAppliance(ctx context.Context, name string) (models.Appliances, error) {
	if err := f.hit("remove"); err != nil {
		return nil, err
	}
	if _, ok := f.appliances[name]; !ok {
		return nil, &backend.APIError{StatusCode: 404, Message: "Appliance not found"}
	}
	delete(f.appliances, name)
	return f.appliances.Clone(), nil
}

func (f *fakeBackend) Predict(ctx context.Context, bills []float64) (*models.Prediction, error) {
	if err := f.hit("predict"); err != nil {
		return nil, err
	}
	f.lastBills = bills
	return f.prediction, nil
}

func (f *fakeBackend) Report(ctx context.Context) (*models.UsageReport, error) {
	if err := f.hit("report"); err != nil {
		return nil, err
	}
	return f.report, nil
}

func (f *fakeBackend) Analysis(ctx context.Context) (*models.CostAnalysis, error) {
	if err := f.hit("analysis"); err != nil {
		return nil, err
	}
	return f.analysis, nil
}

func (f *fakeBackend) MLReport(ctx context.Context) (*models.SavingsReport, error) {
	if err := f.hit("mlreport"); err != nil {
		return nil, err
	}
	return f.mlreport, nil
}

func (f *fakeBackend) Ask(ctx context.Context, question string) (string, error) {
	if f.askStarted != nil {
		f.askStarted <- struct{}{}
		<-f.askRelease
	}
	if err := f.hit("ask"); err != nil {
		return "", err
	}
	return f.reply, nil
}

// recordingView captures everything rendered into it
type recordingView struct {
	mu       sync.Mutex
	alerts   []string
	notices  []string
	texts    map[string]string
	html     map[string]string
	values   map[string]string
	lists    map[string][]ListItem
	messages []models.ChatMessage
	section  string
}

func newRecordingView() *recordingView {
	return &recordingView{
		texts:  make(map[string]string),
		html:   make(map[string]string),
		values: make(map[string]string),
		lists:  make(map[string][]ListItem),
	}
}

func (v *recordingView) Alert(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.alerts = append(v.alerts, msg)
}

func (v *recordingView) Notify(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.notices = append(v.notices, msg)
}

func (v *recordingView) SetText(id, text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.texts[id] = text
}

func (v *recordingView) SetHTML(id, html string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.html[id] = html
}

func (v *recordingView) SetValue(id, value string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.values[id] = value
}

func (v *recordingView) SetList(id string, items []ListItem) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lists[id] = items
}

func (v *recordingView) AppendMessage(msg models.ChatMessage) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.messages = append(v.messages, msg)
}

func (v *recordingView) ShowSection(name string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.section = name
}

func (v *recordingView) messageCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.messages)
}

func (v *recordingView) listValues(id string) []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	var out []string
	for _, item := range v.lists[id] {
		out = append(out, item.Value)
	}
	return out
}
