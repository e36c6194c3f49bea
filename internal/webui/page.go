package webui

import (
	"html/template"
	"maps"
	"sync"

	"github.com/jgoulah/energydash/internal/dashboard"
	"github.com/jgoulah/energydash/pkg/models"
)

// Page is the server-held state of the dashboard page. It implements
// dashboard.View; templates render from a Snapshot of it.
type Page struct {
	mu       sync.RWMutex
	section  string
	alerts   []string
	notices  []string
	texts    map[string]string
	html     map[string]string
	values   map[string]string
	lists    map[string][]dashboard.ListItem
	messages []models.ChatMessage
}

// NewPage creates a page showing the home section
func NewPage() *Page {
	return &Page{
		section: dashboard.PageHome,
		texts:   make(map[string]string),
		html:    make(map[string]string),
		values:  make(map[string]string),
		lists:   make(map[string][]dashboard.ListItem),
	}
}

func (p *Page) Alert(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.alerts = append(p.alerts, msg)
}

func (p *Page) Notify(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notices = append(p.notices, msg)
}

func (p *Page) SetText(id, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.texts[id] = text
}

func (p *Page) SetHTML(id, html string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.html[id] = html
}

func (p *Page) SetValue(id, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[id] = value
}

func (p *Page) SetList(id string, items []dashboard.ListItem) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lists[id] = append([]dashboard.ListItem(nil), items...)
}

func (p *Page) AppendMessage(msg models.ChatMessage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
}

func (p *Page) ShowSection(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.section = name
}

// RememberInputs keeps submitted form values so a failed action does not
// wipe what the user typed
func (p *Page) RememberInputs(in dashboard.Inputs) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, v := range in {
		p.values[id] = v
	}
}

// Snapshot is a consistent copy of the page state
type Snapshot struct {
	Section  string                          `json:"section"`
	Alerts   []string                        `json:"alerts"`
	Notices  []string                        `json:"notices"`
	Texts    map[string]string               `json:"texts"`
	HTML     map[string]template.HTML        `json:"html"`
	Values   map[string]string               `json:"values"`
	Lists    map[string][]dashboard.ListItem `json:"lists"`
	Messages []models.ChatMessage            `json:"messages"`
}

// Snapshot copies the state. When drain is set, pending alerts and notices
// are consumed so each is shown once.
func (p *Page) Snapshot(drain bool) Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := Snapshot{
		Section:  p.section,
		Alerts:   append([]string(nil), p.alerts...),
		Notices:  append([]string(nil), p.notices...),
		Texts:    maps.Clone(p.texts),
		HTML:     make(map[string]template.HTML, len(p.html)),
		Values:   maps.Clone(p.values),
		Lists:    make(map[string][]dashboard.ListItem, len(p.lists)),
		Messages: append([]models.ChatMessage(nil), p.messages...),
	}
	// Fragments come from the dashboard renderers, which escape every
	// backend-supplied string.
	for id, h := range p.html {
		s.HTML[id] = template.HTML(h)
	}
	for id, items := range p.lists {
		s.Lists[id] = append([]dashboard.ListItem(nil), items...)
	}
	if drain {
		p.alerts = nil
		p.notices = nil
	}
	return s
}
