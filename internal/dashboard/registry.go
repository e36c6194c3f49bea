package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrNoHandler is returned when no action is bound to an (element, event) pair
var ErrNoHandler = errors.New("no handler registered")

// Trigger identifies a UI event on an element
type Trigger struct {
	Element string
	Event   string
}

func (t Trigger) String() string {
	return t.Element + ":" + t.Event
}

// Inputs carries the values of the page's input elements at the time of an event
type Inputs map[string]string

// Get returns the value of an input, or "" when absent
func (in Inputs) Get(id string) string {
	if in == nil {
		return ""
	}
	return in[id]
}

// Action handles one event
type Action func(ctx context.Context, in Inputs) error

// Registry maps (element, event) pairs to actions
type Registry struct {
	mu       sync.RWMutex
	handlers map[Trigger]Action
	order    []Trigger
}

// NewRegistry creates an empty handler table
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[Trigger]Action)}
}

// On binds an action to an element's event, replacing any earlier binding
func (r *Registry) On(element, event string, action Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := Trigger{Element: element, Event: event}
	if _, ok := r.handlers[t]; !ok {
		r.order = append(r.order, t)
	}
	r.handlers[t] = action
}

// Dispatch runs the action bound to the trigger
func (r *Registry) Dispatch(ctx context.Context, element, event string, in Inputs) error {
	r.mu.RLock()
	action, ok := r.handlers[Trigger{Element: element, Event: event}]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%s:%s: %w", element, event, ErrNoHandler)
	}
	return action(ctx, in)
}

// Has reports whether a trigger is bound
func (r *Registry) Has(element, event string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[Trigger{Element: element, Event: event}]
	return ok
}

// Triggers returns the bound triggers in registration order
func (r *Registry) Triggers() []Trigger {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Trigger(nil), r.order...)
}

// NavElement returns the element ID of a page's navigation link
func NavElement(page string) string {
	return "nav-" + page
}

// PageFromNav returns the page a navigation element points at
func PageFromNav(element string) (string, bool) {
	return strings.CutPrefix(element, "nav-")
}
