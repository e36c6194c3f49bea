package dashboard

import (
	"fmt"
	"slices"
	"sync"
)

// Navigator tracks which page section is visible
type Navigator struct {
	view View

	mu     sync.Mutex
	active string
}

func newNavigator(view View) *Navigator {
	return &Navigator{view: view, active: PageHome}
}

// Show hides every section except name
func (n *Navigator) Show(name string) error {
	if !slices.Contains(Pages, name) {
		return fmt.Errorf("unknown page: %s", name)
	}
	n.mu.Lock()
	n.active = name
	n.mu.Unlock()
	n.view.ShowSection(name)
	return nil
}

// Active returns the visible page
func (n *Navigator) Active() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.active
}
