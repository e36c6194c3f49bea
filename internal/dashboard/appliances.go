package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/jgoulah/energydash/pkg/models"
)

// MaxHours is the upper bound on daily usage hours
const MaxHours = 24

// ApplianceForm manages the appliance list
type ApplianceForm struct {
	backend Backend
	view    View
	alerter

	mu   sync.Mutex
	last models.Appliances
}

// Load fetches the current appliances and renders the list
func (f *ApplianceForm) Load(ctx context.Context) error {
	appliances, err := f.backend.ListAppliances(ctx)
	if err != nil {
		return f.fail("loading appliances", err, msgNetworkError)
	}
	f.render(appliances)
	return nil
}

// Add validates the inputs and registers the appliance
func (f *ApplianceForm) Add(ctx context.Context, name, hoursInput string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return f.invalid("Please select an appliance")
	}
	hours, err := parseHours(hoursInput)
	if err != nil {
		return f.invalid("Please enter valid hours (0-24)")
	}

	appliances, err := f.backend.AddAppliance(ctx, name, hours)
	if err != nil {
		return f.fail("adding appliance", err, "Error adding appliance")
	}
	f.render(appliances)
	f.view.SetValue(InputApplianceName, "")
	f.view.SetValue(InputApplianceHours, "")
	f.view.Notify(name + " added successfully!")
	return nil
}

// Remove deletes the selected appliance
func (f *ApplianceForm) Remove(ctx context.Context, selected string) error {
	if selected == "" {
		return f.invalid("Please select an appliance to remove")
	}

	appliances, err := f.backend.RemoveAppliance(ctx, selected)
	if err != nil {
		return f.fail("removing appliance", err, "Error removing appliance")
	}
	f.render(appliances)
	return nil
}

// Appliances returns the last mapping received from the backend
func (f *ApplianceForm) Appliances() models.Appliances {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last.Clone()
}

// render replaces the list with exactly the given mapping
func (f *ApplianceForm) render(appliances models.Appliances) {
	f.mu.Lock()
	f.last = appliances.Clone()
	f.mu.Unlock()

	items := make([]ListItem, 0, len(appliances))
	for _, name := range appliances.Names() {
		items = append(items, ListItem{
			Value: name,
			Label: fmt.Sprintf("%s - %d hrs/day", name, appliances[name]),
		})
	}
	f.view.SetList(ListAppliances, items)
}

// parseHours accepts a whole number of hours in [0, MaxHours]
func parseHours(s string) (int, error) {
	hours, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("parsing hours: %w", err)
	}
	if hours < 0 || hours > MaxHours {
		return 0, fmt.Errorf("hours out of range: %d", hours)
	}
	return hours, nil
}
