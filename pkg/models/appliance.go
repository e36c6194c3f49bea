package models

import "sort"

// Appliances maps an appliance name to its daily usage hours
type Appliances map[string]int

// Names returns the appliance names in sorted order
func (a Appliances) Names() []string {
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a copy of the mapping
func (a Appliances) Clone() Appliances {
	out := make(Appliances, len(a))
	for name, hours := range a {
		out[name] = hours
	}
	return out
}
