package models

import "strings"

// PlaceholderMarker flags scaffold entries in a freshly added template.
// Identifiers containing it are examples for the admin to replace and are
// skipped by provisioning.
const PlaceholderMarker = "__"

// IsPlaceholder reports whether a name is a template scaffold entry.
func IsPlaceholder(name string) bool {
	return strings.Contains(name, PlaceholderMarker)
}

// AliasSeed pairs an alias identifier with its initial balance.
type AliasSeed struct {
	ID      string `yaml:"id"`
	Balance int    `yaml:"balance"`
}

// ProvisioningTemplate is the pre-authored starting state for one primary
// handle. Templates are authored out-of-band, keyed by the primary handle
// id a future actor will claim, and are read-only at claim time.
type ProvisioningTemplate struct {
	StartingBalance int         `yaml:"starting_balance"`
	Handles         []AliasSeed `yaml:"handles"`
	Burners         []AliasSeed `yaml:"burners"`
	NPCHandles      []AliasSeed `yaml:"npc_handles"`
	Groups          []string    `yaml:"groups"`
}

// NewScaffold returns the template skeleton written by the admin add path.
// Entries carry the placeholder marker so an unedited scaffold provisions
// nothing beyond the starting balance.
func NewScaffold() *ProvisioningTemplate {
	return &ProvisioningTemplate{
		StartingBalance: 10,
		Handles: []AliasSeed{
			{ID: "__example_handle1"},
			{ID: "__example_handle2"},
		},
		Burners: []AliasSeed{
			{ID: "__example_burner1"},
		},
		NPCHandles: []AliasSeed{
			{ID: "__example_npc1"},
		},
		Groups: []string{"__example_group1", "__example_group2"},
	}
}
