// Package groupdir is the group directory collaborator seam: private
// networks an actor is enrolled into at provisioning time.
package groupdir

import "context"

// Directory manages groups and their memberships. The chat-platform
// binding provides the production implementation; the in-memory one serves
// tests and offline worlds.
type Directory interface {
	Exists(ctx context.Context, name string) (bool, error)
	// Create makes the group with the given initial members.
	Create(ctx context.Context, name string, initialMembers []string) error
	AddMember(ctx context.Context, name, actorID string) error
	// MainChannelRef returns a displayable reference to the group's primary
	// communication channel.
	MainChannelRef(ctx context.Context, name string) (string, error)
}
