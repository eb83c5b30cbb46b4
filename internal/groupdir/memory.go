package groupdir

import (
	"context"
	"sync"

	dErrors "github.com/Malmz/TalesFromTheSprawl/pkg/domain-errors"
)

type group struct {
	members []string
}

// InMemoryDirectory implements Directory with a mutex-guarded map.
type InMemoryDirectory struct {
	mu     sync.RWMutex
	groups map[string]*group
}

func NewInMemoryDirectory() *InMemoryDirectory {
	return &InMemoryDirectory{groups: make(map[string]*group)}
}

func (d *InMemoryDirectory) Exists(ctx context.Context, name string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.groups[name]
	return ok, nil
}

func (d *InMemoryDirectory) Create(ctx context.Context, name string, initialMembers []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.groups[name]; ok {
		return dErrors.New(dErrors.CodeConflict, "group already exists")
	}
	d.groups[name] = &group{members: append([]string(nil), initialMembers...)}
	return nil
}

func (d *InMemoryDirectory) AddMember(ctx context.Context, name, actorID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	g, ok := d.groups[name]
	if !ok {
		return dErrors.New(dErrors.CodeNotFound, "group not found")
	}
	for _, m := range g.members {
		if m == actorID {
			return nil
		}
	}
	g.members = append(g.members, actorID)
	return nil
}

func (d *InMemoryDirectory) MainChannelRef(ctx context.Context, name string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if _, ok := d.groups[name]; !ok {
		return "", dErrors.New(dErrors.CodeNotFound, "group not found")
	}
	return "#" + name, nil
}

// Members returns a copy of a group's member list. Test helper.
func (d *InMemoryDirectory) Members(name string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	g, ok := d.groups[name]
	if !ok {
		return nil
	}
	return append([]string(nil), g.members...)
}
