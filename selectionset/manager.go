package selectionset

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Tubbz-alt/DarkRadiant/scene"
	"github.com/Tubbz-alt/DarkRadiant/selection"
)

// ErrNothingSelected is returned when saving an empty selection.
var ErrNothingSelected = errors.New("nothing selected")

// Manager saves and restores the selection of a system by name.
type Manager struct {
	store Store
}

// NewManager returns a manager on top of store.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Save stores the current selection of sys under name. Saving under an
// existing name replaces the set but keeps its ID.
func (m *Manager) Save(name string, sys *selection.System) (Set, error) {
	if name == "" {
		return Set{}, ErrEmptyName
	}
	selected := sys.Selected()
	if len(selected) == 0 {
		return Set{}, ErrNothingSelected
	}

	s := Set{ID: uuid.New(), Name: name}
	if old, err := m.store.Get(name); err == nil {
		s.ID = old.ID
	} else if !errors.Is(err, ErrNotFound) {
		return Set{}, err
	}
	for _, n := range selected {
		s.Members = append(s.Members, Member{ID: n.ID, Name: n.Name})
	}

	if err := m.store.Put(s); err != nil {
		return Set{}, fmt.Errorf("saving selection set %q: %w", name, err)
	}
	log.Infof("saved selection set %q with %d nodes", name, len(s.Members))
	return s, nil
}

// Restore replaces the selection of sys with the members of the named set
// that are still in the scene. It returns the number selected.
func (m *Manager) Restore(name string, sys *selection.System) (int, error) {
	s, err := m.store.Get(name)
	if err != nil {
		return 0, err
	}
	ids := resolve(sys.Graph(), s.Members)
	if missing := len(s.Members) - len(ids); missing > 0 {
		log.Warnf("selection set %q: %d nodes are gone", name, missing)
	}
	return sys.SelectNodes(ids, true), nil
}

// resolve finds the members in g, by name where they have one.
func resolve(g *scene.Graph, members []Member) []scene.NodeID {
	var ids []scene.NodeID
	for _, mem := range members {
		if mem.Name != "" {
			if n := g.Find(mem.Name); n != nil {
				ids = append(ids, n.ID)
			}
			continue
		}
		if g.Node(mem.ID) != nil {
			ids = append(ids, mem.ID)
		}
	}
	return ids
}

// Delete removes the named set.
func (m *Manager) Delete(name string) error {
	return m.store.Delete(name)
}

// List returns the names of all sets in ascending order.
func (m *Manager) List() ([]string, error) {
	return m.store.Names()
}
