package ecs

import (
	"fmt"
	"sort"

	"github.com/milk9111/spriteanimator/ecs/component"
)

// ComponentKind is satisfied by component.ComponentKind[T] for any T.
type ComponentKind interface {
	ID() component.ComponentID
	Valid() bool
	String() string
}

// World owns entities and their component stores.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	events   EventQueue
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity removes every component of e and marks it dead.
func (w *World) DestroyEntity(e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, store := range w.stores {
		store.Remove(e.id())
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns all live entities in slot order.
func (w *World) Entities() []Entity {
	if w == nil {
		return nil
	}
	return w.entities.list()
}

func (w *World) store(kind ComponentKind, create bool) *SparseSet {
	if w.stores == nil {
		w.stores = make(map[component.ComponentID]*SparseSet)
	}
	s := w.stores[kind.ID()]
	if s == nil && create {
		s = &SparseSet{}
		w.stores[kind.ID()] = s
	}
	return s
}

// AddComponent stores value for e, replacing any previous value of the kind.
func (w *World) AddComponent(e Entity, kind ComponentKind, value any) error {
	if w == nil || !w.entities.isAlive(e) {
		return fmt.Errorf("add component to %s: %w", e, component.ErrEntityNotAlive)
	}
	if kind == nil || !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return fmt.Errorf("add %s to %s: %w", kind, e, component.ErrNilComponent)
	}
	w.store(kind, true).Set(e.id(), value)
	return nil
}

// RemoveComponent deletes the component of the given kind from e.
func (w *World) RemoveComponent(e Entity, kind ComponentKind) bool {
	if w == nil || kind == nil || !w.entities.isAlive(e) {
		return false
	}
	return w.store(kind, false).Remove(e.id())
}

// HasComponent reports whether e carries a component of the kind.
func (w *World) HasComponent(e Entity, kind ComponentKind) bool {
	if w == nil || kind == nil || !w.entities.isAlive(e) {
		return false
	}
	return w.store(kind, false).Has(e.id())
}

// GetComponent returns the raw component value of the kind for e.
func (w *World) GetComponent(e Entity, kind ComponentKind) (any, bool) {
	if !w.HasComponent(e, kind) {
		return nil, false
	}
	return w.store(kind, false).Get(e.id()), true
}

// Query returns the live entities that carry every kind, in slot order.
func (w *World) Query(kinds ...ComponentKind) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	sets := make([]*SparseSet, 0, len(kinds))
	for _, k := range kinds {
		s := w.store(k, false)
		if s.Len() == 0 {
			return nil
		}
		sets = append(sets, s)
	}
	// iterate smallest set
	sort.Slice(sets, func(i, j int) bool { return sets[i].Len() < sets[j].Len() })

	ids := make([]entityID, 0, sets[0].Len())
outer:
	for _, id := range sets[0].denseEntities {
		for _, s := range sets[1:] {
			if !s.Has(id) {
				continue outer
			}
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]Entity, 0, len(ids))
	for _, id := range ids {
		if e, ok := w.entities.current(id); ok {
			out = append(out, e)
		}
	}
	return out
}

// First returns the lowest-slot entity carrying the kind.
func (w *World) First(kind ComponentKind) (Entity, bool) {
	ents := w.Query(kind)
	if len(ents) == 0 {
		return 0, false
	}
	return ents[0], true
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}
