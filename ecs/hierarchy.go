package ecs

import (
	"errors"
	"fmt"

	"github.com/milk9111/spriteanimator/ecs/component"
)

var ErrHierarchyCycle = errors.New("ecs: parent would create a cycle")

var parentComponent = component.NewComponent[Entity]()

// SetParent attaches child under parent. Passing the zero Entity detaches.
func SetParent(w *World, child, parent Entity) error {
	if !w.IsAlive(child) {
		return fmt.Errorf("set parent of %s: %w", child, component.ErrEntityNotAlive)
	}
	if parent == 0 {
		w.RemoveComponent(child, parentComponent.Kind())
		return nil
	}
	if !w.IsAlive(parent) {
		return fmt.Errorf("set parent %s: %w", parent, component.ErrEntityNotAlive)
	}
	for p := parent; p != 0; p, _ = Parent(w, p) {
		if p == child {
			return fmt.Errorf("set parent of %s to %s: %w", child, parent, ErrHierarchyCycle)
		}
	}
	return Add(w, child, parentComponent, parent)
}

// Parent returns the live parent of e.
func Parent(w *World, e Entity) (Entity, bool) {
	p, ok := Get(w, e, parentComponent)
	if !ok || !w.IsAlive(p) {
		return 0, false
	}
	return p, true
}

// Children returns the direct children of e in slot order.
func Children(w *World, e Entity) []Entity {
	var out []Entity
	for _, c := range w.Query(parentComponent.Kind()) {
		if p, ok := Parent(w, c); ok && p == e {
			out = append(out, c)
		}
	}
	return out
}

// Descendants returns every entity below e, depth first, children in slot
// order. e itself is not included.
func Descendants(w *World, e Entity) []Entity {
	var out []Entity
	var walk func(Entity)
	walk = func(n Entity) {
		for _, c := range Children(w, n) {
			out = append(out, c)
			walk(c)
		}
	}
	walk(e)
	return out
}

// ActiveInHierarchy reports whether neither e nor any ancestor carries the
// Inactive tag.
func ActiveInHierarchy(w *World, e Entity) bool {
	if !w.IsAlive(e) {
		return false
	}
	for n := e; n != 0; n, _ = Parent(w, n) {
		if Has(w, n, component.InactiveComponent) {
			return false
		}
	}
	return true
}
