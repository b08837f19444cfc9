package component

import (
	"errors"
	"fmt"
	"sync/atomic"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

// ComponentID is the store key of a component type. Zero is never handed out.
type ComponentID uint32

var lastID atomic.Uint32

// ComponentKind ties a ComponentID to the Go type stored under it.
type ComponentKind[T any] struct {
	id   ComponentID
	name string
}

func (k ComponentKind[T]) ID() ComponentID { return k.id }

func (k ComponentKind[T]) Valid() bool { return k.id != 0 }

// String names the stored type, e.g. "*component.Transform".
func (k ComponentKind[T]) String() string {
	if !k.Valid() {
		return "<invalid kind>"
	}
	return k.name
}

// ComponentHandle is the typed entry point systems use to reach a store.
// Declare one package-level var per component type.
type ComponentHandle[T any] struct {
	kind ComponentKind[T]
}

func NewComponent[T any]() ComponentHandle[T] {
	var zero T
	return ComponentHandle[T]{kind: ComponentKind[T]{
		id:   ComponentID(lastID.Add(1)),
		name: fmt.Sprintf("%T", &zero)[1:],
	}}
}

func (h ComponentHandle[T]) Kind() ComponentKind[T] { return h.kind }

func (h ComponentHandle[T]) String() string { return h.kind.String() }
