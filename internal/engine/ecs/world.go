package ecs

import (
	"reflect"

	"github.com/Faultbox/midgard-vcam/pkg/math"
)

// maxHierarchyDepth bounds parent-chain walks so a cycle cannot hang a frame.
const maxHierarchyDepth = 64

type entityRemover interface {
	removeEntity(e Entity)
}

// World owns entities, their component stores and the event queue.
type World struct {
	entities entityStore
	stores   map[reflect.Type]entityRemover
	events   EventQueue

	transforms *Store[math.Transform]
	parents    *Store[Entity]
}

// NewWorld creates an empty world.
func NewWorld() *World {
	w := &World{stores: make(map[reflect.Type]entityRemover)}
	w.transforms = GetStore[math.Transform](w)
	// Parent links get a private key so GetStore[Entity] stays free for hosts.
	w.parents = NewStore[Entity]()
	w.stores[reflect.TypeOf(parentLink{})] = w.parents
	return w
}

type parentLink struct{}

// GetStore returns the world's store for T, creating it on first use.
func GetStore[T any](w *World) *Store[T] {
	key := reflect.TypeOf((*T)(nil)).Elem()
	if s, ok := w.stores[key]; ok {
		return s.(*Store[T])
	}
	s := NewStore[T]()
	w.stores[key] = s
	return s
}

// Spawn allocates a new entity.
func (w *World) Spawn() Entity {
	return w.entities.create()
}

// Despawn removes e and all of its components. Handles to e become stale.
func (w *World) Despawn(e Entity) bool {
	if !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.removeEntity(e)
	}
	return w.entities.destroy(e)
}

// Alive reports whether the handle still refers to a live entity.
func (w *World) Alive(e Entity) bool {
	return w.entities.isAlive(e)
}

// Count returns the number of live entities.
func (w *World) Count() int {
	return w.entities.count()
}

// Transforms returns the local transform store.
func (w *World) Transforms() *Store[math.Transform] {
	return w.transforms
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	return &w.events
}

// SetParent attaches child under p. A null p detaches the child.
func (w *World) SetParent(child, p Entity) {
	if !p.Valid() {
		w.parents.Remove(child)
		return
	}
	w.parents.Set(child, p)
}

// Parent returns child's parent handle, if any.
func (w *World) Parent(child Entity) (Entity, bool) {
	return w.parents.Get(child)
}

// GlobalTransform resolves e's world-space transform by composing its parent
// chain. ok is false when e, or any ancestor, is gone or has no transform.
func (w *World) GlobalTransform(e Entity) (math.Transform, bool) {
	if !w.Alive(e) {
		return math.Transform{}, false
	}
	global, ok := w.transforms.Get(e)
	if !ok {
		return math.Transform{}, false
	}
	cur := e
	for depth := 0; depth < maxHierarchyDepth; depth++ {
		p, hasParent := w.parents.Get(cur)
		if !hasParent {
			return global, true
		}
		if !w.Alive(p) {
			return math.Transform{}, false
		}
		pt, ok := w.transforms.Get(p)
		if !ok {
			return math.Transform{}, false
		}
		global = pt.Compose(global)
		cur = p
	}
	return math.Transform{}, false
}

// GlobalTranslation is GlobalTransform reduced to the position.
func (w *World) GlobalTranslation(e Entity) (math.Vec3, bool) {
	t, ok := w.GlobalTransform(e)
	return t.Translation, ok
}
