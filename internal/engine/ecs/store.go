package ecs

// Store is a sparse-set container for one component type.
// Values are held by value; callers read with Get and write back with Set.
//
// Every Set or Remove bumps Version, which systems use as a change gate.
type Store[T any] struct {
	dense   []Entity
	values  []T
	sparse  []int32
	version uint64
}

// NewStore creates an empty store.
func NewStore[T any]() *Store[T] {
	return &Store[T]{}
}

func (s *Store[T]) slot(e Entity) (int, bool) {
	if e.Index == 0 || int(e.Index) > len(s.sparse) {
		return 0, false
	}
	i := s.sparse[e.Index-1]
	if i < 0 || int(i) >= len(s.dense) || s.dense[i] != e {
		return 0, false
	}
	return int(i), true
}

// Has reports whether e has a component in this store.
func (s *Store[T]) Has(e Entity) bool {
	_, ok := s.slot(e)
	return ok
}

// Get returns a copy of e's component.
func (s *Store[T]) Get(e Entity) (T, bool) {
	i, ok := s.slot(e)
	if !ok {
		var zero T
		return zero, false
	}
	return s.values[i], true
}

// Set inserts or replaces e's component.
func (s *Store[T]) Set(e Entity, v T) {
	if !e.Valid() {
		return
	}
	s.version++
	if i, ok := s.slot(e); ok {
		s.values[i] = v
		return
	}
	for int(e.Index) > len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
	// A stale generation may still occupy the slot.
	if old := s.sparse[e.Index-1]; old >= 0 && int(old) < len(s.dense) && s.dense[old].Index == e.Index {
		s.dense[old] = e
		s.values[old] = v
		return
	}
	s.dense = append(s.dense, e)
	s.values = append(s.values, v)
	s.sparse[e.Index-1] = int32(len(s.dense) - 1)
}

// Update applies fn to e's component in place. It returns false when e has none.
func (s *Store[T]) Update(e Entity, fn func(*T)) bool {
	i, ok := s.slot(e)
	if !ok {
		return false
	}
	s.version++
	fn(&s.values[i])
	return true
}

// Remove deletes e's component if present.
func (s *Store[T]) Remove(e Entity) bool {
	i, ok := s.slot(e)
	if !ok {
		return false
	}
	s.version++
	last := len(s.dense) - 1
	moved := s.dense[last]
	s.dense[i] = moved
	s.values[i] = s.values[last]
	s.sparse[moved.Index-1] = int32(i)

	var zero T
	s.values[last] = zero
	s.dense = s.dense[:last]
	s.values = s.values[:last]
	s.sparse[e.Index-1] = -1
	return true
}

// Entities returns a snapshot of the entities in this store, safe to hold
// while the store is mutated.
func (s *Store[T]) Entities() []Entity {
	out := make([]Entity, len(s.dense))
	copy(out, s.dense)
	return out
}

// Sorted is Entities ordered by handle. Systems iterate in this order so a
// frame's results never depend on insertion or removal history.
func (s *Store[T]) Sorted() []Entity {
	out := s.Entities()
	SortEntities(out)
	return out
}

// Len returns the number of components held.
func (s *Store[T]) Len() int {
	return len(s.dense)
}

// Version increases on every mutation.
func (s *Store[T]) Version() uint64 {
	return s.version
}

func (s *Store[T]) removeEntity(e Entity) {
	s.Remove(e)
}
