// Package ecs is the minimal entity/component store the camera rig runs on:
// generation-checked handles, typed sparse-set storage, world-space transform
// resolution and an ordered list of per-frame systems.
package ecs

import (
	"fmt"
	"sort"
)

// Entity is a generation-checked handle. The zero value is the null handle.
type Entity struct {
	Index uint32
	Gen   uint32
}

// Valid reports whether e is a non-null handle. It says nothing about liveness.
func (e Entity) Valid() bool {
	return e.Index > 0
}

// Less orders handles by index, then generation.
func (e Entity) Less(other Entity) bool {
	if e.Index != other.Index {
		return e.Index < other.Index
	}
	return e.Gen < other.Gen
}

// SortEntities orders es in place by Less.
func SortEntities(es []Entity) {
	sort.Slice(es, func(i, j int) bool { return es[i].Less(es[j]) })
}

func (e Entity) String() string {
	if !e.Valid() {
		return "entity(none)"
	}
	return fmt.Sprintf("entity(%dv%d)", e.Index, e.Gen)
}

// entityStore tracks entity generations and free indices.
type entityStore struct {
	gen  []uint32
	free []uint32
}

func (s *entityStore) create() Entity {
	var idx uint32
	if n := len(s.free); n > 0 {
		idx = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.gen = append(s.gen, 0)
		idx = uint32(len(s.gen))
	}
	return Entity{Index: idx, Gen: s.gen[idx-1]}
}

func (s *entityStore) destroy(e Entity) bool {
	if !s.isAlive(e) {
		return false
	}
	s.gen[e.Index-1]++
	s.free = append(s.free, e.Index)
	return true
}

func (s *entityStore) isAlive(e Entity) bool {
	if e.Index == 0 || int(e.Index) > len(s.gen) {
		return false
	}
	return s.gen[e.Index-1] == e.Gen
}

func (s *entityStore) count() int {
	return len(s.gen) - len(s.free)
}
