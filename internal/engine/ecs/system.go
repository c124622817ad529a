package ecs

// System runs once per frame over the world.
type System interface {
	Update(w *World, dt float32)
}

// SystemFunc adapts a function to System.
type SystemFunc func(w *World, dt float32)

// Update calls f.
func (f SystemFunc) Update(w *World, dt float32) {
	f(w, dt)
}

type phase struct {
	name    string
	systems []System
}

// Schedule is an explicit, ordered list of named phases. Each phase's
// systems run in insertion order and every phase observes the writes of
// the phases before it.
type Schedule struct {
	phases []phase
}

// AddPhase appends a named phase. Adding to an existing name appends its systems.
func (s *Schedule) AddPhase(name string, systems ...System) {
	for i := range s.phases {
		if s.phases[i].name == name {
			s.phases[i].systems = append(s.phases[i].systems, systems...)
			return
		}
	}
	s.phases = append(s.phases, phase{name: name, systems: systems})
}

// Phases returns the phase names in run order.
func (s *Schedule) Phases() []string {
	names := make([]string, len(s.phases))
	for i, p := range s.phases {
		names[i] = p.name
	}
	return names
}

// Run executes every phase once.
func (s *Schedule) Run(w *World, dt float32) {
	for _, p := range s.phases {
		for _, sys := range p.systems {
			if sys != nil {
				sys.Update(w, dt)
			}
		}
	}
}
