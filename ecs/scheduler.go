package ecs

// System mutates the world once per tick.
type System interface {
	Update(w *World)
}

// Stage is a named slot in the tick pipeline.
type Stage struct {
	Name   string
	System System
}

// Scheduler runs its stages in a fixed order. Later stages observe the writes
// of earlier ones within the same tick.
type Scheduler struct {
	stages []Stage
}

func NewScheduler(stages ...Stage) *Scheduler {
	s := &Scheduler{}
	for _, st := range stages {
		s.Add(st.Name, st.System)
	}
	return s
}

// Add appends a stage. Nil systems are ignored.
func (s *Scheduler) Add(name string, system System) {
	if system == nil {
		return
	}
	s.stages = append(s.stages, Stage{Name: name, System: system})
}

func (s *Scheduler) Update(w *World) {
	for _, st := range s.stages {
		st.System.Update(w)
	}
}

// Names lists the stages in run order.
func (s *Scheduler) Names() []string {
	names := make([]string, 0, len(s.stages))
	for _, st := range s.stages {
		names = append(names, st.Name)
	}
	return names
}
