package command

import "github.com/san-kum/autodrive/internal/monitoring"

// Sequence runs its children one after another. Each run of the sequence
// gets fresh runners, so a child is never ticked outside its own lifecycle.
// A child that finishes hands over to the next child, whose Initialize runs
// in the same tick and whose first Execute runs on the next tick.
type Sequence struct {
	name     string
	children []Command
	runners  []*Runner
	idx      int
}

func NewSequence(name string, children ...Command) *Sequence {
	return &Sequence{name: name, children: children}
}

func (s *Sequence) Name() string { return s.name }

// Add appends a child. Only valid before the sequence starts.
func (s *Sequence) Add(c Command) {
	s.children = append(s.children, c)
}

func (s *Sequence) Len() int { return len(s.children) }

// Children returns the child commands in run order.
func (s *Sequence) Children() []Command {
	out := make([]Command, len(s.children))
	copy(out, s.children)
	return out
}

// Index is the position of the active child; Len once complete.
func (s *Sequence) Index() int { return s.idx }

// Current returns the active child, or nil when complete.
func (s *Sequence) Current() Command {
	if s.idx >= len(s.children) {
		return nil
	}
	return s.children[s.idx]
}

func (s *Sequence) Initialize() {
	s.runners = make([]*Runner, len(s.children))
	for i, c := range s.children {
		s.runners[i] = NewRunner(c)
	}
	s.idx = 0
	s.startCurrent()
}

func (s *Sequence) startCurrent() {
	if s.idx >= len(s.runners) {
		return
	}
	if err := s.runners[s.idx].Start(); err != nil {
		monitoring.Logf("sequence %s: %v", s.name, err)
	}
}

func (s *Sequence) Execute() {
	if s.idx >= len(s.runners) {
		return
	}
	done, err := s.runners[s.idx].Tick()
	if err != nil {
		monitoring.Logf("sequence %s: %v", s.name, err)
	}
	if done {
		s.idx++
		s.startCurrent()
	}
}

func (s *Sequence) IsFinished() bool {
	return s.idx >= len(s.children)
}

func (s *Sequence) End() {}

// Interrupted interrupts the active child only; children not yet reached
// stay Idle and never see a hook.
func (s *Sequence) Interrupted() {
	if s.idx >= len(s.runners) {
		return
	}
	r := s.runners[s.idx]
	if r.State() == StateRunning {
		if err := r.Cancel(); err != nil {
			monitoring.Logf("sequence %s: %v", s.name, err)
		}
	}
}

// ChildState reports the lifecycle state of child i in the current run.
func (s *Sequence) ChildState(i int) State {
	if i < 0 || i >= len(s.runners) {
		return StateIdle
	}
	return s.runners[i].State()
}
