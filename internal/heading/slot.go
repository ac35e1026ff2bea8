// Package heading holds the gyro-only rotation commands: turning by a
// relative angle and checkpointing a heading for later recall.
package heading

import "sync"

// Slot is a heading checkpoint shared by a StoreHeading and the
// RecallHeading that follows it. The sequence owning both commands owns the
// slot; Recall must run after Store has completed.
type Slot struct {
	mu      sync.Mutex
	heading float64
	ok      bool
}

func NewSlot() *Slot {
	return &Slot{}
}

func (s *Slot) Set(heading float64) {
	s.mu.Lock()
	s.heading = heading
	s.ok = true
	s.mu.Unlock()
}

// Get returns the stored heading and whether one has been written.
func (s *Slot) Get() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.heading, s.ok
}

func (s *Slot) Clear() {
	s.mu.Lock()
	s.heading = 0
	s.ok = false
	s.mu.Unlock()
}

// Slots names the checkpoints of one routine.
type Slots map[string]*Slot

// Get returns the slot for name, creating it on first use.
func (s Slots) Get(name string) *Slot {
	slot, ok := s[name]
	if !ok {
		slot = NewSlot()
		s[name] = slot
	}
	return slot
}
