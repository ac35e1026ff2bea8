package monitoring

import (
	"fmt"
	"sync"
)

type EventKind int

const (
	// EventNoTarget fires on every tick a vision command sees no usable target.
	EventNoTarget EventKind = iota + 1
	// EventTargetLost fires once when the miss streak reaches the threshold.
	EventTargetLost
	// EventTargetReacquired fires on the first hit after EventTargetLost.
	EventTargetReacquired
	// EventSensorUnavailable fires when the heading sensor has no reading.
	EventSensorUnavailable
)

func (k EventKind) String() string {
	switch k {
	case EventNoTarget:
		return "no_target"
	case EventTargetLost:
		return "target_lost"
	case EventTargetReacquired:
		return "target_reacquired"
	case EventSensorUnavailable:
		return "sensor_unavailable"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is a best-effort diagnostic emitted by the command layer.
type Event struct {
	Source string
	Kind   EventKind
	Streak int
}

func (e Event) String() string {
	return fmt.Sprintf("%s: %s (streak=%d)", e.Source, e.Kind, e.Streak)
}

// Sink receives diagnostic events. Implementations must not block.
type Sink interface {
	Emit(e Event)
}

type SinkFunc func(e Event)

func (f SinkFunc) Emit(e Event) { f(e) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// Emit sends e to s, tolerating a nil sink.
func Emit(s Sink, e Event) {
	if s == nil {
		return
	}
	s.Emit(e)
}

// Tee fans each event out to every non-nil sink in order.
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(e Event) {
		for _, s := range sinks {
			Emit(s, e)
		}
	})
}

// LogSink writes escalations through Logf. Per-tick EventNoTarget events are
// only logged when Verbose is set since they arrive at the tick rate.
type LogSink struct {
	Verbose bool
}

func (l LogSink) Emit(e Event) {
	if e.Kind == EventNoTarget && !l.Verbose {
		return
	}
	Logf("%s", e)
}

// Recorder keeps every event it sees. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{events: make([]Event, 0)}
}

func (r *Recorder) Emit(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Count returns how many events of the given kind were recorded.
func (r *Recorder) Count(kind EventKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = r.events[:0]
	r.mu.Unlock()
}

// MissTracker turns per-tick hit/miss observations into events. A miss
// always emits EventNoTarget; the miss that brings the streak to Threshold
// additionally emits EventTargetLost.
type MissTracker struct {
	Source    string
	Threshold int
	Sink      Sink

	streak int
	lost   bool
}

func NewMissTracker(source string, threshold int, sink Sink) *MissTracker {
	return &MissTracker{Source: source, Threshold: threshold, Sink: sink}
}

func (m *MissTracker) Miss() {
	m.streak++
	Emit(m.Sink, Event{Source: m.Source, Kind: EventNoTarget, Streak: m.streak})
	if m.Threshold > 0 && m.streak == m.Threshold {
		m.lost = true
		Emit(m.Sink, Event{Source: m.Source, Kind: EventTargetLost, Streak: m.streak})
	}
}

func (m *MissTracker) Hit() {
	if m.lost {
		Emit(m.Sink, Event{Source: m.Source, Kind: EventTargetReacquired, Streak: m.streak})
	}
	m.streak = 0
	m.lost = false
}

func (m *MissTracker) Streak() int { return m.streak }

func (m *MissTracker) Lost() bool { return m.lost }

func (m *MissTracker) Reset() {
	m.streak = 0
	m.lost = false
}
