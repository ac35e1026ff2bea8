// Package servo closes the loop between the camera and the drive: turning
// and strafing to centre a target, and approaching it to a set range.
//
// Every command here treats a frame with no usable target as "not yet
// finished". The tick is skipped, the drive keeps its last command, and a
// monitoring event is emitted; after DefaultLostThreshold consecutive
// misses (or LostAfter, when set) an EventTargetLost escalation follows.
package servo

import (
	"github.com/san-kum/autodrive/internal/monitoring"
	"github.com/san-kum/autodrive/internal/vision"
)

// DefaultLostThreshold is one second of misses at 50 Hz.
const DefaultLostThreshold = 50

// Centre is the normalized x of the frame centre.
const Centre = 0.5

// sample is the target x seen during the most recent Execute.
type sample struct {
	x    float64
	seen bool
}

func readX(src vision.Source, width float64) sample {
	x, ok := vision.NormalizedTargetX(src.Frame(), width)
	return sample{x: x, seen: ok}
}

func newTracker(source string, threshold int, sink monitoring.Sink) *monitoring.MissTracker {
	if threshold <= 0 {
		threshold = DefaultLostThreshold
	}
	return monitoring.NewMissTracker(source, threshold, sink)
}
