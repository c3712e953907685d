package blindbench

import "time"

// phaseTimer times the named phases of one mode execution. time.Now carries
// a monotonic clock reading, so wall-clock adjustments cannot skew phase
// attribution.
type phaseTimer struct {
	start time.Time
}

func startPhase() phaseTimer {
	return phaseTimer{start: time.Now()}
}

// stop returns the elapsed phase time in milliseconds with microsecond
// precision.
func (t phaseTimer) stop() float64 {
	return float64(time.Since(t.start).Microseconds()) / 1000.0
}
