package vision

import (
	"math"
	"time"
)

// GazeTracker is the sustained-deviation detector. Brief glances away are
// normal during an exam; only a deviation held past the grace window counts.
// Timestamps are passed in by the caller so the hysteresis is testable.
type GazeTracker struct {
	yawThreshold   float64
	pitchThreshold float64
	grace          time.Duration

	deviating      bool
	deviationStart time.Time
}

func NewGazeTracker(cal Calibration) *GazeTracker {
	return &GazeTracker{
		yawThreshold:   cal.YawThresholdDeg,
		pitchThreshold: cal.PitchThresholdDeg,
		grace:          time.Duration(cal.GazeGraceSeconds * float64(time.Second)),
	}
}

// Observe feeds one frame's head pose and reports whether the deviation has
// been sustained past the grace window. Returning to center fully resets the
// timer; a later deviation counts from zero again.
func (g *GazeTracker) Observe(pose HeadPose, now time.Time) bool {
	deviating := math.Abs(pose.Yaw) > g.yawThreshold || math.Abs(pose.Pitch) > g.pitchThreshold

	if !deviating {
		g.deviating = false
		g.deviationStart = time.Time{}
		return false
	}

	if !g.deviating {
		g.deviating = true
		g.deviationStart = now
		return false
	}

	return now.Sub(g.deviationStart) > g.grace
}

// Deviating reports whether the subject was off-center as of the last
// observation.
func (g *GazeTracker) Deviating() bool {
	return g.deviating
}
