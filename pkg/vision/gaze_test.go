package vision

import (
	"testing"
	"time"
)

func TestGazeTrackerGraceBoundary(t *testing.T) {
	cal := DefaultCalibration() // 4s grace
	g := NewGazeTracker(cal)
	start := time.Unix(1000, 0)
	away := HeadPose{Yaw: 40}

	if g.Observe(away, start) {
		t.Fatal("first deviating frame must not alert")
	}
	if g.Observe(away, start.Add(4*time.Second)) {
		t.Fatal("deviation exactly at the grace boundary must not alert")
	}
	if !g.Observe(away, start.Add(4*time.Second+time.Millisecond)) {
		t.Fatal("deviation past the grace boundary must alert")
	}
	if !g.Observe(away, start.Add(10*time.Second)) {
		t.Fatal("alert must persist on every later frame while still deviating")
	}
}

func TestGazeTrackerResetRestartsTimer(t *testing.T) {
	g := NewGazeTracker(DefaultCalibration())
	start := time.Unix(1000, 0)
	away := HeadPose{Yaw: 40}
	center := HeadPose{}

	g.Observe(away, start)
	g.Observe(away, start.Add(3*time.Second))
	if g.Observe(center, start.Add(3500*time.Millisecond)) {
		t.Fatal("centered frame must not alert")
	}
	if g.Deviating() {
		t.Fatal("return to center must clear the deviating state")
	}

	// A new deviation counts from zero, not from the earlier episode.
	second := start.Add(4 * time.Second)
	g.Observe(away, second)
	if g.Observe(away, second.Add(3*time.Second)) {
		t.Fatal("second deviation must not inherit the first episode's timer")
	}
	if !g.Observe(away, second.Add(5*time.Second)) {
		t.Fatal("sustained second deviation must alert on its own timer")
	}
}

func TestGazeTrackerPitchDeviation(t *testing.T) {
	g := NewGazeTracker(DefaultCalibration()) // 25 degree pitch threshold
	start := time.Unix(1000, 0)

	tests := []struct {
		name string
		pose HeadPose
		away bool
	}{
		{"looking down past threshold", HeadPose{Pitch: 30}, true},
		{"looking up past threshold", HeadPose{Pitch: -30}, true},
		{"slight downward glance", HeadPose{Pitch: 20}, false},
		{"yaw under threshold", HeadPose{Yaw: 30}, false},
		{"negative yaw past threshold", HeadPose{Yaw: -40}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g.Observe(HeadPose{}, start) // reset to centered
			g.Observe(tt.pose, start)
			if g.Deviating() != tt.away {
				t.Errorf("deviating = %v, want %v", g.Deviating(), tt.away)
			}
		})
	}
}

func TestGazeTrackerFrameSequence(t *testing.T) {
	// 40 degree yaw held for 5 seconds at 2 fps with a 4 second grace window:
	// no alert through the 4.0s frame, alert on every frame after.
	g := NewGazeTracker(DefaultCalibration())
	start := time.Unix(1000, 0)
	away := HeadPose{Yaw: 40}

	for ms := 0; ms <= 5000; ms += 500 {
		alerted := g.Observe(away, start.Add(time.Duration(ms)*time.Millisecond))
		wantAlert := ms > 4000
		if alerted != wantAlert {
			t.Errorf("at %dms: alert = %v, want %v", ms, alerted, wantAlert)
		}
	}
}
