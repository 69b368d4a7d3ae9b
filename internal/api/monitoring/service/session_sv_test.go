package monitoringService

import (
	"SmartSession/internal/api/monitoring"
	"SmartSession/pkg/vision"
	"testing"
	"time"
)

func levelVerdict(level int) frameVerdict {
	return frameVerdict{
		status:   "Focused/Neutral",
		color:    monitoring.ColorFocused,
		hasLevel: true,
		level:    level,
	}
}

func TestSessionStoreTimelineCapacity(t *testing.T) {
	store := newSessionStore(5)
	base := time.Unix(1700000000, 0)

	for i := 0; i < 12; i++ {
		store.ApplyVerdict(levelVerdict(i), nil, base.Add(time.Duration(i)*time.Second))
	}

	snap := store.Snapshot(base.Add(12 * time.Second))
	if len(snap.Timeline) != 5 {
		t.Fatalf("timeline length = %d, want 5", len(snap.Timeline))
	}

	// Oldest entries evicted first; the newest five survive in order.
	for i, p := range snap.Timeline {
		want := 7 + i
		if p.Level != want {
			t.Errorf("timeline[%d].Level = %d, want %d", i, p.Level, want)
		}
	}
}

func TestSessionStoreTimelineOrder(t *testing.T) {
	store := newSessionStore(10)
	base := time.Unix(1700000000, 0)

	for i := 0; i < 3; i++ {
		store.ApplyVerdict(levelVerdict(i), nil, base.Add(time.Duration(i)*time.Second))
	}

	snap := store.Snapshot(base)
	if len(snap.Timeline) != 3 {
		t.Fatalf("timeline length = %d, want 3", len(snap.Timeline))
	}
	for i := 1; i < len(snap.Timeline); i++ {
		if snap.Timeline[i].Timestamp < snap.Timeline[i-1].Timestamp {
			t.Errorf("timeline out of order at %d", i)
		}
	}
}

func TestSessionStoreAlertsSkipTimeline(t *testing.T) {
	store := newSessionStore(10)
	now := time.Unix(1700000000, 0)

	store.ApplyVerdict(levelVerdict(1), nil, now)
	store.ApplyVerdict(alertVerdict(monitoring.AlertKindNoFace, "No face detected - ensure camera is on and pointing at you"), nil, now.Add(time.Second))

	snap := store.Snapshot(now.Add(2 * time.Second))
	if len(snap.Timeline) != 1 {
		t.Fatalf("alert frame extended timeline: length = %d, want 1", len(snap.Timeline))
	}
	if snap.Status != monitoring.StatusProctorAlert {
		t.Errorf("Status = %q, want %q", snap.Status, monitoring.StatusProctorAlert)
	}
	if snap.Color != monitoring.ColorAlert {
		t.Errorf("Color = %q, want %q", snap.Color, monitoring.ColorAlert)
	}
	if snap.Alert == nil {
		t.Fatal("Alert = nil, want message")
	}
}

func TestSessionStoreAlertCleared(t *testing.T) {
	store := newSessionStore(10)
	now := time.Unix(1700000000, 0)

	store.ApplyVerdict(alertVerdict(monitoring.AlertKindNoFace, "No face detected - ensure camera is on and pointing at you"), nil, now)
	store.ApplyVerdict(levelVerdict(1), nil, now.Add(time.Second))

	snap := store.Snapshot(now.Add(2 * time.Second))
	if snap.Alert != nil {
		t.Errorf("Alert = %q, want nil after clean frame", *snap.Alert)
	}
}

func TestSessionStoreSnapshotIsolation(t *testing.T) {
	store := newSessionStore(10)
	now := time.Unix(1700000000, 0)

	store.ApplyVerdict(levelVerdict(1), nil, now)
	first := store.Snapshot(now)

	store.ApplyVerdict(levelVerdict(-1), nil, now.Add(time.Second))

	if len(first.Timeline) != 1 {
		t.Errorf("earlier snapshot mutated: length = %d, want 1", len(first.Timeline))
	}
	if first.Timeline[0].Level != 1 {
		t.Errorf("earlier snapshot level = %d, want 1", first.Timeline[0].Level)
	}
}

func TestEngagementVerdictMapping(t *testing.T) {
	testCases := []struct {
		name      string
		state     vision.EngagementState
		wantColor string
		wantLevel int
	}{
		{"focused is green", vision.EngagementFocused, monitoring.ColorFocused, 0},
		{"confused is yellow", vision.EngagementConfused, monitoring.ColorConfused, -1},
		{"happy is green", vision.EngagementHappy, monitoring.ColorFocused, 1},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			v := engagementVerdict(vision.Verdict{State: tt.state, Score: 0.5})
			if v.color != tt.wantColor {
				t.Errorf("color = %q, want %q", v.color, tt.wantColor)
			}
			if v.level != tt.wantLevel {
				t.Errorf("level = %d, want %d", v.level, tt.wantLevel)
			}
			if !v.hasLevel {
				t.Error("hasLevel = false")
			}
			if v.status != tt.state.String() {
				t.Errorf("status = %q, want %q", v.status, tt.state.String())
			}
		})
	}
}
