package monitoringService

import (
	"SmartSession/internal/api/monitoring"
	"SmartSession/pkg/vision"
	"sync"
	"time"
)

// frameVerdict is the outcome of one processed frame, either an engagement
// read or a proctor alert.
type frameVerdict struct {
	status   string
	color    string
	alert    string // empty when the frame is a clean engagement read
	kind     string // audit-trail alert kind, empty otherwise
	hasLevel bool
	level    int
	score    float64
}

func engagementVerdict(v vision.Verdict) frameVerdict {
	color := monitoring.ColorFocused
	if v.State == vision.EngagementConfused {
		color = monitoring.ColorConfused
	}

	return frameVerdict{
		status:   v.State.String(),
		color:    color,
		hasLevel: true,
		level:    v.State.Level(),
		score:    v.Score,
	}
}

func alertVerdict(kind string, message string) frameVerdict {
	return frameVerdict{
		status: monitoring.StatusProctorAlert,
		color:  monitoring.ColorAlert,
		alert:  message,
		kind:   kind,
	}
}

// sessionStore is the single source of truth for one subject's live state:
// current status, the bounded engagement timeline, and the last frame
// reference. The timeline is a fixed-capacity ring; eviction is oldest-first
// and nothing can grow it past capacity.
type sessionStore struct {
	mu sync.Mutex

	status     string
	color      string
	alert      *string
	videoFrame *string
	lastScore  float64

	timeline []monitoring.TimelinePoint
	head     int
	count    int
}

func newSessionStore(capacity int) *sessionStore {
	return &sessionStore{
		status:   vision.EngagementFocused.String(),
		color:    monitoring.ColorFocused,
		timeline: make([]monitoring.TimelinePoint, capacity),
	}
}

// ApplyVerdict atomically folds one frame's outcome into the store. Only
// engagement verdicts carry a level and extend the timeline; alert frames
// update status and frame but leave the chart untouched.
func (s *sessionStore) ApplyVerdict(v frameVerdict, frameRef *string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = v.status
	s.color = v.color
	if v.alert != "" {
		alert := v.alert
		s.alert = &alert
	} else {
		s.alert = nil
	}
	s.videoFrame = frameRef

	if v.hasLevel {
		s.lastScore = v.score
		s.push(monitoring.TimelinePoint{Timestamp: unixSeconds(at), Level: v.level})
	}
}

func (s *sessionStore) push(p monitoring.TimelinePoint) {
	capacity := len(s.timeline)
	if capacity == 0 {
		return
	}

	s.timeline[(s.head+s.count)%capacity] = p
	if s.count == capacity {
		s.head = (s.head + 1) % capacity
	} else {
		s.count++
	}
}

// Snapshot returns an immutable copy of the current state for a broadcast
// payload or a newly attached observer.
func (s *sessionStore) Snapshot(at time.Time) monitoring.SnapshotPayload {
	s.mu.Lock()
	defer s.mu.Unlock()

	timeline := make([]monitoring.TimelinePoint, s.count)
	for i := 0; i < s.count; i++ {
		timeline[i] = s.timeline[(s.head+i)%len(s.timeline)]
	}

	var alert *string
	if s.alert != nil {
		a := *s.alert
		alert = &a
	}
	var frame *string
	if s.videoFrame != nil {
		f := *s.videoFrame
		frame = &f
	}

	return monitoring.SnapshotPayload{
		Status:     s.status,
		Color:      s.color,
		Alert:      alert,
		Timeline:   timeline,
		VideoFrame: frame,
		Timestamp:  unixSeconds(at),
	}
}

func (s *sessionStore) LastScore() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastScore
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
