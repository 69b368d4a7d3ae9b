package monitoring

import (
	"errors"
	"strconv"

	"SmartSession/internal/entity"

	jsoniter "github.com/json-iterator/go"
)

// Dashboard colors for the broadcast payload.
const (
	ColorFocused  = "green"
	ColorConfused = "yellow"
	ColorAlert    = "red"
)

// StatusProctorAlert is the broadcast status for every integrity violation.
const StatusProctorAlert = "Proctor Alert"

// Alert kinds persisted on the audit trail.
const (
	AlertKindDecodeFailed         = "DECODE_FAILED"
	AlertKindNoFace               = "NO_FACE"
	AlertKindMultipleFaces        = "MULTIPLE_FACES"
	AlertKindLandmarksUnavailable = "LANDMARKS_UNAVAILABLE"
	AlertKindGazeDeviation        = "SUSTAINED_GAZE_DEVIATION"
)

// TimelinePoint marshals as a [timestamp, level] pair to match the dashboard
// chart's wire format.
type TimelinePoint struct {
	Timestamp float64
	Level     int
}

func (p TimelinePoint) MarshalJSON() ([]byte, error) {
	b := make([]byte, 0, 24)
	b = append(b, '[')
	b = strconv.AppendFloat(b, p.Timestamp, 'f', -1, 64)
	b = append(b, ',')
	b = strconv.AppendInt(b, int64(p.Level), 10)
	b = append(b, ']')
	return b, nil
}

func (p *TimelinePoint) UnmarshalJSON(data []byte) error {
	var raw [2]float64
	if err := jsoniter.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Timestamp = raw[0]
	p.Level = int(raw[1])
	if float64(p.Level) != raw[1] {
		return errors.New("timeline level must be an integer")
	}
	return nil
}

// SnapshotPayload is the message pushed to every observer on publish and on
// subscribe. VideoFrame carries the raw data-URL back out for the live
// preview.
type SnapshotPayload struct {
	Status     string          `json:"status"`
	Color      string          `json:"color"`
	Alert      *string         `json:"alert"`
	Timeline   []TimelinePoint `json:"timeline"`
	VideoFrame *string         `json:"video_frame"`
	Timestamp  float64         `json:"timestamp"`
}

type ListSessionsQuery struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

type SessionReportResponse struct {
	Session entity.MonitoringSession `json:"session"`
	Alerts  []AlertDetail            `json:"alerts"`
}

type AlertDetail struct {
	ID          string  `json:"id"`
	Kind        string  `json:"kind"`
	Message     string  `json:"message"`
	Review      string  `json:"review,omitempty"`
	EvidenceURL *string `json:"evidence_url"`
	CreatedAt   float64 `json:"created_at"`
}

type SessionListResponse struct {
	Sessions []entity.MonitoringSession `json:"sessions"`
}
