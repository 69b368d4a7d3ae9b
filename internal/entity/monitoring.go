package entity

import "time"

type MonitoringSession struct {
	ID              string     `json:"id"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	FramesProcessed int64      `json:"frames_processed"`
	AlertsRaised    int64      `json:"alerts_raised"`
	ConfusionRatio  float64    `json:"confusion_ratio"`
	LastStatus      string     `json:"last_status"`
}

type ProctorAlert struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	FrameURL  string    `json:"frame_url,omitempty"`
	Review    string    `json:"review,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
