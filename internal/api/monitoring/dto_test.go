package monitoring

import (
	"testing"

	jsoniter "github.com/json-iterator/go"
)

func TestTimelinePointMarshalsAsPair(t *testing.T) {
	p := TimelinePoint{Timestamp: 1700000000.5, Level: -1}

	raw, err := jsoniter.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(raw) != "[1700000000.5,-1]" {
		t.Errorf("marshalled = %s, want [1700000000.5,-1]", raw)
	}

	var back TimelinePoint
	if err := jsoniter.Unmarshal(raw, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back != p {
		t.Errorf("round trip = %+v, want %+v", back, p)
	}
}

func TestTimelinePointRejectsFractionalLevel(t *testing.T) {
	var p TimelinePoint
	if err := p.UnmarshalJSON([]byte("[1700000000,0.5]")); err == nil {
		t.Error("fractional level accepted")
	}
}

func TestSnapshotPayloadWireShape(t *testing.T) {
	alert := "No face detected - ensure camera is on and pointing at you"
	frame := "data:image/jpeg;base64,/9j/4AAQ"

	payload := SnapshotPayload{
		Status:     StatusProctorAlert,
		Color:      ColorAlert,
		Alert:      &alert,
		Timeline:   []TimelinePoint{{Timestamp: 1700000000, Level: 0}, {Timestamp: 1700000001, Level: 1}},
		VideoFrame: &frame,
		Timestamp:  1700000002,
	}

	raw, err := jsoniter.Marshal(payload)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded map[string]interface{}
	if err := jsoniter.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	for _, key := range []string{"status", "color", "alert", "timeline", "video_frame", "timestamp"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("payload missing %q key", key)
		}
	}

	timeline, ok := decoded["timeline"].([]interface{})
	if !ok || len(timeline) != 2 {
		t.Fatalf("timeline = %v", decoded["timeline"])
	}
	pair, ok := timeline[1].([]interface{})
	if !ok || len(pair) != 2 {
		t.Fatalf("timeline entry is not a pair: %v", timeline[1])
	}
	if pair[0].(float64) != 1700000001 || pair[1].(float64) != 1 {
		t.Errorf("timeline pair = %v", pair)
	}
}

func TestSnapshotPayloadNullFields(t *testing.T) {
	payload := SnapshotPayload{
		Status:    "Focused/Neutral",
		Color:     ColorFocused,
		Timeline:  []TimelinePoint{},
		Timestamp: 1700000000,
	}

	raw, err := jsoniter.Marshal(payload)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded map[string]interface{}
	if err := jsoniter.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	// Cleared alert and missing frame still appear as explicit nulls.
	if v, ok := decoded["alert"]; !ok || v != nil {
		t.Errorf("alert = %v, want null", v)
	}
	if v, ok := decoded["video_frame"]; !ok || v != nil {
		t.Errorf("video_frame = %v, want null", v)
	}
}
