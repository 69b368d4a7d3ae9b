package utils

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"strings"
	"testing"
	"time"
)

func jpegDataURL(t *testing.T) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 180, B: 160, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("jpeg encode: %v", err)
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestDecodeDataURL(t *testing.T) {
	u := New()

	raw, err := u.DecodeDataURL(jpegDataURL(t))
	if err != nil {
		t.Fatalf("DecodeDataURL: %v", err)
	}
	if len(raw) == 0 {
		t.Fatal("decoded frame is empty")
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decoded bytes are not an image: %v", err)
	}
	if format != "jpeg" || cfg.Width != 8 {
		t.Errorf("format=%s width=%d", format, cfg.Width)
	}
}

func TestDecodeDataURLBarePayload(t *testing.T) {
	u := New()

	full := jpegDataURL(t)
	bare := full[strings.Index(full, ",")+1:]

	if _, err := u.DecodeDataURL(bare); err != nil {
		t.Errorf("bare base64 rejected: %v", err)
	}
}

func TestDecodeDataURLRejects(t *testing.T) {
	u := New()

	testCases := []struct {
		name  string
		input string
	}{
		{"empty string", ""},
		{"missing comma", "data:image/jpeg;base64"},
		{"not base64 encoding", "data:image/jpeg,rawbytes"},
		{"not an image mime", "data:text/plain;base64,aGVsbG8="},
		{"invalid base64", "data:image/jpeg;base64,!!!not-base64!!!"},
		{"base64 but not an image", "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("hello world"))},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := u.DecodeDataURL(tt.input); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestNewULIDFromTimestamp(t *testing.T) {
	u := New()

	id, err := u.NewULIDFromTimestamp(time.Now())
	if err != nil {
		t.Fatalf("NewULIDFromTimestamp: %v", err)
	}
	if len(id) != 26 {
		t.Errorf("ulid length = %d, want 26", len(id))
	}

	other, err := u.NewULIDFromTimestamp(time.Now())
	if err != nil {
		t.Fatalf("NewULIDFromTimestamp: %v", err)
	}
	if id == other {
		t.Error("consecutive ulids collided")
	}
}
