package utils

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	DecodeDataURL(dataURL string) ([]byte, error)
}

type utils struct {
	maxFrameSize int
}

func New() IUtils {
	return &utils{
		maxFrameSize: 5 * 1024 * 1024,
	}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

// DecodeDataURL turns a browser "data:image/...;base64,..." frame into raw
// image bytes. Bare base64 without the prefix is accepted too. The decoded
// bytes must parse as an actual image header, not just valid base64.
func (u *utils) DecodeDataURL(dataURL string) ([]byte, error) {
	payload := dataURL
	if strings.HasPrefix(dataURL, "data:") {
		idx := strings.Index(dataURL, ",")
		if idx < 0 {
			return nil, errors.New("malformed data URL")
		}

		meta := dataURL[:idx]
		if !strings.Contains(meta, ";base64") {
			return nil, errors.New("data URL is not base64 encoded")
		}
		if !strings.HasPrefix(meta, "data:image/") {
			return nil, errors.New("data URL is not an image")
		}
		payload = dataURL[idx+1:]
	}

	if payload == "" {
		return nil, errors.New("empty frame payload")
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, errors.New("invalid base64 frame data")
	}

	if len(raw) > u.maxFrameSize {
		return nil, errors.New("frame exceeds size limit")
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(raw)); err != nil {
		return nil, errors.New("frame is not a decodable image")
	}

	return raw, nil
}
