package monitoring

import "SmartSession/pkg/response"

var (
	ErrSessionNotFound     = response.NewError(404, "session not found")
	ErrNoActiveSession     = response.NewError(404, "no active monitoring session")
	ErrSessionEnded        = response.NewError(410, "session already ended")
	ErrAlertNotFound       = response.NewError(404, "alert not found")
	ErrProviderUnavailable = response.NewError(503, "landmark service unavailable")
)
