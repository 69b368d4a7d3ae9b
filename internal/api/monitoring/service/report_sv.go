package monitoringService

import (
	"SmartSession/internal/api/monitoring"
	"SmartSession/internal/entity"
	contextPkg "SmartSession/pkg/context"
	"SmartSession/pkg/log"

	"golang.org/x/net/context"
)

func (s *monitoringService) SessionReport(ctx context.Context, sessionID string) (monitoring.SessionReportResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repoClient, err := s.repo.NewClient(false)
	if err != nil {
		return monitoring.SessionReportResponse{}, err
	}

	session, err := repoClient.Sessions.GetSessionByID(ctx, sessionID)
	if err != nil {
		return monitoring.SessionReportResponse{}, err
	}

	alerts, err := repoClient.Alerts.GetAlertsBySessionID(ctx, sessionID)
	if err != nil {
		return monitoring.SessionReportResponse{}, err
	}

	details := make([]monitoring.AlertDetail, 0, len(alerts))
	for _, alert := range alerts {
		detail := monitoring.AlertDetail{
			ID:        alert.ID,
			Kind:      alert.Kind,
			Message:   alert.Message,
			Review:    alert.Review,
			CreatedAt: unixSeconds(alert.CreatedAt),
		}

		if alert.FrameURL != "" && s.s3Client != nil {
			url, err := s.s3Client.PresignUrl(alert.FrameURL)
			if err != nil {
				s.log.WithFields(log.Fields{
					"request_id": requestID,
					"alert_id":   alert.ID,
					"error":      err.Error(),
				}).Warn("Failed to presign alert evidence URL")
			} else {
				detail.EvidenceURL = &url
			}
		}

		details = append(details, detail)
	}

	return monitoring.SessionReportResponse{
		Session: session,
		Alerts:  details,
	}, nil
}

func (s *monitoringService) ListSessions(ctx context.Context, limit int) ([]entity.MonitoringSession, error) {
	if limit <= 0 {
		limit = 20
	}

	repoClient, err := s.repo.NewClient(false)
	if err != nil {
		return nil, err
	}

	return repoClient.Sessions.ListSessions(ctx, limit)
}
