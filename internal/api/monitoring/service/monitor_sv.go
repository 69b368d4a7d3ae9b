package monitoringService

import (
	"SmartSession/internal/api/monitoring"
	"SmartSession/internal/entity"
	contextPkg "SmartSession/pkg/context"
	"SmartSession/pkg/log"
	"SmartSession/pkg/vision"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/net/context"
)

const snapshotCacheTTL = 30 * time.Minute

func (s *monitoringService) StartSession(ctx context.Context) (string, error) {
	requestID := contextPkg.GetRequestID(ctx)

	now := time.Now()
	sessionID, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		return "", err
	}

	repoClient, err := s.repo.NewClient(false)
	if err != nil {
		return "", err
	}

	session := entity.MonitoringSession{
		ID:         sessionID,
		StartedAt:  now,
		LastStatus: vision.EngagementFocused.String(),
	}
	if err := repoClient.Sessions.CreateSession(ctx, session); err != nil {
		s.log.WithFields(log.Fields{
			"request_id": requestID,
			"session_id": sessionID,
			"error":      err.Error(),
		}).Error("Failed to persist monitoring session")
		return "", err
	}

	b := &monitorBundle{
		id:    sessionID,
		store: newSessionStore(s.timelineCapacity),
		gaze:  vision.NewGazeTracker(s.cal),
	}
	b.hub = newBroadcastHub(b.store, s.log)

	s.mu.Lock()
	s.bundles[sessionID] = b
	s.activeID = sessionID
	s.mu.Unlock()

	s.log.WithFields(log.Fields{
		"request_id": requestID,
		"session_id": sessionID,
	}).Info("Monitoring session started")

	return sessionID, nil
}

func (s *monitoringService) EndSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	b, ok := s.bundles[sessionID]
	if ok {
		delete(s.bundles, sessionID)
		if s.activeID == sessionID {
			s.activeID = ""
		}
	}
	s.mu.Unlock()

	if !ok {
		return monitoring.ErrSessionNotFound
	}

	b.hub.Close()

	var ratio float64
	if b.frames > 0 {
		ratio = float64(b.confusedFrames) / float64(b.frames)
	}

	now := time.Now()
	snap := b.store.Snapshot(now)
	session := entity.MonitoringSession{
		ID:              sessionID,
		EndedAt:         &now,
		FramesProcessed: b.frames,
		AlertsRaised:    b.alerts,
		ConfusionRatio:  ratio,
		LastStatus:      snap.Status,
	}

	repoClient, err := s.repo.NewClient(false)
	if err != nil {
		return err
	}
	if err := repoClient.Sessions.EndSession(ctx, session); err != nil {
		s.log.WithFields(log.Fields{
			"session_id": sessionID,
			"error":      err.Error(),
		}).Error("Failed to close monitoring session")
		return err
	}

	s.log.WithFields(log.Fields{
		"session_id":       sessionID,
		"frames_processed": b.frames,
		"alerts_raised":    b.alerts,
		"confusion_ratio":  fmt.Sprintf("%.3f", ratio),
		"last_score":       fmt.Sprintf("%.3f", b.store.LastScore()),
	}).Info("Monitoring session ended")

	return nil
}

// ProcessFrame runs one observation through the pipeline: decode, integrity
// gate, gaze gate, then feature extraction and classification. The resulting
// snapshot is stored, broadcast, and returned to the producer as its ack.
func (s *monitoringService) ProcessFrame(ctx context.Context, sessionID string, frameData string) (monitoring.SnapshotPayload, error) {
	b := s.bundle(sessionID)
	if b == nil {
		return monitoring.SnapshotPayload{}, monitoring.ErrSessionNotFound
	}

	now := time.Now()
	verdict, frameJPEG := s.analyzeFrame(b, frameData, now)

	frameRef := frameData
	b.store.ApplyVerdict(verdict, &frameRef, now)
	snap := b.store.Snapshot(now)
	b.hub.Publish(snap)

	b.frames++
	if verdict.hasLevel && verdict.level < 0 {
		b.confusedFrames++
	}

	if verdict.kind != "" {
		// Edge-triggered: one audit row per alert episode, not per frame.
		if verdict.kind != b.lastAlertKind {
			b.alerts++
			s.recordAlert(ctx, b.id, verdict, frameJPEG)
		}
		b.lastAlertKind = verdict.kind
	} else {
		b.lastAlertKind = ""
	}

	s.cacheSnapshot(ctx, sessionID, snap)

	return snap, nil
}

// analyzeFrame classifies a single frame. Integrity gates run strictly
// before the landmark-dependent checks, and alert frames never touch the
// gaze tracker or classifier state.
func (s *monitoringService) analyzeFrame(b *monitorBundle, frameData string, now time.Time) (frameVerdict, []byte) {
	frameJPEG, err := s.utils.DecodeDataURL(frameData)
	if err != nil {
		return alertVerdict(monitoring.AlertKindDecodeFailed, "Image decode failed"), nil
	}

	result, err := s.provider.AnalyzeFrame(frameJPEG)
	if err != nil {
		s.log.WithFields(log.Fields{
			"session_id": b.id,
			"error":      err.Error(),
		}).Warn("Landmark service unreachable for frame")
		return alertVerdict(monitoring.AlertKindLandmarksUnavailable, "Face landmarks not detected"), frameJPEG
	}

	switch vision.CheckFaceCount(result.FaceCount, s.cal) {
	case vision.IntegrityNoFace:
		return alertVerdict(monitoring.AlertKindNoFace,
			"No face detected - ensure camera is on and pointing at you"), frameJPEG
	case vision.IntegrityMultipleFaces:
		return alertVerdict(monitoring.AlertKindMultipleFaces,
			fmt.Sprintf("Multiple faces detected (%d). Proctoring violation - test must be taken alone.", result.FaceCount)), frameJPEG
	}

	lm := makeLandmarkSet(result.Landmarks)
	if result.Error != "" || !lm.Complete() {
		return alertVerdict(monitoring.AlertKindLandmarksUnavailable, "Face landmarks not detected"), frameJPEG
	}

	pose := s.extractor.HeadPose(lm)
	if b.gaze.Observe(pose, now) {
		return alertVerdict(monitoring.AlertKindGazeDeviation,
			fmt.Sprintf("Looking away from screen for >%.0fs - focus on test", s.cal.GazeGraceSeconds)), frameJPEG
	}

	return engagementVerdict(s.classifier.Classify(s.extractor.Signals(lm))), frameJPEG
}

func makeLandmarkSet(raw [][2]float64) vision.LandmarkSet {
	if len(raw) == 0 {
		return nil
	}
	lm := make(vision.LandmarkSet, len(raw))
	for i, p := range raw {
		lm[i] = vision.Landmark{X: p[0], Y: p[1]}
	}
	return lm
}

func (s *monitoringService) Subscribe(sessionID string, observerID string, conn SnapshotWriter) (string, error) {
	s.mu.RLock()
	if sessionID == "" {
		sessionID = s.activeID
	}
	b := s.bundles[sessionID]
	s.mu.RUnlock()

	if b == nil {
		if sessionID == "" {
			return "", monitoring.ErrNoActiveSession
		}
		if repoClient, err := s.repo.NewClient(false); err == nil {
			if session, err := repoClient.Sessions.GetSessionByID(context.Background(), sessionID); err == nil && session.EndedAt != nil {
				return "", monitoring.ErrSessionEnded
			}
		}
		return "", monitoring.ErrSessionNotFound
	}

	if err := b.hub.Subscribe(observerID, conn); err != nil {
		return "", err
	}

	s.log.WithFields(log.Fields{
		"session_id":  sessionID,
		"observer_id": observerID,
		"observers":   b.hub.Count(),
	}).Info("Observer subscribed")

	return sessionID, nil
}

func (s *monitoringService) Unsubscribe(sessionID string, observerID string) {
	if b := s.bundle(sessionID); b != nil {
		b.hub.Unsubscribe(observerID)
	}
}

func (s *monitoringService) CurrentSnapshot(ctx context.Context, sessionID string) (monitoring.SnapshotPayload, error) {
	if sessionID == "" {
		s.mu.RLock()
		sessionID = s.activeID
		s.mu.RUnlock()
		if sessionID == "" {
			return monitoring.SnapshotPayload{}, monitoring.ErrNoActiveSession
		}
	}

	if b := s.bundle(sessionID); b != nil {
		return b.store.Snapshot(time.Now()), nil
	}

	// Session not live here; fall back to the cached copy so dashboards
	// survive a backend restart.
	raw, err := s.redis.GetSnapshot(ctx, sessionID)
	if err != nil {
		return monitoring.SnapshotPayload{}, monitoring.ErrSessionNotFound
	}

	var snap monitoring.SnapshotPayload
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		s.log.WithFields(log.Fields{
			"session_id": sessionID,
			"error":      err.Error(),
		}).Warn("Cached snapshot is not valid JSON")
		return monitoring.SnapshotPayload{}, monitoring.ErrSessionNotFound
	}

	return snap, nil
}

func (s *monitoringService) cacheSnapshot(ctx context.Context, sessionID string, snap monitoring.SnapshotPayload) {
	if s.redis == nil {
		return
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		return
	}
	if err := s.redis.SetSnapshot(ctx, sessionID, string(raw), snapshotCacheTTL); err != nil {
		s.log.WithFields(log.Fields{
			"session_id": sessionID,
			"error":      err.Error(),
		}).Debug("Failed to cache session snapshot")
	}
}

// recordAlert persists the audit row synchronously, then hands archiving,
// LLM review, and proctor notification to a background goroutine so the
// frame pipeline never waits on S3, Gemini, or SMTP.
func (s *monitoringService) recordAlert(ctx context.Context, sessionID string, v frameVerdict, frameJPEG []byte) {
	requestID := contextPkg.GetRequestID(ctx)

	alertID, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(log.Fields{
			"request_id": requestID,
			"session_id": sessionID,
			"error":      err.Error(),
		}).Error("Failed to generate alert ID")
		return
	}

	alert := entity.ProctorAlert{
		ID:        alertID,
		SessionID: sessionID,
		Kind:      v.kind,
		Message:   v.alert,
		CreatedAt: time.Now(),
	}

	repoClient, err := s.repo.NewClient(false)
	if err != nil {
		return
	}
	if err := repoClient.Alerts.CreateAlert(ctx, alert); err != nil {
		s.log.WithFields(log.Fields{
			"request_id": requestID,
			"session_id": sessionID,
			"kind":       v.kind,
			"error":      err.Error(),
		}).Error("Failed to persist proctor alert")
		return
	}

	s.log.WithFields(log.Fields{
		"request_id": requestID,
		"session_id": sessionID,
		"alert_id":   alertID,
		"kind":       v.kind,
	}).Warn("Proctor alert raised")

	go s.handleAlertSideEffects(alert, frameJPEG)
}

func (s *monitoringService) handleAlertSideEffects(alert entity.ProctorAlert, frameJPEG []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if s.notifier != nil {
		s.notifier.Notify(ctx, alert.SessionID, alert.Kind, alert.Message)
	}

	repoClient, err := s.repo.NewClient(false)
	if err != nil {
		return
	}

	if s.s3Client != nil && len(frameJPEG) > 0 {
		fileName := fmt.Sprintf("alerts/%s/%s.jpg", alert.SessionID, alert.ID)
		location, err := s.s3Client.UploadBytes(fileName, frameJPEG, "image/jpeg")
		if err != nil {
			s.log.WithFields(log.Fields{
				"alert_id": alert.ID,
				"error":    err.Error(),
			}).Warn("Failed to archive alert frame")
		} else if err := repoClient.Alerts.SetAlertFrameURL(ctx, alert.ID, location); err != nil {
			s.log.WithFields(log.Fields{
				"alert_id": alert.ID,
				"error":    err.Error(),
			}).Warn("Failed to record alert frame location")
			// The row never got the URL, so the object is unreachable. Remove it.
			if delErr := s.s3Client.DeleteFile(fileName); delErr != nil {
				s.log.WithFields(log.Fields{
					"alert_id": alert.ID,
					"error":    delErr.Error(),
				}).Warn("Failed to remove orphaned alert frame")
			}
		}
	}

	if s.gemini != nil && len(frameJPEG) > 0 {
		review, err := s.reviewAlertFrame(ctx, alert, frameJPEG)
		if err != nil {
			s.log.WithFields(log.Fields{
				"alert_id": alert.ID,
				"error":    err.Error(),
			}).Warn("Alert frame review failed")
			return
		}
		if err := repoClient.Alerts.SetAlertReview(ctx, alert.ID, review); err != nil {
			s.log.WithFields(log.Fields{
				"alert_id": alert.ID,
				"error":    err.Error(),
			}).Warn("Failed to record alert review")
		}
	}
}

func (s *monitoringService) reviewAlertFrame(ctx context.Context, alert entity.ProctorAlert, frameJPEG []byte) (string, error) {
	prompt := fmt.Sprintf(`
	This webcam frame was flagged during a proctored exam session.
	Flag reason: %s (%s).

	Look at the frame and give a one-sentence assessment for the proctor:
	does the image support the flag, or does it look like a false positive?
	Answer with the single sentence only, no extra text.
	`, alert.Message, alert.Kind)

	base64Frame := base64.StdEncoding.EncodeToString(frameJPEG)
	return s.gemini.AnalyzeImage(ctx, base64Frame, prompt)
}
