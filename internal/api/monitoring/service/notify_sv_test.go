package monitoringService

import (
	"SmartSession/internal/api/monitoring"
	"context"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *fakeMailer) SendAlertMail(to string, subject string, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, body)
	return nil
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func TestNotifyThrottlesBursts(t *testing.T) {
	t.Setenv("PROCTOR_ALERT_EMAIL", "proctor@example.com")
	t.Setenv("PROCTOR_ALERT_PHONE", "")
	t.Setenv("ALERT_NOTIFY_INTERVAL_SECONDS", "3600")

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	mailer := &fakeMailer{}
	notifier := NewAlertNotifier(logger, mailer, nil)

	for i := 0; i < 10; i++ {
		notifier.Notify(context.Background(), "session-1", monitoring.AlertKindNoFace, "No face detected - ensure camera is on and pointing at you")
	}

	// Burst budget is two; everything past it inside the interval is dropped.
	if got := mailer.count(); got != 2 {
		t.Errorf("mails sent = %d, want 2", got)
	}
}

func TestNotifyWithoutRecipientsIsNoop(t *testing.T) {
	t.Setenv("PROCTOR_ALERT_EMAIL", "")
	t.Setenv("PROCTOR_ALERT_PHONE", "")

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	mailer := &fakeMailer{}
	notifier := NewAlertNotifier(logger, mailer, nil)

	notifier.Notify(context.Background(), "session-1", monitoring.AlertKindMultipleFaces, "Multiple faces detected!")

	if got := mailer.count(); got != 0 {
		t.Errorf("mails sent = %d, want 0 with no recipients configured", got)
	}
}
