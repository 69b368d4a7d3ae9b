package monitoringService

import (
	"SmartSession/pkg/smtp"
	"SmartSession/pkg/whatsapp"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
	"golang.org/x/time/rate"
)

// INotifier pushes proctor alerts to the humans watching the session.
type INotifier interface {
	Notify(ctx context.Context, sessionID string, kind string, message string)
}

type alertNotifier struct {
	log      *logrus.Logger
	mailer   smtp.ItfSmtp
	whatsapp whatsapp.IWhatsappSender
	limiter  *rate.Limiter
	email    string
	phone    string
}

// NewAlertNotifier builds the notification fan-out. The limiter keeps a
// flapping camera from spamming the proctor's inbox: default one alert per
// 30 seconds with a burst of two.
func NewAlertNotifier(log *logrus.Logger, mailer smtp.ItfSmtp, whatsappClient whatsapp.IWhatsappSender) INotifier {
	interval := 30 * time.Second
	if v := os.Getenv("ALERT_NOTIFY_INTERVAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			interval = time.Duration(n) * time.Second
		}
	}

	return &alertNotifier{
		log:      log,
		mailer:   mailer,
		whatsapp: whatsappClient,
		limiter:  rate.NewLimiter(rate.Every(interval), 2),
		email:    os.Getenv("PROCTOR_ALERT_EMAIL"),
		phone:    os.Getenv("PROCTOR_ALERT_PHONE"),
	}
}

func (n *alertNotifier) Notify(ctx context.Context, sessionID string, kind string, message string) {
	if n.email == "" && n.phone == "" {
		return
	}

	if !n.limiter.Allow() {
		n.log.WithFields(logrus.Fields{
			"session_id": sessionID,
			"kind":       kind,
		}).Debug("Alert notification throttled")
		return
	}

	body := fmt.Sprintf("Session %s raised a proctor alert (%s): %s", sessionID, kind, message)

	if n.email != "" && n.mailer != nil {
		if err := n.mailer.SendAlertMail(n.email, "SmartSession proctor alert", body); err != nil {
			n.log.WithFields(logrus.Fields{
				"session_id": sessionID,
				"error":      err.Error(),
			}).Warn("Failed to send alert email")
		}
	}

	if n.phone != "" && n.whatsapp != nil {
		if err := n.whatsapp.SendMessage(ctx, n.phone, body); err != nil {
			n.log.WithFields(logrus.Fields{
				"session_id": sessionID,
				"error":      err.Error(),
			}).Warn("Failed to send alert WhatsApp message")
		}
	}
}
