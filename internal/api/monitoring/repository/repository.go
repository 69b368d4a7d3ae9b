package monitoringRepository

import (
	"SmartSession/internal/entity"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type SQLExecutor interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Rebind(query string) string
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlExecutor SQLExecutor
	var commitFunc, rollbackFunc func() error

	sqlExecutor = r.DB

	if tx {
		var err error
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		sqlExecutor = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Sessions: &sessionRepository{q: sqlExecutor, log: r.log},
		Alerts:   &alertRepository{q: sqlExecutor, log: r.log},
		Commit:   commitFunc,
		Rollback: rollbackFunc,
	}, nil
}

type Client struct {
	Sessions interface {
		CreateSession(ctx context.Context, session entity.MonitoringSession) error
		EndSession(ctx context.Context, session entity.MonitoringSession) error
		GetSessionByID(ctx context.Context, id string) (entity.MonitoringSession, error)
		ListSessions(ctx context.Context, limit int) ([]entity.MonitoringSession, error)
	}

	Alerts interface {
		CreateAlert(ctx context.Context, alert entity.ProctorAlert) error
		GetAlertsBySessionID(ctx context.Context, sessionID string) ([]entity.ProctorAlert, error)
		SetAlertFrameURL(ctx context.Context, id string, frameURL string) error
		SetAlertReview(ctx context.Context, id string, review string) error
	}

	Commit   func() error
	Rollback func() error
}

type sessionRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}

type alertRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
