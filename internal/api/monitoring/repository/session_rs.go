package monitoringRepository

import (
	"SmartSession/internal/api/monitoring"
	"SmartSession/internal/entity"
	contextPkg "SmartSession/pkg/context"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type MonitoringSessionDB struct {
	ID              sql.NullString  `db:"id"`
	StartedAt       time.Time       `db:"started_at"`
	EndedAt         sql.NullTime    `db:"ended_at"`
	FramesProcessed sql.NullInt64   `db:"frames_processed"`
	AlertsRaised    sql.NullInt64   `db:"alerts_raised"`
	ConfusionRatio  sql.NullFloat64 `db:"confusion_ratio"`
	LastStatus      sql.NullString  `db:"last_status"`
}

func (r *sessionRepository) CreateSession(ctx context.Context, session entity.MonitoringSession) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":          session.ID,
		"started_at":  session.StartedAt,
		"last_status": session.LastStatus,
	}

	query, args, err := sqlx.Named(queryCreateSession, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateSession named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating monitoring session")
		return err
	}

	return nil
}

func (r *sessionRepository) EndSession(ctx context.Context, session entity.MonitoringSession) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":               session.ID,
		"ended_at":         session.EndedAt,
		"frames_processed": session.FramesProcessed,
		"alerts_raised":    session.AlertsRaised,
		"confusion_ratio":  session.ConfusionRatio,
		"last_status":      session.LastStatus,
	}

	query, args, err := sqlx.Named(queryEndSession, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("EndSession named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("EndSession execution err")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"id":         session.ID,
		}).Warn("EndSession no rows affected")
		return monitoring.ErrSessionNotFound
	}

	return nil
}

func (r *sessionRepository) GetSessionByID(ctx context.Context, id string) (entity.MonitoringSession, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var sessionDB MonitoringSessionDB

	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryGetSessionByID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetSessionByID named query preparation err")
		return entity.MonitoringSession{}, err
	}
	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&sessionDB); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.MonitoringSession{}, monitoring.ErrSessionNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetSessionByID execution err")
		return entity.MonitoringSession{}, err
	}

	return makeMonitoringSession(sessionDB), nil
}

func (r *sessionRepository) ListSessions(ctx context.Context, limit int) ([]entity.MonitoringSession, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var sessionsDB []MonitoringSessionDB

	argsKV := map[string]interface{}{
		"limit": limit,
	}

	query, args, err := sqlx.Named(queryListSessions, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ListSessions named query preparation err")
		return nil, err
	}
	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, &sessionsDB, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ListSessions execution err")
		return nil, err
	}

	sessions := make([]entity.MonitoringSession, 0, len(sessionsDB))
	for _, sessionDB := range sessionsDB {
		sessions = append(sessions, makeMonitoringSession(sessionDB))
	}

	return sessions, nil
}

func makeMonitoringSession(sessionDB MonitoringSessionDB) entity.MonitoringSession {
	session := entity.MonitoringSession{
		ID:              sessionDB.ID.String,
		StartedAt:       sessionDB.StartedAt,
		FramesProcessed: sessionDB.FramesProcessed.Int64,
		AlertsRaised:    sessionDB.AlertsRaised.Int64,
		ConfusionRatio:  sessionDB.ConfusionRatio.Float64,
		LastStatus:      sessionDB.LastStatus.String,
	}

	if sessionDB.EndedAt.Valid {
		endedAt := sessionDB.EndedAt.Time
		session.EndedAt = &endedAt
	}

	return session
}
