package monitoringRepository

import (
	"SmartSession/internal/api/monitoring"
	"SmartSession/internal/entity"
	contextPkg "SmartSession/pkg/context"
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ProctorAlertDB struct {
	ID        sql.NullString `db:"id"`
	SessionID sql.NullString `db:"session_id"`
	Kind      sql.NullString `db:"kind"`
	Message   sql.NullString `db:"message"`
	FrameURL  sql.NullString `db:"frame_url"`
	Review    sql.NullString `db:"review"`
	CreatedAt time.Time      `db:"created_at"`
}

func (r *alertRepository) CreateAlert(ctx context.Context, alert entity.ProctorAlert) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":         alert.ID,
		"session_id": alert.SessionID,
		"kind":       alert.Kind,
		"message":    alert.Message,
		"frame_url":  alert.FrameURL,
		"review":     alert.Review,
		"created_at": alert.CreatedAt,
	}

	query, args, err := sqlx.Named(queryCreateAlert, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateAlert named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating proctor alert")
		return err
	}

	return nil
}

func (r *alertRepository) GetAlertsBySessionID(ctx context.Context, sessionID string) ([]entity.ProctorAlert, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var alertsDB []ProctorAlertDB

	argsKV := map[string]interface{}{
		"session_id": sessionID,
	}

	query, args, err := sqlx.Named(queryGetAlertsBySessionID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetAlertsBySessionID named query preparation err")
		return nil, err
	}
	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, &alertsDB, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetAlertsBySessionID execution err")
		return nil, err
	}

	alerts := make([]entity.ProctorAlert, 0, len(alertsDB))
	for _, alertDB := range alertsDB {
		alerts = append(alerts, makeProctorAlert(alertDB))
	}

	return alerts, nil
}

func (r *alertRepository) SetAlertFrameURL(ctx context.Context, id string, frameURL string) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":        id,
		"frame_url": frameURL,
	}

	query, args, err := sqlx.Named(querySetAlertFrameURL, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("SetAlertFrameURL named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("SetAlertFrameURL execution err")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return monitoring.ErrAlertNotFound
	}

	return nil
}

func (r *alertRepository) SetAlertReview(ctx context.Context, id string, review string) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":     id,
		"review": review,
	}

	query, args, err := sqlx.Named(querySetAlertReview, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("SetAlertReview named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("SetAlertReview execution err")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return monitoring.ErrAlertNotFound
	}

	return nil
}

func makeProctorAlert(alertDB ProctorAlertDB) entity.ProctorAlert {
	return entity.ProctorAlert{
		ID:        alertDB.ID.String,
		SessionID: alertDB.SessionID.String,
		Kind:      alertDB.Kind.String,
		Message:   alertDB.Message.String,
		FrameURL:  alertDB.FrameURL.String,
		Review:    alertDB.Review.String,
		CreatedAt: alertDB.CreatedAt,
	}
}
