package monitoringRepository

const (
	queryCreateSession = `
		INSERT INTO monitoring_sessions (
			id, started_at, frames_processed, alerts_raised,
			confusion_ratio, last_status
		) VALUES (
			:id, :started_at, 0, 0,
			0, :last_status
		)
	`

	queryEndSession = `
		UPDATE monitoring_sessions
		SET
			ended_at = :ended_at,
			frames_processed = :frames_processed,
			alerts_raised = :alerts_raised,
			confusion_ratio = :confusion_ratio,
			last_status = :last_status
		WHERE id = :id
	`

	queryGetSessionByID = `
		SELECT
			id, started_at, ended_at, frames_processed,
			alerts_raised, confusion_ratio, last_status
		FROM monitoring_sessions
		WHERE id = :id
	`

	queryListSessions = `
		SELECT
			id, started_at, ended_at, frames_processed,
			alerts_raised, confusion_ratio, last_status
		FROM monitoring_sessions
		ORDER BY started_at DESC
		LIMIT :limit
	`

	queryCreateAlert = `
		INSERT INTO proctor_alerts (
			id, session_id, kind, message, frame_url, review, created_at
		) VALUES (
			:id, :session_id, :kind, :message, :frame_url, :review, :created_at
		)
	`

	queryGetAlertsBySessionID = `
		SELECT
			id, session_id, kind, message, frame_url, review, created_at
		FROM proctor_alerts
		WHERE session_id = :session_id
		ORDER BY created_at ASC
	`

	querySetAlertFrameURL = `
		UPDATE proctor_alerts
		SET frame_url = :frame_url
		WHERE id = :id
	`

	querySetAlertReview = `
		UPDATE proctor_alerts
		SET review = :review
		WHERE id = :id
	`
)
