package monitoringHandler

import (
	"time"

	"github.com/gofiber/websocket/v2"
	"golang.org/x/net/context"
)

// handleStudentWebSocket owns one monitoring session for the lifetime of the
// connection. Each text message is one video frame as a data URL; the
// resulting snapshot is echoed back so the subject page can render locally.
func (h *MonitoringHandler) handleStudentWebSocket(c *websocket.Conn) {
	h.log.Info("Student monitoring WebSocket client connected")
	defer h.log.Info("Student monitoring WebSocket client disconnected")

	ctx := context.Background()

	sessionID, err := h.monitoringService.StartSession(ctx)
	if err != nil {
		h.log.Errorf("Error starting monitoring session: %v", err)
		_ = c.WriteJSON(map[string]string{"error": "could not start session"})
		return
	}

	defer func() {
		if err := h.monitoringService.EndSession(context.Background(), sessionID); err != nil {
			h.log.Errorf("Error ending monitoring session %s: %v", sessionID, err)
		}
	}()

	if err := c.WriteJSON(map[string]string{"session_id": sessionID}); err != nil {
		h.log.Errorf("Error sending session id: %v", err)
		return
	}

	c.SetPingHandler(func(data string) error {
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			h.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	maxReadTimeout := 60 * time.Second

	for {
		if err := c.SetReadDeadline(time.Now().Add(maxReadTimeout)); err != nil {
			h.log.Errorf("Error setting read deadline: %v", err)
			break
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Errorf("Student WebSocket error: %v", err)
			} else {
				h.log.Info("Student WebSocket connection closed")
			}
			break
		}

		if messageType != websocket.TextMessage {
			h.log.Warnf("Received unexpected message type: %d", messageType)
			continue
		}

		snapshot, err := h.monitoringService.ProcessFrame(ctx, sessionID, string(message))
		if err != nil {
			h.log.Errorf("Error processing frame: %v", err)
			if writeErr := c.WriteJSON(map[string]string{"error": err.Error()}); writeErr != nil {
				h.log.Errorf("Error sending error response: %v", writeErr)
				break
			}
			continue
		}

		if err := c.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
			h.log.Errorf("Error setting write deadline: %v", err)
			break
		}

		if err := c.WriteJSON(snapshot); err != nil {
			h.log.Errorf("Error writing snapshot: %v", err)
			break
		}

		if err := c.SetWriteDeadline(time.Time{}); err != nil {
			h.log.Errorf("Error resetting write deadline: %v", err)
			break
		}
	}
}

// handleTeacherWebSocket attaches a dashboard observer to a session's hub.
// Snapshots flow out through the hub's writer; the read loop only watches
// for the peer going away.
func (h *MonitoringHandler) handleTeacherWebSocket(c *websocket.Conn) {
	h.log.Info("Teacher dashboard WebSocket client connected")
	defer h.log.Info("Teacher dashboard WebSocket client disconnected")

	observerID, err := h.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		h.log.Errorf("Error generating observer id: %v", err)
		return
	}

	sessionID, err := h.monitoringService.Subscribe(c.Query("session_id"), observerID, c)
	if err != nil {
		h.log.Warnf("Dashboard subscription rejected: %v", err)
		_ = c.WriteJSON(map[string]string{"error": err.Error()})
		return
	}
	defer h.monitoringService.Unsubscribe(sessionID, observerID)

	c.SetPingHandler(func(data string) error {
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			h.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	maxReadTimeout := 120 * time.Second

	for {
		if err := c.SetReadDeadline(time.Now().Add(maxReadTimeout)); err != nil {
			h.log.Errorf("Error setting read deadline: %v", err)
			break
		}

		if _, _, err := c.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Errorf("Teacher WebSocket error: %v", err)
			} else {
				h.log.Info("Teacher WebSocket connection closed")
			}
			break
		}
	}
}
