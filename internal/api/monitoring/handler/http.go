package monitoringHandler

import (
	monitoringService "SmartSession/internal/api/monitoring/service"
	"SmartSession/internal/middleware"
	"SmartSession/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type MonitoringHandler struct {
	log               *logrus.Logger
	validator         *validator.Validate
	middleware        middleware.Middleware
	monitoringService monitoringService.IMonitoringService
	utils             utils.IUtils
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	ms monitoringService.IMonitoringService,
	utils utils.IUtils,
) *MonitoringHandler {
	return &MonitoringHandler{
		monitoringService: ms,
		log:               log,
		validator:         validator,
		middleware:        middleware,
		utils:             utils,
	}
}

func (h *MonitoringHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	monitor := srv.Group("/monitor")

	monitor.Use("/student/ws", wsMiddleware)
	monitor.Get("/student/ws", websocket.New(h.handleStudentWebSocket))

	monitor.Use("/teacher/ws", wsMiddleware)
	monitor.Get("/teacher/ws", websocket.New(h.handleTeacherWebSocket))

	monitor.Get("/sessions", h.ListSessions)
	monitor.Get("/sessions/:id", h.GetSessionReport)
	monitor.Get("/sessions/:id/snapshot", h.GetSnapshot)
}
