package config

import (
	"SmartSession/database/postgres"
	monitoringHandler "SmartSession/internal/api/monitoring/handler"
	monitoringRepository "SmartSession/internal/api/monitoring/repository"
	monitoringService "SmartSession/internal/api/monitoring/service"
	"SmartSession/internal/middleware"
	"SmartSession/pkg/gemini"
	"SmartSession/pkg/redis"
	"SmartSession/pkg/s3"
	"SmartSession/pkg/smtp"
	"SmartSession/pkg/utils"
	"SmartSession/pkg/vision"
	websocketPkg "SmartSession/pkg/websocket"
	"SmartSession/pkg/whatsapp"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine           *fiber.App
	db               *sqlx.DB
	log              *logrus.Logger
	middleware       middleware.Middleware
	validator        *validator.Validate
	utils            utils.IUtils
	handlers         []handler
	redisServer      redis.IRedis
	smtpMailer       smtp.ItfSmtp
	landmarkProvider websocketPkg.IWebsocket
	whatsappClient   whatsapp.IWhatsappSender
	geminiClient     gemini.IGemini
	s3Client         s3.ItfS3
	calibration      vision.Calibration

	monitoringServices monitoringService.IMonitoringService
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{
		calibration: vision.DefaultCalibration(),
	}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithSMTPMailer(smtpMailer smtp.ItfSmtp) ServerOption {
	return func(s *Server) error {
		s.smtpMailer = smtpMailer
		return nil
	}
}

func WithLandmarkProvider(provider websocketPkg.IWebsocket) ServerOption {
	return func(s *Server) error {
		s.landmarkProvider = provider
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithS3Client() ServerOption {
	return func(s *Server) error {
		client, err := s3.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

// WithWhatsappClient is best-effort: a proctor phone channel is optional, so
// a failed pairing logs a warning instead of refusing to boot.
func WithWhatsappClient() ServerOption {
	return func(s *Server) error {
		if os.Getenv("PROCTOR_ALERT_PHONE") == "" {
			return nil
		}

		client, err := whatsapp.New()
		if err != nil {
			if s.log != nil {
				s.log.Warnf("Failed to initialize WhatsApp client, phone alerts disabled: %v", err)
			}
			return nil
		}
		s.whatsappClient = client
		return nil
	}
}

// WithGeminiClient is best-effort too: without an API key alerts simply skip
// the automated frame review.
func WithGeminiClient() ServerOption {
	return func(s *Server) error {
		if os.Getenv("GEMINI_API_KEY") == "" {
			return nil
		}

		client, err := gemini.NewGeminiClient()
		if err != nil {
			if s.log != nil {
				s.log.Warnf("Failed to create Gemini client, alert review disabled: %v", err)
			}
			return nil
		}
		s.geminiClient = client
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func WithCalibration(cal vision.Calibration) ServerOption {
	return func(s *Server) error {
		s.calibration = cal
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Monitoring Domain
	monitoringRepo := monitoringRepository.New(s.db, s.log)
	notifier := monitoringService.NewAlertNotifier(s.log, s.smtpMailer, s.whatsappClient)
	monitoringServices := monitoringService.New(
		s.log,
		monitoringRepo,
		s.landmarkProvider,
		s.redisServer,
		s.s3Client,
		s.geminiClient,
		notifier,
		s.utils,
		s.calibration,
	)
	monitoringHandlers := monitoringHandler.New(s.log, s.validator, s.middleware, monitoringServices, s.utils)

	s.monitoringServices = monitoringServices

	s.setupHealthCheck()
	s.handlers = append(s.handlers, monitoringHandlers)
}

func (s *Server) Run() error {
	corsOrigin := os.Getenv("CORS_ORIGIN")
	if corsOrigin == "" {
		corsOrigin = "http://localhost:3000"
	}
	s.engine.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigin,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	router := s.engine.Group("/api/v1")
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	if err := s.engine.Listen(fmt.Sprintf(":%s", port)); err != nil {
		if s.whatsappClient != nil {
			s.whatsappClient.Disconnect()
		}
		if s.landmarkProvider != nil {
			s.landmarkProvider.CloseConnection()
		}
		return err
	}

	return nil
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		providerConnected := false
		if s.monitoringServices != nil {
			providerConnected = s.monitoringServices.ProviderConnected()
		}

		return ctx.JSON(fiber.Map{
			"message":            "Server is Healthy!",
			"provider_connected": providerConnected,
		})
	})
}
