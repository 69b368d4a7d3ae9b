package monitoringService

import (
	"SmartSession/internal/api/monitoring"
	monitoringRepository "SmartSession/internal/api/monitoring/repository"
	"SmartSession/internal/entity"
	"SmartSession/pkg/gemini"
	"SmartSession/pkg/redis"
	"SmartSession/pkg/s3"
	"SmartSession/pkg/utils"
	"SmartSession/pkg/vision"
	websocketPkg "SmartSession/pkg/websocket"
	"os"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type IMonitoringService interface {
	StartSession(ctx context.Context) (string, error)
	EndSession(ctx context.Context, sessionID string) error
	ProcessFrame(ctx context.Context, sessionID string, frameData string) (monitoring.SnapshotPayload, error)
	Subscribe(sessionID string, observerID string, conn SnapshotWriter) (string, error)
	Unsubscribe(sessionID string, observerID string)
	CurrentSnapshot(ctx context.Context, sessionID string) (monitoring.SnapshotPayload, error)
	SessionReport(ctx context.Context, sessionID string) (monitoring.SessionReportResponse, error)
	ListSessions(ctx context.Context, limit int) ([]entity.MonitoringSession, error)
	ProviderConnected() bool
}

// monitorBundle is one subject's instance set: store, gaze tracker, and hub
// share the session's lifetime. The counters are written only by the
// producer's frame loop.
type monitorBundle struct {
	id    string
	store *sessionStore
	gaze  *vision.GazeTracker
	hub   *broadcastHub

	frames         int64
	confusedFrames int64
	alerts         int64
	lastAlertKind  string
}

type monitoringService struct {
	log        *logrus.Logger
	repo       monitoringRepository.Repository
	provider   websocketPkg.IWebsocket
	redis      redis.IRedis
	s3Client   s3.ItfS3
	gemini     gemini.IGemini
	notifier   INotifier
	utils      utils.IUtils
	cal        vision.Calibration
	extractor  *vision.Extractor
	classifier *vision.Classifier

	timelineCapacity int

	mu       sync.RWMutex
	bundles  map[string]*monitorBundle
	activeID string
}

func New(
	log *logrus.Logger,
	repo monitoringRepository.Repository,
	provider websocketPkg.IWebsocket,
	redisServer redis.IRedis,
	s3Client s3.ItfS3,
	geminiClient gemini.IGemini,
	notifier INotifier,
	utils utils.IUtils,
	cal vision.Calibration,
) IMonitoringService {
	capacity := 300
	if v := os.Getenv("TIMELINE_MAX_POINTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			capacity = n
		}
	}

	return &monitoringService{
		log:              log,
		repo:             repo,
		provider:         provider,
		redis:            redisServer,
		s3Client:         s3Client,
		gemini:           geminiClient,
		notifier:         notifier,
		utils:            utils,
		cal:              cal,
		extractor:        vision.NewExtractor(cal),
		classifier:       vision.NewClassifier(cal),
		timelineCapacity: capacity,
		bundles:          make(map[string]*monitorBundle),
	}
}

func (s *monitoringService) bundle(sessionID string) *monitorBundle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bundles[sessionID]
}

func (s *monitoringService) ProviderConnected() bool {
	return s.provider != nil && s.provider.IsConnected()
}
