package websocketPkg

import (
	"SmartSession/internal/entity"
	jwtPkg "SmartSession/pkg/jwt"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const defaultLandmarkServiceURL = "ws://localhost:8000/api/v1/landmarks/ws"

type IWebsocket interface {
	AnalyzeFrame(frame []byte) (*entity.LandmarkResult, error)
	IsConnected() bool
	Reconnect() error
	CloseConnection()
}

// webSocketClient holds the single upstream connection to the landmark
// service. Frames are strictly request/response, so one mutex serializes the
// whole exchange.
type webSocketClient struct {
	conn         *websocket.Conn
	mu           sync.Mutex
	pingInterval time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func NewLandmarkClient() IWebsocket {
	client := &webSocketClient{
		pingInterval: 30 * time.Second,
		readTimeout:  10 * time.Second,
		writeTimeout: 5 * time.Second,
	}

	go client.connectInBackground()

	return client
}

func (c *webSocketClient) connectInBackground() {
	if err := c.Reconnect(); err != nil {
		log.Printf("Initial connection to landmark service failed: %v. Will retry on demand.", err)
	} else {
		log.Printf("Successfully connected to landmark service")
	}
}

func (c *webSocketClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

func (c *webSocketClient) Reconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	url := os.Getenv("AI_LANDMARK_SERVICE_URL")
	if url == "" {
		url = defaultLandmarkServiceURL
	}

	log.Printf("Connecting to landmark service at %s", url)

	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	var header http.Header
	if os.Getenv("PROVIDER_TOKEN_SECRET") != "" {
		token, _, err := jwtPkg.Sign("PROVIDER_TOKEN_SECRET", map[string]interface{}{
			"service": "smartsession-backend",
		}, 24*time.Hour)
		if err != nil {
			return fmt.Errorf("failed to sign provider token: %w", err)
		}
		header = http.Header{"Authorization": []string{"Bearer " + token}}
	}

	conn, _, err := dialer.Dial(url, header)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", url, err)
	}

	conn.SetPingHandler(func(appData string) error {
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(c.writeTimeout))
		if err != nil {
			log.Printf("Error sending pong: %v", err)
		}
		return nil
	})

	c.conn = conn

	go c.keepAlive()

	return nil
}

func (c *webSocketClient) CloseConnection() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

func (c *webSocketClient) keepAlive() {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		conn := c.conn
		if conn == nil {
			c.mu.Unlock()
			return
		}

		err := conn.WriteControl(
			websocket.PingMessage,
			[]byte{},
			time.Now().Add(c.writeTimeout),
		)
		if err != nil {
			log.Printf("Ping to landmark service failed, marking connection as dead: %v", err)
			c.conn = nil
			conn.Close()
			c.mu.Unlock()
			return
		}

		c.mu.Unlock()
	}
}

// AnalyzeFrame sends one frame upstream and waits for the landmark payload.
// A dead connection gets one reconnect attempt before giving up.
func (c *webSocketClient) AnalyzeFrame(frame []byte) (*entity.LandmarkResult, error) {
	c.mu.Lock()

	if c.conn == nil {
		c.mu.Unlock()
		if err := c.Reconnect(); err != nil {
			return nil, fmt.Errorf("cannot connect to landmark service: %w", err)
		}
		c.mu.Lock()
		if c.conn == nil {
			c.mu.Unlock()
			return nil, fmt.Errorf("not connected to landmark service")
		}
	}

	conn := c.conn

	conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		c.conn = nil
		conn.Close()
		c.mu.Unlock()
		return nil, fmt.Errorf("error sending frame: %w", err)
	}

	conn.SetReadDeadline(time.Now().Add(c.readTimeout))

	_, message, err := conn.ReadMessage()
	if err != nil {
		c.conn = nil
		conn.Close()
		c.mu.Unlock()
		return nil, fmt.Errorf("error reading landmark response: %w", err)
	}

	conn.SetReadDeadline(time.Time{})
	conn.SetWriteDeadline(time.Time{})
	c.mu.Unlock()

	var result entity.LandmarkResult
	if err := json.Unmarshal(message, &result); err != nil {
		return nil, fmt.Errorf("error unmarshaling landmark response: %w", err)
	}

	return &result, nil
}
