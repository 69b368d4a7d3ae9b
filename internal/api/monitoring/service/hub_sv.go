package monitoringService

import (
	"SmartSession/internal/api/monitoring"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// SnapshotWriter is the send capability of one observer connection.
type SnapshotWriter interface {
	WriteJSON(v interface{}) error
}

// observerBuffer bounds how far a slow observer may fall behind before it is
// treated as dead and pruned.
const observerBuffer = 16

type observer struct {
	id   string
	conn SnapshotWriter
	out  chan monitoring.SnapshotPayload
	done chan struct{}
}

// broadcastHub fans one producer's snapshots out to every subscribed
// observer. Each observer gets its own buffered outbox and writer goroutine,
// so a stalled dashboard can never hold up the producer or its peers; the
// per-observer FIFO preserves the producer's publish order. Delivery failure
// removes the observer and is never surfaced to the publisher.
type broadcastHub struct {
	log   *logrus.Logger
	store *sessionStore

	mu        sync.Mutex
	observers map[string]*observer
	closed    bool
}

func newBroadcastHub(store *sessionStore, log *logrus.Logger) *broadcastHub {
	return &broadcastHub{
		log:       log,
		store:     store,
		observers: make(map[string]*observer),
	}
}

// Subscribe registers an observer and immediately queues the current
// snapshot so a new dashboard never starts blank. The snapshot is enqueued
// under the registry lock, so no later publish can get ahead of it.
func (h *broadcastHub) Subscribe(id string, conn SnapshotWriter) error {
	snap := h.store.Snapshot(time.Now())

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return errors.New("session hub is closed")
	}
	obs := &observer{
		id:   id,
		conn: conn,
		out:  make(chan monitoring.SnapshotPayload, observerBuffer),
		done: make(chan struct{}),
	}
	h.observers[id] = obs
	obs.out <- snap
	h.mu.Unlock()

	go h.writeLoop(obs)
	return nil
}

func (h *broadcastHub) writeLoop(obs *observer) {
	for {
		select {
		case <-obs.done:
			return
		case snap := <-obs.out:
			if err := obs.conn.WriteJSON(snap); err != nil {
				h.log.WithFields(logrus.Fields{
					"observer_id": obs.id,
					"error":       err.Error(),
				}).Warn("Observer send failed, removing from registry")
				h.Unsubscribe(obs.id)
				return
			}
		}
	}
}

// Publish delivers the snapshot to every live observer without ever blocking
// the caller. An observer with a full outbox has stalled; it is pruned as
// part of the same publish.
func (h *broadcastHub) Publish(snap monitoring.SnapshotPayload) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var stalled []string
	for id, obs := range h.observers {
		select {
		case obs.out <- snap:
		default:
			stalled = append(stalled, id)
		}
	}

	for _, id := range stalled {
		h.removeLocked(id)
		h.log.WithFields(logrus.Fields{
			"observer_id": id,
		}).Warn("Observer outbox full, removing from registry")
	}
}

func (h *broadcastHub) Unsubscribe(id string) {
	h.mu.Lock()
	h.removeLocked(id)
	h.mu.Unlock()
}

func (h *broadcastHub) removeLocked(id string) {
	if obs, ok := h.observers[id]; ok {
		delete(h.observers, id)
		close(obs.done)
	}
}

// Close tears the registry down when the producer's session ends.
func (h *broadcastHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for id := range h.observers {
		h.removeLocked(id)
	}
}

func (h *broadcastHub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.observers)
}
