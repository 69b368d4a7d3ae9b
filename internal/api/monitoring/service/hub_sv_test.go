package monitoringService

import (
	"SmartSession/internal/api/monitoring"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type fakeWriter struct {
	received chan monitoring.SnapshotPayload
	fail     bool
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{received: make(chan monitoring.SnapshotPayload, 64)}
}

func (w *fakeWriter) WriteJSON(v interface{}) error {
	if w.fail {
		return errors.New("connection reset")
	}
	w.received <- v.(monitoring.SnapshotPayload)
	return nil
}

func (w *fakeWriter) next(t *testing.T) monitoring.SnapshotPayload {
	t.Helper()
	select {
	case snap := <-w.received:
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return monitoring.SnapshotPayload{}
	}
}

func testHub() (*broadcastHub, *sessionStore) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	store := newSessionStore(10)
	return newBroadcastHub(store, log), store
}

func TestHubSubscribeDeliversSnapshotFirst(t *testing.T) {
	hub, store := testHub()
	store.ApplyVerdict(levelVerdict(1), nil, time.Now())

	w := newFakeWriter()
	if err := hub.Subscribe("obs-1", w); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	first := w.next(t)
	if len(first.Timeline) != 1 || first.Timeline[0].Level != 1 {
		t.Errorf("initial snapshot did not reflect store state: %+v", first.Timeline)
	}
}

func TestHubPublishOrder(t *testing.T) {
	hub, store := testHub()

	w := newFakeWriter()
	if err := hub.Subscribe("obs-1", w); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	w.next(t) // initial snapshot

	base := time.Unix(1700000000, 0)
	for i := 0; i < 5; i++ {
		store.ApplyVerdict(levelVerdict(i), nil, base.Add(time.Duration(i)*time.Second))
		hub.Publish(store.Snapshot(base.Add(time.Duration(i) * time.Second)))
	}

	for i := 0; i < 5; i++ {
		snap := w.next(t)
		last := snap.Timeline[len(snap.Timeline)-1]
		if last.Level != i {
			t.Errorf("publish %d delivered out of order: last level = %d", i, last.Level)
		}
	}
}

func TestHubPrunesFailingObserver(t *testing.T) {
	hub, store := testHub()

	healthy := newFakeWriter()
	broken := newFakeWriter()
	broken.fail = true

	if err := hub.Subscribe("healthy", healthy); err != nil {
		t.Fatalf("Subscribe healthy: %v", err)
	}
	if err := hub.Subscribe("broken", broken); err != nil {
		t.Fatalf("Subscribe broken: %v", err)
	}

	healthy.next(t)

	deadline := time.Now().Add(2 * time.Second)
	for hub.Count() > 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := hub.Count(); got != 1 {
		t.Fatalf("observer count = %d, want 1 after prune", got)
	}

	store.ApplyVerdict(levelVerdict(1), nil, time.Now())
	hub.Publish(store.Snapshot(time.Now()))

	snap := healthy.next(t)
	if len(snap.Timeline) != 1 {
		t.Errorf("healthy observer missed publish after prune")
	}
}

func TestHubPrunesStalledObserver(t *testing.T) {
	hub, store := testHub()

	// A writer that never drains blocks its writeLoop on the first send, so
	// the outbox fills and the publisher prunes it.
	stalled := &fakeWriter{received: make(chan monitoring.SnapshotPayload)}
	if err := hub.Subscribe("stalled", stalled); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	for i := 0; i < observerBuffer+2; i++ {
		hub.Publish(store.Snapshot(time.Now()))
	}

	if got := hub.Count(); got != 0 {
		t.Errorf("observer count = %d, want 0 after stall prune", got)
	}
}

func TestHubUnsubscribe(t *testing.T) {
	hub, _ := testHub()

	w := newFakeWriter()
	if err := hub.Subscribe("obs-1", w); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	hub.Unsubscribe("obs-1")

	if got := hub.Count(); got != 0 {
		t.Errorf("observer count = %d, want 0", got)
	}

	// Unknown ids are a no-op.
	hub.Unsubscribe("nope")
}

func TestHubClosedRejectsSubscribe(t *testing.T) {
	hub, _ := testHub()
	hub.Close()

	if err := hub.Subscribe("late", newFakeWriter()); err == nil {
		t.Error("Subscribe on closed hub did not fail")
	}
	if got := hub.Count(); got != 0 {
		t.Errorf("observer count = %d, want 0", got)
	}
}
