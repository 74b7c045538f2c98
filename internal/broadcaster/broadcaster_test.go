package broadcaster

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/sardrift/driftsim/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestBroadcasterSubscribeUnsubscribe(t *testing.T) {
	b := New()

	id, ch := b.Subscribe()
	if b.SubscriberCount() != 1 {
		t.Errorf("expected 1 subscriber, got %d", b.SubscriberCount())
	}

	b.Unsubscribe(id)
	if b.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", b.SubscriberCount())
	}

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected channel to be closed")
		}
	default:
		t.Error("channel should be closed and readable")
	}
}

func TestBroadcasterBroadcast(t *testing.T) {
	b := New()

	id, ch := b.Subscribe()
	defer b.Unsubscribe(id)

	snap := &models.Snapshot{Hour: 3, TimeSec: 10800}
	b.Broadcast(snap)

	select {
	case received := <-ch:
		if received.Hour != snap.Hour {
			t.Errorf("expected hour %d, got %d", snap.Hour, received.Hour)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("timeout waiting for broadcast")
	}
}

func TestBroadcasterConcurrentSubscribeUnsubscribe(t *testing.T) {
	b := New()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, _ := b.Subscribe()
			time.Sleep(time.Millisecond)
			b.Unsubscribe(id)
		}()
	}

	wg.Wait()

	if b.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers after cleanup, got %d", b.SubscriberCount())
	}
}

func TestBroadcasterClose(t *testing.T) {
	b := New()

	var channels []chan *models.Snapshot
	for i := 0; i < 5; i++ {
		_, ch := b.Subscribe()
		channels = append(channels, ch)
	}

	if b.SubscriberCount() != 5 {
		t.Errorf("expected 5 subscribers, got %d", b.SubscriberCount())
	}

	b.Close()

	if b.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers after close, got %d", b.SubscriberCount())
	}

	for i, ch := range channels {
		select {
		case _, ok := <-ch:
			if ok {
				t.Errorf("channel %d should be closed", i)
			}
		default:
			t.Errorf("channel %d should be closed and readable", i)
		}
	}
}

func TestBroadcasterSlowSubscriberDropsExcess(t *testing.T) {
	b := New()

	id, ch := b.Subscribe()
	defer b.Unsubscribe(id)

	for i := 0; i < 17; i++ {
		b.Broadcast(&models.Snapshot{Hour: i})
	}

	count := 0
loop:
	for {
		select {
		case <-ch:
			count++
		default:
			break loop
		}
	}

	if count != 16 {
		t.Errorf("expected 16 buffered snapshots, got %d", count)
	}
}
