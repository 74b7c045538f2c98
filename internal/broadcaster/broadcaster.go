// Package broadcaster fans snapshots out to interested subscribers,
// adapted from the teacher's gRPC-stream broadcaster (no gRPC here — it
// feeds the HTTP façade's SSE stream instead).
package broadcaster

import (
	"sync"
	"sync/atomic"

	"github.com/sardrift/driftsim/internal/models"
)

// Broadcaster fans out each recorded snapshot to every live subscriber.
type Broadcaster struct {
	subscribers map[uint64]chan *models.Snapshot
	nextID      atomic.Uint64
	mu          sync.RWMutex
}

func New() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[uint64]chan *models.Snapshot),
	}
}

// Subscribe registers a new subscriber and returns its id plus a channel
// that receives every snapshot broadcast after this call.
func (b *Broadcaster) Subscribe() (uint64, chan *models.Snapshot) {
	id := b.nextID.Add(1)
	ch := make(chan *models.Snapshot, 16) // a few hours' worth before a slow reader starts dropping

	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()

	return id, ch
}

func (b *Broadcaster) Unsubscribe(id uint64) {
	b.mu.Lock()
	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
	b.mu.Unlock()
}

// Broadcast sends snap to every live subscriber, dropping it for any
// subscriber whose channel is full rather than blocking the driver.
func (b *Broadcaster) Broadcast(snap *models.Snapshot) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- snap:
		default:
			// Skip slow subscribers.
		}
	}
}

func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close closes every subscriber channel, causing their readers to exit.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, id)
	}
}
