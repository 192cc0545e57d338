package settings

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Broker fans settings changes out to in-process subscribers.
// Publish never blocks: a subscriber whose buffer is full misses the change.
type Broker struct {
	log logrus.FieldLogger

	mu     sync.RWMutex
	next   int
	subs   map[int]chan Change
	closed bool
}

// NewBroker returns a Broker with no subscribers.
func NewBroker(log logrus.FieldLogger) *Broker {
	return &Broker{log: log, subs: make(map[int]chan Change)}
}

// Subscribe registers a subscriber with the given buffer size. The returned cancel
// function unregisters it and closes the channel.
func (b *Broker) Subscribe(buffer int) (<-chan Change, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan Change, buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.next
	b.next++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
}

// Publish delivers c to every subscriber with room in its buffer and returns how many received it.
func (b *Broker) Publish(c Change) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	delivered := 0
	for id, ch := range b.subs {
		select {
		case ch <- c:
			delivered++
		default:
			b.log.WithField("subscriber", id).Warn("settings change dropped, subscriber buffer full")
		}
	}
	return delivered
}

// Close closes every subscriber channel. Later subscriptions receive a closed channel.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
