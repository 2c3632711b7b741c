package relay

import (
	"log/slog"
	"sync"

	"github.com/iudanet/sidenotes/pkg/api"
)

// DefaultBufferSize is the per-subscriber event buffer.
const DefaultBufferSize = 100

// Bus delivers relay events to every connected UI endpoint.
type Bus struct {
	logger *slog.Logger
	subs   map[*Subscription]struct{}
	buffer int
	mu     sync.RWMutex
}

// Subscription is one endpoint's view of the bus.
type Subscription struct {
	bus      *Bus
	events   chan api.Event
	endpoint string
	closed   bool
}

// NewBus creates a bus. A non-positive buffer falls back to DefaultBufferSize.
func NewBus(buffer int, logger *slog.Logger) *Bus {
	if buffer <= 0 {
		buffer = DefaultBufferSize
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Bus{
		logger: logger,
		subs:   make(map[*Subscription]struct{}),
		buffer: buffer,
	}
}

// Subscribe registers an endpoint.
func (b *Bus) Subscribe(endpoint string) *Subscription {
	sub := &Subscription{
		bus:      b,
		events:   make(chan api.Event, b.buffer),
		endpoint: endpoint,
	}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	b.logger.Debug("Endpoint subscribed", "endpoint", endpoint)
	return sub
}

// Publish delivers ev to every subscriber without blocking and returns the
// number of subscribers that received it. A subscriber whose buffer is full
// is closed: its endpoint disconnects and reloads on reconnect.
func (b *Bus) Publish(ev api.Event) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	delivered := 0
	for sub := range b.subs {
		select {
		case sub.events <- ev:
			delivered++
		default:
			b.logger.Warn("Closing slow endpoint subscription",
				"endpoint", sub.endpoint,
				"action", ev.Action,
				"buffer", cap(sub.events))
			b.closeLocked(sub)
		}
	}
	return delivered
}

// Len returns the number of subscribers.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Events returns the channel of delivered events. It is closed by Close.
func (s *Subscription) Events() <-chan api.Event {
	return s.events
}

// Endpoint returns the subscriber's endpoint id.
func (s *Subscription) Endpoint() string {
	return s.endpoint
}

// Close unsubscribes. Repeated calls are no-ops.
func (s *Subscription) Close() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()

	s.bus.closeLocked(s)
}

// closeLocked вызывается под b.mu
func (b *Bus) closeLocked(s *Subscription) {
	if s.closed {
		return
	}
	s.closed = true
	delete(b.subs, s)
	close(s.events)

	b.logger.Debug("Endpoint unsubscribed", "endpoint", s.endpoint)
}
