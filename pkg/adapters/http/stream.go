package http

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aretw0/blend/internal/logging"
	"github.com/aretw0/blend/pkg/session"
)

// streamEvent is one server-sent event.
type streamEvent struct {
	Name string
	Data []byte
}

// StreamManager fans session updates out to SSE subscribers, keyed by combination ID.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan streamEvent]struct{}
	logger      *slog.Logger
}

// NewStreamManager creates an empty StreamManager. A nil logger discards.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StreamManager{
		subscribers: make(map[string]map[chan streamEvent]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a listener for a combination. The returned func unsubscribes
// and closes the channel.
func (sm *StreamManager) Subscribe(id string) (<-chan streamEvent, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan streamEvent, 10)
	if _, ok := sm.subscribers[id]; !ok {
		sm.subscribers[id] = make(map[chan streamEvent]struct{})
	}
	sm.subscribers[id][ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			if subs, ok := sm.subscribers[id]; ok {
				delete(subs, ch)
				close(ch)
				if len(subs) == 0 {
					delete(sm.subscribers, id)
				}
			}
		})
	}
}

// Publish encodes v as JSON and sends it to every subscriber of id.
// Slow subscribers miss the message.
func (sm *StreamManager) Publish(id, name string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		sm.logger.Error("Failed to encode stream event", "combination_id", id, "err", err)
		return
	}

	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[id] {
		select {
		case ch <- streamEvent{Name: name, Data: data}:
		default:
			sm.logger.Warn("SSE client buffer full, dropping message", "combination_id", id)
		}
	}
}

// ExitHook publishes every exit from direct entry, including those triggered
// by a focus-loss timer, as an "exit" event.
func (sm *StreamManager) ExitHook() session.ExitHook {
	return func(res session.ExitResult, err error) {
		if err != nil {
			return
		}
		sm.Publish(res.CombinationID, "exit", res)
	}
}
