package events

import (
	"context"
	"errors"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrInterrupt signals that a subscriber wants to stop further delivery.
var ErrInterrupt = errors.New("event interrupted")

// HandlerFn is a subscriber callback.
// Return nil to continue delivery, or ErrInterrupt to stop it.
type HandlerFn func(ctx context.Context, ev Event) error

type subEntry struct {
	priority int
	fn       HandlerFn
	name     string
}

// Bus delivers produced events to priority-ordered subscribers.
// Cosmetic effect requests are rate-limited so a large horde cannot flood
// the effects pipeline; damage, death, and boss events never are.
type Bus struct {
	mu          sync.RWMutex
	subs        map[string][]*subEntry
	effectLimit *rate.Limiter
	logger      *zap.Logger
}

// NewBus creates a Bus. effectsPerSec caps delivered EffectRequests;
// <= 0 means unlimited.
func NewBus(effectsPerSec float64, logger *zap.Logger) *Bus {
	b := &Bus{
		subs:   make(map[string][]*subEntry),
		logger: logger,
	}
	if effectsPerSec > 0 {
		b.effectLimit = rate.NewLimiter(rate.Limit(effectsPerSec), int(effectsPerSec*2))
	}
	return b
}

// Subscribe adds a HandlerFn for the given event type with the given
// priority (lower runs first). name is used for Unsubscribe.
func (b *Bus) Subscribe(eventType string, priority int, name string, fn HandlerFn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries := append(b.subs[eventType], &subEntry{priority: priority, fn: fn, name: name})
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].priority < entries[j].priority
	})
	b.subs[eventType] = entries
}

// Unsubscribe removes all subscribers with the given name for the event type.
func (b *Bus) Unsubscribe(eventType, name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries := b.subs[eventType]
	n := 0
	for _, e := range entries {
		if e.name != name {
			entries[n] = e
			n++
		}
	}
	b.subs[eventType] = entries[:n]
}

// Publish delivers ev to every subscriber of its type in priority order.
// Delivery stops when a subscriber returns ErrInterrupt.
func (b *Bus) Publish(ctx context.Context, ev Event) error {
	if _, ok := ev.(EffectRequest); ok && b.effectLimit != nil {
		if !b.effectLimit.Allow() {
			b.logger.Debug("effect request dropped by rate limit")
			return nil
		}
	}

	b.mu.RLock()
	entries := make([]*subEntry, len(b.subs[ev.EventType()]))
	copy(entries, b.subs[ev.EventType()])
	b.mu.RUnlock()

	for _, e := range entries {
		if err := e.fn(ctx, ev); err != nil {
			if errors.Is(err, ErrInterrupt) {
				return err
			}
			b.logger.Warn("event subscriber failed",
				zap.String("event", ev.EventType()),
				zap.String("subscriber", e.name),
				zap.Error(err))
		}
	}
	return nil
}
