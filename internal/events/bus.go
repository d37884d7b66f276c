package events

import (
	"sync"
	"time"

	"go.uber.org/fx"
)

// Change notifies subscribers that rows in a table changed. It carries no row
// payload; consumers must re-fetch.
type Change struct {
	Table      string
	Op         string
	OccurredAt time.Time
}

// Operations reported by Change notifications.
const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Bus is an in-process change-notification channel with per-table subscriptions.
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]chan Change
}

// NewBus constructs an empty Bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string][]chan Change)}
}

// Subscribe registers interest in a table. The returned cancel func must be
// called to release the subscription.
func (b *Bus) Subscribe(table string) (<-chan Change, func()) {
	ch := make(chan Change, 16)
	b.mu.Lock()
	b.subs[table] = append(b.subs[table], ch)
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		listeners := b.subs[table]
		for i, listener := range listeners {
			if listener == ch {
				b.subs[table] = append(listeners[:i], listeners[i+1:]...)
				close(ch)
				return
			}
		}
	}
	return ch, cancel
}

// Notify fans a change out to every subscriber of the affected tables.
// Sends never block; a subscriber with a full buffer misses the signal and
// catches up on its next refresh.
func (b *Bus) Notify(op string, tables ...string) {
	now := time.Now().UTC()
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, table := range tables {
		change := Change{Table: table, Op: op, OccurredAt: now}
		for _, ch := range b.subs[table] {
			select {
			case ch <- change:
			default:
			}
		}
	}
}

// Module provides the Bus and the Outbox.
var Module = fx.Module("events",
	fx.Provide(NewBus),
	fx.Provide(NewOutbox),
)
