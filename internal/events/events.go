// Package events carries live state changes of a generated level (puzzles,
// doors, secrets, hazards) from the session to whoever is listening.
package events

import (
	"sync"

	"github.com/lawnchairsociety/delvegen/internal/dungeon"
)

// Type identifies an event.
type Type string

const (
	PuzzleProgress  Type = "puzzle_progress"
	PuzzleSolved    Type = "puzzle_solved"
	KeyPickedUp     Type = "key_picked_up"
	DoorUnlocked    Type = "door_unlocked"
	SecretRevealed  Type = "secret_revealed"
	HazardTriggered Type = "hazard_triggered"
	HazardDisabled  Type = "hazard_disabled"
)

// Event is anything published on a Bus.
type Event interface {
	Type() Type
}

// Handler processes one event.
type Handler func(Event)

type PuzzleEvent struct {
	Kind     Type
	PuzzleID string
	RoomID   int
	Resource string // set on PuzzleSolved
	Amount   int
}

func (e PuzzleEvent) Type() Type { return e.Kind }

type KeyEvent struct {
	KeyID    string
	Position dungeon.Point
}

func (KeyEvent) Type() Type { return KeyPickedUp }

type DoorEvent struct {
	DoorID string
	KeyID  string
	RoomID int
}

func (DoorEvent) Type() Type { return DoorUnlocked }

type SecretEvent struct {
	SecretID string
	RoomID   int
	Position dungeon.Point
}

func (SecretEvent) Type() Type { return SecretRevealed }

type HazardEvent struct {
	Kind     Type
	HazardID string
	Damage   int
}

func (e HazardEvent) Type() Type { return e.Kind }

type subscription struct {
	id      int
	handler Handler
}

// Bus dispatches events to subscribers synchronously, in subscription order.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[Type][]subscription
	all    []subscription
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{subs: make(map[Type][]subscription)}
}

// Subscribe registers a handler for one event type. The returned function
// removes it.
func (b *Bus) Subscribe(t Type, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs[t] = append(b.subs[t], subscription{id: id, handler: h})
	return func() { b.remove(t, id) }
}

// SubscribeAll registers a handler for every event.
func (b *Bus) SubscribeAll(h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.all = append(b.all, subscription{id: id, handler: h})
	return func() { b.remove("", id) }
}

func (b *Bus) remove(t Type, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.all
	if t != "" {
		list = b.subs[t]
	}
	kept := make([]subscription, 0, len(list))
	for _, s := range list {
		if s.id != id {
			kept = append(kept, s)
		}
	}

	switch {
	case t == "":
		b.all = kept
	case len(kept) == 0:
		delete(b.subs, t)
	default:
		b.subs[t] = kept
	}
}

// Publish delivers the event to type subscribers, then to catch-all ones.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[e.Type()])+len(b.all))
	for _, s := range b.subs[e.Type()] {
		handlers = append(handlers, s.handler)
	}
	for _, s := range b.all {
		handlers = append(handlers, s.handler)
	}
	b.mu.RUnlock()

	// Handlers run unlocked so they may publish or subscribe themselves
	for _, h := range handlers {
		h(e)
	}
}
