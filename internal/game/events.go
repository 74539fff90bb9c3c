package game

import (
	"time"

	"github.com/lox/blackjack/internal/deck"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events
const (
	EventTypePhaseChange    EventType = "phase_change"
	EventTypeBetPlaced      EventType = "bet_placed"
	EventTypeCardDealt      EventType = "card_dealt"
	EventTypeHoleRevealed   EventType = "hole_revealed"
	EventTypeRoundSettled   EventType = "round_settled"
	EventTypeActionRejected EventType = "action_rejected"
	EventTypeSessionReset   EventType = "session_reset"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any state change the session reports outward
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// PhaseChangeEvent is published on every state machine transition
type PhaseChangeEvent struct {
	From      Phase
	To        Phase
	Round     int
	timestamp time.Time
}

func (e PhaseChangeEvent) EventType() EventType { return EventTypePhaseChange }
func (e PhaseChangeEvent) Timestamp() time.Time { return e.timestamp }

// BetPlacedEvent is published when a chip moves onto the bet
type BetPlacedEvent struct {
	Chip      int
	Bet       int
	Balance   int
	timestamp time.Time
}

func (e BetPlacedEvent) EventType() EventType { return EventTypeBetPlaced }
func (e BetPlacedEvent) Timestamp() time.Time { return e.timestamp }

// Recipient identifies who a card was dealt to
type Recipient int

const (
	ToPlayer Recipient = iota
	ToDealer
)

func (r Recipient) String() string {
	if r == ToDealer {
		return "dealer"
	}
	return "player"
}

// CardDealtEvent is published for every card leaving the source. Hidden
// cards carry the zero Card so subscribers cannot peek at the hole card.
type CardDealtEvent struct {
	To        Recipient
	Card      deck.Card
	Hidden    bool
	Total     int
	timestamp time.Time
}

func (e CardDealtEvent) EventType() EventType { return EventTypeCardDealt }
func (e CardDealtEvent) Timestamp() time.Time { return e.timestamp }

// HoleRevealedEvent is published when the dealer's hole card is turned up
type HoleRevealedEvent struct {
	Card      deck.Card
	Total     int
	timestamp time.Time
}

func (e HoleRevealedEvent) EventType() EventType { return EventTypeHoleRevealed }
func (e HoleRevealedEvent) Timestamp() time.Time { return e.timestamp }

// RoundSettledEvent is published once per round with its result
type RoundSettledEvent struct {
	Result    RoundResult
	timestamp time.Time
}

func (e RoundSettledEvent) EventType() EventType { return EventTypeRoundSettled }
func (e RoundSettledEvent) Timestamp() time.Time { return e.timestamp }

// ActionRejectedEvent is published when an action is refused without
// changing state
type ActionRejectedEvent struct {
	Action    Action
	Phase     Phase
	Err       error
	timestamp time.Time
}

func (e ActionRejectedEvent) EventType() EventType { return EventTypeActionRejected }
func (e ActionRejectedEvent) Timestamp() time.Time { return e.timestamp }

// SessionResetEvent is published when Home tears the session down
type SessionResetEvent struct {
	Balance   int
	timestamp time.Time
}

func (e SessionResetEvent) EventType() EventType { return EventTypeSessionReset }
func (e SessionResetEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventSubscriberFunc adapts a function to EventSubscriber
type EventSubscriberFunc func(event GameEvent)

// OnEvent calls f(event)
func (f EventSubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory, synchronous event bus
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events. Func subscribers
// are not comparable and cannot be removed.
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	if _, ok := subscriber.(EventSubscriberFunc); ok {
		return
	}
	for i, sub := range bus.subscribers {
		if _, ok := sub.(EventSubscriberFunc); ok {
			continue
		}
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers in subscription order
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
