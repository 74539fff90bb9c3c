package game

import (
	"errors"
	"fmt"
)

// FormattingOptions controls how events are formatted for different contexts
type FormattingOptions struct {
	ShowTotals     bool // Append running totals to dealt cards
	ShowRejections bool // Include rejected actions (noisy, off for history)
	ShowPhases     bool // Include every phase transition
}

// EventFormatter turns session events into one-line log entries
type EventFormatter struct {
	opts FormattingOptions
}

// NewEventFormatter creates a new event formatter with the given options
func NewEventFormatter(opts FormattingOptions) *EventFormatter {
	return &EventFormatter{opts: opts}
}

// Format returns the text for an event, or "" when the options hide it
func (ef *EventFormatter) Format(event GameEvent) string {
	switch e := event.(type) {
	case PhaseChangeEvent:
		return ef.FormatPhaseChange(e)
	case BetPlacedEvent:
		return fmt.Sprintf("Bet $%d (total $%d, balance $%d)", e.Chip, e.Bet, e.Balance)
	case CardDealtEvent:
		return ef.FormatCardDealt(e)
	case HoleRevealedEvent:
		return fmt.Sprintf("Dealer reveals %s (%d)", e.Card, e.Total)
	case RoundSettledEvent:
		return ef.FormatRoundSettled(e)
	case ActionRejectedEvent:
		if !ef.opts.ShowRejections {
			return ""
		}
		return ef.FormatRejection(e)
	case SessionResetEvent:
		return fmt.Sprintf("New session with $%d", e.Balance)
	default:
		return ""
	}
}

// FormatPhaseChange announces a round and the end of the player's turn
func (ef *EventFormatter) FormatPhaseChange(event PhaseChangeEvent) string {
	switch {
	case event.To == PhaseBetting:
		return fmt.Sprintf("*** ROUND %d ***", event.Round)
	case ef.opts.ShowPhases:
		return fmt.Sprintf("%s -> %s", event.From, event.To)
	default:
		return ""
	}
}

// FormatCardDealt formats a dealt card, masking the hole card
func (ef *EventFormatter) FormatCardDealt(event CardDealtEvent) string {
	who := "Player"
	if event.To == ToDealer {
		who = "Dealer"
	}
	if event.Hidden {
		return fmt.Sprintf("%s: [hole card]", who)
	}
	text := fmt.Sprintf("%s: %s", who, event.Card)
	if ef.opts.ShowTotals {
		text += fmt.Sprintf(" (%d)", event.Total)
	}
	return text
}

// FormatRoundSettled formats the result line and, optionally, both hands
func (ef *EventFormatter) FormatRoundSettled(event RoundSettledEvent) string {
	r := event.Result
	if !ef.opts.ShowTotals {
		return r.Message()
	}
	return fmt.Sprintf("%s [%s] vs [%s]", r.Message(), formatCards(r.PlayerCards), formatCards(r.DealerCards))
}

// FormatRejection explains why an action was refused
func (ef *EventFormatter) FormatRejection(event ActionRejectedEvent) string {
	switch {
	case errors.Is(event.Err, ErrInsufficientFunds):
		return fmt.Sprintf("Not enough money to %s", event.Action)
	case errors.Is(event.Err, ErrNoBet):
		return "Place a bet before dealing"
	default:
		return fmt.Sprintf("Can't %s during %s", event.Action, event.Phase)
	}
}
