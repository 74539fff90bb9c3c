package game

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientFunds is returned when a chip or double-down costs more
	// than the remaining balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInvalidAction is returned when an action arrives in a phase that
	// does not accept it.
	ErrInvalidAction = errors.New("action not valid in current phase")
	// ErrEmptyHand is returned when a hand is queried before one is dealt.
	ErrEmptyHand = errors.New("no hand dealt")
	// ErrNoBet is returned when Deal is pressed with nothing wagered.
	ErrNoBet = errors.New("no bet placed")
	// ErrInvalidChip is returned for chip values outside the configured set.
	ErrInvalidChip = errors.New("invalid chip denomination")
)

// ActionError reports an action rejected because of the current phase.
type ActionError struct {
	Action Action
	Phase  Phase
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s not allowed during %s", e.Action, e.Phase)
}

func (e *ActionError) Unwrap() error { return ErrInvalidAction }
