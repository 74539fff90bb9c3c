package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"

	"github.com/lox/blackjack/internal/game"
)

// maxChipKeys is how many chips can be bound to the number row
const maxChipKeys = 9

// keyMap holds every binding the table understands. Bindings for actions
// the session does not currently offer are disabled so help hides them.
type keyMap struct {
	Start       key.Binding
	Chips       []key.Binding
	Deal        key.Binding
	Hit         key.Binding
	Stand       key.Binding
	DoubleDown  key.Binding
	KeepPlaying key.Binding
	Home        key.Binding
	ScrollUp    key.Binding
	ScrollDown  key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func newKeyMap(chips []int) keyMap {
	km := keyMap{
		Start: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "start"),
		),
		Deal: key.NewBinding(
			key.WithKeys("d", "enter"),
			key.WithHelp("d", "deal"),
		),
		Hit: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "hit"),
		),
		Stand: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stand"),
		),
		DoubleDown: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "double down"),
		),
		KeepPlaying: key.NewBinding(
			key.WithKeys("enter", "n"),
			key.WithHelp("enter", "keep playing"),
		),
		Home: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "home"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("up", "k", "pgup"),
			key.WithHelp("↑/k", "scroll log"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("down", "j", "pgdown"),
			key.WithHelp("↓/j", "scroll log"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}

	for i, chip := range chips {
		if i == maxChipKeys {
			break
		}
		k := strconv.Itoa(i + 1)
		km.Chips = append(km.Chips, key.NewBinding(
			key.WithKeys(k),
			key.WithHelp(k, fmt.Sprintf("$%d", chip)),
		))
	}
	return km
}

// sync enables exactly the bindings for the offered actions
func (k *keyMap) sync(v game.View) {
	k.Start.SetEnabled(v.Phase == game.PhaseRoundStart)
	for i := range k.Chips {
		k.Chips[i].SetEnabled(v.Can(game.ActionChip))
	}
	k.Deal.SetEnabled(v.Can(game.ActionDeal))
	k.Hit.SetEnabled(v.Can(game.ActionHit))
	k.Stand.SetEnabled(v.Can(game.ActionStand))
	k.DoubleDown.SetEnabled(v.Can(game.ActionDoubleDown))
	k.KeepPlaying.SetEnabled(v.Can(game.ActionKeepPlaying))
	k.Home.SetEnabled(v.Phase != game.PhaseRoundStart)
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	bindings := []key.Binding{k.Start}
	bindings = append(bindings, k.Chips...)
	return append(bindings, k.Deal, k.Hit, k.Stand, k.DoubleDown, k.KeepPlaying, k.Home, k.Help, k.Quit)
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		append([]key.Binding{k.Start, k.Deal}, k.Chips...),
		{k.Hit, k.Stand, k.DoubleDown},
		{k.KeepPlaying, k.Home},
		{k.ScrollUp, k.ScrollDown, k.Help, k.Quit},
	}
}
