package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// minLogHeight keeps the log pane usable on short terminals
const minLogHeight = 3

// TUIModel is the Bubble Tea model for a blackjack table. It owns the
// session: every call into it happens on bubbletea's Update goroutine.
type TUIModel struct {
	session   *game.Session
	logger    *log.Logger
	formatter *game.EventFormatter

	// UI components
	keys        keyMap
	help        help.Model
	logViewport viewport.Model

	// State
	gameLog  []string
	status   string
	quitting bool

	// Dimensions
	width  int
	height int
}

// NewTUIModel creates a model driving the given session. The model
// subscribes to the session's events to fill its log pane.
func NewTUIModel(session *game.Session, logger *log.Logger) *TUIModel {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	m := &TUIModel{
		session: session,
		logger:  logger.WithPrefix("tui"),
		formatter: game.NewEventFormatter(game.FormattingOptions{
			ShowTotals:     true,
			ShowRejections: true,
		}),
		keys:        newKeyMap(session.Chips()),
		help:        help.New(),
		logViewport: vp,
	}
	session.EventBus().Subscribe(m)
	m.keys.sync(session.View())
	return m
}

// OnEvent implements game.EventSubscriber
func (m *TUIModel) OnEvent(event game.GameEvent) {
	if entry := m.formatter.Format(event); entry != "" {
		m.AddLogEntry(entry)
	}
}

// Init initializes the TUI model
func (m *TUIModel) Init() tea.Cmd {
	return nil
}

// Update handles messages in the TUI
func (m *TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.logViewport.Width = max(msg.Width-2, 1)
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.ScrollUp):
			m.logViewport.ScrollUp(1)
		case key.Matches(msg, m.keys.ScrollDown):
			m.logViewport.ScrollDown(1)
		case key.Matches(msg, m.keys.Start):
			m.report(m.session.Start())
		default:
			if in, ok := m.inputFor(msg); ok {
				m.report(m.session.Dispatch(in))
			}
		}
		m.keys.sync(m.session.View())
	}
	return m, nil
}

// inputFor maps a key press to a session input
func (m *TUIModel) inputFor(msg tea.KeyMsg) (game.Input, bool) {
	chips := m.session.Chips()
	for i, b := range m.keys.Chips {
		if key.Matches(msg, b) {
			return game.ChipSelected(chips[i]), true
		}
	}
	switch {
	case key.Matches(msg, m.keys.Deal):
		return game.Pressed(game.ActionDeal), true
	case key.Matches(msg, m.keys.Hit):
		return game.Pressed(game.ActionHit), true
	case key.Matches(msg, m.keys.Stand):
		return game.Pressed(game.ActionStand), true
	case key.Matches(msg, m.keys.DoubleDown):
		return game.Pressed(game.ActionDoubleDown), true
	case key.Matches(msg, m.keys.KeepPlaying):
		return game.Pressed(game.ActionKeepPlaying), true
	case key.Matches(msg, m.keys.Home):
		return game.Pressed(game.ActionHome), true
	}
	return game.Input{}, false
}

func (m *TUIModel) report(err error) {
	switch {
	case err == nil:
		m.status = ""
	case errors.Is(err, game.ErrInsufficientFunds):
		m.status = "Not enough money"
	default:
		m.status = err.Error()
	}
}

// View renders the TUI
func (m *TUIModel) View() string {
	if m.quitting {
		return ""
	}

	v := m.session.View()
	if v.Phase == game.PhaseRoundStart {
		return m.renderStartScreen(v)
	}

	header := m.renderHeader(v)
	table := TablePaneStyle.Width(max(m.width-2, 1)).Render(m.renderTable(v))
	footer := m.renderFooter()

	logHeight := m.height - lipgloss.Height(header) - lipgloss.Height(table) - lipgloss.Height(footer) - 2
	m.logViewport.Height = max(logHeight, minLogHeight)
	logPane := PaneStyle.Width(max(m.width-2, 1)).Render(m.logViewport.View())

	return lipgloss.JoinVertical(lipgloss.Left, header, table, logPane, footer)
}

func (m *TUIModel) renderStartScreen(v game.View) string {
	var content strings.Builder
	content.WriteString(TitleStyle.Render("♠ ♥ BLACKJACK ♦ ♣"))
	content.WriteString("\n\n")
	content.WriteString(HandInfoStyle.Render(fmt.Sprintf("Balance: $%d", v.Balance)))
	content.WriteString("\n")
	content.WriteString(InfoStyle.Render("Dealer draws until the low total reaches 17. Wins pay 1:1."))
	content.WriteString("\n\n")
	content.WriteString(m.help.View(m.keys))
	return content.String()
}

func (m *TUIModel) renderHeader(v game.View) string {
	header := fmt.Sprintf("Round %d  •  Balance $%d  •  Bet $%d", v.Round, v.Balance, v.Bet)
	if v.CardsLeft >= 0 {
		header += fmt.Sprintf("  •  %d cards to reshuffle", v.CardsLeft)
	}
	return HeaderStyle.Render(header)
}

// renderTable renders both hands, the result and the offered actions
func (m *TUIModel) renderTable(v game.View) string {
	var content strings.Builder

	content.WriteString("Dealer: ")
	if len(v.Dealer.Cards) > 0 {
		content.WriteString(formatDealerCards(v.Dealer))
		content.WriteString(fmt.Sprintf(" (%d)", v.Dealer.Best))
		if v.Dealer.Bust {
			content.WriteString(" ")
			content.WriteString(ErrorStyle.Render("BUST"))
		}
	}
	content.WriteString("\n")

	content.WriteString("You:    ")
	for _, h := range v.Hands {
		content.WriteString(formatCards(h.Cards))
		total := fmt.Sprintf(" (%d)", h.Best)
		if h.Soft {
			total = fmt.Sprintf(" (soft %d)", h.Best)
		}
		content.WriteString(total)
		if h.Bust {
			content.WriteString(" ")
			content.WriteString(ErrorStyle.Render("BUST"))
		}
	}
	content.WriteString("\n\n")

	if v.Result != "" {
		content.WriteString(m.resultStyle().Render(v.Result))
		content.WriteString("\n")
	}
	if v.Broke {
		content.WriteString(WarningStyle.Render("Out of money. Press esc to start over."))
		content.WriteString("\n")
	}
	content.WriteString(renderActions(v))
	return content.String()
}

func (m *TUIModel) resultStyle() lipgloss.Style {
	result, ok := m.session.Result()
	if !ok {
		return InfoStyle
	}
	switch result.Settlement.Outcome {
	case game.OutcomeWin:
		return SuccessStyle
	case game.OutcomeLoss:
		return ErrorStyle
	default:
		return WarningStyle
	}
}

func (m *TUIModel) renderFooter() string {
	var content strings.Builder
	if m.status != "" {
		content.WriteString(ErrorStyle.Render(m.status))
		content.WriteString("\n")
	}
	content.WriteString(m.help.View(m.keys))
	return content.String()
}

// renderActions renders the offered actions
func renderActions(v game.View) string {
	var actions []string
	for _, a := range v.Actions {
		switch a {
		case game.ActionChip:
			for _, chip := range v.Chips {
				if chip <= v.Balance {
					actions = append(actions, WarningStyle.Render(fmt.Sprintf("[$%d]", chip)))
				}
			}
		case game.ActionHome:
		default:
			actions = append(actions, SuccessStyle.Render("["+a.String()+"]"))
		}
	}
	if len(actions) == 0 {
		return ""
	}
	return ActionsStyle.Render("Actions: " + strings.Join(actions, " "))
}

// formatCards formats cards with colors
func formatCards(cards []deck.Card) string {
	if len(cards) == 0 {
		return ""
	}

	var formatted []string
	for _, card := range cards {
		formatted = append(formatted, formatCard(card))
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

func formatDealerCards(d game.DealerView) string {
	var formatted []string
	for i, card := range d.Cards {
		if i == 0 && d.HoleHidden {
			formatted = append(formatted, HiddenCardStyle.Render("??"))
			continue
		}
		formatted = append(formatted, formatCard(card))
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

func formatCard(card deck.Card) string {
	if card.IsRed() {
		return RedCardStyle.Render(card.String())
	}
	return BlackCardStyle.Render(card.String())
}

// AddLogEntry adds an entry to the game log and scrolls to it
func (m *TUIModel) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(GameLogStyle.Render(strings.Join(m.gameLog, "\n")))

	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// Log returns the log entries written so far
func (m *TUIModel) Log() []string {
	return append([]string(nil), m.gameLog...)
}
