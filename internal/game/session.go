package game

import (
	"errors"
	"fmt"
	"io"
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/roundid"
)

// RoundResult is the record kept for every settled round
type RoundResult struct {
	ID          string
	Round       int
	Settlement  Settlement
	Balance     int
	DoubledDown bool
	PlayerCards []deck.Card
	DealerCards []deck.Card
	At          time.Time
}

// Message is the result text for the round
func (r RoundResult) Message() string { return r.Settlement.Message() }

// SessionOption configures a Session during creation.
type SessionOption func(*sessionConfig)

type sessionConfig struct {
	logger          *log.Logger
	clock           quartz.Clock
	bus             EventBus
	source          deck.Source
	decks           int
	startingBalance int
	chips           []int
	policy          DealerPolicy
}

// WithLogger sets the session logger
func WithLogger(logger *log.Logger) SessionOption {
	return func(c *sessionConfig) { c.logger = logger }
}

// WithClock sets the clock used to timestamp events and results
func WithClock(clock quartz.Clock) SessionOption {
	return func(c *sessionConfig) { c.clock = clock }
}

// WithEventBus publishes session events on an existing bus
func WithEventBus(bus EventBus) SessionOption {
	return func(c *sessionConfig) { c.bus = bus }
}

// WithSource deals from src instead of a freshly shuffled deck
func WithSource(src deck.Source) SessionOption {
	return func(c *sessionConfig) { c.source = src }
}

// WithDecks deals from a shoe of n decks (1 means a single deck)
func WithDecks(n int) SessionOption {
	return func(c *sessionConfig) { c.decks = n }
}

// WithStartingBalance sets the balance restored by every session start
func WithStartingBalance(balance int) SessionOption {
	return func(c *sessionConfig) { c.startingBalance = balance }
}

// WithChips sets the chip denominations accepted for bets
func WithChips(chips []int) SessionOption {
	return func(c *sessionConfig) { c.chips = chips }
}

// WithDealerPolicy overrides the dealer's stand thresholds
func WithDealerPolicy(p DealerPolicy) SessionOption {
	return func(c *sessionConfig) { c.policy = p }
}

// Session is one player's game: the deck, the account and the round state
// machine. It is not safe for concurrent use; callers serialise every call.
type Session struct {
	cfg     sessionConfig
	logger  *log.Logger
	clock   quartz.Clock
	bus     EventBus
	source  deck.Source
	account *Account
	dealer  *DealerHand
	ids     *roundid.Generator

	phase       Phase
	round       int
	roundID     string
	settled     bool
	doubledDown bool
	result      *RoundResult
	history     []RoundResult
}

// NewSession creates a session in the RoundStart phase. The RNG shuffles the
// deck when no source is supplied; a nil RNG is seeded from the time.
func NewSession(rng *rand.Rand, opts ...SessionOption) *Session {
	cfg := sessionConfig{
		decks:           1,
		startingBalance: DefaultStartingBalance,
		chips:           DefaultChips,
		policy:          DefaultDealerPolicy,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.New(io.Discard)
	}
	if cfg.clock == nil {
		cfg.clock = quartz.NewReal()
	}
	if cfg.bus == nil {
		cfg.bus = NewEventBus()
	}
	if cfg.source == nil {
		if rng == nil {
			rng = randutil.New(randutil.Resolve(0))
		}
		cfg.source = deck.New(rng, cfg.decks)
	}

	return &Session{
		cfg:     cfg,
		logger:  cfg.logger.WithPrefix("session"),
		clock:   cfg.clock,
		bus:     cfg.bus,
		source:  cfg.source,
		account: NewAccount(cfg.startingBalance, cfg.chips),
		ids:     roundid.NewGenerator(cfg.clock),
		phase:   PhaseRoundStart,
	}
}

// EventBus returns the bus session events are published on
func (s *Session) EventBus() EventBus { return s.bus }

// Phase returns the current phase
func (s *Session) Phase() Phase { return s.phase }

// Round returns the current round number, starting at 1
func (s *Session) Round() int { return s.round }

// Balance returns the player's balance
func (s *Session) Balance() int { return s.account.Balance() }

// Bet returns the amount wagered on the current round
func (s *Session) Bet() int { return s.account.Bet() }

// Chips returns the accepted chip denominations
func (s *Session) Chips() []int { return s.account.Chips() }

// Result returns the result of the round just settled. It is only set
// during RoundEnd.
func (s *Session) Result() (RoundResult, bool) {
	if s.result == nil {
		return RoundResult{}, false
	}
	return *s.result, true
}

// History returns every round settled since the session started
func (s *Session) History() []RoundResult {
	return append([]RoundResult(nil), s.history...)
}

// PlayerHand returns a copy of the player's active hand
func (s *Session) PlayerHand() (Hand, error) {
	h, err := s.account.ActiveHand()
	if err != nil {
		return Hand{}, err
	}
	return h.clone(), nil
}

// DealerHand returns a copy of the dealer's hand
func (s *Session) DealerHand() (DealerHand, error) {
	if s.dealer == nil || len(s.dealer.Cards) == 0 {
		return DealerHand{}, ErrEmptyHand
	}
	return s.dealer.clone(), nil
}

// Start completes round setup and opens betting
func (s *Session) Start() error {
	if s.phase != PhaseRoundStart {
		return fmt.Errorf("%w: session already started (%s)", ErrInvalidAction, s.phase)
	}
	s.round = 1
	s.logger.Info("Session started", "balance", s.account.Balance())
	s.setPhase(PhaseBetting)
	return nil
}

// Dispatch routes one inbound event to the matching operation
func (s *Session) Dispatch(in Input) error {
	switch in.Action {
	case ActionChip:
		return s.PlaceBet(in.Chip)
	case ActionDeal:
		return s.Deal()
	case ActionHit:
		return s.Hit()
	case ActionStand:
		return s.Stand()
	case ActionDoubleDown:
		return s.DoubleDown()
	case ActionKeepPlaying:
		return s.KeepPlaying()
	case ActionHome:
		return s.Home()
	default:
		return s.reject(in.Action, &ActionError{Action: in.Action, Phase: s.phase})
	}
}

// PlaceBet adds a chip to the bet while betting is open
func (s *Session) PlaceBet(chip int) error {
	if err := s.require(ActionChip); err != nil {
		return err
	}
	if err := s.account.PlaceBet(chip); err != nil {
		return s.reject(ActionChip, err)
	}
	s.logger.Debug("Bet placed", "chip", chip, "bet", s.account.Bet(), "balance", s.account.Balance())
	s.bus.Publish(BetPlacedEvent{
		Chip:      chip,
		Bet:       s.account.Bet(),
		Balance:   s.account.Balance(),
		timestamp: s.clock.Now(),
	})
	return nil
}

// Deal closes betting, deals two cards each and hands the turn to the player
func (s *Session) Deal() error {
	if err := s.require(ActionDeal); err != nil {
		return err
	}
	if s.account.Bet() <= 0 {
		return s.reject(ActionDeal, ErrNoBet)
	}

	s.roundID = s.ids.Next()
	hand := s.account.DealInitial(s.source)
	s.dealer = &DealerHand{}
	s.dealer.Add(s.source.Deal())
	s.dealer.Add(s.source.Deal())

	for i, c := range hand.Cards {
		s.publishCard(ToPlayer, c, false, BestTotal(hand.Cards[:i+1]))
	}
	s.publishCard(ToDealer, s.dealer.Cards[0], true, 0)
	s.publishCard(ToDealer, s.dealer.Cards[1], false, BestTotal(s.dealer.Visible()))

	s.logger.Debug("Cards dealt", "player", hand.String(), "dealer_up", s.dealer.Cards[1].String())
	s.setPhase(PhasePlayerTurn)
	return nil
}

// Hit deals the player one card; a bust ends the round
func (s *Session) Hit() error {
	if err := s.require(ActionHit); err != nil {
		return err
	}
	c, err := s.account.Hit(s.source)
	if err != nil {
		return s.reject(ActionHit, err)
	}
	hand, _ := s.account.ActiveHand()
	s.publishCard(ToPlayer, c, false, hand.Best())

	if hand.IsBust() {
		s.logger.Debug("Player bust", "hand", hand.String())
		s.leavePlayerTurn(PhaseRoundEnd)
	}
	return nil
}

// Stand ends the player's turn
func (s *Session) Stand() error {
	if err := s.require(ActionStand); err != nil {
		return err
	}
	s.leavePlayerTurn(PhaseDealerTurn)
	return nil
}

// DoubleDown doubles the bet, deals one last card and ends the player's turn
func (s *Session) DoubleDown() error {
	if err := s.require(ActionDoubleDown); err != nil {
		return err
	}
	c, err := s.account.DoubleDown(s.source)
	if err != nil {
		return s.reject(ActionDoubleDown, err)
	}
	s.doubledDown = true
	hand, _ := s.account.ActiveHand()
	s.publishCard(ToPlayer, c, false, hand.Best())
	s.logger.Debug("Doubled down", "bet", s.account.Bet(), "balance", s.account.Balance())

	if hand.IsBust() {
		s.leavePlayerTurn(PhaseRoundEnd)
	} else {
		s.leavePlayerTurn(PhaseDealerTurn)
	}
	return nil
}

// KeepPlaying clears the table and opens betting for the next round
func (s *Session) KeepPlaying() error {
	if err := s.require(ActionKeepPlaying); err != nil {
		return err
	}
	s.account.clearRound()
	s.dealer = nil
	s.result = nil
	s.settled = false
	s.doubledDown = false
	s.round++
	s.setPhase(PhaseBetting)
	return nil
}

// Home abandons the session: hands and bet are discarded, the balance goes
// back to the starting balance and the phase returns to RoundStart.
func (s *Session) Home() error {
	s.account.reset(s.cfg.startingBalance)
	s.dealer = nil
	s.result = nil
	s.settled = false
	s.doubledDown = false
	s.history = nil
	s.round = 0

	s.logger.Info("Session reset", "balance", s.account.Balance())
	s.bus.Publish(SessionResetEvent{Balance: s.account.Balance(), timestamp: s.clock.Now()})
	if s.phase != PhaseRoundStart {
		s.setPhase(PhaseRoundStart)
	}
	return nil
}

// leavePlayerTurn reveals the hole card and moves to the next phase
func (s *Session) leavePlayerTurn(next Phase) {
	if s.dealer.Reveal() {
		s.logger.Debug("Hole card revealed", "card", s.dealer.Cards[0].String())
		s.bus.Publish(HoleRevealedEvent{
			Card:      s.dealer.Cards[0],
			Total:     s.dealer.Best(),
			timestamp: s.clock.Now(),
		})
	}
	switch next {
	case PhaseDealerTurn:
		s.setPhase(PhaseDealerTurn)
		s.playDealer()
	default:
		s.setPhase(PhaseRoundEnd)
		s.settle()
	}
}

// playDealer runs the dealer policy once and ends the round
func (s *Session) playDealer() {
	before := len(s.dealer.Cards)
	drawn := s.cfg.policy.Play(s.source, s.dealer)
	for i := before; i < before+drawn; i++ {
		s.publishCard(ToDealer, s.dealer.Cards[i], false, BestTotal(s.dealer.Cards[:i+1]))
	}
	s.logger.Debug("Dealer played", "drawn", drawn, "total", s.dealer.Best(), "bust", s.dealer.IsBust())
	s.setPhase(PhaseRoundEnd)
	s.settle()
}

// settle pays out the round. It runs at most once per round.
func (s *Session) settle() {
	if s.settled {
		return
	}
	hand, err := s.account.ActiveHand()
	if err != nil {
		s.logger.Error("Settlement without a hand", "round", s.round)
		return
	}
	s.settled = true

	st := Settle(hand.Cards, s.dealer.Cards, s.account.Bet())
	s.account.credit(st.Payout)

	result := RoundResult{
		ID:          s.roundID,
		Round:       s.round,
		Settlement:  st,
		Balance:     s.account.Balance(),
		DoubledDown: s.doubledDown,
		PlayerCards: append([]deck.Card(nil), hand.Cards...),
		DealerCards: append([]deck.Card(nil), s.dealer.Cards...),
		At:          s.clock.Now(),
	}
	s.result = &result
	s.history = append(s.history, result)

	// Cards stay on the table for display; only the bet is cleared.
	s.account.clearBet()

	s.logger.Info("Round settled",
		"round", s.round,
		"id", result.ID,
		"outcome", st.Outcome,
		"bet", st.Bet,
		"payout", st.Payout,
		"player", st.PlayerTotal,
		"dealer", st.DealerTotal,
		"balance", s.account.Balance())
	s.bus.Publish(RoundSettledEvent{Result: result, timestamp: result.At})
}

// require rejects an action the current phase does not accept
func (s *Session) require(a Action) error {
	if s.phase.Accepts(a) {
		return nil
	}
	return s.reject(a, &ActionError{Action: a, Phase: s.phase})
}

func (s *Session) reject(a Action, err error) error {
	if errors.Is(err, ErrInsufficientFunds) {
		s.logger.Warn("Insufficient funds", "action", a, "balance", s.account.Balance(), "bet", s.account.Bet())
	} else {
		s.logger.Debug("Action rejected", "action", a, "phase", s.phase, "error", err)
	}
	s.bus.Publish(ActionRejectedEvent{
		Action:    a,
		Phase:     s.phase,
		Err:       err,
		timestamp: s.clock.Now(),
	})
	return err
}

func (s *Session) setPhase(p Phase) {
	from := s.phase
	s.phase = p
	s.logger.Debug("Phase change", "from", from, "to", p, "round", s.round)
	s.bus.Publish(PhaseChangeEvent{From: from, To: p, Round: s.round, timestamp: s.clock.Now()})
}

func (s *Session) publishCard(to Recipient, c deck.Card, hidden bool, total int) {
	ev := CardDealtEvent{To: to, Card: c, Hidden: hidden, Total: total, timestamp: s.clock.Now()}
	if hidden {
		ev.Card = deck.Card{}
	}
	s.bus.Publish(ev)
}
