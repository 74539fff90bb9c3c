package deck

// Stacked deals a fixed sequence of cards before handing over to a fallback
// source. It is used to replay known rounds.
type Stacked struct {
	cards    []Card
	next     int
	fallback Source
}

// NewStacked returns a source that deals cards in order. Once they run out
// it deals from fallback, or starts over from the first card if fallback is
// nil.
func NewStacked(cards []Card, fallback Source) *Stacked {
	return &Stacked{cards: cards, fallback: fallback}
}

// Deal deals the next stacked card
func (s *Stacked) Deal() Card {
	if s.next >= len(s.cards) {
		if s.fallback != nil {
			return s.fallback.Deal()
		}
		if len(s.cards) == 0 {
			return Card{}
		}
		s.next = 0
	}
	card := s.cards[s.next]
	s.next++
	return card
}

// CardsRemaining returns the number of stacked cards not yet dealt
func (s *Stacked) CardsRemaining() int {
	return len(s.cards) - s.next
}
