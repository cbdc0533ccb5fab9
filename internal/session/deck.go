package session

import "github.com/abhisek/studyforge/internal/studyplan"

// Deck walks through a day's flashcards.
type Deck struct {
	Cards   []studyplan.Flashcard
	Index   int
	Flipped bool
}

// NewDeck returns a deck positioned on the first card, front side up.
func NewDeck(cards []studyplan.Flashcard) *Deck {
	d := &Deck{}
	d.Reset(cards)
	return d
}

// Reset replaces the cards and returns to the first card, front side up.
func (d *Deck) Reset(cards []studyplan.Flashcard) {
	d.Cards = cards
	d.Index = 0
	d.Flipped = false
}

// Len returns the number of cards.
func (d *Deck) Len() int {
	return len(d.Cards)
}

// Current returns the card on top, or false for an empty deck.
func (d *Deck) Current() (studyplan.Flashcard, bool) {
	if len(d.Cards) == 0 {
		return studyplan.Flashcard{}, false
	}
	return d.Cards[d.Index], true
}

// ToggleFlip turns the current card over.
func (d *Deck) ToggleFlip() {
	if len(d.Cards) == 0 {
		return
	}
	d.Flipped = !d.Flipped
}

// Next shows the front of the following card, wrapping to the first.
func (d *Deck) Next() {
	if len(d.Cards) == 0 {
		return
	}
	d.Flipped = false
	d.Index = (d.Index + 1) % len(d.Cards)
}

// Previous shows the front of the preceding card, wrapping to the last.
func (d *Deck) Previous() {
	if len(d.Cards) == 0 {
		return
	}
	d.Flipped = false
	d.Index = (d.Index - 1 + len(d.Cards)) % len(d.Cards)
}
