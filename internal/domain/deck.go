package domain

import "math/rand"

// SplitDeck keeps the development cards split by kind so each turn can
// deal one card per tower floor of every kind.
type SplitDeck struct {
	byKind map[CardKind][]Card
	dealt  map[CardKind]int
}

// NewSplitDeck splits the given cards by kind.
func NewSplitDeck(cards []Card) *SplitDeck {
	d := &SplitDeck{
		byKind: make(map[CardKind][]Card, len(AllCardKinds)),
		dealt:  make(map[CardKind]int, len(AllCardKinds)),
	}
	for _, c := range cards {
		d.byKind[c.Kind] = append(d.byKind[c.Kind], c)
	}
	return d
}

// Shuffle randomizes every kind's pile independently.
func (d *SplitDeck) Shuffle(rng *rand.Rand) {
	for _, pile := range d.byKind {
		rng.Shuffle(len(pile), func(i, j int) { pile[i], pile[j] = pile[j], pile[i] })
	}
}

// CardsPerTurn returns the next perKind cards of every kind, advancing
// the deal cursor. Exhausted piles yield shorter lists.
func (d *SplitDeck) CardsPerTurn(perKind int) map[CardKind][]Card {
	out := make(map[CardKind][]Card, len(AllCardKinds))
	for _, kind := range AllCardKinds {
		pile := d.byKind[kind]
		from := d.dealt[kind]
		to := from + perKind
		if to > len(pile) {
			to = len(pile)
		}
		out[kind] = pile[from:to]
		d.dealt[kind] = to
	}
	return out
}

// FaithDeck holds the faith penalty effects; one is drawn per period
// and stays in force on the board until replaced.
type FaithDeck struct {
	effects []Effect
}

// NewFaithDeck copies the given penalty effects.
func NewFaithDeck(effects []Effect) *FaithDeck {
	return &FaithDeck{effects: append([]Effect(nil), effects...)}
}

// Shuffle randomizes the draw order.
func (d *FaithDeck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.effects), func(i, j int) {
		d.effects[i], d.effects[j] = d.effects[j], d.effects[i]
	})
}

// EffectsByTurn assigns one penalty to each even turn (2, 4, 6). Odd
// turns have no entry.
func (d *FaithDeck) EffectsByTurn() map[int]Effect {
	out := make(map[int]Effect, 3)
	for i, turn := 0, 2; turn <= 6 && i < len(d.effects); i, turn = i+1, turn+2 {
		out[turn] = d.effects[i]
	}
	return out
}
