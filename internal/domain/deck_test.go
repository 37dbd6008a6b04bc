package domain

import (
	"math/rand"
	"testing"
)

func TestSplitDeckDealsPerKind(t *testing.T) {
	var cards []Card
	for i := 0; i < 8; i++ {
		cards = append(cards, Card{Number: i + 1, Kind: Territory})
	}
	for i := 0; i < 3; i++ {
		cards = append(cards, Card{Number: 100 + i, Kind: Venture})
	}
	deck := NewSplitDeck(cards)

	first := deck.CardsPerTurn(4)
	if len(first[Territory]) != 4 || len(first[Venture]) != 3 {
		t.Fatalf("first deal wrong: %d territory, %d venture",
			len(first[Territory]), len(first[Venture]))
	}

	second := deck.CardsPerTurn(4)
	if len(second[Territory]) != 4 {
		t.Fatalf("second deal should continue the pile, got %d", len(second[Territory]))
	}
	if second[Territory][0].Number == first[Territory][0].Number {
		t.Fatalf("deal cursor did not advance")
	}
	if len(second[Venture]) != 0 {
		t.Fatalf("exhausted pile should deal nothing, got %d", len(second[Venture]))
	}
}

func TestSplitDeckShuffleKeepsKinds(t *testing.T) {
	var cards []Card
	for i := 0; i < 10; i++ {
		cards = append(cards, Card{Number: i, Kind: Character})
	}
	deck := NewSplitDeck(cards)
	deck.Shuffle(rand.New(rand.NewSource(1)))

	dealt := deck.CardsPerTurn(10)
	if len(dealt[Character]) != 10 {
		t.Fatalf("shuffle lost cards: %d", len(dealt[Character]))
	}
	for _, c := range dealt[Character] {
		if c.Kind != Character {
			t.Fatalf("kind changed by shuffle: %v", c)
		}
	}
}

func TestFaithDeckEffectsByTurn(t *testing.T) {
	deck := NewFaithDeck([]Effect{
		{Kind: EffectLoseResources, Timing: TimingPenalty, Resources: Resources{Gold: 3}},
		{Kind: EffectSkipFirstRound, Timing: TimingPenalty},
		{Kind: EffectLoseResources, Timing: TimingPenalty, Resources: Resources{MilitaryPoint: 2}},
	})

	byTurn := deck.EffectsByTurn()
	if len(byTurn) != 3 {
		t.Fatalf("expected penalties on turns 2, 4 and 6, got %v", byTurn)
	}
	for _, turn := range []int{2, 4, 6} {
		if _, ok := byTurn[turn]; !ok {
			t.Fatalf("turn %d missing a penalty", turn)
		}
	}
	if _, ok := byTurn[3]; ok {
		t.Fatalf("odd turns must not carry penalties")
	}
}
