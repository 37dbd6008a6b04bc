package domain

import (
	"errors"
	"testing"
)

func TestOccupyTowerPaysAndTakesCard(t *testing.T) {
	card := Card{
		Number: 30,
		Name:   "Mint",
		Kind:   Building,
		Costs:  []Cost{{Resources: Resources{Wood: 1, Rock: 1}}},
		Effects: []Effect{
			{Kind: EffectGainResources, Timing: TimingImmediate, Resources: Resources{MilitaryPoint: 2}},
		},
	}
	p := &Position{Number: 9, Kind: PositionTower, CardKind: Building, Floor: 1, MinValue: 1, Card: &card}
	ps := readyPlayer("mila", 0)

	if err := p.Occupy(ps, nil); err != nil {
		t.Fatalf("Occupy: %v", err)
	}
	if p.Card != nil || p.Occupant != "mila" {
		t.Fatalf("position not claimed: card=%v occupant=%q", p.Card, p.Occupant)
	}
	if ps.CardCount(Building) != 1 {
		t.Fatalf("card not taken")
	}
	if ps.Resources[Wood] != 1 || ps.Resources[Rock] != 1 {
		t.Fatalf("cost not paid: %v", ps.Resources)
	}
	if ps.Resources[MilitaryPoint] != 2 {
		t.Fatalf("immediate effect not applied: %v", ps.Resources)
	}
	if len(ps.Domestics) != 3 {
		t.Fatalf("a token should have been consumed, left %v", ps.Domestics)
	}
}

func TestOccupyTowerChosenCost(t *testing.T) {
	card := Card{
		Number: 31,
		Name:   "Levant Convoy",
		Kind:   Venture,
		Costs: []Cost{
			{Resources: Resources{Gold: 2}},
			{Resources: Resources{Wood: 1}},
		},
	}
	p := &Position{Number: 13, Kind: PositionTower, CardKind: Venture, Floor: 1, MinValue: 1, Card: &card}
	ps := readyPlayer("nora", 0)

	if err := p.Occupy(ps, []Choice{{CostIndex: 1}}); err != nil {
		t.Fatalf("Occupy: %v", err)
	}
	if ps.Resources[Gold] != 5 || ps.Resources[Wood] != 1 {
		t.Fatalf("wrong cost paid: %v", ps.Resources)
	}
}

func TestOccupyTowerRejections(t *testing.T) {
	costly := Card{
		Number: 40, Name: "Cathedral Works", Kind: Building,
		Costs: []Cost{{Resources: Resources{Rock: 9}}},
	}

	tests := []struct {
		name string
		pos  *Position
		ps   *PlayerState
		want error
	}{
		{
			name: "occupied",
			pos:  &Position{Number: 9, Kind: PositionTower, MinValue: 1, Occupant: "other", Card: &Card{Number: 1}},
			ps:   readyPlayer("olga", 0),
			want: ErrAlreadyOccupied,
		},
		{
			name: "no card dealt",
			pos:  &Position{Number: 9, Kind: PositionTower, MinValue: 1},
			ps:   readyPlayer("olga", 0),
			want: ErrNotAffordable,
		},
		{
			name: "unaffordable cost",
			pos:  &Position{Number: 9, Kind: PositionTower, MinValue: 1, Card: &costly},
			ps:   readyPlayer("olga", 0),
			want: ErrNotAffordable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pos.Occupy(tt.ps, nil)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Occupy() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestHarvestReactivatesTerritoryYields(t *testing.T) {
	ps := readyPlayer("pia", 0)
	ps.AddCard(Card{
		Number: 5, Kind: Territory,
		Effects: []Effect{
			{Kind: EffectGainResources, Timing: TimingPermanent, Resources: Resources{Wood: 2}},
		},
	})
	ps.AddCard(Card{
		Number: 6, Kind: Building,
		Effects: []Effect{
			{Kind: EffectGainResources, Timing: TimingPermanent, Resources: Resources{Gold: 3}},
		},
	})

	harvest := &Position{Number: 20, Kind: PositionHarvest, MinValue: 1}
	if err := harvest.Occupy(ps, nil); err != nil {
		t.Fatalf("Occupy: %v", err)
	}

	if ps.Resources[Wood] != 4 {
		t.Fatalf("territory yield missing: %v", ps.Resources)
	}
	if ps.Resources[Gold] != 5 {
		t.Fatalf("building yield must not fire on harvest: %v", ps.Resources)
	}
}

func TestUseTokenForPicksWeakest(t *testing.T) {
	ps := NewPlayerState("rosa", 0)
	ps.SetDomestics(map[TokenColor]int{TokenBlack: 6, TokenOrange: 3, TokenWhite: 5, TokenNeutral: 0})

	if !ps.UseTokenFor(3) {
		t.Fatalf("expected a token for value 3")
	}
	if _, ok := ps.Domestics[TokenOrange]; ok {
		t.Fatalf("weakest adequate token should be consumed, left %v", ps.Domestics)
	}
	if !ps.UseTokenFor(5) || !ps.UseTokenFor(1) {
		t.Fatalf("remaining tokens should still serve")
	}
	if ps.UseTokenFor(1) {
		t.Fatalf("neutral token must not serve positive values")
	}
}

func TestSetDomesticsDiceBonus(t *testing.T) {
	ps := NewPlayerState("sara", 0)
	ps.AddEffect(Effect{Kind: EffectDiceBonus, Timing: TimingPermanent, Dice: 2})

	ps.SetDomestics(map[TokenColor]int{TokenBlack: 3, TokenNeutral: 0})
	if ps.Domestics[TokenBlack] != 5 {
		t.Fatalf("bonus not applied: %v", ps.Domestics)
	}
	if ps.Domestics[TokenNeutral] != 0 {
		t.Fatalf("neutral token must stay zero: %v", ps.Domestics)
	}
}
