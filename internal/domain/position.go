package domain

import (
	"errors"
	"fmt"
)

// PositionKind identifies the rule family of a board position.
type PositionKind string

const (
	PositionTower      PositionKind = "tower"
	PositionHarvest    PositionKind = "harvest"
	PositionProduction PositionKind = "production"
	PositionMarket     PositionKind = "market"
	PositionCouncil    PositionKind = "council"
)

// AllPositionKinds lists every position rule family.
var AllPositionKinds = []PositionKind{
	PositionTower, PositionHarvest, PositionProduction, PositionMarket, PositionCouncil,
}

// Occupation errors. They concern a single move attempt and never abort
// the match.
var (
	ErrUnknownPosition = errors.New("unknown position")
	ErrAlreadyOccupied = errors.New("position already occupied")
	ErrNotAffordable   = errors.New("cost not affordable")
)

// Position is a single occupiable slot on the board. A position is
// either free or held by exactly one player; occupancy only resets when
// the board frees all positions at the start of a turn.
type Position struct {
	Number   int          `yaml:"number" json:"number"`
	Kind     PositionKind `yaml:"kind" json:"kind"`
	CardKind CardKind     `yaml:"card_kind,omitempty" json:"card_kind,omitempty"`
	Floor    int          `yaml:"floor,omitempty" json:"floor,omitempty"`
	MinValue int          `yaml:"min_value" json:"min_value"`
	Reward   Resources    `yaml:"reward,omitempty" json:"reward,omitempty"`

	Card     *Card  `yaml:"-" json:"card,omitempty"`
	Occupant string `yaml:"-" json:"occupant,omitempty"`
}

// Choice is one selectable way to occupy a position: a card cost to pay
// and/or an effect to activate.
type Choice struct {
	CostIndex int     `json:"cost_index"`
	Cost      *Cost   `json:"cost,omitempty"`
	Effect    *Effect `json:"effect,omitempty"`
}

// Free clears the occupant so the position can be claimed again.
func (p *Position) Free() {
	p.Occupant = ""
}

type positionBehavior struct {
	canOccupy func(*Position, *PlayerState) []Choice
	occupy    func(*Position, *PlayerState, []Choice) error
}

// positionBehaviors is the kind→behavior table; position rules are data
// plus one row here, not a type hierarchy.
var positionBehaviors = map[PositionKind]positionBehavior{
	PositionTower:      {canOccupy: towerChoices, occupy: occupyTower},
	PositionHarvest:    {canOccupy: actionChoices, occupy: occupyAction},
	PositionProduction: {canOccupy: actionChoices, occupy: occupyAction},
	PositionMarket:     {canOccupy: actionChoices, occupy: occupyAction},
	PositionCouncil:    {canOccupy: actionChoices, occupy: occupyAction},
}

// CanOccupy returns the choices currently open to the player on this
// position. Read-only; an occupied or unaffordable position yields nil.
func (p *Position) CanOccupy(ps *PlayerState) []Choice {
	b, ok := positionBehaviors[p.Kind]
	if !ok {
		return nil
	}
	return b.canOccupy(p, ps)
}

// Occupy claims the position for the player, paying and applying the
// chosen options. The player's state is mutated on success.
func (p *Position) Occupy(ps *PlayerState, chosen []Choice) error {
	b, ok := positionBehaviors[p.Kind]
	if !ok {
		return fmt.Errorf("position %d has kind %q: %w", p.Number, p.Kind, ErrUnknownPosition)
	}
	return b.occupy(p, ps, chosen)
}

func towerChoices(p *Position, ps *PlayerState) []Choice {
	if p.Occupant != "" || p.Card == nil || !ps.HasTokenFor(p.MinValue) {
		return nil
	}

	costs := p.Card.AffordableCosts(ps)
	choices := make([]Choice, 0, len(costs))
	for i := range costs {
		cost := costs[i]
		choices = append(choices, Choice{CostIndex: i, Cost: &cost})
	}
	return choices
}

func occupyTower(p *Position, ps *PlayerState, chosen []Choice) error {
	if p.Occupant != "" {
		return fmt.Errorf("position %d: %w", p.Number, ErrAlreadyOccupied)
	}
	if p.Card == nil {
		return fmt.Errorf("position %d holds no card: %w", p.Number, ErrNotAffordable)
	}

	affordable := p.Card.AffordableCosts(ps)
	if len(affordable) == 0 || !ps.HasTokenFor(p.MinValue) {
		return fmt.Errorf("position %d: %w", p.Number, ErrNotAffordable)
	}

	// Default to the first affordable cost when the client picked none.
	cost := affordable[0]
	if len(chosen) > 0 {
		idx := chosen[0].CostIndex
		if idx < 0 || idx >= len(affordable) {
			return fmt.Errorf("position %d cost %d: %w", p.Number, idx, ErrNotAffordable)
		}
		cost = affordable[idx]
	}

	ps.UseTokenFor(p.MinValue)
	ps.Resources.Pay(cost.Resources)

	card := *p.Card
	ps.AddCard(card)
	for _, e := range card.EffectsByTiming(TimingImmediate) {
		if e.CanApply(ps) {
			e.Apply(ps)
		}
	}

	p.Card = nil
	p.Occupant = ps.ID
	return nil
}

func actionChoices(p *Position, ps *PlayerState) []Choice {
	if p.Occupant != "" || !ps.HasTokenFor(p.MinValue) {
		return nil
	}
	reward := Effect{Kind: EffectGainResources, Timing: TimingImmediate, Resources: p.Reward}
	return []Choice{{CostIndex: -1, Effect: &reward}}
}

func occupyAction(p *Position, ps *PlayerState, _ []Choice) error {
	if p.Occupant != "" {
		return fmt.Errorf("position %d: %w", p.Number, ErrAlreadyOccupied)
	}
	if !ps.HasTokenFor(p.MinValue) {
		return fmt.Errorf("position %d needs value %d: %w", p.Number, p.MinValue, ErrNotAffordable)
	}

	ps.UseTokenFor(p.MinValue)
	ps.Resources.Add(p.Reward)

	// Harvest reactivates territory yields, production building yields.
	switch p.Kind {
	case PositionHarvest:
		applyCardYields(ps, Territory)
	case PositionProduction:
		applyCardYields(ps, Building)
	}

	p.Occupant = ps.ID
	return nil
}

func applyCardYields(ps *PlayerState, kind CardKind) {
	for _, c := range ps.Cards[kind] {
		for _, e := range c.EffectsByTiming(TimingPermanent) {
			if e.Kind == EffectGainResources && e.CanApply(ps) {
				e.Apply(ps)
			}
		}
	}
}
