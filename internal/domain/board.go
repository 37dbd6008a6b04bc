package domain

import (
	"fmt"
	"math/rand"
	"time"
)

// Position numbers dropped below certain player counts.
const (
	extraHarvestPosition = 21
	extraProductionPos   = 31
	firstExtraMarketPos  = 42
	secondExtraMarketPos = 43
)

// Board owns every position of one match, the tower columns each card
// kind feeds, the pending council order and the standing faith penalty.
// It is built once at match start and mutated only by the match worker;
// CanOccupy-style queries stay read-only.
type Board struct {
	positions  map[int]*Position
	towers     map[CardKind][]*Position
	aggregates map[PositionKind]*PositionAggregate

	pendingOrder []string
	faithEffect  *Effect
}

// NewBoard indexes the given positions, drops the slots the player
// count does not support and wires the aggregates. The resulting key
// set is fixed for the whole match.
func NewBoard(all []*Position, players int) (*Board, error) {
	if players < 2 || players > 4 {
		return nil, fmt.Errorf("unsupported player count %d", players)
	}

	positions := make(map[int]*Position, len(all))
	for _, p := range all {
		if _, dup := positions[p.Number]; dup {
			return nil, fmt.Errorf("duplicate position number %d", p.Number)
		}
		positions[p.Number] = p
	}

	// Two players collapse the parallel harvest/production slots into
	// the single base slot of each kind.
	if players < 3 {
		delete(positions, extraHarvestPosition)
		delete(positions, extraProductionPos)
	}

	// Fewer than four players lose the two extra market slots.
	if players < 4 {
		delete(positions, firstExtraMarketPos)
		delete(positions, secondExtraMarketPos)
	}

	towers := make(map[CardKind][]*Position, len(AllCardKinds))
	for _, p := range positions {
		if p.Kind == PositionTower {
			towers[p.CardKind] = append(towers[p.CardKind], p)
		}
	}
	for _, kind := range AllCardKinds {
		column := towers[kind]
		for i := 0; i < len(column); i++ {
			for j := i + 1; j < len(column); j++ {
				if column[j].Floor < column[i].Floor {
					column[i], column[j] = column[j], column[i]
				}
			}
		}
	}

	return &Board{
		positions:  positions,
		towers:     towers,
		aggregates: Aggregate(positions),
	}, nil
}

// Position returns the position with the given number, if present.
func (b *Board) Position(number int) (*Position, bool) {
	p, ok := b.positions[number]
	return p, ok
}

// Positions returns how many positions the board carries.
func (b *Board) Positions() int {
	return len(b.positions)
}

// KindCount returns how many positions of the given kind are present.
func (b *Board) KindCount(kind PositionKind) int {
	return len(b.aggregates[kind].Positions)
}

// FaithEffect returns the standing faith penalty, or nil before the
// first even turn installs one.
func (b *Board) FaithEffect() *Effect {
	return b.faithEffect
}

// TowersUpdate describes the card-to-position assignment of a fresh
// turn, for broadcast.
type TowersUpdate struct {
	Assignments map[int]Card `json:"assignments"`
}

// ChangeTurn frees every position, deals the turn's cards onto the
// tower columns in per-kind order and installs the new faith penalty if
// one is supplied. Must run exactly once per turn, before any move.
func (b *Board) ChangeTurn(cards map[CardKind][]Card, newFaithEffect *Effect) TowersUpdate {
	for _, p := range b.positions {
		p.Free()
	}

	update := TowersUpdate{Assignments: make(map[int]Card)}
	for kind, list := range cards {
		for i, pos := range b.towers[kind] {
			pos.Card = nil
			if i < len(list) {
				card := list[i]
				pos.Card = &card
				update.Assignments[pos.Number] = card
			}
		}
	}

	if newFaithEffect != nil {
		b.faithEffect = newFaithEffect
	}
	return update
}

// DiceValues rolls the three colored tokens uniformly in [1,6]; the
// neutral token is always zero. Reseeded per call.
func (b *Board) DiceValues() map[TokenColor]int {
	die := rand.New(rand.NewSource(time.Now().UnixNano()))
	values := map[TokenColor]int{TokenNeutral: 0}
	for _, color := range ColoredTokens {
		values[color] = die.Intn(6) + 1
	}
	return values
}

// GetPositions returns, per matching position, the choices currently
// affordable for the player. A nil filter means all kinds. Read-only.
func (b *Board) GetPositions(ps *PlayerState, kinds []PositionKind) map[int][]Choice {
	wanted := func(PositionKind) bool { return true }
	if kinds != nil {
		set := make(map[PositionKind]bool, len(kinds))
		for _, k := range kinds {
			set[k] = true
		}
		wanted = func(k PositionKind) bool { return set[k] }
	}

	out := make(map[int][]Choice)
	for number, p := range b.positions {
		if wanted(p.Kind) {
			out[number] = p.CanOccupy(ps)
		}
	}
	return out
}

// Occupy claims a position for the player, enforcing the council
// one-seat-per-player rule and recording council claims into the
// pending next-turn order.
func (b *Board) Occupy(ps *PlayerState, number int, chosen []Choice) (*Position, error) {
	p, ok := b.positions[number]
	if !ok {
		return nil, fmt.Errorf("position %d: %w", number, ErrUnknownPosition)
	}

	if p.Kind == PositionCouncil && b.aggregates[PositionCouncil].HeldBy(ps.ID) {
		return nil, fmt.Errorf("player %s already holds a council seat: %w", ps.ID, ErrAlreadyOccupied)
	}

	if err := p.Occupy(ps, chosen); err != nil {
		return nil, err
	}

	if p.Kind == PositionCouncil {
		b.pendingOrder = append(b.pendingOrder, ps.ID)
	}
	return p, nil
}

// ChangeOrder merges the pending council claims with the current round
// order: council claimants first in claim order, everyone else after in
// their current relative order. The pending list is cleared.
func (b *Board) ChangeOrder(currentOrder []string) []string {
	inCouncil := make(map[string]bool, len(b.pendingOrder))
	for _, id := range b.pendingOrder {
		inCouncil[id] = true
	}

	merged := make([]string, 0, len(currentOrder))
	merged = append(merged, b.pendingOrder...)
	for _, id := range currentOrder {
		if !inCouncil[id] {
			merged = append(merged, id)
		}
	}

	b.pendingOrder = nil
	return merged
}
