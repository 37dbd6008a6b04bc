package domain

import "sort"

// PositionAggregate groups same-kind positions so cross-position rules
// can be enforced collectively. It holds no state beyond membership.
type PositionAggregate struct {
	Kind      PositionKind
	Positions []*Position
}

// Aggregate builds the per-kind aggregates for a position set, ordering
// each group by position number.
func Aggregate(positions map[int]*Position) map[PositionKind]*PositionAggregate {
	out := make(map[PositionKind]*PositionAggregate, len(AllPositionKinds))
	for _, kind := range AllPositionKinds {
		out[kind] = &PositionAggregate{Kind: kind}
	}
	for _, p := range positions {
		agg := out[p.Kind]
		agg.Positions = append(agg.Positions, p)
	}
	for _, agg := range out {
		sort.Slice(agg.Positions, func(i, j int) bool {
			return agg.Positions[i].Number < agg.Positions[j].Number
		})
	}
	return out
}

// HeldBy reports whether any position in the group is already occupied
// by the given player. The council group uses this to keep each player
// on at most one seat.
func (a *PositionAggregate) HeldBy(playerID string) bool {
	for _, p := range a.Positions {
		if p.Occupant == playerID {
			return true
		}
	}
	return false
}
