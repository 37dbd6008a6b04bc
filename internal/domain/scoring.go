package domain

// victoryForCards maps a card kind and owned count to the end-of-match
// victory bonus. Index is the count, clamped to the last entry.
var victoryForCards = map[CardKind][]int{
	Territory: {0, 0, 0, 1, 4, 10, 20},
	Character: {0, 1, 3, 6, 10, 15, 21},
	Building:  {0},
	Venture:   {0},
}

// faithTrackBonus maps accumulated faith points to victory points; the
// track is monotonically non-decreasing.
var faithTrackBonus = []int{0, 1, 2, 3, 4, 5, 7, 9, 11, 15, 20, 30}

// militaryTrackBonus maps military bonus rank (1 = lowest military
// total) to victory points.
var militaryTrackBonus = map[int]int{1: 5, 2: 2}

// VictoryForCards returns the victory bonus for owning count cards of
// the given kind.
func VictoryForCards(kind CardKind, count int) int {
	table := victoryForCards[kind]
	if len(table) == 0 {
		return 0
	}
	if count >= len(table) {
		count = len(table) - 1
	}
	if count < 0 {
		count = 0
	}
	return table[count]
}

// FaithBonus returns the victory bonus for the given faith points.
func FaithBonus(points int) int {
	if points < 0 {
		points = 0
	}
	if points >= len(faithTrackBonus) {
		points = len(faithTrackBonus) - 1
	}
	return faithTrackBonus[points]
}

// MilitaryBonus returns the victory bonus for a military bonus rank.
func MilitaryBonus(rank int) int {
	return militaryTrackBonus[rank]
}

// MilitaryRanks assigns bonus ranks to military totals sorted in
// ascending order: the lowest total ranks 1, a tie repeats the previous
// rank and a strictly greater total takes the previous rank plus one.
// [3 7 10 10] ranks as [1 2 3 3].
func MilitaryRanks(sortedTotals []int) []int {
	if len(sortedTotals) == 0 {
		return nil
	}
	ranks := make([]int, len(sortedTotals))
	ranks[0] = 1
	for i := 1; i < len(sortedTotals); i++ {
		if sortedTotals[i] > sortedTotals[i-1] {
			ranks[i] = ranks[i-1] + 1
		} else {
			ranks[i] = ranks[i-1]
		}
	}
	return ranks
}

// ConvertToVictory folds every remaining asset of a player into victory
// points: per-kind card bonuses, the military-track bonus for the given
// rank, the faith-track bonus, one point per five stockpiled raw
// resources, then any still-applicable final effects.
func ConvertToVictory(ps *PlayerState, militaryRank int) {
	points := 0
	for _, kind := range AllCardKinds {
		points += VictoryForCards(kind, ps.CardCount(kind))
	}
	points += MilitaryBonus(militaryRank)
	points += FaithBonus(ps.Resources[FaithPoint])
	points += ps.Resources.Stockpile() / 5

	ps.Resources[VictoryPoint] += points

	for _, e := range ps.EffectsByTiming(TimingFinal) {
		if e.CanApply(ps) {
			e.Apply(ps)
		}
	}
}
