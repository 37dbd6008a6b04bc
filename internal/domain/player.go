package domain

// FamilyColor distinguishes the players seated at one table.
type FamilyColor string

const (
	FamilyRed    FamilyColor = "red"
	FamilyBlue   FamilyColor = "blue"
	FamilyGreen  FamilyColor = "green"
	FamilyYellow FamilyColor = "yellow"
)

// AllFamilyColors lists colors in seat order.
var AllFamilyColors = []FamilyColor{FamilyRed, FamilyBlue, FamilyGreen, FamilyYellow}

// TokenColor identifies one of the four movable tokens every player
// places during rounds. The neutral token always has value zero.
type TokenColor string

const (
	TokenBlack   TokenColor = "black"
	TokenOrange  TokenColor = "orange"
	TokenWhite   TokenColor = "white"
	TokenNeutral TokenColor = "neutral"
)

// ColoredTokens are the tokens whose value comes from the dice.
var ColoredTokens = []TokenColor{TokenBlack, TokenOrange, TokenWhite}

// PlayerState is the per-player mutable ledger for one match: resources,
// owned cards, active effects, token values and round flags. It is
// mutated by position occupation, the faith checkpoint and end scoring,
// and lives exactly as long as its match.
type PlayerState struct {
	ID    string      `json:"id"`
	Color FamilyColor `json:"color"`

	Resources Resources           `json:"resources"`
	Cards     map[CardKind][]Card `json:"cards"`
	Effects   []Effect            `json:"effects,omitempty"`

	// Domestics holds each token's remaining movement allowance for the
	// current turn; a consumed token is removed from the map.
	Domestics map[TokenColor]int `json:"domestics,omitempty"`

	HasMoved      bool `json:"has_moved"`
	SkipNextRound bool `json:"skip_next_round"`
	ChurchSupport bool `json:"church_support"`
}

// NewPlayerState returns the initial ledger for the given seat. Later
// seats start with one extra gold each to offset move order.
func NewPlayerState(id string, seat int) *PlayerState {
	ps := &PlayerState{
		ID:        id,
		Color:     AllFamilyColors[seat%len(AllFamilyColors)],
		Resources: NewResources(),
		Cards:     make(map[CardKind][]Card),
		Domestics: make(map[TokenColor]int),
	}
	ps.Resources[Wood] = 2
	ps.Resources[Rock] = 2
	ps.Resources[Servant] = 3
	ps.Resources[Gold] = 5 + seat
	return ps
}

// AddCard stores a taken card under its kind.
func (ps *PlayerState) AddCard(c Card) {
	ps.Cards[c.Kind] = append(ps.Cards[c.Kind], c)
}

// CardCount returns how many cards of kind the player owns.
func (ps *PlayerState) CardCount(kind CardKind) int {
	return len(ps.Cards[kind])
}

// AddEffect appends an active effect to the player's list.
func (ps *PlayerState) AddEffect(e Effect) {
	ps.Effects = append(ps.Effects, e)
}

// EffectsByTiming returns the player's active effects with timing t,
// including those carried by owned cards.
func (ps *PlayerState) EffectsByTiming(t EffectTiming) []Effect {
	var out []Effect
	for _, e := range ps.Effects {
		if e.Timing == t {
			out = append(out, e)
		}
	}
	for _, kind := range AllCardKinds {
		for _, c := range ps.Cards[kind] {
			out = append(out, c.EffectsByTiming(t)...)
		}
	}
	return out
}

// SetDomestics resets the turn's token values from a dice roll, raised
// by any permanent dice bonus the player holds.
func (ps *PlayerState) SetDomestics(dice map[TokenColor]int) {
	bonus := 0
	for _, e := range ps.EffectsByTiming(TimingPermanent) {
		if e.Kind == EffectDiceBonus {
			bonus += e.Dice
		}
	}

	ps.Domestics = make(map[TokenColor]int, len(dice))
	for color, v := range dice {
		if v > 0 {
			v += bonus
		}
		ps.Domestics[color] = v
	}
}

// HasTokenFor reports whether an unused token reaches the given value.
// The neutral token only qualifies for zero-value positions.
func (ps *PlayerState) HasTokenFor(minValue int) bool {
	for _, v := range ps.Domestics {
		if v >= minValue {
			return true
		}
	}
	return false
}

// UseTokenFor consumes the weakest token that still satisfies minValue
// and reports whether one was available.
func (ps *PlayerState) UseTokenFor(minValue int) bool {
	best := TokenColor("")
	bestValue := -1
	for color, v := range ps.Domestics {
		if v < minValue {
			continue
		}
		if bestValue == -1 || v < bestValue {
			best, bestValue = color, v
		}
	}
	if bestValue == -1 {
		return false
	}
	delete(ps.Domestics, best)
	return true
}
