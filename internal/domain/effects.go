package domain

// EffectTiming says when an effect is evaluated.
type EffectTiming string

const (
	// TimingImmediate applies once, when the owning card is taken or the
	// owning position is occupied.
	TimingImmediate EffectTiming = "immediate"
	// TimingPermanent is re-evaluated during the match (dice bonuses,
	// harvest/production yields).
	TimingPermanent EffectTiming = "permanent"
	// TimingFinal applies during end-of-match scoring.
	TimingFinal EffectTiming = "final"
	// TimingPenalty marks the standing faith penalties drawn per period.
	TimingPenalty EffectTiming = "penalty"
)

// EffectKind is the variant tag of an Effect.
type EffectKind string

const (
	// EffectGainResources adds Resources to the player's ledger.
	EffectGainResources EffectKind = "gain_resources"
	// EffectLoseResources removes Resources; applicable only while the
	// player can cover the full amount.
	EffectLoseResources EffectKind = "lose_resources"
	// EffectVictoryPerCard grants PerCard victory points for every owned
	// card of TargetKind.
	EffectVictoryPerCard EffectKind = "victory_per_card"
	// EffectSkipFirstRound flags the player to sit out the first round of
	// the next turn and move in the trailing round instead.
	EffectSkipFirstRound EffectKind = "skip_first_round"
	// EffectDiceBonus raises every colored token value by Dice.
	EffectDiceBonus EffectKind = "dice_bonus"
)

// Effect is a kind-tagged behavior attached to cards, positions or the
// faith deck. Only the fields relevant to Kind are set.
type Effect struct {
	Kind       EffectKind   `yaml:"kind" json:"kind"`
	Timing     EffectTiming `yaml:"timing" json:"timing"`
	Resources  Resources    `yaml:"resources,omitempty" json:"resources,omitempty"`
	TargetKind CardKind     `yaml:"target_kind,omitempty" json:"target_kind,omitempty"`
	PerCard    int          `yaml:"per_card,omitempty" json:"per_card,omitempty"`
	Dice       int          `yaml:"dice,omitempty" json:"dice,omitempty"`
}

type effectBehavior struct {
	canApply func(Effect, *PlayerState) bool
	apply    func(Effect, *PlayerState)
}

// effectBehaviors maps each variant to its check/apply pair. Adding a
// kind means adding one row here and one constant above.
var effectBehaviors = map[EffectKind]effectBehavior{
	EffectGainResources: {
		canApply: func(Effect, *PlayerState) bool { return true },
		apply: func(e Effect, ps *PlayerState) {
			ps.Resources.Add(e.Resources)
		},
	},
	EffectLoseResources: {
		canApply: func(e Effect, ps *PlayerState) bool {
			return ps.Resources.CanPay(e.Resources)
		},
		apply: func(e Effect, ps *PlayerState) {
			ps.Resources.Pay(e.Resources)
		},
	},
	EffectVictoryPerCard: {
		canApply: func(Effect, *PlayerState) bool { return true },
		apply: func(e Effect, ps *PlayerState) {
			ps.Resources[VictoryPoint] += e.PerCard * ps.CardCount(e.TargetKind)
		},
	},
	EffectSkipFirstRound: {
		canApply: func(Effect, *PlayerState) bool { return true },
		apply: func(e Effect, ps *PlayerState) {
			ps.SkipNextRound = true
		},
	},
	EffectDiceBonus: {
		canApply: func(Effect, *PlayerState) bool { return true },
		apply:    func(Effect, *PlayerState) {}, // read at SetDomestics time
	},
}

// CanApply reports whether the effect is currently applicable to ps.
func (e Effect) CanApply(ps *PlayerState) bool {
	b, ok := effectBehaviors[e.Kind]
	if !ok {
		return false
	}
	return b.canApply(e, ps)
}

// Apply mutates ps with the effect's result. Callers gate on CanApply.
func (e Effect) Apply(ps *PlayerState) {
	if b, ok := effectBehaviors[e.Kind]; ok {
		b.apply(e, ps)
	}
}
