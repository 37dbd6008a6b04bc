package domain

// CardKind identifies one of the four tower card families.
type CardKind string

const (
	Territory CardKind = "territory"
	Character CardKind = "character"
	Building  CardKind = "building"
	Venture   CardKind = "venture"
)

// AllCardKinds lists the card families in tower order.
var AllCardKinds = []CardKind{Territory, Character, Building, Venture}

// Cost is one alternative price for taking a card. Resources are paid;
// RequiredMilitary must merely be present on the ledger.
type Cost struct {
	Resources        Resources `yaml:"resources,omitempty" json:"resources,omitempty"`
	RequiredMilitary int       `yaml:"required_military,omitempty" json:"required_military,omitempty"`
}

// CanBuy reports whether the player can satisfy this cost right now.
func (c Cost) CanBuy(ps *PlayerState) bool {
	if ps.Resources[MilitaryPoint] < c.RequiredMilitary {
		return false
	}
	return ps.Resources.CanPay(c.Resources)
}

// Card is a development card dealt to a tower position.
type Card struct {
	Number      int      `yaml:"number" json:"number"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Kind        CardKind `yaml:"kind" json:"kind"`
	Costs       []Cost   `yaml:"costs,omitempty" json:"costs,omitempty"`
	Effects     []Effect `yaml:"effects,omitempty" json:"effects,omitempty"`
}

// territoryMilitaryRequirement maps the number of territory cards
// already owned to the military points required for the next one.
var territoryMilitaryRequirement = map[int]int{3: 3, 4: 7, 5: 12, 6: 18}

// AffordableCosts returns every listed cost the player can currently
// satisfy, in the card's own cost order. A territory card whose
// military threshold is not met yields nothing regardless of costs.
func (c Card) AffordableCosts(ps *PlayerState) []Cost {
	if c.Kind == Territory {
		if ps.Resources[MilitaryPoint] < territoryMilitaryRequirement[ps.CardCount(Territory)] {
			return nil
		}
	}

	costs := c.Costs
	if len(costs) == 0 {
		// A card without printed costs is free.
		costs = []Cost{{}}
	}

	var affordable []Cost
	for _, cost := range costs {
		if cost.CanBuy(ps) {
			affordable = append(affordable, cost)
		}
	}
	return affordable
}

// EffectsByTiming returns the card's effects with the given timing.
func (c Card) EffectsByTiming(t EffectTiming) []Effect {
	var out []Effect
	for _, e := range c.Effects {
		if e.Timing == t {
			out = append(out, e)
		}
	}
	return out
}
