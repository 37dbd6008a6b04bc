package domain

// ResourceType identifies one kind of resource on a player's ledger.
type ResourceType string

const (
	Wood          ResourceType = "wood"
	Rock          ResourceType = "rock"
	Gold          ResourceType = "gold"
	Servant       ResourceType = "servant"
	MilitaryPoint ResourceType = "military"
	FaithPoint    ResourceType = "faith"
	VictoryPoint  ResourceType = "victory"
)

// AllResourceTypes lists every tracked resource kind.
var AllResourceTypes = []ResourceType{
	Wood, Rock, Gold, Servant, MilitaryPoint, FaithPoint, VictoryPoint,
}

// RawResourceTypes are the stockpile resources converted to victory
// points at the end of the match (one point per five units).
var RawResourceTypes = []ResourceType{Wood, Rock, Gold, Servant}

// Resources maps resource kinds to amounts. Amounts never go negative
// outside of an in-flight payment.
type Resources map[ResourceType]int

// NewResources returns a ledger with every kind present at zero.
func NewResources() Resources {
	r := make(Resources, len(AllResourceTypes))
	for _, t := range AllResourceTypes {
		r[t] = 0
	}
	return r
}

// Clone returns an independent copy.
func (r Resources) Clone() Resources {
	out := make(Resources, len(r))
	for t, n := range r {
		out[t] = n
	}
	return out
}

// Add adds every amount in other to the receiver.
func (r Resources) Add(other Resources) {
	for t, n := range other {
		r[t] += n
	}
}

// CanPay reports whether every amount in cost is covered.
func (r Resources) CanPay(cost Resources) bool {
	for t, n := range cost {
		if r[t] < n {
			return false
		}
	}
	return true
}

// Pay subtracts cost from the receiver. Callers must check CanPay first.
func (r Resources) Pay(cost Resources) {
	for t, n := range cost {
		r[t] -= n
	}
}

// Stockpile returns the combined raw-resource total.
func (r Resources) Stockpile() int {
	total := 0
	for _, t := range RawResourceTypes {
		total += r[t]
	}
	return total
}
