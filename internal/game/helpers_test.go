package game

import (
	"sync"

	"go.uber.org/zap"

	"magnifico/internal/content"
	"magnifico/internal/domain"
	"magnifico/internal/ports"
)

// fakeLink records everything the match core sends to one user.
type fakeLink struct {
	mu      sync.Mutex
	actions []ports.Action
	signals map[string]chan struct{}
}

func newFakeLink(waitFor ...string) *fakeLink {
	l := &fakeLink{signals: make(map[string]chan struct{})}
	for _, kind := range waitFor {
		l.signals[kind] = make(chan struct{}, 16)
	}
	return l
}

func (l *fakeLink) SendMessage(a ports.Action) {
	l.mu.Lock()
	l.actions = append(l.actions, a)
	ch := l.signals[a.Kind]
	l.mu.Unlock()
	if ch != nil {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (l *fakeLink) SetOnMessage(ports.MessageHandler) {}
func (l *fakeLink) Close() error                      { return nil }

func (l *fakeLink) signal(kind string) <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.signals[kind]
}

func (l *fakeLink) count(kind string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, a := range l.actions {
		if a.Kind == kind {
			n++
		}
	}
	return n
}

func (l *fakeLink) last(kind string) (ports.Action, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(l.actions) - 1; i >= 0; i-- {
		if l.actions[i].Kind == kind {
			return l.actions[i], true
		}
	}
	return ports.Action{}, false
}

// testTable is a minimal but playable board setup.
func testTable() *content.Table {
	var positions []*domain.Position
	number := 1
	floorMins := []int{1, 3, 5, 7}
	for _, kind := range domain.AllCardKinds {
		for floor := 1; floor <= 4; floor++ {
			positions = append(positions, &domain.Position{
				Number:   number,
				Kind:     domain.PositionTower,
				CardKind: kind,
				Floor:    floor,
				MinValue: floorMins[floor-1],
			})
			number++
		}
	}
	positions = append(positions,
		&domain.Position{Number: 20, Kind: domain.PositionHarvest, MinValue: 1},
		&domain.Position{Number: 21, Kind: domain.PositionHarvest, MinValue: 3},
		&domain.Position{Number: 30, Kind: domain.PositionProduction, MinValue: 1},
		&domain.Position{Number: 31, Kind: domain.PositionProduction, MinValue: 3},
		&domain.Position{Number: 40, Kind: domain.PositionMarket, MinValue: 1, Reward: domain.Resources{domain.Gold: 5}},
		&domain.Position{Number: 41, Kind: domain.PositionMarket, MinValue: 1, Reward: domain.Resources{domain.Servant: 5}},
		&domain.Position{Number: 42, Kind: domain.PositionMarket, MinValue: 1, Reward: domain.Resources{domain.Gold: 3}},
		&domain.Position{Number: 43, Kind: domain.PositionMarket, MinValue: 1, Reward: domain.Resources{domain.Gold: 2}},
	)
	for n := 50; n <= 53; n++ {
		positions = append(positions, &domain.Position{
			Number: n, Kind: domain.PositionCouncil, MinValue: 1,
			Reward: domain.Resources{domain.Gold: 1, domain.Servant: 1},
		})
	}

	var cards []domain.Card
	num := 1
	for _, kind := range domain.AllCardKinds {
		for i := 0; i < 24; i++ {
			cards = append(cards, domain.Card{Number: num, Name: "card", Kind: kind})
			num++
		}
	}

	return &content.Table{
		Positions: positions,
		Cards:     cards,
		FaithEffects: []domain.Effect{
			{Kind: domain.EffectLoseResources, Timing: domain.TimingPenalty, Resources: domain.Resources{domain.Gold: 3}},
			{Kind: domain.EffectSkipFirstRound, Timing: domain.TimingPenalty},
			{Kind: domain.EffectLoseResources, Timing: domain.TimingPenalty, Resources: domain.Resources{domain.MilitaryPoint: 2}},
		},
	}
}

func testPlayers(names ...string) ([]*Player, []*fakeLink) {
	players := make([]*Player, len(names))
	links := make([]*fakeLink, len(names))
	for i, name := range names {
		links[i] = newFakeLink()
		players[i] = newPlayer(ports.NewUser(name, links[i]), i)
	}
	return players, links
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
