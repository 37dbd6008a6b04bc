package game

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"magnifico/internal/domain"
)

// maxRounds covers the four regular placement rounds plus the make-up
// round for players who skipped round one.
const maxRounds = 5

// faithRequirement maps an even turn number to the faith points needed
// to be offered church support at its checkpoint.
var faithRequirement = map[int]int{2: 3, 4: 4, 6: 5}

// Turn drives the rounds of one of the six turns of a match. Players
// carrying a skip penalty sit out round one and play the make-up round
// instead; the penalty flag is consumed here.
//
// mu is the match mutex: board and ledger access here races with
// PlayMove and FaithChoice on the client goroutines otherwise. emit
// takes mu itself, so it must never be called with mu held.
type Turn struct {
	number  int
	order   []*Player
	board   *domain.Board
	mu      sync.Locker
	timeout time.Duration
	emit    func(Event)
	log     *zap.Logger

	lastRound []*Player
}

func newTurn(number int, order []*Player, board *domain.Board, mu sync.Locker, timeout time.Duration, emit func(Event), log *zap.Logger) *Turn {
	t := &Turn{
		number:  number,
		order:   order,
		board:   board,
		mu:      mu,
		timeout: timeout,
		emit:    emit,
		log:     log,
	}
	t.mu.Lock()
	for _, p := range order {
		if p.State.SkipNextRound {
			p.State.SkipNextRound = false
			t.lastRound = append(t.lastRound, p)
		}
	}
	t.mu.Unlock()
	return t
}

// playAllRounds runs the turn to completion and returns the merged
// next-turn order. It returns nil when ctx is cancelled mid-turn.
func (t *Turn) playAllRounds(ctx context.Context) []*Player {
	for round := 1; round <= maxRounds; round++ {
		current := t.roundPlayers(round)
		t.emit(Event{
			Kind:    EventRoundOrder,
			Payload: RoundOrderPayload{Round: round, Order: usernames(current)},
		})

		for _, p := range current {
			t.armMove(p)
			// The whole table learns whose move it is.
			t.emit(Event{
				Kind:    EventMoveRequest,
				Payload: MoveRequestPayload{Username: p.User.Username},
			})
			if !t.waitMove(ctx, p) {
				return nil
			}
		}

		if round >= maxRounds-1 && len(t.lastRound) == 0 {
			break
		}
	}

	t.faithCheck(ctx)
	if ctx.Err() != nil {
		return nil
	}
	return t.nextOrder()
}

// roundPlayers returns who moves in the given round: everyone but the
// penalized in round one, everyone in the middle rounds, only the
// penalized in the make-up round.
func (t *Turn) roundPlayers(round int) []*Player {
	switch round {
	case 1:
		if len(t.lastRound) == 0 {
			return t.order
		}
		skip := make(map[string]bool, len(t.lastRound))
		for _, p := range t.lastRound {
			skip[p.User.Username] = true
		}
		out := make([]*Player, 0, len(t.order))
		for _, p := range t.order {
			if !skip[p.User.Username] {
				out = append(out, p)
			}
		}
		return out
	case maxRounds:
		current := t.lastRound
		t.lastRound = nil
		return current
	default:
		return t.order
	}
}

// armMove opens the player's move window. Must happen before the
// request is emitted so an instant answer is not lost.
func (t *Turn) armMove(p *Player) {
	t.mu.Lock()
	p.State.HasMoved = false
	t.mu.Unlock()
	p.waiter.arm()
}

// waitMove blocks until the player moves, the move window times out or
// the match is torn down. It returns false only on teardown.
func (t *Turn) waitMove(ctx context.Context, p *Player) bool {
	res := p.waiter.wait(ctx, t.timeout)
	if res == waitInterrupted {
		t.log.Warn("move wait interrupted",
			zap.String("user", p.User.Username),
			zap.Int("turn", t.number))
		if ctx.Err() != nil {
			return false
		}
	}

	t.mu.Lock()
	timedOut := !p.State.HasMoved
	p.State.HasMoved = false
	t.mu.Unlock()
	t.emit(Event{
		Kind:       EventMoveEnd,
		Payload:    MoveEndPayload{Username: p.User.Username, TimedOut: timedOut},
		Recipients: []string{p.User.Username},
	})
	return true
}

// faithCheck runs the even-turn checkpoint: each player with enough
// faith is asked for church support; supporters trade faith for victory
// points, everyone else takes the period's standing penalty.
func (t *Turn) faithCheck(ctx context.Context) {
	required, ok := faithRequirement[t.number]
	if !ok {
		return
	}

	for _, p := range t.order {
		if ctx.Err() != nil {
			return
		}
		ps := p.State

		t.mu.Lock()
		faith := ps.Resources[domain.FaithPoint]
		t.mu.Unlock()

		if faith >= required {
			t.armMove(p)
			t.emit(Event{
				Kind:       EventFaithRequest,
				Payload:    FaithRequestPayload{Turn: t.number, Required: required},
				Recipients: []string{p.User.Username},
			})
			if !t.waitMove(ctx, p) {
				return
			}
		}

		t.mu.Lock()
		penalized := false
		if ps.ChurchSupport {
			ps.Resources[domain.VictoryPoint] += domain.FaithBonus(ps.Resources[domain.FaithPoint])
			ps.Resources[domain.FaithPoint] = 0
			ps.ChurchSupport = false
		} else if eff := t.board.FaithEffect(); eff != nil {
			ps.AddEffect(*eff)
			if eff.CanApply(ps) {
				eff.Apply(ps)
			}
			penalized = true
		}
		t.mu.Unlock()

		if penalized {
			t.emit(Event{
				Kind:    EventFaithPenalty,
				Payload: FaithPenaltyPayload{Username: p.User.Username, Period: t.number / 2},
			})
		}
		t.emit(Event{
			Kind:    EventStateUpdate,
			Payload: StateUpdatePayload{Username: p.User.Username, State: ps},
		})
	}
}

// nextOrder applies the council claims to produce the next turn's seat
// order.
func (t *Turn) nextOrder() []*Player {
	byID := make(map[string]*Player, len(t.order))
	ids := make([]string, len(t.order))
	for i, p := range t.order {
		byID[p.User.Username] = p
		ids[i] = p.User.Username
	}

	t.mu.Lock()
	merged := t.board.ChangeOrder(ids)
	t.mu.Unlock()
	out := make([]*Player, 0, len(merged))
	for _, id := range merged {
		out = append(out, byID[id])
	}
	return out
}
