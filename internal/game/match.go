package game

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"magnifico/internal/content"
	"magnifico/internal/domain"
	"magnifico/internal/ports"
)

const (
	minPlayers  = 2
	maxPlayers  = 4
	totalTurns  = 6
	towerFloors = 4
)

var matchCounter atomic.Int64

var _ ports.Match = (*Match)(nil)

// Match is one table: it collects joining users, counts down to start,
// runs the six turns on its single worker and scores the survivors.
// Client calls (PlayMove, FaithChoice, Abort) arrive on their own
// goroutines; board and ledger mutation is serialized by mu.
type Match struct {
	number      int64
	table       *content.Table
	joinDelay   time.Duration
	moveTimeout time.Duration
	registry    *Registry
	journal     *Journal
	log         *zap.Logger

	mu      sync.Mutex
	worker  *worker
	users   []*ports.User
	players []*Player
	byID    map[string]*Player
	board   *domain.Board
	started bool
	closed  bool
}

func newMatch(r *Registry, table *content.Table, joinDelay, moveTimeout time.Duration, journalDir string, log *zap.Logger) *Match {
	m := &Match{
		number:      matchCounter.Add(1),
		table:       table,
		joinDelay:   joinDelay,
		moveTimeout: moveTimeout,
		registry:    r,
		byID:        make(map[string]*Player),
	}
	m.log = log.With(zap.Int64("match", m.number))
	m.worker = newWorker(m.executionError)

	if journalDir != "" {
		j, err := OpenJournal(journalDir, m.number)
		if err != nil {
			m.log.Warn("journal disabled", zap.Error(err))
		} else {
			m.journal = j
		}
	}
	return m
}

// Number returns the match's registry key.
func (m *Match) Number() int64 {
	return m.number
}

// Started reports whether the match has left the waiting state.
func (m *Match) Started() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

// Full reports whether the table is at capacity.
func (m *Match) Full() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users) >= maxPlayers
}

// AddUser seats a joining user and reports whether a seat was taken.
// The fourth seat starts the match at once; from the second seat on, a
// start countdown is (re)armed so the table does not wait forever for
// more players.
func (m *Match) AddUser(u *ports.User) bool {
	m.mu.Lock()
	if m.started || m.closed || len(m.users) >= maxPlayers {
		m.mu.Unlock()
		return false
	}
	m.users = append(m.users, u)
	u.SetMatch(m)
	seated := len(m.users)
	names := make([]string, seated)
	for i, seatedUser := range m.users {
		names[i] = seatedUser.Username
	}
	w := m.worker
	m.mu.Unlock()

	m.log.Info("user joined", zap.String("user", u.Username), zap.Int("seated", seated))
	m.emit(Event{Kind: EventAttendees, Payload: AttendeesPayload{Usernames: names}})

	if seated == maxPlayers {
		m.Start()
		return true
	}
	if seated >= minPlayers {
		w.schedule(m.joinDelay, func(context.Context) { m.Start() })
	}
	return true
}

// Start moves the match to the started state and launches the game loop
// on a fresh worker. Idempotent; a no-op below the player minimum.
func (m *Match) Start() {
	m.mu.Lock()
	if m.started || len(m.users) < minPlayers {
		m.mu.Unlock()
		return
	}
	m.started = true
	old := m.worker
	m.worker = newWorker(m.executionError)
	w := m.worker
	m.mu.Unlock()

	old.shutdown()
	m.log.Info("match starting")
	w.execute(m.initGame)
}

// initGame is the whole game loop: build the table objects, then play
// the six turns and score. Runs on the match worker.
func (m *Match) initGame(ctx context.Context) {
	order, deck, faithDeck, err := m.initObjects()
	if err != nil {
		m.log.Error("match setup failed", zap.Error(err))
		m.fail("server error")
		return
	}

	faithByTurn := faithDeck.EffectsByTurn()
	m.emit(Event{Kind: EventFaithCards, Payload: FaithCardsPayload{EffectsByTurn: faithByTurn}})

	for turn := 1; turn <= totalTurns; turn++ {
		var faithEffect *domain.Effect
		if eff, ok := faithByTurn[turn]; ok {
			e := eff
			faithEffect = &e
		}

		m.mu.Lock()
		update := m.board.ChangeTurn(deck.CardsPerTurn(towerFloors), faithEffect)
		dice := m.board.DiceValues()
		for _, p := range m.players {
			p.State.SetDomestics(dice)
		}
		m.mu.Unlock()

		m.emit(Event{Kind: EventTowersUpdate, Payload: TowersPayload{Turn: turn, Assignments: update.Assignments}})
		m.emit(Event{Kind: EventDiceRoll, Payload: DicePayload{Turn: turn, Values: dice}})

		t := newTurn(turn, order, m.board, &m.mu, m.moveTimeout, m.emit, m.log)
		order = t.playAllRounds(ctx)
		if order == nil {
			m.log.Info("match interrupted", zap.Int("turn", turn))
			return
		}
	}

	m.endCheck(order)
}

// initObjects builds the board, decks and seated players.
func (m *Match) initObjects() ([]*Player, *domain.SplitDeck, *domain.FaithDeck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	board, err := m.table.NewBoard(len(m.users))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("building board: %w", err)
	}
	m.board = board

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	deck := domain.NewSplitDeck(m.table.Cards)
	deck.Shuffle(rng)
	faithDeck := domain.NewFaithDeck(m.table.FaithEffects)
	faithDeck.Shuffle(rng)

	m.players = make([]*Player, len(m.users))
	for seat, u := range m.users {
		p := newPlayer(u, seat)
		m.players[seat] = p
		m.byID[u.Username] = p
	}

	for _, p := range m.players {
		m.sendLocked(Event{Kind: EventPlayerBound, Payload: PlayerBoundPayload{
			Username: p.User.Username,
			Color:    p.State.Color,
		}})
		m.sendLocked(Event{Kind: EventStateUpdate, Payload: StateUpdatePayload{
			Username: p.User.Username,
			State:    p.State,
		}})
	}

	return append([]*Player(nil), m.players...), deck, faithDeck, nil
}

// endCheck scores every player and closes the match with the final
// ranking.
func (m *Match) endCheck(players []*Player) {
	m.mu.Lock()
	ranked := append([]*Player(nil), players...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].State.Resources[domain.MilitaryPoint] < ranked[j].State.Resources[domain.MilitaryPoint]
	})
	totals := make([]int, len(ranked))
	for i, p := range ranked {
		totals[i] = p.State.Resources[domain.MilitaryPoint]
	}
	for i, rank := range domain.MilitaryRanks(totals) {
		domain.ConvertToVictory(ranked[i].State, rank)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].State.Resources[domain.VictoryPoint] < ranked[j].State.Resources[domain.VictoryPoint]
	})
	ranking := make([]PlayerScore, len(ranked))
	for i, p := range ranked {
		ranking[i] = PlayerScore{
			Username: p.User.Username,
			Victory:  p.State.Resources[domain.VictoryPoint],
		}
	}
	m.mu.Unlock()

	m.log.Info("match complete", zap.Any("ranking", ranking))
	m.emit(Event{Kind: EventMatchEnd, Payload: MatchEndPayload{Ranking: ranking, Reason: "completed"}})
	m.close()
}

// PlayMove applies one position occupation for the user. Rejections are
// returned to the caller; an accepted move releases the scheduler.
func (m *Match) PlayMove(u *ports.User, position int, chosen []domain.Choice) error {
	m.mu.Lock()
	p, ok := m.byID[u.Username]
	if !ok || m.board == nil {
		m.mu.Unlock()
		return fmt.Errorf("no running match for %s", u.Username)
	}

	pos, err := m.board.Occupy(p.State, position, chosen)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	p.State.HasMoved = true
	state := p.State
	m.mu.Unlock()

	m.emit(Event{Kind: EventPositionUpdate, Payload: PositionUpdatePayload{Position: pos}})
	m.emit(Event{Kind: EventStateUpdate, Payload: StateUpdatePayload{Username: u.Username, State: state}})
	p.waiter.complete()
	return nil
}

// Positions returns the choices currently open to the user, optionally
// filtered by position kind. Read-only.
func (m *Match) Positions(u *ports.User, kinds []domain.PositionKind) (map[int][]domain.Choice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[u.Username]
	if !ok || m.board == nil {
		return nil, fmt.Errorf("no running match for %s", u.Username)
	}
	return m.board.GetPositions(p.State, kinds), nil
}

// FaithChoice records the user's answer to the faith checkpoint and
// releases the scheduler.
func (m *Match) FaithChoice(u *ports.User, churchSupport bool) {
	m.mu.Lock()
	p, ok := m.byID[u.Username]
	if !ok {
		m.mu.Unlock()
		return
	}
	p.State.ChurchSupport = churchSupport
	p.State.HasMoved = true
	m.mu.Unlock()

	p.waiter.complete()
}

// Abort tears the match down before completion; every remaining user is
// told who left.
func (m *Match) Abort(leaving *ports.User) {
	reason := "server shutdown"
	if leaving != nil {
		reason = "left:" + leaving.Username
		m.log.Info("match aborted", zap.String("user", leaving.Username))
	}
	m.emit(Event{Kind: EventMatchEnd, Payload: MatchEndPayload{Reason: reason}})
	m.close()
}

// executionError is the worker's panic handler: the match is torn down
// instead of the process.
func (m *Match) executionError(recovered any) {
	m.log.Error("match execution panic", zap.Any("panic", recovered))
	m.fail("server error")
}

func (m *Match) fail(reason string) {
	m.emit(Event{Kind: EventPopup, Payload: PopupPayload{
		Level:   SeverityError,
		Message: "the match cannot continue: " + reason,
	}})
	m.emit(Event{Kind: EventMatchEnd, Payload: MatchEndPayload{Reason: reason}})
	m.close()
}

// close releases everything the match holds: the worker, the armed
// waiters, the journal and the registry slot.
func (m *Match) close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	w := m.worker
	players := m.players
	m.mu.Unlock()

	w.shutdown()
	for _, p := range players {
		p.waiter.complete()
	}
	if err := m.journal.Close(); err != nil {
		m.log.Warn("journal close failed", zap.Error(err))
	}
	if m.registry != nil {
		m.registry.ClearMatch(m)
	}
}

// emit journals the event and delivers it to its recipients; an empty
// recipient list broadcasts. Never called with mu held.
func (m *Match) emit(ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendLocked(ev)
}

func (m *Match) sendLocked(ev Event) {
	m.journal.Record(ev)

	action := ports.Action{Kind: string(ev.Kind), Payload: ev.Payload}
	if len(ev.Recipients) == 0 {
		for _, u := range m.users {
			u.Link.SendMessage(action)
		}
		return
	}
	wanted := make(map[string]bool, len(ev.Recipients))
	for _, name := range ev.Recipients {
		wanted[name] = true
	}
	for _, u := range m.users {
		if wanted[u.Username] {
			u.Link.SendMessage(action)
		}
	}
}
