package game

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"magnifico/internal/content"
	"magnifico/internal/ports"
)

// Registry tracks every live match and routes joining users to the one
// open table, creating a new one when the open table started or filled.
type Registry struct {
	table       *content.Table
	joinDelay   time.Duration
	moveTimeout time.Duration
	journalDir  string
	log         *zap.Logger

	mu      sync.Mutex
	matches map[int64]*Match
	open    *Match
}

// NewRegistry wires a registry over the shared board setup.
func NewRegistry(table *content.Table, joinDelay, moveTimeout time.Duration, journalDir string, log *zap.Logger) *Registry {
	return &Registry{
		table:       table,
		joinDelay:   joinDelay,
		moveTimeout: moveTimeout,
		journalDir:  journalDir,
		log:         log,
		matches:     make(map[int64]*Match),
	}
}

// AddUser seats the user at the open table, rolling over to a fresh
// table if the open one started or filled in the meantime.
func (r *Registry) AddUser(u *ports.User) {
	for {
		r.mu.Lock()
		if r.open == nil || r.open.Started() || r.open.Full() {
			m := newMatch(r, r.table, r.joinDelay, r.moveTimeout, r.journalDir, r.log)
			r.matches[m.Number()] = m
			r.open = m
			r.log.Info("match opened", zap.Int64("match", m.Number()))
		}
		m := r.open
		r.mu.Unlock()

		if m.AddUser(u) {
			return
		}
		r.mu.Lock()
		if r.open == m {
			r.open = nil
		}
		r.mu.Unlock()
	}
}

// ClearMatch drops a finished or aborted match from the registry.
func (r *Registry) ClearMatch(m *Match) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.matches, m.Number())
	if r.open == m {
		r.open = nil
	}
}

// DismissAll aborts every live match, for server shutdown.
func (r *Registry) DismissAll() {
	r.mu.Lock()
	live := make([]*Match, 0, len(r.matches))
	for _, m := range r.matches {
		live = append(live, m)
	}
	r.mu.Unlock()

	for _, m := range live {
		m.Abort(nil)
	}
}

// Len returns how many matches are live.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.matches)
}
