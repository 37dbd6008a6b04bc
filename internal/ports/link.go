// Package ports defines the narrow interfaces between the match core
// and its collaborators: the per-client message link, the authenticated
// user record and the surfaces a client can drive on a running match.
package ports

import (
	"sync"

	"github.com/google/uuid"

	"magnifico/internal/domain"
)

// Action is the transport-agnostic message envelope sent to clients.
type Action struct {
	Kind    string `json:"kind"`
	Payload any    `json:"payload,omitempty"`
}

// MessageHandler consumes one raw inbound message from a link.
type MessageHandler func(link UserLink, raw []byte)

// UserLink is one remote participant's message channel. SendMessage is
// asynchronous best-effort delivery; SetOnMessage registers the inbound
// handler (the match core itself never calls it).
type UserLink interface {
	SendMessage(a Action)
	SetOnMessage(h MessageHandler)
	Close() error
}

// Match is what a connected client can drive on its running match.
type Match interface {
	PlayMove(u *User, position int, chosen []domain.Choice) error
	Positions(u *User, kinds []domain.PositionKind) (map[int][]domain.Choice, error)
	FaithChoice(u *User, churchSupport bool)
	Abort(leaving *User)
}

// UserRouter places an authenticated user into a match.
type UserRouter interface {
	AddUser(u *User)
}

// User is an authenticated participant. Identity and link binding are
// owned by the auth layer; the match core only sets the match and
// player-state references.
type User struct {
	ID       uuid.UUID
	Username string
	Link     UserLink

	mu    sync.Mutex
	match Match
	state *domain.PlayerState
}

// NewUser binds an authenticated identity to its link.
func NewUser(username string, link UserLink) *User {
	return &User{ID: uuid.New(), Username: username, Link: link}
}

// SetMatch records the match the user currently belongs to.
func (u *User) SetMatch(m Match) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.match = m
}

// Match returns the user's current match, or nil.
func (u *User) Match() Match {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.match
}

// SetState records the user's in-match player state.
func (u *User) SetState(ps *domain.PlayerState) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.state = ps
}

// State returns the user's in-match player state, or nil.
func (u *User) State() *domain.PlayerState {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}
