package game

import (
	"magnifico/internal/domain"
	"magnifico/internal/ports"
)

// Player binds an authenticated user to its in-match ledger and the
// wait gate the turn scheduler blocks on.
type Player struct {
	User  *ports.User
	State *domain.PlayerState

	waiter moveWaiter
}

func newPlayer(u *ports.User, seat int) *Player {
	p := &Player{
		User:  u,
		State: domain.NewPlayerState(u.Username, seat),
	}
	u.SetState(p.State)
	return p
}

func usernames(players []*Player) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.User.Username
	}
	return out
}
