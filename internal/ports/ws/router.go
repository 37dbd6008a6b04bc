package ws

import (
	"encoding/json"

	"go.uber.org/zap"

	"magnifico/internal/domain"
	"magnifico/internal/ports"
)

type occupyPayload struct {
	Position int             `json:"position"`
	Chosen   []domain.Choice `json:"chosen,omitempty"`
}

type faithChoicePayload struct {
	ChurchSupport bool `json:"church_support"`
}

type positionsPayload struct {
	Kinds []domain.PositionKind `json:"kinds,omitempty"`
}

// Router translates in-match client messages into calls on the user's
// match. It is installed on the link once the login handshake is done.
type Router struct {
	onLogout func(username string)
	log      *zap.Logger
}

// NewRouter builds the in-match message router. onLogout runs when an
// authenticated link dies, freeing the account's session slot.
func NewRouter(onLogout func(username string), log *zap.Logger) *Router {
	return &Router{onLogout: onLogout, log: log}
}

// Bind installs the in-match handler for an authenticated user.
func (r *Router) Bind(u *ports.User, link ports.UserLink) {
	link.SetOnMessage(func(l ports.UserLink, raw []byte) {
		r.dispatch(u, l, raw)
	})
	if c, ok := link.(*Conn); ok {
		c.SetOnClose(func() {
			if m := u.Match(); m != nil {
				m.Abort(u)
			}
			if r.onLogout != nil {
				r.onLogout(u.Username)
			}
		})
	}
}

func (r *Router) dispatch(u *ports.User, link ports.UserLink, raw []byte) {
	var action struct {
		Kind    string          `json:"kind"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(raw, &action); err != nil {
		r.reject(link, "malformed message")
		return
	}

	m := u.Match()
	if m == nil {
		r.reject(link, "no running match")
		return
	}

	switch action.Kind {
	case "occupy":
		var p occupyPayload
		if err := json.Unmarshal(action.Payload, &p); err != nil {
			r.reject(link, "malformed move")
			return
		}
		if err := m.PlayMove(u, p.Position, p.Chosen); err != nil {
			r.log.Debug("move rejected",
				zap.String("user", u.Username),
				zap.Int("position", p.Position),
				zap.Error(err))
			r.reject(link, err.Error())
		}
	case "positions":
		var p positionsPayload
		if len(action.Payload) > 0 {
			if err := json.Unmarshal(action.Payload, &p); err != nil {
				r.reject(link, "malformed positions query")
				return
			}
		}
		choices, err := m.Positions(u, p.Kinds)
		if err != nil {
			r.reject(link, err.Error())
			return
		}
		link.SendMessage(ports.Action{Kind: "positions", Payload: choices})
	case "faith_choice":
		var p faithChoicePayload
		if err := json.Unmarshal(action.Payload, &p); err != nil {
			r.reject(link, "malformed faith choice")
			return
		}
		m.FaithChoice(u, p.ChurchSupport)
	case "leave":
		m.Abort(u)
	default:
		r.reject(link, "unknown message kind "+action.Kind)
	}
}

func (r *Router) reject(link ports.UserLink, message string) {
	link.SendMessage(ports.Action{
		Kind:    "popup",
		Payload: map[string]string{"level": "error", "message": message},
	})
}
