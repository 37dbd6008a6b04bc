package game

import (
	"magnifico/internal/domain"
)

// EventKind names one outbound message type of the match core.
type EventKind string

const (
	EventAttendees      EventKind = "attendees"
	EventPlayerBound    EventKind = "player_bound"
	EventStateUpdate    EventKind = "state_update"
	EventFaithCards     EventKind = "faith_cards"
	EventTowersUpdate   EventKind = "towers_update"
	EventDiceRoll       EventKind = "dice_roll"
	EventRoundOrder     EventKind = "round_order"
	EventMoveRequest    EventKind = "move_request"
	EventMoveEnd        EventKind = "move_end"
	EventPositionUpdate EventKind = "position_update"
	EventFaithRequest   EventKind = "faith_request"
	EventFaithPenalty   EventKind = "faith_penalty"
	EventMatchEnd       EventKind = "match_end"
	EventPopup          EventKind = "popup"
)

// Event is one outbound message. Empty Recipients broadcasts to the
// whole table.
type Event struct {
	Kind       EventKind `json:"kind"`
	Payload    any       `json:"payload,omitempty"`
	Recipients []string  `json:"-"`
}

// AttendeesPayload announces who is currently seated at the table.
type AttendeesPayload struct {
	Usernames []string `json:"usernames"`
}

// PlayerBoundPayload announces one user's seat color at match start.
type PlayerBoundPayload struct {
	Username string             `json:"username"`
	Color    domain.FamilyColor `json:"color"`
}

// StateUpdatePayload carries one player's full ledger.
type StateUpdatePayload struct {
	Username string              `json:"username"`
	State    *domain.PlayerState `json:"state"`
}

// FaithCardsPayload reveals the penalty drawn for each even turn.
type FaithCardsPayload struct {
	EffectsByTurn map[int]domain.Effect `json:"effects_by_turn"`
}

// TowersPayload carries the card assignments dealt for a turn.
type TowersPayload struct {
	Turn        int                 `json:"turn"`
	Assignments map[int]domain.Card `json:"assignments"`
}

// DicePayload carries the turn's token values.
type DicePayload struct {
	Turn   int                       `json:"turn"`
	Values map[domain.TokenColor]int `json:"values"`
}

// RoundOrderPayload announces who plays, in order, this round.
type RoundOrderPayload struct {
	Round int      `json:"round"`
	Order []string `json:"order"`
}

// MoveRequestPayload tells one player it is their move.
type MoveRequestPayload struct {
	Username string `json:"username"`
}

// MoveEndPayload closes one player's move window.
type MoveEndPayload struct {
	Username string `json:"username"`
	TimedOut bool   `json:"timed_out"`
}

// PositionUpdatePayload broadcasts a position's new occupancy.
type PositionUpdatePayload struct {
	Position *domain.Position `json:"position"`
}

// FaithRequestPayload asks one player whether to support the church.
type FaithRequestPayload struct {
	Turn     int `json:"turn"`
	Required int `json:"required"`
}

// FaithPenaltyPayload announces a player taking the period's penalty.
type FaithPenaltyPayload struct {
	Username string `json:"username"`
	Period   int    `json:"period"`
}

// PlayerScore is one row of the final ranking.
type PlayerScore struct {
	Username string `json:"username"`
	Victory  int    `json:"victory"`
}

// MatchEndPayload closes the match. Ranking is empty on abort.
type MatchEndPayload struct {
	Ranking []PlayerScore `json:"ranking,omitempty"`
	Reason  string        `json:"reason"`
}

// Severity grades a popup.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// PopupPayload is a free-form notice shown to the client.
type PopupPayload struct {
	Level   Severity `json:"level"`
	Message string   `json:"message"`
}
