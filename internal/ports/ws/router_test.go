package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"magnifico/internal/domain"
	"magnifico/internal/ports"
)

type fakeLink struct {
	mu      sync.Mutex
	handler ports.MessageHandler
	actions []ports.Action
}

func (l *fakeLink) SendMessage(a ports.Action) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.actions = append(l.actions, a)
}

func (l *fakeLink) SetOnMessage(h ports.MessageHandler) { l.handler = h }
func (l *fakeLink) Close() error                        { return nil }

func (l *fakeLink) deliver(t *testing.T, kind string, payload any) {
	t.Helper()
	raw, err := json.Marshal(map[string]any{"kind": kind, "payload": payload})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	l.handler(l, raw)
}

func (l *fakeLink) popups() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, a := range l.actions {
		if a.Kind == "popup" {
			n++
		}
	}
	return n
}

type fakeMatch struct {
	mu      sync.Mutex
	moves   []int
	faith   []bool
	aborted int
	moveErr error
}

func (m *fakeMatch) PlayMove(_ *ports.User, position int, _ []domain.Choice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.moves = append(m.moves, position)
	return m.moveErr
}

func (m *fakeMatch) Positions(*ports.User, []domain.PositionKind) (map[int][]domain.Choice, error) {
	return map[int][]domain.Choice{50: {{CostIndex: -1}}}, nil
}

func (m *fakeMatch) FaithChoice(_ *ports.User, churchSupport bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faith = append(m.faith, churchSupport)
}

func (m *fakeMatch) Abort(*ports.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.aborted++
}

func boundUser(t *testing.T) (*fakeLink, *fakeMatch, *ports.User) {
	t.Helper()
	link := &fakeLink{}
	match := &fakeMatch{}
	u := ports.NewUser("alda", link)
	u.SetMatch(match)
	NewRouter(nil, zap.NewNop()).Bind(u, link)
	return link, match, u
}

func TestRouterDispatchesMoves(t *testing.T) {
	link, match, _ := boundUser(t)

	link.deliver(t, "occupy", map[string]any{"position": 40})
	link.deliver(t, "positions", map[string]any{"kinds": []string{"council"}})
	link.deliver(t, "faith_choice", map[string]any{"church_support": true})
	link.deliver(t, "leave", nil)

	l := link
	l.mu.Lock()
	var sawPositions bool
	for _, a := range l.actions {
		if a.Kind == "positions" {
			sawPositions = true
		}
	}
	l.mu.Unlock()
	if !sawPositions {
		t.Fatalf("positions query not answered")
	}

	if len(match.moves) != 1 || match.moves[0] != 40 {
		t.Fatalf("moves = %v, want [40]", match.moves)
	}
	if len(match.faith) != 1 || !match.faith[0] {
		t.Fatalf("faith = %v, want [true]", match.faith)
	}
	if match.aborted != 1 {
		t.Fatalf("aborted = %d, want 1", match.aborted)
	}
	if link.popups() != 0 {
		t.Fatalf("valid messages should not raise popups")
	}
}

func TestRouterRejections(t *testing.T) {
	link, match, _ := boundUser(t)
	match.moveErr = errors.New("position already occupied")

	link.deliver(t, "occupy", map[string]any{"position": 40})
	link.deliver(t, "juggle", nil)
	link.handler(link, []byte("not json"))

	if link.popups() != 3 {
		t.Fatalf("popups = %d, want 3", link.popups())
	}
}

func TestRouterWithoutMatch(t *testing.T) {
	link := &fakeLink{}
	u := ports.NewUser("bruna", link)
	NewRouter(nil, zap.NewNop()).Bind(u, link)

	link.deliver(t, "occupy", map[string]any{"position": 40})
	if link.popups() != 1 {
		t.Fatalf("moves without a match must be rejected")
	}
}
