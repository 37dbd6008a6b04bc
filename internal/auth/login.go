package auth

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"magnifico/internal/ports"
)

// BindFunc hands an authenticated user and its link over to the game
// transport, which installs the in-match message router.
type BindFunc func(u *ports.User, link ports.UserLink)

type loginPayload struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
	NewUser      bool   `json:"new_user"`
	SessionToken string `json:"session_token,omitempty"`
}

type loggedInPayload struct {
	Username     string `json:"username"`
	SessionToken string `json:"session_token"`
}

// LoginHandler runs the first exchange of every fresh link: only login
// messages are accepted, every failure is answered with an error popup
// and the link stays in the handshake. One account can hold at most one
// live session.
type LoginHandler struct {
	store    *Store
	sessions *Sessions
	router   ports.UserRouter
	bind     BindFunc
	log      *zap.Logger

	mu       sync.Mutex
	loggedIn map[string]bool
}

// NewLoginHandler wires the handshake over the account store.
func NewLoginHandler(store *Store, sessions *Sessions, router ports.UserRouter, bind BindFunc, log *zap.Logger) *LoginHandler {
	return &LoginHandler{
		store:    store,
		sessions: sessions,
		router:   router,
		bind:     bind,
		log:      log,
		loggedIn: make(map[string]bool),
	}
}

// HandleLink puts a fresh link into the handshake state.
func (h *LoginHandler) HandleLink(link ports.UserLink) {
	link.SetOnMessage(h.handshake)
}

func (h *LoginHandler) handshake(link ports.UserLink, raw []byte) {
	var action struct {
		Kind    string          `json:"kind"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(raw, &action); err != nil || action.Kind != "login" {
		h.reject(link, "log in first")
		return
	}

	var p loginPayload
	if err := json.Unmarshal(action.Payload, &p); err != nil || p.Username == "" {
		h.reject(link, "malformed login")
		return
	}

	if err := h.authenticate(p); err != nil {
		h.log.Info("login rejected",
			zap.String("user", p.Username),
			zap.String("reason", err.Error()))
		h.reject(link, err.Error())
		return
	}

	if !h.claim(p.Username) {
		h.reject(link, ErrAlreadyLogged.Error())
		return
	}

	token, err := h.sessions.Token(p.Username)
	if err != nil {
		h.release(p.Username)
		h.log.Error("session token failed", zap.Error(err))
		h.reject(link, "login failed, try again")
		return
	}

	user := ports.NewUser(p.Username, link)
	h.log.Info("user logged in", zap.String("user", p.Username))
	link.SendMessage(ports.Action{
		Kind:    "logged_in",
		Payload: loggedInPayload{Username: p.Username, SessionToken: token},
	})

	h.bind(user, link)
	h.router.AddUser(user)
}

func (h *LoginHandler) authenticate(p loginPayload) error {
	if p.SessionToken != "" {
		username, err := h.sessions.Verify(p.SessionToken)
		if err == nil && username == p.Username {
			return nil
		}
	}
	if p.NewUser {
		return h.store.CreateUser(p.Username, p.PasswordHash)
	}
	return h.store.Authenticate(p.Username, p.PasswordHash)
}

// Logout frees the account's live-session slot, for disconnects.
func (h *LoginHandler) Logout(username string) {
	h.release(username)
	h.log.Info("user logged out", zap.String("user", username))
}

func (h *LoginHandler) claim(username string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.loggedIn[username] {
		return false
	}
	h.loggedIn[username] = true
	return true
}

func (h *LoginHandler) release(username string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.loggedIn, username)
}

func (h *LoginHandler) reject(link ports.UserLink, message string) {
	link.SendMessage(ports.Action{
		Kind:    "popup",
		Payload: map[string]string{"level": "error", "message": message},
	})
}
