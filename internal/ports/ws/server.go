package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"magnifico/internal/ports"
)

// Server upgrades HTTP requests into links and hands each fresh link to
// onConnect (the login handshake).
type Server struct {
	upgrader  websocket.Upgrader
	onConnect func(link *Conn)
	log       *zap.Logger
}

// NewServer wires the websocket endpoint.
func NewServer(onConnect func(link *Conn), log *zap.Logger) *Server {
	return &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		onConnect: onConnect,
		log:       log,
	}
}

// ServeHTTP implements the /ws endpoint.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade failed", zap.Error(err))
		return
	}

	conn := newConn(wsConn, s.log.With(zap.String("remote", r.RemoteAddr)))
	s.onConnect(conn)
	go conn.run()
}

var _ ports.UserLink = (*Conn)(nil)
