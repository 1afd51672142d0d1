package ws

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"fulfillment/internal/adapters/in/auth"
)

const writeTimeout = 10 * time.Second

// Handler upgrades authenticated HTTP requests to websocket connections and
// attaches them to the hub. The token travels either in the Authorization
// header or in a "token" query parameter, since browser websocket clients
// cannot set headers.
type Handler struct {
	hub      *Hub
	verifier *auth.TokenVerifier
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a websocket upgrade handler bound to the hub.
func NewHandler(hub *Hub, verifier *auth.TokenVerifier, logger *slog.Logger) *Handler {
	return &Handler{
		hub:      hub,
		verifier: verifier,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logger.With("component", "ws_handler"),
	}
}

// Serve handles GET /ws. An invalid or missing token fails the handshake
// before any upgrade happens.
func (h *Handler) Serve(c echo.Context) error {
	principal, err := h.verifier.Verify(extractToken(c.Request()))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing token")
	}

	socket, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the error response.
		return nil
	}

	s := &socketSession{socket: socket}
	conn := h.hub.Register(principal, s)
	h.logger.Info("client connected", "user_id", principal.UserID, "role", principal.Role)

	go h.readLoop(conn, s, principal)
	return nil
}

// readLoop drains inbound frames until the peer goes away. Clients do not
// send application messages over this channel; reading only serves to
// detect close and answer control frames.
func (h *Handler) readLoop(conn *connection, s *socketSession, principal auth.Principal) {
	defer func() {
		h.hub.Unregister(conn)
		_ = s.Close()
		h.logger.Info("client disconnected", "user_id", principal.UserID)
	}()

	for {
		if _, _, err := s.socket.ReadMessage(); err != nil {
			return
		}
	}
}

func extractToken(r *http.Request) string {
	header := r.Header.Get(echo.HeaderAuthorization)
	if after, found := strings.CutPrefix(header, "Bearer "); found {
		return after
	}
	return r.URL.Query().Get("token")
}

// socketSession adapts a gorilla connection to the hub's session interface.
// gorilla allows at most one concurrent writer, so Send serializes writes.
type socketSession struct {
	mu     sync.Mutex
	socket *websocket.Conn
}

func (s *socketSession) Send(message []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.socket.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return s.socket.WriteMessage(websocket.TextMessage, message)
}

func (s *socketSession) Close() error {
	return s.socket.Close()
}
