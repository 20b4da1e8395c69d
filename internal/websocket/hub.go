package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"devninja-chat/internal/models"
	"devninja-chat/internal/services"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxFrameBytes  = 16 * 1024
	closeEndedText = "session ended"
)

type chatService interface {
	History(id uuid.UUID) ([]models.Message, error)
	Busy(id uuid.UUID) bool
	HandleUserMessage(ctx context.Context, id uuid.UUID, text string) (services.Reply, error)
}

// ReplyPayload is the body of a "reply" frame.
type ReplyPayload struct {
	Reply  string `json:"reply"`
	Source string `json:"source"`
}

// ErrorPayload is the body of an "error" frame.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// TypingPayload is the body of a "typing" frame.
type TypingPayload struct {
	Message string `json:"message"`
}

// conn serialises writes; gorilla allows one concurrent writer.
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(v)
}

func (c *conn) writeControl(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteControl(messageType, data, time.Now().Add(writeWait))
}

// Hub tracks websocket connections per chat session.
type Hub struct {
	mu          sync.RWMutex
	connections map[uuid.UUID][]*conn
	chat        chatService
	upgrader    websocket.Upgrader
	log         zerolog.Logger
}

func NewHub(chat chatService, allowedOrigin string, log zerolog.Logger) *Hub {
	return &Hub{
		connections: make(map[uuid.UUID][]*conn),
		chat:        chat,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigin),
		},
		log: log,
	}
}

func originChecker(allowed string) func(r *http.Request) bool {
	allowed = strings.TrimRight(allowed, "/")
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || allowed == "*" {
			return true
		}
		if origin == allowed {
			return true
		}
		// Same-host pages (the bundled widget) are always accepted.
		u, err := url.Parse(origin)
		return err == nil && u.Host == r.Host
	}
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid session ID", http.StatusBadRequest)
		return
	}
	if _, err := h.chat.History(sessionID); err != nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &conn{ws: ws}
	h.registerConnection(sessionID, c)

	go h.pingLoop(sessionID, c)
	go h.readLoop(sessionID, c)
}

func (h *Hub) readLoop(sessionID uuid.UUID, c *conn) {
	defer h.unregisterConnection(sessionID, c)

	c.ws.SetReadLimit(maxFrameBytes)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var req models.SendMessageRequest
		if err := c.ws.ReadJSON(&req); err != nil {
			if isJSONError(err) {
				c.writeJSON(errorFrame("VALIDATION_ERROR", services.ErrorReply))
				continue
			}
			return
		}
		c.ws.SetReadDeadline(time.Now().Add(pongWait))

		// Each message runs on its own goroutine so a second frame sent
		// while a reply is pending is rejected as busy, not queued.
		go h.handleMessage(sessionID, c, req.Message)
	}
}

// handleMessage shows the typing indicator only to the sending socket and
// only once the session is free; the reply goes to every socket.
func (h *Hub) handleMessage(sessionID uuid.UUID, c *conn, text string) {
	if h.chat.Busy(sessionID) {
		h.writeError(c, "BUSY")
		return
	}
	if err := c.writeJSON(models.WSMessage{Type: models.WSTypeTyping, Payload: TypingPayload{Message: services.LoadingReply}}); err != nil {
		h.log.Debug().Err(err).Msg("websocket write failed")
	}

	reply, err := h.chat.HandleUserMessage(context.Background(), sessionID, text)
	if err != nil {
		code := "INTERNAL_ERROR"
		var (
			conflictErr   *services.ConflictError
			validationErr *services.ValidationError
			notFoundErr   *services.NotFoundError
		)
		switch {
		case errors.As(err, &conflictErr):
			code = conflictErr.Code
		case errors.As(err, &validationErr):
			code = "VALIDATION_ERROR"
		case errors.As(err, &notFoundErr):
			code = "NOT_FOUND"
		default:
			h.log.Error().Err(err).Str("session_id", sessionID.String()).Msg("websocket message failed")
		}
		h.writeError(c, code)
		return
	}

	h.broadcast(sessionID, models.WSMessage{
		Type:    models.WSTypeReply,
		Payload: ReplyPayload{Reply: reply.Text, Source: reply.Source},
	})
}

func (h *Hub) writeError(c *conn, code string) {
	if err := c.writeJSON(errorFrame(code, services.ErrorReply)); err != nil {
		h.log.Debug().Err(err).Msg("websocket write failed")
	}
}

func (h *Hub) pingLoop(sessionID uuid.UUID, c *conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		if err := c.writeControl(websocket.PingMessage, nil); err != nil {
			return
		}
		if !h.isRegistered(sessionID, c) {
			return
		}
	}
}

func (h *Hub) registerConnection(sessionID uuid.UUID, c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[sessionID] = append(h.connections[sessionID], c)
	h.log.Debug().Str("session_id", sessionID.String()).Int("total", len(h.connections[sessionID])).Msg("websocket connected")
}

func (h *Hub) unregisterConnection(sessionID uuid.UUID, c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c.ws.Close()

	conns := h.connections[sessionID]
	for i, existing := range conns {
		if existing == c {
			h.connections[sessionID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(h.connections[sessionID]) == 0 {
		delete(h.connections, sessionID)
	}

	h.log.Debug().Str("session_id", sessionID.String()).Msg("websocket disconnected")
}

func (h *Hub) isRegistered(sessionID uuid.UUID, c *conn) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, existing := range h.connections[sessionID] {
		if existing == c {
			return true
		}
	}
	return false
}

// ConnectionCount returns the number of live sockets for a session.
func (h *Hub) ConnectionCount(sessionID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[sessionID])
}

func (h *Hub) broadcast(sessionID uuid.UUID, msg models.WSMessage) {
	h.mu.RLock()
	conns := append([]*conn(nil), h.connections[sessionID]...)
	h.mu.RUnlock()

	for _, c := range conns {
		if err := c.writeJSON(msg); err != nil {
			h.log.Debug().Err(err).Str("session_id", sessionID.String()).Msg("websocket write failed")
		}
	}
}

// CloseSession sends a close frame to every socket of an ended session. The
// read loops then unregister them.
func (h *Hub) CloseSession(sessionID uuid.UUID) {
	h.mu.RLock()
	conns := append([]*conn(nil), h.connections[sessionID]...)
	h.mu.RUnlock()

	payload := websocket.FormatCloseMessage(websocket.CloseNormalClosure, closeEndedText)
	for _, c := range conns {
		c.writeControl(websocket.CloseMessage, payload)
	}
}

// Shutdown closes every socket; used during graceful shutdown.
func (h *Hub) Shutdown() {
	h.mu.RLock()
	ids := make([]uuid.UUID, 0, len(h.connections))
	for id := range h.connections {
		ids = append(ids, id)
	}
	h.mu.RUnlock()

	for _, id := range ids {
		h.CloseSession(id)
	}
}

func isJSONError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF)
}

func errorFrame(code, message string) models.WSMessage {
	return models.WSMessage{Type: models.WSTypeError, Payload: ErrorPayload{Code: code, Message: message}}
}
