package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devninja-chat/internal/models"
	"devninja-chat/internal/services"
)

type stubChat struct {
	known uuid.UUID
	busy  bool
	reply services.Reply
	err   error
}

func (s *stubChat) Busy(id uuid.UUID) bool {
	return s.busy
}

func (s *stubChat) History(id uuid.UUID) ([]models.Message, error) {
	if id != s.known {
		return nil, &services.NotFoundError{Message: "Session not found"}
	}
	return nil, nil
}

func (s *stubChat) HandleUserMessage(ctx context.Context, id uuid.UUID, text string) (services.Reply, error) {
	return s.reply, s.err
}

type frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func newTestServer(t *testing.T, chat *stubChat) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(chat, "*", zerolog.Nop())

	r := chi.NewRouter()
	r.Get("/chat/sessions/{id}/ws", hub.HandleWebSocket)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, id uuid.UUID) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/chat/sessions/" + id.String() + "/ws"
	return websocket.DefaultDialer.Dial(u, nil)
}

func readFrame(t *testing.T, ws *websocket.Conn) frame {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f frame
	require.NoError(t, ws.ReadJSON(&f))
	return f
}

func TestHub_MessageGetsTypingThenReply(t *testing.T) {
	id := uuid.New()
	chat := &stubChat{known: id, reply: services.Reply{Text: "Ciao! 👋", Source: models.SourceRemote}}
	_, srv := newTestServer(t, chat)

	ws, _, err := dial(t, srv, id)
	require.NoError(t, err)
	defer ws.Close()

	require.NoError(t, ws.WriteJSON(models.SendMessageRequest{Message: "ciao"}))

	typing := readFrame(t, ws)
	assert.Equal(t, models.WSTypeTyping, typing.Type)

	reply := readFrame(t, ws)
	require.Equal(t, models.WSTypeReply, reply.Type)
	var payload ReplyPayload
	require.NoError(t, json.Unmarshal(reply.Payload, &payload))
	assert.Equal(t, "Ciao! 👋", payload.Reply)
	assert.Equal(t, models.SourceRemote, payload.Source)
}

func TestHub_BusyBecomesErrorFrame(t *testing.T) {
	id := uuid.New()
	chat := &stubChat{known: id, busy: true}
	_, srv := newTestServer(t, chat)

	ws, _, err := dial(t, srv, id)
	require.NoError(t, err)
	defer ws.Close()

	require.NoError(t, ws.WriteJSON(models.SendMessageRequest{Message: "ciao"}))

	// No typing indicator for a message that was never accepted.
	f := readFrame(t, ws)
	require.Equal(t, models.WSTypeError, f.Type)
	var payload ErrorPayload
	require.NoError(t, json.Unmarshal(f.Payload, &payload))
	assert.Equal(t, "BUSY", payload.Code)
	assert.Equal(t, services.ErrorReply, payload.Message)
}

func TestHub_ConflictAfterTypingBecomesErrorFrame(t *testing.T) {
	id := uuid.New()
	chat := &stubChat{known: id, err: &services.ConflictError{Code: "BUSY", Message: "busy"}}
	_, srv := newTestServer(t, chat)

	ws, _, err := dial(t, srv, id)
	require.NoError(t, err)
	defer ws.Close()

	require.NoError(t, ws.WriteJSON(models.SendMessageRequest{Message: "ciao"}))

	assert.Equal(t, models.WSTypeTyping, readFrame(t, ws).Type)

	f := readFrame(t, ws)
	require.Equal(t, models.WSTypeError, f.Type)
	var payload ErrorPayload
	require.NoError(t, json.Unmarshal(f.Payload, &payload))
	assert.Equal(t, "BUSY", payload.Code)
}

func TestHub_TypingGoesToSenderReplyToAll(t *testing.T) {
	id := uuid.New()
	chat := &stubChat{known: id, reply: services.Reply{Text: "Eccomi", Source: models.SourceFallback}}
	hub, srv := newTestServer(t, chat)

	sender, _, err := dial(t, srv, id)
	require.NoError(t, err)
	defer sender.Close()
	other, _, err := dial(t, srv, id)
	require.NoError(t, err)
	defer other.Close()

	require.Eventually(t, func() bool { return hub.ConnectionCount(id) == 2 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, sender.WriteJSON(models.SendMessageRequest{Message: "ciao"}))

	assert.Equal(t, models.WSTypeTyping, readFrame(t, sender).Type)
	assert.Equal(t, models.WSTypeReply, readFrame(t, sender).Type)

	f := readFrame(t, other)
	require.Equal(t, models.WSTypeReply, f.Type)
	var payload ReplyPayload
	require.NoError(t, json.Unmarshal(f.Payload, &payload))
	assert.Equal(t, "Eccomi", payload.Reply)
}

func TestHub_MalformedFrame(t *testing.T) {
	id := uuid.New()
	_, srv := newTestServer(t, &stubChat{known: id})

	ws, _, err := dial(t, srv, id)
	require.NoError(t, err)
	defer ws.Close()

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(`{"message": 42}`)))

	f := readFrame(t, ws)
	require.Equal(t, models.WSTypeError, f.Type)
	var payload ErrorPayload
	require.NoError(t, json.Unmarshal(f.Payload, &payload))
	assert.Equal(t, "VALIDATION_ERROR", payload.Code)
}

func TestHub_UnknownSessionRejected(t *testing.T) {
	_, srv := newTestServer(t, &stubChat{known: uuid.New()})

	_, resp, err := dial(t, srv, uuid.New())
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHub_CloseSession(t *testing.T) {
	id := uuid.New()
	hub, srv := newTestServer(t, &stubChat{known: id})

	ws, _, err := dial(t, srv, id)
	require.NoError(t, err)
	defer ws.Close()

	require.Eventually(t, func() bool { return hub.ConnectionCount(id) == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.CloseSession(id)

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = ws.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker("https://devninja.it/")

	req := httptest.NewRequest(http.MethodGet, "http://api.devninja.it/ws", nil)
	assert.True(t, check(req), "no origin header")

	req.Header.Set("Origin", "https://devninja.it")
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, check(req))

	req.Header.Set("Origin", "http://api.devninja.it")
	assert.True(t, check(req), "same host")
}
