package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"devninja-chat/internal/models"
	"devninja-chat/internal/services"
)

type stubChatService struct {
	configured bool
	session    *services.Session
	history    []models.Message
	reply      services.Reply
	err        error
	lastText   string
	ended      uuid.UUID
}

func (s *stubChatService) IsConfigured(ctx context.Context) bool { return s.configured }

func (s *stubChatService) CreateSession() *services.Session { return s.session }

func (s *stubChatService) EndSession(id uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	s.ended = id
	return nil
}

func (s *stubChatService) History(id uuid.UUID) ([]models.Message, error) {
	return s.history, s.err
}

func (s *stubChatService) HandleUserMessage(ctx context.Context, id uuid.UUID, text string) (services.Reply, error) {
	s.lastText = text
	return s.reply, s.err
}

type stubSockets struct{ closed []uuid.UUID }

func (s *stubSockets) CloseSession(id uuid.UUID) { s.closed = append(s.closed, id) }

func withSessionParam(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestChatHandler_CreateSession(t *testing.T) {
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	sess := &services.Session{ID: uuid.New(), CreatedAt: created}
	h := NewChatHandler(&stubChatService{session: sess}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/sessions", nil)
	rr := httptest.NewRecorder()
	h.CreateSession(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, rr.Code)
	}
	var resp models.SessionResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.SessionID != sess.ID {
		t.Errorf("expected session id %s, got %s", sess.ID, resp.SessionID)
	}
}

func TestChatHandler_SendMessage(t *testing.T) {
	id := uuid.New()
	chat := &stubChatService{reply: services.Reply{Text: "Un sito vetrina parte da 800€.", Source: models.SourceFallback, Reason: models.ReasonNotConfigured}}
	h := NewChatHandler(chat, nil)

	body, _ := json.Marshal(models.SendMessageRequest{Message: "Quanto costa un sito?"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/sessions/"+id.String()+"/messages", bytes.NewReader(body))
	req = withSessionParam(req, id.String())
	rr := httptest.NewRecorder()
	h.SendMessage(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if chat.lastText != "Quanto costa un sito?" {
		t.Errorf("expected message to reach the service, got %q", chat.lastText)
	}

	var resp map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["reply"] != "Un sito vetrina parte da 800€." || resp["source"] != models.SourceFallback {
		t.Errorf("unexpected response %v", resp)
	}
	if _, leaked := resp["reason"]; leaked {
		t.Errorf("fallback reason must not be exposed to visitors")
	}
}

func TestChatHandler_SendMessage_Busy(t *testing.T) {
	id := uuid.New()
	h := NewChatHandler(&stubChatService{err: &services.ConflictError{Code: "BUSY", Message: "busy"}}, nil)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(`{"message":"ciao"}`)))
	req = withSessionParam(req, id.String())
	rr := httptest.NewRecorder()
	h.SendMessage(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected status %d, got %d", http.StatusConflict, rr.Code)
	}
}

func TestChatHandler_SendMessage_BadInput(t *testing.T) {
	tests := []struct {
		name string
		id   string
		body string
	}{
		{"invalid session id", "not-a-uuid", `{"message":"ciao"}`},
		{"malformed body", uuid.New().String(), `{"message":`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			chat := &stubChatService{}
			h := NewChatHandler(chat, nil)

			req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(tc.body)))
			req = withSessionParam(req, tc.id)
			rr := httptest.NewRecorder()
			h.SendMessage(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
			}
			if chat.lastText != "" {
				t.Fatalf("service should not be called")
			}
		})
	}
}

func TestChatHandler_History_NotFound(t *testing.T) {
	h := NewChatHandler(&stubChatService{err: &services.NotFoundError{Message: "Session not found"}}, nil)

	req := withSessionParam(httptest.NewRequest(http.MethodGet, "/", nil), uuid.New().String())
	rr := httptest.NewRecorder()
	h.History(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}

func TestChatHandler_History(t *testing.T) {
	id := uuid.New()
	chat := &stubChatService{history: []models.Message{
		{Role: models.RoleUser, Content: "ciao"},
		{Role: models.RoleAssistant, Content: "Salve!"},
	}}
	h := NewChatHandler(chat, nil)

	req := withSessionParam(httptest.NewRequest(http.MethodGet, "/", nil), id.String())
	rr := httptest.NewRecorder()
	h.History(rr, req)

	var resp models.HistoryResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Messages) != 2 || resp.SessionID != id {
		t.Errorf("unexpected history response %+v", resp)
	}
}

func TestChatHandler_EndSession_ClosesSockets(t *testing.T) {
	id := uuid.New()
	chat := &stubChatService{}
	sockets := &stubSockets{}
	h := NewChatHandler(chat, sockets)

	req := withSessionParam(httptest.NewRequest(http.MethodDelete, "/", nil), id.String())
	rr := httptest.NewRecorder()
	h.EndSession(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rr.Code)
	}
	if chat.ended != id {
		t.Errorf("expected session %s to be ended", id)
	}
	if len(sockets.closed) != 1 || sockets.closed[0] != id {
		t.Errorf("expected sockets of %s to be closed, got %v", id, sockets.closed)
	}
}

func TestChatHandler_Status(t *testing.T) {
	h := NewChatHandler(&stubChatService{configured: true}, nil)

	rr := httptest.NewRecorder()
	h.Status(rr, httptest.NewRequest(http.MethodGet, "/api/v1/chat/status", nil))

	var resp models.StatusResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Configured {
		t.Errorf("expected configured=true")
	}
}
