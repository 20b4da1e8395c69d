package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"devninja-chat/internal/models"
	"devninja-chat/internal/services"
)

type chatService interface {
	IsConfigured(ctx context.Context) bool
	CreateSession() *services.Session
	EndSession(id uuid.UUID) error
	History(id uuid.UUID) ([]models.Message, error)
	HandleUserMessage(ctx context.Context, id uuid.UUID, text string) (services.Reply, error)
}

// sessionSockets closes live websocket connections of an ended session.
type sessionSockets interface {
	CloseSession(id uuid.UUID)
}

type ChatHandler struct {
	chat    chatService
	sockets sessionSockets
}

func NewChatHandler(chat chatService, sockets sessionSockets) *ChatHandler {
	return &ChatHandler{chat: chat, sockets: sockets}
}

// Status tells the widget whether replies will come from the remote model.
func (h *ChatHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.StatusResponse{Configured: h.chat.IsConfigured(r.Context())})
}

func (h *ChatHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess := h.chat.CreateSession()
	writeJSON(w, http.StatusCreated, models.SessionResponse{
		SessionID: sess.ID,
		CreatedAt: sess.CreatedAt,
	})
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	msgs, err := h.chat.History(id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.HistoryResponse{SessionID: id, Messages: msgs})
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req models.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	reply, err := h.chat.HandleUserMessage(r.Context(), id, req.Message)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.SendMessageResponse{Reply: reply.Text, Source: reply.Source})
}

func (h *ChatHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	if err := h.chat.EndSession(id); err != nil {
		handleServiceError(w, r, err)
		return
	}
	if h.sockets != nil {
		h.sockets.CloseSession(id)
	}

	w.WriteHeader(http.StatusNoContent)
}

func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid session ID", r))
		return uuid.Nil, false
	}
	return id, true
}
