package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"devninja-chat/internal/models"
)

const defaultStatsWindow = 24 * time.Hour

type adminChatService interface {
	SetCredential(ctx context.Context, secret string) error
	RemoveCredential(ctx context.Context) error
	IsConfigured(ctx context.Context) bool
	Stats(ctx context.Context, since time.Time) (*models.ReplyStats, error)
}

type operatorLogin interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.TokenResponse, error)
}

type AdminHandler struct {
	chat adminChatService
	auth operatorLogin
	now  func() time.Time
}

func NewAdminHandler(chat adminChatService, auth operatorLogin) *AdminHandler {
	return &AdminHandler{chat: chat, auth: auth, now: time.Now}
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	tokens, err := h.auth.Login(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokens)
}

func (h *AdminHandler) SetCredential(w http.ResponseWriter, r *http.Request) {
	var req models.CredentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if err := h.chat.SetCredential(r.Context(), req.APIKey); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.StatusResponse{Configured: true})
}

func (h *AdminHandler) RemoveCredential(w http.ResponseWriter, r *http.Request) {
	if err := h.chat.RemoveCredential(r.Context()); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.StatusResponse{Configured: false})
}

func (h *AdminHandler) CredentialStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.StatusResponse{Configured: h.chat.IsConfigured(r.Context())})
}

// Stats accepts ?hours=N; defaults to the last 24 hours.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	window := defaultStatsWindow
	if raw := r.URL.Query().Get("hours"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "hours must be a positive integer", r))
			return
		}
		window = time.Duration(hours) * time.Hour
	}

	stats, err := h.chat.Stats(r.Context(), h.now().Add(-window))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
