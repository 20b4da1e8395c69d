package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"devninja-chat/internal/models"
	"devninja-chat/internal/services"
)

type stubAdminChat struct {
	secret     string
	configured bool
	setErr     error
	since      time.Time
	stats      *models.ReplyStats
	statsErr   error
}

func (s *stubAdminChat) SetCredential(ctx context.Context, secret string) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.secret = secret
	s.configured = true
	return nil
}

func (s *stubAdminChat) RemoveCredential(ctx context.Context) error {
	s.secret = ""
	s.configured = false
	return nil
}

func (s *stubAdminChat) IsConfigured(ctx context.Context) bool { return s.configured }

func (s *stubAdminChat) Stats(ctx context.Context, since time.Time) (*models.ReplyStats, error) {
	s.since = since
	return s.stats, s.statsErr
}

type stubLogin struct {
	tokens *models.TokenResponse
	err    error
}

func (s *stubLogin) Login(ctx context.Context, req models.LoginRequest) (*models.TokenResponse, error) {
	return s.tokens, s.err
}

func TestAdminHandler_SetCredential(t *testing.T) {
	chat := &stubAdminChat{}
	h := NewAdminHandler(chat, &stubLogin{})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/credential", bytes.NewReader([]byte(`{"api_key":"sk-abc"}`)))
	rr := httptest.NewRecorder()
	h.SetCredential(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if chat.secret != "sk-abc" {
		t.Errorf("expected secret to reach the service, got %q", chat.secret)
	}
}

func TestAdminHandler_SetCredential_Blank(t *testing.T) {
	chat := &stubAdminChat{setErr: &services.ValidationError{Fields: map[string]string{"api_key": "API key must not be empty"}}}
	h := NewAdminHandler(chat, &stubLogin{})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/credential", bytes.NewReader([]byte(`{"api_key":"   "}`)))
	rr := httptest.NewRecorder()
	h.SetCredential(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	if chat.configured {
		t.Fatalf("blank credential must not configure the store")
	}
}

func TestAdminHandler_RemoveAndStatus(t *testing.T) {
	chat := &stubAdminChat{secret: "sk-abc", configured: true}
	h := NewAdminHandler(chat, &stubLogin{})

	rr := httptest.NewRecorder()
	h.RemoveCredential(rr, httptest.NewRequest(http.MethodDelete, "/api/v1/admin/credential", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	rr = httptest.NewRecorder()
	h.CredentialStatus(rr, httptest.NewRequest(http.MethodGet, "/api/v1/admin/credential", nil))

	var resp models.StatusResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Configured {
		t.Errorf("expected configured=false after removal")
	}
}

func TestAdminHandler_Login(t *testing.T) {
	h := NewAdminHandler(&stubAdminChat{}, &stubLogin{tokens: &models.TokenResponse{AccessToken: "jwt", ExpiresIn: 3600}})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", bytes.NewReader([]byte(`{"password":"pw"}`)))
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	h = NewAdminHandler(&stubAdminChat{}, &stubLogin{err: &services.UnauthorizedError{Message: "Invalid password"}})
	rr = httptest.NewRecorder()
	h.Login(rr, httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", bytes.NewReader([]byte(`{"password":"bad"}`))))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
}

func TestAdminHandler_Stats(t *testing.T) {
	now := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)
	chat := &stubAdminChat{stats: &models.ReplyStats{BySource: map[string]int64{"remote": 5}}}
	h := NewAdminHandler(chat, &stubLogin{})
	h.now = func() time.Time { return now }

	rr := httptest.NewRecorder()
	h.Stats(rr, httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats?hours=6", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if want := now.Add(-6 * time.Hour); !chat.since.Equal(want) {
		t.Errorf("expected since %v, got %v", want, chat.since)
	}

	rr = httptest.NewRecorder()
	h.Stats(rr, httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats?hours=-1", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestAdminHandler_Stats_Disabled(t *testing.T) {
	h := NewAdminHandler(&stubAdminChat{statsErr: &services.UnavailableError{Message: "Reply event log is disabled"}}, &stubLogin{})

	rr := httptest.NewRecorder()
	h.Stats(rr, httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, rr.Code)
	}
}
