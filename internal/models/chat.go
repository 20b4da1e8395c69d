package models

import (
	"time"

	"github.com/google/uuid"
)

// Message roles accepted by the completion endpoint.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single message in a conversation. It is never
// modified after it is appended to a history.
type Message struct {
	Role    string `json:"role"` // "system" | "user" | "assistant"
	Content string `json:"content"`
}

// Reply sources.
const (
	SourceRemote   = "remote"
	SourceFallback = "fallback"
)

// Fallback reasons.
const (
	ReasonNotConfigured  = "not_configured"
	ReasonUpstreamStatus = "upstream_status"
	ReasonUpstreamParse  = "upstream_parse"
	ReasonTransport      = "transport"
)

// SendMessageRequest is the payload sent to the chat endpoint and over the socket.
type SendMessageRequest struct {
	Message string `json:"message"`
}

// SendMessageResponse is the reply shown in the widget.
type SendMessageResponse struct {
	Reply  string `json:"reply"`
	Source string `json:"source"`
}

type SessionResponse struct {
	SessionID uuid.UUID `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

type HistoryResponse struct {
	SessionID uuid.UUID `json:"session_id"`
	Messages  []Message `json:"messages"`
}

type StatusResponse struct {
	Configured bool `json:"configured"`
}

// CredentialRequest carries the upstream API key set by the operator.
type CredentialRequest struct {
	APIKey string `json:"api_key"`
}

type LoginRequest struct {
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}
