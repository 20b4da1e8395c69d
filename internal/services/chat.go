package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"devninja-chat/internal/models"
)

const (
	MaxMessageRunes    = 2000
	recordEventTimeout = 5 * time.Second
)

// ReplyRecorder persists reply events. Optional.
type ReplyRecorder interface {
	Create(ctx context.Context, event *models.ReplyEvent) error
	CountBySource(ctx context.Context, since time.Time) (map[string]int64, error)
}

// ChatService is everything the widget and the operator can ask of the bot.
type ChatService struct {
	creds    *CredentialStore
	sessions *SessionManager
	recorder ReplyRecorder
	log      zerolog.Logger
}

// NewChatService accepts a nil recorder, which disables the event log.
func NewChatService(creds *CredentialStore, sessions *SessionManager, recorder ReplyRecorder, log zerolog.Logger) *ChatService {
	return &ChatService{
		creds:    creds,
		sessions: sessions,
		recorder: recorder,
		log:      log,
	}
}

func (s *ChatService) SetCredential(ctx context.Context, secret string) error {
	return s.creds.Set(ctx, secret)
}

func (s *ChatService) RemoveCredential(ctx context.Context) error {
	return s.creds.Remove(ctx)
}

func (s *ChatService) IsConfigured(ctx context.Context) bool {
	return s.creds.IsConfigured(ctx)
}

// WarnIfUnconfigured logs setup guidance when no credential is stored yet.
func (s *ChatService) WarnIfUnconfigured(ctx context.Context) {
	if s.creds.IsConfigured(ctx) {
		return
	}
	s.log.Warn().Msg("chat credential not configured: replies will use canned fallback responses until an operator sets one via PUT /api/v1/admin/credential")
}

func (s *ChatService) CreateSession() *Session {
	return s.sessions.Create()
}

func (s *ChatService) EndSession(id uuid.UUID) error {
	if !s.sessions.Delete(id) {
		return &NotFoundError{Message: "Session not found"}
	}
	return nil
}

func (s *ChatService) History(id uuid.UUID) ([]models.Message, error) {
	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, &NotFoundError{Message: "Session not found"}
	}
	return sess.Orchestrator.History().Messages(), nil
}

// Busy reports whether the session has a message in flight. Unknown
// sessions are never busy.
func (s *ChatService) Busy(id uuid.UUID) bool {
	sess, ok := s.sessions.Get(id)
	return ok && sess.Orchestrator.Busy()
}

// HandleUserMessage runs one visitor message through the session's
// orchestrator. Errors are about the request itself (validation, unknown
// session, busy), never about the upstream API.
func (s *ChatService) HandleUserMessage(ctx context.Context, id uuid.UUID, text string) (Reply, error) {
	if strings.TrimSpace(text) == "" {
		return Reply{}, &ValidationError{Fields: map[string]string{"message": "Message is required"}}
	}
	if utf8.RuneCountInString(text) > MaxMessageRunes {
		return Reply{}, &ValidationError{Fields: map[string]string{"message": "Message is too long"}}
	}

	sess, ok := s.sessions.Get(id)
	if !ok {
		return Reply{}, &NotFoundError{Message: "Session not found"}
	}

	reply, err := sess.Orchestrator.HandleUserMessage(ctx, text)
	if errors.Is(err, ErrBusy) {
		return Reply{}, &ConflictError{Code: "BUSY", Message: "Still answering the previous message"}
	}
	if err != nil {
		return Reply{}, err
	}

	s.record(ctx, id, reply)
	return reply, nil
}

// Stats counts replies by source since the given time.
func (s *ChatService) Stats(ctx context.Context, since time.Time) (*models.ReplyStats, error) {
	if s.recorder == nil {
		return nil, &UnavailableError{Message: "Reply event log is disabled"}
	}
	counts, err := s.recorder.CountBySource(ctx, since)
	if err != nil {
		return nil, err
	}
	return &models.ReplyStats{Since: since, BySource: counts}, nil
}

func (s *ChatService) record(ctx context.Context, sessionID uuid.UUID, reply Reply) {
	if s.recorder == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordEventTimeout)
	defer cancel()

	event := &models.ReplyEvent{
		SessionID: sessionID,
		Source:    reply.Source,
		Reason:    reply.Reason,
		LatencyMS: reply.Latency.Milliseconds(),
	}
	if err := s.recorder.Create(ctx, event); err != nil {
		s.log.Error().Err(err).Str("session_id", sessionID.String()).Msg("failed to record reply event")
	}
}
