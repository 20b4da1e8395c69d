package services

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"devninja-chat/internal/models"
)

// Reply is the text handed back to the widget plus how it was produced.
type Reply struct {
	Text    string
	Source  string // models.SourceRemote | models.SourceFallback
	Reason  string // why the fallback ran; empty for remote replies
	Rule    string // fallback rule that fired
	Latency time.Duration
}

// Orchestrator processes one visitor message at a time for a single
// conversation. Remote failures never reach the caller.
type Orchestrator struct {
	history  *History
	remote   Responder
	fallback *FallbackResponder
	log      zerolog.Logger
	busy     atomic.Bool
}

func NewOrchestrator(history *History, remote Responder, fallback *FallbackResponder, log zerolog.Logger) *Orchestrator {
	if history == nil {
		history = NewHistory()
	}
	return &Orchestrator{
		history:  history,
		remote:   remote,
		fallback: fallback,
		log:      log,
	}
}

// Busy reports whether a message is in flight.
func (o *Orchestrator) Busy() bool {
	return o.busy.Load()
}

func (o *Orchestrator) History() *History {
	return o.history
}

// HandleUserMessage returns ErrBusy, without touching history, when another
// message is still being processed. Every other outcome is a Reply.
//
// Fallback replies are appended to history like remote ones so the next
// remote call sees the whole exchange.
func (o *Orchestrator) HandleUserMessage(ctx context.Context, text string) (Reply, error) {
	if !o.busy.CompareAndSwap(false, true) {
		return Reply{}, ErrBusy
	}
	defer o.busy.Store(false)

	start := time.Now()
	prior := o.history.Messages()
	o.history.Append(models.Message{Role: models.RoleUser, Content: text})

	// Once issued, the upstream call runs to completion even if the caller goes away.
	callCtx := context.WithoutCancel(ctx)

	var reply Reply
	content, err := o.complete(callCtx, prior, text)
	if err == nil {
		reply = Reply{Text: content, Source: models.SourceRemote}
	} else {
		rule, canned := o.fallback.Match(text)
		reply = Reply{
			Text:   canned,
			Source: models.SourceFallback,
			Reason: fallbackReason(err),
			Rule:   rule,
		}
	}
	reply.Latency = time.Since(start)

	o.history.Append(models.Message{Role: models.RoleAssistant, Content: reply.Text})

	event := o.log.Info()
	if err != nil && !errors.Is(err, ErrNotConfigured) {
		event = o.log.Warn().Err(err)
	}
	event.
		Str("event", "chat_reply").
		Str("source", reply.Source).
		Str("reason", reply.Reason).
		Str("rule", reply.Rule).
		Dur("latency", reply.Latency).
		Int("history_len", o.history.Len()).
		Msg("reply produced")

	return reply, nil
}

func (o *Orchestrator) complete(ctx context.Context, prior []models.Message, text string) (content string, err error) {
	if o.remote == nil {
		return "", ErrNotConfigured
	}
	defer func() {
		// A panicking responder is treated like any other upstream failure.
		if r := recover(); r != nil {
			o.log.Error().Interface("panic", r).Msg("responder panicked")
			content, err = "", &TransportError{Err: errors.New("responder panicked")}
		}
	}()
	return o.remote.Complete(ctx, prior, text)
}

func fallbackReason(err error) string {
	var upstream *UpstreamError
	switch {
	case errors.Is(err, ErrNotConfigured):
		return models.ReasonNotConfigured
	case errors.As(err, &upstream):
		if upstream.IsStatus() {
			return models.ReasonUpstreamStatus
		}
		return models.ReasonUpstreamParse
	default:
		return models.ReasonTransport
	}
}
