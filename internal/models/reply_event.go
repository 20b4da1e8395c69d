package models

import (
	"time"

	"github.com/google/uuid"
)

// ReplyEvent records which path produced a reply. Message text is never stored.
type ReplyEvent struct {
	ID        uuid.UUID `json:"id"`
	SessionID uuid.UUID `json:"session_id"`
	Source    string    `json:"source"`
	Reason    string    `json:"reason,omitempty"`
	LatencyMS int64     `json:"latency_ms"`
	CreatedAt time.Time `json:"created_at"`
}

// ReplyStats aggregates reply events by source.
type ReplyStats struct {
	Since    time.Time        `json:"since"`
	BySource map[string]int64 `json:"by_source"`
}
