package services

import (
	"sync"

	"devninja-chat/internal/models"
)

// History is the append-only message log of one chat session. Storage is
// never truncated; callers bound what they send upstream with Last.
type History struct {
	mu       sync.RWMutex
	messages []models.Message
}

func NewHistory() *History {
	return &History{}
}

func (h *History) Append(msg models.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, msg)
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.messages)
}

// Messages returns a copy of the full log.
func (h *History) Messages() []models.Message {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]models.Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// Last returns a copy of the n most recent messages.
func (h *History) Last(n int) []models.Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return lastN(h.messages, n)
}

func lastN(messages []models.Message, n int) []models.Message {
	if n <= 0 {
		return []models.Message{}
	}
	start := len(messages) - n
	if start < 0 {
		start = 0
	}
	out := make([]models.Message, len(messages)-start)
	copy(out, messages[start:])
	return out
}
