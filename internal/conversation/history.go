package conversation

import (
	"sync"

	"portfolio-backend/internal/models"
)

// MaxTurns is the most turns a History retains (ten exchanges).
const MaxTurns = 20

// History is the bounded, in-memory record of successful exchanges. It is
// never persisted. The zero value is ready to use.
type History struct {
	mu    sync.Mutex
	turns []models.ChatMessage
}

// AppendExchange records a completed user/assistant pair and trims the
// oldest turns so at most MaxTurns remain.
func (h *History) AppendExchange(user, assistant string) {
	h.Append(
		models.ChatMessage{Role: models.RoleUser, Content: user},
		models.ChatMessage{Role: models.RoleAssistant, Content: assistant},
	)
}

// Append adds turns in order, then drops from the front past MaxTurns.
func (h *History) Append(turns ...models.ChatMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.turns = append(h.turns, turns...)
	if over := len(h.turns) - MaxTurns; over > 0 {
		kept := make([]models.ChatMessage, MaxTurns)
		copy(kept, h.turns[over:])
		h.turns = kept
	}
}

// Turns returns a copy of the retained turns, oldest first. It never returns
// nil so the JSON encoding is always an array.
func (h *History) Turns() []models.ChatMessage {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]models.ChatMessage, len(h.turns))
	copy(out, h.turns)
	return out
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.turns)
}

// Reset forgets every turn.
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns = nil
}
