// Package conversation holds the ordered transcript of one session.
package conversation

import (
	"sync"

	"shopchat/internal/domain"
)

// Transcript is the append-only, session-scoped sequence of user and
// assistant turns, replayed on every render.
type Transcript struct {
	mu    sync.RWMutex
	turns []domain.Turn
}

// New creates an empty transcript.
func New() *Transcript {
	return &Transcript{}
}

// Append adds one turn in chronological order.
func (t *Transcript) Append(role domain.Role, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.turns = append(t.turns, domain.Turn{Role: role, Text: text})
}

// Turns returns a copy of the transcript.
func (t *Transcript) Turns() []domain.Turn {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]domain.Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// Len returns the number of turns.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.turns)
}
