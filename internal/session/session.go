// Package session ties one logged-in store owner to their private
// conversational state: the resolved store configuration, the transcript,
// and the order ledger. Nothing here is shared across sessions.
package session

import (
	"sync"
	"time"

	"shopchat/internal/config"
	"shopchat/internal/conversation"
	"shopchat/internal/ledger"
)

// Session is the explicit per-session context object passed to every
// orchestration call. Constructed at login, discarded at logout.
type Session struct {
	Token      string
	Store      config.StoreConfig
	Transcript *conversation.Transcript
	Ledger     *ledger.Ledger
	CreatedAt  time.Time

	// turnMu serializes turns: one user utterance is fully resolved
	// before the next is accepted.
	turnMu sync.Mutex
}

// LockTurn blocks until no other turn is in flight for this session.
func (s *Session) LockTurn() { s.turnMu.Lock() }

// UnlockTurn releases the in-flight turn.
func (s *Session) UnlockTurn() { s.turnMu.Unlock() }
