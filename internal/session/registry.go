package session

import (
	"crypto/subtle"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"shopchat/internal/config"
	"shopchat/internal/conversation"
	"shopchat/internal/ledger"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSessionNotFound    = errors.New("session not found")
)

// LedgerFactory builds a fresh ledger for a new session. The username is
// available for implementations that keep one durable store per account.
type LedgerFactory func(username string) (*ledger.Ledger, error)

// Registry manages active sessions against the static credential table.
type Registry struct {
	stores    []config.StoreConfig
	newLedger LedgerFactory

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates a registry over the configured store table.
func NewRegistry(stores []config.StoreConfig, newLedger LedgerFactory) *Registry {
	return &Registry{
		stores:    stores,
		newLedger: newLedger,
		sessions:  make(map[string]*Session),
	}
}

// Login checks credentials against the store table and, on success,
// creates a session with fresh conversational state.
func (r *Registry) Login(username, password string) (*Session, error) {
	store, ok := r.findStore(username)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(store.Password), []byte(password)) != 1 {
		return nil, ErrInvalidCredentials
	}

	led, err := r.newLedger(username)
	if err != nil {
		return nil, err
	}

	sess := &Session{
		Token:      uuid.NewString(),
		Store:      store,
		Transcript: conversation.New(),
		Ledger:     led,
		CreatedAt:  time.Now(),
	}

	r.mu.Lock()
	r.sessions[sess.Token] = sess
	r.mu.Unlock()

	return sess, nil
}

// Get retrieves a session by token.
func (r *Registry) Get(token string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sess, ok := r.sessions[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Logout discards the session and all state it owns.
func (r *Registry) Logout(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, token)
}

func (r *Registry) findStore(username string) (config.StoreConfig, bool) {
	for _, s := range r.stores {
		if s.Username == username {
			return s, true
		}
	}
	return config.StoreConfig{}, false
}
