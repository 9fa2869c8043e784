package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopchat/internal/config"
	"shopchat/internal/ledger"
	"shopchat/internal/storage/memory"
)

func testRegistry() *Registry {
	stores := []config.StoreConfig{
		{Username: "demo", Password: "demo123", DisplayName: "Demo Threads Co."},
		{Username: "other", Password: "hunter2"},
	}
	return NewRegistry(stores, func(username string) (*ledger.Ledger, error) {
		return ledger.New(memory.New(), 20), nil
	})
}

func TestRegistry_Login(t *testing.T) {
	r := testRegistry()

	sess, err := r.Login("demo", "demo123")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, "Demo Threads Co.", sess.Store.DisplayName)
	assert.NotNil(t, sess.Transcript)
	assert.NotNil(t, sess.Ledger)

	got, err := r.Get(sess.Token)
	require.NoError(t, err)
	assert.Same(t, sess, got)
}

func TestRegistry_LoginRejectsBadCredentials(t *testing.T) {
	r := testRegistry()

	_, err := r.Login("demo", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = r.Login("nobody", "demo123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegistry_SessionsAreIndependent(t *testing.T) {
	r := testRegistry()

	first, err := r.Login("demo", "demo123")
	require.NoError(t, err)
	second, err := r.Login("demo", "demo123")
	require.NoError(t, err)

	assert.NotEqual(t, first.Token, second.Token)
	assert.NotSame(t, first.Transcript, second.Transcript)
	assert.NotSame(t, first.Ledger, second.Ledger)
}

func TestRegistry_Logout(t *testing.T) {
	r := testRegistry()

	sess, err := r.Login("demo", "demo123")
	require.NoError(t, err)

	r.Logout(sess.Token)

	_, err = r.Get(sess.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
