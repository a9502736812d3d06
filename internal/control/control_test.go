package control

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitistack/authproxy/internal/credentials"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Message
	}{
		{name: "clear", raw: `"clear"`, want: Clear{}},
		{name: "auth check", raw: ` "authCheck" `, want: AuthCheck{}},
		{name: "account type", raw: `{"accountType":"admin"}`, want: SetAccountType{Role: "admin"}},
		{name: "null account type resets", raw: `{"accountType":null}`, want: SetAccountType{}},
		{name: "unknown string", raw: `"logout"`, want: nil},
		{name: "unknown object", raw: `{"role":"admin"}`, want: nil},
		{name: "non string account type", raw: `{"accountType":7}`, want: nil},
		{name: "number", raw: `42`, want: nil},
		{name: "array", raw: `["clear"]`, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeInvalid(t *testing.T) {
	for _, raw := range []string{"", "clear", `{"accountType":`} {
		_, err := Decode([]byte(raw))
		assert.ErrorIs(t, err, ErrInvalidMessage, raw)
	}
}

func signedIn() *credentials.Store {
	store := credentials.New()
	store.Set(credentials.Pair{AccessToken: "access", RefreshToken: "refresh"})
	return store
}

func TestHandle(t *testing.T) {
	t.Run("auth check reports the session", func(t *testing.T) {
		store := signedIn()
		store.SetRole("admin")
		c := New(store)

		status, ok := c.Handle(AuthCheck{})
		require.True(t, ok)
		assert.Equal(t, &AuthStatus{Authenticated: true, AccountType: "admin"}, status)
	})

	t.Run("auth check without a session", func(t *testing.T) {
		c := New(credentials.New())

		status, ok := c.Handle(AuthCheck{})
		require.True(t, ok)
		assert.False(t, status.Authenticated)
		assert.Empty(t, status.AccountType)
	})

	t.Run("clear voids pair and role", func(t *testing.T) {
		store := signedIn()
		store.SetRole("user")
		c := New(store)

		status, ok := c.Handle(Clear{})
		assert.Nil(t, status)
		assert.False(t, ok)
		assert.True(t, store.Get().Empty())
		assert.Empty(t, store.Role())
	})

	t.Run("account type leaves the pair alone", func(t *testing.T) {
		store := signedIn()
		c := New(store)

		_, ok := c.Handle(SetAccountType{Role: "user"})
		assert.False(t, ok)
		assert.Equal(t, credentials.Role("user"), store.Role())
		assert.True(t, store.Authenticated())
	})

	t.Run("nil message is ignored", func(t *testing.T) {
		store := signedIn()
		c := New(store)

		status, ok := c.Handle(nil)
		assert.Nil(t, status)
		assert.False(t, ok)
		assert.True(t, store.Authenticated())
	})
}

func TestAuthStatusJSON(t *testing.T) {
	data, err := json.Marshal(AuthStatus{Authenticated: true, AccountType: "admin"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"authenticated":true,"accountType":"admin"}`, string(data))

	data, err = json.Marshal(&AuthStatus{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"authenticated":false,"accountType":null}`, string(data))
}

func TestChannelActor(t *testing.T) {
	store := signedIn()
	c := New(store)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Run(ctx)
	}()

	require.NoError(t, c.Post(ctx, SetAccountType{Role: "admin"}))

	// messages are applied in order, so the check observes the role posted before it
	status, err := c.Ask(ctx, AuthCheck{})
	require.NoError(t, err)
	assert.Equal(t, &AuthStatus{Authenticated: true, AccountType: "admin"}, status)

	status, err = c.Ask(ctx, Clear{})
	require.NoError(t, err)
	assert.Nil(t, status)
	assert.False(t, store.Authenticated())

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestAskWithoutRunner(t *testing.T) {
	c := New(signedIn(), WithInboxSize(0))

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Ask(ctx, AuthCheck{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, c.Post(ctx, Clear{}), context.DeadlineExceeded)
}
