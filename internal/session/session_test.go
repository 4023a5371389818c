package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/shakehands/internal/cache"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	c, err := cache.New(cache.Config{Driver: "memory"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return New(c, 0, 0)
}

func TestHandshake_MissingStateIsIdle(t *testing.T) {
	s := newStore(t)
	st, err := s.Handshake(context.Background(), "nope")
	require.NoError(t, err)
	require.False(t, st.Active())
}

func TestHandshake_RoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	in := &HandshakeState{
		ActiveProvider: "twitter",
		RequestToken:   &RequestToken{Token: "rt", Secret: "rs"},
	}
	require.NoError(t, s.SetHandshake(ctx, "sid", in))

	out, err := s.Handshake(ctx, "sid")
	require.NoError(t, err)
	require.True(t, out.Active())
	require.Equal(t, "twitter", out.ActiveProvider)
	require.Equal(t, "rs", out.RequestToken.Secret)

	require.NoError(t, s.ClearHandshake(ctx, "sid"))
	after, err := s.Handshake(ctx, "sid")
	require.NoError(t, err)
	require.False(t, after.Active())

	// clear es idempotente
	require.NoError(t, s.ClearHandshake(ctx, "sid"))
}

func TestAccountReference(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	u, err := s.Account(ctx, "sid")
	require.NoError(t, err)
	require.Empty(t, u)

	require.NoError(t, s.SetAccount(ctx, "sid", "google.1078"))
	u, err = s.Account(ctx, "sid")
	require.NoError(t, err)
	require.Equal(t, "google.1078", u)

	// un login posterior reemplaza la referencia
	require.NoError(t, s.SetAccount(ctx, "sid", "github.42"))
	u, err = s.Account(ctx, "sid")
	require.NoError(t, err)
	require.Equal(t, "github.42", u)
}

func TestMessages_DrainEmptiesQueue(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddMessage(ctx, "sid", "login.successful"))
	require.NoError(t, s.AddMessage(ctx, "sid", "oauth.domain_not_permitted", "evil.example"))

	msgs, err := s.DrainMessages(ctx, "sid")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, "login.successful", msgs[0].Key)
	require.Equal(t, []string{"evil.example"}, msgs[1].Args)

	// drenado: segunda lectura vacía
	msgs, err = s.DrainMessages(ctx, "sid")
	require.NoError(t, err)
	require.Empty(t, msgs)
}

func TestMessages_SessionsAreIsolated(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddMessage(ctx, "a", "login.successful"))

	msgs, err := s.DrainMessages(ctx, "b")
	require.NoError(t, err)
	require.Empty(t, msgs)

	msgs, err = s.DrainMessages(ctx, "a")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
}
