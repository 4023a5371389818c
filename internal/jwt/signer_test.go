package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/shakehands/internal/store"
)

func TestSignParse_RoundTrip(t *testing.T) {
	s, err := NewSigner("test-secret", "shakehands", time.Hour)
	require.NoError(t, err)

	tok, err := s.Sign(&store.Account{ID: "uid-1", Username: "google.1078", Provider: "google"})
	require.NoError(t, err)

	claims, err := s.Parse(tok)
	require.NoError(t, err)
	require.Equal(t, "google.1078", claims.Username)
	require.Equal(t, "google", claims.Provider)
	require.Equal(t, "uid-1", claims.Subject)
	require.Equal(t, "shakehands", claims.Issuer)
}

func TestNewSigner_EmptySecret(t *testing.T) {
	_, err := NewSigner("", "shakehands", time.Hour)
	require.Error(t, err)
}

func TestParse_RejectsWrongKey(t *testing.T) {
	a, err := NewSigner("secret-a", "shakehands", time.Hour)
	require.NoError(t, err)
	b, err := NewSigner("secret-b", "shakehands", time.Hour)
	require.NoError(t, err)

	tok, err := a.Sign(&store.Account{ID: "1", Username: "u"})
	require.NoError(t, err)

	_, err = b.Parse(tok)
	require.Error(t, err)
}

func TestParse_RejectsWrongIssuer(t *testing.T) {
	a, err := NewSigner("secret", "other-service", time.Hour)
	require.NoError(t, err)
	b, err := NewSigner("secret", "shakehands", time.Hour)
	require.NoError(t, err)

	tok, err := a.Sign(&store.Account{ID: "1", Username: "u"})
	require.NoError(t, err)

	_, err = b.Parse(tok)
	require.Error(t, err)
}

func TestParse_RejectsExpired(t *testing.T) {
	s, err := NewSigner("secret", "shakehands", time.Hour)
	require.NoError(t, err)
	s.ttl = -time.Minute // emitir ya vencido

	tok, err := s.Sign(&store.Account{ID: "1", Username: "u"})
	require.NoError(t, err)

	_, err = s.Parse(tok)
	require.Error(t, err)
}

func TestNewSigner_DefaultTTL(t *testing.T) {
	s, err := NewSigner("secret", "shakehands", 0)
	require.NoError(t, err)
	require.Equal(t, 24*time.Hour, s.TTL())
}
