// Package jwt emite el token de sesión autenticada que se entrega como
// cookie al completar el handshake.
package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/dropDatabas3/shakehands/internal/store"
)

// Claims son los claims del token de sesión.
type Claims struct {
	Username string `json:"username"`
	Provider string `json:"provider"`
	jwtv5.RegisteredClaims
}

// Signer firma y valida tokens de sesión HS256.
type Signer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewSigner crea el Signer. secret vacío es un error de configuración.
func NewSigner(secret, issuer string, ttl time.Duration) (*Signer, error) {
	if secret == "" {
		return nil, errors.New("jwt: empty session secret")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Signer{secret: []byte(secret), issuer: issuer, ttl: ttl}, nil
}

// Sign emite el token de sesión para una cuenta autenticada.
func (s *Signer) Sign(a *store.Account) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: a.Username,
		Provider: a.Provider,
		RegisteredClaims: jwtv5.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   a.ID,
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString(s.secret)
}

// Parse valida un token de sesión y retorna sus claims.
func (s *Signer) Parse(token string) (*Claims, error) {
	var claims Claims
	tok, err := jwtv5.ParseWithClaims(token, &claims,
		func(t *jwtv5.Token) (any, error) { return s.secret, nil },
		jwtv5.WithValidMethods([]string{"HS256"}),
		jwtv5.WithIssuer(s.issuer),
	)
	if err != nil {
		return nil, fmt.Errorf("jwt: invalid session token: %w", err)
	}
	if !tok.Valid {
		return nil, errors.New("jwt: invalid session token")
	}
	return &claims, nil
}

// TTL retorna la vida del token (para Max-Age de la cookie).
func (s *Signer) TTL() time.Duration { return s.ttl }
