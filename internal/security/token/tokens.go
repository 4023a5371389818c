// Package tokens generates the random values the handshake depends on.
//
// Todo sale de crypto/rand. Si la fuente segura falla no hay degradación a un
// generador débil: el error se propaga y el caller debe abortar.
package tokens

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// stateBytes son 32 bytes = 256 bits de entropía para el token CSRF
// (el mínimo aceptable es 128).
const stateBytes = 32

// GenerateOpaqueToken genera un token opaco aleatorio (base64url sin padding).
func GenerateOpaqueToken(nBytes int) (string, error) {
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("tokens: secure randomness unavailable: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateState genera el token CSRF/state de un handshake OAuth2.
func GenerateState() (string, error) {
	return GenerateOpaqueToken(stateBytes)
}

// SHA256Hex devuelve sha256(input) en hexadecimal.
func SHA256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return fmt.Sprintf("%x", sum)
}

// EntropyCheck lee una vez de crypto/rand. Se llama en el arranque para que
// la falta de una fuente segura frene el servicio entero en vez de fallar
// request a request.
func EntropyCheck() error {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Errorf("tokens: secure randomness unavailable: %w", err)
	}
	return nil
}
