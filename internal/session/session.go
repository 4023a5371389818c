// Package session is the browser-session collaborator: handshake state,
// authenticated account reference and pending user messages, keyed by an
// opaque session id and persisted through the cache layer.
//
// El core no implementa expiración propia: un handshake abandonado queda en
// el cache hasta que el TTL lo limpie o un intento nuevo lo pise.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dropDatabas3/shakehands/internal/cache"
)

// RequestToken es el token temporal de OAuth1a junto con su secret.
type RequestToken struct {
	Token  string `json:"token"`
	Secret string `json:"secret"`
}

// HandshakeState es el estado de un login en vuelo. Vive entre el redirect
// al proveedor y el callback; se destruye en cualquier desenlace terminal.
type HandshakeState struct {
	ActiveProvider string        `json:"active_provider,omitempty"`
	CSRFToken      string        `json:"csrf_token,omitempty"`
	RequestToken   *RequestToken `json:"request_token,omitempty"`
}

// Active reporta si hay un handshake en vuelo (estado AwaitingCallback).
func (s *HandshakeState) Active() bool {
	return s != nil && s.ActiveProvider != ""
}

// Message es un aviso user-facing pendiente: clave de template + args.
// El core nunca renderiza strings; eso es del layer de presentación.
type Message struct {
	Key  string   `json:"key"`
	Args []string `json:"args,omitempty"`
}

// Store accede al estado de sesión compartido.
type Store struct {
	cache        cache.Client
	handshakeTTL time.Duration
	sessionTTL   time.Duration
}

// New crea el Store. handshakeTTL acota logins abandonados; sessionTTL es la
// vida de la sesión autenticada y de los mensajes pendientes.
func New(c cache.Client, handshakeTTL, sessionTTL time.Duration) *Store {
	if handshakeTTL <= 0 {
		handshakeTTL = 10 * time.Minute
	}
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &Store{cache: c, handshakeTTL: handshakeTTL, sessionTTL: sessionTTL}
}

func handshakeKey(sid string) string { return "handshake:" + sid }
func accountKey(sid string) string   { return "account:" + sid }
func messagesKey(sid string) string  { return "messages:" + sid }

// Handshake carga el estado de handshake. Sin estado => zero value (Idle).
func (s *Store) Handshake(ctx context.Context, sid string) (*HandshakeState, error) {
	raw, err := s.cache.Get(ctx, handshakeKey(sid))
	if cache.IsNotFound(err) {
		return &HandshakeState{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: load handshake: %w", err)
	}
	var st HandshakeState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		// Estado corrupto equivale a no tener estado.
		return &HandshakeState{}, nil
	}
	return &st, nil
}

// SetHandshake guarda el estado de handshake (pisa el anterior).
func (s *Store) SetHandshake(ctx context.Context, sid string, st *HandshakeState) error {
	b, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("session: encode handshake: %w", err)
	}
	return s.cache.Set(ctx, handshakeKey(sid), string(b), s.handshakeTTL)
}

// ClearHandshake destruye el estado de handshake. Idempotente.
func (s *Store) ClearHandshake(ctx context.Context, sid string) error {
	return s.cache.Delete(ctx, handshakeKey(sid))
}

// SetAccount referencia la cuenta autenticada, reemplazando cualquier
// identidad previa de la sesión.
func (s *Store) SetAccount(ctx context.Context, sid, username string) error {
	return s.cache.Set(ctx, accountKey(sid), username, s.sessionTTL)
}

// Account retorna el username autenticado de la sesión, o "" si no hay.
func (s *Store) Account(ctx context.Context, sid string) (string, error) {
	v, err := s.cache.Get(ctx, accountKey(sid))
	if cache.IsNotFound(err) {
		return "", nil
	}
	return v, err
}

// AddMessage encola un aviso user-facing para la sesión.
func (s *Store) AddMessage(ctx context.Context, sid, key string, args ...string) error {
	msgs, _ := s.messages(ctx, sid)
	msgs = append(msgs, Message{Key: key, Args: args})
	b, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("session: encode messages: %w", err)
	}
	return s.cache.Set(ctx, messagesKey(sid), string(b), s.sessionTTL)
}

// DrainMessages retorna y borra los avisos pendientes.
func (s *Store) DrainMessages(ctx context.Context, sid string) ([]Message, error) {
	msgs, err := s.messages(ctx, sid)
	if err != nil {
		return nil, err
	}
	if len(msgs) > 0 {
		_ = s.cache.Delete(ctx, messagesKey(sid))
	}
	return msgs, nil
}

func (s *Store) messages(ctx context.Context, sid string) ([]Message, error) {
	raw, err := s.cache.Get(ctx, messagesKey(sid))
	if cache.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: load messages: %w", err)
	}
	var msgs []Message
	if err := json.Unmarshal([]byte(raw), &msgs); err != nil {
		return nil, nil
	}
	return msgs, nil
}
