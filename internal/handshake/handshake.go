// Package handshake drives the multi-request OAuth exchange as an explicit
// state machine: Idle -> AwaitingCallback -> Completed (o Aborted desde
// cualquier estado). Cada request HTTP entra por Controller.Handle con un
// request-context explícito; acá no se tocan parámetros globales.
package handshake

import (
	"errors"
	"net/url"

	"github.com/dropDatabas3/shakehands/internal/store"
)

// Claves de template para avisos user-facing. El core nunca renderiza texto.
const (
	MsgLoginSuccessful      = "login.successful"
	MsgAccessDenied         = "access.denied"
	MsgProviderNotSupported = "oauth.provider_not_supported"
	MsgDomainNotPermitted   = "oauth.domain_not_permitted"
)

// ErrForgeryDetected indica que el state devuelto por el callback no coincide
// con el token CSRF generado al inicio. Señal de posible forgery: se loguea
// como security-relevant y el handshake muere.
var ErrForgeryDetected = errors.New("handshake: state token mismatch")

// Status es el desenlace de procesar un request.
type Status int

const (
	// StatusNoop: request sin relación con un handshake (estado Idle).
	StatusNoop Status = iota
	// StatusStarted: handshake iniciado, hay que redirigir al proveedor.
	StatusStarted
	// StatusCompleted: callback validado, cuenta autenticada.
	StatusCompleted
	// StatusAborted: handshake terminado sin autenticación.
	StatusAborted
)

// Request es el contexto explícito de un request entrante.
type Request struct {
	// Provider es el identificador de proveedor del request.
	Provider string
	// Query trae los parámetros del callback (code/state u oauth_token/
	// oauth_verifier, posiblemente anidados en _url).
	Query url.Values
	// SessionID identifica la sesión de navegador.
	SessionID string
	// Callback marca que el request entró por la ruta de callback. Un
	// callback sin parámetros de protocolo es un no-op, no un start.
	Callback bool
}

// Outcome es el resultado de Handle. Reason lleva el sentinel del motivo de
// aborto (ErrForgeryDetected, oauth.ErrExchange, identity.ErrDomainRejected,
// account.ErrConflict, provider.ErrNotConfigured) para métricas y tests;
// el usuario solo ve las claves de mensaje.
type Outcome struct {
	Status      Status
	RedirectURL string // solo StatusStarted
	Account     *store.Account
	Created     bool
	Reason      error // solo StatusAborted
}
