// Package oauth wraps the protocol primitives the handshake drives: build the
// authorization URL, exchange authorization evidence for an access token, and
// perform authenticated resource requests against the provider's API.
//
// Hay dos variantes: OAuth2 (authorization-code) y OAuth1a (request token +
// verifier, requests firmados con HMAC-SHA1). Los endpoints salen de la
// configuración del proveedor, así que los tests pueden apuntar ambos clientes
// a un httptest.Server.
package oauth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dropDatabas3/shakehands/internal/provider"
)

// ErrExchange indica que el proveedor rechazó el code/verifier o que el
// intercambio falló por red. Para el usuario es "access denied".
var ErrExchange = errors.New("oauth: token exchange failed")

// Token es un access token ya intercambiado. Secret solo aplica a OAuth1a.
type Token struct {
	Token  string
	Secret string
}

// RequestToken es el token temporal del primer paso de OAuth1a.
type RequestToken struct {
	Token  string
	Secret string
}

// Resource hace requests autenticados de perfil contra el proveedor.
type Resource interface {
	Get(ctx context.Context, path string) ([]byte, error)
}

// Client2 son las primitivas OAuth2 de un proveedor.
type Client2 interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*Token, error)
	Resource(tok *Token) Resource
}

// Client1 son las primitivas OAuth1a de un proveedor.
type Client1 interface {
	ObtainRequestToken(ctx context.Context) (*RequestToken, error)
	AuthorizeURL(requestToken string) string
	AccessToken(ctx context.Context, requestToken, requestSecret, verifier string) (*Token, error)
	Resource(tok *Token) Resource
}

// Factory construye clientes de protocolo por proveedor.
// El handshake depende de esta interface, no de los clientes concretos.
type Factory interface {
	OAuth2(cfg *provider.Config) Client2
	OAuth1a(cfg *provider.Config) Client1
}

// httpFactory es la Factory de producción.
type httpFactory struct {
	http *http.Client
}

// NewFactory crea la factory con un http.Client con timeout.
func NewFactory() Factory {
	return &httpFactory{http: &http.Client{Timeout: 10 * time.Second}}
}

func (f *httpFactory) OAuth2(cfg *provider.Config) Client2 {
	return &oauth2Client{cfg: cfg, http: f.http}
}

func (f *httpFactory) OAuth1a(cfg *provider.Config) Client1 {
	return &oauth1Client{cfg: cfg, http: f.http}
}
