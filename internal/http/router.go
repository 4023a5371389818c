// Package http es la superficie HTTP del servicio: rutas de handshake,
// drenaje de mensajes, health y métricas.
package http

import (
	nethttp "net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dropDatabas3/shakehands/internal/handshake"
	"github.com/dropDatabas3/shakehands/internal/jwt"
	"github.com/dropDatabas3/shakehands/internal/session"
)

// Deps son las dependencias del router.
type Deps struct {
	Controller *handshake.Controller
	Sessions   *session.Store
	Signer     *jwt.Signer // puede ser nil (sin cookie de sesión JWT)
	Metrics    nethttp.Handler

	CookieName   string
	SecureCookie bool
}

// NewRouter arma el router chi con el middleware chain del servicio.
func NewRouter(d Deps) nethttp.Handler {
	h := &handlers{
		controller: d.Controller,
		sessions:   d.Sessions,
		signer:     d.Signer,
		secure:     d.SecureCookie,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(withLogging)

	r.Get("/healthz", func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		w.WriteHeader(nethttp.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if d.Metrics != nil {
		r.Method(nethttp.MethodGet, "/metrics", d.Metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(withSession(d.CookieName, d.SecureCookie))
		r.Get("/auth/{provider}/start", h.start)
		r.Get("/auth/{provider}/callback", h.callback)
		r.Get("/auth/messages", h.messages)
	})

	return r
}
