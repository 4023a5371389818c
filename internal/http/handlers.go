package http

import (
	"errors"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/shakehands/internal/handshake"
	"github.com/dropDatabas3/shakehands/internal/jwt"
	"github.com/dropDatabas3/shakehands/internal/observability/logger"
	"github.com/dropDatabas3/shakehands/internal/session"
)

// authCookie lleva el JWT de sesión autenticada. Es independiente de la
// cookie de sesión del navegador (esa identifica al visitante anónimo).
const authCookie = "shakehands_token"

type handlers struct {
	controller *handshake.Controller
	sessions   *session.Store
	signer     *jwt.Signer
	secure     bool
}

func (h *handlers) start(w nethttp.ResponseWriter, r *nethttp.Request) {
	h.auth(w, r, false)
}

func (h *handlers) callback(w nethttp.ResponseWriter, r *nethttp.Request) {
	h.auth(w, r, true)
}

// auth maneja ambas fases: el controller decide qué hacer según los
// parámetros presentes y el estado guardado.
func (h *handlers) auth(w nethttp.ResponseWriter, r *nethttp.Request, callback bool) {
	ctx := r.Context()
	log := logger.From(ctx)

	req := handshake.Request{
		Provider:  chi.URLParam(r, "provider"),
		Query:     r.URL.Query(),
		SessionID: sessionIDFrom(ctx),
		Callback:  callback,
	}

	out, err := h.controller.Handle(ctx, req)
	if err != nil {
		log.Error("handshake failed", logger.Provider(req.Provider), logger.Err(err))
		writeInternalError(w)
		return
	}

	switch out.Status {
	case handshake.StatusStarted:
		nethttp.Redirect(w, r, out.RedirectURL, nethttp.StatusFound)

	case handshake.StatusCompleted:
		if h.signer != nil {
			token, err := h.signer.Sign(out.Account)
			if err != nil {
				log.Error("session token issue failed", logger.Err(err))
				writeInternalError(w)
				return
			}
			nethttp.SetCookie(w, &nethttp.Cookie{
				Name:     authCookie,
				Value:    token,
				Path:     "/",
				MaxAge:   int(h.signer.TTL().Seconds()),
				HttpOnly: true,
				Secure:   h.secure,
				SameSite: nethttp.SameSiteLaxMode,
			})
		}
		nethttp.Redirect(w, r, "/", nethttp.StatusFound)

	case handshake.StatusAborted:
		// El motivo ya quedó encolado como mensaje; el usuario vuelve al home.
		if out.Reason != nil && !errors.Is(out.Reason, handshake.ErrForgeryDetected) {
			log.Warn("handshake aborted", logger.Provider(req.Provider), logger.Err(out.Reason))
		}
		nethttp.Redirect(w, r, "/", nethttp.StatusFound)

	default: // StatusNoop
		w.WriteHeader(nethttp.StatusNoContent)
	}
}

// messages drena y retorna los avisos pendientes de la sesión.
func (h *handlers) messages(w nethttp.ResponseWriter, r *nethttp.Request) {
	ctx := r.Context()
	msgs, err := h.sessions.DrainMessages(ctx, sessionIDFrom(ctx))
	if err != nil {
		logger.From(ctx).Error("message drain failed", logger.Err(err))
		writeInternalError(w)
		return
	}
	if msgs == nil {
		msgs = []session.Message{}
	}
	writeJSON(w, nethttp.StatusOK, map[string]any{"messages": msgs})
}
