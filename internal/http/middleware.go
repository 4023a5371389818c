package http

import (
	"context"
	nethttp "net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dropDatabas3/shakehands/internal/observability/logger"
	tokens "github.com/dropDatabas3/shakehands/internal/security/token"
)

type sidKey struct{}

// sessionIDFrom retorna el session id inyectado por withSession.
func sessionIDFrom(ctx context.Context) string {
	v, _ := ctx.Value(sidKey{}).(string)
	return v
}

// withSession asegura la cookie de sesión del navegador y deja el sid en el
// contexto. El sid es opaco; el estado vive del lado del server.
func withSession(cookieName string, secure bool) func(nethttp.Handler) nethttp.Handler {
	return func(next nethttp.Handler) nethttp.Handler {
		return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			var sid string
			if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
				sid = c.Value
			} else {
				generated, err := tokens.GenerateOpaqueToken(16)
				if err != nil {
					// Sin randomness segura no se emiten sesiones.
					writeInternalError(w)
					return
				}
				sid = generated
				nethttp.SetCookie(w, &nethttp.Cookie{
					Name:     cookieName,
					Value:    sid,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: nethttp.SameSiteLaxMode,
				})
			}
			ctx := context.WithValue(r.Context(), sidKey{}, sid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// withLogging inyecta un logger scoped por request y loguea el acceso.
func withLogging(next nethttp.Handler) nethttp.Handler {
	return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		start := time.Now()
		reqID := middleware.GetReqID(r.Context())

		log := logger.With(
			logger.RequestID(reqID),
			logger.Method(r.Method),
			logger.Path(r.URL.Path),
		)
		ctx := logger.ToContext(r.Context(), log)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		log.Debug("request served",
			logger.Status(ww.Status()),
			logger.Duration(time.Since(start)),
		)
	})
}
