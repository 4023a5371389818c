package handshake

import (
	"context"
	"errors"
	"fmt"

	"github.com/dropDatabas3/shakehands/internal/account"
	"github.com/dropDatabas3/shakehands/internal/identity"
	"github.com/dropDatabas3/shakehands/internal/oauth"
	"github.com/dropDatabas3/shakehands/internal/observability/logger"
	"github.com/dropDatabas3/shakehands/internal/provider"
	tokens "github.com/dropDatabas3/shakehands/internal/security/token"
	"github.com/dropDatabas3/shakehands/internal/session"
	"go.uber.org/zap"
)

// Recorder recibe los eventos del handshake para métricas. Opcional.
type Recorder interface {
	HandshakeStarted(provider string)
	HandshakeCompleted(provider string, created bool)
	HandshakeAborted(provider, reason string)
}

// Controller es la máquina de estados del handshake.
type Controller struct {
	registry   *provider.Registry
	sessions   *session.Store
	clients    oauth.Factory
	reconciler *account.Reconciler
	recorder   Recorder // puede ser nil
}

// New crea el Controller. recorder puede ser nil.
func New(reg *provider.Registry, sess *session.Store, clients oauth.Factory, rec *account.Reconciler, recorder Recorder) *Controller {
	return &Controller{
		registry:   reg,
		sessions:   sess,
		clients:    clients,
		reconciler: rec,
		recorder:   recorder,
	}
}

// Handle procesa un request entrante contra el estado de handshake guardado.
//
// Decide entre iniciar un handshake nuevo, validar un callback o abortar.
// Garantías de orden dentro de un handshake: exchange precede a
// normalización, normalización precede a reconciliación, y la limpieza del
// estado es siempre la última mutación antes de retornar.
//
// El error de retorno es solo para fallas de infraestructura (store caído,
// randomness insegura). Todo desenlace de protocolo viene en el Outcome y ya
// dejó exactamente un mensaje user-facing en la sesión.
func (c *Controller) Handle(ctx context.Context, req Request) (*Outcome, error) {
	log := logger.From(ctx).With(
		logger.Component("handshake"),
		logger.Provider(req.Provider),
		logger.SessionID(req.SessionID),
	)

	cfg, err := c.registry.Resolve(req.Provider)
	if errors.Is(err, provider.ErrNotConfigured) {
		log.Info("provider not configured")
		return c.abort(ctx, req, provider.ErrNotConfigured, MsgProviderNotSupported, req.Provider)
	}
	if err != nil {
		return nil, err
	}

	st, err := c.sessions.Handshake(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	params := parseParams(req.Query)

	switch cfg.Variant {
	case provider.OAuth1a:
		return c.handleOAuth1(ctx, req, cfg, st, params, log)
	default:
		return c.handleOAuth2(ctx, req, cfg, st, params, log)
	}
}

func (c *Controller) handleOAuth2(ctx context.Context, req Request, cfg *provider.Config, st *session.HandshakeState, params callbackParams, log *zap.Logger) (*Outcome, error) {
	client := c.clients.OAuth2(cfg)

	if !params.isOAuth2Callback() {
		if req.Callback {
			// Callback sin parámetros de protocolo: nada que hacer.
			return &Outcome{Status: StatusNoop}, nil
		}
		// Idle: request con solo el identificador de proveedor => iniciar.
		state, err := tokens.GenerateState()
		if err != nil {
			// Sin randomness segura no hay degradación posible.
			return nil, err
		}
		// Un doble start pisa el token anterior; solo el más reciente vale.
		st = &session.HandshakeState{ActiveProvider: cfg.ID, CSRFToken: state}
		if err := c.sessions.SetHandshake(ctx, req.SessionID, st); err != nil {
			return nil, err
		}
		if c.recorder != nil {
			c.recorder.HandshakeStarted(cfg.ID)
		}
		log.Info("handshake started")
		return &Outcome{Status: StatusStarted, RedirectURL: client.AuthCodeURL(state)}, nil
	}

	// AwaitingCallback.
	if params.code == "" {
		// Callback sin code: el proveedor denegó o el usuario canceló.
		log.Info("callback without code", logger.String("idp_error", params.idpError))
		return c.abort(ctx, req, oauth.ErrExchange, MsgAccessDenied)
	}

	// Validación CSRF: el state devuelto debe ser exactamente el generado.
	// Un mismatch jamás llega al reconciler.
	if !st.Active() || st.ActiveProvider != cfg.ID || st.CSRFToken == "" || params.state != st.CSRFToken {
		log.Warn("state token mismatch, possible forgery")
		return c.abort(ctx, req, ErrForgeryDetected, MsgAccessDenied)
	}

	tok, err := client.Exchange(ctx, params.code)
	if err != nil {
		log.Warn("code exchange failed", logger.Err(err))
		return c.abort(ctx, req, oauth.ErrExchange, MsgAccessDenied)
	}

	return c.completeLogin(ctx, req, cfg, client.Resource(tok), log)
}

func (c *Controller) handleOAuth1(ctx context.Context, req Request, cfg *provider.Config, st *session.HandshakeState, params callbackParams, log *zap.Logger) (*Outcome, error) {
	client := c.clients.OAuth1a(cfg)

	if !params.isOAuth1Callback() {
		if req.Callback {
			return &Outcome{Status: StatusNoop}, nil
		}
		// OAuth1a necesita un request extra para obtener el request token.
		rt, err := client.ObtainRequestToken(ctx)
		if err != nil {
			log.Warn("request token failed", logger.Err(err))
			return c.abort(ctx, req, oauth.ErrExchange, MsgAccessDenied)
		}
		st = &session.HandshakeState{
			ActiveProvider: cfg.ID,
			RequestToken:   &session.RequestToken{Token: rt.Token, Secret: rt.Secret},
		}
		if err := c.sessions.SetHandshake(ctx, req.SessionID, st); err != nil {
			return nil, err
		}
		if c.recorder != nil {
			c.recorder.HandshakeStarted(cfg.ID)
		}
		log.Info("handshake started")
		return &Outcome{Status: StatusStarted, RedirectURL: client.AuthorizeURL(rt.Token)}, nil
	}

	// AwaitingCallback: hacen falta oauth_token y oauth_verifier (top-level
	// o anidados en _url, parseParams ya miró en ambos lados).
	if params.oauthToken == "" || params.oauthVerifier == "" {
		log.Info("oauth1a callback missing parameters")
		return c.abort(ctx, req, oauth.ErrExchange, MsgAccessDenied)
	}
	if !st.Active() || st.ActiveProvider != cfg.ID || st.RequestToken == nil {
		log.Warn("oauth1a callback without in-flight handshake")
		return c.abort(ctx, req, ErrForgeryDetected, MsgAccessDenied)
	}

	tok, err := client.AccessToken(ctx, params.oauthToken, st.RequestToken.Secret, params.oauthVerifier)
	if err != nil {
		log.Warn("verifier exchange failed", logger.Err(err))
		return c.abort(ctx, req, oauth.ErrExchange, MsgAccessDenied)
	}

	return c.completeLogin(ctx, req, cfg, client.Resource(tok), log)
}

// completeLogin corre normalización y reconciliación, puebla la sesión y
// limpia el estado. Común a ambas variantes una vez que hay access token.
func (c *Controller) completeLogin(ctx context.Context, req Request, cfg *provider.Config, src oauth.Resource, log *zap.Logger) (*Outcome, error) {
	norm, err := identity.ForProvider(cfg.ID)
	if err != nil {
		return nil, err
	}

	ident, err := norm.Normalize(ctx, src, cfg)
	if err != nil {
		var derr *identity.DomainError
		if errors.As(err, &derr) {
			log.Info("domain rejected", logger.String("domain", derr.Domain))
			return c.abort(ctx, req, identity.ErrDomainRejected, MsgDomainNotPermitted, derr.Domain)
		}
		log.Warn("profile normalization failed", logger.Err(err))
		return c.abort(ctx, req, oauth.ErrExchange, MsgAccessDenied)
	}

	res, err := c.reconciler.Reconcile(ctx, ident, cfg.ID)
	if errors.Is(err, account.ErrConflict) {
		return c.abort(ctx, req, account.ErrConflict, MsgAccessDenied)
	}
	if err != nil {
		// Falla de store: igual limpiar estado y dejar un solo mensaje.
		if _, aerr := c.abort(ctx, req, nil, MsgAccessDenied); aerr != nil {
			return nil, aerr
		}
		return nil, err
	}

	// La sesión pasa a referenciar la cuenta autenticada, reemplazando
	// cualquier identidad previa.
	if err := c.sessions.SetAccount(ctx, req.SessionID, res.Account.Username); err != nil {
		return nil, err
	}
	_ = c.sessions.AddMessage(ctx, req.SessionID, MsgLoginSuccessful)
	if err := c.sessions.ClearHandshake(ctx, req.SessionID); err != nil {
		return nil, err
	}
	if c.recorder != nil {
		c.recorder.HandshakeCompleted(cfg.ID, res.Created)
	}
	log.Info("handshake completed",
		logger.Username(res.Account.Username),
		logger.Bool("created", res.Created),
	)
	return &Outcome{Status: StatusCompleted, Account: res.Account, Created: res.Created}, nil
}

// abort cierra el handshake: un mensaje user-facing, estado limpio, y el
// sentinel del motivo en el Outcome. La limpieza es incondicional y última.
func (c *Controller) abort(ctx context.Context, req Request, reason error, msgKey string, msgArgs ...string) (*Outcome, error) {
	_ = c.sessions.AddMessage(ctx, req.SessionID, msgKey, msgArgs...)
	if err := c.sessions.ClearHandshake(ctx, req.SessionID); err != nil {
		return nil, fmt.Errorf("handshake: clear state: %w", err)
	}
	if c.recorder != nil {
		c.recorder.HandshakeAborted(req.Provider, reasonLabel(reason))
	}
	return &Outcome{Status: StatusAborted, Reason: reason}, nil
}

func reasonLabel(reason error) string {
	switch {
	case reason == nil:
		return "internal"
	case errors.Is(reason, ErrForgeryDetected):
		return "forgery"
	case errors.Is(reason, oauth.ErrExchange):
		return "exchange_failed"
	case errors.Is(reason, identity.ErrDomainRejected):
		return "domain_rejected"
	case errors.Is(reason, account.ErrConflict):
		return "conflict"
	case errors.Is(reason, provider.ErrNotConfigured):
		return "not_configured"
	default:
		return "other"
	}
}
