// Package account maps canonical identities to local accounts: creates on
// first login, re-authenticates on return, updates mutable fields.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dropDatabas3/shakehands/internal/identity"
	"github.com/dropDatabas3/shakehands/internal/observability/logger"
	"github.com/dropDatabas3/shakehands/internal/security/password"
	tokens "github.com/dropDatabas3/shakehands/internal/security/token"
	"github.com/dropDatabas3/shakehands/internal/store"
)

// ErrConflict indica que la cuenta existente no fue creada por este flujo
// (hash almacenado no coincide, ej. colisión de username). No se muta nada.
var ErrConflict = errors.New("account: credential mismatch")

// Mailer es el colaborador opcional de notificación de bienvenida.
// Sus fallas se loguean y jamás frenan el login.
type Mailer interface {
	SendWelcome(ctx context.Context, to, fullName string) error
}

// Result es el desenlace de una reconciliación exitosa.
type Result struct {
	Account *store.Account
	Created bool
}

// Reconciler reconcilia identidades canónicas contra el user store.
type Reconciler struct {
	store  store.UserStore
	mailer Mailer // puede ser nil
}

// New crea el Reconciler. mailer puede ser nil.
func New(s store.UserStore, mailer Mailer) *Reconciler {
	return &Reconciler{store: s, mailer: mailer}
}

// DeriveUsername deriva el username determinístico
// lowercase(providerID + "." + slug(externalID)). Es la natural key que ata
// una identidad externa a exactamente una cuenta local por proveedor.
func DeriveUsername(providerID, externalID string) string {
	return strings.ToLower(providerID + "." + slug(externalID))
}

// slug normaliza el id externo: minúsculas, todo lo que no sea [a-z0-9]
// colapsa a '_'.
func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// derivedSecret es el secreto one-way recomputable desde el id externo.
// Primer login lo fija (via argon2id); logins siguientes lo recomputan para
// verificar que la cuenta nació de este flujo.
func derivedSecret(externalID string) string {
	return tokens.SHA256Hex(externalID)
}

// Reconcile crea o autentica la cuenta local de una identidad canónica.
// El caller es responsable de poblar la sesión con el resultado.
func (r *Reconciler) Reconcile(ctx context.Context, id *identity.Identity, providerID string) (*Result, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("account"))
	username := DeriveUsername(providerID, id.ExternalID)
	secret := derivedSecret(id.ExternalID)

	a, err := r.store.ByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return r.create(ctx, username, secret, id, providerID)
	}
	if err != nil {
		return nil, fmt.Errorf("account: load %s: %w", username, err)
	}

	if !password.Verify(secret, a.PasswordHash) {
		log.Warn("credential mismatch on existing account", logger.Username(username))
		return nil, ErrConflict
	}

	// Login exitoso: sincronizar email si cambió en el proveedor.
	if a.Email != id.Email {
		a.Email = id.Email
		if err := r.store.Save(ctx, a); err != nil {
			return nil, fmt.Errorf("account: save %s: %w", username, err)
		}
	}

	return &Result{Account: a}, nil
}

func (r *Reconciler) create(ctx context.Context, username, secret string, id *identity.Identity, providerID string) (*Result, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("account"))

	hash, err := password.Hash(password.Default, secret)
	if err != nil {
		return nil, fmt.Errorf("account: hash secret: %w", err)
	}
	a := &store.Account{
		Username:     username,
		PasswordHash: hash,
		FullName:     id.FullName,
		Email:        id.Email,
		Locale:       id.Locale,
		State:        store.StateEnabled,
		Provider:     providerID,
		ExternalID:   id.ExternalID,
	}
	err = r.store.Create(ctx, a)
	if errors.Is(err, store.ErrDuplicate) {
		// Callback duplicado en carrera: la cuenta ya existe, autenticar
		// contra ella en vez de fallar.
		existing, lerr := r.store.ByUsername(ctx, username)
		if lerr != nil {
			return nil, fmt.Errorf("account: reload after duplicate: %w", lerr)
		}
		if !password.Verify(secret, existing.PasswordHash) {
			return nil, ErrConflict
		}
		return &Result{Account: existing}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("account: create %s: %w", username, err)
	}

	log.Info("account created",
		logger.Username(username),
		logger.Provider(providerID),
		logger.ExternalID(id.ExternalID),
	)

	if r.mailer != nil && a.Email != "" {
		if merr := r.mailer.SendWelcome(ctx, a.Email, a.FullName); merr != nil {
			log.Warn("welcome mail failed", logger.Err(merr))
		}
	}

	return &Result{Account: a, Created: true}, nil
}
