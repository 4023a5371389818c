// Package identity normalizes divergent provider profile shapes into one
// canonical record. Cada proveedor es una estrategia con el mismo contrato;
// los quirks (dominios permitidos, perfiles XML, listas de emails) quedan
// aislados y testeables por separado.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/dropDatabas3/shakehands/internal/oauth"
	"github.com/dropDatabas3/shakehands/internal/provider"
)

// ErrDomainRejected indica que el dominio de la cuenta no pasa la política
// de allow/deny del proveedor. Corta el flujo antes de tocar cuentas locales.
var ErrDomainRejected = errors.New("identity: domain not permitted")

// DomainError lleva el dominio rechazado para el mensaje user-facing.
// errors.Is(err, ErrDomainRejected) matchea.
type DomainError struct {
	Domain string
}

func (e *DomainError) Error() string {
	return "identity: domain not permitted: " + e.Domain
}

func (e *DomainError) Is(target error) bool {
	return target == ErrDomainRejected
}

// Identity es el registro canónico, transient: lo produce el normalizer y lo
// consume una vez el reconciler. Nunca se persiste directo.
type Identity struct {
	ExternalID string
	FullName   string
	Email      string
	Locale     string
}

// Normalizer obtiene el perfil crudo del proveedor y lo convierte al
// registro canónico, aplicando las reglas propias del proveedor.
type Normalizer interface {
	Normalize(ctx context.Context, src oauth.Resource, cfg *provider.Config) (*Identity, error)
}

var normalizers = map[string]Normalizer{
	"facebook": facebookNormalizer{},
	"google":   googleNormalizer{},
	"github":   githubNormalizer{},
	"twitter":  twitterNormalizer{},
	"linkedin": linkedinNormalizer{},
}

// ForProvider retorna la estrategia del proveedor.
func ForProvider(id string) (Normalizer, error) {
	n, ok := normalizers[id]
	if !ok {
		return nil, fmt.Errorf("identity: no normalizer for provider %q", id)
	}
	return n, nil
}
