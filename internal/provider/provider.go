// Package provider maps a provider identifier to its credentials, scopes and
// protocol variant. Resolution of a disabled or credential-less provider is a
// normal condition (ErrNotConfigured), not a fault: callers surface a
// user-facing message and carry on.
package provider

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dropDatabas3/shakehands/internal/config"
)

// ErrNotConfigured indica que el proveedor no está habilitado o no tiene
// credenciales. Es "feature unavailable", no un error de sistema.
var ErrNotConfigured = errors.New("provider: not configured")

// Variant es la variante de protocolo del proveedor.
type Variant string

const (
	OAuth1a Variant = "oauth1a"
	OAuth2  Variant = "oauth2"
)

// Endpoints son los endpoints de protocolo de un proveedor.
// ResourceBase es la base para requests autenticados de perfil.
type Endpoints struct {
	AuthURL         string
	TokenURL        string
	RequestTokenURL string // solo oauth1a
	AccessTokenURL  string // solo oauth1a
	ResourceBase    string
}

// Config es la configuración resuelta de un proveedor, inmutable after load.
type Config struct {
	ID          string
	Variant     Variant
	Key         string
	Secret      string
	CallbackURL string
	Scopes      []string

	// Opciones específicas de proveedor.
	EnableEmail bool     // facebook: pedir scope de email
	Whitelist   []string // google: hosted domains permitidos
	Blacklist   []string // google: hosted domains bloqueados

	Endpoints Endpoints
}

// Registry resuelve identificadores de proveedor a su configuración.
type Registry struct {
	providers map[string]*Config
}

// NewRegistry construye el registry desde la configuración cargada.
// Proveedores desconocidos en el YAML producen error (typo probable).
func NewRegistry(cfg map[string]config.ProviderConfig) (*Registry, error) {
	r := &Registry{providers: make(map[string]*Config)}
	for name, pc := range cfg {
		id := strings.ToLower(name)
		entry, ok := catalog[id]
		if !ok {
			return nil, fmt.Errorf("provider: unknown provider %q in config", name)
		}
		if !pc.Enabled || pc.Key == "" || pc.Secret == "" {
			continue
		}
		c := &Config{
			ID:          id,
			Variant:     entry.variant,
			Key:         pc.Key,
			Secret:      pc.Secret,
			CallbackURL: pc.CallbackURL,
			Scopes:      pc.Scopes,
			EnableEmail: pc.Options.EnableEmail,
			Whitelist:   pc.Options.Whitelist,
			Blacklist:   pc.Options.Blacklist,
			Endpoints:   entry.endpoints,
		}
		if len(c.Scopes) == 0 {
			c.Scopes = append([]string(nil), entry.scopes...)
		}
		if id == "facebook" && pc.Options.EnableEmail {
			c.Scopes = append(c.Scopes, "email")
		}
		r.providers[id] = c
	}
	return r, nil
}

// Resolve retorna la configuración del proveedor o ErrNotConfigured.
func (r *Registry) Resolve(id string) (*Config, error) {
	c, ok := r.providers[strings.ToLower(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotConfigured, id)
	}
	return c, nil
}

// Enabled lista los proveedores configurados (para la UI de login).
func (r *Registry) Enabled() []string {
	out := make([]string, 0, len(r.providers))
	for id := range r.providers {
		out = append(out, id)
	}
	return out
}
