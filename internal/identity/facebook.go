package identity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dropDatabas3/shakehands/internal/oauth"
	"github.com/dropDatabas3/shakehands/internal/provider"
)

// facebookNormalizer pide /me al Graph API. El campo email solo se pide si
// el scope de email fue habilitado por config; si falta, queda vacío (no es
// un error).
type facebookNormalizer struct{}

func (facebookNormalizer) Normalize(ctx context.Context, src oauth.Resource, cfg *provider.Config) (*Identity, error) {
	path := "me"
	if cfg.EnableEmail {
		path = "me?fields=id,name,email"
	}
	raw, err := src.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("identity: facebook profile: %w", err)
	}
	return parseFacebookProfile(raw)
}

func parseFacebookProfile(raw []byte) (*Identity, error) {
	var p struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("identity: facebook profile: %w", err)
	}
	if p.ID == "" {
		return nil, fmt.Errorf("identity: facebook profile without id")
	}
	return &Identity{
		ExternalID: p.ID,
		FullName:   p.Name,
		Email:      p.Email,
	}, nil
}
