package identity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dropDatabas3/shakehands/internal/oauth"
	"github.com/dropDatabas3/shakehands/internal/provider"
)

// twitterNormalizer (OAuth1a) pide verify_credentials. Este endpoint nunca
// expone email: el canónico queda vacío siempre.
type twitterNormalizer struct{}

func (twitterNormalizer) Normalize(ctx context.Context, src oauth.Resource, cfg *provider.Config) (*Identity, error) {
	raw, err := src.Get(ctx, "account/verify_credentials.json")
	if err != nil {
		return nil, fmt.Errorf("identity: twitter profile: %w", err)
	}
	return parseTwitterProfile(raw)
}

func parseTwitterProfile(raw []byte) (*Identity, error) {
	var p struct {
		ID         json.Number `json:"id"`
		IDStr      string      `json:"id_str"`
		ScreenName string      `json:"screen_name"`
		Lang       string      `json:"lang"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("identity: twitter profile: %w", err)
	}

	id := p.IDStr
	if id == "" {
		id = p.ID.String()
	}
	if id == "" || id == "0" {
		return nil, fmt.Errorf("identity: twitter profile without id")
	}

	return &Identity{
		ExternalID: id,
		FullName:   p.ScreenName,
		Email:      "",
		Locale:     p.Lang,
	}, nil
}
