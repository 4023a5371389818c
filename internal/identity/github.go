package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dropDatabas3/shakehands/internal/oauth"
	"github.com/dropDatabas3/shakehands/internal/provider"
)

// githubNormalizer pide user y user/emails. El nombre cae al login cuando no
// hay display name; el email es la primera entrada de la lista separada de
// emails, que puede venir vacía.
type githubNormalizer struct{}

func (githubNormalizer) Normalize(ctx context.Context, src oauth.Resource, cfg *provider.Config) (*Identity, error) {
	rawUser, err := src.Get(ctx, "user")
	if err != nil {
		return nil, fmt.Errorf("identity: github profile: %w", err)
	}
	rawEmails, err := src.Get(ctx, "user/emails")
	if err != nil {
		return nil, fmt.Errorf("identity: github emails: %w", err)
	}
	return parseGitHubProfile(rawUser, rawEmails)
}

func parseGitHubProfile(rawUser, rawEmails []byte) (*Identity, error) {
	var u struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
		Name  string `json:"name"`
	}
	if err := json.Unmarshal(rawUser, &u); err != nil {
		return nil, fmt.Errorf("identity: github profile: %w", err)
	}
	if u.ID == 0 {
		return nil, fmt.Errorf("identity: github profile without id")
	}

	fullname := u.Name
	if fullname == "" {
		fullname = u.Login
	}

	return &Identity{
		ExternalID: strconv.FormatInt(u.ID, 10),
		FullName:   fullname,
		Email:      firstGitHubEmail(rawEmails),
	}, nil
}

// firstGitHubEmail toma la primera entrada de la lista. La API vieja devolvía
// strings planos y la nueva objetos {email, primary, verified}; se aceptan
// ambas formas. Lista vacía => email vacío.
func firstGitHubEmail(raw []byte) string {
	var objs []struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(raw, &objs); err == nil && len(objs) > 0 {
		return objs[0].Email
	}
	var strs []string
	if err := json.Unmarshal(raw, &strs); err == nil && len(strs) > 0 {
		return strs[0]
	}
	return ""
}
