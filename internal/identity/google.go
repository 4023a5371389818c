package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/dropDatabas3/shakehands/internal/oauth"
	"github.com/dropDatabas3/shakehands/internal/provider"
)

// defaultHostedDomain se asume cuando el perfil no trae el campo hd
// (cuentas personales).
const defaultHostedDomain = "gmail.com"

// nicknameRe extrae un apodo entre paréntesis del display name,
// ej. "Ada Lovelace (ada)" => "ada".
var nicknameRe = regexp.MustCompile(`(?i)[\w\s]+\((\w+)\)`)

// googleNormalizer pide userinfo y aplica la política de hosted domain.
// La política corre antes de tocar cualquier cuenta local.
type googleNormalizer struct{}

func (googleNormalizer) Normalize(ctx context.Context, src oauth.Resource, cfg *provider.Config) (*Identity, error) {
	raw, err := src.Get(ctx, "userinfo")
	if err != nil {
		return nil, fmt.Errorf("identity: google profile: %w", err)
	}
	return parseGoogleProfile(raw, cfg.Whitelist, cfg.Blacklist)
}

func parseGoogleProfile(raw []byte, whitelist, blacklist []string) (*Identity, error) {
	var p struct {
		ID         string `json:"id"`
		Email      string `json:"email"`
		Name       string `json:"name"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
		Locale     string `json:"locale"`
		Lang       string `json:"lang"`
		HD         string `json:"hd"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("identity: google profile: %w", err)
	}
	if p.ID == "" {
		return nil, fmt.Errorf("identity: google profile without id")
	}

	domain := p.HD
	if domain == "" {
		domain = defaultHostedDomain
	}
	if len(whitelist) > 0 && !containsDomain(whitelist, domain) {
		return nil, &DomainError{Domain: domain}
	}
	if containsDomain(blacklist, domain) {
		return nil, &DomainError{Domain: domain}
	}

	fullname := p.GivenName + " " + p.FamilyName
	if m := nicknameRe.FindStringSubmatch(p.Name); m != nil {
		fullname = m[1]
	}

	locale := p.Locale
	if locale == "" {
		locale = p.Lang
	}

	return &Identity{
		ExternalID: p.ID,
		FullName:   fullname,
		Email:      p.Email,
		Locale:     locale,
	}, nil
}

func containsDomain(list []string, domain string) bool {
	for _, d := range list {
		if d == domain {
			return true
		}
	}
	return false
}
