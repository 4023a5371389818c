package provider

import (
	"errors"
	"testing"

	"github.com/dropDatabas3/shakehands/internal/config"
)

func enabled(key, secret string) config.ProviderConfig {
	return config.ProviderConfig{Enabled: true, Key: key, Secret: secret}
}

func TestNewRegistry_SkipsDisabledAndCredless(t *testing.T) {
	disabled := config.ProviderConfig{Enabled: false, Key: "k", Secret: "s"}
	credless := config.ProviderConfig{Enabled: true}

	reg, err := NewRegistry(map[string]config.ProviderConfig{
		"google":   enabled("k", "s"),
		"github":   disabled,
		"facebook": credless,
	})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	if _, err := reg.Resolve("google"); err != nil {
		t.Fatalf("google should resolve: %v", err)
	}
	for _, id := range []string{"github", "facebook"} {
		if _, err := reg.Resolve(id); !errors.Is(err, ErrNotConfigured) {
			t.Fatalf("%s: want ErrNotConfigured, got %v", id, err)
		}
	}
	if got := len(reg.Enabled()); got != 1 {
		t.Fatalf("Enabled() = %d providers, want 1", got)
	}
}

func TestNewRegistry_UnknownProviderIsError(t *testing.T) {
	_, err := NewRegistry(map[string]config.ProviderConfig{
		"gooogle": enabled("k", "s"), // typo
	})
	if err == nil {
		t.Fatal("expected error for unknown provider name")
	}
}

func TestResolve_CaseInsensitive(t *testing.T) {
	reg, err := NewRegistry(map[string]config.ProviderConfig{"Google": enabled("k", "s")})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	c, err := reg.Resolve("GOOGLE")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if c.ID != "google" {
		t.Fatalf("ID = %q, want google", c.ID)
	}
}

func TestNewRegistry_Variants(t *testing.T) {
	reg, err := NewRegistry(map[string]config.ProviderConfig{
		"twitter": enabled("k", "s"),
		"github":  enabled("k", "s"),
	})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	tw, _ := reg.Resolve("twitter")
	if tw.Variant != OAuth1a {
		t.Fatalf("twitter variant = %q, want oauth1a", tw.Variant)
	}
	if tw.Endpoints.RequestTokenURL == "" || tw.Endpoints.AccessTokenURL == "" {
		t.Fatal("twitter needs request/access token endpoints")
	}

	gh, _ := reg.Resolve("github")
	if gh.Variant != OAuth2 {
		t.Fatalf("github variant = %q, want oauth2", gh.Variant)
	}
	if gh.Endpoints.TokenURL == "" {
		t.Fatal("github needs a token endpoint")
	}
}

func TestNewRegistry_FacebookEmailScope(t *testing.T) {
	fb := enabled("k", "s")
	fb.Options.EnableEmail = true

	reg, err := NewRegistry(map[string]config.ProviderConfig{"facebook": fb})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	c, _ := reg.Resolve("facebook")

	found := false
	for _, s := range c.Scopes {
		if s == "email" {
			found = true
		}
	}
	if !found {
		t.Fatalf("scopes %v should include email when enable_email is set", c.Scopes)
	}
}

func TestNewRegistry_CustomScopesOverrideDefaults(t *testing.T) {
	gh := enabled("k", "s")
	gh.Scopes = []string{"read:user"}

	reg, err := NewRegistry(map[string]config.ProviderConfig{"github": gh})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	c, _ := reg.Resolve("github")
	if len(c.Scopes) != 1 || c.Scopes[0] != "read:user" {
		t.Fatalf("scopes = %v, want [read:user]", c.Scopes)
	}
}
