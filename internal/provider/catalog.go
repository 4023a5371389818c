package provider

// catalogEntry fija variante, endpoints y scopes por defecto de cada
// proveedor soportado. Credenciales y opciones vienen del YAML.
type catalogEntry struct {
	variant   Variant
	scopes    []string
	endpoints Endpoints
}

var catalog = map[string]catalogEntry{
	"github": {
		variant: OAuth2,
		scopes:  []string{"user"},
		endpoints: Endpoints{
			AuthURL:      "https://github.com/login/oauth/authorize",
			TokenURL:     "https://github.com/login/oauth/access_token",
			ResourceBase: "https://api.github.com",
		},
	},
	"google": {
		variant: OAuth2,
		scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		endpoints: Endpoints{
			AuthURL:      "https://accounts.google.com/o/oauth2/auth",
			TokenURL:     "https://accounts.google.com/o/oauth2/token",
			ResourceBase: "https://www.googleapis.com/oauth2/v1",
		},
	},
	"facebook": {
		variant: OAuth2,
		scopes:  []string{"public_profile"},
		endpoints: Endpoints{
			AuthURL:      "https://www.facebook.com/dialog/oauth",
			TokenURL:     "https://graph.facebook.com/oauth/access_token",
			ResourceBase: "https://graph.facebook.com",
		},
	},
	"linkedin": {
		variant: OAuth2,
		scopes:  []string{"r_basicprofile", "r_emailaddress"},
		endpoints: Endpoints{
			AuthURL:      "https://www.linkedin.com/uas/oauth2/authorization",
			TokenURL:     "https://www.linkedin.com/uas/oauth2/accessToken",
			ResourceBase: "https://api.linkedin.com/v1",
		},
	},
	"twitter": {
		variant: OAuth1a,
		endpoints: Endpoints{
			RequestTokenURL: "https://api.twitter.com/oauth/request_token",
			AuthURL:         "https://api.twitter.com/oauth/authenticate",
			AccessTokenURL:  "https://api.twitter.com/oauth/access_token",
			ResourceBase:    "https://api.twitter.com/1.1",
		},
	},
}
