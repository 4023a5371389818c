package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dropDatabas3/shakehands/internal/provider"
)

// oauth2Client implementa Client2 contra los endpoints del proveedor.
type oauth2Client struct {
	cfg  *provider.Config
	http *http.Client
}

// AuthCodeURL construye la URL de autorización con el state embebido.
func (c *oauth2Client) AuthCodeURL(state string) string {
	u, _ := url.Parse(c.cfg.Endpoints.AuthURL)
	q := u.Query()
	q.Set("response_type", "code")
	q.Set("client_id", c.cfg.Key)
	q.Set("redirect_uri", c.cfg.CallbackURL)
	q.Set("scope", strings.Join(c.cfg.Scopes, " "))
	q.Set("state", state)
	u.RawQuery = q.Encode()
	return u.String()
}

// Exchange intercambia el authorization code por un access token.
func (c *oauth2Client) Exchange(ctx context.Context, code string) (*Token, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", c.cfg.Key)
	form.Set("client_secret", c.cfg.Secret)
	form.Set("redirect_uri", c.cfg.CallbackURL)

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.Endpoints.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchange, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchange, err)
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("%w: token http %d", ErrExchange, resp.StatusCode)
	}

	tok := parseTokenResponse(body)
	if tok == "" {
		return nil, fmt.Errorf("%w: no access_token in response", ErrExchange)
	}
	return &Token{Token: tok}, nil
}

// parseTokenResponse acepta JSON o form-urlencoded: el endpoint de Facebook
// respondía querystring plano, el resto JSON.
func parseTokenResponse(body []byte) string {
	var jr struct {
		AccessToken string `json:"access_token"`
		Error       string `json:"error"`
	}
	if err := json.Unmarshal(body, &jr); err == nil {
		if jr.Error != "" {
			return ""
		}
		return jr.AccessToken
	}
	vals, err := url.ParseQuery(string(body))
	if err != nil {
		return ""
	}
	return vals.Get("access_token")
}

// Resource retorna un fetcher autenticado con Bearer token.
func (c *oauth2Client) Resource(tok *Token) Resource {
	return &bearerResource{base: c.cfg.Endpoints.ResourceBase, token: tok.Token, http: c.http}
}

type bearerResource struct {
	base  string
	token string
	http  *http.Client
}

func (r *bearerResource) Get(ctx context.Context, path string) ([]byte, error) {
	u := strings.TrimRight(r.base, "/") + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+r.token)
	req.Header.Set("Accept", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oauth: resource http %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
}
