package oauth

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dropDatabas3/shakehands/internal/provider"
	tokens "github.com/dropDatabas3/shakehands/internal/security/token"
)

// oauth1Client implementa Client1 (RFC 5849, firma HMAC-SHA1).
type oauth1Client struct {
	cfg  *provider.Config
	http *http.Client
}

// ObtainRequestToken pide el token temporal del primer paso.
func (c *oauth1Client) ObtainRequestToken(ctx context.Context) (*RequestToken, error) {
	extra := map[string]string{"oauth_callback": c.cfg.CallbackURL}
	body, err := c.signedRequest(ctx, "POST", c.cfg.Endpoints.RequestTokenURL, extra, "")
	if err != nil {
		return nil, fmt.Errorf("%w: request token: %v", ErrExchange, err)
	}
	vals, err := url.ParseQuery(string(body))
	if err != nil || vals.Get("oauth_token") == "" {
		return nil, fmt.Errorf("%w: bad request token response", ErrExchange)
	}
	return &RequestToken{
		Token:  vals.Get("oauth_token"),
		Secret: vals.Get("oauth_token_secret"),
	}, nil
}

// AuthorizeURL construye la URL de autorización con el request token.
func (c *oauth1Client) AuthorizeURL(requestToken string) string {
	u, _ := url.Parse(c.cfg.Endpoints.AuthURL)
	q := u.Query()
	q.Set("oauth_token", requestToken)
	u.RawQuery = q.Encode()
	return u.String()
}

// AccessToken intercambia request token + verifier por el access token,
// firmando con el secret del request token guardado en el handshake.
func (c *oauth1Client) AccessToken(ctx context.Context, requestToken, requestSecret, verifier string) (*Token, error) {
	extra := map[string]string{
		"oauth_token":    requestToken,
		"oauth_verifier": verifier,
	}
	body, err := c.signedRequest(ctx, "POST", c.cfg.Endpoints.AccessTokenURL, extra, requestSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: access token: %v", ErrExchange, err)
	}
	vals, err := url.ParseQuery(string(body))
	if err != nil || vals.Get("oauth_token") == "" {
		return nil, fmt.Errorf("%w: bad access token response", ErrExchange)
	}
	return &Token{
		Token:  vals.Get("oauth_token"),
		Secret: vals.Get("oauth_token_secret"),
	}, nil
}

// Resource retorna un fetcher que firma cada GET con el access token.
func (c *oauth1Client) Resource(tok *Token) Resource {
	return &signedResource{client: c, tok: tok}
}

type signedResource struct {
	client *oauth1Client
	tok    *Token
}

func (r *signedResource) Get(ctx context.Context, path string) ([]byte, error) {
	u := strings.TrimRight(r.client.cfg.Endpoints.ResourceBase, "/") + "/" + strings.TrimLeft(path, "/")
	extra := map[string]string{"oauth_token": r.tok.Token}
	return r.client.signedRequest(ctx, "GET", u, extra, r.tok.Secret)
}

// signedRequest arma los parámetros oauth_*, firma y ejecuta el request.
// extra lleva oauth_token/oauth_verifier/oauth_callback según el paso.
func (c *oauth1Client) signedRequest(ctx context.Context, method, rawurl string, extra map[string]string, tokenSecret string) ([]byte, error) {
	nonce, err := tokens.GenerateOpaqueToken(16)
	if err != nil {
		return nil, err
	}

	params := map[string]string{
		"oauth_consumer_key":     c.cfg.Key,
		"oauth_nonce":            nonce,
		"oauth_signature_method": "HMAC-SHA1",
		"oauth_timestamp":        strconv.FormatInt(time.Now().Unix(), 10),
		"oauth_version":          "1.0",
	}
	for k, v := range extra {
		params[k] = v
	}

	// Los query params de la URL participan en la firma.
	u, err := url.Parse(rawurl)
	if err != nil {
		return nil, err
	}
	queryParams := u.Query()
	for k := range queryParams {
		params[k] = queryParams.Get(k)
	}
	baseURL := u.Scheme + "://" + u.Host + u.Path

	params["oauth_signature"] = sign(method, baseURL, params, c.cfg.Secret, tokenSecret)

	req, err := http.NewRequestWithContext(ctx, method, rawurl, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", authorizationHeader(params))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

// sign computa la firma HMAC-SHA1 sobre el signature base string.
func sign(method, baseURL string, params map[string]string, consumerSecret, tokenSecret string) string {
	base := signatureBase(method, baseURL, params)
	key := percentEncode(consumerSecret) + "&" + percentEncode(tokenSecret)
	mac := hmac.New(sha1.New, []byte(key))
	mac.Write([]byte(base))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// signatureBase arma METHOD&enc(url)&enc(params ordenados).
func signatureBase(method, baseURL string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "oauth_signature" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, percentEncode(k)+"="+percentEncode(params[k]))
	}
	normalized := strings.Join(pairs, "&")

	return strings.ToUpper(method) + "&" + percentEncode(baseURL) + "&" + percentEncode(normalized)
}

// authorizationHeader serializa los params oauth_* en el header OAuth.
func authorizationHeader(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if strings.HasPrefix(k, "oauth_") {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%q", percentEncode(k), percentEncode(params[k])))
	}
	return "OAuth " + strings.Join(pairs, ", ")
}

// percentEncode implementa el encoding de RFC 3986 §2.1 que exige OAuth1
// (url.QueryEscape no sirve: usa '+' para espacios).
func percentEncode(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') || c == '-' || c == '.' || c == '_' || c == '~' {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}
