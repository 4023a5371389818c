package http

import (
	"context"
	"encoding/json"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/shakehands/internal/account"
	"github.com/dropDatabas3/shakehands/internal/cache"
	"github.com/dropDatabas3/shakehands/internal/config"
	"github.com/dropDatabas3/shakehands/internal/handshake"
	"github.com/dropDatabas3/shakehands/internal/jwt"
	"github.com/dropDatabas3/shakehands/internal/metrics"
	"github.com/dropDatabas3/shakehands/internal/oauth"
	"github.com/dropDatabas3/shakehands/internal/provider"
	"github.com/dropDatabas3/shakehands/internal/session"
	"github.com/dropDatabas3/shakehands/internal/store"
)

type stubResource struct{ body []byte }

func (s stubResource) Get(ctx context.Context, path string) ([]byte, error) {
	if s.body == nil {
		return nil, errors.New("no profile")
	}
	return s.body, nil
}

type stubClient2 struct{ profile []byte }

func (s stubClient2) AuthCodeURL(state string) string {
	return "https://idp.example/auth?state=" + url.QueryEscape(state)
}
func (s stubClient2) Exchange(ctx context.Context, code string) (*oauth.Token, error) {
	return &oauth.Token{Token: "at"}, nil
}
func (s stubClient2) Resource(tok *oauth.Token) oauth.Resource {
	return stubResource{body: s.profile}
}

type stubFactory struct{ profile []byte }

func (s stubFactory) OAuth2(cfg *provider.Config) oauth.Client2 { return stubClient2{s.profile} }
func (s stubFactory) OAuth1a(cfg *provider.Config) oauth.Client1 { return nil }

func newTestServer(t *testing.T) (*httptest.Server, *session.Store) {
	t.Helper()

	cc, err := cache.New(cache.Config{Driver: "memory"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = cc.Close() })

	reg, err := provider.NewRegistry(map[string]config.ProviderConfig{
		"github": {Enabled: true, Key: "k", Secret: "s", CallbackURL: "http://app.example/auth/github/callback"},
	})
	require.NoError(t, err)

	sessions := session.New(cc, 0, 0)
	mets := metrics.New()
	// el stub devuelve el mismo body para user y user/emails; la lista de
	// emails no parsea como array y queda vacía, que es un caso soportado
	factory := stubFactory{profile: []byte(`{"id":583231,"login":"octocat","name":"The Octocat"}`)}

	signer, err := jwt.NewSigner("test-secret", "shakehands", time.Hour)
	require.NoError(t, err)

	controller := handshake.New(reg, sessions, factory, account.New(store.NewMemory(), nil), mets)

	srv := httptest.NewServer(NewRouter(Deps{
		Controller:   controller,
		Sessions:     sessions,
		Signer:       signer,
		Metrics:      mets.Handler(),
		CookieName:   "shakehands_sid",
		SecureCookie: false,
	}))
	t.Cleanup(srv.Close)
	return srv, sessions
}

func noRedirectClient() *nethttp.Client {
	return &nethttp.Client{
		CheckRedirect: func(req *nethttp.Request, via []*nethttp.Request) error {
			return nethttp.ErrUseLastResponse
		},
	}
}

func cookieByName(resp *nethttp.Response, name string) *nethttp.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := nethttp.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := nethttp.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
}

func TestStart_SetsSessionCookieAndRedirects(t *testing.T) {
	srv, _ := newTestServer(t)
	client := noRedirectClient()

	resp, err := client.Get(srv.URL + "/auth/github/start")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, nethttp.StatusFound, resp.StatusCode)

	sid := cookieByName(resp, "shakehands_sid")
	require.NotNil(t, sid)
	require.NotEmpty(t, sid.Value)
	require.True(t, sid.HttpOnly)

	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "idp.example", loc.Host)
	require.NotEmpty(t, loc.Query().Get("state"))
}

func TestFullLoginFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	client := noRedirectClient()

	// start
	resp, err := client.Get(srv.URL + "/auth/github/start")
	require.NoError(t, err)
	resp.Body.Close()
	sid := cookieByName(resp, "shakehands_sid")
	require.NotNil(t, sid)

	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	state := loc.Query().Get("state")
	require.NotEmpty(t, state)

	// callback con el state correcto y la misma cookie
	req, err := nethttp.NewRequest("GET", srv.URL+"/auth/github/callback?code=abc&state="+url.QueryEscape(state), nil)
	require.NoError(t, err)
	req.AddCookie(sid)

	resp, err = client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, nethttp.StatusFound, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))

	auth := cookieByName(resp, "shakehands_token")
	require.NotNil(t, auth, "completed login must set the session token cookie")
	require.NotEmpty(t, auth.Value)

	// los mensajes pendientes confirman el desenlace
	req, err = nethttp.NewRequest("GET", srv.URL+"/auth/messages", nil)
	require.NoError(t, err)
	req.AddCookie(sid)

	resp, err = client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	var out struct {
		Messages []session.Message `json:"messages"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Messages, 1)
	require.Equal(t, "login.successful", out.Messages[0].Key)
}

func TestCallback_ForgedStateRedirectsWithoutToken(t *testing.T) {
	srv, _ := newTestServer(t)
	client := noRedirectClient()

	resp, err := client.Get(srv.URL + "/auth/github/start")
	require.NoError(t, err)
	resp.Body.Close()
	sid := cookieByName(resp, "shakehands_sid")
	require.NotNil(t, sid)

	req, err := nethttp.NewRequest("GET", srv.URL+"/auth/github/callback?code=abc&state=forged", nil)
	require.NoError(t, err)
	req.AddCookie(sid)

	resp, err = client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, nethttp.StatusFound, resp.StatusCode)
	require.Nil(t, cookieByName(resp, "shakehands_token"))
}

func TestUnknownProviderRedirectsHome(t *testing.T) {
	srv, _ := newTestServer(t)
	client := noRedirectClient()

	resp, err := client.Get(srv.URL + "/auth/myspace/start")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, nethttp.StatusFound, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
}

func TestCallback_WithoutParamsIsNoContent(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := nethttp.Get(srv.URL + "/auth/github/callback")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, nethttp.StatusNoContent, resp.StatusCode)
}

func TestMessages_EmptyQueue(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := nethttp.Get(srv.URL + "/auth/messages")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	var out struct {
		Messages []session.Message `json:"messages"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Empty(t, out.Messages)
}
