package handshake

import "net/url"

// callbackParams son los parámetros de protocolo extraídos del request.
type callbackParams struct {
	code  string
	state string
	// error de IDP (OAuth2: usuario canceló, scope denegado, etc.)
	idpError string

	oauthToken    string
	oauthVerifier string
}

// parseParams extrae los parámetros de callback. Para OAuth1a algunos proxies
// reenvían el callback con la URL original codificada en _url; si falta un
// parámetro top-level se busca también ahí.
func parseParams(q url.Values) callbackParams {
	p := callbackParams{
		code:          q.Get("code"),
		state:         q.Get("state"),
		idpError:      q.Get("error"),
		oauthToken:    q.Get("oauth_token"),
		oauthVerifier: q.Get("oauth_verifier"),
	}

	if p.oauthToken == "" || p.oauthVerifier == "" {
		if fwd := q.Get("_url"); fwd != "" {
			if u, err := url.Parse(fwd); err == nil {
				nested := u.Query()
				if p.oauthToken == "" {
					p.oauthToken = nested.Get("oauth_token")
				}
				if p.oauthVerifier == "" {
					p.oauthVerifier = nested.Get("oauth_verifier")
				}
			}
		}
	}
	return p
}

// isOAuth2Callback reporta si el request trae evidencia de callback OAuth2.
func (p callbackParams) isOAuth2Callback() bool {
	return p.code != "" || p.state != "" || p.idpError != ""
}

// isOAuth1Callback reporta si el request trae evidencia de callback OAuth1a.
func (p callbackParams) isOAuth1Callback() bool {
	return p.oauthToken != "" || p.oauthVerifier != ""
}
