package oauth2

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const tokenEndpointTimeout = 30 * time.Second

type tokenResponse struct {
	AccessToken  string      `json:"access_token"`
	TokenType    string      `json:"token_type"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    json.Number `json:"expires_in"`
}

// acquireClientCredentials runs the client_credentials grant.
func acquireClientCredentials(ctx context.Context, cfg *Config, scope string) (*Token, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	if scope != "" {
		form.Set("scope", scope)
	} else if cfg.Scope != "" {
		form.Set("scope", cfg.Scope)
	}
	if cfg.Audience != "" {
		form.Set("audience", cfg.Audience)
	}
	return exchangeToken(ctx, cfg, form)
}

// acquireRefreshToken exchanges a stored refresh token for a new access
// token.
func acquireRefreshToken(ctx context.Context, cfg *Config, refreshToken string) (*Token, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}
	return exchangeToken(ctx, cfg, form)
}

// acquireAuthorizationCode exchanges a pre-provided or interactively
// obtained authorization code for a token. verifier is empty when PKCE is
// disabled.
func acquireAuthorizationCode(ctx context.Context, cfg *Config, code, redirectURI, verifier string) (*Token, error) {
	form := url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"redirect_uri": {redirectURI},
	}
	if verifier != "" {
		form.Set("code_verifier", verifier)
	}
	return exchangeToken(ctx, cfg, form)
}

// runInteractiveAuthorizationCode drives the full browser-based PKCE flow:
// generate verifier/state, start the callback server, open the
// authorization URL, wait for the redirect, exchange the code.
func runInteractiveAuthorizationCode(ctx context.Context, cfg *Config) (*Token, error) {
	verifier, err := generateCodeVerifier()
	if err != nil {
		return nil, err
	}
	state := uuid.NewString()

	cs, err := startCallbackServer(cfg.Port, cfg.CallbackPath)
	if err != nil {
		return nil, err
	}

	authURL, err := buildAuthorizationURL(cfg, cs.redirectURI, state, verifier)
	if err != nil {
		return nil, err
	}
	openBrowser(authURL)

	result, err := cs.WaitForCallback()
	if err != nil {
		return nil, err
	}
	if result.state != state {
		return nil, fmt.Errorf("oauth2 callback state mismatch")
	}

	pkceVerifier := ""
	if cfg.usePKCE() {
		pkceVerifier = verifier
	}
	return acquireAuthorizationCode(ctx, cfg, result.code, cs.redirectURI, pkceVerifier)
}

func buildAuthorizationURL(cfg *Config, redirectURI, state, verifier string) (string, error) {
	u, err := url.Parse(cfg.AuthorizationURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("response_type", "code")
	q.Set("client_id", cfg.ClientID)
	q.Set("redirect_uri", redirectURI)
	q.Set("state", state)
	if cfg.usePKCE() {
		q.Set("code_challenge", codeChallengeS256(verifier))
		q.Set("code_challenge_method", "S256")
	}
	if cfg.Scope != "" {
		q.Set("scope", cfg.Scope)
	}
	if cfg.Audience != "" {
		q.Set("audience", cfg.Audience)
	}
	for k, v := range cfg.AdditionalParams {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// exchangeToken POSTs form to cfg.TokenURL, authenticating per cfg.AuthStyle.
func exchangeToken(ctx context.Context, cfg *Config, form url.Values) (*Token, error) {
	ctx, cancel := context.WithTimeout(ctx, tokenEndpointTimeout)
	defer cancel()

	if cfg.AuthStyle == "post" {
		form.Set("client_id", cfg.ClientID)
		form.Set("client_secret", cfg.ClientSecret)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if cfg.AuthStyle != "post" {
		req.SetBasicAuth(cfg.ClientID, cfg.ClientSecret)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed tokenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decoding token response: %w", err)
	}

	tokenType := parsed.TokenType
	if tokenType == "" {
		tokenType = cfg.TokenType
	}
	tok := &Token{
		AccessToken:  parsed.AccessToken,
		TokenType:    tokenType,
		RefreshToken: parsed.RefreshToken,
	}
	if seconds, err := strconv.ParseFloat(parsed.ExpiresIn.String(), 64); err == nil && seconds > 0 {
		tok.ExpiresAt = time.Now().Add(time.Duration(seconds * float64(time.Second)))
	}
	return tok, nil
}
