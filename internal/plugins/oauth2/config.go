// Package oauth2 is httpcraft's compiled-in OAuth2 plugin: three grants,
// an interactive PKCE authorization-code flow with a local callback
// server, and a tiered token store.
package oauth2

import "encoding/json"

// Config is the plugin's effective, fully-resolved configuration.
type Config struct {
	TokenURL         string            `json:"tokenUrl"`
	ClientID         string            `json:"clientId"`
	ClientSecret     string            `json:"clientSecret"`
	GrantType        string            `json:"grantType"`
	Scope            string            `json:"scope"`
	Audience         string            `json:"audience"`
	AuthStyle        string            `json:"authStyle"` // "basic" or "post"
	CacheKey         string            `json:"cacheKey"`
	TokenStorage     string            `json:"tokenStorage"` // explicit hint, else auto
	RefreshToken     string            `json:"refreshToken"`
	AuthorizationURL string            `json:"authorizationUrl"`
	AuthorizationCode string           `json:"authorizationCode"`
	CallbackPath     string            `json:"callbackPath"`
	Port             int               `json:"port"`
	UsePKCE          *bool             `json:"usePKCE"`
	TokenType        string            `json:"tokenType"`
	AdditionalParams map[string]string `json:"additionalParams"`
}

func decodeConfig(raw map[string]any) (*Config, error) {
	body, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		AuthStyle:    "basic",
		GrantType:    "client_credentials",
		CallbackPath: "/callback",
		Port:         8080,
		TokenType:    "Bearer",
	}
	if err := json.Unmarshal(body, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) usePKCE() bool {
	return c.UsePKCE == nil || *c.UsePKCE
}
