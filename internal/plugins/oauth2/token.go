package oauth2

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Token is one acquired grant, as persisted to the token store and cached
// in memory.
type Token struct {
	AccessToken  string    `json:"accessToken"`
	TokenType    string    `json:"tokenType"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

func (t Token) expired() bool {
	if t.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().After(t.ExpiresAt)
}

// cacheKeyFields is the stable-JSON shape the MD5 default cache key is
// derived from.
type cacheKeyFields struct {
	TokenURL  string `json:"tokenUrl"`
	ClientID  string `json:"clientId"`
	GrantType string `json:"grantType"`
	Scope     string `json:"scope"`
}

// computeCacheKey returns cfg.CacheKey if set, else the MD5 of a stable
// JSON encoding of {tokenUrl, clientId, grantType, scope}. This is a
// cache-bucketing key, not a security boundary, so collision resistance
// beyond "distinct configs land in distinct buckets" is not required.
func computeCacheKey(cfg *Config) (string, error) {
	if cfg.CacheKey != "" {
		return cfg.CacheKey, nil
	}
	body, err := json.Marshal(cacheKeyFields{
		TokenURL:  cfg.TokenURL,
		ClientID:  cfg.ClientID,
		GrantType: cfg.GrantType,
		Scope:     cfg.Scope,
	})
	if err != nil {
		return "", err
	}
	sum := md5.Sum(body)
	return hex.EncodeToString(sum[:]), nil
}
