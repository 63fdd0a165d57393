package oauth2

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/httpcraft/httpcraft/internal/herr"
	"github.com/httpcraft/httpcraft/internal/log"
)

var (
	errNoCode       = errors.New("authorization_code grant configured without an authorizationCode and no interactive flow available")
	errUnknownGrant = errors.New("unknown grantType")
)

// tokenManager implements the token acquisition lifecycle: an in-memory
// fast cache in front of a tiered persistent TokenStore, with
// golang.org/x/sync/singleflight collapsing concurrent acquisitions for
// the same cache key — a pre-request hook and a getTokenWithScope call can
// race for the same token within one process.
type tokenManager struct {
	cfg   *Config
	store TokenStore

	mu    sync.Mutex
	cache map[string]*Token

	group singleflight.Group
}

func newTokenManager(cfg *Config) *tokenManager {
	fs, err := newFileStore()
	var fileTier TokenStore
	if err == nil {
		fileTier = fs
	} else {
		log.WithComponent("oauth2").Warn("encrypted token file store unavailable, falling back to memory only", "error", err)
	}

	store := newTieredStore(newKeychainStore(), fileTier, newMemoryStore())
	return &tokenManager{cfg: cfg, store: store, cache: map[string]*Token{}}
}

// GetToken returns a valid access token for scope ("" uses the plugin's
// configured default scope), acquiring or refreshing one if needed.
func (tm *tokenManager) GetToken(ctx context.Context, scope string) (*Token, error) {
	cacheKey, err := tm.scopedCacheKey(scope)
	if err != nil {
		return nil, herr.NewAuthError(tm.cfg.GrantType, err)
	}

	result, err, _ := tm.group.Do(cacheKey, func() (any, error) {
		return tm.acquireOrRefresh(ctx, cacheKey, scope)
	})
	if err != nil {
		return nil, herr.NewAuthError(tm.cfg.GrantType, err)
	}
	return result.(*Token), nil
}

func (tm *tokenManager) scopedCacheKey(scope string) (string, error) {
	base, err := computeCacheKey(tm.cfg)
	if err != nil {
		return "", err
	}
	if scope == "" {
		return base, nil
	}
	return base + ":" + scope, nil
}

func (tm *tokenManager) acquireOrRefresh(ctx context.Context, cacheKey, scope string) (*Token, error) {
	tm.mu.Lock()
	if tok, ok := tm.cache[cacheKey]; ok && !tok.expired() {
		tm.mu.Unlock()
		return tok, nil
	}
	tm.mu.Unlock()

	stored, storedOK := tm.store.Load(cacheKey)
	if storedOK && !stored.expired() {
		tm.setCached(cacheKey, stored)
		return stored, nil
	}

	if storedOK && stored.RefreshToken != "" {
		if tok, err := acquireRefreshToken(ctx, tm.cfg, stored.RefreshToken); err == nil {
			tm.persist(cacheKey, tok)
			return tok, nil
		}
		tm.store.Delete(cacheKey)
	}

	tok, err := tm.acquire(ctx, scope)
	if err != nil {
		return nil, err
	}
	tm.persist(cacheKey, tok)
	return tok, nil
}

func (tm *tokenManager) acquire(ctx context.Context, scope string) (*Token, error) {
	if wantsInteractive(tm.cfg, stdoutIsTTY()) {
		return runInteractiveAuthorizationCode(ctx, tm.cfg)
	}
	switch tm.cfg.GrantType {
	case "client_credentials":
		return acquireClientCredentials(ctx, tm.cfg, scope)
	case "authorization_code":
		if tm.cfg.AuthorizationCode == "" {
			return nil, herr.NewAuthError("authorization_code", errNoCode)
		}
		return acquireAuthorizationCode(ctx, tm.cfg, tm.cfg.AuthorizationCode, "", "")
	case "refresh_token":
		return acquireRefreshToken(ctx, tm.cfg, tm.cfg.RefreshToken)
	default:
		return nil, herr.NewAuthError(tm.cfg.GrantType, errUnknownGrant)
	}
}

func (tm *tokenManager) setCached(cacheKey string, tok *Token) {
	tm.mu.Lock()
	tm.cache[cacheKey] = tok
	tm.mu.Unlock()
}

func (tm *tokenManager) persist(cacheKey string, tok *Token) {
	tm.setCached(cacheKey, tok)
	_ = tm.store.Save(cacheKey, tok)
}
