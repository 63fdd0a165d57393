package oauth2

import (
	"context"
	"net/http"

	"github.com/httpcraft/httpcraft/internal/plugin"
)

func init() {
	plugin.Register("oauth2", func() plugin.Plugin { return &Plugin{} })
}

// Plugin is the compiled-in oauth2 plugin: it authenticates outgoing
// requests with a bearer (or configured scheme) token, acquired through a
// configurable grant, token store, and interactive-flow fallback.
type Plugin struct {
	tm *tokenManager
}

func (p *Plugin) Setup(ctx context.Context, reg *plugin.Registrar, config map[string]any) error {
	cfg, err := decodeConfig(config)
	if err != nil {
		return err
	}
	p.tm = newTokenManager(cfg)

	reg.RegisterPreRequestHook(func(req *http.Request) error {
		tok, err := p.tm.GetToken(req.Context(), "")
		if err != nil {
			return err
		}
		scheme := tok.TokenType
		if scheme == "" {
			scheme = cfg.TokenType
		}
		req.Header.Set("Authorization", scheme+" "+tok.AccessToken)
		return nil
	})

	reg.RegisterVariable("accessToken", func() (string, error) {
		tok, err := p.tm.GetToken(context.Background(), "")
		if err != nil {
			return "", err
		}
		return tok.AccessToken, nil
	})

	reg.RegisterVariable("tokenType", func() (string, error) {
		return cfg.TokenType, nil
	})

	reg.RegisterParameterizedVariable("getTokenWithScope", func(args []string) (string, error) {
		scope := ""
		if len(args) > 0 {
			scope = args[0]
		}
		tok, err := p.tm.GetToken(context.Background(), scope)
		if err != nil {
			return "", err
		}
		return tok.AccessToken, nil
	})

	return nil
}
