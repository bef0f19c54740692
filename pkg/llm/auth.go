package llm

import (
	"context"
	"net/http"
	"time"

	"github.com/synaptica-ai/symptomcheck/pkg/gateway/httpclient"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

type AuthConfig struct {
	APIKey       string
	TokenURL     string
	ClientID     string
	ClientSecret string
}

// TokenSource picks client-credentials when a token URL is configured and a
// static bearer key otherwise. It returns nil when no credentials exist.
func TokenSource(ctx context.Context, cfg AuthConfig) oauth2.TokenSource {
	if cfg.TokenURL != "" && cfg.ClientID != "" {
		cc := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		return cc.TokenSource(ctx)
	}
	if cfg.APIKey != "" {
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIKey, TokenType: "Bearer"})
	}
	return nil
}

// NewHTTPClient returns an outbound client that signs requests with ts.
func NewHTTPClient(ts oauth2.TokenSource, timeout time.Duration) *http.Client {
	if ts == nil {
		return httpclient.New(timeout)
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.ReuseTokenSource(nil, ts),
			Base:   httpclient.NewTransport(),
		},
	}
}
