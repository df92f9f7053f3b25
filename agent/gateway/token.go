package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	contractx "github.com/supportlab/triage-agent/agent/contract"
)

// TokenConfig carries the machine-to-machine grant settings. None of the
// fields have baked-in defaults; the deployment must provide them.
type TokenConfig struct {
	TokenURL     string        `envconfig:"TOKEN_URL" split_words:"true"`
	ClientID     string        `envconfig:"CLIENT_ID" split_words:"true"`
	ClientSecret string        `envconfig:"CLIENT_SECRET" split_words:"true"`
	Timeout      time.Duration `envconfig:"TOKEN_TIMEOUT" split_words:"true" default:"15s"`
}

// TokenClient performs a single synchronous client-credentials grant per
// call. Tokens are deliberately not cached: the remote tool protocol fetches
// a fresh token on every invocation.
type TokenClient struct {
	cfg        TokenConfig
	httpClient *http.Client
}

var _ contractx.TokenSource = (*TokenClient)(nil)

func NewTokenClient(cfg TokenConfig) *TokenClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &TokenClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *TokenClient) AccessToken(ctx context.Context) (string, error) {
	tokenURL := strings.TrimSpace(c.cfg.TokenURL)
	clientID := strings.TrimSpace(c.cfg.ClientID)
	clientSecret := strings.TrimSpace(c.cfg.ClientSecret)
	if tokenURL == "" || clientID == "" || clientSecret == "" {
		return "", fmt.Errorf("%w: token endpoint, client id and client secret are required", contractx.ErrConfiguration)
	}

	// AuthStyleInParams puts the credentials in the form-encoded body, the
	// exact grant shape the gateway's token endpoint expects.
	grant := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	token, err := grant.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", contractx.ErrAuth, err)
	}
	if strings.TrimSpace(token.AccessToken) == "" {
		return "", fmt.Errorf("%w: token response has no access token", contractx.ErrAuth)
	}
	return token.AccessToken, nil
}
