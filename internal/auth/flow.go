package auth

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Scopes is the fixed set of grants requested on every consent screen:
// profile and email for rendering, upload write plus read-only access for
// the publish workflow.
var Scopes = []string{
	"https://www.googleapis.com/auth/userinfo.profile",
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/youtube.upload",
	"https://www.googleapis.com/auth/youtube.readonly",
}

// FlowConfig carries the provider credentials for the OAuth flow. A zero
// Endpoint selects Google's.
type FlowConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Endpoint     oauth2.Endpoint
}

// Flow drives the authorization-code exchange against the identity provider.
// It is immutable after construction and safe for concurrent use.
type Flow struct {
	config *oauth2.Config
}

// NewFlow constructs a Flow from explicit provider configuration.
func NewFlow(cfg FlowConfig) *Flow {
	endpoint := cfg.Endpoint
	if endpoint.AuthURL == "" && endpoint.TokenURL == "" {
		endpoint = google.Endpoint
	}

	return &Flow{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       Scopes,
			Endpoint:     endpoint,
		},
	}
}

// AuthCodeURL builds the consent-screen redirect URL. Offline access makes
// the provider issue a refresh token; the account chooser is forced so a
// previously selected account is never silently reused.
func (f *Flow) AuthCodeURL(state string) string {
	return f.config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
}

// Exchange swaps an authorization code for a credential bundle. Failures are
// returned as *ExchangeError so callers can surface them to the user.
func (f *Flow) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if code == "" {
		return nil, &ExchangeError{Err: fmt.Errorf("missing authorization code")}
	}

	token, err := f.config.Exchange(ctx, code)
	if err != nil {
		return nil, &ExchangeError{Err: err}
	}

	return token, nil
}

// Client returns an HTTP client that authenticates requests with the bundle,
// refreshing the access token when the provider issued a refresh token.
func (f *Flow) Client(ctx context.Context, bundle *oauth2.Token) *http.Client {
	return f.config.Client(ctx, bundle)
}

// ExchangeError reports a failed token exchange: the provider rejected the
// code (expired, already used, invalid) or the network call failed.
type ExchangeError struct {
	Err error
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("oauth exchange: %v", e.Err)
}

func (e *ExchangeError) Unwrap() error {
	return e.Err
}
