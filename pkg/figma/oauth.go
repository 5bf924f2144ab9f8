package figma

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

// Figma OAuth2 endpoints.
var Endpoint = oauth2.Endpoint{
	AuthURL:   "https://www.figma.com/oauth",
	TokenURL:  "https://api.figma.com/v1/oauth/token",
	AuthStyle: oauth2.AuthStyleInHeader,
}

// DefaultScopes grants read access to file content and variables.
var DefaultScopes = []string{"file_content:read", "file_variables:read"}

// OAuthConfig wraps the authorization-code flow against Figma.
type OAuthConfig struct {
	cfg *oauth2.Config
}

// NewOAuthConfig returns an OAuthConfig for the given application credentials.
// A nil scopes slice selects DefaultScopes; a zero endpoint selects Endpoint.
func NewOAuthConfig(clientID, clientSecret, redirectURL string, scopes []string, endpoint oauth2.Endpoint) (*OAuthConfig, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("oauth client id and secret are required")
	}
	if redirectURL == "" {
		return nil, fmt.Errorf("oauth redirect URL is required")
	}
	if scopes == nil {
		scopes = DefaultScopes
	}
	if endpoint.AuthURL == "" && endpoint.TokenURL == "" {
		endpoint = Endpoint
	}

	return &OAuthConfig{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       scopes,
			Endpoint:     endpoint,
		},
	}, nil
}

// AuthCodeURL returns the consent page URL carrying the given state.
func (o *OAuthConfig) AuthCodeURL(state string) string {
	return o.cfg.AuthCodeURL(state)
}

// Exchange trades an authorization code for a token.
func (o *OAuthConfig) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if code == "" {
		return nil, fmt.Errorf("authorization code is required")
	}
	tok, err := o.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return tok, nil
}
