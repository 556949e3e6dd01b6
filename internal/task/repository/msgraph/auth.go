package msgraph

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"
)

// AuthConfig holds the delegated-permission credentials for the Graph API.
// The refresh token is obtained once out of band; the token source keeps
// exchanging it for short-lived access tokens from then on.
type AuthConfig struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// graphScopes covers the To Do surface plus offline_access so refreshes
// keep working.
var graphScopes = []string{
	"https://graph.microsoft.com/Tasks.ReadWrite",
	"offline_access",
}

// NewHTTPClient builds an http.Client that transparently attaches and
// refreshes the Graph bearer token.
func NewHTTPClient(ctx context.Context, cfg AuthConfig) *http.Client {
	oc := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     microsoft.AzureADEndpoint(cfg.TenantID),
		Scopes:       graphScopes,
	}
	ts := oc.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
	return oauth2.NewClient(ctx, ts)
}
