package mail

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"
)

// OAuthConfig describes the mailbox's app registration. The refresh token is
// exchanged for access tokens on demand and rotated by the token source.
type OAuthConfig struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	RefreshToken string
	// TokenURL overrides the tenant endpoint.
	TokenURL string
	Scopes   []string
}

// TokenSource returns a caching source that refreshes the access token once it expires.
func (c OAuthConfig) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	if c.ClientID == "" || c.RefreshToken == "" {
		return nil, errors.New("mail: oauth client id and refresh token are required")
	}
	endpoint := microsoft.AzureADEndpoint(c.TenantID)
	if c.TokenURL != "" {
		endpoint = oauth2.Endpoint{TokenURL: c.TokenURL}
	}
	scopes := c.Scopes
	if len(scopes) == 0 {
		scopes = []string{"https://outlook.office365.com/.default", "offline_access"}
	}
	cfg := &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     endpoint,
		Scopes:       scopes,
	}
	return cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: c.RefreshToken}), nil
}

// xoauth2 is the SASL XOAUTH2 mechanism used by Office 365 and Gmail SMTP.
type xoauth2 struct {
	user string
	src  oauth2.TokenSource
}

func XOAuth2(user string, src oauth2.TokenSource) smtp.Auth { return &xoauth2{user: user, src: src} }

func (a *xoauth2) Start(*smtp.ServerInfo) (string, []byte, error) {
	tok, err := a.src.Token()
	if err != nil {
		return "", nil, fmt.Errorf("mail: fetch access token: %w", err)
	}
	resp := "user=" + a.user + "\x01auth=Bearer " + tok.AccessToken + "\x01\x01"
	return "XOAUTH2", []byte(resp), nil
}

// the server answers a failed exchange with a JSON challenge; an empty reply ends it
func (a *xoauth2) Next(fromServer []byte, more bool) ([]byte, error) {
	if more {
		return []byte{}, nil
	}
	return nil, nil
}
