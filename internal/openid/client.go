// Package openid wraps the identity-provider protocol behind the four
// operations the rest of the server needs: discovery, dynamic client
// registration, authorization-URL construction and code exchange. Protocol
// mechanics live in go-oidc and oauth2; callers never see provider internals.
package openid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// Config identifies one registered client at one provider.
type Config struct {
	Issuer       string
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// Client talks to a single identity provider.
type Client struct {
	provider *oidc.Provider
	oauth    oauth2.Config
}

// Identity is what a completed login tells us about the user.
type Identity struct {
	UID        string
	Email      string
	Name       string
	GivenName  string
	FamilyName string
}

// Discover resolves the provider configuration for cfg.Issuer and returns a
// ready client.
func Discover(ctx context.Context, cfg Config) (*Client, error) {
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("provider discovery failed for %s: %w", cfg.Issuer, err)
	}

	return &Client{
		provider: provider,
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
	}, nil
}

// AuthorizationURL builds the URL the user is sent to. State keys the login
// attempt on callback; nonce binds the eventual ID token to this attempt.
func (c *Client) AuthorizationURL(state, nonce string) string {
	return c.oauth.AuthCodeURL(state, oidc.Nonce(nonce))
}

// Exchange redeems the authorization code, verifies the ID token against the
// provider keys and the expected nonce, and extracts the user identity.
func (c *Client) Exchange(ctx context.Context, code, nonce string) (*Identity, error) {
	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, fmt.Errorf("token response missing id_token")
	}

	idToken, err := c.provider.Verifier(&oidc.Config{ClientID: c.oauth.ClientID}).Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("id_token verification failed: %w", err)
	}
	if idToken.Nonce != nonce {
		return nil, fmt.Errorf("id_token nonce mismatch")
	}

	var claims struct {
		Email      string `json:"email"`
		Name       string `json:"name"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to parse id_token claims: %w", err)
	}

	return &Identity{
		UID:        idToken.Subject,
		Email:      claims.Email,
		Name:       claims.Name,
		GivenName:  claims.GivenName,
		FamilyName: claims.FamilyName,
	}, nil
}

// Registration is the outcome of dynamic client registration at a provider.
type Registration struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// Register performs dynamic client registration (RFC 7591) at the issuer's
// registration endpoint. Used for the free-form login path where no client
// has been configured ahead of time.
func Register(ctx context.Context, issuer, clientName, redirectURI string) (*Registration, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("provider discovery failed for %s: %w", issuer, err)
	}

	var meta struct {
		RegistrationEndpoint string `json:"registration_endpoint"`
	}
	if err := provider.Claims(&meta); err != nil {
		return nil, fmt.Errorf("failed to read provider metadata: %w", err)
	}
	if meta.RegistrationEndpoint == "" {
		return nil, fmt.Errorf("provider %s does not support dynamic registration", issuer)
	}

	body, err := json.Marshal(map[string]any{
		"redirect_uris": []string{redirectURI},
		"client_name":   clientName,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, meta.RegistrationEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client registration request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusCreated && res.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return nil, fmt.Errorf("client registration rejected with status %d: %s", res.StatusCode, payload)
	}

	var reg Registration
	if err := json.NewDecoder(res.Body).Decode(&reg); err != nil {
		return nil, fmt.Errorf("failed to decode registration response: %w", err)
	}
	if reg.ClientID == "" {
		return nil, fmt.Errorf("registration response missing client_id")
	}

	return &reg, nil
}
