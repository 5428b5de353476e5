package domain

import "time"

// OpenIDClient is a registered identity provider. Providers flagged as
// shortcuts show up in the login UI without the user typing an OpenID uid.
type OpenIDClient struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Issuer       string    `json:"issuer"`
	ClientID     string    `json:"clientId"`
	ClientSecret string    `json:"-"`
	IsShortcut   bool      `json:"isShortcut"`
	CreatedAt    time.Time `json:"createdAt"`
}

// LoginAttempt tracks one in-flight authorization-code flow. The state value
// round-trips through the provider and keys the attempt on callback; attempts
// are single use and expire.
type LoginAttempt struct {
	State       string    `json:"state"`
	Nonce       string    `json:"nonce"`
	ClientID    int64     `json:"clientId"`
	RedirectURI string    `json:"redirectUri"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
