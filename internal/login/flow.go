// Package login drives the authorization-code flow: starting an attempt for
// a provider, and completing it on callback by exchanging the code and
// issuing a session token.
package login

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/openlobby/openlobby-server/internal/apperr"
	"github.com/openlobby/openlobby-server/internal/auth"
	"github.com/openlobby/openlobby-server/internal/domain"
	"github.com/openlobby/openlobby-server/internal/openid"
	"github.com/openlobby/openlobby-server/internal/storage"
)

const (
	attemptTTL = 10 * time.Minute
	sessionTTL = 30 * 24 * time.Hour
)

// Config carries the server-side constants of the flow.
type Config struct {
	// SiteName is sent as client_name during dynamic registration.
	SiteName string
	// CallbackURL is this server's redirect_uri at the providers.
	CallbackURL string
	// SessionSecret signs issued session tokens.
	SessionSecret []byte
}

// Flow coordinates providers, attempts and users for one server instance.
type Flow struct {
	cfg      Config
	clients  storage.OpenIDClientStore
	attempts storage.LoginAttemptStore
	users    storage.UserStore
}

func NewFlow(cfg Config, clients storage.OpenIDClientStore, attempts storage.LoginAttemptStore, users storage.UserStore) *Flow {
	return &Flow{
		cfg:      cfg,
		clients:  clients,
		attempts: attempts,
		users:    users,
	}
}

// StartByShortcut begins a login against a configured shortcut provider and
// returns the authorization URL to send the user to.
func (f *Flow) StartByShortcut(ctx context.Context, shortcutID int64, redirectURI string) (string, error) {
	client, err := f.clients.GetClient(ctx, shortcutID)
	if err != nil {
		return "", err
	}
	if client == nil || !client.IsShortcut {
		return "", apperr.NewValidation("unknown login shortcut")
	}

	return f.start(ctx, client, redirectURI)
}

// Start begins a login against an arbitrary provider issuer, registering a
// client there first if this server never has.
func (f *Flow) Start(ctx context.Context, issuer, redirectURI string) (string, error) {
	client, err := f.clients.GetClientByIssuer(ctx, issuer)
	if err != nil {
		return "", err
	}

	if client == nil {
		reg, err := openid.Register(ctx, issuer, f.cfg.SiteName, f.cfg.CallbackURL)
		if err != nil {
			return "", apperr.NewValidationWrap("provider registration failed", err)
		}

		client, err = f.clients.CreateClient(ctx, domain.OpenIDClient{
			Name:         issuer,
			Issuer:       issuer,
			ClientID:     reg.ClientID,
			ClientSecret: reg.ClientSecret,
		})
		if err != nil {
			return "", err
		}
		slog.Info("registered new openid client", "issuer", issuer)
	}

	return f.start(ctx, client, redirectURI)
}

func (f *Flow) start(ctx context.Context, client *domain.OpenIDClient, redirectURI string) (string, error) {
	oc, err := openid.Discover(ctx, openid.Config{
		Issuer:       client.Issuer,
		ClientID:     client.ClientID,
		ClientSecret: client.ClientSecret,
		RedirectURI:  f.cfg.CallbackURL,
	})
	if err != nil {
		return "", fmt.Errorf("failed to reach provider %s: %w", client.Issuer, err)
	}

	attempt := domain.LoginAttempt{
		State:       uuid.NewString(),
		Nonce:       uuid.NewString(),
		ClientID:    client.ID,
		RedirectURI: redirectURI,
		ExpiresAt:   time.Now().Add(attemptTTL),
	}
	if err := f.attempts.CreateAttempt(ctx, attempt); err != nil {
		return "", err
	}

	return oc.AuthorizationURL(attempt.State, attempt.Nonce), nil
}

// Complete finishes the flow on provider callback: redeems the code, upserts
// the user and issues a session token. Returns the token and the redirect URI
// the attempt was started with.
func (f *Flow) Complete(ctx context.Context, state, code string) (token, redirectURI string, err error) {
	attempt, err := f.attempts.ConsumeAttempt(ctx, state)
	if err != nil {
		return "", "", err
	}
	if attempt == nil {
		return "", "", apperr.NewValidation("unknown or expired login attempt")
	}

	client, err := f.clients.GetClient(ctx, attempt.ClientID)
	if err != nil {
		return "", "", err
	}
	if client == nil {
		return "", "", fmt.Errorf("login attempt references missing client %d", attempt.ClientID)
	}

	oc, err := openid.Discover(ctx, openid.Config{
		Issuer:       client.Issuer,
		ClientID:     client.ClientID,
		ClientSecret: client.ClientSecret,
		RedirectURI:  f.cfg.CallbackURL,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to reach provider %s: %w", client.Issuer, err)
	}

	identity, err := oc.Exchange(ctx, code, attempt.Nonce)
	if err != nil {
		return "", "", apperr.NewValidationWrap("login failed", err)
	}

	firstName, lastName := splitName(identity)
	user, err := f.users.UpsertUser(ctx, domain.User{
		OpenIDUID: identity.UID,
		FirstName: firstName,
		LastName:  lastName,
		Email:     identity.Email,
	})
	if err != nil {
		return "", "", err
	}

	token, err = auth.IssueToken(f.cfg.SessionSecret, user.ID, sessionTTL)
	if err != nil {
		return "", "", err
	}

	slog.Info("login completed", "user_id", user.ID, "issuer", client.Issuer)
	return token, attempt.RedirectURI, nil
}

func splitName(identity *openid.Identity) (first, last string) {
	if identity.GivenName != "" || identity.FamilyName != "" {
		return identity.GivenName, identity.FamilyName
	}

	parts := strings.Fields(identity.Name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
