package graph

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/openlobby/openlobby-server/internal/apperr"
)

type loginRedirectResolver struct {
	url string
}

func (l *loginRedirectResolver) AuthorizationUrl() string { return l.url }

// Login starts an authorization-code flow against an arbitrary provider,
// registering this server as a client there when needed.
func (r *Resolver) Login(ctx context.Context, args struct {
	OpenidUid   string
	RedirectUri string
}) (*loginRedirectResolver, error) {
	if args.OpenidUid == "" {
		return nil, apperr.NewValidation("openidUid must not be empty")
	}

	url, err := r.login.Start(ctx, args.OpenidUid, args.RedirectUri)
	if err != nil {
		return nil, err
	}
	return &loginRedirectResolver{url: url}, nil
}

// LoginByShortcut starts an authorization-code flow against a configured
// shortcut provider.
func (r *Resolver) LoginByShortcut(ctx context.Context, args struct {
	ShortcutId  graphql.ID
	RedirectUri string
}) (*loginRedirectResolver, error) {
	id, err := decodeIntID(args.ShortcutId, typeLoginShortcut)
	if err != nil {
		return nil, apperr.NewValidationWrap("invalid shortcut id", err)
	}

	url, err := r.login.StartByShortcut(ctx, id, args.RedirectUri)
	if err != nil {
		return nil, err
	}
	return &loginRedirectResolver{url: url}, nil
}
