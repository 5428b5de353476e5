package graph

import (
	"context"
	"strconv"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/openlobby/openlobby-server/internal/apperr"
	"github.com/openlobby/openlobby-server/internal/auth"
	"github.com/openlobby/openlobby-server/internal/domain"
	"github.com/openlobby/openlobby-server/internal/storage"
	"github.com/openlobby/openlobby-server/pkg/pagination"
)

func authorSortFromEnum(value string) domain.AuthorSort {
	if value == "TOTAL_REPORTS" {
		return domain.AuthorSortTotalReports
	}
	return domain.AuthorSortLastName
}

func reportSortFromEnum(value string) domain.ReportSort {
	switch value {
	case "PUBLISHED":
		return domain.ReportSortPublished
	case "RELEVANCE":
		return domain.ReportSortRelevance
	default:
		return domain.ReportSortDate
	}
}

// Node resolves one entity by its opaque global id. Anything that cannot be
// resolved, including malformed ids, is null rather than an error.
func (r *Resolver) Node(ctx context.Context, args struct{ ID graphql.ID }) (*nodeResolver, error) {
	typ, key, err := decodeID(args.ID)
	if err != nil {
		return nil, nil
	}

	switch typ {
	case typeAuthor:
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, nil
		}
		user, err := r.users.GetAuthor(ctx, id)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, nil
		}
		return &nodeResolver{node: newAuthorResolver(r, *user)}, nil

	case typeReport:
		report, err := r.search.GetReport(ctx, key)
		if err != nil {
			return nil, err
		}
		if report == nil {
			return nil, nil
		}

		// Direct lookups hydrate the author individually; the batch
		// cache only exists inside listing resolution.
		var author *authorResolver
		if user, err := r.users.GetAuthor(ctx, report.AuthorID); err != nil {
			return nil, err
		} else if user != nil {
			author = newAuthorResolver(r, *user)
		}
		return &nodeResolver{node: newReportResolver(*report, author)}, nil

	case typeUser:
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, nil
		}
		// A user node is only visible to itself. Foreign ids resolve to
		// null whether they exist or not.
		viewer := auth.FromContext(ctx)
		if viewer == nil || viewer.UserID != id {
			return nil, nil
		}
		user, err := r.users.GetUser(ctx, id)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, nil
		}
		return &nodeResolver{node: &userResolver{user: *user}}, nil

	case typeLoginShortcut:
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, nil
		}
		client, err := r.clients.GetClient(ctx, id)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, nil
		}
		return &nodeResolver{node: &loginShortcutResolver{client: *client}}, nil
	}

	return nil, nil
}

// Authors lists authors from the relational store.
func (r *Resolver) Authors(ctx context.Context, args struct {
	First    *int32
	After    *string
	Sort     string
	Reversed bool
}) (*authorConnectionResolver, error) {
	paginator, err := pagination.New(args.First, args.After)
	if err != nil {
		return nil, apperr.NewValidationWrap("invalid pagination arguments", err)
	}

	total, err := r.users.CountAuthors(ctx)
	if err != nil {
		return nil, err
	}

	authors, err := r.users.ListAuthors(ctx, authorSortFromEnum(args.Sort), args.Reversed,
		paginator.SliceFrom(), paginator.SliceTo())
	if err != nil {
		return nil, err
	}

	return buildAuthorConnection(r, paginator, authors, total), nil
}

// SearchReports runs a full-text query over published reports. Edge authors
// are hydrated from one batch lookup scoped to this call.
func (r *Resolver) SearchReports(ctx context.Context, args struct {
	Query     string
	First     *int32
	After     *string
	Highlight bool
	Sort      string
	Reversed  bool
}) (*reportConnectionResolver, error) {
	paginator, err := pagination.New(args.First, args.After)
	if err != nil {
		return nil, apperr.NewValidationWrap("invalid pagination arguments", err)
	}

	result, err := r.search.QueryReports(ctx, storage.ReportQuery{
		Text:      args.Query,
		Sort:      reportSortFromEnum(args.Sort),
		Reversed:  args.Reversed,
		Highlight: args.Highlight,
	}, paginator.SliceFrom(), paginator.Limit())
	if err != nil {
		return nil, err
	}

	cache, err := r.loadAuthorCache(ctx, result.Hits)
	if err != nil {
		return nil, err
	}

	return buildReportConnection(paginator, result, cachedAuthor(cache))
}

// Viewer returns the authenticated user, or null for anonymous requests.
func (r *Resolver) Viewer(ctx context.Context) (*userResolver, error) {
	viewer := auth.FromContext(ctx)
	if viewer == nil {
		return nil, nil
	}

	user, err := r.users.GetUser(ctx, viewer.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return &userResolver{user: *user}, nil
}

// LoginShortcuts lists the configured shortcut providers.
func (r *Resolver) LoginShortcuts(ctx context.Context) ([]*loginShortcutResolver, error) {
	clients, err := r.clients.ListShortcuts(ctx)
	if err != nil {
		return nil, err
	}

	shortcuts := make([]*loginShortcutResolver, 0, len(clients))
	for _, client := range clients {
		shortcuts = append(shortcuts, &loginShortcutResolver{client: client})
	}
	return shortcuts, nil
}

// ReportDrafts lists the viewer's unpublished reports from the relational
// store. Anonymous requests get an empty list.
func (r *Resolver) ReportDrafts(ctx context.Context) ([]*reportResolver, error) {
	viewer := auth.FromContext(ctx)
	if viewer == nil {
		return []*reportResolver{}, nil
	}

	user, err := r.users.GetUser(ctx, viewer.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return []*reportResolver{}, nil
	}

	drafts, err := r.drafts.DraftsByAuthor(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	author := newAuthorResolver(r, *user)
	resolvers := make([]*reportResolver, 0, len(drafts))
	for _, draft := range drafts {
		resolvers = append(resolvers, newReportResolver(draft, author))
	}
	return resolvers, nil
}
