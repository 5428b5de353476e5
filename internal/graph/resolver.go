// Package graph implements the GraphQL API: thin resolvers projecting rows
// from the relational store and hits from the search index into API nodes,
// plus the cursor pagination that ties the two together.
package graph

import (
	graphql "github.com/graph-gophers/graphql-go"

	"github.com/openlobby/openlobby-server/internal/login"
	"github.com/openlobby/openlobby-server/internal/storage"
)

// Resolver is the root resolver. All state is injected; resolvers themselves
// are stateless across requests.
type Resolver struct {
	users   storage.UserStore
	drafts  storage.DraftStore
	clients storage.OpenIDClientStore
	search  storage.ReportSearcher
	login   *login.Flow
}

func NewResolver(
	users storage.UserStore,
	drafts storage.DraftStore,
	clients storage.OpenIDClientStore,
	search storage.ReportSearcher,
	flow *login.Flow,
) *Resolver {
	return &Resolver{
		users:   users,
		drafts:  drafts,
		clients: clients,
		search:  search,
		login:   flow,
	}
}

// NewSchema parses the SDL against the resolver. Panics on mismatch, which
// surfaces schema/resolver drift at startup rather than per request.
func NewSchema(resolver *Resolver) *graphql.Schema {
	return graphql.MustParseSchema(Schema, resolver, graphql.UseStringDescriptions())
}
