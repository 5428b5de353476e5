package graph

import (
	"context"
	"fmt"

	"github.com/openlobby/openlobby-server/internal/apperr"
	"github.com/openlobby/openlobby-server/internal/domain"
	"github.com/openlobby/openlobby-server/internal/storage"
	"github.com/openlobby/openlobby-server/pkg/pagination"
)

type pageInfoResolver struct {
	info pagination.PageInfo
}

func (p *pageInfoResolver) HasNextPage() bool { return p.info.HasNextPage }

func (p *pageInfoResolver) HasPreviousPage() bool { return p.info.HasPreviousPage }

func (p *pageInfoResolver) StartCursor() *string { return p.info.StartCursor }

func (p *pageInfoResolver) EndCursor() *string { return p.info.EndCursor }

type authorEdgeResolver struct {
	node   *authorResolver
	cursor string
}

func (e *authorEdgeResolver) Node() *authorResolver { return e.node }

func (e *authorEdgeResolver) Cursor() string { return e.cursor }

type authorConnectionResolver struct {
	totalCount int32
	edges      []*authorEdgeResolver
	pageInfo   *pageInfoResolver
}

func (c *authorConnectionResolver) TotalCount() int32 { return c.totalCount }

func (c *authorConnectionResolver) Edges() []*authorEdgeResolver { return c.edges }

func (c *authorConnectionResolver) PageInfo() *pageInfoResolver { return c.pageInfo }

// buildAuthorConnection zips the listed authors with their page cursors. The
// listing order is preserved as delivered by the store.
func buildAuthorConnection(r *Resolver, paginator *pagination.Paginator, authors []domain.Author, total int64) *authorConnectionResolver {
	edges := make([]*authorEdgeResolver, 0, len(authors))
	for i, author := range authors {
		edges = append(edges, &authorEdgeResolver{
			node:   newListedAuthorResolver(r, author),
			cursor: paginator.EdgeCursor(i + 1),
		})
	}

	return &authorConnectionResolver{
		totalCount: int32(total),
		edges:      edges,
		pageInfo:   &pageInfoResolver{info: paginator.PageInfo(int(total))},
	}
}

type reportEdgeResolver struct {
	node   *reportResolver
	cursor string
}

func (e *reportEdgeResolver) Node() *reportResolver { return e.node }

func (e *reportEdgeResolver) Cursor() string { return e.cursor }

type reportConnectionResolver struct {
	totalCount int32
	edges      []*reportEdgeResolver
	pageInfo   *pageInfoResolver
}

func (c *reportConnectionResolver) TotalCount() int32 { return c.totalCount }

func (c *reportConnectionResolver) Edges() []*reportEdgeResolver { return c.edges }

func (c *reportConnectionResolver) PageInfo() *pageInfoResolver { return c.pageInfo }

// buildReportConnection zips search hits with their page cursors, resolving
// each edge's author through authorOf. Hit order is preserved as scored or
// sorted by the index.
func buildReportConnection(paginator *pagination.Paginator, result *storage.SearchResult, authorOf func(storage.ReportHit) (*authorResolver, error)) (*reportConnectionResolver, error) {
	edges := make([]*reportEdgeResolver, 0, len(result.Hits))
	for i, hit := range result.Hits {
		author, err := authorOf(hit)
		if err != nil {
			return nil, err
		}
		edges = append(edges, &reportEdgeResolver{
			node:   newReportResolverFromHit(hit, author),
			cursor: paginator.EdgeCursor(i + 1),
		})
	}

	return &reportConnectionResolver{
		totalCount: int32(result.Total),
		edges:      edges,
		pageInfo:   &pageInfoResolver{info: paginator.PageInfo(int(result.Total))},
	}, nil
}

// loadAuthorCache batch-resolves the distinct authors referenced by one page
// of search hits into a single store lookup. The returned map's lifetime is
// the connection resolution that built it; it is passed to edge construction
// explicitly and never shared across requests or calls.
func (r *Resolver) loadAuthorCache(ctx context.Context, hits []storage.ReportHit) (map[int64]*authorResolver, error) {
	if len(hits) == 0 {
		return nil, nil
	}

	seen := make(map[int64]struct{}, len(hits))
	ids := make([]int64, 0, len(hits))
	for _, hit := range hits {
		if _, ok := seen[hit.Report.AuthorID]; !ok {
			seen[hit.Report.AuthorID] = struct{}{}
			ids = append(ids, hit.Report.AuthorID)
		}
	}

	authors, err := r.users.AuthorsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	cache := make(map[int64]*authorResolver, len(authors))
	for _, author := range authors {
		cache[author.ID] = newListedAuthorResolver(r, author)
	}
	return cache, nil
}

// cachedAuthor looks an edge's author up strictly in the page cache. A report
// referencing an author the store does not know is a data integrity fault and
// fails the resolution loudly.
func cachedAuthor(cache map[int64]*authorResolver) func(storage.ReportHit) (*authorResolver, error) {
	return func(hit storage.ReportHit) (*authorResolver, error) {
		author, ok := cache[hit.Report.AuthorID]
		if !ok {
			return nil, apperr.NewConsistency(
				fmt.Sprintf("report %s references unknown author %d", hit.Report.ID, hit.Report.AuthorID))
		}
		return author, nil
	}
}
