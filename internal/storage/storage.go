// Package storage defines the narrow interfaces the GraphQL layer consumes
// from its two authoritative backends: the relational store (users, drafts,
// provider shortcuts, login attempts) and the full-text search index
// (published reports).
package storage

import (
	"context"

	"github.com/openlobby/openlobby-server/internal/domain"
)

// ReportQuery describes one full-text query against the report index.
type ReportQuery struct {
	// Text is the free-text query. Empty text matches everything.
	Text string
	// Sort selects the active sort key. Relevance is only meaningful with
	// non-empty Text.
	Sort domain.ReportSort
	// Reversed flips the direction of the active sort key before slicing.
	Reversed bool
	// Highlight requests per-field match fragments on each hit.
	Highlight bool
}

// ReportHit is one search hit: the report plus optional highlight fragments
// keyed by field name and the relevance score.
type ReportHit struct {
	Report     domain.Report
	Highlights map[string]string
	Score      float64
}

// HighlightedField returns the highlight fragment for field when one exists,
// otherwise the raw value. The merge is independent per field of a hit.
func (h ReportHit) HighlightedField(field, raw string) string {
	if frag, ok := h.Highlights[field]; ok {
		return frag
	}
	return raw
}

// SearchResult is a page of hits plus the full match count ignoring the
// requested window.
type SearchResult struct {
	Hits  []ReportHit
	Total int64
}

// ReportSearcher is the search-index read path for published reports.
type ReportSearcher interface {
	// QueryReports runs a full-text query over the window [from, from+size).
	QueryReports(ctx context.Context, q ReportQuery, from, size int) (*SearchResult, error)
	// ReportsByAuthor lists one author's published reports, newest first.
	ReportsByAuthor(ctx context.Context, authorID int64, from, size int) (*SearchResult, error)
	// GetReport fetches a single report by id. Returns nil when the index
	// has no such document.
	GetReport(ctx context.Context, id string) (*domain.Report, error)
}

// UserStore is the relational read path for users and authors.
type UserStore interface {
	// GetUser fetches any user by id; nil when absent.
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	// GetUserByOpenIDUID fetches a user by their OpenID uid; nil when absent.
	GetUserByOpenIDUID(ctx context.Context, uid string) (*domain.User, error)
	// UpsertUser creates or refreshes a user row keyed by OpenID uid and
	// returns the stored row.
	UpsertUser(ctx context.Context, user domain.User) (*domain.User, error)
	// GetAuthor fetches a user with the author flag set; nil when the user
	// is absent or not an author.
	GetAuthor(ctx context.Context, id int64) (*domain.User, error)
	// ListAuthors returns the window [from, to) of authors under the given
	// order. Reversed flips the sort direction before slicing.
	ListAuthors(ctx context.Context, sort domain.AuthorSort, reversed bool, from, to int) ([]domain.Author, error)
	// CountAuthors returns the total number of authors.
	CountAuthors(ctx context.Context) (int64, error)
	// AuthorsByIDs batch-fetches authors with their non-draft report counts.
	// Ids absent from the store are simply missing from the result.
	AuthorsByIDs(ctx context.Context, ids []int64) ([]domain.Author, error)
}

// DraftStore is the relational read path for unpublished reports.
type DraftStore interface {
	// DraftsByAuthor lists an author's draft reports, newest first.
	DraftsByAuthor(ctx context.Context, authorID int64) ([]domain.Report, error)
}

// OpenIDClientStore holds the identity-provider clients: the configured
// shortcut providers plus clients registered dynamically during free-form
// logins.
type OpenIDClientStore interface {
	// ListShortcuts returns shortcut providers ordered by name.
	ListShortcuts(ctx context.Context) ([]domain.OpenIDClient, error)
	// GetClient fetches one provider client by id; nil when absent.
	GetClient(ctx context.Context, id int64) (*domain.OpenIDClient, error)
	// GetClientByIssuer fetches the client registered at issuer; nil when
	// absent.
	GetClientByIssuer(ctx context.Context, issuer string) (*domain.OpenIDClient, error)
	// CreateClient stores a newly registered client and returns the row.
	CreateClient(ctx context.Context, client domain.OpenIDClient) (*domain.OpenIDClient, error)
}

// LoginAttemptStore persists in-flight authorization-code flows.
type LoginAttemptStore interface {
	CreateAttempt(ctx context.Context, attempt domain.LoginAttempt) error
	// ConsumeAttempt fetches and deletes the attempt for state. Returns nil
	// when the state is unknown or the attempt expired.
	ConsumeAttempt(ctx context.Context, state string) (*domain.LoginAttempt, error)
}
