package graph

import (
	"context"
	"strconv"
	"time"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/openlobby/openlobby-server/internal/apperr"
	"github.com/openlobby/openlobby-server/internal/domain"
	"github.com/openlobby/openlobby-server/internal/storage"
	"github.com/openlobby/openlobby-server/pkg/pagination"
)

// authorResolver projects a user in author context. totalReports is only set
// when the author came out of a listing; direct node lookups leave it nil.
type authorResolver struct {
	r            *Resolver
	user         domain.User
	totalReports *int32
}

func newAuthorResolver(r *Resolver, user domain.User) *authorResolver {
	return &authorResolver{r: r, user: user}
}

func newListedAuthorResolver(r *Resolver, author domain.Author) *authorResolver {
	total := int32(author.TotalReports)
	return &authorResolver{r: r, user: author.User, totalReports: &total}
}

func (a *authorResolver) ID() graphql.ID {
	return encodeID(typeAuthor, strconv.FormatInt(a.user.ID, 10))
}

func (a *authorResolver) FirstName() string { return a.user.FirstName }

func (a *authorResolver) LastName() string { return a.user.LastName }

func (a *authorResolver) TotalReports() *int32 { return a.totalReports }

func (a *authorResolver) Extra() *JSONObject { return extraResolver(a.user.Extra) }

// Reports pages through the author's published reports from the search index.
// Every edge shares this author node.
func (a *authorResolver) Reports(ctx context.Context, args struct {
	First *int32
	After *string
}) (*reportConnectionResolver, error) {
	paginator, err := pagination.New(args.First, args.After)
	if err != nil {
		return nil, apperr.NewValidationWrap("invalid pagination arguments", err)
	}

	result, err := a.r.search.ReportsByAuthor(ctx, a.user.ID, paginator.SliceFrom(), paginator.Limit())
	if err != nil {
		return nil, err
	}

	return buildReportConnection(paginator, result, func(storage.ReportHit) (*authorResolver, error) {
		return a, nil
	})
}

// reportResolver projects a report. The projection is fixed at construction:
// search hits may carry highlight fragments merged into the text fields,
// relational rows are verbatim.
type reportResolver struct {
	report domain.Report
	author *authorResolver
}

// newReportResolver projects a relational row or a plain index document.
func newReportResolver(report domain.Report, author *authorResolver) *reportResolver {
	return &reportResolver{report: report, author: author}
}

// newReportResolverFromHit projects a search hit, replacing each text field
// with its highlight fragment when one exists for that field.
func newReportResolverFromHit(hit storage.ReportHit, author *authorResolver) *reportResolver {
	report := hit.Report
	report.Title = hit.HighlightedField("title", report.Title)
	report.Body = hit.HighlightedField("body", report.Body)
	report.ReceivedBenefit = hit.HighlightedField("received_benefit", report.ReceivedBenefit)
	report.ProvidedBenefit = hit.HighlightedField("provided_benefit", report.ProvidedBenefit)
	report.OurParticipants = hit.HighlightedField("our_participants", report.OurParticipants)
	report.OtherParticipants = hit.HighlightedField("other_participants", report.OtherParticipants)
	return &reportResolver{report: report, author: author}
}

func (r *reportResolver) ID() graphql.ID {
	return encodeID(typeReport, r.report.ID)
}

func (r *reportResolver) Author() *authorResolver { return r.author }

func (r *reportResolver) Date() string { return r.report.Date.Format(time.RFC3339) }

func (r *reportResolver) Published() string { return r.report.Published.Format(time.RFC3339) }

func (r *reportResolver) Title() string { return r.report.Title }

func (r *reportResolver) Body() string { return r.report.Body }

func (r *reportResolver) ReceivedBenefit() string { return r.report.ReceivedBenefit }

func (r *reportResolver) ProvidedBenefit() string { return r.report.ProvidedBenefit }

func (r *reportResolver) OurParticipants() string { return r.report.OurParticipants }

func (r *reportResolver) OtherParticipants() string { return r.report.OtherParticipants }

func (r *reportResolver) Extra() *JSONObject { return extraResolver(r.report.Extra) }

type userResolver struct {
	user domain.User
}

func (u *userResolver) ID() graphql.ID {
	return encodeID(typeUser, strconv.FormatInt(u.user.ID, 10))
}

func (u *userResolver) OpenidUid() string { return u.user.OpenIDUID }

func (u *userResolver) FirstName() string { return u.user.FirstName }

func (u *userResolver) LastName() string { return u.user.LastName }

func (u *userResolver) Email() string { return u.user.Email }

func (u *userResolver) IsAuthor() bool { return u.user.IsAuthor }

func (u *userResolver) Extra() *JSONObject { return extraResolver(u.user.Extra) }

type loginShortcutResolver struct {
	client domain.OpenIDClient
}

func (s *loginShortcutResolver) ID() graphql.ID {
	return encodeID(typeLoginShortcut, strconv.FormatInt(s.client.ID, 10))
}

func (s *loginShortcutResolver) Name() string { return s.client.Name }
