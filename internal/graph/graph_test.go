package graph_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlobby/openlobby-server/internal/auth"
	"github.com/openlobby/openlobby-server/internal/domain"
	"github.com/openlobby/openlobby-server/internal/graph"
	"github.com/openlobby/openlobby-server/internal/storage"
	"github.com/openlobby/openlobby-server/pkg/pagination"

	graphql "github.com/graph-gophers/graphql-go"
)

type fakeUserStore struct {
	users      map[int64]domain.User
	authors    []domain.Author
	batchCalls [][]int64
	listCalls  []listCall
}

type listCall struct {
	sort     domain.AuthorSort
	reversed bool
	from, to int
}

func (s *fakeUserStore) GetUser(_ context.Context, id int64) (*domain.User, error) {
	if u, ok := s.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (s *fakeUserStore) GetUserByOpenIDUID(_ context.Context, uid string) (*domain.User, error) {
	for _, u := range s.users {
		if u.OpenIDUID == uid {
			return &u, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) UpsertUser(_ context.Context, user domain.User) (*domain.User, error) {
	s.users[user.ID] = user
	return &user, nil
}

func (s *fakeUserStore) GetAuthor(_ context.Context, id int64) (*domain.User, error) {
	if u, ok := s.users[id]; ok && u.IsAuthor {
		return &u, nil
	}
	return nil, nil
}

func (s *fakeUserStore) ListAuthors(_ context.Context, sort domain.AuthorSort, reversed bool, from, to int) ([]domain.Author, error) {
	s.listCalls = append(s.listCalls, listCall{sort: sort, reversed: reversed, from: from, to: to})
	if from > len(s.authors) {
		from = len(s.authors)
	}
	if to > len(s.authors) {
		to = len(s.authors)
	}
	return append([]domain.Author(nil), s.authors[from:to]...), nil
}

func (s *fakeUserStore) CountAuthors(_ context.Context) (int64, error) {
	return int64(len(s.authors)), nil
}

func (s *fakeUserStore) AuthorsByIDs(_ context.Context, ids []int64) ([]domain.Author, error) {
	s.batchCalls = append(s.batchCalls, ids)

	var out []domain.Author
	for _, id := range ids {
		for _, a := range s.authors {
			if a.ID == id {
				out = append(out, a)
			}
		}
	}
	return out, nil
}

type fakeSearcher struct {
	result    *storage.SearchResult
	byAuthor  *storage.SearchResult
	reports   map[string]domain.Report
	lastQuery storage.ReportQuery
	lastFrom  int
	lastSize  int
}

func (s *fakeSearcher) QueryReports(_ context.Context, q storage.ReportQuery, from, size int) (*storage.SearchResult, error) {
	s.lastQuery = q
	s.lastFrom = from
	s.lastSize = size
	return s.result, nil
}

func (s *fakeSearcher) ReportsByAuthor(_ context.Context, authorID int64, from, size int) (*storage.SearchResult, error) {
	var hits []storage.ReportHit
	for _, h := range s.byAuthor.Hits {
		if h.Report.AuthorID == authorID {
			hits = append(hits, h)
		}
	}
	return &storage.SearchResult{Hits: hits, Total: int64(len(hits))}, nil
}

func (s *fakeSearcher) GetReport(_ context.Context, id string) (*domain.Report, error) {
	if r, ok := s.reports[id]; ok {
		return &r, nil
	}
	return nil, nil
}

type fakeDraftStore struct {
	drafts []domain.Report
}

func (s *fakeDraftStore) DraftsByAuthor(_ context.Context, authorID int64) ([]domain.Report, error) {
	var out []domain.Report
	for _, d := range s.drafts {
		if d.AuthorID == authorID {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeClientStore struct {
	clients []domain.OpenIDClient
}

func (s *fakeClientStore) ListShortcuts(_ context.Context) ([]domain.OpenIDClient, error) {
	var out []domain.OpenIDClient
	for _, c := range s.clients {
		if c.IsShortcut {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeClientStore) GetClient(_ context.Context, id int64) (*domain.OpenIDClient, error) {
	for _, c := range s.clients {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, nil
}

func (s *fakeClientStore) GetClientByIssuer(_ context.Context, issuer string) (*domain.OpenIDClient, error) {
	for _, c := range s.clients {
		if c.Issuer == issuer {
			return &c, nil
		}
	}
	return nil, nil
}

func (s *fakeClientStore) CreateClient(_ context.Context, client domain.OpenIDClient) (*domain.OpenIDClient, error) {
	client.ID = int64(len(s.clients) + 1)
	s.clients = append(s.clients, client)
	return &client, nil
}

func globalID(typ, key string) string {
	return base64.URLEncoding.EncodeToString([]byte(typ + ":" + key))
}

func authorOf(id int64, first, last string, totalReports int64) domain.Author {
	return domain.Author{
		User: domain.User{
			ID:        id,
			FirstName: first,
			LastName:  last,
			IsAuthor:  true,
		},
		TotalReports: totalReports,
	}
}

func reportOf(id string, authorID int64, title string) domain.Report {
	date := time.Date(2018, 3, 1, 0, 0, 0, 0, time.UTC)
	return domain.Report{
		ID:                id,
		AuthorID:          authorID,
		Date:              date,
		Published:         date.Add(24 * time.Hour),
		Title:             title,
		Body:              "body of " + title,
		ReceivedBenefit:   "lunch",
		ProvidedBenefit:   "gift",
		OurParticipants:   "Wolf",
		OtherParticipants: "Sheep",
	}
}

type fixture struct {
	users    *fakeUserStore
	drafts   *fakeDraftStore
	clients  *fakeClientStore
	searcher *fakeSearcher
	schema   *graphql.Schema
}

func newFixture() *fixture {
	users := &fakeUserStore{
		users: map[int64]domain.User{},
	}
	drafts := &fakeDraftStore{}
	clients := &fakeClientStore{}
	searcher := &fakeSearcher{
		reports:  map[string]domain.Report{},
		byAuthor: &storage.SearchResult{},
	}

	resolver := graph.NewResolver(users, drafts, clients, searcher, nil)

	return &fixture{
		users:    users,
		drafts:   drafts,
		clients:  clients,
		searcher: searcher,
		schema:   graph.NewSchema(resolver),
	}
}

func (f *fixture) exec(t *testing.T, ctx context.Context, query string) map[string]any {
	t.Helper()

	resp := f.schema.Exec(ctx, query, "", nil)
	require.Empty(t, resp.Errors)

	var data map[string]any
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	return data
}

func TestSearchReports(t *testing.T) {
	f := newFixture()
	f.users.authors = []domain.Author{
		authorOf(1, "Ada", "Lovelace", 4),
		authorOf(2, "Alan", "Turing", 1),
	}
	f.searcher.result = &storage.SearchResult{
		Hits: []storage.ReportHit{
			{Report: reportOf("r1", 1, "kava with the minister")},
			{Report: reportOf("r2", 2, "kava again")},
			{Report: reportOf("r3", 1, "more kava")},
		},
		Total: 5,
	}

	data := f.exec(t, context.Background(), `{
		searchReports(query: "kava", first: 3) {
			totalCount
			edges {
				node { id title author { id firstName totalReports } }
				cursor
			}
			pageInfo { hasNextPage hasPreviousPage endCursor }
		}
	}`)

	conn := data["searchReports"].(map[string]any)
	assert.EqualValues(t, 5, conn["totalCount"])

	edges := conn["edges"].([]any)
	require.Len(t, edges, 3)

	first := edges[0].(map[string]any)
	node := first["node"].(map[string]any)
	assert.Equal(t, globalID("Report", "r1"), node["id"])
	assert.Equal(t, "kava with the minister", node["title"])
	assert.Equal(t, pagination.EncodeCursor(1), first["cursor"])

	author := node["author"].(map[string]any)
	assert.Equal(t, globalID("Author", "1"), author["id"])
	assert.Equal(t, "Ada", author["firstName"])
	assert.EqualValues(t, 4, author["totalReports"])

	info := conn["pageInfo"].(map[string]any)
	assert.Equal(t, true, info["hasNextPage"])
	assert.Equal(t, false, info["hasPreviousPage"])
	assert.Equal(t, pagination.EncodeCursor(3), info["endCursor"])

	assert.Equal(t, "kava", f.searcher.lastQuery.Text)
	assert.Equal(t, 0, f.searcher.lastFrom)
	assert.Equal(t, 3, f.searcher.lastSize)

	// Three hits from two authors hydrate through one batch lookup.
	require.Len(t, f.users.batchCalls, 1)
	assert.ElementsMatch(t, []int64{1, 2}, f.users.batchCalls[0])
}

func TestSearchReportsHighlight(t *testing.T) {
	f := newFixture()
	f.users.authors = []domain.Author{authorOf(1, "Ada", "Lovelace", 4)}

	hit := storage.ReportHit{
		Report: reportOf("r1", 1, "kava with the minister"),
		Highlights: map[string]string{
			"title": "<mark>kava</mark> with the minister",
		},
	}
	f.searcher.result = &storage.SearchResult{Hits: []storage.ReportHit{hit}, Total: 1}

	data := f.exec(t, context.Background(), `{
		searchReports(query: "kava", highlight: true) {
			edges { node { title body } }
		}
	}`)

	assert.True(t, f.searcher.lastQuery.Highlight)

	conn := data["searchReports"].(map[string]any)
	node := conn["edges"].([]any)[0].(map[string]any)["node"].(map[string]any)

	assert.Equal(t, "<mark>kava</mark> with the minister", node["title"])
	assert.Equal(t, "body of kava with the minister", node["body"])
}

func TestSearchReportsUnknownAuthor(t *testing.T) {
	f := newFixture()
	f.searcher.result = &storage.SearchResult{
		Hits:  []storage.ReportHit{{Report: reportOf("r1", 99, "orphaned")}},
		Total: 1,
	}

	resp := f.schema.Exec(context.Background(), `{ searchReports { totalCount } }`, "", nil)
	require.NotEmpty(t, resp.Errors)
	assert.Contains(t, resp.Errors[0].Error(), "unknown author 99")
}

func TestSearchReportsBadCursor(t *testing.T) {
	f := newFixture()

	resp := f.schema.Exec(context.Background(), `{ searchReports(after: "not a cursor") { totalCount } }`, "", nil)
	require.NotEmpty(t, resp.Errors)
}

func TestAuthors(t *testing.T) {
	f := newFixture()
	f.users.authors = []domain.Author{
		authorOf(1, "Ada", "Lovelace", 4),
		authorOf(2, "Alan", "Turing", 1),
		authorOf(3, "Grace", "Hopper", 0),
	}

	data := f.exec(t, context.Background(), `{
		authors {
			totalCount
			edges {
				node { id firstName lastName totalReports }
				cursor
			}
			pageInfo { hasNextPage hasPreviousPage startCursor endCursor }
		}
	}`)

	conn := data["authors"].(map[string]any)
	assert.EqualValues(t, 3, conn["totalCount"])

	edges := conn["edges"].([]any)
	require.Len(t, edges, 3)
	for i, raw := range edges {
		edge := raw.(map[string]any)
		assert.Equal(t, pagination.EncodeCursor(i+1), edge["cursor"])
	}

	last := edges[2].(map[string]any)["node"].(map[string]any)
	assert.Equal(t, globalID("Author", "3"), last["id"])
	assert.Equal(t, "Grace", last["firstName"])
	assert.EqualValues(t, 0, last["totalReports"])

	info := conn["pageInfo"].(map[string]any)
	assert.Equal(t, false, info["hasNextPage"])
	assert.Equal(t, false, info["hasPreviousPage"])
	assert.Equal(t, pagination.EncodeCursor(1), info["startCursor"])
	assert.Equal(t, pagination.EncodeCursor(3), info["endCursor"])

	require.Len(t, f.users.listCalls, 1)
	call := f.users.listCalls[0]
	assert.Equal(t, domain.AuthorSortLastName, call.sort)
	assert.False(t, call.reversed)
	assert.Equal(t, 0, call.from)
	assert.Equal(t, pagination.PageDefaultSize, call.to)
}

func TestAuthorsSecondPage(t *testing.T) {
	f := newFixture()
	f.users.authors = []domain.Author{
		authorOf(1, "Ada", "Lovelace", 4),
		authorOf(2, "Alan", "Turing", 1),
		authorOf(3, "Grace", "Hopper", 0),
	}

	data := f.exec(t, context.Background(), `{
		authors(first: 2, after: "`+pagination.EncodeCursor(2)+`", sort: TOTAL_REPORTS, reversed: true) {
			totalCount
			edges { node { firstName } }
			pageInfo { hasNextPage hasPreviousPage }
		}
	}`)

	conn := data["authors"].(map[string]any)
	assert.EqualValues(t, 3, conn["totalCount"])
	require.Len(t, conn["edges"].([]any), 1)

	info := conn["pageInfo"].(map[string]any)
	assert.Equal(t, false, info["hasNextPage"])
	assert.Equal(t, true, info["hasPreviousPage"])

	require.Len(t, f.users.listCalls, 1)
	call := f.users.listCalls[0]
	assert.Equal(t, domain.AuthorSortTotalReports, call.sort)
	assert.True(t, call.reversed)
	assert.Equal(t, 2, call.from)
	assert.Equal(t, 4, call.to)
}

func TestViewer(t *testing.T) {
	f := newFixture()
	f.users.users[7] = domain.User{
		ID:        7,
		OpenIDUID: "https://openid.example.com/wolf",
		FirstName: "Winter",
		LastName:  "Wolf",
		Email:     "wolf@example.com",
	}

	t.Run("anonymous", func(t *testing.T) {
		data := f.exec(t, context.Background(), `{ viewer { id } }`)
		assert.Nil(t, data["viewer"])
	})

	t.Run("authenticated", func(t *testing.T) {
		ctx := auth.WithViewer(context.Background(), &auth.Viewer{UserID: 7})

		data := f.exec(t, ctx, `{ viewer { id openidUid firstName lastName email isAuthor } }`)

		viewer := data["viewer"].(map[string]any)
		assert.Equal(t, globalID("User", "7"), viewer["id"])
		assert.Equal(t, "https://openid.example.com/wolf", viewer["openidUid"])
		assert.Equal(t, "Winter", viewer["firstName"])
		assert.Equal(t, false, viewer["isAuthor"])
	})
}

func TestNode(t *testing.T) {
	f := newFixture()
	f.users.users[1] = authorOf(1, "Ada", "Lovelace", 4).User
	f.users.users[7] = domain.User{ID: 7, FirstName: "Winter", LastName: "Wolf"}
	f.searcher.reports["r1"] = reportOf("r1", 1, "kava with the minister")

	t.Run("report", func(t *testing.T) {
		data := f.exec(t, context.Background(), `{
			node(id: "`+globalID("Report", "r1")+`") {
				id
				... on Report { title author { firstName } }
			}
		}`)

		node := data["node"].(map[string]any)
		assert.Equal(t, "kava with the minister", node["title"])
		assert.Equal(t, "Ada", node["author"].(map[string]any)["firstName"])
	})

	t.Run("author", func(t *testing.T) {
		data := f.exec(t, context.Background(), `{
			node(id: "`+globalID("Author", "1")+`") {
				... on Author { lastName totalReports }
			}
		}`)

		node := data["node"].(map[string]any)
		assert.Equal(t, "Lovelace", node["lastName"])
		// Outside listing context the report count is not loaded.
		assert.Nil(t, node["totalReports"])
	})

	t.Run("missing report", func(t *testing.T) {
		data := f.exec(t, context.Background(), `{ node(id: "`+globalID("Report", "nope")+`") { id } }`)
		assert.Nil(t, data["node"])
	})

	t.Run("malformed id", func(t *testing.T) {
		data := f.exec(t, context.Background(), `{ node(id: "!!not base64!!") { id } }`)
		assert.Nil(t, data["node"])
	})

	t.Run("own user", func(t *testing.T) {
		ctx := auth.WithViewer(context.Background(), &auth.Viewer{UserID: 7})
		data := f.exec(t, ctx, `{
			node(id: "`+globalID("User", "7")+`") { ... on User { firstName } }
		}`)
		assert.Equal(t, "Winter", data["node"].(map[string]any)["firstName"])
	})

	t.Run("foreign user is null", func(t *testing.T) {
		ctx := auth.WithViewer(context.Background(), &auth.Viewer{UserID: 7})
		data := f.exec(t, ctx, `{ node(id: "`+globalID("User", "1")+`") { id } }`)
		assert.Nil(t, data["node"])
	})
}

func TestAuthorReports(t *testing.T) {
	f := newFixture()
	f.users.users[1] = authorOf(1, "Ada", "Lovelace", 2).User
	f.searcher.byAuthor = &storage.SearchResult{
		Hits: []storage.ReportHit{
			{Report: reportOf("r1", 1, "first visit")},
			{Report: reportOf("r2", 1, "second visit")},
		},
	}

	data := f.exec(t, context.Background(), `{
		node(id: "`+globalID("Author", "1")+`") {
			... on Author {
				firstName
				reports {
					totalCount
					edges { node { title author { firstName } } }
				}
			}
		}
	}`)

	node := data["node"].(map[string]any)
	conn := node["reports"].(map[string]any)
	assert.EqualValues(t, 2, conn["totalCount"])

	edges := conn["edges"].([]any)
	require.Len(t, edges, 2)
	first := edges[0].(map[string]any)["node"].(map[string]any)
	assert.Equal(t, "first visit", first["title"])
	assert.Equal(t, "Ada", first["author"].(map[string]any)["firstName"])

	// Edge authors come from the parent node, never the batch lookup.
	assert.Empty(t, f.users.batchCalls)
}

func TestLoginShortcuts(t *testing.T) {
	f := newFixture()
	f.clients.clients = []domain.OpenIDClient{
		{ID: 1, Name: "mojeID", Issuer: "https://mojeid.cz", IsShortcut: true},
		{ID: 2, Name: "registered on the fly", Issuer: "https://other.example.com"},
	}

	data := f.exec(t, context.Background(), `{ loginShortcuts { id name } }`)

	shortcuts := data["loginShortcuts"].([]any)
	require.Len(t, shortcuts, 1)

	shortcut := shortcuts[0].(map[string]any)
	assert.Equal(t, globalID("LoginShortcut", "1"), shortcut["id"])
	assert.Equal(t, "mojeID", shortcut["name"])
}

func TestLoginValidation(t *testing.T) {
	f := newFixture()

	t.Run("empty openid uid", func(t *testing.T) {
		resp := f.schema.Exec(context.Background(), `mutation {
			login(openidUid: "", redirectUri: "https://app.example.com") { authorizationUrl }
		}`, "", nil)
		require.NotEmpty(t, resp.Errors)
		assert.Contains(t, resp.Errors[0].Error(), "openidUid")
	})

	t.Run("malformed shortcut id", func(t *testing.T) {
		resp := f.schema.Exec(context.Background(), `mutation {
			loginByShortcut(shortcutId: "!!junk!!", redirectUri: "https://app.example.com") { authorizationUrl }
		}`, "", nil)
		require.NotEmpty(t, resp.Errors)
	})

	t.Run("wrong node type as shortcut id", func(t *testing.T) {
		resp := f.schema.Exec(context.Background(), `mutation {
			loginByShortcut(shortcutId: "`+globalID("Author", "1")+`", redirectUri: "https://app.example.com") { authorizationUrl }
		}`, "", nil)
		require.NotEmpty(t, resp.Errors)
	})
}

func TestReportDrafts(t *testing.T) {
	f := newFixture()
	f.users.users[1] = authorOf(1, "Ada", "Lovelace", 4).User

	draft := reportOf("d1", 1, "unfinished")
	draft.IsDraft = true
	f.drafts.drafts = []domain.Report{draft}

	t.Run("anonymous", func(t *testing.T) {
		data := f.exec(t, context.Background(), `{ reportDrafts { id } }`)
		assert.Empty(t, data["reportDrafts"])
	})

	t.Run("viewer", func(t *testing.T) {
		ctx := auth.WithViewer(context.Background(), &auth.Viewer{UserID: 1})

		data := f.exec(t, ctx, `{ reportDrafts { id title author { firstName } } }`)

		drafts := data["reportDrafts"].([]any)
		require.Len(t, drafts, 1)

		got := drafts[0].(map[string]any)
		assert.Equal(t, globalID("Report", "d1"), got["id"])
		assert.Equal(t, "unfinished", got["title"])
		assert.Equal(t, "Ada", got["author"].(map[string]any)["firstName"])
	})
}
