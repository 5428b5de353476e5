package es

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"

	"github.com/openlobby/openlobby-server/internal/domain"
	"github.com/openlobby/openlobby-server/internal/storage"
)

// Searcher is the search-index read path for published reports. It implements
// storage.ReportSearcher on top of the Elasticsearch typed client.
type Searcher struct {
	client    *elasticsearch.TypedClient
	indexName string
}

func NewSearcher(config ClientConfig) (*Searcher, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	return &Searcher{
		client:    client,
		indexName: config.IndexName,
	}, nil
}

// QueryReports runs a full-text multi_match query over the report text fields
// for the window [from, from+size). Empty text matches everything.
func (r *Searcher) QueryReports(ctx context.Context, q storage.ReportQuery, from, size int) (*storage.SearchResult, error) {
	slog.Info("Executing es report search",
		"query", q.Text,
		"sort", q.Sort,
		"reversed", q.Reversed,
		"highlight", q.Highlight,
		"from", from,
		"size", size)

	query := &types.Query{}
	if q.Text == "" {
		query.MatchAll = &types.MatchAllQuery{}
	} else {
		query.MultiMatch = &types.MultiMatchQuery{
			Query:  q.Text,
			Fields: textFields,
		}
	}

	searchReq := r.client.Search().
		Index(r.indexName).
		Query(query).
		From(from).
		Size(size).
		TrackTotalHits(true).
		Sort(sortOptions(q.Sort, q.Reversed, q.Text != "")...)

	if q.Highlight {
		searchReq = searchReq.Highlight(highlightSpec())
	}

	res, err := searchReq.Do(ctx)
	if err != nil {
		slog.Error("Elasticsearch report query failed", "error", err, "query", q.Text)
		return nil, fmt.Errorf("failed to execute report search: %w", err)
	}

	hits, err := mapHits(res.Hits.Hits)
	if err != nil {
		return nil, fmt.Errorf("failed to map search results: %w", err)
	}

	slog.Info("Es report search results fetched",
		"total_matches", res.Hits.Total.Value,
		"returned_count", len(hits))

	return &storage.SearchResult{
		Hits:  hits,
		Total: res.Hits.Total.Value,
	}, nil
}

// ReportsByAuthor lists one author's published reports, newest publication
// first.
func (r *Searcher) ReportsByAuthor(ctx context.Context, authorID int64, from, size int) (*storage.SearchResult, error) {
	slog.Info("Executing es reports-by-author query",
		"author_id", authorID,
		"from", from,
		"size", size)

	searchReq := r.client.Search().
		Index(r.indexName).
		Query(&types.Query{
			Term: map[string]types.TermQuery{
				"author_id": {Value: authorID},
			},
		}).
		From(from).
		Size(size).
		TrackTotalHits(true).
		Sort(sortOptions(domain.ReportSortPublished, false, false)...)

	res, err := searchReq.Do(ctx)
	if err != nil {
		slog.Error("Elasticsearch reports-by-author query failed", "error", err, "author_id", authorID)
		return nil, fmt.Errorf("failed to execute reports-by-author search: %w", err)
	}

	hits, err := mapHits(res.Hits.Hits)
	if err != nil {
		return nil, fmt.Errorf("failed to map search results: %w", err)
	}

	return &storage.SearchResult{
		Hits:  hits,
		Total: res.Hits.Total.Value,
	}, nil
}

// GetReport fetches one report by document id. Returns nil when the index has
// no such document.
func (r *Searcher) GetReport(ctx context.Context, id string) (*domain.Report, error) {
	res, err := r.client.Get(r.indexName, id).Do(ctx)
	if err != nil {
		var esErr *types.ElasticsearchError
		if errors.As(err, &esErr) && esErr.Status == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get report %s: %w", id, err)
	}
	if !res.Found {
		return nil, nil
	}

	var doc ReportDocument
	if err := json.Unmarshal(res.Source_, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report document: %w", err)
	}

	report := doc.toDomain()
	return &report, nil
}

// sortOptions maps the requested sort key and direction to the index sort.
// Relevance falls back to date when there is no query text to score against.
// The id tiebreaker keeps pagination stable across equal keys.
func sortOptions(sort domain.ReportSort, reversed, hasText bool) []types.SortCombinations {
	key := string(sort)
	if sort == domain.ReportSortRelevance && !hasText {
		key = string(domain.ReportSortDate)
	}

	// Listings read newest (or best-matching) first; reversed walks the
	// same order from the other end, applied before slicing.
	order := sortorder.Desc
	if reversed {
		order = sortorder.Asc
	}

	idOrder := sortorder.Asc
	return []types.SortCombinations{
		types.SortOptions{
			SortOptions: map[string]types.FieldSort{
				key: {Order: &order},
			},
		},
		types.SortOptions{
			SortOptions: map[string]types.FieldSort{
				"id": {Order: &idOrder},
			},
		},
	}
}

// highlightSpec requests one <mark>-tagged fragment per text field.
func highlightSpec() *types.Highlight {
	fields := make(map[string]types.HighlightField, len(textFields))
	numberOfFragments := 1
	for _, field := range textFields {
		fields[field] = types.HighlightField{
			NumberOfFragments: &numberOfFragments,
		}
	}
	return &types.Highlight{
		Fields:   fields,
		PreTags:  []string{"<mark>"},
		PostTags: []string{"</mark>"},
	}
}

func mapHits(esHits []types.Hit) ([]storage.ReportHit, error) {
	if esHits == nil {
		return make([]storage.ReportHit, 0), nil
	}

	var hits []storage.ReportHit
	for _, hit := range esHits {
		var doc ReportDocument
		if err := json.Unmarshal(hit.Source_, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document: %w", err)
		}

		mapped := storage.ReportHit{
			Report: doc.toDomain(),
		}
		if hit.Score_ != nil {
			mapped.Score = float64(*hit.Score_)
		}
		if len(hit.Highlight) > 0 {
			mapped.Highlights = make(map[string]string, len(hit.Highlight))
			for field, fragments := range hit.Highlight {
				if len(fragments) > 0 {
					mapped.Highlights[field] = fragments[0]
				}
			}
		}

		hits = append(hits, mapped)
	}

	return hits, nil
}

var _ storage.ReportSearcher = (*Searcher)(nil)
