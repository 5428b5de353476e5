package es

import (
	"encoding/json"
	"testing"

	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlobby/openlobby-server/internal/domain"
)

func activeSort(t *testing.T, combos []types.SortCombinations) (string, sortorder.SortOrder) {
	t.Helper()
	require.NotEmpty(t, combos)

	opts, ok := combos[0].(types.SortOptions)
	require.True(t, ok, "expected types.SortOptions")
	require.Len(t, opts.SortOptions, 1)

	for key, fieldSort := range opts.SortOptions {
		require.NotNil(t, fieldSort.Order)
		return key, *fieldSort.Order
	}
	return "", sortorder.SortOrder{}
}

func TestSortOptions(t *testing.T) {
	tests := []struct {
		name      string
		sort      domain.ReportSort
		reversed  bool
		hasText   bool
		wantKey   string
		wantOrder sortorder.SortOrder
	}{
		{
			name:      "date defaults to descending",
			sort:      domain.ReportSortDate,
			wantKey:   "date",
			wantOrder: sortorder.Desc,
		},
		{
			name:      "reversed flips to ascending",
			sort:      domain.ReportSortDate,
			reversed:  true,
			wantKey:   "date",
			wantOrder: sortorder.Asc,
		},
		{
			name:      "published date",
			sort:      domain.ReportSortPublished,
			wantKey:   "published",
			wantOrder: sortorder.Desc,
		},
		{
			name:      "relevance with text",
			sort:      domain.ReportSortRelevance,
			hasText:   true,
			wantKey:   "_score",
			wantOrder: sortorder.Desc,
		},
		{
			name:      "relevance without text falls back to date",
			sort:      domain.ReportSortRelevance,
			wantKey:   "date",
			wantOrder: sortorder.Desc,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			combos := sortOptions(tt.sort, tt.reversed, tt.hasText)
			key, order := activeSort(t, combos)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantOrder, order)

			// All variants carry the id tiebreaker.
			require.Len(t, combos, 2)
		})
	}
}

func TestMapHitsHighlights(t *testing.T) {
	source, err := json.Marshal(ReportDocument{
		ID:              "r-1",
		AuthorID:        7,
		Title:           "kava",
		ReceivedBenefit: "kava",
	})
	require.NoError(t, err)

	score := types.Float64(1.5)
	hits, err := mapHits([]types.Hit{
		{
			Source_: source,
			Score_:  &score,
			Highlight: map[string][]string{
				"received_benefit": {"<mark>kava</mark>"},
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, hits, 1)

	hit := hits[0]
	assert.Equal(t, "r-1", hit.Report.ID)
	assert.Equal(t, int64(7), hit.Report.AuthorID)
	assert.Equal(t, 1.5, hit.Score)

	// Fragment replaces the raw value only for the highlighted field.
	assert.Equal(t, "<mark>kava</mark>", hit.HighlightedField("received_benefit", hit.Report.ReceivedBenefit))
	assert.Equal(t, "kava", hit.HighlightedField("title", hit.Report.Title))
}

func TestMapHitsNil(t *testing.T) {
	hits, err := mapHits(nil)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
