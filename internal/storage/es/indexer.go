package es

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/openlobby/openlobby-server/internal/domain"
)

// Indexer writes published reports into the search index. It is used by the
// publishing path and by integration tests to seed documents.
type Indexer struct {
	client    *elasticsearch.TypedClient
	indexName string
}

func NewIndexer(ctx context.Context, config ClientConfig) (*Indexer, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	idx := &Indexer{
		client:    client,
		indexName: config.IndexName,
	}

	if err := idx.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return idx, nil
}

// Save indexes one published report. Drafts are rejected; they live only in
// the relational store.
func (e *Indexer) Save(ctx context.Context, report domain.Report) error {
	if report.IsDraft {
		return fmt.Errorf("refusing to index draft report %s", report.ID)
	}

	doc := mapToDocument(report)

	res, err := e.client.Index(e.indexName).Id(doc.ID).Document(doc).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to index report: %w", err)
	}

	slog.Info("report indexed", "id", doc.ID, "index", e.indexName, "result", res.Result)
	return nil
}

// Refresh makes indexed documents visible to search immediately. Called after
// bulk synchronization instead of per document.
func (e *Indexer) Refresh(ctx context.Context) error {
	_, err := e.client.Indices.Refresh().Index(e.indexName).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh index: %w", err)
	}
	return nil
}

func (e *Indexer) EnsureIndex(ctx context.Context) error {
	exists, err := e.client.Indices.Exists(e.indexName).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}
	if exists {
		return nil
	}

	mappings := buildMapping()

	createRes, err := e.client.Indices.Create(e.indexName).
		Mappings(&mappings).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	if !createRes.Acknowledged {
		return fmt.Errorf("index creation was not acknowledged")
	}

	slog.Info("Index created", "index", e.indexName)
	return nil
}
