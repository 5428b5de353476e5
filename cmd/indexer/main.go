// Command indexer synchronizes published reports from the relational store
// into the search index. It is idempotent; reports are indexed under their
// stable ids, so reruns overwrite in place.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/openlobby/openlobby-server/internal/storage/es"
	"github.com/openlobby/openlobby-server/internal/storage/pg"
)

const pageSize = 500

func main() {
	appSettings := NewAppConfig()

	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pg.NewConnectionPool(ctx, cfg.PoolConfig())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	indexer, err := es.NewIndexer(ctx, cfg.ESConfig())
	if err != nil {
		slog.Error("failed to create indexer", "error", err)
		os.Exit(1)
	}

	reports := pg.NewReportStore(pool)

	indexed := 0
	for from := 0; ; from += pageSize {
		page, err := reports.PublishedReports(ctx, from, pageSize)
		if err != nil {
			slog.Error("failed to read published reports", "error", err, "from", from)
			os.Exit(1)
		}
		if len(page) == 0 {
			break
		}

		for _, report := range page {
			if err := indexer.Save(ctx, report); err != nil {
				slog.Error("failed to index report", "error", err, "id", report.ID)
				os.Exit(1)
			}
			indexed++
		}
	}

	if err := indexer.Refresh(ctx); err != nil {
		slog.Error("failed to refresh index", "error", err)
		os.Exit(1)
	}

	slog.Info("index synchronization finished", "indexed", indexed)
}
