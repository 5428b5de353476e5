package main

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/openlobby/openlobby-server/internal/storage/es"
	"github.com/openlobby/openlobby-server/internal/storage/pg"
	"github.com/openlobby/openlobby-server/pkg/config/env"
	"github.com/openlobby/openlobby-server/pkg/stringsutil"
)

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type IndexerConfig struct {
	DatabaseURL string
	Addresses   []string
	Index       string
	Username    string
	Password    string
}

func (as *AppConfig) Load() (*IndexerConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/indexer/.env")
	if err != nil {
		slog.Info("Failed to .env load environment variables, continuing with existing environment variables", "error", err)
	}

	cfg := &IndexerConfig{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Index:       os.Getenv("ES_INDEX"),
		Username:    os.Getenv("ES_USERNAME"),
		Password:    os.Getenv("ES_PASSWORD"),
	}
	if cfg.Index == "" {
		cfg.Index = "reports"
	}

	if v := os.Getenv("ES_URL"); v != "" {
		addrs := strings.Split(v, ",")
		for i, a := range addrs {
			addrs[i] = strings.TrimSpace(a)
		}
		cfg.Addresses = stringsutil.RemoveEmptyStrings(addrs)
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if len(cfg.Addresses) == 0 {
		return nil, errors.New("ES_URL is required")
	}

	return cfg, nil
}

func (c *IndexerConfig) PoolConfig() pg.PoolConfig {
	return pg.PoolConfig{ConnStr: c.DatabaseURL}
}

func (c *IndexerConfig) ESConfig() es.ClientConfig {
	return es.ClientConfig{
		Addresses: c.Addresses,
		IndexName: c.Index,
		Username:  c.Username,
		Password:  c.Password,
	}
}
