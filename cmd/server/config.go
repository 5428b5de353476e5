package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

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

// ServerConfig is the full application configuration. Values come from an
// optional YAML file named by CONFIG_PATH, with environment variables taking
// precedence over the file.
type ServerConfig struct {
	SiteName      string `yaml:"site_name"`
	CallbackURL   string `yaml:"callback_url"`
	SessionSecret string `yaml:"session_secret"`

	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`

	Elasticsearch struct {
		Addresses []string `yaml:"addresses"`
		Index     string   `yaml:"index"`
		Username  string   `yaml:"username"`
		Password  string   `yaml:"password"`
	} `yaml:"elasticsearch"`
}

func (as *AppConfig) Load() (*ServerConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/server/.env")
	if err != nil {
		slog.Info("Failed to .env load environment variables, continuing with existing environment variables", "error", err)
	}

	cfg := &ServerConfig{}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *ServerConfig) applyEnv() {
	if v := os.Getenv("SITE_NAME"); v != "" {
		c.SiteName = v
	}
	if v := os.Getenv("CALLBACK_URL"); v != "" {
		c.CallbackURL = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		c.SessionSecret = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("ES_URL"); v != "" {
		addrs := strings.Split(v, ",")
		for i, a := range addrs {
			addrs[i] = strings.TrimSpace(a)
		}
		c.Elasticsearch.Addresses = stringsutil.RemoveEmptyStrings(addrs)
	}
	if v := os.Getenv("ES_INDEX"); v != "" {
		c.Elasticsearch.Index = v
	}
	if v := os.Getenv("ES_USERNAME"); v != "" {
		c.Elasticsearch.Username = v
	}
	if v := os.Getenv("ES_PASSWORD"); v != "" {
		c.Elasticsearch.Password = v
	}

	if c.SiteName == "" {
		c.SiteName = "OpenLobby"
	}
	if c.Elasticsearch.Index == "" {
		c.Elasticsearch.Index = "reports"
	}
}

func (c *ServerConfig) validate() error {
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required")
	}
	if c.CallbackURL == "" {
		return errors.New("CALLBACK_URL is required")
	}
	if c.Database.URL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if len(c.Elasticsearch.Addresses) == 0 {
		return errors.New("ES_URL is required")
	}
	return nil
}

func (c *ServerConfig) PoolConfig() pg.PoolConfig {
	return pg.PoolConfig{ConnStr: c.Database.URL}
}

func (c *ServerConfig) ESConfig() es.ClientConfig {
	return es.ClientConfig{
		Addresses: c.Elasticsearch.Addresses,
		IndexName: c.Elasticsearch.Index,
		Username:  c.Elasticsearch.Username,
		Password:  c.Elasticsearch.Password,
	}
}
