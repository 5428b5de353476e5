package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/openlobby/openlobby-server/internal/auth"
	"github.com/openlobby/openlobby-server/internal/graph"
	"github.com/openlobby/openlobby-server/internal/login"
	"github.com/openlobby/openlobby-server/internal/router"
	"github.com/openlobby/openlobby-server/internal/server"
	"github.com/openlobby/openlobby-server/internal/storage/es"
	"github.com/openlobby/openlobby-server/internal/storage/pg"
)

func main() {
	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	appSettings := NewAppConfig()
	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
		return
	}

	pool, err := pg.NewConnectionPool(context.Background(), cfg.PoolConfig())
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
		return
	}

	s := server.New(sCfg, pool).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, cfg.SiteName+" API is running")
	})

	sessionSecret := []byte(cfg.SessionSecret)
	s.Echo.Use(auth.Middleware(sessionSecret))

	searcher, err := es.NewSearcher(cfg.ESConfig())
	if err != nil {
		slog.Error("Failed to create report searcher", "error", err)
		os.Exit(1)
		return
	}

	users := pg.NewUserStore(pool)
	reports := pg.NewReportStore(pool)
	clients := pg.NewOpenIDClientStore(pool)
	attempts := pg.NewLoginAttemptStore(pool)

	flow := login.NewFlow(login.Config{
		SiteName:      cfg.SiteName,
		CallbackURL:   cfg.CallbackURL,
		SessionSecret: sessionSecret,
	}, clients, attempts, users)

	resolver := graph.NewResolver(users, reports, clients, searcher, flow)
	schema := graph.NewSchema(resolver)

	router.NewGraphQLRouter(s.Echo, schema).Bind()
	router.NewLoginRouter(s.Echo, flow).Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
		pool.Close()
	}()

	err = s.Start()
	if err != nil {
		s.Echo.Logger.Error("Failed to start server: ", err)
		os.Exit(1)
	}
}
