package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/kinship-backend/internal/db"
	"github.com/yungbote/kinship-backend/internal/logger"
	"github.com/yungbote/kinship-backend/internal/middleware"
	"github.com/yungbote/kinship-backend/internal/observability"
	"github.com/yungbote/kinship-backend/internal/server"
)

const serviceName = "kinship-backend"

// App owns the wired process: database, repos, services, handlers and the
// HTTP router. Construct with New, serve with Run, tear down with Close.
type App struct {
	cfg          Config
	log          *logger.Logger
	store        *db.PostgresService
	router       *gin.Engine
	otelShutdown func(context.Context) error
}

func New(ctx context.Context, cfg Config, log *logger.Logger) (*App, error) {
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:      cfg.OtelEnabled,
		ServiceName:  serviceName,
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTLPEndpoint,
	})

	store, err := db.NewPostgresService(cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := store.AutoMigrateAll(); err != nil {
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}

	r := wireRepos(store.DB(), log)
	s := wireServices(store.DB(), log, r)
	h := wireHandlers(s)

	router := server.NewRouter(server.RouterConfig{
		ServiceName:        serviceName,
		AllowOrigins:       cfg.AllowOrigins,
		RequestLogger:      middleware.NewRequestLogger(log),
		InstitutionHandler: h.Institution,
		ImportHandler:      h.Import,
		GroupingHandler:    h.Grouping,
		FlagHandler:        h.Flag,
		PersonHandler:      h.Person,
		HouseholdHandler:   h.Household,
	})

	return &App{
		cfg:          cfg,
		log:          log,
		store:        store,
		router:       router,
		otelShutdown: otelShutdown,
	}, nil
}

func (a *App) Run() error {
	a.log.Info("Starting HTTP server...", "port", a.cfg.Port)
	return a.router.Run(":" + a.cfg.Port)
}

func (a *App) Close(ctx context.Context) error {
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			a.log.Warn("OTel shutdown failed", "error", err)
		}
	}
	sqlDB, err := a.store.DB().DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
