package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/revlytics/revlytics/internal/api"
	v1 "github.com/revlytics/revlytics/internal/api/v1"
	"github.com/revlytics/revlytics/internal/clickhouse"
	"github.com/revlytics/revlytics/internal/config"
	"github.com/revlytics/revlytics/internal/domain/events"
	"github.com/revlytics/revlytics/internal/logger"
	chrepository "github.com/revlytics/revlytics/internal/repository/clickhouse"
	"github.com/revlytics/revlytics/internal/service"
)

func main() {
	app := fx.New(
		fx.Provide(
			config.NewConfig,
			logger.NewLogger,
			clickhouse.NewClickHouseStore,
			chrepository.NewLifecycleEventRepository,
			newClassifier,
			newServiceParams,
			service.NewDashboardService,
			service.NewSeriesService,
			v1.NewAnalyticsHandler,
			newRouter,
		),
		fx.Invoke(startServer),
	)

	app.Run()
}

func newClassifier() *events.Classifier {
	return events.NewClassifier(events.DefaultClassificationRules())
}

func newServiceParams(
	log *logger.Logger,
	cfg *config.Configuration,
	eventRepo events.Repository,
	classifier *events.Classifier,
) service.ServiceParams {
	return service.ServiceParams{
		Logger:     log,
		Config:     cfg,
		EventRepo:  eventRepo,
		Classifier: classifier,
	}
}

func newRouter(
	analyticsHandler *v1.AnalyticsHandler,
	cfg *config.Configuration,
	log *logger.Logger,
) *gin.Engine {
	return api.NewRouter(api.Handlers{Analytics: analyticsHandler}, cfg, log)
}

func startServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	store *clickhouse.ClickHouseStore,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting server", "address", cfg.Server.Address)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatalf("failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("shutting down server")
			if err := server.Shutdown(ctx); err != nil {
				return err
			}
			return store.Close()
		},
	})
}
