package app

import (
	"context"
	"fmt"

	temporalsdkclient "go.temporal.io/sdk/client"
	"gorm.io/gorm"

	"github.com/Berguit/topical-map-app/internal/config"
	apphttp "github.com/Berguit/topical-map-app/internal/http"
	httpH "github.com/Berguit/topical-map-app/internal/http/handlers"
	httpMW "github.com/Berguit/topical-map-app/internal/http/middleware"
	"github.com/Berguit/topical-map-app/internal/platform/logger"
	"github.com/Berguit/topical-map-app/internal/realtime"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health   *httpH.HealthHandler
	Project  *httpH.ProjectHandler
	Generate *httpH.GenerateHandler
	Keyword  *httpH.KeywordHandler
	Realtime *httpH.RealtimeHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, clients Clients, services Services, sseHub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(healthChecks(db, clients)),
		Project:  httpH.NewProjectHandler(log, services.Project),
		Generate: httpH.NewGenerateHandler(log, services.Generation),
		Keyword:  httpH.NewKeywordHandler(services.Keywords),
		Realtime: httpH.NewRealtimeHandler(log, sseHub, services.Project),
	}
}

func wireMiddleware(log *logger.Logger, cfg *config.Config) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, cfg.Auth.JWTSecret),
	}
}

func wireServer(log *logger.Logger, cfg *config.Config, handlers Handlers, middleware Middleware) *apphttp.Server {
	return apphttp.NewServer(apphttp.RouterConfig{
		Log:             log,
		ServiceName:     serviceName,
		AllowedOrigins:  cfg.HTTP.AllowedOrigins,
		AuthMiddleware:  middleware.Auth,
		HealthHandler:   handlers.Health,
		ProjectHandler:  handlers.Project,
		GenerateHandler: handlers.Generate,
		KeywordHandler:  handlers.Keyword,
		RealtimeHandler: handlers.Realtime,
	})
}

// healthChecks backs /readyz. Optional dependencies are only checked when
// they are configured.
func healthChecks(db *gorm.DB, clients Clients) map[string]httpH.HealthCheckFunc {
	checks := map[string]httpH.HealthCheckFunc{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if clients.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return clients.Redis.Ping(ctx).Err()
		}
	}
	if clients.Neo4j != nil {
		checks["neo4j"] = func(ctx context.Context) error {
			if clients.Neo4j.Driver == nil {
				return fmt.Errorf("neo4j driver closed")
			}
			return clients.Neo4j.Driver.VerifyConnectivity(ctx)
		}
	}
	if clients.Temporal != nil {
		checks["temporal"] = func(ctx context.Context) error {
			_, err := clients.Temporal.CheckHealth(ctx, &temporalsdkclient.CheckHealthRequest{})
			return err
		}
	}
	return checks
}
