package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/Berguit/topical-map-app/internal/http/handlers"
	httpMW "github.com/Berguit/topical-map-app/internal/http/middleware"
	"github.com/Berguit/topical-map-app/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler   *httpH.HealthHandler
	ProjectHandler  *httpH.ProjectHandler
	GenerateHandler *httpH.GenerateHandler
	KeywordHandler  *httpH.KeywordHandler
	RealtimeHandler *httpH.RealtimeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.RequireAuth())
	}
	{
		// Projects
		if cfg.ProjectHandler != nil {
			api.GET("/projects", cfg.ProjectHandler.List)
			api.POST("/projects", cfg.ProjectHandler.Create)
			api.GET("/projects/:id", cfg.ProjectHandler.Get)
			api.PATCH("/projects/:id", cfg.ProjectHandler.Update)
			api.DELETE("/projects/:id", cfg.ProjectHandler.Delete)
			api.GET("/projects/:id/runs", cfg.ProjectHandler.Runs)

			// Topical map edits
			api.POST("/projects/:id/nodes", cfg.ProjectHandler.AddNode)
			api.PATCH("/projects/:id/nodes/:nodeId", cfg.ProjectHandler.UpdateNode)
			api.DELETE("/projects/:id/nodes/:nodeId", cfg.ProjectHandler.DeleteNode)
			api.POST("/projects/:id/edges", cfg.ProjectHandler.AddEdge)
			api.DELETE("/projects/:id/edges/:edgeId", cfg.ProjectHandler.DeleteEdge)
		}

		// Generation
		if cfg.GenerateHandler != nil {
			api.POST("/projects/:id/generate", cfg.GenerateHandler.GenerateForProject)
			api.POST("/generate", cfg.GenerateHandler.Generate)
		}

		// Keyword research
		if cfg.KeywordHandler != nil {
			api.POST("/keywords", cfg.KeywordHandler.Research)
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			api.GET("/projects/:id/events", cfg.RealtimeHandler.ProjectEvents)
		}
	}

	return r
}
