package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/kinship-backend/internal/handlers"
	"github.com/yungbote/kinship-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName        string
	AllowOrigins       []string
	RequestLogger      *middleware.RequestLogger
	InstitutionHandler *handlers.InstitutionHandler
	ImportHandler      *handlers.ImportHandler
	GroupingHandler    *handlers.GroupingHandler
	FlagHandler        *handlers.FlagHandler
	PersonHandler      *handlers.PersonHandler
	HouseholdHandler   *handlers.HouseholdHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	if cfg.RequestLogger != nil {
		router.Use(cfg.RequestLogger.Handle())
	}

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/institutions", cfg.InstitutionHandler.Create)
		api.GET("/institutions/:id", cfg.InstitutionHandler.Get)

		api.POST("/imports", cfg.ImportHandler.RunImport)
		api.GET("/imports", cfg.ImportHandler.ListJobs)
		api.GET("/imports/:id", cfg.ImportHandler.GetJob)

		api.POST("/grouping/run", cfg.GroupingHandler.RunGrouping)

		api.GET("/flags", cfg.FlagHandler.List)
		api.POST("/flags/:id/undo", cfg.FlagHandler.Undo)
		api.POST("/flags/:id/finalize", cfg.FlagHandler.Finalize)

		api.GET("/people", cfg.PersonHandler.List)
		api.PATCH("/people/:id", cfg.PersonHandler.Update)
		api.DELETE("/people/:id", cfg.PersonHandler.Delete)
		api.POST("/people/:id/merge", cfg.PersonHandler.Merge)

		api.GET("/households", cfg.HouseholdHandler.List)
		api.GET("/households/:id/members", cfg.HouseholdHandler.Members)
		api.POST("/households/:id/members", cfg.HouseholdHandler.AddMember)
		api.DELETE("/households/:id/members/:personId", cfg.HouseholdHandler.RemoveMember)
		api.DELETE("/households/:id", cfg.HouseholdHandler.Delete)
	}

	return router
}
