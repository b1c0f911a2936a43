package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"logistics/internal/handler"
	"logistics/internal/metrics"
	"logistics/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	DriverHandler     *handler.DriverHandler
	RouteHandler      *handler.RouteHandler
	OrderHandler      *handler.OrderHandler
	SimulationHandler *handler.SimulationHandler
	DashboardHandler  *handler.DashboardHandler
	RedisClient       *redis.Client
	NewRelicApp       *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.MetricsMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus scrape endpoint.
	metrics.RegisterDefault()
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Driver routes.
		drivers := v1.Group("/drivers")
		{
			drivers.POST("", deps.DriverHandler.Create)
			drivers.GET("", deps.DriverHandler.GetAll)
			drivers.GET("/:id", deps.DriverHandler.Get)
			drivers.PUT("/:id", deps.DriverHandler.Update)
			drivers.DELETE("/:id", deps.DriverHandler.Delete)
		}

		// Route routes.
		routes := v1.Group("/routes")
		{
			routes.POST("", deps.RouteHandler.Create)
			routes.GET("", deps.RouteHandler.GetAll)
			routes.GET("/:id", deps.RouteHandler.Get)
			routes.PUT("/:id", deps.RouteHandler.Update)
			routes.DELETE("/:id", deps.RouteHandler.Delete)
		}

		// Order routes.
		orders := v1.Group("/orders")
		{
			orders.POST("", deps.OrderHandler.Create)
			orders.GET("", deps.OrderHandler.GetAll)
			orders.GET("/:id", deps.OrderHandler.Get)
			orders.PUT("/:id", deps.OrderHandler.Update)
			orders.DELETE("/:id", deps.OrderHandler.Delete)
			orders.POST("/:id/assign", deps.OrderHandler.Assign)
			orders.POST("/:id/start", deps.OrderHandler.Start)
			orders.POST("/:id/deliver", deps.OrderHandler.Deliver)
			orders.POST("/:id/cancel", deps.OrderHandler.Cancel)
		}

		// Simulation routes.
		simulation := v1.Group("/simulation")
		{
			simulation.POST("/run", deps.SimulationHandler.Run)
			simulation.GET("/status", deps.SimulationHandler.Status)
			simulation.GET("/history", deps.SimulationHandler.History)
		}

		v1.GET("/dashboard", deps.DashboardHandler.Get)
	}

	return router
}
