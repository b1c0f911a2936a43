package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"logistics/internal/app"
	"logistics/internal/config"
	"logistics/internal/handler"
	internalRedis "logistics/internal/redis"
	"logistics/internal/repository/postgres"
	"logistics/internal/service"
)

func main() {
	// Load .env for local runs; real environments set variables directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Printf("Connected to PostgreSQL db=%s migrate=%t", cfg.Database.DBName, cfg.Database.Migrate)

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// Initialize Redis stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Initialize repositories.
	driverRepo := postgres.NewDriverRepository(db)
	routeRepo := postgres.NewRouteRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	simulationRepo := postgres.NewSimulationRepository(db)

	// Initialize services.
	driverService := service.NewDriverService(driverRepo)
	routeService := service.NewRouteService(routeRepo)
	orderService := service.NewOrderService(db, orderRepo, routeRepo, driverRepo)
	simulationService := service.NewSimulationService(driverRepo, orderRepo, simulationRepo, lockStore, cacheStore, service.SimulationOptions{
		LockTTL:        cfg.Simulation.LockTTL,
		ResultCacheTTL: cfg.Simulation.ResultCacheTTL,
	})
	dashboardService := service.NewDashboardService(driverRepo, routeRepo, orderRepo, simulationService, cacheStore, cfg.Simulation.DashboardCacheTTL)

	// Initialize handlers.
	driverHandler := handler.NewDriverHandler(driverService)
	routeHandler := handler.NewRouteHandler(routeService)
	orderHandler := handler.NewOrderHandler(orderService)
	simulationHandler := handler.NewSimulationHandler(simulationService, cfg.Simulation.DefaultDrivers, cfg.Simulation.DefaultMaxHours)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		DriverHandler:     driverHandler,
		RouteHandler:      routeHandler,
		OrderHandler:      orderHandler,
		SimulationHandler: simulationHandler,
		DashboardHandler:  dashboardHandler,
		RedisClient:       redisClient,
		NewRelicApp:       nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
