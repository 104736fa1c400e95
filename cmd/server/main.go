package main

import (
	"context"
	"log"
	"net/http"

	"route-backend/internal/auth"
	"route-backend/internal/cache"
	"route-backend/internal/config"
	"route-backend/internal/database"
	"route-backend/internal/db"
	"route-backend/internal/handlers"
	"route-backend/internal/health"
	httprouter "route-backend/internal/http"
	"route-backend/internal/live"
	"route-backend/internal/middleware"
	"route-backend/internal/monitoring"
	"route-backend/internal/repositories"
	"route-backend/internal/services"
	"route-backend/internal/storage"
)

func main() {
	cfg := config.Load()

	pool := db.Connect(cfg)
	defer pool.Close()

	migrator := database.NewMigrator(pool)
	if err := migrator.RunMigrations(context.Background()); err != nil {
		log.Fatalf("[Main] Migrations failed: %v", err)
	}

	if err := cache.Init(cfg); err != nil {
		log.Printf("[Main] Redis unavailable, running without cache: %v", err)
	}

	// Repositories
	locationRepo := repositories.NewLocationRepository(pool)
	machineRepo := repositories.NewMachineRepository(pool)
	coilRepo := repositories.NewCoilRepository(pool)
	skuRepo := repositories.NewSKURepository(pool)
	runRepo := repositories.NewRunRepository(pool)
	pickEntryRepo := repositories.NewPickEntryRepository(pool)
	runImportRepo := repositories.NewRunImportRepository(pool)
	boxRepo := repositories.NewChocolateBoxRepository(pool)
	userRepo := repositories.NewUserRepository(pool)

	// Services
	importService := services.NewImportService(locationRepo, machineRepo, coilRepo, skuRepo, runImportRepo)
	pickService := services.NewPickService(pool, runRepo, pickEntryRepo, skuRepo)
	runService := services.NewRunService(pool, runRepo)
	analyticsService := services.NewAnalyticsService(pickEntryRepo, cfg)
	sheetService := services.NewSheetService(pickService)

	exporter, err := storage.NewExporter(cfg)
	if err != nil {
		log.Fatalf("[Main] Export storage config invalid: %v", err)
	}

	jwtManager := auth.NewJWTManager(cfg)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)

	hub := live.NewHub(func(r *http.Request) bool { return true })

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, jwtManager)
	importHandler := handlers.NewImportHandler(importService, runImportRepo)
	runHandler := handlers.NewRunHandler(runService, pickService, hub)
	pickHandler := handlers.NewPickHandler(importService, pickService, sheetService, exporter, hub)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	entityHandler := handlers.NewEntityHandler(locationRepo, machineRepo, skuRepo)
	boxHandler := handlers.NewBoxHandler(boxRepo, runRepo)
	healthHandler := health.NewHandler(pool)

	router := httprouter.NewRouter(
		authHandler,
		importHandler,
		runHandler,
		pickHandler,
		analyticsHandler,
		entityHandler,
		boxHandler,
		healthHandler,
		hub,
		authMiddleware,
	)

	// Monitoring dashboard on its own port
	monitoringServer := monitoring.NewServer(pool, cfg.Server.MonitoringPort)
	go func() {
		if err := monitoringServer.Start(); err != nil {
			log.Printf("[Main] Monitoring server stopped: %v", err)
		}
	}()

	handler := middleware.Recover(
		middleware.NewCORS(cfg)(
			middleware.RequestLogging(
				middleware.MetricsMiddleware(router))))

	log.Printf("[Main] Listening on :%s", cfg.Server.Port)
	if err := http.ListenAndServe(":"+cfg.Server.Port, handler); err != nil {
		log.Fatalf("[Main] Server failed: %v", err)
	}
}
