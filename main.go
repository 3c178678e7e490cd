package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"prayer-attendance-server/attendance"
	"prayer-attendance-server/config"
	"prayer-attendance-server/db"
	"prayer-attendance-server/handlers"
	"prayer-attendance-server/logging"
	"prayer-attendance-server/models"
)

// defaultClasses are created on first start when the directory is empty.
var defaultClasses = []models.Clazz{
	{ID: "S1A", Name: "S1-A"},
	{ID: "S1B", Name: "S1-B"},
	{ID: "S2A", Name: "S2-A"},
	{ID: "S2B", Name: "S2-B"},
	{ID: "S3A", Name: "S3-A"},
	{ID: "S3B", Name: "S3-B"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logging.New("info", false)
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := logging.New(cfg.LogLevel, cfg.IsProduction())
	ctx := context.Background()

	gdb, err := db.InitializePostgres(cfg.Database, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize PostgreSQL")
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to get database handle")
	}
	defer sqlDB.Close()

	directory := db.NewDirectoryService(gdb, logger)
	checks := map[string]handlers.HealthCheck{"postgres": sqlDB.PingContext}

	var repo attendance.Repository
	switch cfg.AttendanceBackend {
	case config.BackendMemory:
		logger.Warn().Msg("attendance is kept in memory and will be lost on restart")
		repo = attendance.NewMemoryRepository()
	default:
		redisClient, err := db.InitializeRedisClient(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize Redis")
		}
		defer redisClient.Close()
		redisService := db.NewRedisService(redisClient, cfg.Redis.Key, logger)
		checks["redis"] = redisService.Ping
		repo = redisService
	}

	if cfg.SeedDefaults {
		checkAndSeedData(ctx, directory, logger)
	}

	apiHandler := handlers.NewAPIHandler(directory, attendance.NewService(repo, logger), logger)
	for name, check := range checks {
		apiHandler.Checks[name] = check
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), logging.Middleware(logger), cors.New(corsConfig(cfg.CORSOrigins)))
	handlers.RegisterRoutes(router, apiHandler)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Str("attendance_backend", cfg.AttendanceBackend).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to run server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shut down")
	}
}

// corsConfig allows every origin when the list is empty or contains "*".
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", logging.RequestIDHeader},
		ExposeHeaders: []string{"Content-Disposition", logging.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// checkAndSeedData creates the default classes when the directory has none
func checkAndSeedData(ctx context.Context, dir handlers.Directory, log zerolog.Logger) {
	classes, err := dir.ListClasses(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("could not check for existing classes, skipping seed")
		return
	}
	if len(classes) > 0 {
		log.Info().Int("classes", len(classes)).Msg("existing classes found, skipping seed")
		return
	}

	log.Info().Msg("no classes found, adding default classes")
	seedInitialData(ctx, dir, log)
}

func seedInitialData(ctx context.Context, dir handlers.Directory, log zerolog.Logger) {
	for _, c := range defaultClasses {
		c := c
		if err := dir.CreateClass(ctx, &c); err != nil {
			log.Warn().Err(err).Str("class_id", c.ID).Msg("error adding default class")
		}
	}
}
