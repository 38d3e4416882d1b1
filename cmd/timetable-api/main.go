package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/campuskit/timetable-api/internal/handler"
	"github.com/campuskit/timetable-api/internal/repository"
	"github.com/campuskit/timetable-api/internal/service"
	"github.com/campuskit/timetable-api/pkg/cache"
	"github.com/campuskit/timetable-api/pkg/config"
	"github.com/campuskit/timetable-api/pkg/database"
	"github.com/campuskit/timetable-api/pkg/logger"
	corsmiddleware "github.com/campuskit/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campuskit/timetable-api/pkg/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	validate := validator.New()

	catalogRepo := repository.NewCatalogRepository(db)
	timetableRepo := repository.NewTimetableRepository(db, cfg.Scheduler.InsertPageSize)
	preferenceRepo := repository.NewPreferenceRepository(db)
	coursePlanRepo := repository.NewCoursePlanRepository(db)

	metrics := service.NewMetricsService()

	// Redis only keeps the latest run summary per semester; the API degrades
	// gracefully without it.
	var summarySink service.RunSummarySink
	var summaryReader handler.SummaryReader
	if redisClient, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Sugar().Warnw("redis unavailable, run summaries will not be retained", "error", err)
	} else {
		defer redisClient.Close()
		summaryCache := service.NewSummaryCache(redisClient, cfg.Scheduler.SummaryCacheTTL)
		summarySink = summaryCache
		summaryReader = summaryCache
	}

	scheduler := service.NewSchedulerService(
		catalogRepo, timetableRepo, preferenceRepo,
		metrics, summarySink,
		validate, logr, cfg.Scheduler.DefaultSeed,
	)
	coursePlans := service.NewCoursePlanService(coursePlanRepo, validate, logr)
	catalogSvc := service.NewCatalogService(catalogRepo, logr)

	var exporter handler.ExportRenderer
	if cfg.Export.Enabled {
		exporter = service.NewExportService(timetableRepo, catalogRepo, validate, logr)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group(cfg.APIPrefix)
	handler.NewSchedulerHandler(scheduler, exporter, summaryReader, logr).Register(api)
	handler.NewCoursePlanHandler(coursePlans, logr).Register(api)
	handler.NewCatalogHandler(catalogSvc, logr).Register(api)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
