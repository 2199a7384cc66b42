package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/acadops/campus-admin-api/api/swagger"
	"github.com/acadops/campus-admin-api/internal/handler"
	"github.com/acadops/campus-admin-api/internal/middleware"
	"github.com/acadops/campus-admin-api/internal/models"
	"github.com/acadops/campus-admin-api/internal/repository"
	"github.com/acadops/campus-admin-api/internal/service"
	"github.com/acadops/campus-admin-api/pkg/cache"
	"github.com/acadops/campus-admin-api/pkg/config"
	"github.com/acadops/campus-admin-api/pkg/database"
	"github.com/acadops/campus-admin-api/pkg/logger"
	corsmiddleware "github.com/acadops/campus-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/acadops/campus-admin-api/pkg/middleware/requestid"
)

// @title Campus Admin API
// @version 0.1.0
// @description School administration service: rosters, attendance, and module scheduling
// @BasePath /api/v1
// @schemes http

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, running without cache", "error", err)
		redisClient = nil
	}

	breakRepo := repository.NewBreakRepository(db)
	moduleRepo := repository.NewModuleRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	stampRepo := repository.NewStampRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(cfg.JWT, logr)
	scheduleSvc := service.NewModuleScheduleService(moduleRepo, breakRepo, cacheRepo, stampRepo, metricsSvc, cfg.Schedule, logr)
	breakSvc := service.NewBreakService(breakRepo, scheduleSvc, nil, logr)
	moduleSvc := service.NewModuleService(moduleRepo, stampRepo, nil, logr)
	studentSvc := service.NewStudentService(studentRepo, stampRepo, nil, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, stampRepo, nil, logr)

	breakHandler := handler.NewBreakHandler(breakSvc)
	moduleHandler := handler.NewModuleHandler(moduleSvc, scheduleSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))
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

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(authSvc))

	admin := api.Group("")
	admin.Use(middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin))

	api.GET("/breaks", breakHandler.List)
	admin.POST("/breaks", breakHandler.Create)
	admin.DELETE("/breaks/:id", breakHandler.Delete)

	api.GET("/courses", moduleHandler.ListCourses)
	api.GET("/courses/:courseId/modules", moduleHandler.List)
	admin.POST("/courses/:courseId/modules", moduleHandler.Create)
	admin.PUT("/courses/:courseId/modules/sync", moduleHandler.Sync)
	admin.POST("/courses/:courseId/modules/recalculate", moduleHandler.Recalculate)
	api.GET("/courses/:courseId/modules/schedule", moduleHandler.PreviewSchedule)
	admin.PUT("/modules/:id", moduleHandler.Update)
	admin.DELETE("/modules/:id", moduleHandler.Delete)

	api.GET("/courses/:courseId/students", studentHandler.List)
	admin.PUT("/courses/:courseId/students", studentHandler.Replace)

	api.GET("/courses/:courseId/attendance", attendanceHandler.ListDates)
	api.PUT("/courses/:courseId/attendance", attendanceHandler.SaveDay)
	api.GET("/courses/:courseId/attendance/:date", attendanceHandler.GetDay)
	api.DELETE("/courses/:courseId/attendance/:date", attendanceHandler.DeleteDay)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
