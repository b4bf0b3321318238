package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/dnothi-api/api/swagger"
	"github.com/noah-isme/dnothi-api/internal/handler"
	"github.com/noah-isme/dnothi-api/internal/middleware"
	"github.com/noah-isme/dnothi-api/internal/models"
	"github.com/noah-isme/dnothi-api/internal/repository"
	"github.com/noah-isme/dnothi-api/internal/service"
	"github.com/noah-isme/dnothi-api/pkg/cache"
	"github.com/noah-isme/dnothi-api/pkg/config"
	"github.com/noah-isme/dnothi-api/pkg/database"
	"github.com/noah-isme/dnothi-api/pkg/export"
	"github.com/noah-isme/dnothi-api/pkg/jobs"
	"github.com/noah-isme/dnothi-api/pkg/logger"
	"github.com/noah-isme/dnothi-api/pkg/metrics"
	corsmiddleware "github.com/noah-isme/dnothi-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/dnothi-api/pkg/middleware/requestid"
)

// @title DNothi Office API
// @version 1.0.0
// @description Role-scoped task and leave management for office desks
// @BasePath /api
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
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("redis connection failed", "error", err)
	}
	defer redisClient.Close()

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	leaveRepo := repository.NewLeaveRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	lookupRepo := repository.NewLookupRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	auditSvc := service.NewAuditService(auditRepo, logr)
	notificationSvc := service.NewNotificationService(notificationRepo, logr)
	authSvc := service.NewAuthService(userRepo, auditSvc, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	userSvc := service.NewUserService(userRepo, auditSvc, validate, logr)
	taskSvc := service.NewTaskService(taskRepo, userRepo, auditSvc, notificationSvc, validate, logr, cfg.Validation.TaskStrictTransitions)
	leaveSvc := service.NewLeaveService(leaveRepo, lookupRepo, auditSvc, notificationSvc, validate, logr, cfg.Validation.LeaveOverlapCheck)
	lookupSvc := service.NewLookupService(lookupRepo, cacheRepo, logr, cfg.Cache.DropdownTTL)
	statsSvc := service.NewStatsService(statsRepo, auditRepo, cacheRepo, logr, cfg.Cache.StatsTTL)
	reportSvc := service.NewReportService(taskRepo, leaveRepo, export.NewCSVExporter(), export.NewPDFExporter(), logr)

	cookieMaxAge := int(cfg.JWT.Expiration / time.Second)
	authHandler := handler.NewAuthHandler(authSvc, cfg.JWT.CookieName, cookieMaxAge)
	userHandler := handler.NewUserHandler(userSvc)
	taskHandler := handler.NewTaskHandler(taskSvc)
	leaveHandler := handler.NewLeaveHandler(leaveSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)
	dropdownHandler := handler.NewDropdownHandler(lookupSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	adminHandler := handler.NewAdminHandler(statsSvc, auditSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	m := metrics.New()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(m.GinMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", m.Handler())

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authRequired := middleware.Auth(authSvc, userRepo, cfg.JWT.CookieName)

	api := r.Group(cfg.APIPrefix)
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authRequired, authHandler.Logout)
			auth.GET("/me", authRequired, authHandler.Me)
		}

		users := api.Group("/users", authRequired)
		{
			users.GET("", middleware.RequireAtLeast(models.RoleAdmin), userHandler.List)
			users.POST("", middleware.RequireAtLeast(models.RoleAdmin), authHandler.Register)
			users.GET("/:id", middleware.RequireAtLeast(models.RoleAdmin), userHandler.Get)
			users.PUT("/:id", userHandler.UpdateProfile)
			users.PATCH("/:id/role", middleware.RequireAtLeast(models.RoleAdmin), userHandler.UpdateRole)
			users.PATCH("/:id/status", middleware.RequireAtLeast(models.RoleAdmin), userHandler.SetActive)
		}

		tasks := api.Group("/tasks", authRequired)
		{
			tasks.GET("", taskHandler.List)
			tasks.GET("/overdue", middleware.RequireAtLeast(models.RoleSupervisor), taskHandler.Overdue)
			tasks.GET("/:id", taskHandler.Get)
			tasks.POST("", taskHandler.Create)
			tasks.PUT("/:id", taskHandler.Update)
			tasks.PATCH("/:id/status", taskHandler.UpdateStatus)
			tasks.DELETE("/:id", taskHandler.Delete)
		}

		leaves := api.Group("/leaves", authRequired)
		{
			leaves.GET("", leaveHandler.List)
			leaves.GET("/:id", leaveHandler.Get)
			leaves.POST("", leaveHandler.Create)
			leaves.PATCH("/:id/status", middleware.RequireAtLeast(models.RoleSupervisor), leaveHandler.Decide)
		}

		notifications := api.Group("/notifications", authRequired)
		{
			notifications.GET("", notificationHandler.List)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.PATCH("/read-all", notificationHandler.MarkAllRead)
			notifications.PATCH("/:id/read", notificationHandler.MarkRead)
			notifications.DELETE("/:id", notificationHandler.Delete)
		}

		dropdowns := api.Group("/dropdowns", authRequired)
		{
			dropdowns.GET("/categories", dropdownHandler.Categories)
			dropdowns.GET("/offices", dropdownHandler.Offices)
			dropdowns.GET("/sources", dropdownHandler.Sources)
			dropdowns.GET("/services", dropdownHandler.Services)
			dropdowns.GET("/leave-types", dropdownHandler.LeaveTypes)
		}

		reports := api.Group("/reports", authRequired, middleware.RequireAtLeast(models.RoleSupervisor))
		{
			reports.GET("/tasks", reportHandler.Tasks)
			reports.GET("/leaves", reportHandler.Leaves)
		}

		admin := api.Group("/admin", authRequired, middleware.RequireAtLeast(models.RoleAdmin))
		{
			admin.GET("/statistics", adminHandler.Statistics)
			admin.GET("/audit-logs", adminHandler.AuditLogs)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sweeper := jobs.NewSweeper(cfg.Retention.SweepInterval, logr)
	if cfg.Retention.Enabled {
		sweeper.Register("audit_logs", func(ctx context.Context) (int64, error) {
			return auditSvc.PurgeOlderThan(ctx, cfg.Retention.AuditDays)
		})
		sweeper.Register("notifications", func(ctx context.Context) (int64, error) {
			return notificationSvc.PurgeReadOlderThan(ctx, cfg.Retention.NotificationDays)
		})
		sweeper.Start(ctx)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	sweeper.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown failed", "error", err)
	}
}
