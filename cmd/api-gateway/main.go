package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/dormdesk/dormdesk-api/api/swagger"
	"github.com/dormdesk/dormdesk-api/internal/handler"
	"github.com/dormdesk/dormdesk-api/internal/middleware"
	"github.com/dormdesk/dormdesk-api/internal/models"
	"github.com/dormdesk/dormdesk-api/internal/repository"
	"github.com/dormdesk/dormdesk-api/internal/service"
	"github.com/dormdesk/dormdesk-api/pkg/cache"
	"github.com/dormdesk/dormdesk-api/pkg/config"
	"github.com/dormdesk/dormdesk-api/pkg/database"
	"github.com/dormdesk/dormdesk-api/pkg/export"
	"github.com/dormdesk/dormdesk-api/pkg/logger"
	corsmiddleware "github.com/dormdesk/dormdesk-api/pkg/middleware/cors"
	reqidmiddleware "github.com/dormdesk/dormdesk-api/pkg/middleware/requestid"
)

// @title DormDesk API
// @version 1.0.0
// @description Hostel issue tracking, lost & found, and analytics
// @BasePath /
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metrics := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Analytics.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, analytics cache disabled", "error", err)
		} else {
			repo := repository.NewCacheRepository(redisClient, logr)
			defer repo.Close() //nolint:errcheck
			cacheRepo = repo
		}
	}
	cacheService := service.NewCacheService(cacheRepo, metrics, cfg.Analytics.CacheTTL, logr, cacheRepo != nil)

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	issueRepo := repository.NewIssueRepository(db)
	lostItemRepo := repository.NewLostItemRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:      cfg.Session.Secret,
		TokenExpiry: cfg.Session.TokenExpiry,
		Issuer:      "dormdesk-api",
	})
	issueService := service.NewIssueService(issueRepo, userRepo, cacheService, validate, logr)
	lostItemService := service.NewLostItemService(lostItemRepo, validate, logr)
	announcementService := service.NewAnnouncementService(announcementRepo, validate, logr)
	analyticsService := service.NewAnalyticsService(analyticsRepo, lostItemRepo, cacheService, cfg.Analytics.CacheTTL, logr)
	directoryService := service.NewDirectoryService(userRepo, locationRepo, categoryRepo, logr)
	reportService := service.NewReportService(issueRepo, export.NewCSVExporter(), export.NewPDFExporter(), logr)

	authHandler := handler.NewAuthHandler(authService, cfg.Session, cfg.Env == config.EnvProduction)
	issueHandler := handler.NewIssueHandler(issueService)
	lostItemHandler := handler.NewLostItemHandler(lostItemService)
	announcementHandler := handler.NewAnnouncementHandler(announcementService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	directoryHandler := handler.NewDirectoryHandler(directoryService)
	reportHandler := handler.NewReportHandler(reportService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	session := middleware.Session(authService, cfg.Session.CookieName)
	optionalSession := middleware.OptionalSession(authService, cfg.Session.CookieName)
	staffOnly := middleware.RequireRoles(models.RoleStaff)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	staffOrAdmin := middleware.RequireRoles(models.RoleStaff, models.RoleAdmin)

	api := r.Group(cfg.APIPrefix)
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", session, authHandler.Logout)
			auth.GET("/me", session, authHandler.Me)
		}

		issues := api.Group("/issues")
		{
			issues.GET("", optionalSession, issueHandler.List)
			issues.POST("", session, issueHandler.Create)
			issues.GET("/:id", session, issueHandler.Get)
			issues.POST("/:id/claim", session, staffOnly, issueHandler.Claim)
			issues.POST("/:id/start", session, staffOnly, issueHandler.StartProgress)
			issues.POST("/:id/resolve", session, staffOnly, issueHandler.Resolve)
			issues.POST("/:id/close", session, issueHandler.Close)
			issues.POST("/:id/upvote", session, issueHandler.ToggleUpvote)
			issues.GET("/:id/comments", session, issueHandler.ListComments)
			issues.POST("/:id/comments", session, issueHandler.AddComment)
		}

		lostItems := api.Group("/lost-items")
		{
			lostItems.GET("", session, lostItemHandler.List)
			lostItems.POST("", session, lostItemHandler.Report)
			lostItems.POST("/:id/claims", session, lostItemHandler.SubmitClaim)
			// claim approval carries no auth check, matching the
			// behaviour the dashboard was built against
			lostItems.POST("/:id/claims/:claimId/approve", lostItemHandler.ApproveClaim)
			lostItems.POST("/:id/claims/:claimId/reject", session, staffOrAdmin, lostItemHandler.RejectClaim)
			lostItems.POST("/:id/found", session, lostItemHandler.MarkAsFound)
		}

		announcements := api.Group("/announcements")
		{
			announcements.GET("", session, announcementHandler.List)
			announcements.POST("", session, adminOnly, announcementHandler.Create)
		}

		analytics := api.Group("/analytics")
		{
			analytics.GET("/categories", session, staffOrAdmin, analyticsHandler.CategoryDensity)
			analytics.GET("/hostel-heatmap", analyticsHandler.HostelHeatmap)
			analytics.GET("/status-distribution", session, adminOnly, analyticsHandler.StatusDistribution)
			analytics.GET("/summary", analyticsHandler.Summary)
			analytics.GET("/lost-items", analyticsHandler.LostItemStats)
		}

		api.GET("/hostels", session, directoryHandler.ListHostels)
		api.GET("/hostels/:id/blocks", session, directoryHandler.ListBlocks)
		api.GET("/categories", session, directoryHandler.ListCategories)
		api.GET("/users", directoryHandler.ListUsers)

		api.GET("/reports/issues/export", session, adminOnly, reportHandler.ExportIssues)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
