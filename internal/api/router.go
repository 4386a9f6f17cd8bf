package api

import (
	"fmt"
	"time"

	authHandler "foodsnap-api/internal/api/handlers/auth"
	foodHandler "foodsnap-api/internal/api/handlers/food"
	"foodsnap-api/internal/api/handlers/health"
	"foodsnap-api/internal/api/middleware"
	"foodsnap-api/internal/core/ai/image"
	"foodsnap-api/internal/core/ai/service"
	"foodsnap-api/internal/core/auth"
	"foodsnap-api/internal/core/export"
	"foodsnap-api/internal/core/food"
	"foodsnap-api/internal/infrastructure/config"
	"foodsnap-api/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 請求體額外保留給 JSON 欄位的空間
const bodyOverhead = 1 << 20

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, aiService *service.Service) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if aiService == nil {
		return nil, fmt.Errorf("ai service is required")
	}

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New()) // 自動生成請求 ID
	router.Use(middleware.Logger())

	// CORS 設置
	router.Use(cors.New(corsConfig(cfg.Server.AllowOrigins)))

	// 請求體大小限制（base64 約為原始大小的 4/3）
	router.Use(middleware.BodySizeLimit(cfg.Image.MaxSizeBytes*4/3 + bodyOverhead))

	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)))
	}
	router.Use(middleware.Deduplication(middleware.NewDeduplicator(cfg.DedupWindow)))
	router.Use(middleware.RequestContext(cfg.Server.RequestTimeout))

	common.LogInfo("Initializing services",
		zap.String("provider", cfg.AI.Provider),
		zap.String("model", aiService.GetModel()),
		zap.Bool("auth_enabled", cfg.Auth.Enabled),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
	)

	// 初始化服務
	images := image.NewProcessor(cfg.Image.MaxSizeBytes, cfg.Image.MaxDimension)
	analyzer := food.NewAnalyzer(aiService, images)
	sessions := food.NewSessionStore()
	renderer := export.NewRenderer()

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg, aiService, sessions)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")

	protected := api.Group("")
	if cfg.Auth.Enabled {
		authenticator, err := auth.NewAuthenticator(cfg.Auth)
		if err != nil {
			common.LogError("Failed to initialize authenticator", zap.Error(err))
			return nil, fmt.Errorf("failed to initialize authenticator: %w", err)
		}
		loginHandler := authHandler.NewHandler(authenticator, sessions)
		api.POST("/auth/login", loginHandler.Login)
		protected.Use(middleware.Auth(authenticator))
		protected.POST("/auth/logout", loginHandler.Logout)
	} else {
		protected.Use(middleware.Anonymous())
		protected.POST("/auth/logout", authHandler.NewHandler(nil, sessions).Logout)
	}

	foodGroup := protected.Group("/food")
	{
		h := foodHandler.NewHandler(analyzer, renderer)
		foodGroup.POST("/check", h.CheckFood)
		foodGroup.POST("/analyze", h.AnalyzeFood)
		foodGroup.POST("/export", h.ExportFood)
	}

	sessionGroup := protected.Group("/session")
	{
		h := foodHandler.NewSessionHandler(analyzer, sessions, renderer)
		sessionGroup.GET("", h.GetSession)
		sessionGroup.DELETE("", h.ResetSession)
		sessionGroup.PUT("/image", h.SelectImage)
		sessionGroup.POST("/analyze", h.Analyze)
		sessionGroup.GET("/export", h.ExportSession)
	}

	common.LogInfo("Router setup completed")

	return router, nil
}

// corsConfig 萬用字元來源不可搭配 credentials
func corsConfig(origins []string) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	for _, origin := range origins {
		if origin == "*" {
			corsCfg.AllowAllOrigins = true
			return corsCfg
		}
	}
	if len(origins) == 0 {
		corsCfg.AllowAllOrigins = true
		return corsCfg
	}
	corsCfg.AllowOrigins = origins
	corsCfg.AllowCredentials = true
	return corsCfg
}
