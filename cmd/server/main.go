package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/SORencber/smartpunkt-api/internal/config"
	"github.com/SORencber/smartpunkt-api/internal/middleware"
	"github.com/SORencber/smartpunkt-api/internal/shop/entity"
	"github.com/SORencber/smartpunkt-api/internal/shop/handler"
	"github.com/SORencber/smartpunkt-api/internal/shop/repository"
	"github.com/SORencber/smartpunkt-api/internal/shop/service"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Optional .env for local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting smartpunkt-api",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := migrate(db); err != nil {
		zapLogger.Fatal("Failed to migrate database", zap.Error(err))
	}

	rdb := initRedis(cfg.Redis)

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, rdb, zapLogger, cfg.Sync.StatusCacheTTL)
	handlers := handler.NewHandlers(services)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// Duplicate-key errors must be recognizable so concurrent first syncs
		// can fall through to an update.
		TranslateError: true,
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

// migrate covers the shared tables. Per-branch inventory tables are migrated
// lazily on first access by the branch part repository.
func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.DeviceType{},
		&entity.Brand{},
		&entity.DeviceModel{},
		&entity.Part{},
		&entity.Branch{},
		&entity.Notification{},
	)
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	v1 := r.Group("/api/v1")
	authorized := v1.Group("")
	authorized.Use(middleware.JWTAuth(cfg.JWT.Secret))
	{
		// Catalog: reads for everyone, writes for central roles.
		parts := authorized.Group("/parts")
		{
			parts.GET("", h.Part.List)
			parts.GET("/:id", h.Part.Get)

			central := parts.Group("")
			central.Use(middleware.RequireRoles(middleware.RoleCentralStaff))
			{
				central.POST("", h.Part.Create)
				central.PUT("/:id", h.Part.Update)
				central.DELETE("/:id", h.Part.Delete)
			}
		}

		// Branch registry.
		branches := authorized.Group("/branches")
		{
			branches.GET("", h.Branch.List)
			branches.GET("/:id", h.Branch.Get)

			admin := branches.Group("")
			admin.Use(middleware.RequireRoles())
			{
				admin.POST("", h.Branch.Create)
				admin.PUT("/:id", h.Branch.Update)
				admin.DELETE("/:id", h.Branch.Deactivate)
			}
		}

		// Per-branch inventory. Branch scoping is enforced in the handlers.
		branchParts := authorized.Group("/branch-parts")
		{
			branchParts.POST("", h.BranchPart.Sync)
			branchParts.GET("", h.BranchPart.List)
			branchParts.GET("/status", h.BranchPart.Status)
			branchParts.GET("/export", h.BranchPart.Export)
			branchParts.PUT("/:id", h.BranchPart.Update)
		}

		// Branch feed.
		notifications := authorized.Group("/notifications")
		{
			notifications.GET("/unread", h.Notification.Unread)
			notifications.POST("/:id/read", h.Notification.MarkRead)
			notifications.POST("/read-all", h.Notification.MarkAllRead)
		}

		// Classification reference data.
		authorized.GET("/device-types", h.Catalog.ListDeviceTypes)
		authorized.GET("/brands", h.Catalog.ListBrands)
		authorized.GET("/models", h.Catalog.ListModels)
		catalogAdmin := authorized.Group("")
		catalogAdmin.Use(middleware.RequireRoles(middleware.RoleCentralStaff))
		{
			catalogAdmin.POST("/device-types", h.Catalog.CreateDeviceType)
			catalogAdmin.POST("/brands", h.Catalog.CreateBrand)
			catalogAdmin.POST("/models", h.Catalog.CreateModel)
		}

		// Bulk reconciliation.
		adminGroup := authorized.Group("/admin")
		adminGroup.Use(middleware.RequireRoles(middleware.RoleCentralStaff))
		{
			adminGroup.POST("/sync-branch-parts", h.Admin.StartFullSync)
			adminGroup.GET("/sync-branch-parts", h.Admin.FullSyncStatus)
		}
	}
}
