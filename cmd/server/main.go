package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitfantasy/nimo-embroidery/internal/config"
	"github.com/bitfantasy/nimo-embroidery/internal/entity"
	"github.com/bitfantasy/nimo-embroidery/internal/handler"
	"github.com/bitfantasy/nimo-embroidery/internal/middleware"
	"github.com/bitfantasy/nimo-embroidery/internal/repository"
	"github.com/bitfantasy/nimo-embroidery/internal/service"
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
	// 加载 .env 文件
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting nimo-embroidery service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	// 初始化数据库
	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := entity.AutoMigrate(db); err != nil {
		zapLogger.Fatal("Failed to auto-migrate tables", zap.Error(err))
	}
	zapLogger.Info("Database migration completed")

	// 初始化 Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		zapLogger.Fatal("Failed to connect to redis", zap.Error(err))
	}

	// 初始化依赖
	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, rdb, cfg, zapLogger)
	handlers := handler.NewHandlers(services, cfg)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/v1/inventory/export"})))

	// 健康检查
	router.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "nimo-embroidery"})
	})
	router.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "nimo-embroidery"})
	})

	// 版本信息
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":    "nimo-embroidery",
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	// 认证
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/refresh", handlers.Auth.Refresh)
		auth.POST("/logout", handlers.Auth.Logout)
	}

	// API v1
	v1 := router.Group("/api/v1")
	v1.Use(middleware.JWTAuth(cfg.JWT.Secret))
	{
		v1.GET("/auth/me", handlers.Auth.Me)
		v1.POST("/auth/register", middleware.RequireRole("admin"), handlers.Auth.Register)

		// 绣花机
		machines := v1.Group("/machines")
		{
			machines.GET("", handlers.Machine.List)
			machines.POST("", middleware.RequireRole("manager"), handlers.Machine.Create)
			machines.GET("/:id", handlers.Machine.Get)
			machines.PUT("/:id", middleware.RequireRole("manager"), handlers.Machine.Update)
			machines.DELETE("/:id", middleware.RequireRole("admin"), handlers.Machine.Delete)
			machines.POST("/:id/validate-capacity", handlers.Machine.ValidateCapacity)
		}

		// 花样
		designs := v1.Group("/designs")
		{
			designs.GET("", handlers.Design.List)
			designs.POST("", handlers.Design.Create)
			designs.GET("/:id", handlers.Design.Get)
			designs.PUT("/:id", handlers.Design.Update)
			designs.PUT("/:id/status", middleware.RequireRole("manager"), handlers.Design.UpdateStatus)
			designs.DELETE("/:id", middleware.RequireRole("admin"), handlers.Design.Delete)
		}

		// 库存物料
		inventory := v1.Group("/inventory")
		{
			inventory.GET("", handlers.Inventory.List)
			inventory.POST("", handlers.Inventory.Create)
			inventory.GET("/low-stock", handlers.Inventory.LowStock)
			inventory.GET("/export", handlers.Inventory.Export)
			inventory.POST("/bulk-deduct", handlers.Inventory.BulkDeduct)
			inventory.GET("/:id", handlers.Inventory.Get)
			inventory.PUT("/:id", handlers.Inventory.Update)
			inventory.POST("/:id/deduct", handlers.Inventory.Deduct)
			inventory.POST("/:id/restock", handlers.Inventory.Restock)
		}

		// 绣花线
		threads := v1.Group("/threads")
		{
			threads.GET("", handlers.Inventory.ListThreads)
			threads.POST("", handlers.Inventory.CreateThread)
			threads.GET("/low-stock", handlers.Inventory.LowStockThreads)
			threads.GET("/:id", handlers.Inventory.GetThread)
			threads.POST("/:id/deduct", handlers.Inventory.DeductThread)
			threads.POST("/:id/restock", handlers.Inventory.RestockThread)
		}

		// 客户订单
		orders := v1.Group("/orders")
		{
			orders.GET("", handlers.CustomerOrder.List)
			orders.POST("", handlers.CustomerOrder.Create)
			orders.GET("/estimate", handlers.CustomerOrder.Estimate)
			orders.GET("/:id", handlers.CustomerOrder.Get)
			orders.PUT("/:id", handlers.CustomerOrder.Update)
			orders.PUT("/:id/status", handlers.CustomerOrder.UpdateStatus)
			orders.DELETE("/:id", middleware.RequireRole("admin"), handlers.CustomerOrder.Delete)
		}

		// 工单
		workOrders := v1.Group("/work-orders")
		{
			workOrders.GET("", handlers.WorkOrder.List)
			workOrders.POST("", handlers.WorkOrder.Create)
			workOrders.GET("/:id", handlers.WorkOrder.Get)
			workOrders.POST("/:id/start", handlers.WorkOrder.Start)
			workOrders.POST("/:id/complete", handlers.WorkOrder.Complete)
			workOrders.POST("/:id/deliver", handlers.WorkOrder.Deliver)
			workOrders.PUT("/:id/status", handlers.WorkOrder.UpdateStatus)
			workOrders.PUT("/:id/force-status", middleware.RequireRole("admin"), handlers.WorkOrder.ForceStatus)
			workOrders.POST("/:id/cost", handlers.WorkOrder.CalculateCost)
			workOrders.GET("/:id/costing-records", handlers.WorkOrder.ListCostingRecords)
		}

		// 预警
		alerts := v1.Group("/alerts")
		{
			alerts.GET("", handlers.Alert.List)
			alerts.GET("/entity/:entity_type/:entity_id", handlers.Alert.ListByEntity)
			alerts.PUT("/:id/resolve", handlers.Alert.Resolve)
		}
	}

	// 创建HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 启动服务器
	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 优雅关闭
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
