package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/merturldosa/basemes-sub003/internal/config"
	"github.com/merturldosa/basemes-sub003/internal/mes/entity"
	"github.com/merturldosa/basemes-sub003/internal/mes/handler"
	"github.com/merturldosa/basemes-sub003/internal/mes/repository"
	"github.com/merturldosa/basemes-sub003/internal/mes/service"
	"github.com/merturldosa/basemes-sub003/internal/middleware"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
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

	zapLogger.Info("Starting mes service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	// 初始化数据库
	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// AutoMigrate MES tables
	if err := entity.AutoMigrate(db); err != nil {
		zapLogger.Fatal("Failed to auto-migrate MES tables", zap.Error(err))
	}
	zapLogger.Info("MES database migration completed")

	// 初始化Redis客户端
	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			zapLogger.Warn("Redis unavailable, dashboard cache disabled", zap.Error(err))
			rdb = nil
		}
	}

	// 初始化MinIO客户端
	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			zapLogger.Warn("MinIO unavailable, attachments disabled", zap.Error(err))
			minioClient = nil
		}
	}

	// 初始化 MES 依赖
	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, db, rdb, minioClient, cfg.MinIO.Bucket)
	handlers := handler.NewHandlers(services)

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

	// 健康检查
	router.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "mes"})
	})
	router.GET("/health/ready", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.Ping() != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "service": "mes"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "mes"})
	})

	// 版本信息
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":    "mes",
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	registerRoutes(router, handlers, cfg.JWT.Secret)

	// 创建HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 启动服务器
	go func() {
		zapLogger.Info("MES Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down MES server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("MES Server exited")
}

func registerRoutes(router *gin.Engine, handlers *handler.Handlers, jwtSecret string) {
	v1 := router.Group("/api/v1/mes")
	v1.Use(middleware.JWTAuth(jwtSecret))
	{
		// 用户管理
		users := v1.Group("/users")
		{
			users.GET("", handlers.User.List)
			users.POST("", handlers.User.Create)
			users.GET("/:id", handlers.User.Get)
			users.PUT("/:id", handlers.User.Update)
			users.DELETE("/:id", handlers.User.Delete)
			users.POST("/:id/toggle-active", handlers.User.ToggleActive)
		}

		// 角色与权限
		roles := v1.Group("/roles")
		{
			roles.GET("", handlers.Role.List)
			roles.POST("", handlers.Role.Create)
			roles.GET("/:id", handlers.Role.Get)
			roles.PUT("/:id", handlers.Role.Update)
			roles.DELETE("/:id", handlers.Role.Delete)
		}
		v1.GET("/permissions", handlers.Role.ListPermissions)

		// 生产基地
		sites := v1.Group("/sites")
		{
			sites.GET("", handlers.Site.List)
			sites.POST("", handlers.Site.Create)
			sites.GET("/:id", handlers.Site.Get)
			sites.PUT("/:id", handlers.Site.Update)
			sites.DELETE("/:id", handlers.Site.Delete)
			sites.POST("/:id/toggle-active", handlers.Site.ToggleActive)
		}

		// 部门
		departments := v1.Group("/departments")
		{
			departments.GET("", handlers.Department.List)
			departments.POST("", handlers.Department.Create)
			departments.GET("/:id", handlers.Department.Get)
			departments.PUT("/:id", handlers.Department.Update)
			departments.DELETE("/:id", handlers.Department.Delete)
			departments.POST("/:id/toggle-active", handlers.Department.ToggleActive)
		}

		// 往来单位（供应商/客户）
		partners := v1.Group("/partners")
		{
			partners.GET("", handlers.Partner.List)
			partners.POST("", handlers.Partner.Create)
			partners.GET("/:id", handlers.Partner.Get)
			partners.PUT("/:id", handlers.Partner.Update)
			partners.DELETE("/:id", handlers.Partner.Delete)
			partners.POST("/:id/toggle-active", handlers.Partner.ToggleActive)
		}

		// 产品主数据
		products := v1.Group("/products")
		{
			products.GET("", handlers.Product.List)
			products.POST("", handlers.Product.Create)
			products.GET("/:id", handlers.Product.Get)
			products.PUT("/:id", handlers.Product.Update)
			products.DELETE("/:id", handlers.Product.Delete)
			products.POST("/:id/toggle-active", handlers.Product.ToggleActive)
		}

		// 批次
		lots := v1.Group("/lots")
		{
			lots.GET("", handlers.Lot.List)
			lots.POST("", handlers.Lot.Create)
			lots.GET("/:id", handlers.Lot.Get)
			lots.PUT("/:id", handlers.Lot.Update)
			lots.DELETE("/:id", handlers.Lot.Delete)
			lots.GET("/:id/genealogy", handlers.Lot.Genealogy)
			lots.GET("/:id/children", handlers.Lot.Children)
		}

		// BOM（按编码+版本管理）
		boms := v1.Group("/boms")
		{
			boms.GET("", handlers.Bom.List)
			boms.GET("/versions", handlers.Bom.ListVersions)
			boms.POST("", handlers.Bom.Create)
			boms.GET("/:id", handlers.Bom.Get)
			boms.PUT("/:id", handlers.Bom.Update)
			boms.DELETE("/:id", handlers.Bom.Delete)
			boms.POST("/:id/toggle-active", handlers.Bom.ToggleActive)
			boms.POST("/:id/copy", handlers.Bom.CopyVersion)
			boms.POST("/:id/details", handlers.Bom.AddDetail)
			boms.DELETE("/:id/details/:detailId", handlers.Bom.RemoveDetail)
		}

		// 工艺路线（按编码+版本管理）
		routings := v1.Group("/routings")
		{
			routings.GET("", handlers.Routing.List)
			routings.GET("/versions", handlers.Routing.ListVersions)
			routings.POST("", handlers.Routing.Create)
			routings.GET("/:id", handlers.Routing.Get)
			routings.PUT("/:id", handlers.Routing.Update)
			routings.DELETE("/:id", handlers.Routing.Delete)
			routings.POST("/:id/toggle-active", handlers.Routing.ToggleActive)
			routings.POST("/:id/copy", handlers.Routing.CopyVersion)
		}

		// 工单
		workOrders := v1.Group("/work-orders")
		{
			workOrders.GET("", handlers.WorkOrder.List)
			workOrders.POST("", handlers.WorkOrder.Create)
			workOrders.GET("/:id", handlers.WorkOrder.Get)
			workOrders.PUT("/:id", handlers.WorkOrder.Update)
			workOrders.DELETE("/:id", handlers.WorkOrder.Delete)
			workOrders.POST("/:id/ready", handlers.WorkOrder.Ready)
			workOrders.POST("/:id/start", handlers.WorkOrder.Start)
			workOrders.POST("/:id/complete", handlers.WorkOrder.Complete)
			workOrders.POST("/:id/cancel", handlers.WorkOrder.Cancel)
		}

		// 报工
		workResults := v1.Group("/work-results")
		{
			workResults.GET("", handlers.WorkResult.List)
			workResults.POST("", handlers.WorkResult.Create)
			workResults.GET("/:id", handlers.WorkResult.Get)
			workResults.PUT("/:id", handlers.WorkResult.Update)
			workResults.DELETE("/:id", handlers.WorkResult.Delete)
		}

		// 检验与改进措施
		inspections := v1.Group("/inspections")
		{
			inspections.GET("", handlers.Inspection.List)
			inspections.POST("", handlers.Inspection.Create)
			inspections.GET("/:id", handlers.Inspection.Get)
			inspections.PUT("/:id", handlers.Inspection.Update)
			inspections.DELETE("/:id", handlers.Inspection.Delete)
			inspections.GET("/:id/actions", handlers.Inspection.ListActions)
			inspections.POST("/:id/actions", handlers.Inspection.CreateAction)
			inspections.PUT("/:id/actions/:actionId", handlers.Inspection.UpdateAction)
			inspections.DELETE("/:id/actions/:actionId", handlers.Inspection.DeleteAction)
		}

		// 量检具与校准
		gauges := v1.Group("/gauges")
		{
			gauges.GET("", handlers.Gauge.List)
			gauges.POST("", handlers.Gauge.Create)
			gauges.GET("/:id", handlers.Gauge.Get)
			gauges.PUT("/:id", handlers.Gauge.Update)
			gauges.DELETE("/:id", handlers.Gauge.Delete)
			gauges.POST("/:id/toggle-active", handlers.Gauge.ToggleActive)
			gauges.POST("/:id/calibrations", handlers.Gauge.RecordCalibration)
		}

		// 设备
		equipments := v1.Group("/equipments")
		{
			equipments.GET("", handlers.Maintenance.ListEquipment)
			equipments.POST("", handlers.Maintenance.CreateEquipment)
			equipments.GET("/:id", handlers.Maintenance.GetEquipment)
			equipments.PUT("/:id", handlers.Maintenance.UpdateEquipment)
			equipments.DELETE("/:id", handlers.Maintenance.DeleteEquipment)
			equipments.POST("/:id/toggle-active", handlers.Maintenance.ToggleEquipmentActive)
		}

		// 维修单
		maintenanceOrders := v1.Group("/maintenance-orders")
		{
			maintenanceOrders.GET("", handlers.Maintenance.ListOrders)
			maintenanceOrders.POST("", handlers.Maintenance.CreateOrder)
			maintenanceOrders.GET("/:id", handlers.Maintenance.GetOrder)
			maintenanceOrders.PUT("/:id", handlers.Maintenance.UpdateOrder)
			maintenanceOrders.DELETE("/:id", handlers.Maintenance.DeleteOrder)
		}

		// 操作日志
		activityLogs := v1.Group("/activity-logs")
		{
			activityLogs.GET("", handlers.ActivityLog.List)
			activityLogs.GET("/entity", handlers.ActivityLog.ListByEntity)
		}

		// 仪表盘
		dashboard := v1.Group("/dashboard")
		{
			dashboard.GET("/summary", handlers.Dashboard.Summary)
			dashboard.GET("/export/work-results", handlers.Dashboard.ExportWorkResults)
		}

		// 附件
		attachments := v1.Group("/attachments")
		{
			attachments.GET("", handlers.Attachment.ListByEntity)
			attachments.POST("", handlers.Attachment.Upload)
			attachments.GET("/:id/download", handlers.Attachment.Download)
			attachments.DELETE("/:id", handlers.Attachment.Delete)
		}
	}
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
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}
	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
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
