package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stockwatch/backend/internal/application/inventory"
	"github.com/stockwatch/backend/internal/infrastructure/config"
	"github.com/stockwatch/backend/internal/infrastructure/logger"
	"github.com/stockwatch/backend/internal/infrastructure/persistence"
	"github.com/stockwatch/backend/internal/infrastructure/productapi"
	"github.com/stockwatch/backend/internal/interfaces/http/handler"
	"github.com/stockwatch/backend/internal/interfaces/http/middleware"
	"github.com/stockwatch/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("name", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Product repository client
	productClient, err := productapi.NewClient(&productapi.Config{
		BaseURL:        cfg.ProductAPI.BaseURL,
		TimeoutSeconds: cfg.ProductAPI.TimeoutSeconds,
		APIKey:         cfg.ProductAPI.APIKey,
	})
	if err != nil {
		log.Fatal("Failed to create product API client", zap.Error(err))
	}
	log.Info("Product API client ready", zap.String("base_url", cfg.ProductAPI.BaseURL))

	// Application services
	alertService := inventory.NewAlertService(productClient, log.Named("alerts"))
	thresholdService := inventory.NewThresholdService(productClient, alertService, log.Named("thresholds"))

	// Threshold audit store. The service runs without it when disabled or
	// when the database cannot be opened.
	var db *persistence.Database
	if cfg.Audit.Enabled {
		gormLogger := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
		db, err = persistence.NewDatabaseWithLogger(&cfg.Database, gormLogger)
		if err != nil {
			log.Warn("Audit database unavailable, threshold edits will not be recorded", zap.Error(err))
		} else {
			if err := db.Migrate(); err != nil {
				log.Fatal("Failed to migrate audit database", zap.Error(err))
			}
			defer func() { _ = db.Close() }()
			thresholdService.WithRecorder(persistence.NewGormThresholdChangeRepository(db))
			log.Info("Threshold audit store ready", zap.String("driver", cfg.Database.Driver))
		}
	}

	// HTTP handlers
	inventoryHandler := handler.NewInventoryHandler(alertService, thresholdService)
	systemHandler := handler.NewSystemHandler()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack in order: request ID, recovery, logging, security
	// headers, CORS, body limit.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(inventoryHandler)
	r.Register(systemHandler)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports process liveness and, when the audit store is
// configured, its connectivity. A missing audit store is not unhealthy;
// alerting works without it.
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		}

		if db != nil {
			if err := db.Ping(); err != nil {
				logger.GetGinLogger(c).Warn("Health check failed", zap.Error(err))
				status["status"] = "unhealthy"
				status["audit_store"] = "error"
				c.JSON(http.StatusServiceUnavailable, status)
				return
			}
			status["audit_store"] = "ok"
		}

		c.JSON(http.StatusOK, status)
	}
}
