package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "posbackend/api/swagger" // swagger docs
	"posbackend/internal/config"
	"posbackend/internal/database"
	"posbackend/internal/handler"
	"posbackend/internal/logger"
	"posbackend/internal/middleware"
	"posbackend/internal/repository"
	"posbackend/internal/service"
	"posbackend/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           POS Tax API
// @version         1.0
// @description     Tax rates, exemptions and order tax calculation for point-of-sale terminals.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load("configs/.env")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	defer func() { _ = zapLogger.Sync() }()
	sugar := zapLogger.Sugar()

	db, err := database.NewConnection(cfg.Database.DSN(), sugar)
	if err != nil {
		sugar.Fatalw("Database connection failed", "error", err)
	}
	sugar.Infow("Connected to PostgreSQL", "host", cfg.Database.Host, "database", cfg.Database.Name)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(sugar.Named("ws"))
	go wsHub.Run(ctx)

	secret := []byte(cfg.JWT.Secret)

	// Set up dependencies (Repository -> Service -> Handler)
	rateRepo := repository.NewTaxRateRepository(db)
	exemptionRepo := repository.NewTaxExemptionRepository(db)
	orderTaxRepo := repository.NewOrderTaxRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	txManager := repository.NewTransactionManager(db)

	catalog := service.NewTaxCatalog(rateRepo, exemptionRepo, cfg.Tax.CacheTTL, sugar.Named("tax_catalog"))
	taxService := service.NewTaxService(rateRepo, exemptionRepo, auditRepo, catalog, wsHub, sugar.Named("tax"))
	orderTaxService := service.NewOrderTaxService(catalog, orderTaxRepo, txManager, cfg.Tax.PersistTimeout, sugar.Named("order_tax"))
	auditService := service.NewAuditService(auditRepo)

	// Initialize Handlers
	taxHandler := handler.NewTaxHandler(taxService, orderTaxService, secret)
	auditHandler := handler.NewAuditHandler(auditService, secret)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(zapLogger.Named("http")))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORS.AllowOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", middleware.BusinessHeader, "X-Request-ID"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, secret)
	})

	taxHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		sugar.Infow("Server listening", "port", cfg.App.Port, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("Server failed", "error", err)
		}
	}()

	<-ctx.Done()
	sugar.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("Graceful shutdown failed", "error", err)
	}

	// let in-flight order tax recordings finish
	orderTaxService.Wait()
	sugar.Info("Server stopped")
}
