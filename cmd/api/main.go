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

	_ "worksync/api/swagger" // swagger docs
	"worksync/internal/cache"
	"worksync/internal/config"
	"worksync/internal/database"
	"worksync/internal/events"
	"worksync/internal/handler"
	"worksync/internal/middleware"
	"worksync/internal/repository"
	"worksync/internal/service"
	"worksync/internal/telemetry"
	"worksync/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// @title           WorkSync API
// @version         1.0
// @description     Office services portal: requests, suggestions and inventory.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	shutdownTelemetry := telemetry.Setup(cfg.Telemetry, "worksync-api")
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(ctx)
	}()

	db, err := database.NewConnection(cfg.DB)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Printf("Connected to %s successfully.", cfg.DB.Driver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis backs the token blacklist and the product cache when configured
	var blacklist cache.TokenBlacklist = cache.NewMemoryBlacklist()
	var productCache cache.ProductCache = cache.NopProductCache{}
	if cfg.Redis.Addr != "" {
		rc := cache.NewRedisClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rc.Ping(ctx); err != nil {
			log.Printf("WARNING: Redis unavailable, using in-process fallbacks: %v", err)
		} else {
			defer func() { _ = rc.Close() }()
			blacklist = cache.NewRedisBlacklist(rc)
			productCache = cache.NewRedisProductCache(rc, cfg.Redis.ProductCacheTTL)
			log.Println("Connected to Redis successfully.")
		}
	}

	// shared so request deliveries and catalog edits bump the same generation
	guardedProducts := cache.NewGuardedProductCache(productCache)

	var natsClient *events.NATSClient
	if cfg.NATS.URL != "" {
		nc, err := nats.Connect(cfg.NATS.URL)
		if err != nil {
			log.Printf("WARNING: NATS unavailable, change events stay local: %v", err)
		} else {
			defer nc.Close()
			natsClient = events.NewNATSClient(nc, cfg.NATS.Subject)
		}
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run(ctx)
	notifier := events.NewNotifier(wsHub, natsClient)

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	apiKeyRepo := repository.NewAPIKeyRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	productRepo := repository.NewProductRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	suggestionRepo := repository.NewSuggestionRepository(db)

	userService := service.NewUserService(userRepo, apiKeyRepo, auditRepo, txManager, blacklist, cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
	requestService := service.NewRequestService(requestRepo, productRepo, userRepo, auditRepo, txManager, guardedProducts, notifier)
	suggestionService := service.NewSuggestionService(suggestionRepo, userRepo, auditRepo, txManager, notifier)
	inventoryService := service.NewInventoryService(productRepo, auditRepo, txManager, guardedProducts, notifier)
	auditService := service.NewAuditService(auditRepo)
	analyticsService := service.NewAnalyticsService(requestRepo, suggestionRepo)

	if cfg.Auth.SeedAdminUsername != "" {
		if err := userService.EnsureAdmin(ctx, cfg.Auth.SeedAdminUsername, cfg.Auth.SeedAdminPassword); err != nil {
			log.Fatalf("Failed to seed admin account: %v", err)
		}
	}

	auth := middleware.NewAuth(cfg.Auth.JWTSecret, blacklist, apiKeyRepo)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService, cfg.Auth.AccessTokenTTL, cfg.SecureCookies)
	requestHandler := handler.NewRequestHandler(requestService)
	suggestionHandler := handler.NewSuggestionHandler(suggestionService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	auditHandler := handler.NewAuditHandler(auditService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", middleware.APIKeyHeader}
	corsConfig.ExposeHeaders = []string{middleware.ExpiredHeader}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, auth.CheckWebsocketToken)
	})

	userHandler.RegisterPublicRoutes(router.Group(""))

	api := router.Group("")
	api.Use(auth.Authenticate())
	userHandler.RegisterRoutes(api)
	requestHandler.RegisterRoutes(api)
	suggestionHandler.RegisterRoutes(api)
	inventoryHandler.RegisterRoutes(api)
	auditHandler.RegisterRoutes(api)
	analyticsHandler.RegisterRoutes(api)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(router, "worksync-api"),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
