package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/estatehub/estatehub-backend/internal/config"
	"github.com/estatehub/estatehub-backend/internal/database"
	"github.com/estatehub/estatehub-backend/internal/domain"
	"github.com/estatehub/estatehub-backend/internal/events"
	"github.com/estatehub/estatehub-backend/internal/gateway"
	"github.com/estatehub/estatehub-backend/internal/handler"
	"github.com/estatehub/estatehub-backend/internal/middleware"
	"github.com/estatehub/estatehub-backend/internal/migration"
	"github.com/estatehub/estatehub-backend/internal/repository"
	"github.com/estatehub/estatehub-backend/internal/routes"
	"github.com/estatehub/estatehub-backend/internal/search"
	"github.com/estatehub/estatehub-backend/internal/service"
	pkgcache "github.com/estatehub/estatehub-backend/pkg/cache"
	pkges "github.com/estatehub/estatehub-backend/pkg/elasticsearch"
	"github.com/estatehub/estatehub-backend/pkg/jwt"
	pkglogger "github.com/estatehub/estatehub-backend/pkg/logger"
	pkgredis "github.com/estatehub/estatehub-backend/pkg/redis"
	pkgstorage "github.com/estatehub/estatehub-backend/pkg/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// @title           EstateHub Marketplace API
// @version         1.0
// @description     Property listings, search, enquiries and pay-to-publish moderation
//
// @license.name    MIT
//
// @host            localhost:8080
// @BasePath        /api
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	configPath := config.ConfigPath()
	pkglogger.Info("Loading config from: %s", configPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	config.LogResolved(cfg)

	db, err := database.Open(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	pkglogger.Info("Connected to %s", cfg.Database.Driver)
	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	redisClient, cacheService := initRedis(cfg)
	indexer := initSearch(cfg)
	store := initStorage(cfg)
	publisher := initPublisher(cfg)
	defer func() { _ = publisher.Close() }()

	var paymentGateway gateway.PaymentGateway
	razorpay := gateway.NewRazorpay(gateway.RazorpayConfig{
		KeyID:     cfg.Payment.KeyID,
		KeySecret: cfg.Payment.KeySecret,
		BaseURL:   cfg.Payment.BaseURL,
		Timeout:   10 * time.Second,
	})
	if razorpay.Configured() {
		paymentGateway = razorpay
	} else {
		pkglogger.Warn("Payment gateway credentials missing; pay-to-publish disabled")
	}

	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn, cfg.JWT.RefreshIn)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	allowOrigins := config.SplitAndTrim(cfg.CORS.AllowOrigins, ",")
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining"},
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.BodyLimit(cfg.Media.MaxRequestBody()))
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", healthHandler(db, redisClient))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if local, ok := store.(*pkgstorage.LocalStorage); ok && cfg.Storage.LocalURL != "" {
		router.Static(cfg.Storage.LocalURL, local.Root())
	}

	mediaRules := domain.MediaRules{
		domain.MediaImage: {MaxSize: cfg.Media.MaxImageSize, Extensions: cfg.Media.ImageExtensions},
		domain.MediaVideo: {MaxSize: cfg.Media.MaxVideoSize, Extensions: cfg.Media.VideoExtensions},
	}

	authService := service.NewAuthService(repository.NewUserRepository(db), jwtManager, cacheService)
	userService := service.NewUserService(db, store, publisher, indexer)
	listingService := service.NewListingService(db, store, cacheService, publisher, indexer)
	moderationService := service.NewModerationService(db, publisher, indexer)
	paymentService := service.NewPaymentService(db, paymentGateway,
		service.ListingFee{Amount: cfg.Payment.ListingFee, Currency: cfg.Payment.Currency}, publisher, indexer)
	mediaService := service.NewMediaService(db, store, mediaRules)
	enquiryService := service.NewEnquiryService(db, publisher)
	wishlistService := service.NewWishlistService(db)
	analyticsService := service.NewAnalyticsService(db, cacheService)

	routes.Setup(router, routes.Handlers{
		Auth:     handler.NewAuthHandler(authService, jwtManager.AccessTTL(), jwtManager.RefreshTTL(), !cfg.IsDevelopment()),
		User:     handler.NewUserHandler(userService),
		Listing:  handler.NewListingHandler(listingService),
		Media:    handler.NewMediaHandler(mediaService),
		Enquiry:  handler.NewEnquiryHandler(enquiryService),
		Wishlist: handler.NewWishlistHandler(wishlistService),
		Payment:  handler.NewPaymentHandler(paymentService),
		Admin:    handler.NewAdminHandler(moderationService, userService, analyticsService),
	}, jwtManager, redisClient, cfg.RateLimit)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		pkglogger.Info("Server starting on %s (env: %s)", srv.Addr, cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	pkglogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		pkglogger.Warn("Server forced to shutdown: %v", err)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// initRedis returns nil values when Redis is disabled or unreachable; rate
// limiting and caching are then skipped.
func initRedis(cfg *config.Config) (*redis.Client, pkgcache.Service) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}
	client, err := pkgredis.NewClient(pkgredis.Options{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		pkglogger.Warn("Failed to connect to Redis: %v (continuing without Redis)", err)
		return nil, nil
	}
	pkglogger.Info("Connected to Redis")
	return client, pkgcache.NewService(client)
}

func initSearch(cfg *config.Config) search.Indexer {
	if !cfg.Elasticsearch.Enabled || len(cfg.Elasticsearch.Addresses) == 0 {
		return search.Nop{}
	}
	client, err := pkges.NewClient(pkges.Config{
		Addresses: cfg.Elasticsearch.Addresses,
		Username:  cfg.Elasticsearch.Username,
		Password:  cfg.Elasticsearch.Password,
	})
	if err != nil {
		pkglogger.Warn("Elasticsearch connection failed: %v (continuing without ES)", err)
		return search.Nop{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	indexer, err := search.NewESIndexer(ctx, client, cfg.Elasticsearch.Index)
	if err != nil {
		pkglogger.Warn("Elasticsearch index setup failed: %v (continuing without ES)", err)
		return search.Nop{}
	}
	pkglogger.Info("Connected to Elasticsearch")
	return indexer
}

func initStorage(cfg *config.Config) pkgstorage.Storage {
	if cfg.Storage.Enabled && cfg.Storage.Bucket != "" {
		s3Client, err := pkgstorage.NewS3Client(pkgstorage.S3Config{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
			CDNURL:          cfg.Storage.CDNURL,
			BasePath:        cfg.Storage.BasePath,
			ForcePathStyle:  cfg.Storage.ForcePathStyle,
		})
		if err == nil {
			pkglogger.Info("Connected to S3 storage")
			return s3Client
		}
		pkglogger.Warn("S3 storage init failed: %v (falling back to local disk)", err)
	}

	local, err := pkgstorage.NewLocalStorage(cfg.Storage.LocalDir, cfg.Storage.LocalURL)
	if err != nil {
		log.Fatalf("Failed to prepare local storage: %v", err)
	}
	return local
}

func initPublisher(cfg *config.Config) events.Publisher {
	if !cfg.Kafka.Enabled || len(cfg.Kafka.Brokers) == 0 {
		return events.NewLogPublisher()
	}
	publisher, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.TopicPrefix)
	if err != nil {
		pkglogger.Warn("Kafka producer init failed: %v (events will only be logged)", err)
		return events.NewLogPublisher()
	}
	pkglogger.Info("Connected to Kafka")
	return publisher
}

func healthHandler(db *gorm.DB, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := gin.H{"database": "ok"}
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			status = http.StatusServiceUnavailable
			checks["database"] = "unreachable"
		}
		if redisClient != nil {
			checks["redis"] = "ok"
			if err := redisClient.Ping(ctx).Err(); err != nil {
				checks["redis"] = "unreachable"
			}
		}

		c.JSON(status, gin.H{
			"status":  http.StatusText(status),
			"service": "estatehub-backend",
			"checks":  checks,
			"time":    time.Now().Unix(),
		})
	}
}
