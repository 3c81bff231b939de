package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jdgroup-ug/storefront/clients/platform"
	"github.com/jdgroup-ug/storefront/config"
	"github.com/jdgroup-ug/storefront/controllers"
	"github.com/jdgroup-ug/storefront/logger"
	"github.com/jdgroup-ug/storefront/routes"
	"github.com/jdgroup-ug/storefront/services"
	"github.com/jdgroup-ug/storefront/session"
	"github.com/jdgroup-ug/storefront/storage"
)

func main() {
	cfg := config.Load()

	logger.Initialize(cfg.Env)
	defer logger.Log.Sync()

	client := platform.New(cfg.PlatformURL, cfg.PlatformAnonKey, cfg.RequestTimeout)

	// Session tokens persist in Redis when configured; otherwise sessions
	// live in process memory and die with it.
	tokens := session.NewMemoryTokenStore()
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient := redis.NewClient(opts)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("failed to connect to Redis: %v", err)
		}
		tokens = session.NewRedisTokenStore(redisClient)
		logger.Log.Info("connected to Redis")
	}

	store, err := storage.New(context.Background(), storage.Options{
		Endpoint:      cfg.StorageEndpoint,
		Region:        cfg.StorageRegion,
		AccessKey:     cfg.StorageAccessKey,
		SecretKey:     cfg.StorageSecretKey,
		PublicBaseURL: cfg.StoragePublicURL,
	})
	if err != nil {
		log.Fatalf("failed to init storage: %v", err)
	}

	registry := session.NewRegistry(client, tokens, cfg.SessionTTL)
	catalog := services.NewCatalog(client)
	careers := services.NewCareers(store, client)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())

	routes.RegisterRoutes(r, routes.Deps{
		Registry:  registry,
		Auth:      controllers.NewAuthController(client, registry, cfg.Env == "production"),
		Products:  controllers.NewProductController(catalog),
		Cart:      controllers.NewCartController(),
		Favorites: controllers.NewFavoritesController(),
		Search:    controllers.NewSearchController(catalog),
		Careers:   controllers.NewCareersController(careers),
		Profile:   controllers.NewProfileController(client),
	})

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}

	go func() {
		logger.Log.Info("storefront listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("shutdown error", zap.Error(err))
	}
}
