package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kle310/EV-ChargeMate/internal/api/chargepoint"
	"github.com/kle310/EV-ChargeMate/internal/api/handlers"
	"github.com/kle310/EV-ChargeMate/internal/cache"
	"github.com/kle310/EV-ChargeMate/internal/config"
	"github.com/kle310/EV-ChargeMate/internal/repository"
	"github.com/kle310/EV-ChargeMate/internal/service"
	"github.com/kle310/EV-ChargeMate/pkg/ws"
)

func main() {
	// load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// init logging
	logger := initLogger(cfg.Debug)
	defer logger.Sync()

	logger.Info("Starting EV-ChargeMate", zap.String("port", cfg.ServerPort))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// connect database
	db, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect database", zap.Error(err))
	}
	defer db.Close()

	// run migrations
	if err := db.Migrate(ctx); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	logger.Info("Database migrated successfully")

	// repositories
	stationRepo := repository.NewStationRepository(db)
	statusRepo := repository.NewStatusRepository(db)

	// redis live status cache; the app runs without it
	var liveCache *cache.LiveStatusStore
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unavailable, live status cache disabled", zap.Error(err))
	} else {
		liveCache = cache.NewLiveStatusStore(redisClient, cfg.LiveStatusTTL)
	}

	// vendor status API client
	vendorClient := chargepoint.NewClient(cfg.StatusAPIHost, cfg.VendorHeaders())

	// WebSocket hub
	wsHub := ws.NewHub(logger)
	go wsHub.Run()

	// services
	stationService := service.NewStationService(cfg, logger, stationRepo, statusRepo, liveCache)
	poller := service.NewPoller(cfg, logger, vendorClient, stationRepo, statusRepo, liveCache, wsHub)

	// snapshot for freshly connected websocket clients
	wsHub.SetInitDataProvider(func() *ws.InitData {
		snapCtx, snapCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer snapCancel()

		stations, err := stationRepo.ListActive(snapCtx)
		if err != nil {
			logger.Warn("Failed to snapshot stations for init data", zap.Error(err))
			return nil
		}
		return &ws.InitData{
			Stations: stations,
			States:   poller.States(),
		}
	})

	// start polling when a vendor endpoint is configured
	if cfg.StatusAPIHost != "" {
		poller.Start(ctx)
	} else {
		logger.Warn("STATUS_API_HOST not set, polling disabled")
	}

	// HTTP handler
	handler := handlers.NewHandler(logger, stationRepo, stationService, wsHub)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("addr", server.Addr))

	// wait for exit signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	poller.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// initLogger sets up zap for the selected environment.
func initLogger(debug bool) *zap.Logger {
	var config zap.Config
	if debug {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
	}

	logger, _ := config.Build()
	return logger
}

// corsMiddleware CORS middleware
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
