package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-vehicles/internal/application"
	"github.com/Kilat-Pet-Delivery/service-vehicles/internal/clients/maps"
	"github.com/Kilat-Pet-Delivery/service-vehicles/internal/clients/pricing"
	"github.com/Kilat-Pet-Delivery/service-vehicles/internal/config"
	vehicleEvents "github.com/Kilat-Pet-Delivery/service-vehicles/internal/events"
	"github.com/Kilat-Pet-Delivery/service-vehicles/internal/handler"
	"github.com/Kilat-Pet-Delivery/service-vehicles/internal/platform/database"
	"github.com/Kilat-Pet-Delivery/service-vehicles/internal/platform/health"
	"github.com/Kilat-Pet-Delivery/service-vehicles/internal/platform/kafka"
	"github.com/Kilat-Pet-Delivery/service-vehicles/internal/platform/logger"
	"github.com/Kilat-Pet-Delivery/service-vehicles/internal/platform/middleware"
	"github.com/Kilat-Pet-Delivery/service-vehicles/internal/platform/tracing"
	"github.com/Kilat-Pet-Delivery/service-vehicles/internal/repository"
)

const serviceName = "service-vehicles"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-vehicles",
		zap.String("port", cfg.Port),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.Init(ctx, cfg.TracingConfig, serviceName, cfg.AppEnv, log)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}

	// Connect to database
	dbConfig := database.PostgresConfig{
		Host:     cfg.DBConfig.Host,
		Port:     cfg.DBConfig.Port,
		User:     cfg.DBConfig.User,
		Password: cfg.DBConfig.Password,
		DBName:   cfg.DBConfig.DBName,
		SSLMode:  cfg.DBConfig.SSLMode,
	}
	db, err := database.Connect(dbConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(&repository.VehicleModel{}); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(dbConfig.DatabaseURL(), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	vehicleRepo := repository.NewGormVehicleRepository(db)

	priceClient := pricing.NewClient(cfg.PricingConfig.BaseURL, cfg.PricingConfig.Timeout,
		pricing.WithRateLimit(cfg.PricingConfig.RateLimit, cfg.PricingConfig.Burst),
	)
	mapsClient := maps.NewClient(cfg.MapsConfig.BaseURL, cfg.MapsConfig.Timeout,
		maps.WithRateLimit(cfg.MapsConfig.RateLimit, cfg.MapsConfig.Burst),
	)

	vehicleService := application.NewVehicleService(
		vehicleRepo,
		priceClient,
		mapsClient,
		kafkaProducer,
		log,
	)

	groupID := cfg.KafkaConfig.GroupPrefix + "vehicle-service"
	locationConsumer := vehicleEvents.NewLocationReportConsumer(
		cfg.KafkaConfig.Brokers,
		groupID,
		vehicleService,
		log,
	)
	defer func() { _ = locationConsumer.Close() }()

	go func() {
		log.Info("starting location report consumer")
		if err := locationConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("location report consumer error", zap.Error(err))
		}
	}()

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(otelgin.Middleware(serviceName))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	health.NewHandler(db, serviceName).RegisterRoutes(router)
	handler.NewVehicleHandler(vehicleService).RegisterRoutes(router)

	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-vehicles...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("failed to flush traces", zap.Error(err))
	}

	log.Info("service-vehicles stopped")
}
