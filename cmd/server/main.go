package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	natsAdapter "github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/messaging/nats"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/repository/cache"
	mongoRepo "github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/repository/mongodb"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/rest"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/storage/s3"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/listing/usecase"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/mailer"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/tracer"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "path to a config file or directory")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Printf("INFO: .env file not found or error loading: %v. Relying on OS environment variables.\n", err)
	}

	appLogger := logger.NewLogger(nil)
	if err := run(*configPath, appLogger); err != nil {
		appLogger.Error("Application stopped with error", zap.Error(err))
		_ = appLogger.Sync()
		os.Exit(1)
	}
	appLogger.Info("Application shut down")
	_ = appLogger.Sync()
}

func run(configPath string, appLogger *logger.Logger) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	appLogger = appLogger.With(zap.String("service_name", cfg.ServiceName))
	if cfg.InsecureSecret() {
		appLogger.Warn("auth.jwt_secret is unset or left at its default; protected routes accept tokens signed with it")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp := tracer.InitTracer(cfg.ServiceName, cfg.Tracing.OTLPEndpoint, appLogger)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}()

	mongoClient, err := mongoRepo.Connect(ctx, cfg.Mongo)
	if err != nil {
		return fmt.Errorf("connect to mongodb: %w", err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			appLogger.Error("Error disconnecting from MongoDB", zap.Error(err))
		}
	}()
	appLogger.Info("Connected to MongoDB", zap.String("database", cfg.Mongo.Database))
	repo := mongoRepo.NewListingRepository(mongoClient.Database(cfg.Mongo.Database), cfg.Mongo.QueryTimeout, appLogger)

	metricsManager := metrics.NewMetricsManager(cfg.Metrics.Namespace)
	deps := usecase.ListingDeps{Metrics: metricsManager}

	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect to redis at %s: %w", cfg.Redis.Address, err)
		}
		defer redisClient.Close()
		deps.Cache = cache.NewListingCache(redisClient, cfg.Redis.TTL, appLogger)
		appLogger.Info("Listing cache enabled", zap.String("address", cfg.Redis.Address))
	} else {
		appLogger.Info("Listing cache disabled (redis.address not set)")
	}

	if cfg.Minio.Endpoint != "" {
		storage, err := s3.NewS3Storage(ctx, cfg.Minio, appLogger)
		if err != nil {
			return fmt.Errorf("initialize image storage at %s: %w", cfg.Minio.Endpoint, err)
		}
		deps.Storage = storage
	} else {
		appLogger.Warn("Image storage disabled (minio.endpoint not set); uploads will be rejected")
	}

	if cfg.NATS.URL != "" {
		publisher, err := natsAdapter.NewPublisher(cfg.NATS.URL, cfg.NATS.ConnectTimeout, cfg.ServiceName, appLogger)
		if err != nil {
			return fmt.Errorf("initialize nats publisher: %w", err)
		}
		defer publisher.Close()
		deps.Events = publisher
	} else {
		appLogger.Info("Listing events disabled (nats.url not set)")
	}

	if cfg.SMTP.Host != "" {
		deps.Notifier = mailer.NewSMTPMailer(cfg.SMTP)
		appLogger.Info("Admin notifications enabled", zap.Int("recipients", len(cfg.SMTP.AdminEmails)))
	}

	listingUC := usecase.NewListingUsecase(repo, deps, appLogger)

	searchCategories, err := cfg.SearchCategories()
	if err != nil {
		return err
	}
	searchUC, err := usecase.NewSearchUsecase(repo, searchCategories, cfg.Search.PartialResults, metricsManager, appLogger)
	if err != nil {
		return fmt.Errorf("initialize search: %w", err)
	}

	health := func(ctx context.Context) error {
		return mongoClient.Ping(ctx, readpref.Primary())
	}
	handler := rest.NewHandler(listingUC, searchUC, health, cfg.HTTP.MaxUploadBytes, cfg.Auth.AdminRole, appLogger)
	router := rest.NewRouter(rest.RouterConfig{
		ServiceName:    cfg.ServiceName,
		JWTSecret:      cfg.Auth.JWTSecret,
		AdminRole:      cfg.Auth.AdminRole,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Metrics:        metricsManager,
	}, handler, appLogger)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLogger.Info("Starting HTTP server", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return metrics.StartMetricsServer(gctx, cfg.Metrics.Port, appLogger, metricsManager)
	})
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
