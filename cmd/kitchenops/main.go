package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kitchenops/internal/api"
	"kitchenops/internal/archive"
	"kitchenops/internal/config"
	"kitchenops/internal/events"
	"kitchenops/internal/gateway"
	"kitchenops/internal/labels"
	"kitchenops/internal/logger"
	"kitchenops/internal/models"
	"kitchenops/internal/monitoring"
	"kitchenops/internal/pantry"
	"kitchenops/internal/store"

	"github.com/gin-gonic/gin"
)

var version = "dev"

var (
	port        = flag.Int("port", 0, "API server port (overrides config)")
	metricsPort = flag.Int("metrics-port", 0, "Metrics server port (overrides config)")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	// Initialize context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *metricsPort != 0 {
		cfg.Server.MetricsPort = *metricsPort
	}

	log := logger.Init(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		ServiceName: "kitchenops",
		Version:     version,
		Environment: cfg.Environment,
		AddSource:   cfg.Log.AddSource,
	})
	if cfg.Environment != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	// Initialize item store
	itemStore, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to open item store: %w", err)
	}
	defer itemStore.Close()

	// Initialize event publishers
	hub := events.NewHub()
	publishers := initializePublishers(cfg.Events, hub, log)
	defer publishers.Close()

	monitor := monitoring.NewMonitor()

	var p *pantry.Pantry
	metrics := monitoring.NewMetricsCollector(func() []models.InventoryItem { return p.Snapshot() }, monitor)

	opts := []pantry.Option{pantry.WithPublisher(publishers), pantry.WithMetrics(monitor)}

	// Initialize AI gateway
	gw, err := gateway.FromConfig(cfg.AI, metrics)
	if err != nil {
		log.Warn("AI gateway disabled", "provider", cfg.AI.Provider, "error", err)
	} else {
		opts = append(opts, pantry.WithAnalyzer(gw), pantry.WithRecipeGenerator(gw))
	}

	if cfg.Archive.S3Bucket != "" {
		arch, err := archive.NewS3Archive(ctx, cfg.Archive.S3Bucket, cfg.Archive.Region, cfg.Archive.Prefix)
		if err != nil {
			log.Warn("Intake photo archive disabled", "error", err)
		} else {
			opts = append(opts, pantry.WithArchiver(arch))
		}
	}

	p = pantry.New(itemStore, opts...)
	p.Load(ctx)

	gen, err := labels.NewGenerator(cfg.Labels.Size, cfg.Labels.CacheSize)
	if err != nil {
		return fmt.Errorf("failed to initialize label generator: %w", err)
	}

	// Initialize API server
	kitchen := api.NewKitchenAPI(p, gen, hub, monitor, api.Options{
		CORSOrigins: cfg.Server.CORSOrigins,
		JWTSecret:   cfg.Auth.JWTSecret,
		TokenTTL:    cfg.Auth.TokenTTL,
		Logger:      log,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           kitchen.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start metrics server
	var metricsServer *http.Server
	if cfg.Server.MetricsPort > 0 {
		metricsServer = startMetricsServer(cfg.Server.MetricsPort, metrics, log)
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting API server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("API server error: %w", err)
		}
	}

	log.Info("Shutting down servers...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("API server shutdown error", "error", err)
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Error("Metrics server shutdown error", "error", err)
		}
	}
	return nil
}

// initializePublishers fans events out to the live feed and any configured broker
func initializePublishers(cfg config.EventsConfig, hub *events.Hub, log *slog.Logger) events.Multi {
	publishers := events.Multi{hub}

	if len(cfg.Kafka.Brokers) > 0 {
		publishers = append(publishers, events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic))
		log.Info("Kafka publisher enabled", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}

	if cfg.AMQP.URL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			log.Warn("RabbitMQ publisher disabled", "error", err)
		} else {
			publishers = append(publishers, amqpPub)
			log.Info("RabbitMQ publisher enabled", "exchange", cfg.AMQP.Exchange)
		}
	}

	return publishers
}

func startMetricsServer(port int, metrics *monitoring.MetricsCollector, log *slog.Logger) *http.Server {
	metricsRouter := gin.New()
	metricsRouter.Use(gin.Recovery())
	metricsRouter.GET("/metrics", gin.WrapH(metrics.Handler()))

	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           metricsRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Starting metrics server", "port", port)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Metrics server error", "error", err)
		}
	}()
	return metricsServer
}
