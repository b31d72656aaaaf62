package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	appauditlog "github.com/agentaudit/auditgate/pkg/app/auditlog"
	"github.com/agentaudit/auditgate/pkg/app/auditor"
	"github.com/agentaudit/auditgate/pkg/app/pipeline"
	"github.com/agentaudit/auditgate/pkg/app/worker"
	"github.com/agentaudit/auditgate/pkg/config"
	domaintelemetry "github.com/agentaudit/auditgate/pkg/domain/telemetry"
	handlers "github.com/agentaudit/auditgate/pkg/handlers/http"
	wshandlers "github.com/agentaudit/auditgate/pkg/handlers/websocket"
	"github.com/agentaudit/auditgate/pkg/infra/broadcast"
	infraCache "github.com/agentaudit/auditgate/pkg/infra/cache"
	"github.com/agentaudit/auditgate/pkg/infra/cache/channel"
	"github.com/agentaudit/auditgate/pkg/infra/cache/event"
	"github.com/agentaudit/auditgate/pkg/infra/cache/subscriber"
	"github.com/agentaudit/auditgate/pkg/infra/database"
	"github.com/agentaudit/auditgate/pkg/infra/httpx"
	"github.com/agentaudit/auditgate/pkg/infra/jwt"
	infraLogger "github.com/agentaudit/auditgate/pkg/infra/logger"
	_ "github.com/agentaudit/auditgate/pkg/infra/migrations"
	"github.com/agentaudit/auditgate/pkg/infra/providers"
	"github.com/agentaudit/auditgate/pkg/infra/providers/factory"
	"github.com/agentaudit/auditgate/pkg/infra/repository"
	"github.com/agentaudit/auditgate/pkg/infra/retry"
	"github.com/agentaudit/auditgate/pkg/infra/telemetry"
	"github.com/agentaudit/auditgate/pkg/infra/telemetry/kafka"
	"github.com/agentaudit/auditgate/pkg/middleware"
	"github.com/agentaudit/auditgate/pkg/server"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const breakerTimeout = 30 * time.Second
const breakerMaxFailures = 5

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	logger := infraLogger.NewLogger("auditgate")

	if err := config.Load("./config"); err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	cfg := config.GetConfig()

	db, err := database.NewDB(logger, &database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	instanceID := uuid.NewString()
	hub := broadcast.NewHub(logger, cfg.Stream.BufferSize)

	// Redis pubsub relays records between instances; without it, fan-out
	// is local only.
	var redisPublisher infraCache.EventPublisher
	if cfg.Redis.Enabled {
		cacheClient, err := infraCache.NewClient(infraCache.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if err != nil {
			logger.Fatalf("Failed to initialize redis: %v", err)
		}
		defer cacheClient.Close()

		redisPublisher = infraCache.NewRedisEventPublisher(cacheClient, channel.AuditEventsChannel)

		redisListener := infraCache.NewRedisEventListener(logger, cacheClient, event.Registry)
		auditLogCreatedSubscriber := subscriber.NewAuditLogCreatedEventSubscriber(logger, hub, instanceID)
		infraCache.RegisterEventSubscriber[event.AuditLogCreatedEvent](redisListener, auditLogCreatedSubscriber)

		go func() {
			fmt.Println("starting listening redis events...")
			redisListener.Listen(ctx, channel.AuditEventsChannel)
		}()
	}

	fanout := broadcast.NewFanoutPublisher(logger, hub, redisPublisher, instanceID)

	// providers
	providerFactory := factory.NewProviderFactory()
	workerProvider, err := providerFactory.Build(cfg.Providers.Worker.Provider)
	if err != nil {
		logger.Fatalf("Failed to build worker provider: %v", err)
	}
	auditorProvider, err := providerFactory.Build(cfg.Providers.Auditor.Provider)
	if err != nil {
		logger.Fatalf("Failed to build auditor provider: %v", err)
	}

	policy := retry.Policy{
		MaxAttempts: cfg.Retry.MaxAttempts,
		BaseDelay:   cfg.Retry.BaseDelay,
	}

	workerClient := worker.NewClient(
		logger,
		workerProvider,
		providerConfig(cfg.Providers.Worker),
		policy,
		httpx.NewCircuitBreaker("worker", breakerTimeout, breakerMaxFailures),
	)
	auditorClient := auditor.NewClient(
		logger,
		auditorProvider,
		providerConfig(cfg.Providers.Auditor),
		policy,
		httpx.NewCircuitBreaker("auditor", breakerTimeout, breakerMaxFailures),
	)

	// repository
	auditLogRepository := repository.NewAuditLogRepository(db.DB)

	// services
	auditPipeline := pipeline.NewAuditPipeline(logger, workerClient, auditorClient, auditLogRepository, fanout)
	summarizer := appauditlog.NewSummarizer(logger, auditLogRepository)
	jwtManager := jwt.NewJwtManager(&cfg.Server)

	// telemetry exporters drain the hub in the background
	exporters := buildExporters(logger, cfg)
	dispatcher := telemetry.NewDispatcher(logger, hub, exporters)
	go dispatcher.Run(ctx)

	// middleware
	middlewareTransport := middleware.Transport{
		PanicRecoverMiddleware:  middleware.NewPanicRecoverMiddleware(logger),
		RequestLoggerMiddleware: middleware.NewRequestLoggerMiddleware(logger),
		AdminAuthMiddleware:     middleware.NewAdminAuthMiddleware(logger, jwtManager),
	}

	// Handler Transport
	handlerTransport := handlers.HandlerTransport{
		ProcessAuditHandler:    handlers.NewProcessAuditHandler(logger, auditPipeline),
		ListAuditLogsHandler:   handlers.NewListAuditLogsHandler(logger, auditLogRepository),
		GetAuditSummaryHandler: handlers.NewGetAuditSummaryHandler(logger, summarizer),
		GetVersionHandler:      handlers.NewGetVersionHandler(logger),
	}

	wsHandlerTransport := wshandlers.HandlerTransport{
		StreamAuditLogsHandler: wshandlers.NewStreamAuditLogsHandler(logger, hub),
	}

	srv := server.NewAPIServer(server.APIServerDI{
		MiddlewareTransport: middlewareTransport,
		HandlerTransport:    handlerTransport,
		WSHandlerTransport:  wsHandlerTransport,
		Config:              cfg,
		Logger:              logger,
	})

	go func() {
		if err := srv.Run(); err != nil {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	fmt.Println("shutting down server...")
	cancel()
	hub.Close()
	if err := srv.Shutdown(); err != nil {
		fmt.Println("error shutting down server:", err)
		os.Exit(1)
	}
	fmt.Println("server gracefully stopped")
}

func providerConfig(cfg config.ProviderConfig) providers.Config {
	return providers.Config{
		Credentials: providers.Credentials{
			ApiKey: cfg.APIKey,
		},
		Model:       cfg.Model,
		BaseURL:     cfg.BaseURL,
		MaxTokens:   int(cfg.MaxTokens),
		Temperature: cfg.Temperature,
	}
}

func buildExporters(logger *logrus.Logger, cfg *config.Config) []domaintelemetry.Exporter {
	locator := telemetry.NewExporterLocator(
		telemetry.WithExporter(kafka.ExporterName, kafka.NewKafkaExporter()),
	)

	var exporters []domaintelemetry.Exporter
	for _, exporterCfg := range cfg.Telemetry.Exporters {
		exporter, err := locator.GetExporter(exporterCfg)
		if err != nil {
			logger.WithError(err).WithField("exporter", exporterCfg.Name).
				Error("skipping misconfigured telemetry exporter")
			continue
		}
		exporters = append(exporters, exporter)
	}
	return exporters
}
