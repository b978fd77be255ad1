package main

import (
	"context"
	"errors"
	"eyesup/auth"
	"eyesup/domain"
	"eyesup/domain/event"
	grpcserver "eyesup/infrastructure/grpc/server"
	httpserver "eyesup/infrastructure/http/server"
	"eyesup/internal"
	"eyesup/observability"
	"eyesup/projection"
	"eyesup/repositories"
	"eyesup/runtime"
	"eyesup/runtime/workers"
	"eyesup/search"
	"eyesup/services"
	"eyesup/sink"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"
)

// Exit codes to provide meaningful status to the service manager.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

const shutdownTimeout = 10 * time.Second

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Relay terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires every component and owns their lifecycle, so deferred closes
// always execute before the process exits.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Storage (Badger + Bluge)
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	index, err := search.OpenIndex(config.BlugeFilepath, logger)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open bluge index: %w", err)
	}
	defer func() {
		logger.Info("Closing Bluge...")
		_ = index.Close()
	}()

	messageRepository := repositories.NewMessageRepository(db, logger, config.LimitMessages)
	keywordRepository, err := repositories.NewKeywordRepository(db, logger)
	if err != nil {
		return exitRuntime, fmt.Errorf("keyword rules loading failed: %w", err)
	}
	settingsRepository, err := repositories.NewSettingsRepository(db)
	if err != nil {
		return exitRuntime, fmt.Errorf("settings loading failed: %w", err)
	}
	contactRepository := repositories.NewContactRepository(db)
	userRepository := repositories.NewUserRepository(db)

	// 3. Runtime: hub, pipeline and the side sinks
	events := make(chan event.DomainEvent, config.BufferSize)
	hub := runtime.NewHub(logger, config.DeliveryTimeout)
	pipeline := runtime.NewPipeline(logger, messageRepository, hub, keywordRepository, settingsRepository, events)

	timeline := projection.NewTimeline(config.RecentCapacity)
	history, err := messageRepository.List(ctx)
	if err != nil {
		return exitRuntime, fmt.Errorf("history loading failed: %w", err)
	}
	timeline.Seed(history)

	monitoring := observability.NewMonitoringManager(logger)
	fanout := workers.NewEventFanout(logger, events, config.SinkTimeout,
		sink.NewSearchSink(index), timeline, monitoring)

	relayService := services.NewRelayService(pipeline, messageRepository, hub, index, contactRepository)
	preferencesService := services.NewPreferencesService(keywordRepository, settingsRepository, contactRepository)
	voiceService := services.NewVoiceService(logger, pipeline, messageRepository, settingsRepository, timeline)
	issuer := auth.NewTokenIssuer(config.JWTSecret, config.AuthTokenDuration)
	authService := services.NewAuthService(userRepository, issuer, auth.DefaultParams, config.AutoProvision)

	// 4. Supervision
	supervisor := workers.NewSupervisor(logger, config.RestartInterval)
	supervisor.Add(fanout, workers.NewHealthMonitoringWorker(logger, monitoring, hub.Count, config.MetricInterval))

	if config.RedisEnabled() {
		rdb := redis.NewClient(&redis.Options{Addr: config.RedisAddress})
		defer func() { _ = rdb.Close() }()
		fanout.Add(sink.NewRedisSink(rdb, config.RedisChannel, logger))
		supervisor.Add(workers.NewRedisInboundWorker(logger, rdb, config.RedisStream, config.RedisConsumer,
			func(ctx context.Context, cmd domain.IncomingCommand) error {
				_, err := relayService.Incoming(ctx, cmd)
				return err
			}))
		logger.Info("Redis relay enabled", "address", config.RedisAddress, "stream", config.RedisStream, "channel", config.RedisChannel)
	}

	supervisorDone := make(chan struct{})
	go func() {
		supervisor.Run(ctx)
		close(supervisorDone)
	}()

	errChan := make(chan error, 3)

	// 5. Debug inspector
	if logger.Enabled(ctx, slog.LevelDebug) {
		debugServer := internal.NewDebugServer(db, config.DebugAddress, "/inspect", internal.RecordMapper, func() map[string]any {
			stats := monitoring.GetLatest()
			return map[string]any{"channels": stats.LiveChannels, "ingested": stats.MessagesIngested}
		})
		logger.Info("Debug Badger inspector available", "url", fmt.Sprintf("http://%s/inspect", config.DebugAddress))
		go func() { _ = debugServer.ListenAndServe() }()
		defer func() { _ = debugServer.Close() }()
	}

	// 6. gRPC health
	healthServer := grpcserver.NewHealthServer(logger)
	grpcServer := grpcserver.NewGRPCServer(logger, healthServer)
	listener, err := net.Listen("tcp", config.GRPCAddress)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to listen on %s: %w", config.GRPCAddress, err)
	}
	go func() {
		logger.Info("Starting gRPC health server", "address", config.GRPCAddress)
		if err := grpcServer.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	// 7. HTTP API and live stream
	relayServer := httpserver.NewRelayServer(logger, httpserver.Options{
		ConnectionBufferSize: config.ConnectionBufferSize,
		WriteTimeout:         config.WriteTimeout,
		PongTimeout:          config.PongTimeout,
		AllowedOrigins:       config.Origins(),
	}, authService, relayService, preferencesService, voiceService, monitoring, issuer)
	httpServer := &http.Server{
		Addr:              config.HTTPAddress,
		Handler:           relayServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("Starting HTTP server", "address", config.HTTPAddress, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()
	healthServer.Serving()

	// 8. Wait for Stop or Error
	code := exitOK
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case runErr = <-errChan:
		code = exitRuntime
	}

	// 9. Final Cleanup
	logger.Info("Shutting down gracefully...")
	healthServer.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown incomplete", "error", err)
	}
	grpcServer.GracefulStop()
	stop()
	<-supervisorDone
	logger.Info("Program stopped cleanly")

	return code, runErr
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)
	if logger.Enabled(ctx, slog.LevelDebug) {
		return options.WithLoggingLevel(badger.DEBUG)
	}
	return options.WithLoggingLevel(badger.WARNING)
}
