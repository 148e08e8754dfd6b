package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/yogishpa/graph-samples/infrastructure/config"
	"github.com/yogishpa/graph-samples/infrastructure/di"
	"github.com/yogishpa/graph-samples/interfaces/http/rest"
	"github.com/yogishpa/graph-samples/pkg/observability"
)

func main() {
	// Initialize context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, cleanup, err := di.InitializeChatContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer cleanup()

	var tracer *observability.TracerProvider
	if cfg.EnableTracing {
		tracer, err = observability.InitTracing(ctx, "graph-samples-chat", cfg.Environment, cfg.OTLPEndpoint)
		if err != nil {
			container.Logger.Warn("Tracing disabled", zap.Error(err))
		}
	}

	router := rest.NewRouter(
		container.Chat,
		container.Collector,
		container.Validator,
		rest.Options{
			EnableCORS:     cfg.EnableCORS,
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Debug:          cfg.IsDevelopment(),
		},
		container.Logger,
	)

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      router.Setup(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		container.Logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
			zap.String("neptune", cfg.NeptuneHTTPURL()),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			container.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	container.Logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		container.Logger.Error("Server shutdown error", zap.Error(err))
	}
	if err := tracer.Shutdown(shutdownCtx); err != nil {
		container.Logger.Error("Tracer shutdown error", zap.Error(err))
	}

	if err := container.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	log.Println("Server stopped")
}
