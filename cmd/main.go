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

	"center-hub/internal"
	"center-hub/observability"
	"center-hub/repositories"
	"center-hub/runtime"
	"center-hub/runtime/workers"
	"center-hub/services"
	"center-hub/store"
	"center-hub/web"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting. This pattern is preferred over calling
// os.Exit or panic directly because:
// 1. It ensures all 'defer' statements (like database cleanup) are executed before the program exits.
// 2. It improves testability by decoupling the initialization logic from the main entry point.
// 3. It provides a structured way to handle graceful shutdowns for HTTP and background workers.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.INFO))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	//  Defer will be executed before run() returned anything to main()
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Realtime core
	eventStore := store.NewEventStore(log, config.EventStoreCapacity, config.EventStoreTTL)
	registry := runtime.NewRegistry()
	monitor := observability.NewMonitor(log)
	dispatcher := runtime.NewDispatcher(log, eventStore, registry, monitor, config.SendTimeout)
	relay := runtime.NewTypingRelay(log, registry, monitor, config.SendTimeout)
	realtime := services.NewRealtimeService(log, eventStore, registry, dispatcher, relay,
		monitor, config.ConnectionBufferSize)

	// 4. Domain services
	authService := services.NewAuthService(repositories.NewUserRepository(db), config.AuthTokenDuration)
	messageService := services.NewMessageService(
		repositories.NewMessageRepository(db, log, config.LimitMessages), dispatcher)
	centerService := services.NewCenterService(
		repositories.NewCenterRepository(db),
		repositories.NewContactRepository(db, config.LimitMessages), dispatcher)

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 6. Background workers under supervision
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(workers.NewSessionReaper(log, registry, monitor,
		config.ReapInterval, config.IdleTimeout(), config.PullMaxLifetime))
	supDone := make(chan struct{})
	go func() {
		defer close(supDone)
		sup.Run(ctx)
	}()

	// 7. HTTP Server Setup
	server := web.NewServer(log, authService, messageService, centerService, realtime, web.Options{
		KeepaliveInterval: config.KeepaliveInterval,
		IdleTimeout:       config.IdleTimeout(),
		PullMaxLifetime:   config.PullMaxLifetime,
		PollInterval:      config.PollInterval,
	})
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	httpServer := &http.Server{
		Addr:    address,
		Handler: server.Router(),
	}

	// Use an error channel to capture Serve() issues
	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 8. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err = <-errChan:
		return err
	}

	// 9. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
	sup.Stop()
	<-supDone
	log.Info("Program stopped cleanly")

	return nil
}
