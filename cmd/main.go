package main

import (
	"chat-guard/commands"
	"chat-guard/internal"
	"chat-guard/moderation"
	"chat-guard/observability"
	"chat-guard/repositories"
	"chat-guard/runtime"
	"chat-guard/runtime/workers"
	"chat-guard/transport"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"chat-guard/domain"

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

// run initializes all components, manages the service lifecycle, and
// centralizes error reporting, so every defer (database cleanup
// included) executes before the process exits.
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
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Repositories & search index
	owner := domain.UserID(config.OwnerID)
	accessRepository := repositories.NewAccessRepository(db, owner)
	messageRepository := repositories.NewMessageRepository(db, log)

	var searchIndex repositories.ISearchIndex
	if config.BlugeFilepath != nil {
		index, err := repositories.NewSearchIndex(*config.BlugeFilepath)
		if err != nil {
			return fmt.Errorf("search index opening failed: %w", err)
		}
		defer func() {
			log.Info("Closing search index...")
			_ = index.Close()
		}()
		searchIndex = index
	}

	// 4. Moderation core
	stats := observability.NewStats()
	tracker := moderation.NewTracker()
	gateway := transport.NewGateway(log, config.GatewayURL, config.GatewayToken,
		config.CallTimeout, config.BufferSize)
	pipeline := moderation.NewPipeline(log, accessRepository, messageRepository,
		searchIndex, tracker, gateway, stats, owner)
	dispatcher := commands.NewDispatcher(log, accessRepository, gateway, stats, owner,
		commands.Capabilities{ExtendedAdmin: config.ExtendedAdminCommands})
	retention := workers.NewRetentionWorker(messageRepository, searchIndex, stats, log,
		workers.DefaultRetentionHorizon, workers.DefaultSweepInterval)

	// 5. Supervision & orchestration
	supervisor := workers.NewSupervisor(log, config.RestartInterval)
	orchestrator := runtime.NewOrchestrator(log, supervisor, gateway, pipeline,
		dispatcher, retention, gateway.Events(), gateway.Commands(), config.NumberOfWorkers)

	if config.DebugPort != nil {
		internal.StartDebugServer(db, log, *config.DebugPort, func() map[string]any {
			snapshot := stats.Snapshot()
			return map[string]any{
				"observed": snapshot.Observed,
				"stored":   snapshot.Stored,
				"deleted":  snapshot.Deleted,
				"notified": snapshot.Notified,
				"purged":   snapshot.Purged,
				"mem_mb":   snapshot.AllocMemMb,
			}
		})
	}

	// 6. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orchestrator.Start(ctx)

	// 7. Wait for Stop
	<-ctx.Done()
	log.Info("Shutting down gracefully...")
	orchestrator.Stop()
	log.Info("Program stopped cleanly")
	return nil
}
