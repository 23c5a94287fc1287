// Package runtime assembles the workers and owns their lifecycle.
// It orchestrates the system without containing business logic or
// domain rules.
package runtime

import (
	"chat-guard/commands"
	"chat-guard/contract"
	"chat-guard/domain/event"
	"chat-guard/moderation"
	"chat-guard/runtime/workers"
	"context"
	"log/slog"
	"time"
)

// Orchestrator builds the moderation worker pool, the command worker
// and the retention sweeper, registers them with the supervisor next
// to the gateway, and runs the lot until Stop.
type Orchestrator struct {
	log        *slog.Logger
	supervisor contract.ISupervisor
	gateway    contract.Worker
	pipeline   *moderation.Pipeline
	dispatcher *commands.Dispatcher
	retention  *workers.RetentionWorker
	events     <-chan event.Message
	commands   <-chan event.Command
	numWorkers int
	done       chan struct{}
}

func NewOrchestrator(
	log *slog.Logger,
	supervisor contract.ISupervisor,
	gateway contract.Worker,
	pipeline *moderation.Pipeline,
	dispatcher *commands.Dispatcher,
	retention *workers.RetentionWorker,
	events <-chan event.Message,
	cmds <-chan event.Command,
	numWorkers int,
) *Orchestrator {
	return &Orchestrator{
		log:        log,
		supervisor: supervisor,
		gateway:    gateway,
		pipeline:   pipeline,
		dispatcher: dispatcher,
		retention:  retention,
		events:     events,
		commands:   cmds,
		numWorkers: numWorkers,
		done:       make(chan struct{}),
	}
}

// Start registers every worker and launches supervision in the
// background. The supervisor restarts crashed workers, including the
// gateway after a dropped connection.
func (o *Orchestrator) Start(ctx context.Context) {
	o.supervisor.Add(o.gateway)
	for i := 0; i < o.numWorkers; i++ {
		o.supervisor.Add(workers.NewPipelineWorker(o.pipeline, o.events, o.log))
	}
	o.supervisor.Add(workers.NewCommandWorker(o.dispatcher, o.commands, o.log))
	o.supervisor.Add(o.retention)

	o.log.Info("Starting orchestrator and all supervised workers", "pool_size", o.numWorkers)
	go func() {
		o.supervisor.Run(ctx)
		close(o.done)
	}()
}

// Stop cancels supervision and waits for workers to drain, so callers
// can safely close shared resources afterwards.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.supervisor.Stop()
	select {
	case <-o.done:
	case <-time.After(5 * time.Second):
		o.log.Warn("Workers did not drain before timeout")
	}
}
