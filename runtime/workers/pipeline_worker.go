package workers

import (
	"chat-guard/contract"
	"chat-guard/domain/event"
	"chat-guard/moderation"
	"context"
	"log/slog"
)

// Ensure *PipelineWorker implements the contract.Worker interface at
// compile time.
var _ contract.Worker = (*PipelineWorker)(nil)

// PipelineWorker is one unit of the moderation pool: it drains the
// inbound message channel and runs each event through the pipeline.
// Several instances share the channel, so independent events are
// handled concurrently while the channel itself stays the only queue.
type PipelineWorker struct {
	pipeline *moderation.Pipeline
	events   <-chan event.Message
	log      *slog.Logger
}

func NewPipelineWorker(pipeline *moderation.Pipeline, events <-chan event.Message, log *slog.Logger) *PipelineWorker {
	return &PipelineWorker{pipeline: pipeline, events: events, log: log}
}

func (w *PipelineWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case evt, ok := <-w.events:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			w.pipeline.Handle(ctx, evt)
		}
	}
}
