package workers

import (
	"chat-guard/commands"
	"chat-guard/contract"
	"chat-guard/domain/event"
	"context"
	"log/slog"
)

var _ contract.Worker = (*CommandWorker)(nil)

// CommandWorker drains administrative commands on its own goroutine,
// so admin traffic never queues behind message moderation.
type CommandWorker struct {
	dispatcher *commands.Dispatcher
	commands   <-chan event.Command
	log        *slog.Logger
}

func NewCommandWorker(dispatcher *commands.Dispatcher, cmds <-chan event.Command, log *slog.Logger) *CommandWorker {
	return &CommandWorker{dispatcher: dispatcher, commands: cmds, log: log}
}

func (w *CommandWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case cmd, ok := <-w.commands:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			w.dispatcher.Dispatch(ctx, cmd)
		}
	}
}
