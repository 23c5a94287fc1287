//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-guard/domain"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes, avoiding the need
// for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// UserDisplay is the resolved identity of a user, suitable for a mention.
type UserDisplay struct {
	Name    string
	Mention string
}

// Transport is the side of the chat gateway the moderation core drives.
// All calls are synchronous round-trips; failures are reported, never
// retried here.
type Transport interface {
	DeleteMessage(ctx context.Context, chat domain.ChatID, message domain.MessageID) error
	SendMessage(ctx context.Context, chat domain.ChatID, text string) error
	ResolveUser(ctx context.Context, user domain.UserID) (UserDisplay, error)
}
