//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"center-hub/domain/event"
	"center-hub/store"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
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

// EventSink is one connection's outbound mailbox. Consume must honour the
// context deadline: the dispatcher uses it as the per-send timeout that keeps
// a hung client from stalling delivery to everyone else.
type EventSink interface {
	Consume(ctx context.Context, env event.Envelope) error
	Close()
}

// EventPublisher is the write side of the realtime layer: append to the event
// store, then best-effort push to live room members.
type EventPublisher interface {
	Publish(ctx context.Context, e event.Event) store.Record
}
