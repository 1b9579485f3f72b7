package contract

import (
	"context"
	"reflect"
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
// This is used for logging and supervision purposes during worker
// lifecycle events, avoiding the need for manual naming in the Worker interface.
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

// Transport is one connected client's line pipe: newline-delimited UTF-8,
// one command/response/message per line. WriteLine must be safe for
// concurrent use because the inbound and outbound loops both reply.
type Transport interface {
	ReadLine() (string, error)
	WriteLine(line string) error
	Close() error
}

// IChatService is the session-facing facade over the directory and the
// broadcast bus.
type IChatService interface {
	Register(name string) (userID, personalRoomID string, err error)
	CreateRoom(ownerID, name string) (roomID string, err error)
	Join(userID, roomID string) error
	Leave(userID, roomID string) error
	IsMember(userID, roomID string) bool
	Publish(roomID, senderID, body string) error
}
