package errors

import "fmt"

var (
	ErrRoomNotFound       = fmt.Errorf("room not found")
	ErrUserNotFound       = fmt.Errorf("user not found")
	ErrUnknownCurrentRoom = fmt.Errorf("not set current room yet")
	ErrBusClosed          = fmt.Errorf("broadcast bus closed")
	ErrWorkerPanic        = fmt.Errorf("worker panic")
)

// InvalidCommandError reports a recognized command token carrying too few fields.
type InvalidCommandError struct {
	Reason string
}

func (e InvalidCommandError) Error() string {
	return fmt.Sprintf("invalid cmd: %s", e.Reason)
}

// CommandNotSupportedError reports an unrecognized command token.
type CommandNotSupportedError struct {
	Token string
}

func (e CommandNotSupportedError) Error() string {
	return fmt.Sprintf("cmd: %s is not supported", e.Token)
}

// LagError tells a slow subscriber how many messages the bus dropped for it
// before it caught up. Never fatal: the subscriber resumes with the suffix.
type LagError struct {
	Dropped uint64
}

func (e LagError) Error() string {
	return fmt.Sprintf("subscriber lagged, %d messages dropped", e.Dropped)
}
