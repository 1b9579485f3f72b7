package client

import (
	"fmt"
	"strings"

	"txt-chat/domain"
	"txt-chat/errors"
	"txt-chat/wire"
)

// Local directives. $switch and $rooms never reach the server; the others
// are convenience forms of the wire commands.
const (
	directiveJoin   = "$join"
	directiveLeave  = "$leave"
	directiveSwitch = "$switch"
	directiveCreate = "$create_chan"
	directiveRooms  = "$rooms"
)

type ActionKind int

const (
	// ActionSend carries a wire line for the server.
	ActionSend ActionKind = iota
	// ActionNotice is purely local output.
	ActionNotice
	// ActionListRooms asks the caller to render the joined-rooms table.
	ActionListRooms
)

type Action struct {
	Kind   ActionKind
	Line   string
	Notice string
}

// HandleInput turns one line of user input into an action. Bare text
// becomes a send_msg to the current room; a line starting with $ is a
// local directive.
func (s *State) HandleInput(line string) (Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "$") {
		if s.currentRoom == "" {
			return Action{}, errors.ErrUnknownCurrentRoom
		}
		return Action{
			Kind: ActionSend,
			Line: wire.Encode(domain.SendMsg{UserID: s.userID, RoomID: s.currentRoom, Body: trimmed}),
		}, nil
	}

	fields := strings.Fields(trimmed)
	switch fields[0] {
	case directiveSwitch:
		if len(fields) < 2 {
			return Action{}, errors.InvalidCommandError{Reason: "switch needs a room id"}
		}
		roomID := fields[1]
		if _, ok := s.joined[roomID]; !ok {
			return Action{}, fmt.Errorf("you have not joined room: %s, please join it first", roomID)
		}
		s.currentRoom = roomID
		return Action{Kind: ActionNotice, Notice: "switched to room: " + roomID}, nil

	case directiveJoin:
		if len(fields) < 2 {
			return Action{}, errors.InvalidCommandError{Reason: "join needs a room id"}
		}
		roomID := fields[1]
		if _, ok := s.joined[roomID]; ok {
			return Action{}, fmt.Errorf("you have already joined room: %s", roomID)
		}
		return Action{
			Kind: ActionSend,
			Line: wire.Encode(domain.JoinChan{UserID: s.userID, RoomID: roomID}),
		}, nil

	case directiveLeave:
		if len(fields) < 2 {
			return Action{}, errors.InvalidCommandError{Reason: "leave needs a room id"}
		}
		roomID := fields[1]
		if _, ok := s.joined[roomID]; !ok {
			return Action{}, fmt.Errorf("you have not joined room: %s", roomID)
		}
		return Action{
			Kind: ActionSend,
			Line: wire.Encode(domain.LeaveChan{UserID: s.userID, RoomID: roomID}),
		}, nil

	case directiveCreate:
		if len(fields) < 2 {
			return Action{}, errors.InvalidCommandError{Reason: "create_chan needs a room name"}
		}
		return Action{
			Kind: ActionSend,
			Line: wire.Encode(domain.CreateChan{UserID: s.userID, RoomName: fields[1]}),
		}, nil

	case directiveRooms:
		return Action{Kind: ActionListRooms}, nil
	}

	return Action{}, errors.CommandNotSupportedError{Token: fields[0]}
}
