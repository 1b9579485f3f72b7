package client

import (
	"testing"

	"github.com/stretchr/testify/require"

	"txt-chat/errors"
	"txt-chat/wire"
)

func TestHandleInput_Bare_Text_Targets_Current_Room(t *testing.T) {
	req := require.New(t)
	state := registeredState(t, "u1")

	action, err := state.HandleInput("hello everyone")

	req.NoError(err)
	req.Equal(ActionSend, action.Kind)
	req.Equal("send_msg$u1$u1$hello everyone", action.Line)
}

func TestHandleInput_Bare_Text_Without_Current_Room(t *testing.T) {
	req := require.New(t)
	state := NewState("alice")

	_, err := state.HandleInput("hello?")

	req.ErrorIs(err, errors.ErrUnknownCurrentRoom)
}

func TestHandleInput_Switch_Requires_Membership(t *testing.T) {
	req := require.New(t)
	state := registeredState(t, "u1")

	// Switching to a room that was never joined is refused locally
	_, err := state.HandleInput("$switch r1")
	req.Error(err)
	req.Equal("u1", state.CurrentRoom())

	// After a join acknowledgment the switch succeeds
	state.ApplyResponse(wire.ResponseJoined, "r1")
	state.ApplyResponse(wire.ResponseJoined, "r2")
	action, err := state.HandleInput("$switch r1")
	req.NoError(err)
	req.Equal(ActionNotice, action.Kind)
	req.Equal("r1", state.CurrentRoom())
}

func TestHandleInput_Join_Refuses_Already_Joined(t *testing.T) {
	req := require.New(t)
	state := registeredState(t, "u1")

	action, err := state.HandleInput("$join r1")
	req.NoError(err)
	req.Equal(ActionSend, action.Kind)
	req.Equal("join$u1$r1", action.Line)

	state.ApplyResponse(wire.ResponseJoined, "r1")
	_, err = state.HandleInput("$join r1")
	req.Error(err)
}

func TestHandleInput_Leave_Requires_Membership(t *testing.T) {
	req := require.New(t)
	state := registeredState(t, "u1")

	_, err := state.HandleInput("$leave r1")
	req.Error(err)

	state.ApplyResponse(wire.ResponseJoined, "r1")
	action, err := state.HandleInput("$leave r1")
	req.NoError(err)
	req.Equal(ActionSend, action.Kind)
	req.Equal("leave$u1$r1", action.Line)
}

func TestHandleInput_CreateChan_And_Rooms(t *testing.T) {
	req := require.New(t)
	state := registeredState(t, "u1")

	action, err := state.HandleInput("$create_chan general")
	req.NoError(err)
	req.Equal(ActionSend, action.Kind)
	req.Equal("create_chan$u1$general", action.Line)

	action, err = state.HandleInput("$rooms")
	req.NoError(err)
	req.Equal(ActionListRooms, action.Kind)
}

func TestHandleInput_Directive_Errors(t *testing.T) {
	req := require.New(t)
	state := registeredState(t, "u1")

	// Missing arguments
	for _, line := range []string{"$switch", "$join", "$leave", "$create_chan"} {
		_, err := state.HandleInput(line)
		req.IsType(errors.InvalidCommandError{}, err, "line %q", line)
	}

	// Unknown directive
	_, err := state.HandleInput("$teleport r1")
	req.Equal(errors.CommandNotSupportedError{Token: "$teleport"}, err)
}
