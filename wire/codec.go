// Package wire implements the line-oriented command and response grammar.
// Commands travel client to server as $-delimited fields; responses travel
// back either as $$-prefixed acknowledgments or plain chat lines.
// Decoding has no side effects and never panics on malformed input.
package wire

import (
	"fmt"
	"strings"

	"txt-chat/domain"
	"txt-chat/errors"
)

const (
	TokenRegister   = "reg"
	TokenCreateChan = "create_chan"
	TokenJoin       = "join"
	TokenLeave      = "leave"
	TokenSendMsg    = "send_msg"

	fieldSep       = "$"
	responsePrefix = "$$"
	payloadSep     = ": "

	JoinedResp     = "$$joined"
	LeavedResp     = "$$leaved"
	CreateChanResp = "$$create_chan"

	// Welcome is the first line a server pushes on a fresh connection.
	Welcome = "------Welcome to Txt Chat------"
)

// Decode parses one line into a command. The first token selects the
// variant, the arity is validated per variant, and the send_msg body
// consumes the remainder of the line separators included.
func Decode(line string) (domain.Command, error) {
	parts := strings.Split(line, fieldSep)

	switch parts[0] {
	case TokenRegister:
		if len(parts) < 2 {
			return nil, errors.InvalidCommandError{Reason: "reg needs a username"}
		}
		return domain.Register{Username: parts[1]}, nil

	case TokenCreateChan:
		if len(parts) < 3 {
			return nil, errors.InvalidCommandError{Reason: "create_chan needs a user id and a room name"}
		}
		return domain.CreateChan{UserID: parts[1], RoomName: parts[2]}, nil

	case TokenJoin:
		if len(parts) < 3 {
			return nil, errors.InvalidCommandError{Reason: "join needs a user id and a room id"}
		}
		return domain.JoinChan{UserID: parts[1], RoomID: parts[2]}, nil

	case TokenLeave:
		if len(parts) < 3 {
			return nil, errors.InvalidCommandError{Reason: "leave needs a user id and a room id"}
		}
		return domain.LeaveChan{UserID: parts[1], RoomID: parts[2]}, nil

	case TokenSendMsg:
		if len(parts) < 4 {
			return nil, errors.InvalidCommandError{Reason: "send_msg needs a user id, a room id and a body"}
		}
		return domain.SendMsg{
			UserID: parts[1],
			RoomID: parts[2],
			Body:   strings.Join(parts[3:], fieldSep),
		}, nil

	default:
		return nil, errors.CommandNotSupportedError{Token: parts[0]}
	}
}

// Encode renders a command as exactly one line. It is the deterministic
// inverse of Decode for every variant.
func Encode(cmd domain.Command) string {
	switch c := cmd.(type) {
	case domain.Register:
		return TokenRegister + fieldSep + c.Username
	case domain.CreateChan:
		return TokenCreateChan + fieldSep + c.UserID + fieldSep + c.RoomName
	case domain.JoinChan:
		return TokenJoin + fieldSep + c.UserID + fieldSep + c.RoomID
	case domain.LeaveChan:
		return TokenLeave + fieldSep + c.UserID + fieldSep + c.RoomID
	case domain.SendMsg:
		return TokenSendMsg + fieldSep + c.UserID + fieldSep + c.RoomID + fieldSep + c.Body
	}
	// The sum type is closed; reaching this means a new variant was added
	// without updating the codec.
	panic(fmt.Sprintf("wire: unknown command type %T", cmd))
}

// JoinedLine acknowledges a join. $$joined: <room_id>
func JoinedLine(roomID string) string {
	return JoinedResp + payloadSep + roomID
}

// LeavedLine acknowledges a leave. $$leaved: <room_id>
func LeavedLine(roomID string) string {
	return LeavedResp + payloadSep + roomID
}

// CreateChanLine acknowledges a room creation, including the implicit
// personal room created at registration. $$create_chan: <room_id>
func CreateChanLine(roomID string) string {
	return CreateChanResp + payloadSep + roomID
}

// ChatLine renders a delivered message. <sender_name>: <body>
func ChatLine(senderName, body string) string {
	return senderName + payloadSep + body
}
