package wire

import "strings"

type ResponseKind int

const (
	// ResponseChat covers plain chat lines and anything unrecognized.
	ResponseChat ResponseKind = iota
	ResponseJoined
	ResponseLeaved
	ResponseCreateChan
)

// ParseResponse classifies one server line on the client side. The payload
// is the room id for the $$ acknowledgments and the raw line otherwise.
func ParseResponse(line string) (ResponseKind, string) {
	if !strings.HasPrefix(line, responsePrefix) {
		return ResponseChat, line
	}

	token, payload, ok := strings.Cut(line, payloadSep)
	if !ok {
		return ResponseChat, line
	}

	switch token {
	case JoinedResp:
		return ResponseJoined, payload
	case LeavedResp:
		return ResponseLeaved, payload
	case CreateChanResp:
		return ResponseCreateChan, payload
	}
	return ResponseChat, line
}
