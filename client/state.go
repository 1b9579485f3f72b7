// Package client implements the client-side mirror of a chat session:
// which rooms are joined, which one bare text is addressed to, and how
// server responses move that state forward.
package client

import (
	"sort"
	"sync"

	"github.com/samber/lo"

	"txt-chat/wire"
)

// State lives for the duration of one connection. The reader goroutine and
// the input loop both touch it, so every method takes the lock.
type State struct {
	mu           sync.Mutex
	userID       string
	username     string
	personalRoom string // automatically created room received after registration
	currentRoom  string // implicit target of bare text
	joined       map[string]struct{}
}

func NewState(username string) *State {
	return &State{
		username: username,
		joined:   make(map[string]struct{}),
	}
}

// ApplyResponse folds one server line into the mirror and returns a human
// notice when the state visibly changed ("" otherwise).
//
// The very first $$create_chan acknowledgment is the registration reply:
// its payload is the personal room id, which by construction equals the
// user id.
func (s *State) ApplyResponse(kind wire.ResponseKind, payload string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch kind {
	case wire.ResponseJoined:
		s.joined[payload] = struct{}{}
		s.currentRoom = payload
		return "switched to room: " + payload

	case wire.ResponseLeaved:
		delete(s.joined, payload)
		if s.currentRoom == payload {
			s.currentRoom = s.personalRoom
			return "you have left current room, switched to your personal room: " + s.personalRoom
		}
		return "left room: " + payload

	case wire.ResponseCreateChan:
		s.joined[payload] = struct{}{}
		if s.personalRoom == "" {
			s.userID = payload
			s.personalRoom = payload
			s.currentRoom = payload
			return "registered as " + s.username + ", personal room: " + payload
		}
		return "created room: " + payload + " and joined it"
	}
	return ""
}

func (s *State) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

func (s *State) CurrentRoom() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentRoom
}

func (s *State) PersonalRoom() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.personalRoom
}

// JoinedRooms lists the joined room ids in stable order.
func (s *State) JoinedRooms() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	rooms := lo.Keys(s.joined)
	sort.Strings(rooms)
	return rooms
}
