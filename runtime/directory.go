// Package runtime holds the stateful engine of the chat service: the user
// and room directory, the broadcast bus, and the per-connection session.
// It orchestrates the system without containing wire or UI logic.
package runtime

import (
	"sync"

	"txt-chat/domain"
	"txt-chat/errors"
)

type Set map[string]struct{}

// Directory is the single registry of users, rooms, and membership, shared
// by every connection. It is the only writer of these records; all access
// goes through one RWMutex (many readers or one writer, never both) and the
// lock is never held across blocking I/O.
//
// Invariant kept by every operation:
//
//	roomID ∈ membership[userID]  ⟺  userID ∈ rooms[roomID].Members
type Directory struct {
	mu         sync.RWMutex
	users      map[string]domain.User
	rooms      map[string]*domain.Room
	membership map[string]Set // user id -> room ids, inverse of Room.Members
}

func NewDirectory() *Directory {
	return &Directory{
		users:      make(map[string]domain.User),
		rooms:      make(map[string]*domain.Room),
		membership: make(map[string]Set),
	}
}

// Register creates the user, its personal room (room id == user id), and the
// sole membership in one critical section: a registered user without a
// personal room is never observable.
func (d *Directory) Register(name string) (userID, personalRoomID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.freshID()
	d.users[id] = domain.User{ID: id, Name: name}

	personal := domain.NewRoom(id, name)
	personal.AddMember(id)
	d.rooms[id] = personal
	d.membership[id] = Set{id: {}}

	return id, id
}

// CreateRoom creates an explicit room and makes the owner its first member.
// Unknown owners are rejected: only the implicit personal-room path may
// create a room without a pre-existing user.
func (d *Directory) CreateRoom(ownerID, name string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.users[ownerID]; !ok {
		return "", errors.ErrUserNotFound
	}

	id := d.freshID()
	room := domain.NewRoom(id, name)
	room.AddMember(ownerID)
	d.rooms[id] = room
	d.memberships(ownerID)[id] = struct{}{}

	return id, nil
}

// Join adds the membership in both directions. Idempotent: joining a room
// twice leaves the state unchanged.
func (d *Directory) Join(userID, roomID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	room, ok := d.rooms[roomID]
	if !ok {
		return errors.ErrRoomNotFound
	}

	room.AddMember(userID)
	d.memberships(userID)[roomID] = struct{}{}
	return nil
}

// Leave removes the membership in both directions. Leaving a room the user
// never joined is a no-op.
func (d *Directory) Leave(userID, roomID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	room, ok := d.rooms[roomID]
	if !ok {
		return errors.ErrRoomNotFound
	}

	room.RemoveMember(userID)
	if rooms, ok := d.membership[userID]; ok {
		delete(rooms, roomID)
		// No empty sets left behind over time
		if len(rooms) == 0 {
			delete(d.membership, userID)
		}
	}
	return nil
}

// IsMember is a pure read used by every outbound loop to filter bus traffic.
func (d *Directory) IsMember(userID, roomID string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	room, ok := d.rooms[roomID]
	return ok && room.HasMember(userID)
}

// PrepareMessage resolves the room and the sender under the read lock and
// constructs the immutable message. A room with zero members is still a
// valid target; an unknown room or an unregistered sender is not.
func (d *Directory) PrepareMessage(roomID, senderID, body string) (domain.Message, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if _, ok := d.rooms[roomID]; !ok {
		return domain.Message{}, errors.ErrRoomNotFound
	}

	sender, ok := d.users[senderID]
	if !ok {
		return domain.Message{}, errors.ErrUserNotFound
	}
	return domain.NewMessage(roomID, sender, body), nil
}

// Counts reports the registry size for telemetry.
func (d *Directory) Counts() (users, rooms int) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.users), len(d.rooms)
}

// freshID draws an id distinct from every existing user and room key.
// Collision odds are negligible at 16^10, but re-drawing is free under the
// write lock already held. Callers must hold the write lock.
func (d *Directory) freshID() string {
	for {
		id := domain.NewID()
		_, userTaken := d.users[id]
		_, roomTaken := d.rooms[id]
		if !userTaken && !roomTaken {
			return id
		}
	}
}

// memberships returns the user's room set, initializing it on the fly.
// Callers must hold the write lock.
func (d *Directory) memberships(userID string) Set {
	rooms, ok := d.membership[userID]
	if !ok {
		rooms = make(Set)
		d.membership[userID] = rooms
	}
	return rooms
}
