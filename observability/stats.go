// Package observability aggregates runtime counters for the reporter.
package observability

import "sync/atomic"

// Stats collects service-wide counters. All methods are safe for concurrent
// use from every session goroutine.
type Stats struct {
	activeSessions    atomic.Int64
	usersRegistered   atomic.Uint64
	roomsCreated      atomic.Uint64
	messagesPublished atomic.Uint64
	busDropped        atomic.Uint64
}

// Snapshot is a point-in-time copy used for logging.
type Snapshot struct {
	ActiveSessions    int64
	UsersRegistered   uint64
	RoomsCreated      uint64
	MessagesPublished uint64
	BusDropped        uint64
}

func NewStats() *Stats {
	return &Stats{}
}

func (s *Stats) SessionOpened()  { s.activeSessions.Add(1) }
func (s *Stats) SessionClosed()  { s.activeSessions.Add(-1) }
func (s *Stats) UserRegistered() { s.usersRegistered.Add(1) }
func (s *Stats) RoomCreated()    { s.roomsCreated.Add(1) }

func (s *Stats) MessagePublished() { s.messagesPublished.Add(1) }

// BusDropped accumulates messages lost to lagging subscribers.
func (s *Stats) BusDropped(n uint64) { s.busDropped.Add(n) }

func (s *Stats) GetLatest() Snapshot {
	return Snapshot{
		ActiveSessions:    s.activeSessions.Load(),
		UsersRegistered:   s.usersRegistered.Load(),
		RoomsCreated:      s.roomsCreated.Load(),
		MessagesPublished: s.messagesPublished.Load(),
		BusDropped:        s.busDropped.Load(),
	}
}
