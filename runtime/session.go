package runtime

import (
	"context"
	"log/slog"
	"sync/atomic"

	"txt-chat/contract"
	"txt-chat/domain"
	"txt-chat/errors"
	"txt-chat/observability"
	"txt-chat/wire"
)

type SessionState int

const (
	StateConnecting SessionState = iota
	StateAwaitingRegistration
	StateActive
	StateClosed
)

// Session orchestrates one client connection: the registration handshake,
// then an inbound dispatch loop and an outbound filtering loop running
// concurrently. The two loops share only the session's immutable ids; they
// meet the rest of the system through the service facade and the bus
// subscription.
type Session struct {
	svc       contract.IChatService
	bus       *Bus
	transport contract.Transport
	stats     *observability.Stats
	log       *slog.Logger

	// Written by the run loop, read concurrently by observers.
	state atomic.Int32

	userID         string
	personalRoomID string
}

func NewSession(svc contract.IChatService, bus *Bus, transport contract.Transport,
	stats *observability.Stats, log *slog.Logger) *Session {
	return &Session{
		svc:       svc,
		bus:       bus,
		transport: transport,
		stats:     stats,
		log:       log,
	}
}

// Run drives the connection through its whole lifecycle and returns once
// both loops have stopped and the bus subscription is released. Transport
// failures are the only fatal class; everything else is logged and survived.
func (s *Session) Run(ctx context.Context) error {
	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Closing the transport is the only way to unblock a pending ReadLine,
	// so shutdown must reach it even while a client sits idle.
	go func() {
		<-sessionCtx.Done()
		_ = s.transport.Close()
	}()

	defer func() {
		s.state.Store(int32(StateClosed))
		_ = s.transport.Close()
	}()

	s.stats.SessionOpened()
	defer s.stats.SessionClosed()

	if err := s.transport.WriteLine(wire.Welcome); err != nil {
		return err
	}

	s.state.Store(int32(StateAwaitingRegistration))
	if err := s.awaitRegistration(); err != nil {
		// A read failure caused by our own shutdown is not a session error.
		if sessionCtx.Err() != nil {
			return nil
		}
		return err
	}
	s.state.Store(int32(StateActive))

	sub := s.bus.Subscribe()
	defer sub.Close()

	outboundDone := make(chan struct{})
	go func() {
		defer close(outboundDone)
		s.outbound(sessionCtx, sub)
	}()

	err := s.inbound()

	// Inbound is gone; stop the outbound loop and wait for it so the
	// subscription is never used after release.
	cancel()
	<-outboundDone
	return err
}

func (s *Session) State() SessionState {
	return SessionState(s.state.Load())
}

func (s *Session) UserID() string {
	return s.userID
}

// awaitRegistration accepts only a reg command; anything else is answered
// with an error line and the state does not advance. The successful reply
// doubles as the "registration succeeded" signal.
func (s *Session) awaitRegistration() error {
	for {
		line, err := s.transport.ReadLine()
		if err != nil {
			return err
		}

		cmd, err := wire.Decode(line)
		if err != nil {
			s.log.Warn("Rejecting line before registration", "error", err)
			if werr := s.transport.WriteLine("error: " + err.Error()); werr != nil {
				return werr
			}
			continue
		}

		reg, ok := cmd.(domain.Register)
		if !ok {
			s.log.Warn("Command received before registration", "line", line)
			if werr := s.transport.WriteLine("error: register first with reg$<username>"); werr != nil {
				return werr
			}
			continue
		}

		userID, personalRoomID, err := s.svc.Register(reg.Username)
		if err != nil {
			s.log.Warn("Registration refused", "username", reg.Username, "error", err)
			if werr := s.transport.WriteLine("error: " + err.Error()); werr != nil {
				return werr
			}
			continue
		}

		s.userID = userID
		s.personalRoomID = personalRoomID
		s.log.Info("User registered", "user_id", userID, "username", reg.Username)
		return s.transport.WriteLine(wire.CreateChanLine(personalRoomID))
	}
}

// inbound decodes and dispatches every line until the transport closes.
// Decode and dispatch errors never terminate the session.
func (s *Session) inbound() error {
	for {
		line, err := s.transport.ReadLine()
		if err != nil {
			s.log.Debug("Inbound transport closed", "user_id", s.userID, "error", err)
			return nil
		}

		cmd, err := wire.Decode(line)
		if err != nil {
			s.log.Warn("Undecodable line", "user_id", s.userID, "error", err)
			continue
		}

		if err := s.dispatch(cmd); err != nil {
			// Only write failures bubble up from dispatch.
			return err
		}
	}
}

func (s *Session) dispatch(cmd domain.Command) error {
	switch c := cmd.(type) {
	case domain.Register:
		s.log.Warn("Duplicate registration ignored", "user_id", s.userID)
		return s.transport.WriteLine("error: already registered")

	case domain.CreateChan:
		roomID, err := s.svc.CreateRoom(c.UserID, c.RoomName)
		if err != nil {
			s.log.Warn("Room creation refused", "owner_id", c.UserID, "error", err)
			return nil
		}
		return s.transport.WriteLine(wire.CreateChanLine(roomID))

	case domain.JoinChan:
		if err := s.svc.Join(c.UserID, c.RoomID); err != nil {
			s.log.Warn("Join refused", "user_id", c.UserID, "room_id", c.RoomID, "error", err)
			return nil
		}
		return s.transport.WriteLine(wire.JoinedLine(c.RoomID))

	case domain.LeaveChan:
		if err := s.svc.Leave(c.UserID, c.RoomID); err != nil {
			s.log.Warn("Leave refused", "user_id", c.UserID, "room_id", c.RoomID, "error", err)
			return nil
		}
		return s.transport.WriteLine(wire.LeavedLine(c.RoomID))

	case domain.SendMsg:
		// No direct reply: delivery comes back through the bus.
		if err := s.svc.Publish(c.RoomID, c.UserID, c.Body); err != nil {
			s.log.Warn("Publish refused", "user_id", c.UserID, "room_id", c.RoomID, "error", err)
		}
		return nil
	}
	return nil
}

// outbound forwards every bus message the session's user is a member of.
// Lag is logged and counted but never fatal; a failed write closes the
// transport, which in turn unblocks the inbound loop.
func (s *Session) outbound(ctx context.Context, sub *Subscription) {
	for {
		msg, err := sub.Recv(ctx)
		if err != nil {
			if lag, ok := err.(errors.LagError); ok {
				s.log.Warn("Subscriber lagged, missed messages dropped",
					"user_id", s.userID, "dropped", lag.Dropped)
				s.stats.BusDropped(lag.Dropped)
				continue
			}
			// Cancellation or bus shutdown.
			return
		}

		if !s.svc.IsMember(s.userID, msg.RoomID) {
			continue
		}

		if err := s.transport.WriteLine(wire.ChatLine(msg.SenderName, msg.Body)); err != nil {
			s.log.Warn("Outbound write failed, closing session",
				"user_id", s.userID, "error", err)
			_ = s.transport.Close()
			return
		}
	}
}
