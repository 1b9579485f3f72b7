package runtime

import (
	"context"
	"sync"
	"sync/atomic"

	"txt-chat/domain"
	"txt-chat/errors"
)

// Matches the capacity the service historically ran with.
const defaultBusCapacity = 1000

// Bus is the single broadcast stream every connection subscribes to: one
// publish side, many subscribe sides. Every subscriber receives every
// published message regardless of room; filtering by membership is the
// subscriber's responsibility. This trades an O(total messages) read cost
// per connection for not managing per-room fan-out structures.
//
// Each subscriber owns a bounded buffer. When it falls behind, its oldest
// unread messages are dropped and the next Recv reports the lag; publishing
// never blocks on slow subscribers.
type Bus struct {
	mu       sync.Mutex
	subs     map[*Subscription]struct{}
	capacity int
	closed   bool
}

func NewBus(capacity int) *Bus {
	if capacity <= 0 {
		capacity = defaultBusCapacity
	}
	return &Bus{
		subs:     make(map[*Subscription]struct{}),
		capacity: capacity,
	}
}

// Publish delivers msg to every current subscriber. The bus mutex defines
// one global publish order; subscribers observe a suffix of it.
func (b *Bus) Publish(msg domain.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	for sub := range b.subs {
		sub.push(msg)
	}
}

func (b *Bus) Subscribe() *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &Subscription{
		bus: b,
		ch:  make(chan domain.Message, b.capacity),
	}
	if b.closed {
		close(sub.ch)
		return sub
	}
	b.subs[sub] = struct{}{}
	return sub
}

// Close detaches and closes every subscription. Pending messages still
// drain; subsequent Recv calls report ErrBusClosed.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for sub := range b.subs {
		close(sub.ch)
		delete(b.subs, sub)
	}
}

// Subscription is one subscriber's handle on the bus.
type Subscription struct {
	bus     *Bus
	ch      chan domain.Message
	dropped atomic.Uint64
}

// Recv blocks until the next message, a lag report, cancellation, or bus
// shutdown. A LagError is returned at most once per lag episode, before the
// surviving suffix resumes; it must never be treated as fatal.
func (s *Subscription) Recv(ctx context.Context) (domain.Message, error) {
	if n := s.dropped.Swap(0); n > 0 {
		return domain.Message{}, errors.LagError{Dropped: n}
	}

	select {
	case msg, ok := <-s.ch:
		if !ok {
			return domain.Message{}, errors.ErrBusClosed
		}
		return msg, nil
	case <-ctx.Done():
		return domain.Message{}, ctx.Err()
	}
}

// Close releases the subscription. Safe to call twice and safe to race with
// Bus.Close: detaching and closing the channel both happen under the bus
// mutex.
func (s *Subscription) Close() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()

	if _, ok := s.bus.subs[s]; ok {
		delete(s.bus.subs, s)
		close(s.ch)
	}
}

// push runs under the bus mutex. When the buffer is full the oldest unread
// message is sacrificed so the publisher never waits on this subscriber.
func (s *Subscription) push(msg domain.Message) {
	for {
		select {
		case s.ch <- msg:
			return
		default:
		}
		select {
		case <-s.ch:
			s.dropped.Add(1)
		default:
			// Consumer drained concurrently; retry the send.
		}
	}
}
