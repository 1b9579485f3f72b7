package services

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"txt-chat/errors"
	"txt-chat/moderation"
	"txt-chat/observability"
	"txt-chat/runtime"
)

func newService(t *testing.T, words []string) (*ChatService, *runtime.Bus, *observability.Stats) {
	t.Helper()
	req := require.New(t)

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	moderator, err := moderation.NewModerator(words, '*')
	req.NoError(err)

	stats := observability.NewStats()
	bus := runtime.NewBus(64)
	svc := NewChatService(log, runtime.NewDirectory(), bus, moderator, stats)
	return svc, bus, stats
}

func TestChatService_Register_Validates_Username(t *testing.T) {
	req := require.New(t)
	svc, _, stats := newService(t, nil)

	// Given invalid usernames
	for _, name := range []string{"", "al$ice", strings.Repeat("a", 65)} {
		// When registering
		_, _, err := svc.Register(name)

		// Then registration is refused and nothing is counted
		req.Error(err, "username %q must be refused", name)
	}
	req.Equal(uint64(0), stats.GetLatest().UsersRegistered)

	// A plain name passes
	userID, personalRoomID, err := svc.Register("alice")
	req.NoError(err)
	req.Equal(userID, personalRoomID)
	req.Equal(uint64(1), stats.GetLatest().UsersRegistered)
}

func TestChatService_CreateRoom_Validates_Name_And_Owner(t *testing.T) {
	req := require.New(t)
	svc, _, stats := newService(t, nil)
	userID, _, err := svc.Register("alice")
	req.NoError(err)

	_, err = svc.CreateRoom(userID, "bad$name")
	req.Error(err)

	_, err = svc.CreateRoom("ghost", "general")
	req.ErrorIs(err, errors.ErrUserNotFound)

	roomID, err := svc.CreateRoom(userID, "general")
	req.NoError(err)
	req.True(svc.IsMember(userID, roomID))
	req.Equal(uint64(1), stats.GetLatest().RoomsCreated)
}

func TestChatService_Publish_Censors_Before_Broadcast(t *testing.T) {
	req := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// Given a service moderating the word "badger"
	svc, bus, _ := newService(t, []string{"badger"})
	userID, personalRoomID, err := svc.Register("alice")
	req.NoError(err)

	sub := bus.Subscribe()
	defer sub.Close()

	// When a message containing the word is published
	req.NoError(svc.Publish(personalRoomID, userID, "a wild Badger appears"))

	// Then the bus only ever sees the censored body
	msg, err := sub.Recv(ctx)
	req.NoError(err)
	req.Equal("a wild ****** appears", msg.Body)
	req.Equal("alice", msg.SenderName)
	req.Equal(personalRoomID, msg.RoomID)
}

func TestChatService_Publish_Rejects_Raw_Newlines(t *testing.T) {
	req := require.New(t)
	svc, _, stats := newService(t, nil)
	userID, personalRoomID, err := svc.Register("alice")
	req.NoError(err)

	err = svc.Publish(personalRoomID, userID, "line one\nline two")

	req.Error(err)
	req.Equal(uint64(0), stats.GetLatest().MessagesPublished)
}

func TestChatService_Publish_Unknown_Room(t *testing.T) {
	req := require.New(t)
	svc, _, _ := newService(t, nil)
	userID, _, err := svc.Register("alice")
	req.NoError(err)

	err = svc.Publish("no-such-room", userID, "hello?")

	req.ErrorIs(err, errors.ErrRoomNotFound)
}
