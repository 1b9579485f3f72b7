package services

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/abadojack/whatlanggo"
	"github.com/go-playground/validator/v10"

	"txt-chat/contract"
	"txt-chat/moderation"
	"txt-chat/observability"
	"txt-chat/runtime"
)

// Names end up as wire fields and line prefixes, so the separator is banned.
const nameRules = "required,min=1,max=64,excludesall=$"

// Ensure *ChatService implements the contract interface at compile time.
// This prevents "type mismatch" errors from appearing late in other packages
// and acts as a static assertion of our architectural rules.
var _ contract.IChatService = (*ChatService)(nil)

// ChatService is the facade sessions talk to: validation and moderation in
// front of the directory and the broadcast bus.
type ChatService struct {
	log       *slog.Logger
	directory *runtime.Directory
	bus       *runtime.Bus
	moderator moderation.Moderator
	stats     *observability.Stats
	validate  *validator.Validate
}

func NewChatService(log *slog.Logger, directory *runtime.Directory, bus *runtime.Bus,
	moderator moderation.Moderator, stats *observability.Stats) *ChatService {
	return &ChatService{
		log:       log,
		directory: directory,
		bus:       bus,
		moderator: moderator,
		stats:     stats,
		validate:  validator.New(),
	}
}

func (s *ChatService) Register(name string) (string, string, error) {
	if err := s.validate.Var(name, nameRules); err != nil {
		return "", "", fmt.Errorf("invalid username: %w", err)
	}

	userID, personalRoomID := s.directory.Register(name)
	s.stats.UserRegistered()
	return userID, personalRoomID, nil
}

func (s *ChatService) CreateRoom(ownerID, name string) (string, error) {
	if err := s.validate.Var(name, nameRules); err != nil {
		return "", fmt.Errorf("invalid room name: %w", err)
	}

	roomID, err := s.directory.CreateRoom(ownerID, name)
	if err != nil {
		return "", err
	}
	s.stats.RoomCreated()
	s.log.Info("Room created", "room_id", roomID, "owner_id", ownerID, "name", name)
	return roomID, nil
}

func (s *ChatService) Join(userID, roomID string) error {
	return s.directory.Join(userID, roomID)
}

func (s *ChatService) Leave(userID, roomID string) error {
	return s.directory.Leave(userID, roomID)
}

func (s *ChatService) IsMember(userID, roomID string) bool {
	return s.directory.IsMember(userID, roomID)
}

// Publish censors the body, stamps the message, and hands it to the bus.
// Publishing to a room with zero interested subscribers still succeeds.
func (s *ChatService) Publish(roomID, senderID, body string) error {
	// The line delimiter is the only framing; a raw newline would smuggle
	// extra lines into every subscriber's stream.
	if strings.ContainsRune(body, '\n') {
		return fmt.Errorf("message body must not contain raw newlines")
	}

	censored := s.moderator.Censor(body)
	if censored != body {
		info := whatlanggo.Detect(body)
		s.log.Warn("Censored message body",
			"sender_id", senderID,
			"room_id", roomID,
			"lang", info.Lang.Iso6391())
	}

	msg, err := s.directory.PrepareMessage(roomID, senderID, censored)
	if err != nil {
		return err
	}

	s.bus.Publish(msg)
	s.stats.MessagePublished()
	return nil
}
