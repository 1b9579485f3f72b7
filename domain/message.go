// This file defines Message events and related rules.
// Messages are immutable and validated by the domain.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message represents an immutable chat event. Once constructed, ownership
// transfers to the broadcast bus; nothing mutates a Message after publish.
type Message struct {
	ID         uuid.UUID // unique identifier
	RoomID     string
	SenderID   string
	SenderName string
	Body       string
	CreatedAt  time.Time
}

func NewMessage(roomID string, sender User, body string) Message {
	return Message{
		ID:         uuid.New(),
		RoomID:     roomID,
		SenderID:   sender.ID,
		SenderName: sender.Name,
		Body:       body,
		CreatedAt:  time.Now().UTC(),
	}
}
