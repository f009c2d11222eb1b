package models

import (
	"time"

	"github.com/google/uuid"
)

// Sender identifies which side of the conversation produced a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is a single chat turn. Once created it is never mutated;
// ordering within a session is append order, not timestamp order.
type Message struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func NewMessage(sender Sender, text string) Message {
	return Message{
		ID:        uuid.New().String(),
		Sender:    sender,
		Text:      text,
		CreatedAt: time.Now(),
	}
}

// DisplayTime formats the creation time the way the chat UI renders it.
func (m Message) DisplayTime() string {
	return m.CreatedAt.Format("15:04:05")
}
