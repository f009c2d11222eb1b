package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultSessionTitle is used when a session is created without a name.
const DefaultSessionTitle = "Untitled Chat"

// ChatSession is a named conversation thread. Messages are stored in
// insertion order, which is also chronological order.
type ChatSession struct {
	SessionID string    `json:"session_id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
}

func NewChatSession(title string) ChatSession {
	if title == "" {
		title = DefaultSessionTitle
	}
	return ChatSession{
		SessionID: uuid.New().String(),
		Title:     title,
		Messages:  []Message{},
		CreatedAt: time.Now(),
	}
}

// WithMessage returns a copy of the session with msg appended. Sessions
// are treated as values so the store can swap them in atomically.
func (s ChatSession) WithMessage(msg Message) ChatSession {
	messages := make([]Message, 0, len(s.Messages)+1)
	messages = append(messages, s.Messages...)
	messages = append(messages, msg)
	s.Messages = messages
	return s
}

// LastMessage returns the most recent message, or false if the session is empty.
func (s ChatSession) LastMessage() (Message, bool) {
	if len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}
