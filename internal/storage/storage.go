package storage

import (
	"context"
	"errors"

	"github.com/andazbayan/andaz-bot/internal/models"
)

// SessionsKey is the fixed key the whole session list is stored under.
// The value is the JSON-serialized ordered list of sessions, overwritten
// as a unit after every mutation.
const SessionsKey = "chat_sessions_v1"

var (
	// ErrNotFound means nothing has been persisted yet.
	ErrNotFound = errors.New("no stored sessions")
	// ErrCorrupt means the stored blob exists but does not parse.
	ErrCorrupt = errors.New("stored sessions are corrupt")
)

// Storage persists the session list as a single blob. Implementations
// must be safe for concurrent use.
type Storage interface {
	LoadSessions(ctx context.Context) ([]models.ChatSession, error)
	SaveSessions(ctx context.Context, sessions []models.ChatSession) error
	Close() error
}
