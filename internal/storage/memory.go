package storage

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/andazbayan/andaz-bot/internal/models"
)

// MemoryStorage keeps the serialized blob in memory. Used for tests and
// for running without any persistence configured.
type MemoryStorage struct {
	mu   sync.RWMutex
	blob []byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (s *MemoryStorage) LoadSessions(ctx context.Context) ([]models.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.blob == nil {
		return nil, ErrNotFound
	}
	return decodeSessions(s.blob)
}

func (s *MemoryStorage) SaveSessions(ctx context.Context, sessions []models.ChatSession) error {
	data, err := encodeSessions(sessions)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.blob = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}

// Corrupt overwrites the stored blob with garbage. Test hook for the
// bootstrap reseed path.
func (s *MemoryStorage) Corrupt() {
	s.mu.Lock()
	s.blob = []byte("{not json")
	s.mu.Unlock()
}

func encodeSessions(sessions []models.ChatSession) ([]byte, error) {
	if sessions == nil {
		sessions = []models.ChatSession{}
	}
	return json.Marshal(sessions)
}

func decodeSessions(data []byte) ([]models.ChatSession, error) {
	var sessions []models.ChatSession
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, ErrCorrupt
	}
	return sessions, nil
}
