// Package chat owns the session list and the message dispatch pipeline.
// The Service is the sole mutator of chat state; front ends read through
// its accessors and subscribe to change notifications.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/andazbayan/andaz-bot/internal/models"
	"github.com/andazbayan/andaz-bot/internal/storage"
)

var (
	ErrEmptyMessage    = errors.New("message text is empty")
	ErrSessionNotFound = errors.New("session not found")
	ErrNoSessions      = errors.New("no chat sessions exist")
	ErrSendInFlight    = errors.New("a send is already in flight for this session")
)

const (
	welcomeTitle   = "Welcome"
	welcomeMessage = "Assalam-o-Alaikum! I'm here to help you."
)

// Resolver maps user text to a bot reply. It must be total: every
// failure degrades to a reply string.
type Resolver interface {
	Resolve(ctx context.Context, text string) string
}

// Service holds the ordered session list, the active-session pointer,
// and per-session busy flags. Every mutation is written through to
// storage as one blob; write failures leave the in-memory state
// authoritative for the life of the process.
type Service struct {
	mu       sync.RWMutex
	sessions []models.ChatSession
	activeID string
	busy     map[string]bool

	// persistMu serializes snapshot-plus-save so blob writes land in
	// mutation order: held from before a mutation's snapshot is taken
	// until its storage write returns.
	persistMu sync.Mutex

	store    storage.Storage
	resolver Resolver
	logger   *zap.Logger

	obsMu     sync.Mutex
	observers []func()
}

func NewService(store storage.Storage, resolver Resolver, logger *zap.Logger) *Service {
	return &Service{
		busy:     make(map[string]bool),
		store:    store,
		resolver: resolver,
		logger:   logger,
	}
}

// Load restores the session list from storage. An absent blob seeds a
// welcome session; a corrupt blob is discarded and reseeded; any other
// read failure starts the service empty. Load never fails the process.
func (s *Service) Load(ctx context.Context) {
	sessions, err := s.store.LoadSessions(ctx)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.logger.Info("No stored sessions, seeding welcome session")
		s.seed(ctx)
	case errors.Is(err, storage.ErrCorrupt):
		s.logger.Warn("Stored sessions are corrupt, discarding and reseeding",
			zap.Error(err))
		s.seed(ctx)
	case err != nil:
		s.logger.Error("Failed to load sessions, starting empty",
			zap.Error(err))
	default:
		s.mu.Lock()
		s.sessions = sessions
		s.activeID = ""
		if len(sessions) > 0 {
			// The active pointer is transient: reopening always lands
			// on the first (most recently created) session.
			s.activeID = sessions[0].SessionID
		}
		s.mu.Unlock()
		s.logger.Info("Restored chat sessions",
			zap.Int("count", len(sessions)))
	}
	s.notify()
}

func (s *Service) seed(ctx context.Context) {
	session := models.NewChatSession(welcomeTitle)
	session = session.WithMessage(models.NewMessage(models.SenderBot, welcomeMessage))

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	s.sessions = []models.ChatSession{session}
	s.activeID = session.SessionID
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
}

// Subscribe registers a callback invoked after every state change.
// Callbacks run outside the service lock and may call accessors.
func (s *Service) Subscribe(fn func()) {
	s.obsMu.Lock()
	s.observers = append(s.observers, fn)
	s.obsMu.Unlock()
}

func (s *Service) notify() {
	s.obsMu.Lock()
	observers := make([]func(), len(s.observers))
	copy(observers, s.observers)
	s.obsMu.Unlock()

	for _, fn := range observers {
		fn()
	}
}

// Sessions returns the session list in display order, newest first.
func (s *Service) Sessions() []models.ChatSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// ActiveSession returns the currently open session, if any.
func (s *Service) ActiveSession() (models.ChatSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexLocked(s.activeID)
	if idx < 0 {
		return models.ChatSession{}, false
	}
	return s.sessions[idx], true
}

// Session returns a single session by id.
func (s *Service) Session(sessionID string) (models.ChatSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexLocked(sessionID)
	if idx < 0 {
		return models.ChatSession{}, false
	}
	return s.sessions[idx], true
}

// IsBusy reports whether a send is in flight for the session.
func (s *Service) IsBusy(sessionID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.busy[sessionID]
}

// CreateSession prepends a new session, makes it active, and persists.
func (s *Service) CreateSession(ctx context.Context, title string) models.ChatSession {
	session := models.NewChatSession(strings.TrimSpace(title))

	s.persistMu.Lock()
	s.mu.Lock()
	s.sessions = append([]models.ChatSession{session}, s.sessions...)
	s.activeID = session.SessionID
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	s.persistMu.Unlock()

	s.notify()
	return session
}

// DeleteSession removes a session. Deleting the active session moves
// the active pointer to the first remaining session, or clears it.
func (s *Service) DeleteSession(ctx context.Context, sessionID string) error {
	s.persistMu.Lock()
	s.mu.Lock()
	idx := s.indexLocked(sessionID)
	if idx < 0 {
		s.mu.Unlock()
		s.persistMu.Unlock()
		return ErrSessionNotFound
	}

	s.sessions = append(s.sessions[:idx], s.sessions[idx+1:]...)
	if s.activeID == sessionID {
		s.activeID = ""
		if len(s.sessions) > 0 {
			s.activeID = s.sessions[0].SessionID
		}
	}
	delete(s.busy, sessionID)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	s.persistMu.Unlock()

	s.notify()
	return nil
}

// SwitchSession moves the active pointer. The pointer is transient and
// is not persisted.
func (s *Service) SwitchSession(sessionID string) error {
	s.mu.Lock()
	if s.indexLocked(sessionID) < 0 {
		s.mu.Unlock()
		return ErrSessionNotFound
	}
	s.activeID = sessionID
	s.mu.Unlock()

	s.notify()
	return nil
}

// Send runs one dispatch: append the user message, resolve the reply,
// append the bot message. Each append is persisted before the next step.
// The session is busy for the whole dispatch and overlapping sends to it
// are rejected. Returns the bot message.
func (s *Service) Send(ctx context.Context, sessionID, text string) (models.Message, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return models.Message{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if len(s.sessions) == 0 {
		s.mu.Unlock()
		return models.Message{}, ErrNoSessions
	}
	if s.indexLocked(sessionID) < 0 {
		s.mu.Unlock()
		return models.Message{}, ErrSessionNotFound
	}
	if s.busy[sessionID] {
		s.mu.Unlock()
		return models.Message{}, ErrSendInFlight
	}
	s.busy[sessionID] = true
	s.mu.Unlock()

	// The busy flag clears whether the resolver succeeded or degraded.
	defer func() {
		s.mu.Lock()
		delete(s.busy, sessionID)
		s.mu.Unlock()
		s.notify()
	}()
	s.notify()

	userMsg := models.NewMessage(models.SenderUser, trimmed)
	if err := s.appendMessage(ctx, sessionID, userMsg); err != nil {
		return models.Message{}, err
	}
	s.notify()

	reply := s.resolver.Resolve(ctx, trimmed)

	botMsg := models.NewMessage(models.SenderBot, reply)
	if err := s.appendMessage(ctx, sessionID, botMsg); err != nil {
		return models.Message{}, err
	}
	s.notify()

	return botMsg, nil
}

// appendMessage swaps in a copy of the session with msg appended and
// persists the whole store. The session may have been deleted while a
// send was suspended on the network; that surfaces as not-found rather
// than a crash.
func (s *Service) appendMessage(ctx context.Context, sessionID string, msg models.Message) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	idx := s.indexLocked(sessionID)
	if idx < 0 {
		s.mu.Unlock()
		return ErrSessionNotFound
	}
	s.sessions[idx] = s.sessions[idx].WithMessage(msg)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	return nil
}

func (s *Service) persist(ctx context.Context, sessions []models.ChatSession) {
	if err := s.store.SaveSessions(ctx, sessions); err != nil {
		// In-memory state stays authoritative; the write is not retried.
		s.logger.Error("Failed to persist sessions",
			zap.Error(err),
			zap.Int("count", len(sessions)))
	}
}

func (s *Service) indexLocked(sessionID string) int {
	if sessionID == "" {
		return -1
	}
	for i, session := range s.sessions {
		if session.SessionID == sessionID {
			return i
		}
	}
	return -1
}

func (s *Service) snapshotLocked() []models.ChatSession {
	snapshot := make([]models.ChatSession, len(s.sessions))
	copy(snapshot, s.sessions)
	return snapshot
}
