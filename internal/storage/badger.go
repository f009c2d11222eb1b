package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/andazbayan/andaz-bot/internal/models"
)

// BadgerStorage persists the session blob in an embedded BadgerDB
// directory. This is the default on-device persistence.
type BadgerStorage struct {
	db *badger.DB
}

func NewBadgerStorage(dirPath string) (*BadgerStorage, error) {
	opts := badger.DefaultOptions(dirPath).
		WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	return &BadgerStorage{db: db}, nil
}

func (s *BadgerStorage) LoadSessions(ctx context.Context) ([]models.ChatSession, error) {
	var blob []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(SessionsKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			blob = append([]byte(nil), val...)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions: %w", err)
	}

	return decodeSessions(blob)
}

func (s *BadgerStorage) SaveSessions(ctx context.Context, sessions []models.ChatSession) error {
	data, err := encodeSessions(sessions)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(SessionsKey), data)
	})
}

func (s *BadgerStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
