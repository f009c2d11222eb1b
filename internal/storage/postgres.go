package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/andazbayan/andaz-bot/internal/models"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// PostgresStorage keeps the session blob in a single-row key-value table,
// for deployments where the chat service runs server-side.
type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config DatabaseConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	storage := &PostgresStorage{db: db}

	if err := storage.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}

	return storage, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %w", err)
	}

	if _, err := s.db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %w", err)
	}

	return nil
}

func (s *PostgresStorage) LoadSessions(ctx context.Context) ([]models.ChatSession, error) {
	var blob []byte
	query := `SELECT value FROM chat_store WHERE key = $1`

	err := s.db.QueryRowContext(ctx, query, SessionsKey).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error reading sessions: %w", err)
	}

	return decodeSessions(blob)
}

func (s *PostgresStorage) SaveSessions(ctx context.Context, sessions []models.ChatSession) error {
	data, err := encodeSessions(sessions)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO chat_store (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = NOW()`

	if _, err := s.db.ExecContext(ctx, query, SessionsKey, data); err != nil {
		return fmt.Errorf("error saving sessions: %w", err)
	}

	return nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
