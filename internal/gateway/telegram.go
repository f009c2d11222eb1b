// Package gateway runs alternative front ends over the chat core.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/andazbayan/andaz-bot/internal/chat"
	"github.com/andazbayan/andaz-bot/internal/models"
)

// Telegram bridges Telegram chats onto chat sessions: each Telegram
// chat gets its own session, created on first contact.
type Telegram struct {
	api    *tgbotapi.BotAPI
	svc    *chat.Service
	logger *zap.Logger

	mu       sync.Mutex
	sessions map[int64]string
}

func NewTelegram(token string, svc *chat.Service, logger *zap.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Telegram{
		api:      api,
		svc:      svc,
		logger:   logger,
		sessions: make(map[int64]string),
	}, nil
}

// Start consumes Telegram updates until ctx is canceled.
func (t *Telegram) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := t.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			t.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			go t.handleMessage(ctx, update.Message)
		}
	}
}

func (t *Telegram) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.IsCommand() {
		t.handleCommand(ctx, message)
		return
	}

	sessionID := t.sessionFor(ctx, message)

	reply, err := t.svc.Send(ctx, sessionID, message.Text)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyMessage):
			t.sendText(message.Chat.ID, "Please send me some text.")
		case errors.Is(err, chat.ErrSendInFlight):
			t.sendText(message.Chat.ID, "Still thinking about your last message, one moment...")
		default:
			t.logger.Error("Failed to dispatch message",
				zap.Error(err),
				zap.Int64("chat_id", message.Chat.ID),
				zap.String("session_id", sessionID))
			t.sendText(message.Chat.ID, "Sorry, something went wrong!")
		}
		return
	}

	t.sendText(message.Chat.ID, reply.Text)
}

func (t *Telegram) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		t.sessionFor(ctx, message)
		t.sendText(message.Chat.ID, "Assalam-o-Alaikum! I'm the Andaz-e-Bayan Aur assistant. Ask me about Urdu poetry, calligraphy, challenges, or your orders.")
	case "help":
		t.sendText(message.Chat.ID, "Just send me a question and I'll answer from the Andaz-e-Bayan Aur knowledge base, or ask the AI for anything else.\n\nCommands:\n/new - start a fresh chat\n/history - show your recent messages")
	case "new":
		session := t.svc.CreateSession(ctx, chatTitle(message))
		t.mu.Lock()
		t.sessions[message.Chat.ID] = session.SessionID
		t.mu.Unlock()
		t.sendText(message.Chat.ID, "Started a fresh chat. What would you like to know?")
	case "history":
		t.handleHistory(ctx, message)
	default:
		t.sendText(message.Chat.ID, "Unknown command. Use /help to see available commands.")
	}
}

func (t *Telegram) handleHistory(ctx context.Context, message *tgbotapi.Message) {
	sessionID := t.sessionFor(ctx, message)
	session, ok := t.svc.Session(sessionID)
	if !ok || len(session.Messages) == 0 {
		t.sendText(message.Chat.ID, "You don't have any messages yet.")
		return
	}

	messages := session.Messages
	if len(messages) > 10 {
		messages = messages[len(messages)-10:]
	}

	var b strings.Builder
	b.WriteString("Your recent messages:\n\n")
	for _, msg := range messages {
		label := "You"
		if msg.Sender == models.SenderBot {
			label = "Bot"
		}
		fmt.Fprintf(&b, "%s [%s]: %s\n", label, msg.DisplayTime(), msg.Text)
	}
	t.sendText(message.Chat.ID, b.String())
}

// sessionFor returns the session bound to the Telegram chat, creating
// one if the chat is new or its session was deleted elsewhere.
func (t *Telegram) sessionFor(ctx context.Context, message *tgbotapi.Message) string {
	t.mu.Lock()
	sessionID, ok := t.sessions[message.Chat.ID]
	t.mu.Unlock()

	if ok {
		if _, exists := t.svc.Session(sessionID); exists {
			return sessionID
		}
	}

	session := t.svc.CreateSession(ctx, chatTitle(message))
	t.mu.Lock()
	t.sessions[message.Chat.ID] = session.SessionID
	t.mu.Unlock()
	return session.SessionID
}

func chatTitle(message *tgbotapi.Message) string {
	if message.From != nil && message.From.FirstName != "" {
		return "Chat with " + message.From.FirstName
	}
	return fmt.Sprintf("Telegram chat %d", message.Chat.ID)
}

func (t *Telegram) sendText(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := t.api.Send(msg); err != nil {
		t.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}
