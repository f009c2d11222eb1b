// Package relay implements the thin completions relay: a FAQ check in
// front of the OpenAI chat completions API.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/andazbayan/andaz-bot/internal/faq"
	"github.com/andazbayan/andaz-bot/pkg/utils"
)

const systemPrompt = "I'm a helpful assistant for Andaz-e-Bayan Aur website."

// completer is the slice of the OpenAI client the relay uses.
type completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Handler struct {
	table       *faq.Table
	client      completer
	model       string
	maxTokens   int
	temperature float64
	logger      *zap.Logger
}

// New builds the relay handler. An empty API key disables the upstream
// call; the relay then answers with a labeled local fallback.
func New(table *faq.Table, apiKey, model string, maxTokens int, temperature float64, logger *zap.Logger) *Handler {
	h := &Handler{
		table:       table,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger,
	}
	if apiKey != "" {
		h.client = openai.NewClient(apiKey)
	}
	return h
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(payload.Message) == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}

	// FAQ first: a hit never reaches the upstream API.
	if reply, ok := h.table.Match(payload.Message); ok {
		respondReply(w, reply)
		return
	}

	if h.client == nil {
		respondReply(w, fmt.Sprintf("Local bot fallback: %q", payload.Message))
		return
	}

	resp, err := h.client.CreateChatCompletion(r.Context(), openai.ChatCompletionRequest{
		Model: h.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: payload.Message},
		},
		MaxTokens:   h.maxTokens,
		Temperature: float32(h.temperature),
	})
	if err != nil {
		h.logger.Error("Chat completion failed", zap.Error(err))
		respondReply(w, "Server error. Please try again later.")
		return
	}

	reply := "Sorry, no reply."
	if len(resp.Choices) > 0 {
		if content := strings.TrimSpace(resp.Choices[0].Message.Content); content != "" {
			reply = content
		}
	}
	respondReply(w, reply)
}

func respondReply(w http.ResponseWriter, reply string) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{"reply": reply})
}
