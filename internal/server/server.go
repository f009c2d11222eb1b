// Package server exposes the chat service to UI clients over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/andazbayan/andaz-bot/internal/chat"
	"github.com/andazbayan/andaz-bot/pkg/utils"
)

type Handler struct {
	svc    *chat.Service
	logger *zap.Logger
}

func NewHandler(svc *chat.Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// NewRouter wires the chat API routes with standard middleware.
func NewRouter(svc *chat.Service, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h := NewHandler(svc, logger)
	r.Route("/api", h.RegisterRoutes)

	return r
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/sessions", h.handleListSessions)
	r.Post("/sessions", h.handleCreateSession)
	r.Get("/sessions/active", h.handleActiveSession)
	r.Delete("/sessions/{sessionID}", h.handleDeleteSession)
	r.Post("/sessions/{sessionID}/activate", h.handleActivateSession)
	r.Post("/sessions/{sessionID}/messages", h.handleSendMessage)
	r.Get("/sessions/{sessionID}/busy", h.handleBusy)
}

func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.svc.Sessions())
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session := h.svc.CreateSession(r.Context(), payload.Title)
	utils.RespondJSON(w, http.StatusCreated, session)
}

func (h *Handler) handleActiveSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.svc.ActiveSession()
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "no active session")
		return
	}
	utils.RespondJSON(w, http.StatusOK, session)
}

func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := h.svc.DeleteSession(r.Context(), sessionID); err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleActivateSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := h.svc.SwitchSession(sessionID); err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.svc.Send(r.Context(), sessionID, payload.Text)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyMessage):
			utils.RespondError(w, http.StatusBadRequest, "message text is required")
		case errors.Is(err, chat.ErrNoSessions):
			utils.RespondError(w, http.StatusBadRequest, "create a chat first")
		case errors.Is(err, chat.ErrSessionNotFound):
			utils.RespondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, chat.ErrSendInFlight):
			utils.RespondError(w, http.StatusConflict, err.Error())
		default:
			h.logger.Error("Send failed",
				zap.Error(err),
				zap.String("session_id", sessionID))
			utils.RespondError(w, http.StatusInternalServerError, "send failed")
		}
		return
	}

	utils.RespondJSON(w, http.StatusOK, reply)
}

func (h *Handler) handleBusy(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if _, ok := h.svc.Session(sessionID); !ok {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]bool{"busy": h.svc.IsBusy(sessionID)})
}
