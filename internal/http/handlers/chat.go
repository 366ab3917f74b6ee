package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/wolfman30/ohc-assist/internal/assistant"
	"github.com/wolfman30/ohc-assist/internal/generation"
	"github.com/wolfman30/ohc-assist/internal/pipeline"
	"github.com/wolfman30/ohc-assist/pkg/logging"
)

// ChatService is the chat half of assistant.Service.
type ChatService interface {
	StartChat() *assistant.ChatSession
	Chat(id string) (*assistant.ChatSession, error)
	SubmitChatMessage(ctx context.Context, sessionID, text string) (pipeline.DisplayResult[string], error)
}

// ChatHandler exposes chat sessions over plain HTTP for clients without
// websockets.
type ChatHandler struct {
	chats  ChatService
	logger *logging.Logger
}

func NewChatHandler(chats ChatService, logger *logging.Logger) *ChatHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ChatHandler{chats: chats, logger: logger}
}

type startChatResponse struct {
	SessionID      string   `json:"session_id"`
	Greeting       string   `json:"greeting"`
	QuickQuestions []string `json:"quick_questions"`
}

type chatMessageRequest struct {
	Text string `json:"text"`
}

type chatMessageResponse struct {
	Text   string          `json:"text"`
	Origin pipeline.Origin `json:"origin"`
}

type transcriptResponse struct {
	SessionID string            `json:"session_id"`
	Pending   bool              `json:"pending"`
	Messages  []generation.Turn `json:"messages"`
}

// StartSession handles POST /api/chat/sessions.
func (h *ChatHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	session := h.chats.StartChat()
	profile := session.Profile()
	writeJSON(w, http.StatusCreated, startChatResponse{
		SessionID:      session.ID(),
		Greeting:       profile.Greeting,
		QuickQuestions: profile.QuickQuestions,
	})
}

// PostMessage handles POST /api/chat/sessions/{id}/messages. The response is
// written once the reply has settled, generated or fallback.
func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var req chatMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	result, err := h.chats.SubmitChatMessage(r.Context(), id, req.Text)
	if err != nil {
		writeAssistantError(w, h.logger, id, err)
		return
	}
	writeJSON(w, http.StatusOK, chatMessageResponse{Text: result.Payload, Origin: result.Origin})
}

// GetTranscript handles GET /api/chat/sessions/{id}.
func (h *ChatHandler) GetTranscript(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	session, err := h.chats.Chat(id)
	if err != nil {
		writeAssistantError(w, h.logger, id, err)
		return
	}
	writeJSON(w, http.StatusOK, transcriptResponse{
		SessionID: session.ID(),
		Pending:   session.Pending(),
		Messages:  session.Transcript(),
	})
}

// writeAssistantError maps assistant errors to status codes.
func writeAssistantError(w http.ResponseWriter, logger *logging.Logger, id string, err error) {
	switch {
	case errors.Is(err, assistant.ErrSessionNotFound):
		jsonError(w, "session not found", http.StatusNotFound)
	case errors.Is(err, assistant.ErrSessionBusy):
		jsonError(w, "a reply is still pending", http.StatusConflict)
	case errors.Is(err, assistant.ErrEmptyMessage):
		jsonError(w, "text is required", http.StatusBadRequest)
	case errors.Is(err, assistant.ErrInvalidRebateParams):
		jsonError(w, err.Error(), http.StatusBadRequest)
	default:
		logger.Error("assistant request failed", "session_id", id, "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
	}
}
