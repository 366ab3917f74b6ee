package webchat

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/wolfman30/ohc-assist/internal/assistant"
	"github.com/wolfman30/ohc-assist/internal/generation"
	"github.com/wolfman30/ohc-assist/internal/pipeline"
	"github.com/wolfman30/ohc-assist/pkg/logging"
	"golang.org/x/net/websocket"
)

// Sessions is the part of the assistant the widget talks to.
type Sessions interface {
	StartChat() *assistant.ChatSession
	Chat(id string) (*assistant.ChatSession, error)
}

// Handler serves the chat widget's websocket.
type Handler struct {
	sessions Sessions
	logger   *logging.Logger
	now      func() time.Time
}

// InboundMessage is what the widget sends.
type InboundMessage struct {
	Type string `json:"type"` // "message", "ping"
	Text string `json:"text"`
}

// OutboundMessage is what we send to the widget.
type OutboundMessage struct {
	Type           string           `json:"type"` // "session", "history", "typing", "message", "pong", "error"
	Text           string           `json:"text,omitempty"`
	Role           string           `json:"role,omitempty"`
	Origin         pipeline.Origin  `json:"origin,omitempty"`
	SessionID      string           `json:"session_id,omitempty"`
	Greeting       string           `json:"greeting,omitempty"`
	QuickQuestions []string         `json:"quick_questions,omitempty"`
	Timestamp      string           `json:"timestamp,omitempty"`
	Messages       []HistoryMessage `json:"messages,omitempty"`
}

// HistoryMessage is one transcript entry replayed on connect.
type HistoryMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// NewHandler creates a web chat handler.
func NewHandler(sessions Sessions, logger *logging.Logger) *Handler {
	if sessions == nil {
		panic("webchat: sessions cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{sessions: sessions, logger: logger, now: time.Now}
}

// HandleWebSocket upgrades to WebSocket and handles real-time messaging.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	// The hijacked connection inherits http.Server deadlines.
	_ = conn.SetDeadline(time.Time{})

	session := h.resolveSession(r.URL.Query().Get("session"))
	out := &sender{conn: conn}
	profile := session.Profile()

	out.send(OutboundMessage{
		Type:           "session",
		SessionID:      session.ID(),
		Greeting:       profile.Greeting,
		QuickQuestions: profile.QuickQuestions,
	})
	out.send(OutboundMessage{Type: "history", Messages: historyOf(session.Transcript())})

	h.logger.Info("webchat: connection opened", "session_id", session.ID())

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("webchat: connection closed", "session_id", session.ID(), "error", err)
			return
		}

		switch msg.Type {
		case "ping":
			out.send(OutboundMessage{Type: "pong"})
		case "message":
			if strings.TrimSpace(msg.Text) == "" {
				continue
			}
			h.processMessage(r, session, out, msg.Text)
		}
	}
}

// resolveSession resumes a known session or starts a new one.
func (h *Handler) resolveSession(id string) *assistant.ChatSession {
	if id = strings.TrimSpace(id); id != "" {
		if session, err := h.sessions.Chat(id); err == nil {
			return session
		}
	}
	return h.sessions.StartChat()
}

func (h *Handler) processMessage(r *http.Request, session *assistant.ChatSession, out *sender, text string) {
	typing := func(state pipeline.State) {
		if state == pipeline.StatePending {
			out.send(OutboundMessage{Type: "typing"})
		}
	}

	result, err := session.Submit(r.Context(), text, typing)
	switch {
	case errors.Is(err, assistant.ErrSessionBusy):
		out.send(OutboundMessage{Type: "error", Text: "Still working on your last question. One moment please."})
		return
	case err != nil:
		h.logger.Error("webchat: submit failed", "session_id", session.ID(), "error", err)
		out.send(OutboundMessage{Type: "error", Text: "Sorry, something went wrong. Please try again."})
		return
	}

	out.send(OutboundMessage{
		Type:      "message",
		Role:      string(generation.SpeakerAssistant),
		Text:      result.Payload,
		Origin:    result.Origin,
		Timestamp: h.now().UTC().Format(time.RFC3339),
	})
}

func historyOf(turns []generation.Turn) []HistoryMessage {
	history := make([]HistoryMessage, 0, len(turns))
	for _, t := range turns {
		history = append(history, HistoryMessage{Role: string(t.Speaker), Text: t.Text})
	}
	return history
}

// sender serialises writes to one connection.
type sender struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *sender) send(msg OutboundMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = websocket.JSON.Send(s.conn, msg)
}
