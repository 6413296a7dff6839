package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/isdelr/mindcare-be/internal/assistant"
	"github.com/isdelr/mindcare-be/internal/monitoring"
)

// Assistant answers chat messages.
type Assistant interface {
	Reply(ctx context.Context, history []assistant.Message, message string) assistant.Reply
}

// AssistantHandler serves the student support chat.
type AssistantHandler struct {
	assistant Assistant
}

// NewAssistantHandler creates a new AssistantHandler.
func NewAssistantHandler(a Assistant) *AssistantHandler {
	return &AssistantHandler{assistant: a}
}

// ChatRequest is the conversation so far plus the new student message.
type ChatRequest struct {
	History []assistant.Message `json:"history"`
	Message string              `json:"message"`
}

// TopicsResponse is what the chat screen shows before the first message.
type TopicsResponse struct {
	Greeting          string              `json:"greeting"`
	Topics            []string            `json:"topics"`
	EmergencyContacts []assistant.Contact `json:"emergencyContacts"`
}

// Topics returns the greeting, quick topics and emergency contacts.
func (h *AssistantHandler) Topics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, TopicsResponse{
		Greeting:          assistant.Greeting,
		Topics:            assistant.QuickTopics,
		EmergencyContacts: assistant.EmergencyContacts,
	})
}

// Chat forwards the message to the assistant. Upstream failures come back as
// a 200 with a canned reply flagged isError.
func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Please enter a message."})
		return
	}

	reply := h.assistant.Reply(r.Context(), req.History, message)
	monitoring.AssistantReplies.WithLabelValues(reply.Outcome).Inc()
	writeJSON(w, http.StatusOK, reply)
}
