package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/isdelr/mindcare-be/internal/auth"
	ws "github.com/isdelr/mindcare-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler handles upgrading HTTP connections to WebSocket connections.
type WebSocketHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler accepting connections
// from allowedOrigins. An empty list accepts any origin.
func NewWebSocketHandler(hub *ws.Hub, allowedOrigins []string) *WebSocketHandler {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}

	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(origins) == 0 || origins[origin]
			},
		},
	}
}

// Serve handles the WebSocket connection request. ?topics=a,b limits the
// pushed topics; without it the client receives everything.
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}

	var topics []string
	for _, t := range strings.Split(r.URL.Query().Get("topics"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}

	userID := ""
	if u, ok := auth.CurrentUser(r); ok {
		userID = u.ID
	}

	client := ws.NewClient(h.hub, conn, userID, topics)
	h.hub.Join(client)

	go client.WritePump()
	go func() {
		client.ReadPump(h.handleIncomingWSMessage)
		h.hub.Leave(client)
		log.Debug().Str("user_id", userID).Msg("Websocket connection closed")
	}()
}

// handleIncomingWSMessage processes messages received from a websocket client.
func (h *WebSocketHandler) handleIncomingWSMessage(client *ws.Client, message []byte) {
	var msg ws.Message
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Error().Err(err).Bytes("message", message).Msg("Error decoding websocket message")
		h.hub.Reply(client, ws.NewErrorMessage("Invalid message"))
		return
	}

	switch msg.Action {
	case ws.ActionSubscribe, ws.ActionUnsubscribe:
		topic := strings.TrimSpace(msg.Topic)
		if topic == "" {
			h.hub.Reply(client, ws.NewErrorMessage("Missing topic"))
			return
		}
		if msg.Action == ws.ActionSubscribe {
			h.hub.Subscribe(client, topic)
		} else {
			h.hub.Unsubscribe(client, topic)
		}
		log.Debug().Str("user_id", client.UserID).Str("action", msg.Action).Str("topic", topic).Msg("Websocket topic change")
		h.hub.Reply(client, ws.Encode(ws.Message{Action: ws.ActionSubscribed, Topic: topic, Payload: msg.Action == ws.ActionSubscribe}))

	default:
		log.Warn().Str("action", msg.Action).Msg("Unknown websocket action received")
		h.hub.Reply(client, ws.NewErrorMessage("Unknown action: "+msg.Action))
	}
}
