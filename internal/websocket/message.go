package websocket

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// Actions carried by Message.
const (
	ActionChange      = "change"
	ActionEvent       = "event"
	ActionError       = "error"
	ActionSubscribe   = "subscribe"
	ActionUnsubscribe = "unsubscribe"
	ActionSubscribed  = "subscribed"
)

// Message defines the structure for websocket messages. Subscribe and
// unsubscribe requests name their topic in Topic.
type Message struct {
	Action  string      `json:"action"`
	Topic   string      `json:"topic,omitempty"`
	Payload interface{} `json:"payload"`
}

// Encode marshals m, logging and returning nil on failure.
func Encode(m Message) []byte {
	b, err := json.Marshal(m)
	if err != nil {
		log.Error().Err(err).Str("action", m.Action).Msg("Failed to encode websocket message")
		return nil
	}
	return b
}

// NewErrorMessage builds an encoded error message.
func NewErrorMessage(text string) []byte {
	return Encode(Message{Action: ActionError, Payload: map[string]string{"message": text}})
}
