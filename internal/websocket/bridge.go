package websocket

import (
	"github.com/isdelr/mindcare-be/internal/models"
	"github.com/isdelr/mindcare-be/internal/store"
)

// TopicEvents carries activity log entries. Store changes use their
// collection name as topic.
const TopicEvents = "events"

// ForwardChanges publishes every store change on its collection's topic until
// the returned cancel is called.
func ForwardChanges(st *store.Store, h *Hub) (cancel func()) {
	return st.Subscribe(func(c store.Change) {
		topic := string(c.Collection)
		h.Publish(topic, Encode(Message{Action: ActionChange, Topic: topic, Payload: c}))
	})
}

// PublishEvent pushes an activity event to clients following TopicEvents.
func (h *Hub) PublishEvent(e models.Event) {
	h.Publish(TopicEvents, Encode(Message{Action: ActionEvent, Topic: TopicEvents, Payload: e}))
}
