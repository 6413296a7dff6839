package websocket

import (
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// publishBuffer is how many outgoing messages may queue before Publish drops.
const publishBuffer = 256

type subscription struct {
	client *Client
	topic  string
	on     bool
}

// following is the topic filter of one client. A client registered without
// topics follows everything; unsubscribing never widens the filter.
type following struct {
	all    bool
	topics map[string]bool
}

func (f following) wants(topic string) bool {
	return f.all || f.topics[topic]
}

type envelope struct {
	topic   string
	target  *Client // Set for direct replies
	message []byte
}

// Hub maintains the set of active clients and routes topic messages to them.
type Hub struct {
	// Registered clients and the topics each follows.
	clients map[*Client]following

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	subscribe chan subscription
	publish   chan envelope
	quit      chan struct{}

	connected atomic.Int64
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]following),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		subscribe:  make(chan subscription),
		publish:    make(chan envelope, publishBuffer),
		quit:       make(chan struct{}),
	}
}

// Run starts the Hub's message processing loop. It returns after Stop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			f := following{all: len(client.initialTopics) == 0, topics: make(map[string]bool, len(client.initialTopics))}
			for _, t := range client.initialTopics {
				f.topics[t] = true
			}
			h.clients[client] = f
			h.connected.Store(int64(len(h.clients)))
			log.Info().Int("total_clients", len(h.clients)).Str("user_id", client.UserID).Msg("Client connected")

		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}

		case sub := <-h.subscribe:
			f, ok := h.clients[sub.client]
			if !ok {
				continue
			}
			if sub.on {
				f.topics[sub.topic] = true
			} else {
				delete(f.topics, sub.topic)
			}

		case env := <-h.publish:
			if env.target != nil {
				if _, ok := h.clients[env.target]; ok {
					h.deliver(env.target, env.message)
				}
				continue
			}
			for client, f := range h.clients {
				if !f.wants(env.topic) {
					continue
				}
				h.deliver(client, env.message)
			}

		case <-h.quit:
			for client := range h.clients {
				h.drop(client)
			}
			return
		}
	}
}

// Stop ends Run and closes every client's send channel.
func (h *Hub) Stop() {
	close(h.quit)
}

// Publish queues message for every client following topic. When the queue is
// full the message is dropped.
func (h *Hub) Publish(topic string, message []byte) {
	select {
	case h.publish <- envelope{topic: topic, message: message}:
	default:
		log.Warn().Str("topic", topic).Msg("Websocket publish queue full, dropping message")
	}
}

// Reply queues message for a single client.
func (h *Hub) Reply(client *Client, message []byte) {
	select {
	case h.publish <- envelope{target: client, message: message}:
	default:
		log.Warn().Str("user_id", client.UserID).Msg("Websocket publish queue full, dropping reply")
	}
}

// Join registers client unless the hub has stopped.
func (h *Hub) Join(client *Client) {
	select {
	case h.Register <- client:
	case <-h.quit:
	}
}

// Leave unregisters client unless the hub has stopped.
func (h *Hub) Leave(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.quit:
	}
}

// Subscribe adds topic to the client's followed topics.
func (h *Hub) Subscribe(client *Client, topic string) {
	select {
	case h.subscribe <- subscription{client: client, topic: topic, on: true}:
	case <-h.quit:
	}
}

// Unsubscribe removes topic from the client's followed topics.
func (h *Hub) Unsubscribe(client *Client, topic string) {
	select {
	case h.subscribe <- subscription{client: client, topic: topic, on: false}:
	case <-h.quit:
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	return int(h.connected.Load())
}

func (h *Hub) deliver(client *Client, message []byte) {
	select {
	case client.Send <- message:
	default:
		h.drop(client)
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.Send)
	h.connected.Store(int64(len(h.clients)))
}
